package tracer

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// Logger defines the interface for logging operations in the tracer package.
// This interface allows the package to use any logging implementation that
// conforms to these methods.
//
//go:generate mockgen -source=setup.go -destination=mock_logger.go -package=tracer
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	Fatal(msg string, err error, fields ...map[string]interface{})
}

// Tracer provides a simplified API for distributed tracing with OpenTelemetry.
// It wraps the OpenTelemetry TracerProvider and provides convenient methods
// for creating spans, recording errors, and propagating trace context across
// service boundaries.
//
// The Tracer is designed to be thread-safe and can be shared across goroutines.
type Tracer struct {
	tracer *trace.TracerProvider
	logger Logger
}

// NewClient creates and initializes a new Tracer instance with OpenTelemetry.
//
// When export is enabled in the configuration, an OTLP/gRPC exporter bound to
// cfg.Endpoint is attached behind a batch span processor, so spans are
// buffered and shipped by a background task. Exporter construction failure is
// returned as an error wrapping ErrExporterInit; runtime export failures stay
// inside the batcher (retried, then dropped) and never reach callers.
//
// NewClient installs the resulting provider as the process-wide default and
// registers the global text-map propagator (W3C Trace Context composed with
// Baggage), so all subsequently created spans can be serialized across
// process boundaries.
//
// Example:
//
//	tracerClient, err := tracer.NewClient(tracer.Config{
//	    ServiceName:  "user-service",
//	    AppEnv:       "production",
//	    EnableExport: true,
//	    Endpoint:     "otel-collector:4317",
//	}, log)
//	if err != nil {
//	    log.Fatal("cannot initiate tracer", err, nil)
//	}
//
//	ctx, span := tracerClient.StartSpan(context.Background(), "process-request")
//	defer span.End()
func NewClient(cfg Config, logger Logger) (*Tracer, error) {
	var options []trace.TracerProviderOption

	if cfg.EnableExport {
		endpoint, err := normalizeEndpoint(cfg.Endpoint)
		if err != nil {
			return nil, err
		}

		clientOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(endpoint)}
		if cfg.Insecure {
			clientOpts = append(clientOpts, otlptracegrpc.WithInsecure())
		}

		exporter, err := otlptrace.New(context.Background(), otlptracegrpc.NewClient(clientOpts...))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExporterInit, err)
		}
		options = append(options, trace.WithBatcher(exporter))
	}

	options = append(options, trace.WithResource(resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.DeploymentEnvironment(cfg.AppEnv),
		attribute.String("environment", cfg.AppEnv),
	)))

	tp := trace.NewTracerProvider(options...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return &Tracer{tracer: tp, logger: logger}, nil
}

// Shutdown flushes pending spans and releases exporter resources.
func (t *Tracer) Shutdown(ctx context.Context) error {
	return t.tracer.Shutdown(ctx)
}

// ForceFlush exports any buffered spans without shutting the pipeline down.
func (t *Tracer) ForceFlush(ctx context.Context) error {
	return t.tracer.ForceFlush(ctx)
}

// normalizeEndpoint accepts either "host:port" or a URL-form endpoint and
// returns the host:port the gRPC exporter dials. Malformed addresses are
// rejected here so a bad configuration fails at bootstrap, not on the first
// export attempt.
func normalizeEndpoint(endpoint string) (string, error) {
	if endpoint == "" {
		return "", fmt.Errorf("%w: empty address", ErrInvalidEndpoint)
	}
	if strings.Contains(endpoint, "://") {
		u, err := url.Parse(endpoint)
		if err != nil || u.Host == "" {
			return "", fmt.Errorf("%w: %q", ErrInvalidEndpoint, endpoint)
		}
		return u.Host, nil
	}
	if strings.ContainsAny(endpoint, " \t") || !strings.Contains(endpoint, ":") {
		return "", fmt.Errorf("%w: %q", ErrInvalidEndpoint, endpoint)
	}
	return endpoint, nil
}
