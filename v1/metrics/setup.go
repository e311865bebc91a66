package metrics

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// Logger defines the interface for logging operations in the metrics package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// Metrics encapsulates the metric export pipeline: a periodic OTLP/gRPC push
// reader feeding a collector, plus an optional Prometheus pull endpoint.
//
// The push pipeline owns its outbound queue exclusively; recording instruments
// obtained from Meter is safe from any number of goroutines, and export runs
// as a background task whose network failures are retried by the SDK and
// never surface to callers.
type Metrics struct {
	// Meter creates instruments bound to this service's pipeline.
	Meter metric.Meter

	// Server is the HTTP server exposing /metrics for Prometheus scraping.
	// Nil unless the Prometheus endpoint is enabled.
	Server *http.Server

	// Registry is the Prometheus registry backing the pull endpoint.
	// Each service maintains its own isolated registry to prevent metric
	// name collisions. Nil unless the Prometheus endpoint is enabled.
	Registry *prometheus.Registry

	provider *sdkmetric.MeterProvider
	logger   Logger
}

// NewMetrics initializes the metric export pipeline.
//
// When cfg.Endpoint is set, a periodic reader pushes accumulated metrics to
// the OTLP/gRPC collector every PushInterval (default 3s) with a per-export
// deadline of ExportTimeout (default 10s), using the SDK's default
// aggregation and temporality policies. The resulting provider is installed
// as the process-wide default so instruments created anywhere in the process
// feed this pipeline. Exporter construction failure is returned as an error
// wrapping ErrExporterInit; a malformed endpoint as ErrInvalidEndpoint.
//
// When cfg.Prometheus.Enabled is set, a dedicated registry wrapped with a
// constant service label and an HTTP server exposing /metrics are prepared
// as well; the server is started by the fx lifecycle (or by the caller).
//
// Example:
//
//	m, err := metrics.NewMetrics(metrics.Config{
//	    ServiceName: "document-index",
//	    Endpoint:    "otel-collector:4317",
//	    Insecure:    true,
//	}, log)
func NewMetrics(cfg Config, logger Logger) (*Metrics, error) {
	m := &Metrics{logger: logger}

	var options []sdkmetric.Option

	if cfg.Endpoint != "" {
		endpoint, err := normalizeEndpoint(cfg.Endpoint)
		if err != nil {
			return nil, err
		}

		exporterOpts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(endpoint)}
		if cfg.Insecure {
			exporterOpts = append(exporterOpts, otlpmetricgrpc.WithInsecure())
		}

		exporter, err := otlpmetricgrpc.New(context.Background(), exporterOpts...)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExporterInit, err)
		}

		options = append(options, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(
			exporter,
			sdkmetric.WithInterval(cfg.pushInterval()),
			sdkmetric.WithTimeout(cfg.exportTimeout()),
		)))
	}

	options = append(options, sdkmetric.WithResource(resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		attribute.String("service_name", cfg.ServiceName),
	)))

	m.provider = sdkmetric.NewMeterProvider(options...)
	otel.SetMeterProvider(m.provider)
	m.Meter = m.provider.Meter(cfg.ServiceName)

	if cfg.Prometheus.Enabled {
		m.setupPrometheus(cfg)
	}

	return m, nil
}

// setupPrometheus prepares the pull endpoint: an isolated registry wrapped
// with a constant service label and an HTTP server serving it on /metrics.
func (m *Metrics) setupPrometheus(cfg Config) {
	registry := prometheus.NewRegistry()

	wrappedRegistry := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	if cfg.Prometheus.EnableDefaultCollectors {
		wrappedRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	address := cfg.Prometheus.Address
	if address == "" {
		address = DefaultPrometheusAddress
	}

	m.Registry = registry
	m.Server = &http.Server{
		Addr:    address,
		Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
}

// Shutdown flushes pending metrics and stops the export pipeline. The
// Prometheus server, when present, is shut down by the fx lifecycle (or the
// caller) separately.
func (m *Metrics) Shutdown(ctx context.Context) error {
	return m.provider.Shutdown(ctx)
}

// ForceFlush pushes accumulated metrics immediately, outside the periodic
// schedule.
func (m *Metrics) ForceFlush(ctx context.Context) error {
	return m.provider.ForceFlush(ctx)
}

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
