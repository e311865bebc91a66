package telemetry

import (
	"context"
	"time"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/telemetry/v1/logger"
	"github.com/Aleph-Alpha/telemetry/v1/metrics"
	"github.com/Aleph-Alpha/telemetry/v1/tracer"
)

// Config is the declarative counterpart of the Builder for fx-based
// applications. Each empty target leaves the corresponding subsystem
// disabled.
type Config struct {
	// ServiceName identifies this process in every emitted signal. Required.
	ServiceName string

	// AppEnv is the deployment environment, e.g. "production".
	AppEnv string

	// LogLevel is the configured log level; TELEMETRY_LOG_LEVEL wins when
	// set. Default: info
	LogLevel string

	// TraceEndpoint is the OTLP/gRPC collector address for spans.
	TraceEndpoint string

	// MetricsEndpoint is the OTLP/gRPC collector address for metrics.
	MetricsEndpoint string

	// LogURL is the log-shipping push URL.
	LogURL string

	// SampleInterval overrides the resource sampler interval.
	// Default: 10 seconds
	SampleInterval time.Duration
}

// NewFromConfig builds the telemetry stack from a Config. This is the
// constructor the fx module provides; direct callers can use it too.
func NewFromConfig(cfg Config) (*Telemetry, error) {
	b := NewBuilder(cfg.ServiceName).
		SetAppEnv(cfg.AppEnv)
	if cfg.LogLevel != "" {
		b.SetLogLevel(cfg.LogLevel)
	}
	if cfg.TraceEndpoint != "" {
		b.EnableTracing(cfg.TraceEndpoint)
	}
	if cfg.MetricsEndpoint != "" {
		b.EnableMetrics(cfg.MetricsEndpoint)
	}
	if cfg.LogURL != "" {
		b.EnableLog(cfg.LogURL)
	}
	if cfg.SampleInterval > 0 {
		b.SetSampleInterval(cfg.SampleInterval)
	}
	return b.Build(context.Background())
}

// FXModule wires the whole telemetry stack into an fx application. It
// provides the composed *Telemetry plus the individual logger, tracer, and
// metrics handles for downstream modules, and registers a lifecycle hook
// that flushes everything on shutdown.
//
// Usage:
//
//	app := fx.New(
//	    telemetry.FXModule,
//	    fx.Provide(func() telemetry.Config {
//	        return telemetry.Config{
//	            ServiceName:   "my-service",
//	            TraceEndpoint: "otel-collector:4317",
//	        }
//	    }),
//	    // other modules...
//	)
//	app.Run()
//
// A Build error (invalid endpoint, exporter failure, second install) aborts
// application startup: the process never runs with partial observability.
var FXModule = fx.Module("telemetry",
	fx.Provide(
		NewFromConfig,
		func(t *Telemetry) *logger.Logger { return t.Logger },
		func(t *Telemetry) *tracer.Tracer { return t.Tracer },
		func(t *Telemetry) *metrics.Metrics { return t.Metrics },
	),
	fx.Invoke(RegisterTelemetryLifecycle),
)

// RegisterTelemetryLifecycle flushes every exporter buffer when the
// application stops.
func RegisterTelemetryLifecycle(lc fx.Lifecycle, t *Telemetry) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			t.Logger.Info("shutting down telemetry...", nil, nil)
			return t.Shutdown(ctx)
		},
	})
}
