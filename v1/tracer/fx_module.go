package tracer

import (
	"context"

	"go.uber.org/fx"
)

// FXModule provides an Fx module that configures distributed tracing for
// your application. It registers the tracer client with the dependency
// injection system and sets up lifecycle management so pending spans are
// flushed on shutdown.
//
// Usage:
//
//	app := fx.New(
//	    tracer.FXModule,
//	    // other modules...
//	)
//	app.Run()
//
// A tracer.Config and a tracer.Logger must be available in the dependency
// injection container. A construction error (invalid endpoint, exporter
// initialization failure) aborts application startup.
var FXModule = fx.Module("tracer",
	fx.Provide(
		NewClient,
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// RegisterTracerLifecycle registers shutdown hooks for the tracer with the
// FX lifecycle. The OnStop hook shuts down the tracer provider so buffered
// spans are exported before the process exits.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *Tracer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			tracer.logger.Info("shutting down tracer...", nil, nil)
			if tracer.tracer == nil {
				tracer.logger.Warn("tracer was nil during shutdown", nil, nil)
				return nil
			}
			return tracer.tracer.Shutdown(ctx)
		},
	})
}
