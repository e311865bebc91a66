package metrics

import (
	"context"
	"net/http"

	"go.uber.org/fx"
)

// FXModule defines the Fx module for the metrics package.
//
// The module:
//  1. Provides the NewMetrics factory function to the dependency injection
//     container, making the Metrics instance available to other components.
//  2. Invokes RegisterMetricsLifecycle to manage startup of the optional
//     Prometheus server and graceful shutdown of the export pipeline.
//
// Usage:
//
//	app := fx.New(
//	    metrics.FXModule,
//	    fx.Provide(func() metrics.Config {
//	        return metrics.Config{
//	            ServiceName: "search-store",
//	            Endpoint:    "otel-collector:4317",
//	        }
//	    }),
//	    // other modules...
//	)
//
// A metrics.Config and a metrics.Logger must be available in the dependency
// injection container. A construction error aborts application startup.
var FXModule = fx.Module("metrics",
	fx.Provide(NewMetrics),
	fx.Invoke(RegisterMetricsLifecycle),
)

// RegisterMetricsLifecycle manages the lifecycle of the metric pipeline.
//
// The lifecycle hook:
//   - OnStart: launches the Prometheus HTTP server in a background goroutine
//     when the pull endpoint is enabled.
//   - OnStop: shuts down the pull server and flushes the push pipeline.
func RegisterMetricsLifecycle(lc fx.Lifecycle, m *Metrics) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if m.Server == nil {
				return nil
			}
			go func() {
				m.logger.Info("starting Prometheus metrics server", nil, map[string]interface{}{
					"address": m.Server.Addr,
				})

				if err := m.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					m.logger.Error("error starting Prometheus metrics server", err, nil)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			m.logger.Info("shutting down metrics pipeline", nil, nil)
			if m.Server != nil {
				if err := m.Server.Shutdown(ctx); err != nil {
					m.logger.Error("error shutting down Prometheus metrics server", err, nil)
				}
			}
			return m.Shutdown(ctx)
		},
	})
}
