// Package metrics provides the metric export pipeline of the telemetry stack.
//
// The primary path is push-based: an OpenTelemetry periodic reader batches
// accumulated measurements and ships them to an OTLP/gRPC collector every
// push interval (3 seconds by default, 10 second export deadline), tagged
// with the service name. Construction failures are fatal at startup; runtime
// export failures are retried inside the SDK's background task and never
// propagate to callers recording measurements.
//
// For environments scraped by Prometheus, an optional pull endpoint can be
// enabled next to the push pipeline: a dedicated registry wrapped with a
// constant service label, default Go/process/build collectors, and an HTTP
// server exposing /metrics.
//
// Basic Usage:
//
//	m, err := metrics.NewMetrics(metrics.Config{
//		ServiceName: "my-service",
//		Endpoint:    "otel-collector:4317",
//		Insecure:    true,
//	}, log)
//	if err != nil {
//		log.Fatal("metrics pipeline is mandatory for this process", err, nil)
//	}
//	defer m.Shutdown(context.Background())
//
//	counter, _ := m.Meter.Int64Counter("requests_total")
//	counter.Add(ctx, 1)
//
// FX Module Integration:
//
//	app := fx.New(
//		metrics.FXModule,
//		// ... other modules
//	)
//	app.Run()
//
// Thread Safety:
//
// Instruments obtained from Meter and the Create* registry helpers are safe
// for concurrent use by multiple goroutines.
package metrics
