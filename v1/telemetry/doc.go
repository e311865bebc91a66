// Package telemetry bootstraps the observability stack of a service
// process: structured logging, distributed tracing, and metrics, composed
// into one coherent, fail-fast initialization sequence.
//
// The Builder assembles an ordered set of optional subsystems around a
// mandatory service name. Build runs once at process start: it constructs
// the enabled exporter pipelines, registers the global trace-context
// propagator, spawns the background export tasks and the resource sampler,
// and installs the composite logger. Construction failures are fatal by
// design, and a second Build in the same process fails with
// ErrAlreadyInstalled instead of silently overwriting the first.
//
//	t, err := telemetry.NewBuilder("my-service").
//		SetLogLevel(logger.Debug).
//		EnableTracing("otel-collector:4317").
//		EnableMetrics("otel-collector:4317").
//		EnableLog("http://loki:3100/loki/api/v1/push").
//		Build(ctx)
//	if err != nil {
//		log.Fatalf("telemetry bootstrap failed: %v", err)
//	}
//	defer t.Shutdown(context.Background())
//
// Disabling all three targets is valid and installs a minimal console-only
// sink: spans are still created and propagated, they just never leave the
// process.
//
// After Build, the returned Telemetry is effectively immutable and safe to
// share across all request-handling goroutines; the middleware package
// consumes it for ingress and egress trace-context handling. Each background
// task (span batcher, metrics pusher, log uploader, sampler) owns its queue
// exclusively and absorbs its own runtime failures: nothing on the telemetry
// path may ever fail an application request.
//
// # FX Module Integration
//
//	app := fx.New(
//		telemetry.FXModule,
//		fx.Provide(func() telemetry.Config {
//			return telemetry.Config{ServiceName: "my-service"}
//		}),
//		// other modules...
//	)
//	app.Run()
//
// The module additionally provides the individual *logger.Logger,
// *tracer.Tracer, and *metrics.Metrics handles for downstream modules, and
// flushes every exporter buffer on application stop.
package telemetry
