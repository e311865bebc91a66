// Package tracer provides distributed tracing using OpenTelemetry.
//
// The tracer package builds the trace export pipeline of the telemetry stack:
// an OTLP/gRPC exporter behind a batch span processor, a resource identifying
// the service, the process-wide tracer provider, and the global W3C
// Trace Context propagator. On top of that it offers a small API for creating
// spans, recording errors and attributes, and moving trace context across
// service boundaries.
//
// Core Features:
//   - Simple span creation and management
//   - Error recording and status tracking
//   - Trace-id recording into the reserved "trace_id" span attribute
//   - Cross-service trace context propagation
//   - Batched background export with best-effort flush on shutdown
//
// Basic Usage:
//
//	log := logger.NewLoggerClient(logger.Config{Level: logger.Info})
//
//	tracerClient, err := tracer.NewClient(tracer.Config{
//		ServiceName:  "my-service",
//		AppEnv:       "development",
//		EnableExport: true,
//		Endpoint:     "otel-collector:4317",
//		Insecure:     true,
//	}, log)
//	if err != nil {
//		log.Fatal("tracing is mandatory for this process", err, nil)
//	}
//
//	ctx, span := tracerClient.StartSpan(ctx, "process-request")
//	defer span.End()
//
//	if err != nil {
//		tracerClient.RecordErrorOnSpan(span, err)
//		return nil, err
//	}
//
// Distributed Tracing Across Services:
//
//	// Sending side: serialize the active span's context.
//	headers := tracerClient.GetCarrier(ctx)
//
//	// Receiving side: reconstruct the causal chain, then create a child.
//	ctx := tracerClient.SetCarrierOnContext(r.Context(), headers)
//	ctx, span := tracerClient.StartSpan(ctx, "handle-request")
//	defer span.End()
//
// FX Module Integration:
//
//	app := fx.New(
//		logger.FXModule,
//		tracer.FXModule,
//		// ... other modules
//	)
//	app.Run()
//
// Thread Safety:
//
// All methods on the Tracer type and Span interface are safe for concurrent
// use by multiple goroutines.
package tracer
