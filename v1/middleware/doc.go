// Package middleware implements the request-boundary hooks that carry trace
// context in and out of a service process.
//
// Ingress middleware (HTTP handler wrapper, gRPC server interceptors) runs
// the same strictly ordered sequence for every inbound request: extract the
// trace context from the request's carrier, create a span as a child of the
// extracted context (or a fresh root when there is none), record the trace
// ID onto the span, delegate to the wrapped handler, and close the span with
// the request outcome. Egress middleware (gRPC client interceptors) injects
// the caller's active span context into the outbound carrier immediately
// before dispatch.
//
// All extraction and injection goes through the propagation codec, so
// neither direction can fail: garbage headers become a fresh root,
// unrepresentable fields are dropped. The middleware never alters the
// wrapped handler's result and shares no mutable state across requests.
//
//	srv := grpc.NewServer(
//		grpc.UnaryInterceptor(middleware.UnaryServerInterceptor(t.Tracer)),
//		grpc.StreamInterceptor(middleware.StreamServerInterceptor(t.Tracer)),
//	)
//
//	conn, err := grpc.NewClient(target,
//		grpc.WithUnaryInterceptor(middleware.UnaryClientInterceptor()),
//	)
//
//	httpSrv := &http.Server{Handler: middleware.HTTP(t.Tracer)(mux)}
package middleware
