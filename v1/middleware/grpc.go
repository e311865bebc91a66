package middleware

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/Aleph-Alpha/telemetry/v1/propagation"
	"github.com/Aleph-Alpha/telemetry/v1/tracer"
)

// ParseServiceMethod splits a gRPC full method path into its service and
// method names. The package prefix of the service is stripped:
//
//	ParseServiceMethod("/helloworld.Greeter/SayHello") = ("Greeter", "SayHello")
//	ParseServiceMethod("/a.b.Svc/Do")                  = ("Svc", "Do")
//	ParseServiceMethod("/Svc/Do")                      = ("Svc", "Do")
//	ParseServiceMethod("/")                            = ("", "")
//
// A service with no package prefix keeps its bare name rather than becoming
// empty. Malformed paths degrade to empty segments rather than failing.
func ParseServiceMethod(fullMethod string) (service, method string) {
	parts := strings.Split(fullMethod, "/")
	segments := parts[:0]
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	if len(segments) > 0 {
		service = segments[0]
		if idx := strings.LastIndex(service, "."); idx >= 0 {
			service = service[idx+1:]
		}
	}
	if len(segments) > 1 {
		method = segments[1]
	}
	return service, method
}

// UnaryServerInterceptor returns ingress middleware for gRPC servers. For
// every inbound call it extracts the trace context from the incoming
// metadata, starts a server span named "<Service>/<Method>" as a child of
// the extracted context (or as a fresh root), records the trace ID onto the
// span, and delegates to the handler. On completion the span is closed with
// the gRPC status code and duration; a handler error is recorded on the span
// and returned unchanged.
func UnaryServerInterceptor(tr *tracer.Tracer) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		ctx, span := startServerSpan(ctx, tr, info.FullMethod)
		defer span.End()

		start := time.Now()
		resp, err := handler(ctx, req)
		finishServerSpan(tr, span, start, err)

		return resp, err
	}
}

// StreamServerInterceptor is the streaming counterpart of
// UnaryServerInterceptor. The span covers the whole stream lifetime.
func StreamServerInterceptor(tr *tracer.Tracer) grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		ctx, span := startServerSpan(ss.Context(), tr, info.FullMethod)
		defer span.End()

		start := time.Now()
		err := handler(srv, &wrappedStream{ServerStream: ss, ctx: ctx})
		finishServerSpan(tr, span, start, err)

		return err
	}
}

// UnaryClientInterceptor returns egress middleware for gRPC clients.
// Immediately before the call is dispatched it injects the caller's active
// span context into the outgoing metadata, so the callee's ingress
// middleware can reconstruct the causal chain. Without an active span
// nothing is injected and the callee starts a new root trace. Injection is
// best-effort: fields the metadata encoding cannot represent are dropped.
func UnaryClientInterceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		return invoker(injectOutgoing(ctx), method, req, reply, cc, opts...)
	}
}

// StreamClientInterceptor is the streaming counterpart of
// UnaryClientInterceptor.
func StreamClientInterceptor() grpc.StreamClientInterceptor {
	return func(ctx context.Context, desc *grpc.StreamDesc, cc *grpc.ClientConn, method string, streamer grpc.Streamer, opts ...grpc.CallOption) (grpc.ClientStream, error) {
		return streamer(injectOutgoing(ctx), desc, cc, method, opts...)
	}
}

func startServerSpan(ctx context.Context, tr *tracer.Tracer, fullMethod string) (context.Context, trace.Span) {
	md, _ := metadata.FromIncomingContext(ctx)
	ctx = propagation.Extract(ctx, propagation.MetadataCarrier{MD: md})

	service, method := ParseServiceMethod(fullMethod)
	ctx, span := tr.StartSpanWithKind(ctx, service+"/"+method, trace.SpanKindServer)

	tr.RecordTraceID(ctx)
	span.SetAttributes(
		attribute.String("rpc.system", "grpc"),
		attribute.String("rpc.service", service),
		attribute.String("rpc.method", method),
	)
	return ctx, span
}

func finishServerSpan(tr *tracer.Tracer, span trace.Span, start time.Time, err error) {
	span.SetAttributes(
		attribute.String("rpc.grpc.status_code", status.Code(err).String()),
		attribute.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000),
	)
	if err != nil {
		tr.RecordErrorOnSpan(span, err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
}

// injectOutgoing copies the outgoing metadata and writes the active span
// context into it. The copy keeps the injection invisible to other users of
// the same context.
func injectOutgoing(ctx context.Context) context.Context {
	md, ok := metadata.FromOutgoingContext(ctx)
	if ok {
		md = md.Copy()
	} else {
		md = metadata.MD{}
	}
	propagation.Inject(ctx, propagation.MetadataCarrier{MD: md})
	return metadata.NewOutgoingContext(ctx, md)
}

// wrappedStream overrides the stream context so handlers observe the span
// created by the interceptor.
type wrappedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *wrappedStream) Context() context.Context {
	return w.ctx
}
