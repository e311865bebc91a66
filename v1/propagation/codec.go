package propagation

import (
	"context"

	"go.opentelemetry.io/otel"
	otelpropagation "go.opentelemetry.io/otel/propagation"
)

// MapCarrier is a flat string-to-string carrier backed by a map. It is the
// transport-neutral representation of a serialized trace context and is what
// message-queue headers or custom protocols should use.
type MapCarrier = otelpropagation.MapCarrier

// HeaderCarrier adapts an http.Header to the carrier interface.
type HeaderCarrier = otelpropagation.HeaderCarrier

// Inject writes the trace context active in ctx into the carrier using the
// registered wire format. Injection is best-effort: if ctx carries no valid
// span context nothing is written, and fields the carrier cannot represent
// are skipped by the carrier implementation rather than failing the whole
// injection.
func Inject(ctx context.Context, carrier otelpropagation.TextMapCarrier) {
	otel.GetTextMapPropagator().Inject(ctx, carrier)
}

// Extract parses a trace context from the carrier and returns a context with
// it attached as the remote parent. Extract never fails: malformed or missing
// fields yield a context equivalent to "no parent", so a span created from
// the result becomes a fresh root.
func Extract(ctx context.Context, carrier otelpropagation.TextMapCarrier) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, carrier)
}

// InjectMap serializes the trace context active in ctx into a fresh map.
// Convenient when the transport wants a plain map[string]string, for example
// outbound message headers.
func InjectMap(ctx context.Context) map[string]string {
	carrier := MapCarrier{}
	Inject(ctx, carrier)
	return carrier
}

// ExtractMap reconstructs a trace context from a plain map produced by a
// remote InjectMap (or any W3C-formatted header set).
func ExtractMap(ctx context.Context, carrier map[string]string) context.Context {
	return Extract(ctx, MapCarrier(carrier))
}
