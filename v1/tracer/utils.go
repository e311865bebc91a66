package tracer

import (
	"context"
	"fmt"

	"github.com/Aleph-Alpha/telemetry/v1/propagation"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	traceSpan "go.opentelemetry.io/otel/trace"
)

// TraceIDField is the reserved span attribute the resolved trace identifier
// is recorded under. Log-search tools correlate a log line, a metric sample,
// and a trace purely via this shared textual identifier.
const TraceIDField = "trace_id"

// StartSpan creates a new span with the given name and returns an updated
// context containing the span, along with the span itself.
//
// The created span becomes a child of any span context present in the
// provided context, including remote parents reconstructed by
// propagation.Extract. If none exists, a new root span with a fresh trace ID
// is created.
//
// Example:
//
//	func processRequest(ctx context.Context, req Request) (Response, error) {
//	    ctx, span := tracer.StartSpan(ctx, "process-request")
//	    defer span.End()
//
//	    result, err := performWork(ctx, req)
//	    if err != nil {
//	        tracer.RecordErrorOnSpan(span, err)
//	        return Response{}, err
//	    }
//	    return result, nil
//	}
func (t *Tracer) StartSpan(ctx context.Context, name string) (context.Context, traceSpan.Span) {
	tracer := t.tracer.Tracer("")
	ctx, span := tracer.Start(ctx, name)
	return ctx, span
}

// StartSpanWithKind is StartSpan with an explicit span kind, used by the
// middleware package to mark server and client spans.
func (t *Tracer) StartSpanWithKind(ctx context.Context, name string, kind traceSpan.SpanKind) (context.Context, traceSpan.Span) {
	tracer := t.tracer.Tracer("")
	ctx, span := tracer.Start(ctx, name, traceSpan.WithSpanKind(kind))
	return ctx, span
}

// RecordErrorOnSpan records an error on a span and sets its status to error,
// marking the span as a failed operation for trace backends.
func (t *Tracer) RecordErrorOnSpan(span traceSpan.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// RecordTraceID writes the resolved trace ID of the span active in ctx into
// the reserved "trace_id" attribute of that same span, overwriting any
// previous value. It is a no-op when ctx carries no active span or the span
// context is invalid, so it is always safe to call.
func (t *Tracer) RecordTraceID(ctx context.Context) {
	span := traceSpan.SpanFromContext(ctx)
	sc := span.SpanContext()
	if !sc.HasTraceID() {
		return
	}
	span.SetAttributes(attribute.String(TraceIDField, sc.TraceID().String()))
}

// TraceIDFromContext returns the textual trace ID of the span active in ctx,
// or "" when no valid span is present.
func TraceIDFromContext(ctx context.Context) string {
	sc := traceSpan.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

// SetAttributes adds one or more attributes to a span with support for
// different data types. Values can be strings, ints, int64s, float64s, or
// booleans; other types are converted to strings with fmt.Sprint.
//
// Example:
//
//	tracer.SetAttributes(span, map[string]interface{}{
//	    "user.id":          userID,
//	    "payment.amount":   amount,
//	    "payment.currency": "USD",
//	})
func (t *Tracer) SetAttributes(span traceSpan.Span, attrs map[string]interface{}) {
	if len(attrs) == 0 {
		return
	}

	attributes := make([]attribute.KeyValue, 0, len(attrs))

	for k, v := range attrs {
		switch val := v.(type) {
		case string:
			attributes = append(attributes, attribute.String(k, val))
		case int:
			attributes = append(attributes, attribute.Int(k, val))
		case int64:
			attributes = append(attributes, attribute.Int64(k, val))
		case float64:
			attributes = append(attributes, attribute.Float64(k, val))
		case bool:
			attributes = append(attributes, attribute.Bool(k, val))
		default:
			// For unsupported types, convert to string
			attributes = append(attributes, attribute.String(k, fmt.Sprint(val)))
		}
	}

	span.SetAttributes(attributes...)
}

// GetCarrier extracts the current trace context from a context object and
// returns it as a map that can be transmitted across service boundaries. The
// map contains W3C Trace Context headers ("traceparent" plus optional
// "tracestate" and baggage keys).
func (t *Tracer) GetCarrier(ctx context.Context) map[string]string {
	return propagation.InjectMap(ctx)
}

// SetCarrierOnContext extracts trace information from a carrier map and
// injects it into a context. This is the complement to GetCarrier and is
// typically used when receiving requests or messages from other services.
// Malformed carriers yield a context without a remote parent, never an error.
func (t *Tracer) SetCarrierOnContext(ctx context.Context, carrier map[string]string) context.Context {
	return propagation.ExtractMap(ctx, carrier)
}
