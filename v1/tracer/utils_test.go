package tracer

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelpropagation "go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func init() {
	// The carrier helpers go through the global propagator, which defaults
	// to a no-op until a client installs one.
	otel.SetTextMapPropagator(otelpropagation.NewCompositeTextMapPropagator(
		otelpropagation.TraceContext{},
		otelpropagation.Baggage{},
	))
}

// recordingTracer wires an in-memory span recorder into a Tracer so ended
// spans can be inspected.
func recordingTracer(t *testing.T) (*Tracer, *tracetest.SpanRecorder) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Errorf("provider shutdown: %v", err)
		}
	})
	return &Tracer{tracer: tp}, recorder
}

func attributeValue(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, attr := range span.Attributes() {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestRecordTraceID(t *testing.T) {
	tr, recorder := recordingTracer(t)

	ctx, span := tr.StartSpan(context.Background(), "operation")
	tr.RecordTraceID(ctx)
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected one ended span, got %d", len(ended))
	}

	value, ok := attributeValue(ended[0], TraceIDField)
	if !ok {
		t.Fatalf("expected %q attribute on the span", TraceIDField)
	}
	if got, want := value.AsString(), span.SpanContext().TraceID().String(); got != want {
		t.Fatalf("expected recorded trace id %s, got %s", want, got)
	}
}

func TestRecordTraceIDWithoutSpanIsNoop(t *testing.T) {
	tr, _ := recordingTracer(t)

	// Must not panic on a context without an active span.
	tr.RecordTraceID(context.Background())
}

func TestRecordErrorOnSpan(t *testing.T) {
	tr, recorder := recordingTracer(t)

	_, span := tr.StartSpan(context.Background(), "operation")
	tr.RecordErrorOnSpan(span, errors.New("downstream unavailable"))
	span.End()

	ended := recorder.Ended()[0]
	if ended.Status().Code != codes.Error {
		t.Fatalf("expected error status, got %v", ended.Status().Code)
	}
	if len(ended.Events()) == 0 {
		t.Fatalf("expected an error event on the span")
	}
}

func TestSetAttributes(t *testing.T) {
	tr, recorder := recordingTracer(t)

	_, span := tr.StartSpan(context.Background(), "operation")
	tr.SetAttributes(span, map[string]interface{}{
		"str":   "value",
		"int":   42,
		"int64": int64(43),
		"float": 1.5,
		"bool":  true,
		"other": []string{"a", "b"},
	})
	span.End()

	ended := recorder.Ended()[0]
	checks := map[attribute.Key]string{
		"str":   "value",
		"int":   "42",
		"int64": "43",
		"float": "1.5",
		"bool":  "true",
		"other": "[a b]",
	}
	for key, want := range checks {
		value, ok := attributeValue(ended, key)
		if !ok {
			t.Fatalf("expected attribute %q on the span", key)
		}
		if got := value.Emit(); got != want {
			t.Fatalf("attribute %q: expected %q, got %q", key, want, got)
		}
	}
}

func TestTraceIDFromContext(t *testing.T) {
	tr, _ := recordingTracer(t)

	if got := TraceIDFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty trace id without a span, got %q", got)
	}

	ctx, span := tr.StartSpan(context.Background(), "operation")
	defer span.End()

	if got := TraceIDFromContext(ctx); got != span.SpanContext().TraceID().String() {
		t.Fatalf("expected trace id %s, got %s", span.SpanContext().TraceID(), got)
	}
}

func TestCarrierRoundTrip(t *testing.T) {
	tr, _ := recordingTracer(t)

	ctx, span := tr.StartSpan(context.Background(), "operation")
	defer span.End()

	carrier := tr.GetCarrier(ctx)
	if len(carrier) == 0 {
		t.Fatalf("expected carrier fields for an active span")
	}

	restored := tr.SetCarrierOnContext(context.Background(), carrier)
	if got := TraceIDFromContext(restored); got != span.SpanContext().TraceID().String() {
		t.Fatalf("expected restored trace id %s, got %s", span.SpanContext().TraceID(), got)
	}
}
