package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestHTTPContinuesRemoteTrace(t *testing.T) {
	tr := newTestTracer(t)

	var handlerSpan trace.SpanContext
	handler := HTTP(tr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerSpan = trace.SpanContextFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	req.Header.Set("traceparent", parentTraceparent)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected handler status to pass through, got %d", rec.Code)
	}
	if !handlerSpan.IsValid() {
		t.Fatalf("expected an active span inside the handler")
	}
	if got := handlerSpan.TraceID().String(); got != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Fatalf("expected handler span to continue the remote trace, got trace id %s", got)
	}
}

func TestHTTPStartsRootWithoutParent(t *testing.T) {
	tr := newTestTracer(t)

	var handlerSpan trace.SpanContext
	handler := HTTP(tr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerSpan = trace.SpanContextFromContext(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !handlerSpan.HasTraceID() {
		t.Fatalf("expected a fresh root trace without incoming headers")
	}
}

func TestHTTPSupportsFlushingHandlers(t *testing.T) {
	tr := newTestTracer(t)

	handler := HTTP(tr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			t.Error("expected the response writer to support flushing")
			return
		}
		if _, err := w.Write([]byte("chunk")); err != nil {
			t.Errorf("writing response: %v", err)
		}
		flusher.Flush()
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stream", nil))

	if !rec.Flushed {
		t.Fatalf("expected the flush to reach the underlying writer")
	}
}

func TestHTTPPreservesResponseBody(t *testing.T) {
	tr := newTestTracer(t)

	handler := HTTP(tr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		if _, err := w.Write([]byte("short and stout")); err != nil {
			t.Errorf("writing response: %v", err)
		}
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/brew", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected status %d, got %d", http.StatusTeapot, rec.Code)
	}
	if rec.Body.String() != "short and stout" {
		t.Fatalf("expected body to pass through unchanged, got %q", rec.Body.String())
	}
}
