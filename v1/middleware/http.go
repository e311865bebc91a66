package middleware

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Aleph-Alpha/telemetry/v1/propagation"
	"github.com/Aleph-Alpha/telemetry/v1/tracer"
)

// HTTP returns ingress middleware for HTTP servers. For every inbound
// request it extracts the trace context from the request headers, starts a
// server span named "<METHOD> <path>" as a child of the extracted context
// (or as a fresh root when the headers carry none), records the trace ID
// onto the span, and delegates to the wrapped handler. On completion the
// span is closed with the response status and duration.
//
// The middleware never alters the handler's response and holds no mutable
// state shared across requests, so it is safe under concurrent invocation.
//
//	mux.Handle("/search", handler)
//	srv := &http.Server{Handler: middleware.HTTP(t.Tracer)(mux)}
func HTTP(tr *tracer.Tracer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := propagation.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

			ctx, span := tr.StartSpanWithKind(ctx, r.Method+" "+r.URL.Path, trace.SpanKindServer)
			defer span.End()

			tr.RecordTraceID(ctx)
			span.SetAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.target", r.URL.Path),
			)

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(sw, r.WithContext(ctx))

			span.SetAttributes(
				attribute.Int("http.status_code", sw.status),
				attribute.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000),
			)
			if sw.status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(sw.status))
			}
		})
	}
}

// statusWriter captures the status code written by the handler so the span
// can record the request outcome.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Flush forwards to the underlying writer so streaming handlers keep working
// behind the middleware.
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
