// Package propagation converts trace context to and from flat string
// key/value carriers so a trace can cross process boundaries.
//
// The codec uses the globally registered OpenTelemetry text-map propagator,
// which this library configures to the W3C Trace Context format (a
// "traceparent" key plus optional vendor keys) composed with Baggage.
//
// The two operations are deliberately asymmetric in their failure behavior:
//
//   - Inject is best-effort. Fields whose keys or values cannot be
//     represented in the carrier's encoding (for example non-ASCII values in
//     gRPC metadata) are dropped silently rather than failing the injection.
//   - Extract never fails. A malformed, empty, or missing carrier yields a
//     context with no remote parent, so the next span created from it starts
//     a fresh root trace.
//
// Observability must never block or break application traffic, so neither
// operation returns an error.
//
//	// Outbound: serialize the active span's context into headers.
//	carrier := propagation.MapCarrier{}
//	propagation.Inject(ctx, carrier)
//
//	// Inbound: reconstruct the causal chain from the received headers.
//	ctx = propagation.Extract(ctx, carrier)
package propagation
