package tracer

import "errors"

// Common tracer errors
var (
	// ErrInvalidEndpoint is returned when the configured collector endpoint
	// is empty or not a host:port / URL form the exporter can dial.
	ErrInvalidEndpoint = errors.New("tracer: invalid endpoint")

	// ErrExporterInit is returned when the OTLP exporter pipeline cannot be
	// constructed. Construction failures are fatal at startup: running with a
	// half-initialized trace pipeline is worse than crashing immediately.
	ErrExporterInit = errors.New("tracer: exporter initialization failed")
)

// IsInvalidEndpointError checks if the error is an invalid endpoint error.
func IsInvalidEndpointError(err error) bool {
	return errors.Is(err, ErrInvalidEndpoint)
}

// IsExporterInitError checks if the error is an exporter initialization error.
func IsExporterInitError(err error) bool {
	return errors.Is(err, ErrExporterInit)
}
