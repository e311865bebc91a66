package metrics

import "errors"

// Common metrics errors
var (
	// ErrInvalidEndpoint is returned when the configured collector endpoint
	// is empty or not a host:port / URL form the exporter can dial.
	ErrInvalidEndpoint = errors.New("metrics: invalid endpoint")

	// ErrExporterInit is returned when the OTLP exporter cannot be
	// constructed. Construction failures are fatal at startup.
	ErrExporterInit = errors.New("metrics: exporter initialization failed")
)

// IsInvalidEndpointError checks if the error is an invalid endpoint error.
func IsInvalidEndpointError(err error) bool {
	return errors.Is(err, ErrInvalidEndpoint)
}

// IsExporterInitError checks if the error is an exporter initialization error.
func IsExporterInitError(err error) bool {
	return errors.Is(err, ErrExporterInit)
}
