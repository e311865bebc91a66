package telemetry

import "errors"

// Bootstrap error taxonomy. Every one of these is fatal at startup: a
// half-configured observability stack is considered worse than an immediate
// crash, so callers (and the fx module) abort the process on any Build error.
var (
	// ErrServiceNameRequired is returned when the builder is constructed
	// without a service name.
	ErrServiceNameRequired = errors.New("telemetry: service name is required")

	// ErrInvalidEndpoint is returned when a configured export target is
	// malformed (unparseable URL, missing port, empty address).
	ErrInvalidEndpoint = errors.New("telemetry: invalid export endpoint")

	// ErrExporterInit is returned when an exporter pipeline cannot be
	// constructed (unreachable endpoint, protocol negotiation failure).
	ErrExporterInit = errors.New("telemetry: exporter initialization failed")

	// ErrAlreadyInstalled is returned when Build is invoked after a global
	// sink has already been installed in this process. The second call never
	// silently overwrites the first.
	ErrAlreadyInstalled = errors.New("telemetry: global sink already installed")
)

// IsInvalidEndpointError checks if the error is an invalid endpoint error.
func IsInvalidEndpointError(err error) bool {
	return errors.Is(err, ErrInvalidEndpoint)
}

// IsExporterInitError checks if the error is an exporter initialization error.
func IsExporterInitError(err error) bool {
	return errors.Is(err, ErrExporterInit)
}

// IsAlreadyInstalledError checks if the error signals a second Build in one
// process.
func IsAlreadyInstalledError(err error) bool {
	return errors.Is(err, ErrAlreadyInstalled)
}
