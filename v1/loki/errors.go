package loki

import "errors"

// Common loki errors
var (
	// ErrInvalidURL is returned when the configured push URL is empty or
	// cannot be parsed as an http(s) URL.
	ErrInvalidURL = errors.New("loki: invalid push URL")

	// ErrStopped is returned when entries are written to a core that has
	// already been stopped.
	ErrStopped = errors.New("loki: core is stopped")
)

// IsInvalidURLError checks if the error is an invalid URL error.
func IsInvalidURLError(err error) bool {
	return errors.Is(err, ErrInvalidURL)
}
