package logger

import "github.com/kelseyhightower/envconfig"

// Log levels accepted by Config.Level.
const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config defines the configuration for the logger.
type Config struct {
	// ServiceName is attached to every log entry as the "service" field.
	ServiceName string

	// Level is the minimum level that will be emitted.
	// One of: debug, info, warning, error.
	// Default: info
	Level string `yaml:"level" envconfig:"TELEMETRY_LOG_LEVEL"`

	// EnableTracing controls whether the context-aware logging methods
	// (InfoCtx, ErrorCtx, ...) extract the active span from the context and
	// attach trace_id / span_id fields to the entry.
	EnableTracing bool
}

// envOverride mirrors the environment variables that may override the
// configured log level at process start.
type envOverride struct {
	Level string `envconfig:"TELEMETRY_LOG_LEVEL"`
}

// ResolveLevel returns the effective log level: the TELEMETRY_LOG_LEVEL
// environment variable takes precedence over the configured value, and an
// empty result falls back to Info.
func ResolveLevel(configured string) string {
	var env envOverride
	if err := envconfig.Process("", &env); err == nil && env.Level != "" {
		return env.Level
	}
	if configured == "" {
		return Info
	}
	return configured
}
