package metrics

import "time"

// Default values for configuration
const (
	// DefaultPushInterval is how often accumulated metrics are pushed to the
	// collector.
	DefaultPushInterval = 3 * time.Second

	// DefaultExportTimeout bounds a single export attempt.
	DefaultExportTimeout = 10 * time.Second

	// DefaultPrometheusAddress is where the optional pull endpoint listens.
	DefaultPrometheusAddress = ":9090"
)

// Config defines the configuration for the metrics pipeline.
type Config struct {
	// ServiceName tags every exported metric as service_name. Required.
	ServiceName string

	// Endpoint is the OTLP/gRPC collector address (host:port) metrics are
	// pushed to. Required unless only the Prometheus endpoint is wanted.
	Endpoint string

	// PushInterval is the period between exports.
	// Default: 3 seconds
	PushInterval time.Duration

	// ExportTimeout is the per-export deadline.
	// Default: 10 seconds
	ExportTimeout time.Duration

	// Insecure disables transport security for the exporter connection.
	Insecure bool

	// Prometheus optionally exposes a pull endpoint next to the push
	// pipeline, for environments scraped by Prometheus instead of (or in
	// addition to) an OTLP collector.
	Prometheus PrometheusConfig
}

// PrometheusConfig controls the optional Prometheus exposition endpoint.
type PrometheusConfig struct {
	// Enabled turns the /metrics HTTP server on.
	Enabled bool

	// Address is the listen address of the /metrics server.
	// Default: ":9090"
	Address string

	// EnableDefaultCollectors registers the Go runtime, process, and build
	// info collectors on the registry.
	EnableDefaultCollectors bool
}

func (c Config) pushInterval() time.Duration {
	if c.PushInterval <= 0 {
		return DefaultPushInterval
	}
	return c.PushInterval
}

func (c Config) exportTimeout() time.Duration {
	if c.ExportTimeout <= 0 {
		return DefaultExportTimeout
	}
	return c.ExportTimeout
}
