package tracer

// Config defines the configuration for the tracer.
type Config struct {
	// ServiceName identifies this process in exported traces. Required.
	ServiceName string

	// AppEnv is the deployment environment attached to the trace resource,
	// e.g. "production" or "development".
	AppEnv string

	// EnableExport controls whether spans are shipped to a collector.
	// When false the provider is still installed so spans are created and
	// propagated, they just never leave the process.
	EnableExport bool

	// Endpoint is the OTLP/gRPC collector address (host:port) spans are
	// exported to. Required when EnableExport is set.
	Endpoint string

	// Insecure disables transport security for the exporter connection.
	// Default: true (collectors are typically reached over the cluster
	// network; enable TLS by setting this to false)
	Insecure bool
}
