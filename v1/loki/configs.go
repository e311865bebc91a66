package loki

import "time"

// Default values for configuration
const (
	// DefaultBatchSize is the number of entries shipped per push request.
	DefaultBatchSize = 256

	// DefaultBufferSize is the capacity of the in-process entry queue.
	// When the queue is full, new entries are dropped rather than blocking
	// the logging hot path.
	DefaultBufferSize = 4096

	// DefaultFlushInterval is how long a partial batch may wait before being
	// pushed anyway.
	DefaultFlushInterval = 5 * time.Second

	// DefaultPushTimeout bounds a single push request.
	DefaultPushTimeout = 10 * time.Second
)

// Config defines the configuration for the log-shipping core.
type Config struct {
	// URL is the push endpoint of the log collector, e.g.
	// "http://loki:3100/loki/api/v1/push". Required.
	URL string

	// ServiceName becomes the service_name stream label. Required.
	ServiceName string

	// Labels are additional constant stream labels attached to every pushed
	// entry. The process_id label is always added.
	Labels map[string]string

	// Level is the minimum entry level shipped. Entries below it pass
	// through the console core only. Uses the logger package level strings.
	// Default: debug (ship everything the sink accepts)
	Level string

	// BatchSize is the number of entries per push request.
	// Default: 256
	BatchSize int

	// BufferSize is the capacity of the entry queue.
	// Default: 4096
	BufferSize int

	// FlushInterval is the maximum age of a partial batch.
	// Default: 5 seconds
	FlushInterval time.Duration

	// PushTimeout bounds a single push request.
	// Default: 10 seconds
	PushTimeout time.Duration
}

func (c Config) batchSize() int {
	if c.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return c.BatchSize
}

func (c Config) bufferSize() int {
	if c.BufferSize <= 0 {
		return DefaultBufferSize
	}
	return c.BufferSize
}

func (c Config) flushInterval() time.Duration {
	if c.FlushInterval <= 0 {
		return DefaultFlushInterval
	}
	return c.FlushInterval
}

func (c Config) pushTimeout() time.Duration {
	if c.PushTimeout <= 0 {
		return DefaultPushTimeout
	}
	return c.PushTimeout
}
