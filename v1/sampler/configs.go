package sampler

import "time"

// DefaultInterval is how often the probe runs when no interval is configured.
const DefaultInterval = 10 * time.Second

// Config defines the configuration for a periodic sampler.
type Config struct {
	// ServiceName tags every forwarded observation. Required.
	ServiceName string

	// Interval is the period between probe invocations.
	// Default: 10 seconds
	Interval time.Duration
}

func (c Config) interval() time.Duration {
	if c.Interval <= 0 {
		return DefaultInterval
	}
	return c.Interval
}
