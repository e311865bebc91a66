package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CreateCounter creates a new CounterVec metric and registers it on the
// Prometheus registry. Returns nil when the pull endpoint is disabled.
func (m *Metrics) CreateCounter(name, help string, labels []string) *prometheus.CounterVec {
	if m.Registry == nil {
		return nil
	}
	counter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
	m.Registry.MustRegister(counter)
	return counter
}

// CreateHistogram creates a new HistogramVec metric and registers it on the
// Prometheus registry. Returns nil when the pull endpoint is disabled.
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	if m.Registry == nil {
		return nil
	}
	hist := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    name,
			Help:    help,
			Buckets: buckets,
		},
		labels,
	)
	m.Registry.MustRegister(hist)
	return hist
}

// CreateGauge creates a new GaugeVec metric and registers it on the
// Prometheus registry. Returns nil when the pull endpoint is disabled.
func (m *Metrics) CreateGauge(name, help string, labels []string) *prometheus.GaugeVec {
	if m.Registry == nil {
		return nil
	}
	gauge := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
	m.Registry.MustRegister(gauge)
	return gauge
}
