package sampler

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterRecorder forwards observations to an OpenTelemetry meter as float64
// gauges, tagged with the service name. Instruments are created lazily per
// observation name and cached.
type MeterRecorder struct {
	meter  metric.Meter
	attrs  metric.MeasurementOption
	logger Logger

	mu     sync.Mutex
	gauges map[string]metric.Float64Gauge
}

// NewMeterRecorder builds a Recorder on top of the given meter.
func NewMeterRecorder(meter metric.Meter, serviceName string, logger Logger) *MeterRecorder {
	return &MeterRecorder{
		meter:  meter,
		attrs:  metric.WithAttributes(attribute.String("service_name", serviceName)),
		logger: logger,
		gauges: make(map[string]metric.Float64Gauge),
	}
}

// Record implements Recorder. Instrument creation failures are logged and
// the observation is dropped; the sampler keeps running.
func (r *MeterRecorder) Record(ctx context.Context, name string, value float64) {
	gauge, err := r.gauge(name)
	if err != nil {
		r.logger.Warn("dropping observation", err, map[string]interface{}{
			"observation": name,
		})
		return
	}
	gauge.Record(ctx, value, r.attrs)
}

func (r *MeterRecorder) gauge(name string) (metric.Float64Gauge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g, ok := r.gauges[name]; ok {
		return g, nil
	}
	g, err := r.meter.Float64Gauge(name)
	if err != nil {
		return nil, err
	}
	r.gauges[name] = g
	return g, nil
}
