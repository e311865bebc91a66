package sampler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zoobzio/clockz"
)

// Probe is a zero-argument measurement function returning named numeric
// observations, e.g. {"cpu_usage": 42.0, "ram_usage": 1024}.
type Probe func() map[string]float64

// Recorder is the metrics sink observations are forwarded to.
// Implementations must be safe for concurrent use.
type Recorder interface {
	Record(ctx context.Context, name string, value float64)
}

// Logger defines the interface for logging operations in the sampler package.
type Logger interface {
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// Sampler invokes a probe on a fixed interval and forwards each observation
// to the Recorder. It runs as an independent background task for the
// lifetime of the process: probe panics and sink failures are caught and
// logged, never terminating the loop or the process.
type Sampler struct {
	serviceName string
	interval    time.Duration
	probe       Probe
	recorder    Recorder
	logger      Logger
	clock       clockz.Clock

	startOnce sync.Once
	stopOnce  sync.Once
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// New creates a sampler. It does not start sampling; call Start.
func New(cfg Config, probe Probe, recorder Recorder, logger Logger) *Sampler {
	return &Sampler{
		serviceName: cfg.ServiceName,
		interval:    cfg.interval(),
		probe:       probe,
		recorder:    recorder,
		logger:      logger,
		clock:       clockz.RealClock,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// WithClock replaces the sampler's clock. Enables clock injection for
// deterministic testing; must be called before Start.
func (s *Sampler) WithClock(clock clockz.Clock) *Sampler {
	s.clock = clock
	return s
}

// Start spawns the sampling loop. Subsequent calls are no-ops.
func (s *Sampler) Start() {
	s.startOnce.Do(func() {
		go s.run()
	})
}

// Stop terminates the sampling loop and waits for it to exit.
func (s *Sampler) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	select {
	case <-s.doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Sampler) run() {
	defer close(s.doneCh)

	for {
		select {
		case <-s.stopCh:
			return
		case <-s.clock.After(s.interval):
			s.tick()
		}
	}
}

// tick runs one probe invocation and forwards its observations. The probe is
// untrusted code: a panic is converted to a log entry and the next tick
// proceeds normally.
func (s *Sampler) tick() {
	observations, err := s.sample()
	if err != nil {
		s.logger.Error("sampler probe failed", err, map[string]interface{}{
			"service": s.serviceName,
		})
		return
	}

	ctx := context.Background()
	for name, value := range observations {
		s.recorder.Record(ctx, name, value)
	}
}

func (s *Sampler) sample() (observations map[string]float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			observations = nil
			err = fmt.Errorf("probe panicked: %v", r)
		}
	}()
	return s.probe(), nil
}
