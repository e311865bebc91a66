package telemetry

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/Aleph-Alpha/telemetry/v1/logger"
	"github.com/Aleph-Alpha/telemetry/v1/loki"
	"github.com/Aleph-Alpha/telemetry/v1/metrics"
	"github.com/Aleph-Alpha/telemetry/v1/sampler"
	"github.com/Aleph-Alpha/telemetry/v1/tracer"
)

// installed guards the process-wide sink: Build may succeed at most once per
// process lifetime.
var installed atomic.Bool

// Builder assembles the telemetry stack for a service process. Construct it
// with NewBuilder, enable the optional subsystems, then call Build exactly
// once at process start.
type Builder struct {
	serviceName     string
	appEnv          string
	logLevel        string
	traceEndpoint   string
	metricsEndpoint string
	logURL          string
	sampleInterval  time.Duration
	probe           sampler.Probe
}

// NewBuilder returns a builder for the given service. The service name is
// mandatory and tags every log entry, span, and metric the process emits.
func NewBuilder(serviceName string) *Builder {
	return &Builder{
		serviceName: serviceName,
		logLevel:    logger.Info,
	}
}

// SetLogLevel sets the configured log level (default info). The
// TELEMETRY_LOG_LEVEL environment variable still takes precedence at Build
// time.
func (b *Builder) SetLogLevel(level string) *Builder {
	b.logLevel = level
	return b
}

// SetAppEnv sets the deployment environment recorded on the trace resource.
func (b *Builder) SetAppEnv(env string) *Builder {
	b.appEnv = env
	return b
}

// EnableTracing enables span export to the given OTLP/gRPC collector
// address. Without this call the tracing subsystem is a no-op: spans are
// still created and propagated but never leave the process.
func (b *Builder) EnableTracing(endpoint string) *Builder {
	b.traceEndpoint = endpoint
	return b
}

// EnableMetrics enables the periodic metrics push to the given OTLP/gRPC
// collector address, and with it the resource-usage sampler.
func (b *Builder) EnableMetrics(endpoint string) *Builder {
	b.metricsEndpoint = endpoint
	return b
}

// EnableLog enables log shipping to the given push URL, e.g.
// "http://loki:3100/loki/api/v1/push".
func (b *Builder) EnableLog(url string) *Builder {
	b.logURL = url
	return b
}

// SetSampleInterval overrides the resource sampler's interval (default 10s).
func (b *Builder) SetSampleInterval(interval time.Duration) *Builder {
	b.sampleInterval = interval
	return b
}

// SetProbe replaces the default resource-usage probe run by the sampler.
func (b *Builder) SetProbe(probe sampler.Probe) *Builder {
	b.probe = probe
	return b
}

// Telemetry is the live composed sink returned by Build: one logger, one
// tracer, one metrics pipeline, and explicit handles to every background
// task the bootstrap spawned. It is effectively immutable after Build and
// safe to share across all request-handling goroutines.
type Telemetry struct {
	Logger  *logger.Logger
	Tracer  *tracer.Tracer
	Metrics *metrics.Metrics

	lokiCore *loki.Core
	sampler  *sampler.Sampler
}

// Build composes and installs the telemetry stack:
//
//  1. Every configured endpoint is validated up front; a malformed address
//     fails the whole bootstrap.
//  2. The trace pipeline is constructed and the global context propagator
//     registered, so all subsequently created spans can be serialized.
//  3. The log-shipping core is constructed and its background upload task
//     spawned; its future network failures are its own responsibility and
//     never reach the process.
//  4. The metrics pipeline is constructed (push interval 3s, export timeout
//     10s) along with the resource sampler.
//  5. The effective log level is resolved (environment override first) and
//     the composite logger installed: level filter, console core, and the
//     optional shipping core behind one logger whose context-aware methods
//     record trace IDs.
//
// Any construction failure is fatal: Build returns an error from the
// taxonomy in errors.go and the process must not continue in a
// half-initialized telemetry state. A second Build in the same process
// returns ErrAlreadyInstalled.
func (b *Builder) Build(ctx context.Context) (*Telemetry, error) {
	if b.serviceName == "" {
		return nil, ErrServiceNameRequired
	}
	if !installed.CompareAndSwap(false, true) {
		return nil, ErrAlreadyInstalled
	}

	t, err := b.build(ctx)
	if err != nil {
		// A failed bootstrap leaves nothing installed.
		installed.Store(false)
		return nil, err
	}
	return t, nil
}

func (b *Builder) build(ctx context.Context) (*Telemetry, error) {
	t := &Telemetry{}

	cleanup := func() {
		if t.Tracer != nil {
			_ = t.Tracer.Shutdown(ctx)
		}
		if t.lokiCore != nil {
			_ = t.lokiCore.Stop(ctx)
		}
	}

	// Log shipping first: the composite logger needs the core, and the
	// logger everything else logs through needs to exist before the
	// remaining pipelines.
	if b.logURL != "" {
		// The shipping core carries the same resolved level as the console
		// core: the level gate applies to the whole composite sink, not just
		// its console half.
		core, err := loki.NewCore(loki.Config{
			URL:         b.logURL,
			ServiceName: b.serviceName,
			Level:       logger.ResolveLevel(b.logLevel),
		})
		if err != nil {
			return nil, classify(err)
		}
		t.lokiCore = core
	}

	logCfg := logger.Config{
		ServiceName:   b.serviceName,
		Level:         b.logLevel,
		EnableTracing: true,
	}
	if t.lokiCore != nil {
		t.Logger = logger.NewWithCore(logCfg, t.lokiCore)
	} else {
		t.Logger = logger.NewLoggerClient(logCfg)
	}

	// The tracer client is always constructed so the global propagator is
	// registered even for console-only processes; export is attached only
	// when a target was configured.
	tracerClient, err := tracer.NewClient(tracer.Config{
		ServiceName:  b.serviceName,
		AppEnv:       b.appEnv,
		EnableExport: b.traceEndpoint != "",
		Endpoint:     b.traceEndpoint,
		Insecure:     true,
	}, t.Logger)
	if err != nil {
		cleanup()
		return nil, classify(err)
	}
	t.Tracer = tracerClient

	if b.metricsEndpoint != "" {
		m, err := metrics.NewMetrics(metrics.Config{
			ServiceName: b.serviceName,
			Endpoint:    b.metricsEndpoint,
			Insecure:    true,
		}, t.Logger)
		if err != nil {
			cleanup()
			return nil, classify(err)
		}
		t.Metrics = m

		probe := b.probe
		if probe == nil {
			probe = sampler.BaseProbe()
		}
		t.sampler = sampler.New(sampler.Config{
			ServiceName: b.serviceName,
			Interval:    b.sampleInterval,
		}, probe, sampler.NewMeterRecorder(m.Meter, b.serviceName, t.Logger), t.Logger)
		t.sampler.Start()
	}

	return t, nil
}

// Shutdown flushes and stops every subsystem, best effort and concurrently.
// All subsystems are attempted even when some fail; the individual failures
// are combined into the returned error.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs error
	)

	stop := func(name string, fn func(context.Context) error) {
		g.Go(func() error {
			if err := fn(ctx); err != nil {
				mu.Lock()
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
			}
			return nil
		})
	}

	if t.sampler != nil {
		stop("sampler", t.sampler.Stop)
	}
	if t.Tracer != nil {
		stop("tracer", t.Tracer.Shutdown)
	}
	if t.Metrics != nil {
		stop("metrics", t.Metrics.Shutdown)
	}
	if t.lokiCore != nil {
		stop("loki", t.lokiCore.Stop)
	}

	_ = g.Wait()

	if t.Logger != nil {
		// Sync last so shutdown problems above still reach the console.
		_ = t.Logger.Zap.Sync()
	}

	return errs
}

// classify maps subsystem construction errors onto the bootstrap taxonomy
// while preserving the underlying cause in the message.
func classify(err error) error {
	switch {
	case tracer.IsInvalidEndpointError(err),
		metrics.IsInvalidEndpointError(err),
		loki.IsInvalidURLError(err):
		return fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	default:
		return fmt.Errorf("%w: %v", ErrExporterInit, err)
	}
}
