package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/Aleph-Alpha/telemetry/v1/logger"
	"github.com/Aleph-Alpha/telemetry/v1/loki"
	"github.com/Aleph-Alpha/telemetry/v1/tracer"
)

// resetInstalled clears the process-wide install guard so each test starts
// from a fresh process state.
func resetInstalled(t *testing.T) {
	t.Helper()
	installed.Store(false)
	t.Cleanup(func() { installed.Store(false) })
}

func TestBuildRequiresServiceName(t *testing.T) {
	resetInstalled(t)

	_, err := NewBuilder("").Build(context.Background())
	require.ErrorIs(t, err, ErrServiceNameRequired)
	require.False(t, installed.Load(), "a rejected build must not take the install guard")
}

func TestBuildConsoleOnly(t *testing.T) {
	resetInstalled(t)

	tel, err := NewBuilder("test-service").Build(context.Background())
	require.NoError(t, err)

	require.NotNil(t, tel.Logger, "console logging must always be available")
	require.NotNil(t, tel.Tracer, "the tracer must be installed even without export")
	require.Nil(t, tel.Metrics, "metrics are off unless a target is configured")
	require.Nil(t, tel.sampler, "the sampler runs only with a metrics target")

	// Spans are still created and propagated without an export target.
	ctx, span := tel.Tracer.StartSpan(context.Background(), "operation")
	require.True(t, span.SpanContext().HasTraceID())
	span.End()
	require.NotEmpty(t, tracer.TraceIDFromContext(ctx))

	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestSecondBuildFails(t *testing.T) {
	resetInstalled(t)

	tel, err := NewBuilder("test-service").Build(context.Background())
	require.NoError(t, err)
	defer tel.Shutdown(context.Background())

	_, err = NewBuilder("test-service").Build(context.Background())
	require.True(t, IsAlreadyInstalledError(err), "second build must fail, got %v", err)
}

func TestFailedBuildReleasesGuard(t *testing.T) {
	resetInstalled(t)

	_, err := NewBuilder("test-service").EnableLog("not-a-url").Build(context.Background())
	require.True(t, IsInvalidEndpointError(err), "expected ErrInvalidEndpoint, got %v", err)

	// The failed bootstrap must leave the process free to try again.
	tel, err := NewBuilder("test-service").Build(context.Background())
	require.NoError(t, err)
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestBuildRejectsInvalidTraceEndpoint(t *testing.T) {
	resetInstalled(t)

	_, err := NewBuilder("test-service").EnableTracing("not an endpoint").Build(context.Background())
	require.True(t, IsInvalidEndpointError(err), "expected ErrInvalidEndpoint, got %v", err)
	require.False(t, installed.Load())
}

func TestBuildRejectsInvalidMetricsEndpoint(t *testing.T) {
	resetInstalled(t)

	_, err := NewBuilder("test-service").EnableMetrics("not an endpoint").Build(context.Background())
	require.True(t, IsInvalidEndpointError(err), "expected ErrInvalidEndpoint, got %v", err)
	require.False(t, installed.Load())
}

func TestBuildWithLogShipping(t *testing.T) {
	resetInstalled(t)

	received := make(chan struct{}, 16)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received <- struct{}{}
	}))
	defer srv.Close()

	tel, err := NewBuilder("test-service").EnableLog(srv.URL).Build(context.Background())
	require.NoError(t, err)

	tel.Logger.Info("bootstrap complete", nil)
	require.NoError(t, tel.Shutdown(context.Background()))

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("expected the shutdown flush to push the buffered entry")
	}
}

func TestLogShippingRespectsConfiguredLevel(t *testing.T) {
	resetInstalled(t)
	t.Setenv("TELEMETRY_LOG_LEVEL", "")

	var pushes atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pushes.Add(1)
	}))
	defer srv.Close()

	tel, err := NewBuilder("test-service").
		SetLogLevel(logger.Error).
		EnableLog(srv.URL).
		Build(context.Background())
	require.NoError(t, err)

	tel.Logger.Debug("below the gate", nil)
	tel.Logger.Info("still below the gate", nil)
	require.NoError(t, tel.Shutdown(context.Background()))

	require.Zero(t, pushes.Load(), "entries below the configured level must not be shipped")
}

func TestLogShippingRespectsEnvLevelOverride(t *testing.T) {
	resetInstalled(t)
	t.Setenv("TELEMETRY_LOG_LEVEL", logger.Error)

	var pushes atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pushes.Add(1)
	}))
	defer srv.Close()

	// The environment override outranks the configured debug level for the
	// shipped stream as well as the console.
	tel, err := NewBuilder("test-service").
		SetLogLevel(logger.Debug).
		EnableLog(srv.URL).
		Build(context.Background())
	require.NoError(t, err)

	tel.Logger.Info("suppressed by the override", nil)
	require.NoError(t, tel.Shutdown(context.Background()))
	require.Zero(t, pushes.Load(), "the environment override must gate the shipped stream")

	resetInstalled(t)
	tel, err = NewBuilder("test-service").
		SetLogLevel(logger.Debug).
		EnableLog(srv.URL).
		Build(context.Background())
	require.NoError(t, err)

	tel.Logger.Error("ships despite the override", nil)
	require.NoError(t, tel.Shutdown(context.Background()))
	require.NotZero(t, pushes.Load(), "entries at the effective level must still ship")
}

func TestFailedBuildShutsDownTracer(t *testing.T) {
	resetInstalled(t)

	// Metrics construction fails after the trace pipeline was installed
	// globally; the bootstrap must tear the tracer back down.
	_, err := NewBuilder("test-service").EnableMetrics("not an endpoint").Build(context.Background())
	require.True(t, IsInvalidEndpointError(err), "expected ErrInvalidEndpoint, got %v", err)

	// A shut-down SDK provider hands out noop tracers, so a span created
	// through the global provider must not be recording.
	_, span := otel.GetTracerProvider().Tracer("leak-check").Start(context.Background(), "after-failed-build")
	defer span.End()
	require.False(t, span.IsRecording(), "the failed bootstrap left a live tracer provider installed")
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "tracer endpoint", err: tracer.ErrInvalidEndpoint, want: ErrInvalidEndpoint},
		{name: "loki url", err: loki.ErrInvalidURL, want: ErrInvalidEndpoint},
		{name: "tracer exporter", err: tracer.ErrExporterInit, want: ErrExporterInit},
		{name: "anything else", err: errors.New("dial failed"), want: ErrExporterInit},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, classify(tc.err), tc.want)
		})
	}
}
