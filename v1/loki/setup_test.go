package loki

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Aleph-Alpha/telemetry/v1/logger"
)

// captureServer records the bodies of push requests it receives.
type captureServer struct {
	mu     sync.Mutex
	bodies []pushRequest
	status int
}

func (s *captureServer) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var req pushRequest
		if err := json.Unmarshal(body, &req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		s.bodies = append(s.bodies, req)
		status := s.status
		s.mu.Unlock()
		if status != 0 {
			w.WriteHeader(status)
		}
	}
}

func (s *captureServer) requests() []pushRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]pushRequest, len(s.bodies))
	copy(out, s.bodies)
	return out
}

func newTestCore(t *testing.T, cfg Config) (*Core, *captureServer) {
	t.Helper()

	capture := &captureServer{}
	srv := httptest.NewServer(capture.handler())
	t.Cleanup(srv.Close)

	cfg.URL = srv.URL
	if cfg.ServiceName == "" {
		cfg.ServiceName = "test-service"
	}
	core, err := NewCore(cfg)
	if err != nil {
		t.Fatalf("creating core: %v", err)
	}
	t.Cleanup(func() {
		if err := core.Stop(context.Background()); err != nil {
			t.Errorf("stopping core: %v", err)
		}
	})
	return core, capture
}

func writeEntry(t *testing.T, core *Core, level zapcore.Level, msg string) {
	t.Helper()
	if err := core.Write(zapcore.Entry{Level: level, Time: time.Now(), Message: msg}, nil); err != nil {
		t.Fatalf("writing entry: %v", err)
	}
}

func TestNewCoreRejectsInvalidURL(t *testing.T) {
	tests := []string{"", "loki:3100", "ftp://loki:3100", "http://"}
	for _, u := range tests {
		if _, err := NewCore(Config{URL: u, ServiceName: "svc"}); !IsInvalidURLError(err) {
			t.Errorf("NewCore(%q): expected ErrInvalidURL, got %v", u, err)
		}
	}
}

func TestFlushPushesBufferedEntries(t *testing.T) {
	core, capture := newTestCore(t, Config{})

	writeEntry(t, core, zapcore.InfoLevel, "first")
	writeEntry(t, core, zapcore.InfoLevel, "second")

	if err := core.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}

	requests := capture.requests()
	if len(requests) != 1 {
		t.Fatalf("expected one push request, got %d", len(requests))
	}
	if len(requests[0].Streams) != 1 {
		t.Fatalf("expected one stream, got %d", len(requests[0].Streams))
	}
	if got := len(requests[0].Streams[0].Values); got != 2 {
		t.Fatalf("expected 2 entries in the stream, got %d", got)
	}
}

func TestPushCarriesStreamLabels(t *testing.T) {
	core, capture := newTestCore(t, Config{
		ServiceName: "checkout",
		Labels:      map[string]string{"region": "eu-west-1"},
	})

	writeEntry(t, core, zapcore.InfoLevel, "hello")
	if err := core.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}

	labels := capture.requests()[0].Streams[0].Stream
	if labels["service_name"] != "checkout" {
		t.Fatalf("expected service_name label, got %v", labels)
	}
	if labels["region"] != "eu-west-1" {
		t.Fatalf("expected custom label to survive, got %v", labels)
	}
	if labels["process_id"] == "" {
		t.Fatalf("expected process_id label, got %v", labels)
	}
}

func TestPushValueShape(t *testing.T) {
	core, capture := newTestCore(t, Config{})

	before := time.Now().Add(-time.Second).UnixNano()
	writeEntry(t, core, zapcore.WarnLevel, "disk almost full")
	if err := core.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}
	after := time.Now().Add(time.Second).UnixNano()

	value := capture.requests()[0].Streams[0].Values[0]

	ns, err := strconv.ParseInt(value[0], 10, 64)
	if err != nil {
		t.Fatalf("expected nanosecond timestamp, got %q", value[0])
	}
	if ns < before || ns > after {
		t.Fatalf("timestamp %d outside expected window [%d, %d]", ns, before, after)
	}
	if !strings.Contains(value[1], "disk almost full") {
		t.Fatalf("expected encoded line to carry the message, got %q", value[1])
	}
	if !strings.Contains(value[1], `"level":"warn"`) {
		t.Fatalf("expected encoded line to carry the level, got %q", value[1])
	}
}

func TestBatchSizeTriggersPush(t *testing.T) {
	core, capture := newTestCore(t, Config{BatchSize: 2, FlushInterval: time.Hour})

	writeEntry(t, core, zapcore.InfoLevel, "one")
	writeEntry(t, core, zapcore.InfoLevel, "two")

	deadline := time.Now().Add(2 * time.Second)
	for len(capture.requests()) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	requests := capture.requests()
	if len(requests) == 0 {
		t.Fatalf("expected a push once the batch filled")
	}
	if got := len(requests[0].Streams[0].Values); got != 2 {
		t.Fatalf("expected a full batch of 2, got %d", got)
	}
}

func TestLevelFiltering(t *testing.T) {
	core, _ := newTestCore(t, Config{Level: logger.Warning})

	if core.Enabled(zapcore.InfoLevel) {
		t.Fatalf("expected info entries to be filtered at warning level")
	}
	if !core.Enabled(zapcore.ErrorLevel) {
		t.Fatalf("expected error entries to pass at warning level")
	}
}

func TestWriteAfterStop(t *testing.T) {
	capture := &captureServer{}
	srv := httptest.NewServer(capture.handler())
	defer srv.Close()

	core, err := NewCore(Config{URL: srv.URL, ServiceName: "svc"})
	if err != nil {
		t.Fatalf("creating core: %v", err)
	}

	writeEntry(t, core, zapcore.InfoLevel, "before stop")
	if err := core.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}

	// The final flush on stop must have shipped the buffered entry.
	if len(capture.requests()) != 1 {
		t.Fatalf("expected the stop flush to push, got %d requests", len(capture.requests()))
	}

	err = core.Write(zapcore.Entry{Level: zapcore.InfoLevel, Time: time.Now(), Message: "after stop"}, nil)
	if !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}

func TestWithSharesQueue(t *testing.T) {
	core, capture := newTestCore(t, Config{})

	child := core.With([]zapcore.Field{zap.String("component", "worker")})
	if err := child.Write(zapcore.Entry{Level: zapcore.InfoLevel, Time: time.Now(), Message: "from child"}, nil); err != nil {
		t.Fatalf("writing via child: %v", err)
	}

	if err := core.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}

	line := capture.requests()[0].Streams[0].Values[0][1]
	if !strings.Contains(line, `"component":"worker"`) {
		t.Fatalf("expected child fields in the encoded line, got %q", line)
	}
}
