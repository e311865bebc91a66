package loki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Aleph-Alpha/telemetry/v1/logger"
)

// Core is a zapcore.Core that ships log entries to a Loki-style HTTP push
// endpoint. Entries written to it are encoded, queued, and uploaded in
// batches by a background task owned by the Core.
//
// Failure policy: the write path never blocks and never fails the logger.
// When the queue is full the entry is dropped and counted; when a push
// request fails it is retried once and then the batch is dropped. Runtime
// network errors stay inside this adapter and are reported on stderr, not
// through the sink being shipped.
type Core struct {
	zapcore.LevelEnabler

	enc    zapcore.Encoder
	fields []zapcore.Field
	ship   *shipper
}

// shipper owns the entry queue and the background upload task. It is shared
// between a Core and its With-derived clones.
type shipper struct {
	entries chan entry
	flushCh chan chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	stopped atomic.Bool
	dropped atomic.Uint64

	client  *http.Client
	pushURL string
	labels  map[string]string

	batchSize     int
	flushInterval time.Duration
}

type entry struct {
	ts   time.Time
	line string
}

// NewCore validates the configuration, builds the shipping core, and spawns
// its background upload task. The task runs for the lifetime of the process
// unless Stop is called.
//
// A malformed URL is rejected here, at bootstrap time, as an error wrapping
// ErrInvalidURL. After construction no failure of the upload path is ever
// propagated: buffering, retry, and dropping are this adapter's internal
// responsibility.
func NewCore(cfg Config) (*Core, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil || cfg.URL == "" || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, cfg.URL)
	}

	labels := map[string]string{
		"service_name": cfg.ServiceName,
		"process_id":   strconv.Itoa(os.Getpid()),
	}
	for k, v := range cfg.Labels {
		labels[k] = v
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.LowercaseLevelEncoder

	level := cfg.Level
	if level == "" {
		level = logger.Debug
	}

	ship := &shipper{
		entries:       make(chan entry, cfg.bufferSize()),
		flushCh:       make(chan chan struct{}),
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
		client:        &http.Client{Timeout: cfg.pushTimeout()},
		pushURL:       cfg.URL,
		labels:        labels,
		batchSize:     cfg.batchSize(),
		flushInterval: cfg.flushInterval(),
	}

	go ship.run()

	return &Core{
		LevelEnabler: logger.ZapLevel(level),
		enc:          zapcore.NewJSONEncoder(encoderCfg),
		ship:         ship,
	}, nil
}

// With implements zapcore.Core. Clones share the underlying queue and
// background task.
func (c *Core) With(fields []zapcore.Field) zapcore.Core {
	return &Core{
		LevelEnabler: c.LevelEnabler,
		enc:          c.enc,
		fields:       append(c.fields[:len(c.fields):len(c.fields)], fields...),
		ship:         c.ship,
	}
}

// Check implements zapcore.Core.
func (c *Core) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

// Write encodes the entry and queues it for upload. It never blocks: when
// the queue is full the entry is dropped and counted instead.
func (c *Core) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	if c.ship.stopped.Load() {
		return ErrStopped
	}

	buf, err := c.enc.Clone().EncodeEntry(ent, append(c.fields[:len(c.fields):len(c.fields)], fields...))
	if err != nil {
		return err
	}
	line := buf.String()
	buf.Free()

	select {
	case c.ship.entries <- entry{ts: ent.Time, line: line}:
	default:
		c.ship.dropped.Add(1)
	}
	return nil
}

// Sync pushes the currently buffered entries and waits for the upload
// attempt to finish.
func (c *Core) Sync() error {
	return c.Flush(context.Background())
}

// Flush drains the queue and pushes any buffered entries, waiting for the
// attempt to complete or ctx to expire.
func (c *Core) Flush(ctx context.Context) error {
	if c.ship.stopped.Load() {
		return nil
	}
	ack := make(chan struct{})
	select {
	case c.ship.flushCh <- ack:
	case <-c.ship.stopCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop terminates the background task after a best-effort final flush.
// Entries written after Stop are rejected with ErrStopped.
func (c *Core) Stop(ctx context.Context) error {
	if c.ship.stopped.Swap(true) {
		return nil
	}
	close(c.ship.stopCh)
	select {
	case <-c.ship.doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dropped reports how many entries were discarded because the queue was full.
func (c *Core) Dropped() uint64 {
	return c.ship.dropped.Load()
}

// run is the background upload task: it accumulates entries into batches and
// pushes a batch when it fills, when the flush interval elapses, on explicit
// flush, and once more on shutdown.
func (s *shipper) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	batch := make([]entry, 0, s.batchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		s.push(batch)
		batch = batch[:0]
	}

	for {
		select {
		case e := <-s.entries:
			batch = append(batch, e)
			if len(batch) >= s.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case ack := <-s.flushCh:
			s.drain(&batch)
			flush()
			close(ack)
		case <-s.stopCh:
			s.drain(&batch)
			flush()
			return
		}
	}
}

// drain moves everything currently queued into the batch without waiting.
func (s *shipper) drain(batch *[]entry) {
	for {
		select {
		case e := <-s.entries:
			*batch = append(*batch, e)
		default:
			return
		}
	}
}

type pushRequest struct {
	Streams []stream `json:"streams"`
}

type stream struct {
	Stream map[string]string `json:"stream"`
	Values [][2]string       `json:"values"`
}

// push uploads one batch. A failed request is retried once; after that the
// batch is dropped so the queue can keep moving.
func (s *shipper) push(batch []entry) {
	values := make([][2]string, 0, len(batch))
	for _, e := range batch {
		values = append(values, [2]string{strconv.FormatInt(e.ts.UnixNano(), 10), e.line})
	}

	body, err := json.Marshal(pushRequest{Streams: []stream{{Stream: s.labels, Values: values}}})
	if err != nil {
		log.Printf("loki: dropping %d entries: encode failed: %v", len(batch), err)
		return
	}

	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			time.Sleep(500 * time.Millisecond)
		}
		if err = s.send(body); err == nil {
			return
		}
	}
	log.Printf("loki: dropping %d entries: %v", len(batch), err)
}

func (s *shipper) send(body []byte) error {
	req, err := http.NewRequest(http.MethodPost, s.pushURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("loki: push returned status %d", resp.StatusCode)
	}
	return nil
}
