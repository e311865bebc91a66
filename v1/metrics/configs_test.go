package metrics

import (
	"testing"
	"time"
)

func TestConfigDefaults(t *testing.T) {
	var cfg Config

	if got := cfg.pushInterval(); got != DefaultPushInterval {
		t.Fatalf("expected default push interval %v, got %v", DefaultPushInterval, got)
	}
	if got := cfg.exportTimeout(); got != DefaultExportTimeout {
		t.Fatalf("expected default export timeout %v, got %v", DefaultExportTimeout, got)
	}
}

func TestConfigOverrides(t *testing.T) {
	cfg := Config{
		PushInterval:  time.Second,
		ExportTimeout: 2 * time.Second,
	}

	if got := cfg.pushInterval(); got != time.Second {
		t.Fatalf("expected configured push interval, got %v", got)
	}
	if got := cfg.exportTimeout(); got != 2*time.Second {
		t.Fatalf("expected configured export timeout, got %v", got)
	}
}
