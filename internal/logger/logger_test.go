package logger

import (
	"testing"

	"github.com/samvad-hq/samvad-archive-scraper/internal/config"
)

func TestInitSetsPackageLogger(t *testing.T) {
	log, err := Init(&config.Config{AppName: "test", LogLevel: "debug"})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if S == nil {
		t.Fatalf("package logger not set")
	}
	log.InfoObj("hello", "meta", map[string]any{"k": "v"})
	log.DebugObj("hello", "meta", nil)
}

func TestEnsureFallsBackToNop(t *testing.T) {
	if _, ok := Ensure(nil).(NopLogger); !ok {
		t.Fatalf("expected NopLogger")
	}
	log := NopLogger{}
	if Ensure(log) != Logger(log) {
		t.Fatalf("expected passthrough")
	}
}
