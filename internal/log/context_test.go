package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestFromContextFallsBack(t *testing.T) {
	if logger := FromContext(context.Background()); logger == nil {
		t.Fatal("FromContext should never return nil")
	}
}

func TestIntoContextRoundTrip(t *testing.T) {
	logger := New(DefaultConfig())
	ctx := IntoContext(context.Background(), logger)
	if got := FromContext(ctx); got != logger {
		t.Error("FromContext should return the attached logger")
	}
}

func TestWithComponentTagsLines(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Handler = slog.NewTextHandler(&buf, nil)

	logger := New(cfg).WithComponent(ComponentLedger)
	logger.Info("hello")

	if out := buf.String(); !strings.Contains(out, "component="+ComponentLedger) {
		t.Errorf("log line missing component tag: %s", out)
	}
	if logger.Component() != ComponentLedger {
		t.Errorf("Component() = %q, want %q", logger.Component(), ComponentLedger)
	}
}
