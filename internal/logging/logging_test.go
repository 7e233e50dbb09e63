package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestDefaultLoggerIsSilent(t *testing.T) {
	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger should be disabled at every level")
	}
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	Logger().Debug("batch created", "z", 3)
	if !strings.Contains(buf.String(), "batch created") {
		t.Errorf("log output = %q, want it to contain the message", buf.String())
	}
	if !strings.Contains(buf.String(), "z=3") {
		t.Errorf("log output = %q, want attribute z=3", buf.String())
	}
}
