package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		enable slog.Level
	}{
		{"debug level", "debug", slog.LevelDebug},
		{"warn level", "warn", slog.LevelWarn},
		{"warning alias", "WARNING", slog.LevelWarn},
		{"default info", "", slog.LevelInfo},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.level)
			if !logger.Enabled(ctx, tt.enable) {
				t.Fatalf("expected level %s to be enabled", tt.enable)
			}
		})
	}
}

func TestParseLevelUnknownFallsBackToInfo(t *testing.T) {
	if got := ParseLevel("verbose"); got != slog.LevelInfo {
		t.Fatalf("expected info, got %s", got)
	}
}

func TestDefaultLogger(t *testing.T) {
	logger := Default()

	ctx := context.Background()
	if !logger.Enabled(ctx, slog.LevelInfo) {
		t.Error("Default() should enable info level")
	}
	if logger.Enabled(ctx, slog.LevelDebug) {
		t.Error("Default() should not enable debug level")
	}
	if logger.Logger == nil {
		t.Fatal("Default() returned Logger with nil slog.Logger")
	}
}

func TestNewWithWriterEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "info")
	logger.Info("lead delivered", "channel", "webhook")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json log line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "lead delivered" {
		t.Fatalf("unexpected msg %v", entry["msg"])
	}
	if entry["channel"] != "webhook" {
		t.Fatalf("unexpected channel %v", entry["channel"])
	}
	if entry["service"] != "leadintake" {
		t.Fatalf("expected service attribute, got %v", entry["service"])
	}
}

func TestDiscardDropsOutput(t *testing.T) {
	logger := Discard()
	if logger.Enabled(context.Background(), slog.LevelWarn) {
		t.Fatal("discard logger should only enable error level")
	}
	logger.Error("ignored")
}
