package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger so every package shares one JSON logging setup.
type Logger struct {
	*slog.Logger
}

// New creates a JSON logger on stdout with the specified level.
func New(level string) *Logger {
	return NewWithWriter(os.Stdout, level)
}

// NewWithWriter creates a JSON logger writing to w. Tests use it to capture
// output.
func NewWithWriter(w io.Writer, level string) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	return &Logger{Logger: slog.New(handler).With("service", "leadintake")}
}

// ParseLevel maps LOG_LEVEL values onto slog levels. Unknown values fall back
// to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Default returns a logger with default settings
func Default() *Logger {
	return New("info")
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return NewWithWriter(io.Discard, "error")
}
