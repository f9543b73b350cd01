// Package logger builds the structured logger shared by the server and its handlers.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"
)

// New creates a JSON slog.Logger writing to stdout at the given level.
// Unknown levels fall back to info.
func New(level string) *slog.Logger {
	return NewWithWriter(os.Stdout, level)
}

// NewWithWriter is New with an explicit destination, used by tests.
func NewWithWriter(w io.Writer, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	return slog.New(handler)
}

// ParseLevel maps a config string to a slog.Level.
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

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return NewWithWriter(io.Discard, "error")
}

// Mask keeps the first 8 characters of an address or user id so log lines
// never carry the full value.
func Mask(s string) string {
	const keep = 8
	if utf8.RuneCountInString(s) > keep {
		s = string([]rune(s)[:keep])
	}
	return s + "***"
}
