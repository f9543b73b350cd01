package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewWithWriter_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn")

	log.Info("dropped")
	assert.Zero(t, buf.Len())

	log.Warn("kept", "key", "value")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "value", entry["key"])
}

func TestMask(t *testing.T) {
	assert.Equal(t, "203.0.11***", Mask("203.0.113.9"))
	assert.Equal(t, "::1***", Mask("::1"))
	assert.Equal(t, "unknown***", Mask("unknown"))
	assert.Equal(t, "***", Mask(""))
}

func TestMask_MultiByte(t *testing.T) {
	masked := Mask("ÄÖÜäöüßéè")
	assert.Equal(t, "ÄÖÜäöüßé***", masked)
	assert.True(t, utf8.ValidString(masked))

	assert.Equal(t, "日本***", Mask("日本"))
}
