package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for s, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, got, s)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "info", "xml", "")
	assert.Error(t, err)
}

func TestTextLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "warn", "text", "")
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("shown", "rom", "tetris.gb")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "rom=tetris.gb")
}

func TestJSONSourceIsTrimmed(t *testing.T) {
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)

	var buf bytes.Buffer
	l, err := New(&buf, "debug", "json", filepath.Dir(file))
	require.NoError(t, err)

	l.With("component", "test").Debug("frame")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "frame", rec["msg"])
	assert.Equal(t, "test", rec["component"])

	src, ok := rec["source"].(map[string]any)
	require.True(t, ok, "source attribute missing: %v", rec)
	assert.Equal(t, "handler_test.go", src["file"])
}
