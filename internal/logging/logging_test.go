package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn")

	log.Info("hidden")
	log.Warn("shown", "id", "42")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "id=42")
	assert.NotContains(t, out, "\x1b[", "no colour for non-terminal writers")
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.log")
	log, closeFn, err := OpenFile(path, "debug")
	require.NoError(t, err)

	log.Debug("written")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written")
}

func TestOpenFileEmptyPath(t *testing.T) {
	log, closeFn, err := OpenFile("", "info")
	require.NoError(t, err)
	log.Info("dropped")
	assert.NoError(t, closeFn())
}
