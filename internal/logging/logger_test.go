package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" WARN "))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestWriterLogger_JSONWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, LevelInfo).WithComponent("tui")

	l.Debug("hidden")
	l.Error("update task failed", "task_id", "t-1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "update task failed", entry["msg"])
	assert.Equal(t, "tui", entry["component"])
	assert.Equal(t, "t-1", entry["task_id"])
}

func TestNewLogger_FileCreatedAndClosed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "scheduler.log")
	l, err := NewLogger(path, LevelDebug)
	require.NoError(t, err)

	l.Info("hello")
	require.NoError(t, l.Close())
	// Second close is a no-op.
	require.NoError(t, l.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"hello"`)
}

func TestNopLogger(t *testing.T) {
	l := NopLogger()
	l.Error("discarded")
	assert.NoError(t, l.Close())

	var nilLogger *Logger
	nilLogger.Info("safe on nil")
}
