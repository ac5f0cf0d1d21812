package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"none", LevelNone},
		{"", LevelNone},
	}
	for _, tt := range tests {
		level, err := ParseLevel(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.expected, level, tt.input)
	}

	_, err := ParseLevel("trace")
	assert.Error(t, err)
}

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo)
	logger.Debug("hidden")
	logger.Info("loaded", slog.Int("functions", 2))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "loaded", record["msg"])
	assert.Equal(t, float64(2), record["functions"])
}

func TestReopenAfterRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "casc.log")
	f, err := openLogFile(path)
	require.NoError(t, err)
	rf := &reopenFile{path: path, f: f}

	_, err = rf.Write([]byte("first\n"))
	require.NoError(t, err)
	require.NoError(t, os.Rename(path, path+".1"))
	require.NoError(t, rf.reopen())
	_, err = rf.Write([]byte("second\n"))
	require.NoError(t, err)
	require.NoError(t, rf.Close())

	rotated, err := os.ReadFile(path + ".1")
	require.NoError(t, err)
	current, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\n", string(rotated))
	assert.Equal(t, "second\n", string(current))
}

func TestInitWithFile(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	path := filepath.Join(t.TempDir(), "casc.log")
	closer, err := Init(Options{Level: "debug", File: path})
	require.NoError(t, err)
	slog.Debug("hello")
	closer()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}
