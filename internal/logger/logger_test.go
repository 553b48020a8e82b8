package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jwebster45206/storybook/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_TextToFallback(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{Environment: "development", LogLevel: slog.LevelInfo}

	log, closeFn, err := Setup(cfg, &buf)
	require.NoError(t, err)
	defer closeFn()

	log.Debug("hidden")
	log.Info("shown", "node", "omen")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "node=omen")
}

func TestSetup_JSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storybook.log")
	var fallback bytes.Buffer
	cfg := &config.Config{Environment: "production", LogLevel: slog.LevelDebug, LogFile: path}

	log, closeFn, err := Setup(cfg, &fallback)
	require.NoError(t, err)

	WithSessionID(log, "abc").Debug("step")
	require.NoError(t, closeFn())

	assert.Empty(t, fallback.String(), "file output replaces the fallback")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &rec))
	assert.Equal(t, "step", rec["msg"])
	assert.Equal(t, "abc", rec["session_id"])
}

func TestSetup_BadLogFile(t *testing.T) {
	cfg := &config.Config{LogFile: filepath.Join(t.TempDir(), "missing", "dir", "x.log")}
	_, _, err := Setup(cfg, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open log file")
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	WithError(log, errors.New("boom")).Error("failed")
	assert.Contains(t, buf.String(), "error=boom")
}
