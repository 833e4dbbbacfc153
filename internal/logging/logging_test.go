package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/smokelog/internal/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "smokelog.log")

	logger, closer, err := New(Options{Level: "info", Path: path, MaxSizeMB: 1, MaxBackups: 1})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("event appended", "id", 7, "kind", "smoke")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1, "debug record should be filtered at info level")

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "event appended", rec["msg"])
	assert.Equal(t, "smoke", rec["kind"])
	assert.Equal(t, float64(7), rec["id"])
}

func TestNew_VerboseForcesDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smokelog.log")

	logger, closer, err := New(Options{Level: "error", Path: path, Verbose: true})
	require.NoError(t, err)
	logger.Debug("visible")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "visible")
}

func TestNew_StderrLevels(t *testing.T) {
	ctx := context.Background()

	logger, closer, err := New(Options{Level: "debug"})
	require.NoError(t, err)
	defer closer.Close()
	assert.False(t, logger.Enabled(ctx, slog.LevelInfo), "stderr logging stays at warn without --verbose")
	assert.True(t, logger.Enabled(ctx, slog.LevelWarn))

	logger, closer, err = New(Options{Level: "info", Verbose: true})
	require.NoError(t, err)
	defer closer.Close()
	assert.True(t, logger.Enabled(ctx, slog.LevelDebug))
}

func TestFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Storage.Path = "/data/smokelog"

	opts, err := FromConfig(cfg, true)
	require.NoError(t, err)
	assert.Equal(t, "/data/smokelog/smokelog.log", opts.Path)
	assert.Equal(t, "info", opts.Level)
	assert.Equal(t, 5, opts.MaxSizeMB)
	assert.True(t, opts.Verbose)
}
