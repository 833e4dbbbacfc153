package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/smokelog/internal/storage"
)

func TestVersionFlag(t *testing.T) {
	out := captureOutput(t, func() {
		err := RunWithArgs("0.1.0-test", []string{"--version"})
		require.NoError(t, err)
	})
	assert.Equal(t, "smokelog 0.1.0-test\n", out)
}

func TestAllSubcommandsExist(t *testing.T) {
	parser, _, _ := buildParser("test")

	expected := []string{"smoke", "craving", "undo", "history", "stats", "status", "wipe", "session"}
	for _, name := range expected {
		cmd := parser.Find(name)
		assert.NotNil(t, cmd, "subcommand %q should exist", name)
	}
}

func TestLogCommandsCarryKind(t *testing.T) {
	_, cmds, err := parseOnly("smoke")
	require.NoError(t, err)
	assert.Equal(t, storage.KindSmoke, cmds.Smoke.kind)
	assert.Equal(t, storage.KindCraving, cmds.Craving.kind)
}

func TestGlobalFlags(t *testing.T) {
	globals, _, err := parseOnly("--json", "--verbose", "--config", "/tmp/c.yaml", "--db", "/tmp/x.db", "status")
	require.NoError(t, err)

	assert.True(t, globals.JSON)
	assert.True(t, globals.Verbose)
	assert.Equal(t, "/tmp/c.yaml", globals.Config)
	assert.Equal(t, "/tmp/x.db", globals.DB)
}

func TestHistoryLimitFlag(t *testing.T) {
	_, cmds, err := parseOnly("history", "--limit", "25")
	require.NoError(t, err)
	assert.Equal(t, 25, cmds.History.Limit)
}

func TestWipeFlags(t *testing.T) {
	_, cmds, err := parseOnly("wipe", "--all", "--force")
	require.NoError(t, err)
	assert.True(t, cmds.Wipe.All)
	assert.True(t, cmds.Wipe.Force)
}

func TestUnknownSubcommand(t *testing.T) {
	_, _, err := parseOnly("nonexistent")
	assert.Error(t, err)
}

func TestMissingSubcommand(t *testing.T) {
	_, _, err := parseOnly()
	assert.Error(t, err)
}

func TestHelpDoesNotError(t *testing.T) {
	captureOutput(t, func() {
		err := RunWithArgs("test", []string{"--help"})
		assert.NoError(t, err)
	})
}

func TestWipeRequiresAll(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)

	err := RunWithArgs("test", []string{"--config", cfgPath, "wipe", "--force"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--all")

	_, statErr := os.Stat(filepath.Join(dir, "smokelog.db"))
	assert.True(t, os.IsNotExist(statErr), "refusing to wipe must not open the database")
}

func TestRunWithArgs_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)

	out := captureOutput(t, func() {
		require.NoError(t, RunWithArgs("test", []string{"--config", cfgPath, "smoke"}))
		require.NoError(t, RunWithArgs("test", []string{"--config", cfgPath, "craving"}))
	})
	assert.Contains(t, out, "Logged smoke #1")
	assert.Contains(t, out, "Logged craving #2")
	assert.Contains(t, out, "within 60s")
	assert.FileExists(t, filepath.Join(dir, "smokelog.db"))
	assert.FileExists(t, filepath.Join(dir, "smokelog.log"))

	out = captureOutput(t, func() {
		require.NoError(t, RunWithArgs("1.2.3", []string{"--config", cfgPath, "--json", "status"}))
	})
	var st statusJSON
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, "1.2.3", st.Version)
	assert.Equal(t, int64(1), st.TotalSmokes)
	assert.Equal(t, int64(1), st.TotalCravings)
	assert.Equal(t, int64(1), st.TodayCount)

	// Undo across processes removes the craving, the newest event.
	out = captureOutput(t, func() {
		require.NoError(t, RunWithArgs("test", []string{"--config", cfgPath, "undo"}))
	})
	assert.Contains(t, out, "Undid craving #2")

	out = captureOutput(t, func() {
		require.NoError(t, RunWithArgs("test", []string{"--config", cfgPath, "--json", "history"}))
	})
	var events []eventJSON
	require.NoError(t, json.Unmarshal([]byte(out), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "smoke", events[0].Kind)
}

func TestRunWithArgs_DBOverride(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)
	override := filepath.Join(dir, "elsewhere", "other.db")

	captureOutput(t, func() {
		require.NoError(t, RunWithArgs("test", []string{"--config", cfgPath, "--db", override, "smoke"}))
	})

	assert.FileExists(t, override)
	_, err := os.Stat(filepath.Join(dir, "smokelog.db"))
	assert.True(t, os.IsNotExist(err))
}
