package cli

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	goflags "github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/smokelog/internal/config"
	"github.com/runnerr0/smokelog/internal/logging"
	"github.com/runnerr0/smokelog/internal/storage"
)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// testEnv is an env over an in-memory store with a settable clock.
type testEnv struct {
	*env
	clock time.Time
	buf   *bytes.Buffer
}

func (te *testEnv) advance(d time.Duration) { te.clock = te.clock.Add(d) }

// output returns and clears everything written so far.
func (te *testEnv) output() string {
	s := te.buf.String()
	te.buf.Reset()
	return s
}

func newTestEnv(t *testing.T, input string) *testEnv {
	t.Helper()
	db, err := storage.Open(storage.MemoryPath, "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := storage.NewSQLiteStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	te := &testEnv{
		clock: time.Date(2026, time.March, 10, 9, 0, 0, 0, time.Local),
		buf:   &bytes.Buffer{},
	}
	te.env = &env{
		cfg:    config.DefaultConfig(),
		store:  store,
		logger: logging.Discard(),
		now:    func() time.Time { return te.clock },
		in:     strings.NewReader(input),
		out:    te.buf,
	}
	store.SetClock(te.env.now)
	return te
}

// parseOnly parses args without executing the matched command.
func parseOnly(args ...string) (*GlobalFlags, *commands, error) {
	parser, globals, cmds := buildParser("test")
	parser.CommandHandler = func(goflags.Commander, []string) error { return nil }
	_, err := parser.ParseArgs(args)
	return globals, cmds, err
}

// writeTestConfig writes a config that keeps the database and log under dir.
func writeTestConfig(t *testing.T, dir string) string {
	t.Helper()
	path := dir + "/config.yaml"
	data := "storage:\n  path: \"" + dir + "\"\nundo:\n  seconds: 60\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}
