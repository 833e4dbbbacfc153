package cli

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/runnerr0/smokelog/internal/config"
	"github.com/runnerr0/smokelog/internal/logging"
	"github.com/runnerr0/smokelog/internal/storage"
)

// env is everything a command needs at run time. It is built once per
// process by openEnv, or handed in directly by tests.
type env struct {
	cfg    *config.Config
	store  *storage.SQLiteStore
	logger *slog.Logger
	now    func() time.Time
	in     io.Reader
	out    io.Writer
}

// loadConfig resolves --config or falls back to the default location.
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	if globals == nil || globals.Config == "" {
		return config.LoadOrCreate()
	}
	path, err := config.ExpandPath(globals.Config)
	if err != nil {
		return nil, err
	}
	return config.LoadOrCreateAt(path)
}

// openEnv loads config, sets up logging and opens the store. The returned
// cleanup releases the store, the database and the log file, and must run
// on every exit path.
func openEnv(globals *GlobalFlags) (*env, func(), error) {
	cfg, err := loadConfig(globals)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	dbPath := globals.DB
	if dbPath == "" {
		if dbPath, err = cfg.DBPath(); err != nil {
			return nil, nil, fmt.Errorf("resolve db path: %w", err)
		}
	}

	logOpts, err := logging.FromConfig(cfg, globals.Verbose)
	if err != nil {
		return nil, nil, err
	}
	logger, logCloser, err := logging.New(logOpts)
	if err != nil {
		return nil, nil, fmt.Errorf("init logging: %w", err)
	}

	db, err := storage.Open(dbPath, cfg.Storage.SQLiteJournalMode)
	if err != nil {
		logger.Error("open database failed", "path", dbPath, "error", err)
		logCloser.Close()
		return nil, nil, err
	}

	store, err := storage.NewSQLiteStore(db)
	if err != nil {
		logger.Error("init store failed", "path", dbPath, "error", err)
		db.Close()
		logCloser.Close()
		return nil, nil, fmt.Errorf("init store: %w", err)
	}

	logger.Debug("store opened", "path", dbPath)

	e := &env{
		cfg:    cfg,
		store:  store,
		logger: logger,
		now:    time.Now,
		in:     os.Stdin,
		out:    os.Stdout,
	}
	store.SetClock(e.now)

	cleanup := func() {
		closeStore(store, db, logger)
		logCloser.Close()
	}
	return e, cleanup, nil
}

func closeStore(store *storage.SQLiteStore, db *sql.DB, logger *slog.Logger) {
	store.Close()
	if err := db.Close(); err != nil {
		logger.Error("close database failed", "error", err)
	}
}

// withEnv runs fn against the injected env, or opens one from config and
// closes it afterwards.
func withEnv(globals *GlobalFlags, injected *env, fn func(e *env) error) error {
	if injected != nil {
		return fn(injected)
	}

	e, cleanup, err := openEnv(globals)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := fn(e); err != nil {
		e.logger.Error("command failed", "error", err)
		return err
	}
	return nil
}

// undoWindow returns the configured undo grace period.
func (e *env) undoWindow() time.Duration {
	return time.Duration(e.cfg.Undo.Seconds) * time.Second
}

// writeJSON encodes v as indented JSON.
func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// confirm asks the user to type word on the next input line. Anything else
// aborts.
func confirm(scanner *bufio.Scanner, out io.Writer, word string) error {
	fmt.Fprintf(out, "Type %q to confirm: ", word)

	if !scanner.Scan() {
		return fmt.Errorf("aborted: no input received")
	}
	if strings.TrimSpace(scanner.Text()) != word {
		return fmt.Errorf("aborted: confirmation text did not match")
	}
	return nil
}
