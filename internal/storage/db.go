package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryPath opens a private in-memory database instead of a file.
const MemoryPath = ":memory:"

// Open opens (or creates) the SQLite database at path and applies migrations.
// The pool is capped at one connection: the log has a single writer and an
// in-memory database must not be split across connections.
func Open(path, journalMode string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty db path", ErrStorageUnavailable)
	}

	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, unavailable("create db dir", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, unavailable("open", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, unavailable("ping", err)
	}

	if err := NewMigrationRunner(db, journalMode).Run(); err != nil {
		_ = db.Close()
		return nil, unavailable("migrate", err)
	}

	return db, nil
}

// unavailable wraps a driver or filesystem error so callers can match it
// with errors.Is(err, ErrStorageUnavailable).
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}
