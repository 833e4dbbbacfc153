package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Store defines the event log operations used by the rest of smokelog.
type Store interface {
	Append(ctx context.Context, kind Kind) (int64, error)
	Get(ctx context.Context, id int64) (*Event, error)
	Delete(ctx context.Context, id int64) error
	MarkUndo(ctx context.Context, id int64) error
	TakeUndo(ctx context.Context) (int64, bool, error)
	WipeAll(ctx context.Context) error
	Latest(ctx context.Context, limit int) ([]Event, error)
	LastSmoke(ctx context.Context) (*Event, error)
	CountInRange(ctx context.Context, start, end time.Time, kind Kind) (int64, error)
	TimestampsInRange(ctx context.Context, start, end time.Time, kind Kind) ([]time.Time, error)
	GetStats(ctx context.Context) (*Stats, error)
	Close() error
}

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time

	// Prepared statements
	insertEvent    *sql.Stmt
	getEvent       *sql.Stmt
	deleteEvent    *sql.Stmt
	latestEvents   *sql.Stmt
	lastSmoke      *sql.Stmt
	countInRange   *sql.Stmt
	timestampRange *sql.Stmt
}

// NewSQLiteStore creates a new SQLiteStore from an already-opened and migrated database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db, now: time.Now}

	if err := s.prepareStatements(); err != nil {
		s.Close()
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return s, nil
}

// SetClock replaces the clock used to timestamp appended events.
func (s *SQLiteStore) SetClock(now func() time.Time) {
	s.now = now
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.insertEvent, err = s.db.Prepare(`INSERT INTO events (ts, type) VALUES (?, ?)`)
	if err != nil {
		return err
	}

	s.getEvent, err = s.db.Prepare(`SELECT id, ts, type FROM events WHERE id = ?`)
	if err != nil {
		return err
	}

	s.deleteEvent, err = s.db.Prepare(`DELETE FROM events WHERE id = ?`)
	if err != nil {
		return err
	}

	s.latestEvents, err = s.db.Prepare(`
		SELECT id, ts, type FROM events
		ORDER BY ts DESC, id DESC
		LIMIT ?
	`)
	if err != nil {
		return err
	}

	s.lastSmoke, err = s.db.Prepare(`
		SELECT id, ts, type FROM events
		WHERE type = 'smoke'
		ORDER BY ts DESC, id DESC
		LIMIT 1
	`)
	if err != nil {
		return err
	}

	s.countInRange, err = s.db.Prepare(`
		SELECT COUNT(*) FROM events WHERE type = ? AND ts >= ? AND ts < ?
	`)
	if err != nil {
		return err
	}

	s.timestampRange, err = s.db.Prepare(`
		SELECT ts FROM events
		WHERE type = ? AND ts >= ? AND ts < ?
		ORDER BY ts ASC, id ASC
	`)
	if err != nil {
		return err
	}

	return nil
}

// Append inserts a new event stamped with the current second and returns its id.
// The insert runs as its own implicit transaction, committed before return.
func (s *SQLiteStore) Append(ctx context.Context, kind Kind) (int64, error) {
	if !kind.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	res, err := s.insertEvent.ExecContext(ctx, s.now().Unix(), string(kind))
	if err != nil {
		return 0, unavailable("insert event", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, unavailable("insert event id", err)
	}
	return id, nil
}

// Get returns the event with id, or nil if it does not exist.
func (s *SQLiteStore) Get(ctx context.Context, id int64) (*Event, error) {
	e, err := scanEvent(s.getEvent.QueryRowContext(ctx, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Delete removes an event by id. Deleting a missing id is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.deleteEvent.ExecContext(ctx, id); err != nil {
		return unavailable("delete event", err)
	}
	return nil
}

// WipeAll deletes every event. The id sequence is kept so ids are never reused.
func (s *SQLiteStore) WipeAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM events"); err != nil {
		return unavailable("wipe events", err)
	}
	return nil
}

const undoKey = "undo_target"

// MarkUndo records id as the only event a later TakeUndo may hand out,
// replacing any earlier mark.
func (s *SQLiteStore) MarkUndo(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		undoKey, id)
	if err != nil {
		return unavailable("mark undo", err)
	}
	return nil
}

// TakeUndo returns the marked id and removes the mark, so each mark is
// handed out at most once. ok is false when nothing is marked.
func (s *SQLiteStore) TakeUndo(ctx context.Context) (int64, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, unavailable("take undo", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var id int64
	err = tx.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = ?", undoKey).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, unavailable("take undo", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM meta WHERE key = ?", undoKey); err != nil {
		return 0, false, unavailable("take undo", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, false, unavailable("take undo", err)
	}
	return id, true, nil
}

// Latest returns up to limit events, most recent first. Events within the
// same second are ordered by descending id.
func (s *SQLiteStore) Latest(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		return []Event{}, nil
	}

	rows, err := s.latestEvents.QueryContext(ctx, limit)
	if err != nil {
		return nil, unavailable("query latest", err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, unavailable("query latest", err)
	}
	return events, nil
}

// LastSmoke returns the most recent smoke event, or nil if there is none.
func (s *SQLiteStore) LastSmoke(ctx context.Context) (*Event, error) {
	e, err := scanEvent(s.lastSmoke.QueryRowContext(ctx))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// CountInRange counts events of kind with start <= ts < end.
func (s *SQLiteStore) CountInRange(ctx context.Context, start, end time.Time, kind Kind) (int64, error) {
	var n int64
	err := s.countInRange.QueryRowContext(ctx, string(kind), start.Unix(), end.Unix()).Scan(&n)
	if err != nil {
		return 0, unavailable("count events", err)
	}
	return n, nil
}

// TimestampsInRange returns the ascending timestamps of events of kind with
// start <= ts < end.
func (s *SQLiteStore) TimestampsInRange(ctx context.Context, start, end time.Time, kind Kind) ([]time.Time, error) {
	rows, err := s.timestampRange.QueryContext(ctx, string(kind), start.Unix(), end.Unix())
	if err != nil {
		return nil, unavailable("query timestamps", err)
	}
	defer rows.Close()

	out := []time.Time{}
	for rows.Next() {
		var ts int64
		if err := rows.Scan(&ts); err != nil {
			return nil, unavailable("scan timestamp", err)
		}
		out = append(out, time.Unix(ts, 0))
	}

	if err := rows.Err(); err != nil {
		return nil, unavailable("query timestamps", err)
	}
	return out, nil
}

// GetStats returns totals per kind and the time span of the log.
func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	rows, err := s.db.QueryContext(ctx, "SELECT type, COUNT(*) FROM events GROUP BY type")
	if err != nil {
		return nil, unavailable("count by kind", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var n int64
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, unavailable("scan kind count", err)
		}
		switch Kind(kind) {
		case KindSmoke:
			stats.TotalSmokes = n
		case KindCraving:
			stats.TotalCravings = n
		}
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("count by kind", err)
	}

	// Oldest and newest (handle empty DB)
	if stats.TotalSmokes+stats.TotalCravings > 0 {
		var oldest, newest int64
		err = s.db.QueryRowContext(ctx, "SELECT MIN(ts), MAX(ts) FROM events").Scan(&oldest, &newest)
		if err != nil {
			return nil, unavailable("event time range", err)
		}
		stats.OldestEvent = time.Unix(oldest, 0)
		stats.NewestEvent = time.Unix(newest, 0)
	}

	return stats, nil
}

// Close releases all prepared statements. The underlying *sql.DB is NOT
// closed; that is the caller's responsibility.
func (s *SQLiteStore) Close() error {
	stmts := []*sql.Stmt{
		s.insertEvent, s.getEvent, s.deleteEvent, s.latestEvents,
		s.lastSmoke, s.countInRange, s.timestampRange,
	}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanEvent reads one (id, ts, type) row. sql.ErrNoRows is passed through
// unwrapped so callers can detect an empty result.
func scanEvent(row rowScanner) (Event, error) {
	var e Event
	var ts int64
	var kind string
	if err := row.Scan(&e.ID, &ts, &kind); err != nil {
		if err == sql.ErrNoRows {
			return Event{}, err
		}
		return Event{}, unavailable("scan event", err)
	}
	e.Timestamp = time.Unix(ts, 0)
	e.Kind = Kind(kind)
	return e, nil
}
