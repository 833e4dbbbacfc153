package storage

import "database/sql"

// migrateV001 creates the events table and its indexes. AUTOINCREMENT keeps
// ids unique across deletes and wipes.
func migrateV001(tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id   INTEGER PRIMARY KEY AUTOINCREMENT,
			ts   INTEGER NOT NULL,
			type TEXT NOT NULL CHECK (type IN ('smoke', 'craving'))
		)`,

		`CREATE INDEX IF NOT EXISTS idx_events_ts ON events(ts)`,
		`CREATE INDEX IF NOT EXISTS idx_events_type_ts ON events(type, ts)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
