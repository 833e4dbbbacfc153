package storage

import "database/sql"

// migrateV002 adds a small key/value table for process-spanning state, used
// to remember which event the next one-shot undo may remove.
func migrateV002(tx *sql.Tx) error {
	_, err := tx.Exec(`CREATE TABLE IF NOT EXISTS meta (
		key   TEXT PRIMARY KEY,
		value INTEGER NOT NULL
	)`)
	return err
}
