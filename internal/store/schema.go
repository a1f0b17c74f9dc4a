package store

import (
	"database/sql"
	"fmt"
)

const overlayTableDDL = `
CREATE TABLE IF NOT EXISTS overlay (
    name TEXT PRIMARY KEY,
    description TEXT NOT NULL,
    risk TEXT NOT NULL
);
`

const historyTableDDL = `
CREATE TABLE IF NOT EXISTS history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL,
    name TEXT NOT NULL,
    size INTEGER NOT NULL,
    outcome TEXT NOT NULL,
    privilege TEXT NOT NULL,
    reason TEXT NOT NULL DEFAULT '',
    ts INTEGER NOT NULL
);
`

const historyTsIndexDDL = `CREATE INDEX IF NOT EXISTS idx_history_ts ON history(ts DESC);`

func initSchema(db *sql.DB) error {
	ddls := []string{
		overlayTableDDL,
		historyTableDDL,
		historyTsIndexDDL,
	}
	for _, ddl := range ddls {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("failed to execute DDL: %w", err)
		}
	}
	return nil
}

// applyPragmas configures SQLite so every committed mutation either
// fully lands or the prior content is retained after a crash.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to apply pragma %q: %w", pragma, err)
		}
	}
	return nil
}
