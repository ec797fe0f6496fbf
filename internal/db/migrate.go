package db

import (
	"database/sql"
	"fmt"
)

// Migrate brings the schema up to date. Applied steps are tracked in
// PRAGMA user_version, so each step runs exactly once per database.
func Migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for i := version; i < len(migrations); i++ {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		// PRAGMA does not accept bound parameters.
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d: recording version: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}

// SchemaVersion returns the number of applied migrations.
func SchemaVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

// migrations are applied in order. Append only; never edit a released step.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS preferences (
		id         TEXT PRIMARY KEY,
		endpoint   TEXT NOT NULL DEFAULT '',
		wbs_type   TEXT NOT NULL DEFAULT '',
		wbs_code   TEXT NOT NULL DEFAULT '',
		project    TEXT NOT NULL DEFAULT '',
		delay_ms   INTEGER NOT NULL DEFAULT 1000 CHECK(delay_ms >= 0),
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS template_usage (
		wbs_type     TEXT PRIMARY KEY,
		batches      INTEGER NOT NULL DEFAULT 0,
		last_used_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_template_usage_last_used ON template_usage(last_used_at)`,

	// The request delay comes from config on every run.
	`ALTER TABLE preferences DROP COLUMN delay_ms`,
}
