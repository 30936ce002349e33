package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// migrations is the ordered list of schema changes. Index+1 is the schema
// version after applying that migration. Never reorder or edit an applied
// migration; append a new one instead.
var migrations = []string{
	// 1: key-value storage for the bearer token and user identity
	`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`,

	// 2: fired alarm set, replacing the bare serialized array the old client
	// kept in browser storage
	`CREATE TABLE IF NOT EXISTS fired_alarm (
		event_id INTEGER PRIMARY KEY,
		fired_at TEXT NOT NULL
	);`,
}

// LatestSchemaVersion returns the schema version after all migrations.
func LatestSchemaVersion() int {
	return len(migrations)
}

// SchemaVersion returns the database's current schema version.
// PRE: db is a valid connection
// POST: returns 0 for a database without a schema_version table
func SchemaVersion(db *sql.DB) (int, error) {
	var exists int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("check schema_version table: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}
	var version int
	if err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

// MigrateDB applies all pending migrations inside transactions, recording
// each in schema_version. Safe to run on every startup.
// PRE: db is a valid connection
// POST: schema is at LatestSchemaVersion(); idempotent on re-run
func MigrateDB(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`); err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}

	for i := current; i < len(migrations); i++ {
		version := i + 1
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", version, err)
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration %d: %w", version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", version, err)
		}
		slog.Info("migration_applied", "version", version)
	}

	return nil
}
