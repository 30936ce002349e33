package kv

import (
	"context"
	"database/sql"
	"log/slog"

	"gymmate/internal/adapters/storage"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new key-value store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get reads the value for key.
// PRE: key is non-empty
// POST: returns the stored value, or "" if absent or unreadable (fail open)
func (s *SQLiteStore) Get(ctx context.Context, key string) string {
	row := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key)
	var value string
	err := row.Scan(&value)
	if err == sql.ErrNoRows {
		return ""
	}
	if err != nil {
		slog.Warn("kv_get_failed", "key", key, "error", err.Error())
		return ""
	}
	return value
}

// Set writes the value for key, replacing any existing value.
// PRE: key is non-empty
// POST: Get(key) returns value
func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value=excluded.value",
		key, value,
	)
	return err
}

// Delete removes the value for key. Deleting an absent key is not an error.
// PRE: key is non-empty
// POST: Get(key) returns ""
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key)
	return err
}
