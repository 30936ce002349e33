package firedalarm

import (
	"context"
	"log/slog"
	"time"

	"gymmate/internal/adapters/storage"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new fired-alarm store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Load hydrates the full fired-alarm set.
// PRE: none
// POST: returns the persisted set; on any storage error returns an empty
// set and logs, never fails
func (s *SQLiteStore) Load(ctx context.Context) map[int64]struct{} {
	fired := make(map[int64]struct{})

	rows, err := s.db.QueryContext(ctx, "SELECT event_id FROM fired_alarm")
	if err != nil {
		slog.Warn("fired_alarm_load_failed", "error", err.Error())
		return fired
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			slog.Warn("fired_alarm_scan_failed", "error", err.Error())
			return make(map[int64]struct{})
		}
		fired[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		slog.Warn("fired_alarm_load_failed", "error", err.Error())
		return make(map[int64]struct{})
	}
	return fired
}

// Has reports whether eventID has already fired.
// PRE: eventID > 0
// POST: returns false on storage errors (fail open)
func (s *SQLiteStore) Has(ctx context.Context, eventID int64) bool {
	var count int
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM fired_alarm WHERE event_id = ?", eventID)
	if err := row.Scan(&count); err != nil {
		slog.Warn("fired_alarm_has_failed", "event_id", eventID, "error", err.Error())
		return false
	}
	return count > 0
}

// Add records eventID as fired. Adding an already-present id has no
// additional effect.
// PRE: eventID > 0
// POST: Has(eventID) returns true
func (s *SQLiteStore) Add(ctx context.Context, eventID int64) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO fired_alarm (event_id, fired_at) VALUES (?, ?)",
		eventID, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}
