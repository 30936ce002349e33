package firedalarm

import "context"

// Store persists the set of event ids whose reminder has already fired, so
// the poller never re-fires for the same event across restarts. Ids are only
// ever added; there is no expiry within a stored set's lifetime.
type Store interface {
	// Load hydrates the full set. Failures degrade to an empty set (fail
	// open: every event reads as not-yet-fired) rather than returning an
	// error, so a corrupted store never blocks startup.
	Load(ctx context.Context) map[int64]struct{}

	// Has reports whether the reminder for eventID has already fired.
	Has(ctx context.Context, eventID int64) bool

	// Add records eventID as fired and persists immediately. Idempotent.
	Add(ctx context.Context, eventID int64) error
}
