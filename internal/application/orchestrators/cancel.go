package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"gymmate/internal/domain/event"
)

// EventCanceler is the gateway surface needed for cancellations.
type EventCanceler interface {
	CancelRegistration(ctx context.Context, id int64) error
	CancelWorkoutPlan(ctx context.Context, id int64) error
}

// EventRemover is the cache surface for optimistic removal.
type EventRemover interface {
	Remove(id int64)
}

// CancelDeps holds dependencies for cancelling an event.
type CancelDeps struct {
	Gateway EventCanceler
	Cache   EventRemover
}

// ExecuteCancel deletes the event server-side and removes it from the
// in-memory lists immediately, without waiting for a re-fetch. The reminder
// poller needs no separate signal: it only scans the current lists.
// PRE: id > 0, kind is a valid event kind
// POST: on nil error the event is gone both server-side and locally
func ExecuteCancel(ctx context.Context, id int64, kind string, deps CancelDeps) error {
	var err error
	switch kind {
	case event.KindClass:
		err = deps.Gateway.CancelRegistration(ctx, id)
	case event.KindWorkout:
		err = deps.Gateway.CancelWorkoutPlan(ctx, id)
	default:
		return fmt.Errorf("cannot cancel event of kind %q: %w", kind, event.ErrInvalidKind)
	}
	if err != nil {
		return err
	}

	deps.Cache.Remove(id)
	slog.Info("event_cancelled", "event_id", id, "kind", kind)
	return nil
}
