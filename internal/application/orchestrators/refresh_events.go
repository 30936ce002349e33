package orchestrators

import (
	"context"
	"log/slog"

	"gymmate/internal/domain/event"
)

// EventLister is the gateway surface needed by the refresh orchestrator.
type EventLister interface {
	ListRegistrations(ctx context.Context) ([]event.ScheduledEvent, error)
	ListWorkoutPlans(ctx context.Context) ([]event.ScheduledEvent, error)
}

// EventCache is the cache surface the refresh writes into.
type EventCache interface {
	ReplaceRegistrations(events []event.ScheduledEvent)
	ReplaceWorkouts(events []event.ScheduledEvent)
}

// RefreshEventsDeps holds dependencies for the refresh.
type RefreshEventsDeps struct {
	Gateway EventLister
	Cache   EventCache
}

// ExecuteRefreshEvents re-fetches both event lists. Each list is replaced
// independently: a failed fetch logs and keeps that list's last-known-good
// contents, and no ordering holds between the two fetches. Never retries.
// PRE: deps are wired
// POST: each successfully fetched list is swapped into the cache
func ExecuteRefreshEvents(ctx context.Context, deps RefreshEventsDeps) {
	registrations, err := deps.Gateway.ListRegistrations(ctx)
	if err != nil {
		slog.Warn("refresh_registrations_failed", "error", err.Error())
	} else {
		deps.Cache.ReplaceRegistrations(registrations)
		slog.Info("refresh_registrations", "count", len(registrations))
	}

	workouts, err := deps.Gateway.ListWorkoutPlans(ctx)
	if err != nil {
		slog.Warn("refresh_workouts_failed", "error", err.Error())
	} else {
		deps.Cache.ReplaceWorkouts(workouts)
		slog.Info("refresh_workouts", "count", len(workouts))
	}
}
