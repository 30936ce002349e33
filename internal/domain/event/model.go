package event

import (
	"errors"
	"time"
)

// Kind constants. Each kind carries its own reminder lead time.
const (
	KindClass   = "class"   // a registered gym class
	KindWorkout = "workout" // a personally scheduled workout plan
)

// ValidKinds contains all valid kind values.
var ValidKinds = []string{KindClass, KindWorkout}

// Reminder lead times per kind. Fixed constants, not user-configurable.
const (
	ClassLeadTime   = 60 * time.Minute
	WorkoutLeadTime = 30 * time.Minute
)

// NoName is substituted for a missing display name at the gateway boundary.
const NoName = "No Name"

// Domain errors
var (
	ErrZeroID        = errors.New("event ID must be positive")
	ErrInvalidKind   = errors.New("event kind must be 'class' or 'workout'")
	ErrZeroStartTime = errors.New("event start time is required")
)

// ScheduledEvent represents one bookable activity the user cares about:
// a class they registered for or a workout they scheduled.
// Created server-side; the client holds it read-only and drops it from its
// in-memory lists on cancellation.
type ScheduledEvent struct {
	ID        int64
	Title     string
	Coach     string
	Location  string
	Kind      string // "class" or "workout"
	StartTime time.Time
}

// Validate checks the event's invariants.
// PRE: none
// POST: returns nil if valid, error describing the first violation otherwise
func (e *ScheduledEvent) Validate() error {
	if e.ID <= 0 {
		return ErrZeroID
	}
	if !isValidKind(e.Kind) {
		return ErrInvalidKind
	}
	if e.StartTime.IsZero() {
		return ErrZeroStartTime
	}
	return nil
}

// LeadTime returns the reminder lead time for the event's kind.
// PRE: none
// POST: returns the per-kind constant; unknown kinds fall back to the class lead time
func (e *ScheduledEvent) LeadTime() time.Duration {
	if e.Kind == KindWorkout {
		return WorkoutLeadTime
	}
	return ClassLeadTime
}

// AlarmInstant returns the instant at which the reminder for this event
// should fire: StartTime minus the kind's lead time.
// PRE: StartTime is set
// POST: returns StartTime - LeadTime()
func (e *ScheduledEvent) AlarmInstant() time.Time {
	return e.StartTime.Add(-e.LeadTime())
}

// IsUpcoming returns true if the event starts at or after the given instant.
// PRE: none
// POST: returns !StartTime.Before(now)
func (e *ScheduledEvent) IsUpcoming(now time.Time) bool {
	return !e.StartTime.Before(now)
}

func isValidKind(kind string) bool {
	for _, k := range ValidKinds {
		if k == kind {
			return true
		}
	}
	return false
}
