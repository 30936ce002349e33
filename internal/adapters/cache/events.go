// Package cache holds the in-memory event lists the rest of the process
// reads: the poller rescans them every tick and the dashboard renders them.
// Staleness up to the refresh interval is accepted; there is no ordering
// guarantee between the registration and workout refreshes.
package cache

import (
	"sync"

	"gymmate/internal/domain/event"
)

// Events is a thread-safe holder for the current registration and workout
// lists. Writers replace whole lists (refresh) or remove single ids
// (optimistic cancellation); readers get a snapshot copy.
type Events struct {
	mu            sync.RWMutex
	registrations []event.ScheduledEvent
	workouts      []event.ScheduledEvent
}

// NewEvents creates an empty cache.
func NewEvents() *Events {
	return &Events{}
}

// ReplaceRegistrations swaps in a freshly fetched registration list.
// PRE: events have been normalized at the gateway boundary
// POST: Snapshot reflects the new list
func (c *Events) ReplaceRegistrations(events []event.ScheduledEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registrations = append([]event.ScheduledEvent(nil), events...)
}

// ReplaceWorkouts swaps in a freshly fetched workout-plan list.
// PRE: events have been normalized at the gateway boundary
// POST: Snapshot reflects the new list
func (c *Events) ReplaceWorkouts(events []event.ScheduledEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.workouts = append([]event.ScheduledEvent(nil), events...)
}

// Remove drops the event with the given id from whichever list holds it,
// without waiting for a re-fetch.
// PRE: none
// POST: no list contains id
func (c *Events) Remove(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registrations = removeByID(c.registrations, id)
	c.workouts = removeByID(c.workouts, id)
}

// Snapshot returns a copy of both lists combined. Callers may filter and
// sort it freely without affecting the cache.
// PRE: none
// POST: the returned slice shares no backing storage with the cache
func (c *Events) Snapshot() []event.ScheduledEvent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]event.ScheduledEvent, 0, len(c.registrations)+len(c.workouts))
	out = append(out, c.registrations...)
	out = append(out, c.workouts...)
	return out
}

func removeByID(events []event.ScheduledEvent, id int64) []event.ScheduledEvent {
	out := events[:0]
	for _, e := range events {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}
