package event

import (
	"sort"
	"strings"
	"time"
)

// Time-of-day bucket boundaries (start hour, inclusive).
const (
	AfternoonStartHour = 12
	EveningStartHour   = 17
)

// Buckets holds the time-of-day bucket flags. An event matches if its start
// hour falls in any enabled bucket. With every flag off the filter matches
// nothing; callers that want "no bucket filtering" enable all three.
type Buckets struct {
	Morning   bool // start hour < 12
	Afternoon bool // 12 <= start hour < 17
	Evening   bool // start hour >= 17
}

// AllBuckets returns Buckets with every flag enabled.
func AllBuckets() Buckets {
	return Buckets{Morning: true, Afternoon: true, Evening: true}
}

// Contains reports whether the given start hour falls in an enabled bucket.
// PRE: 0 <= hour <= 23
// POST: returns false when all flags are off
func (b Buckets) Contains(hour int) bool {
	switch {
	case hour < AfternoonStartHour:
		return b.Morning
	case hour < EveningStartHour:
		return b.Afternoon
	default:
		return b.Evening
	}
}

// Criteria is a transient, per-page set of filter predicates. Predicates
// compose by logical AND; an empty search or nil date matches everything
// for that dimension.
type Criteria struct {
	Date     *time.Time // match events on this calendar day only
	Buckets  Buckets
	Search   string // case-insensitive substring over Title, Coach, Location
	Archived bool   // true: events before now; false: upcoming events
}

// DefaultCriteria returns criteria that match every upcoming event.
func DefaultCriteria() Criteria {
	return Criteria{Buckets: AllBuckets()}
}

// Filter applies the criteria to events and returns the matching subset
// sorted ascending by start time (ties broken by ID). Deterministic for a
// fixed now; does not mutate its input. An empty result is the "no results"
// state, not an error.
// PRE: none
// POST: every returned event satisfies every active predicate in c
func Filter(events []ScheduledEvent, c Criteria, now time.Time) []ScheduledEvent {
	search := strings.ToLower(strings.TrimSpace(c.Search))

	out := make([]ScheduledEvent, 0, len(events))
	for _, e := range events {
		if c.Date != nil && !sameDay(e.StartTime, *c.Date) {
			continue
		}
		if !c.Buckets.Contains(e.StartTime.Hour()) {
			continue
		}
		if search != "" && !matchesSearch(e, search) {
			continue
		}
		if e.IsUpcoming(now) == c.Archived {
			continue
		}
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// matchesSearch reports whether the lowercased search term appears in any
// of the event's display fields.
func matchesSearch(e ScheduledEvent, search string) bool {
	for _, field := range []string{e.Title, e.Coach, e.Location} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
