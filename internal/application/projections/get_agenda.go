package projections

import (
	"time"

	"gymmate/internal/domain/booking"
	"gymmate/internal/domain/event"
)

// AgendaEventSource defines the cache surface needed by this projection.
type AgendaEventSource interface {
	Snapshot() []event.ScheduledEvent
}

// GetAgendaDeps holds dependencies for the projection.
type GetAgendaDeps struct {
	Events AgendaEventSource
}

// AgendaItem is one row of the rendered agenda.
type AgendaItem struct {
	ID           int64
	Title        string
	Coach        string
	Location     string
	Kind         string
	StartTime    time.Time
	StartDisplay string // "Mon 02 Jan 15:04"
}

// AgendaResult carries the filtered agenda plus the booking-form floor.
type AgendaResult struct {
	Items []AgendaItem
	// MinBookable is the earliest legal instant to offer in the
	// reservation form's picker for the given now.
	MinBookable time.Time
	// NoResults distinguishes "nothing matched" from "nothing fetched yet".
	NoResults bool
}

// QueryGetAgenda filters and sorts the cached events for display.
// Algorithm: 1) snapshot the current lists, 2) apply the filter criteria,
// 3) shape rows for rendering, 4) compute the booking-window floor.
// PRE: deps are wired
// POST: items honor every predicate in criteria and ascend by start time
func QueryGetAgenda(criteria event.Criteria, now time.Time, deps GetAgendaDeps) AgendaResult {
	all := deps.Events.Snapshot()
	matched := event.Filter(all, criteria, now)

	items := make([]AgendaItem, 0, len(matched))
	for _, e := range matched {
		items = append(items, AgendaItem{
			ID:           e.ID,
			Title:        e.Title,
			Coach:        e.Coach,
			Location:     e.Location,
			Kind:         e.Kind,
			StartTime:    e.StartTime,
			StartDisplay: e.StartTime.Format("Mon 02 Jan 15:04"),
		})
	}

	return AgendaResult{
		Items:       items,
		MinBookable: booking.MinimumBookableInstant(now),
		NoResults:   len(items) == 0 && len(all) > 0,
	}
}
