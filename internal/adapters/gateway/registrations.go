package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"gymmate/internal/domain/event"
)

// registrationRecord mirrors the API's loosely populated registration shape.
// The nested class may be missing entirely on partially synced records.
type registrationRecord struct {
	ID             int64 `json:"id"`
	ScheduledClass *struct {
		Name     string `json:"name"`
		StartsAt string `json:"starts_at"`
		Coach    string `json:"coach"`
		Location string `json:"location"`
	} `json:"scheduled_class"`
}

// ListRegistrations fetches the user's class registrations. Records missing
// the nested class or its start timestamp are silently excluded; a missing
// name becomes the placeholder so rendering never crashes on a partial
// record.
// PRE: ctx carries any caller deadline
// POST: every returned event passes Validate
func (c *Client) ListRegistrations(ctx context.Context) ([]event.ScheduledEvent, error) {
	var records []registrationRecord
	if err := c.do(ctx, http.MethodGet, "/api/registrations", nil, &records); err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	events := make([]event.ScheduledEvent, 0, len(records))
	for _, r := range records {
		if r.ScheduledClass == nil {
			slog.Debug("registration_excluded", "id", r.ID, "reason", "missing_class")
			continue
		}
		start := c.parseStart(r.ScheduledClass.StartsAt)
		if start.IsZero() {
			slog.Debug("registration_excluded", "id", r.ID, "reason", "missing_start")
			continue
		}
		title := r.ScheduledClass.Name
		if title == "" {
			title = event.NoName
		}
		events = append(events, event.ScheduledEvent{
			ID:        r.ID,
			Title:     title,
			Coach:     r.ScheduledClass.Coach,
			Location:  r.ScheduledClass.Location,
			Kind:      event.KindClass,
			StartTime: start,
		})
	}
	return events, nil
}

// CancelRegistration deletes a registration by id. The caller removes the
// event from the in-memory lists optimistically on success.
// PRE: id > 0
// POST: the registration no longer exists server-side
func (c *Client) CancelRegistration(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/registrations/%d", id)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("cancel registration %d: %w", id, err)
	}
	return nil
}
