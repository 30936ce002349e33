package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"gymmate/internal/domain/event"
)

// workoutRecord mirrors the API's workout-plan shape.
type workoutRecord struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	StartsAt string `json:"starts_at"`
	Location string `json:"location"`
}

// ListWorkoutPlans fetches the user's scheduled workout plans. Records
// without a parseable start timestamp are excluded; a missing name becomes
// the placeholder.
// PRE: ctx carries any caller deadline
// POST: every returned event passes Validate
func (c *Client) ListWorkoutPlans(ctx context.Context) ([]event.ScheduledEvent, error) {
	var records []workoutRecord
	if err := c.do(ctx, http.MethodGet, "/api/workout-plans", nil, &records); err != nil {
		return nil, fmt.Errorf("list workout plans: %w", err)
	}

	events := make([]event.ScheduledEvent, 0, len(records))
	for _, r := range records {
		start := c.parseStart(r.StartsAt)
		if start.IsZero() {
			slog.Debug("workout_excluded", "id", r.ID, "reason", "missing_start")
			continue
		}
		name := r.Name
		if name == "" {
			name = event.NoName
		}
		events = append(events, event.ScheduledEvent{
			ID:        r.ID,
			Title:     name,
			Location:  r.Location,
			Kind:      event.KindWorkout,
			StartTime: start,
		})
	}
	return events, nil
}

// CancelWorkoutPlan deletes a workout plan by id.
// PRE: id > 0
// POST: the plan no longer exists server-side
func (c *Client) CancelWorkoutPlan(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/workout-plans/%d", id)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("cancel workout plan %d: %w", id, err)
	}
	return nil
}
