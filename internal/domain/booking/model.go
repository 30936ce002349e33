package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Booking window clock-time bounds, local time. The closing hour itself is
// bookable only at minute (and second) zero.
const (
	OpenHour  = 4
	CloseHour = 20
)

// Domain errors. Callers surface these as user-facing rejection messages
// and do not submit; the three window errors are distinguishable from each
// other so "after closing" never reads as "in the past".
var (
	ErrInPast        = errors.New("booking time is in the past")
	ErrBeforeOpening = errors.New("booking time is before the 04:00 opening")
	ErrAfterClosing  = errors.New("booking time is after the 20:00 closing")
	ErrEmptyDate     = errors.New("booking date cannot be empty")
	ErrEmptyTime     = errors.New("booking time cannot be empty")
)

// MinimumBookableInstant returns the earliest legal booking instant for the
// given now: before opening it snaps forward to today's opening, at or after
// closing it snaps to tomorrow's opening, otherwise now is returned
// unchanged. "Tomorrow" uses calendar-day arithmetic so month and year
// boundaries are never skipped.
// PRE: none
// POST: the result satisfies CheckBookable(result, now) == nil
func MinimumBookableInstant(now time.Time) time.Time {
	if now.Hour() < OpenHour {
		return openingOn(now)
	}
	if now.Hour() >= CloseHour {
		return openingOn(now.AddDate(0, 0, 1))
	}
	return now
}

// CheckBookable validates a candidate booking instant against the window.
// PRE: none
// POST: returns nil if candidate is bookable; otherwise ErrInPast,
// ErrBeforeOpening, or ErrAfterClosing
func CheckBookable(candidate, now time.Time) error {
	if candidate.Before(now) {
		return ErrInPast
	}
	if candidate.Hour() < OpenHour {
		return ErrBeforeOpening
	}
	if candidate.Hour() > CloseHour {
		return ErrAfterClosing
	}
	// The closing hour is allowed only on the exact hour.
	if candidate.Hour() == CloseHour && (candidate.Minute() != 0 || candidate.Second() != 0) {
		return ErrAfterClosing
	}
	return nil
}

// openingOn returns the opening instant on the same calendar day as t.
func openingOn(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), OpenHour, 0, 0, 0, t.Location())
}

// Request carries the user's input for a new reservation. Facility,
// equipment, and trainer are optional; date and time are required.
type Request struct {
	Date        string // YYYY-MM-DD
	Time        string // HH:MM
	FacilityID  string
	EquipmentID string
	TrainerID   string
}

// Validate checks that the required fields are present and parseable.
// PRE: none
// POST: returns nil if valid, error describing the first violation otherwise
func (r *Request) Validate() error {
	if strings.TrimSpace(r.Date) == "" {
		return ErrEmptyDate
	}
	if strings.TrimSpace(r.Time) == "" {
		return ErrEmptyTime
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return fmt.Errorf("invalid booking date %q: %w", r.Date, err)
	}
	if _, err := time.Parse("15:04", r.Time); err != nil {
		return fmt.Errorf("invalid booking time %q: %w", r.Time, err)
	}
	return nil
}

// At combines the request's date and time into an instant in loc.
// PRE: Validate() returned nil
// POST: returns the combined instant, or an error if the fields do not parse
func (r *Request) At(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", r.Date+" "+r.Time, loc)
}
