package notification

import (
	"errors"
	"fmt"
	"time"

	"gymmate/internal/domain/event"
)

// Domain errors
var (
	ErrEmptyTitle   = errors.New("notification title cannot be empty")
	ErrEmptyMessage = errors.New("notification message cannot be empty")
)

// Notification is a one-shot message surfaced to the user with an option to
// dismiss. EventID is zero for notifications not tied to a scheduled event
// (e.g. payment confirmations).
type Notification struct {
	ID      string // assigned by the sink (UUID)
	EventID int64
	Title   string
	Message string // may contain markdown
	FiredAt time.Time
}

// Validate checks the notification's invariants.
// PRE: none
// POST: returns nil if valid, error describing the first violation otherwise
func (n *Notification) Validate() error {
	if n.Title == "" {
		return ErrEmptyTitle
	}
	if n.Message == "" {
		return ErrEmptyMessage
	}
	return nil
}

// ForReminder builds the reminder notification for an event, describing the
// event and its lead time.
// PRE: e is a validated event
// POST: returns a notification carrying e.ID, a title, and a message
func ForReminder(e event.ScheduledEvent, firedAt time.Time) Notification {
	minutes := int(e.LeadTime().Minutes())
	return Notification{
		EventID: e.ID,
		Title:   fmt.Sprintf("Upcoming %s", e.Kind),
		Message: fmt.Sprintf("**%s** starts at %s — %d minutes from now.",
			e.Title, e.StartTime.Format("15:04"), minutes),
		FiredAt: firedAt,
	}
}

// ForPaymentConfirmation builds the banner shown when the remote push
// channel reports a confirmed payment.
// PRE: none
// POST: returns a notification with EventID zero
func ForPaymentConfirmation(memberName, amount string, firedAt time.Time) Notification {
	who := memberName
	if who == "" {
		who = "A member"
	}
	msg := fmt.Sprintf("%s completed a payment", who)
	if amount != "" {
		msg = fmt.Sprintf("%s of %s", msg, amount)
	}
	return Notification{
		Title:   "Payment confirmed",
		Message: msg + ".",
		FiredAt: firedAt,
	}
}
