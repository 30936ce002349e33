package notification_test

import (
	"strings"
	"testing"
	"time"

	"gymmate/internal/domain/event"
	"gymmate/internal/domain/notification"
)

// TestNotification_Validate tests validation of Notification.
func TestNotification_Validate(t *testing.T) {
	tests := []struct {
		name    string
		n       notification.Notification
		wantErr bool
	}{
		{"valid", notification.Notification{Title: "Upcoming class", Message: "Yoga starts soon."}, false},
		{"empty title", notification.Notification{Message: "Yoga starts soon."}, true},
		{"empty message", notification.Notification{Title: "Upcoming class"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.n.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestForReminder verifies the reminder notification carries the event id,
// its start time, and the lead time in minutes.
func TestForReminder(t *testing.T) {
	firedAt := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	ev := event.ScheduledEvent{
		ID:        7,
		Title:     "Yoga Basics",
		Kind:      event.KindClass,
		StartTime: time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC),
	}

	n := notification.ForReminder(ev, firedAt)

	if n.EventID != 7 {
		t.Errorf("EventID = %d, want 7", n.EventID)
	}
	if !n.FiredAt.Equal(firedAt) {
		t.Errorf("FiredAt = %v, want %v", n.FiredAt, firedAt)
	}
	if err := n.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	for _, want := range []string{"Yoga Basics", "09:00", "60 minutes"} {
		if !strings.Contains(n.Message, want) {
			t.Errorf("Message %q does not mention %q", n.Message, want)
		}
	}
}

// TestForPaymentConfirmation covers the fallback for an unnamed member.
func TestForPaymentConfirmation(t *testing.T) {
	firedAt := time.Now()

	named := notification.ForPaymentConfirmation("Mel", "$49.00", firedAt)
	if !strings.Contains(named.Message, "Mel") || !strings.Contains(named.Message, "$49.00") {
		t.Errorf("Message %q missing member name or amount", named.Message)
	}

	anon := notification.ForPaymentConfirmation("", "", firedAt)
	if !strings.Contains(anon.Message, "A member") {
		t.Errorf("Message %q missing anonymous fallback", anon.Message)
	}
	if anon.EventID != 0 {
		t.Errorf("EventID = %d, want 0", anon.EventID)
	}
}
