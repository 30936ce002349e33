package notify

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"time"

	"gymmate/internal/adapters/email"
	"gymmate/internal/domain/notification"
)

// EmailSink forwards notifications to the configured recipient by email.
// Send failures are logged, never surfaced: email is a best-effort extra
// channel next to the banner.
type EmailSink struct {
	sender  email.Sender
	to      string
	timeout time.Duration
}

// NewEmailSink creates an email sink delivering to a single recipient.
// PRE: sender is non-nil, to is a valid address
// POST: returns a ready sink
func NewEmailSink(sender email.Sender, to string) *EmailSink {
	return &EmailSink{sender: sender, to: to, timeout: 15 * time.Second}
}

// Notify sends n as an email.
func (s *EmailSink) Notify(n notification.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	req := email.SendRequest{
		To:      []string{s.to},
		Subject: n.Title,
		HTML:    fmt.Sprintf("<p>%s</p>", html.EscapeString(n.Message)),
	}
	if _, err := s.sender.Send(ctx, req); err != nil {
		slog.Warn("email_notify_failed", "event_id", n.EventID, "error", err.Error())
	}
}
