// Package notify delivers one-shot notifications to the user: a dismissible
// banner pushed to the dashboard, a serialized audio cue, and optionally
// email. Sinks cannot fail observably; delivery problems are logged and
// swallowed so a broken sink never breaks the poller.
package notify

import "gymmate/internal/domain/notification"

// Sink is the capability the reminder poller and push subscriber invoke.
type Sink interface {
	Notify(n notification.Notification)
}

// Multi fans a notification out to several sinks in order.
type Multi []Sink

// Notify delivers n to every sink.
func (m Multi) Notify(n notification.Notification) {
	for _, s := range m {
		s.Notify(n)
	}
}
