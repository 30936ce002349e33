package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"gymmate/internal/adapters/notify"
	"gymmate/internal/adapters/storage/firedalarm"
	"gymmate/internal/domain/event"
	"gymmate/internal/domain/notification"
)

// Poller timing defaults. The reminder check runs on a fine tick while the
// event lists refresh on a much coarser schedule elsewhere.
const (
	DefaultPollInterval = 500 * time.Millisecond

	// DefaultAcceptanceWindow bounds how long after the alarm instant a
	// crossing still fires. A tick skipped past the whole window (e.g. the
	// process was suspended) means that reminder silently never fires this
	// session; widened to a full minute so ordinary tick jitter never loses
	// a reminder.
	DefaultAcceptanceWindow = time.Minute
)

// EventSource supplies the current event lists each tick.
type EventSource interface {
	Snapshot() []event.ScheduledEvent
}

// ReminderPollerDeps holds the poller's collaborators.
type ReminderPollerDeps struct {
	Events EventSource
	Fired  firedalarm.Store
	Sink   notify.Sink
}

// ReminderPoller owns a recurring check that fires each event's reminder at
// most once: Pending -> Fired, with no way back within a session and the
// fired set persisted across restarts. It is an explicit long-lived service
// with Start/Stop; nothing relies on garbage collection to end the timer.
type ReminderPoller struct {
	deps       ReminderPollerDeps
	interval   time.Duration
	acceptance time.Duration
	now        func() time.Time

	fired map[int64]struct{} // hydrated once at Start, single-writer after

	quit chan struct{}
	done chan struct{}
}

// NewReminderPoller creates a poller with the default timings.
// PRE: all deps are non-nil
// POST: returns a poller ready to Start
func NewReminderPoller(deps ReminderPollerDeps) *ReminderPoller {
	return &ReminderPoller{
		deps:       deps,
		interval:   DefaultPollInterval,
		acceptance: DefaultAcceptanceWindow,
		now:        time.Now,
	}
}

// WithClock overrides the poller's clock. Returns the poller for chaining.
func (p *ReminderPoller) WithClock(now func() time.Time) *ReminderPoller {
	p.now = now
	return p
}

// WithTimings overrides the tick interval and acceptance window.
// PRE: both durations are positive
func (p *ReminderPoller) WithTimings(interval, acceptance time.Duration) *ReminderPoller {
	p.interval = interval
	p.acceptance = acceptance
	return p
}

// Start hydrates the fired set from storage and launches the tick loop.
// PRE: the poller has not been started
// POST: reminders fire until Stop is called
func (p *ReminderPoller) Start() {
	p.fired = p.deps.Fired.Load(context.Background())
	p.quit = make(chan struct{})
	p.done = make(chan struct{})
	slog.Info("reminder_poller_started", "interval", p.interval.String(), "already_fired", len(p.fired))

	go func() {
		defer close(p.done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.Check(context.Background())
			case <-p.quit:
				return
			}
		}
	}()
}

// Stop ends the tick loop and waits for it to exit.
// PRE: Start was called
// POST: no further reminders fire from this poller
func (p *ReminderPoller) Stop() {
	close(p.quit)
	<-p.done
	slog.Info("reminder_poller_stopped")
}

// Check runs one poll pass: every cached event whose alarm instant has been
// crossed within the acceptance window, and which has not fired before,
// transitions to Fired. The id is persisted before the sink is invoked.
// PRE: Start has hydrated the fired set (or the zero map is acceptable)
// POST: each qualifying event fired exactly once across all calls
func (p *ReminderPoller) Check(ctx context.Context) {
	now := p.now()
	if p.fired == nil {
		p.fired = make(map[int64]struct{})
	}

	for _, e := range p.deps.Events.Snapshot() {
		if _, already := p.fired[e.ID]; already {
			continue
		}
		sinceAlarm := now.Sub(e.AlarmInstant())
		if sinceAlarm < 0 || sinceAlarm > p.acceptance {
			continue
		}

		p.fired[e.ID] = struct{}{}
		if err := p.deps.Fired.Add(ctx, e.ID); err != nil {
			// Fail open: the in-memory mark still prevents re-firing this
			// session; a restart may fire again.
			slog.Warn("fired_alarm_persist_failed", "event_id", e.ID, "error", err.Error())
		}

		slog.Info("reminder_fired", "event_id", e.ID, "kind", e.Kind, "start", e.StartTime)
		p.deps.Sink.Notify(notification.ForReminder(e, now))
	}
}
