package notify

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
)

// Player plays one audio cue, blocking until it finishes or ctx is
// canceled.
type Player interface {
	Play(ctx context.Context) error
}

// ExecPlayer plays a cue by running an external command (e.g.
// "paplay /usr/share/sounds/alarm.ogg").
type ExecPlayer struct {
	name string
	args []string
}

// NewExecPlayer builds a player from a shell-less command line.
// PRE: command has at least the executable name
// POST: returns a player, or nil for an empty command
func NewExecPlayer(command string) *ExecPlayer {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil
	}
	return &ExecPlayer{name: fields[0], args: fields[1:]}
}

// Play runs the configured command. Cancellation kills the process, which
// stops the sound.
func (p *ExecPlayer) Play(ctx context.Context) error {
	return exec.CommandContext(ctx, p.name, p.args...).Run()
}

// NoopPlayer is silent; used when no audio command is configured.
type NoopPlayer struct{}

// Play returns immediately.
func (NoopPlayer) Play(context.Context) error { return nil }

// AudioQueue serializes cue playback: at most one cue plays at a time and
// subsequent cues wait their turn. Dismissing a notification stops its cue
// if playing, or drops it from the queue if still pending.
type AudioQueue struct {
	player   Player
	requests chan string
	quit     chan struct{}
	done     chan struct{}

	mu        sync.Mutex
	current   string
	cancel    context.CancelFunc
	pending   map[string]bool
	dismissed map[string]bool
}

// NewAudioQueue creates a queue over the given player.
func NewAudioQueue(player Player) *AudioQueue {
	if player == nil {
		player = NoopPlayer{}
	}
	return &AudioQueue{
		player:    player,
		requests:  make(chan string, 32),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
		pending:   make(map[string]bool),
		dismissed: make(map[string]bool),
	}
}

// Start launches the playback worker. Call Stop on teardown.
func (q *AudioQueue) Start() {
	go q.run()
}

// Stop halts the worker and any playing cue, and waits for the worker to
// exit.
func (q *AudioQueue) Stop() {
	close(q.quit)
	q.mu.Lock()
	if q.cancel != nil {
		q.cancel()
	}
	q.mu.Unlock()
	<-q.done
}

// Enqueue schedules the cue for notification id. A full queue drops the cue
// with a log line rather than blocking the caller.
func (q *AudioQueue) Enqueue(id string) {
	// Mark pending before the worker can see the id, so play always finds
	// the entry it deletes.
	q.mu.Lock()
	q.pending[id] = true
	q.mu.Unlock()
	select {
	case q.requests <- id:
	default:
		q.mu.Lock()
		delete(q.pending, id)
		q.mu.Unlock()
		slog.Warn("audio_queue_full", "notification_id", id)
	}
}

// Dismiss stops the cue for id if it is playing, or drops it if pending.
// Ids that already finished (or were never enqueued) are ignored, so the
// dismissed set never outgrows the queue.
func (q *AudioQueue) Dismiss(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.current == id && q.cancel != nil {
		q.cancel()
		return
	}
	if q.pending[id] {
		q.dismissed[id] = true
	}
}

func (q *AudioQueue) run() {
	defer close(q.done)
	for {
		select {
		case <-q.quit:
			return
		case id := <-q.requests:
			q.play(id)
		}
	}
}

func (q *AudioQueue) play(id string) {
	q.mu.Lock()
	delete(q.pending, id)
	if q.dismissed[id] {
		delete(q.dismissed, id)
		q.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	q.current = id
	q.cancel = cancel
	q.mu.Unlock()

	if err := q.player.Play(ctx); err != nil && ctx.Err() == nil {
		slog.Warn("audio_play_failed", "notification_id", id, "error", err.Error())
	}

	q.mu.Lock()
	q.current = ""
	q.cancel = nil
	q.mu.Unlock()
	cancel()
}
