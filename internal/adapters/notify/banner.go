package notify

import (
	"encoding/json"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"gymmate/internal/domain/notification"
)

// Broadcaster pushes a message to all connected dashboard pages.
type Broadcaster interface {
	Broadcast(message []byte)
}

// bannerMessage is the wire shape pushed over the dashboard WebSocket.
type bannerMessage struct {
	Type    string `json:"type"` // "notification" or "dismiss"
	ID      string `json:"id"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`
}

// BannerSink keeps the set of active (undismissed) banners, pushes them live
// to the dashboard, and drives the audio queue.
type BannerSink struct {
	hub   Broadcaster
	audio *AudioQueue

	mu     sync.Mutex
	active map[string]notification.Notification
}

// NewBannerSink creates a banner sink over the given hub and audio queue.
// Either may be nil (headless or silent operation).
func NewBannerSink(hub Broadcaster, audio *AudioQueue) *BannerSink {
	return &BannerSink{
		hub:    hub,
		audio:  audio,
		active: make(map[string]notification.Notification),
	}
}

// Notify surfaces n as a dismissible banner with an audio cue. Invalid
// notifications are logged and dropped; Notify never fails observably.
func (s *BannerSink) Notify(n notification.Notification) {
	if err := n.Validate(); err != nil {
		slog.Warn("banner_dropped", "error", err.Error())
		return
	}
	n.ID = uuid.NewString()

	s.mu.Lock()
	s.active[n.ID] = n
	s.mu.Unlock()

	slog.Info("banner_fired", "notification_id", n.ID, "event_id", n.EventID, "title", n.Title)

	s.broadcast(bannerMessage{Type: "notification", ID: n.ID, Title: n.Title, Message: n.Message})
	if s.audio != nil {
		s.audio.Enqueue(n.ID)
	}
}

// Dismiss removes the banner and stops its audio cue. Returns false for an
// unknown id.
// PRE: none
// POST: the banner is no longer in Active()
func (s *BannerSink) Dismiss(id string) bool {
	s.mu.Lock()
	_, ok := s.active[id]
	delete(s.active, id)
	s.mu.Unlock()

	if !ok {
		return false
	}
	if s.audio != nil {
		s.audio.Dismiss(id)
	}
	s.broadcast(bannerMessage{Type: "dismiss", ID: id})
	slog.Info("banner_dismissed", "notification_id", id)
	return true
}

// Active returns the undismissed banners ordered by firing time.
func (s *BannerSink) Active() []notification.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]notification.Notification, 0, len(s.active))
	for _, n := range s.active {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].FiredAt.Equal(out[j].FiredAt) {
			return out[i].FiredAt.Before(out[j].FiredAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *BannerSink) broadcast(msg bannerMessage) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		slog.Warn("banner_encode_failed", "error", err.Error())
		return
	}
	s.hub.Broadcast(payload)
}
