package push

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"gymmate/internal/adapters/notify"
	"gymmate/internal/domain/notification"
)

// EventPaymentConfirmed is the single remote event type the subscriber
// listens for.
const EventPaymentConfirmed = "payment.confirmed"

// reconnectDelay is the fixed wait between connection attempts.
const reconnectDelay = 10 * time.Second

// channelMessage is the remote push channel's envelope.
type channelMessage struct {
	Type    string `json:"type"`
	Payload struct {
		PaymentID  string `json:"payment_id"`
		MemberName string `json:"member_name"`
		Amount     string `json:"amount"`
	} `json:"payload"`
}

// subscribeMessage asks the channel to deliver one event type.
type subscribeMessage struct {
	Type  string `json:"type"`
	Event string `json:"event"`
}

// Subscriber listens on the remote push channel for payment confirmations
// and pops a banner at most once per payment per session. The seen set is
// deliberately in-memory only: the at-most-once guarantee is per session,
// unlike the reminder poller's persisted set.
type Subscriber struct {
	url       string
	sink      notify.Sink
	now       func() time.Time
	reconnect time.Duration

	cancel context.CancelFunc
	done   chan struct{}

	seen map[string]bool
}

// NewSubscriber creates a subscriber for the given channel URL.
// PRE: url is a ws:// or wss:// endpoint; sink is non-nil
// POST: returns a subscriber ready to Start
func NewSubscriber(url string, sink notify.Sink) *Subscriber {
	return &Subscriber{
		url:       url,
		sink:      sink,
		now:       time.Now,
		reconnect: reconnectDelay,
		seen:      make(map[string]bool),
	}
}

// WithReconnectDelay overrides the wait between connection attempts.
// Returns the subscriber for chaining.
func (s *Subscriber) WithReconnectDelay(d time.Duration) *Subscriber {
	s.reconnect = d
	return s
}

// Start launches the subscription loop. Call Stop on teardown.
func (s *Subscriber) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx)
}

// Stop ends the subscription and waits for the loop to exit.
func (s *Subscriber) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

func (s *Subscriber) run(ctx context.Context) {
	defer close(s.done)
	for {
		if err := s.connectAndListen(ctx); err != nil && ctx.Err() == nil {
			slog.Warn("push_channel_disconnected", "error", err.Error())
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.reconnect):
		}
	}
}

func (s *Subscriber) connectAndListen(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Close the socket when ctx ends so ReadMessage unblocks. The watcher
	// must not outlive the connection: connDone releases it when this
	// attempt returns, otherwise every reconnect would park a goroutine
	// until Stop.
	connDone := make(chan struct{})
	defer close(connDone)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-connDone:
		}
	}()

	sub := subscribeMessage{Type: "subscribe", Event: EventPaymentConfirmed}
	if err := conn.WriteJSON(sub); err != nil {
		return err
	}
	slog.Info("push_channel_subscribed", "event", EventPaymentConfirmed)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		s.handle(payload)
	}
}

// handle fires the confirmation banner for a payment seen for the first
// time this session. Malformed or unrelated messages are ignored.
func (s *Subscriber) handle(payload []byte) {
	var msg channelMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		slog.Debug("push_channel_ignored", "reason", "malformed")
		return
	}
	if msg.Type != EventPaymentConfirmed {
		return
	}
	if msg.Payload.PaymentID != "" && s.seen[msg.Payload.PaymentID] {
		return
	}
	if msg.Payload.PaymentID != "" {
		s.seen[msg.Payload.PaymentID] = true
	}

	n := notification.ForPaymentConfirmation(msg.Payload.MemberName, msg.Payload.Amount, s.now())
	s.sink.Notify(n)
}
