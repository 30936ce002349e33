package push_test

import (
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"gymmate/internal/adapters/push"
	"gymmate/internal/domain/notification"
)

// wsURL converts an httptest server URL to a WebSocket URL.
func wsURL(t *testing.T, httpURL string) string {
	t.Helper()
	return "ws" + strings.TrimPrefix(httpURL, "http")
}

// TestHub_Broadcast verifies a connected page receives broadcast messages.
func TestHub_Broadcast(t *testing.T) {
	hub := push.NewHub()
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(t, srv.URL), nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	// Wait for the server side to register the connection.
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.Broadcast([]byte(`{"type":"notification"}`))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(payload) != `{"type":"notification"}` {
		t.Errorf("payload = %s", payload)
	}
}

// recordingSink collects notifications on a channel for synchronization.
type recordingSink struct {
	fired chan notification.Notification
}

func (s *recordingSink) Notify(n notification.Notification) {
	s.fired <- n
}

// TestSubscriber_FiresOncePerPayment verifies the subscriber subscribes to
// the payment event type and de-duplicates per payment id within a session.
func TestSubscriber_FiresOncePerPayment(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		// Expect the single-event subscription first.
		var sub map[string]string
		if err := conn.ReadJSON(&sub); err != nil {
			t.Errorf("read subscribe failed: %v", err)
			return
		}
		if sub["type"] != "subscribe" || sub["event"] != push.EventPaymentConfirmed {
			t.Errorf("subscribe message = %v", sub)
		}

		messages := []string{
			`{"type":"payment.confirmed","payload":{"payment_id":"p-1","member_name":"Mel","amount":"$49.00"}}`,
			`{"type":"payment.confirmed","payload":{"payment_id":"p-1","member_name":"Mel","amount":"$49.00"}}`,
			`{"type":"other.event","payload":{}}`,
			`not json at all`,
			`{"type":"payment.confirmed","payload":{"payment_id":"p-2","member_name":"Sam","amount":"$20.00"}}`,
		}
		for _, m := range messages {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(m)); err != nil {
				return
			}
		}
		// Hold the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	sink := &recordingSink{fired: make(chan notification.Notification, 8)}
	sub := push.NewSubscriber(wsURL(t, srv.URL), sink)
	sub.Start()
	t.Cleanup(sub.Stop)

	var got []notification.Notification
	for len(got) < 2 {
		select {
		case n := <-sink.fired:
			got = append(got, n)
		case <-time.After(3 * time.Second):
			t.Fatalf("timed out with %d notifications, want 2", len(got))
		}
	}

	if !strings.Contains(got[0].Message, "Mel") || !strings.Contains(got[1].Message, "Sam") {
		t.Errorf("notifications = %v", got)
	}

	// The duplicate p-1 must not produce a third notification.
	select {
	case n := <-sink.fired:
		t.Errorf("unexpected extra notification: %+v", n)
	case <-time.After(100 * time.Millisecond):
	}
}

// TestSubscriber_ReconnectReleasesGoroutines verifies that a flapping
// channel does not accumulate a goroutine per connection attempt: each
// connection's socket watcher must exit when that connection drops, not
// at Stop.
func TestSubscriber_ReconnectReleasesGoroutines(t *testing.T) {
	connects := make(chan struct{}, 16)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		connects <- struct{}{}
		conn.Close()
	}))
	t.Cleanup(srv.Close)

	sink := &recordingSink{fired: make(chan notification.Notification, 1)}
	sub := push.NewSubscriber(wsURL(t, srv.URL), sink).
		WithReconnectDelay(20 * time.Millisecond)

	before := runtime.NumGoroutine()
	sub.Start()

	for i := 0; i < 5; i++ {
		select {
		case <-connects:
		case <-time.After(3 * time.Second):
			t.Fatalf("timed out after %d connects", i)
		}
	}
	// Let the last attempt's teardown settle.
	time.Sleep(100 * time.Millisecond)

	during := runtime.NumGoroutine()
	sub.Stop()

	// Only the run loop plus transient scheduling noise may remain; a
	// leaked watcher per cycle would add five on its own.
	if during > before+3 {
		t.Errorf("goroutines grew from %d to %d across 5 reconnect cycles", before, during)
	}
}
