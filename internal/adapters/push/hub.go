// Package push carries live updates in both directions: a local hub pushing
// banners to open dashboard pages, and a subscriber listening on the remote
// gym API's push channel.
package push

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub maintains the set of connected dashboard pages and broadcasts
// messages to all of them.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*client]bool)}
}

// Broadcast sends message to every connected page. A page that cannot keep
// up is disconnected rather than blocking the sender.
func (h *Hub) Broadcast(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- message:
		default:
			h.drop(c)
		}
	}
}

// ClientCount returns the number of connected pages.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is same-host only.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades an HTTP request from a dashboard page and keeps the
// connection until the page closes it.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws_upgrade_failed", "error", err.Error())
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 64)}
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
	slog.Info("ws_client_connected", "clients", h.ClientCount())

	go h.writeLoop(c)
	h.readLoop(c)
}

func (h *Hub) writeLoop(c *client) {
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// readLoop discards inbound frames; it exists to detect disconnects.
func (h *Hub) readLoop(c *client) {
	defer func() {
		h.mu.Lock()
		if h.clients[c] {
			h.drop(c)
		}
		h.mu.Unlock()
		slog.Info("ws_client_disconnected", "clients", h.ClientCount())
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// drop removes a client; caller holds h.mu.
func (h *Hub) drop(c *client) {
	delete(h.clients, c)
	close(c.send)
	c.conn.Close()
}
