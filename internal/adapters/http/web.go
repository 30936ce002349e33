// Package web serves the local dashboard: the agenda with its filter
// form, the reservation form, active notifications, and the websocket
// endpoint browsers subscribe to for banner pushes.
package web

import (
	"crypto/rand"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"gymmate/internal/adapters/cache"
	"gymmate/internal/adapters/gateway"
	"gymmate/internal/adapters/http/middleware"
	"gymmate/internal/adapters/notify"
	"gymmate/internal/adapters/push"
)

// Deps holds everything the handlers need.
type Deps struct {
	Events   *cache.Events
	Gateway  *gateway.Client
	Banner   *notify.BannerSink
	Hub      *push.Hub
	Location *time.Location
	Now      func() time.Time
}

// Auth configures the optional dashboard guard. Zero value means no
// auth, which suits the loopback default.
type Auth struct {
	User string
	Hash string // bcrypt
}

// NewRouter wires all dashboard routes behind the middleware chain.
// An empty csrfKey gets a random per-startup key; tokens then do not
// survive restarts, which is acceptable for a single-user dashboard.
func NewRouter(deps Deps, auth Auth, csrfKey []byte) http.Handler {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Location == nil {
		deps.Location = time.Local
	}
	if len(csrfKey) == 0 {
		csrfKey = make([]byte, 32)
		if _, err := rand.Read(csrfKey); err != nil {
			log.Fatalf("failed to generate CSRF key: %v", err)
		}
	}

	h := &handlers{deps: deps}

	r := mux.NewRouter()
	r.HandleFunc("/", h.agenda).Methods(http.MethodGet)
	r.HandleFunc("/reserve", h.reserve).Methods(http.MethodPost)
	r.HandleFunc("/events/{id:[0-9]+}/cancel", h.cancel).Methods(http.MethodPost)
	r.HandleFunc("/api/notifications", h.notifications).Methods(http.MethodGet)
	r.HandleFunc("/api/notifications/{id}/dismiss", h.dismiss).Methods(http.MethodPost)
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	r.HandleFunc("/ws", deps.Hub.ServeWS)

	return middleware.Chain(r,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.BasicAuth(auth.User, auth.Hash),
		middleware.Logging,
		middleware.Recover,
	)
}
