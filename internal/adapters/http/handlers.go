package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"gymmate/internal/adapters/gateway"
	"gymmate/internal/application/orchestrators"
	"gymmate/internal/application/projections"
	"gymmate/internal/domain/booking"
	"gymmate/internal/domain/event"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// mdRenderer is a goldmark instance for notification messages. Raw HTML
// in the input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// internalError logs the real error and returns a generic message.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type handlers struct {
	deps Deps
}

// parseCriteria reads the agenda filter form from the query string.
// The "f" marker distinguishes a submitted filter form, where absent
// checkboxes mean off, from a bare page load, where everything is on.
func parseCriteria(q url.Values, loc *time.Location) event.Criteria {
	c := event.DefaultCriteria()
	c.Search = q.Get("q")
	c.Archived = q.Get("archived") == "1"

	if d := q.Get("date"); d != "" {
		if day, err := time.ParseInLocation("2006-01-02", d, loc); err == nil {
			c.Date = &day
		}
	}
	if q.Get("f") == "1" {
		c.Buckets = event.Buckets{
			Morning:   q.Get("morning") == "1",
			Afternoon: q.Get("afternoon") == "1",
			Evening:   q.Get("evening") == "1",
		}
	}
	return c
}

type agendaPage struct {
	Result    projections.AgendaResult
	Criteria  event.Criteria
	DateValue string
	Flash     string
	Error     string
	CSRFField template.HTML
}

func (h *handlers) agenda(w http.ResponseWriter, r *http.Request) {
	now := h.deps.Now().In(h.deps.Location)
	criteria := parseCriteria(r.URL.Query(), h.deps.Location)

	page := agendaPage{
		Result: projections.QueryGetAgenda(criteria, now,
			projections.GetAgendaDeps{Events: h.deps.Events}),
		Criteria:  criteria,
		Flash:     r.URL.Query().Get("msg"),
		Error:     r.URL.Query().Get("err"),
		CSRFField: csrf.TemplateField(r),
	}
	if criteria.Date != nil {
		page.DateValue = criteria.Date.Format("2006-01-02")
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, "agenda.html", page); err != nil {
		internalError(w, err)
	}
}

func (h *handlers) reserve(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	req := booking.Request{
		Date:        r.PostFormValue("date"),
		Time:        r.PostFormValue("time"),
		FacilityID:  r.PostFormValue("facility_id"),
		EquipmentID: r.PostFormValue("equipment_id"),
		TrainerID:   r.PostFormValue("trainer_id"),
	}

	conf, err := orchestrators.ExecuteReserve(r.Context(), req, orchestrators.ReserveDeps{
		Gateway:  h.deps.Gateway,
		Location: h.deps.Location,
		Now:      h.deps.Now,
	})
	if err != nil {
		redirectErr(w, r, err)
		return
	}
	msg := conf.Message
	if msg == "" {
		msg = "Reservation confirmed."
	}
	http.Redirect(w, r, "/?msg="+url.QueryEscape(msg), http.StatusSeeOther)
}

func (h *handlers) cancel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "bad event id", http.StatusBadRequest)
		return
	}
	kind := r.PostFormValue("kind")

	err = orchestrators.ExecuteCancel(r.Context(), id, kind, orchestrators.CancelDeps{
		Gateway: h.deps.Gateway,
		Cache:   h.deps.Events,
	})
	if err != nil {
		redirectErr(w, r, err)
		return
	}
	http.Redirect(w, r, "/?msg="+url.QueryEscape("Cancelled."), http.StatusSeeOther)
}

// redirectErr sends the user back to the agenda with the rejection
// message. Remote API rejections and local validation failures carry a
// user-facing message; anything else becomes a 500.
func redirectErr(w http.ResponseWriter, r *http.Request, err error) {
	if !isRejection(err) {
		internalError(w, err)
		return
	}
	http.Redirect(w, r, "/?err="+url.QueryEscape(err.Error()), http.StatusSeeOther)
}

func isRejection(err error) bool {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		return true
	}
	var parseErr *time.ParseError
	if errors.As(err, &parseErr) {
		return true
	}
	for _, sentinel := range []error{
		booking.ErrInPast, booking.ErrBeforeOpening, booking.ErrAfterClosing,
		booking.ErrEmptyDate, booking.ErrEmptyTime, event.ErrInvalidKind,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

type notificationView struct {
	ID      string        `json:"id"`
	EventID int64         `json:"event_id"`
	Title   string        `json:"title"`
	Message template.HTML `json:"message_html"`
	FiredAt time.Time     `json:"fired_at"`
}

func (h *handlers) notifications(w http.ResponseWriter, r *http.Request) {
	active := h.deps.Banner.Active()
	views := make([]notificationView, 0, len(active))
	for _, n := range active {
		views = append(views, notificationView{
			ID:      n.ID,
			EventID: n.EventID,
			Title:   n.Title,
			Message: renderMarkdown(n.Message),
			FiredAt: n.FiredAt,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *handlers) dismiss(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !h.deps.Banner.Dismiss(id) {
		http.Error(w, "unknown notification", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "dismissed"})
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"ws_clients":  h.deps.Hub.ClientCount(),
		"events":      len(h.deps.Events.Snapshot()),
		"server_time": h.deps.Now().In(h.deps.Location).Format(time.RFC3339),
	})
}
