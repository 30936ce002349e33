package gateway_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gymmate/internal/adapters/gateway"
	"gymmate/internal/domain/booking"
	"gymmate/internal/domain/event"
)

type staticToken string

func (t staticToken) Token(context.Context) string { return string(t) }

func newTestClient(t *testing.T, handler http.HandlerFunc) *gateway.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return gateway.NewClient(srv.URL, staticToken("tok-123"), time.UTC)
}

// TestListRegistrations_NormalizesRecords verifies incomplete records are
// excluded at the boundary and missing names get the placeholder.
func TestListRegistrations_NormalizesRecords(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		if r.URL.Path != "/api/registrations" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": 1, "scheduled_class": {"name": "Yoga Basics", "starts_at": "2025-06-10T09:00", "coach": "Amy", "location": "Studio A"}},
			{"id": 2},
			{"id": 3, "scheduled_class": {"name": "Spin Class", "starts_at": ""}},
			{"id": 4, "scheduled_class": {"name": "", "starts_at": "2025-06-10T10:00:00"}}
		]`))
	})

	events, err := client.ListRegistrations(context.Background())
	if err != nil {
		t.Fatalf("ListRegistrations failed: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2 (incomplete records excluded)", len(events))
	}

	first := events[0]
	if first.ID != 1 || first.Title != "Yoga Basics" || first.Kind != event.KindClass {
		t.Errorf("first event = %+v", first)
	}
	wantStart := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	if !first.StartTime.Equal(wantStart) {
		t.Errorf("first start = %v, want %v", first.StartTime, wantStart)
	}

	if events[1].Title != event.NoName {
		t.Errorf("nameless record title = %q, want %q", events[1].Title, event.NoName)
	}

	for _, e := range events {
		if err := e.Validate(); err != nil {
			t.Errorf("normalized event %d fails Validate: %v", e.ID, err)
		}
	}
}

// TestListWorkoutPlans decodes the flat workout shape.
func TestListWorkoutPlans(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/workout-plans" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`[
			{"id": 11, "name": "Leg Day", "starts_at": "2025-06-11T07:30:00Z"},
			{"id": 12, "name": "Broken", "starts_at": "not-a-time"}
		]`))
	})

	events, err := client.ListWorkoutPlans(context.Background())
	if err != nil {
		t.Fatalf("ListWorkoutPlans failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Kind != event.KindWorkout || events[0].Title != "Leg Day" {
		t.Errorf("event = %+v", events[0])
	}
}

// TestCreateReservation_ErrorMessagePassthrough verifies the server's
// failure message is preserved verbatim for the user.
func TestCreateReservation_ErrorMessagePassthrough(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message": "court already booked for that slot"}`))
	})

	_, err := client.CreateReservation(context.Background(), booking.Request{Date: "2025-06-11", Time: "10:00"})
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *gateway.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %v is not an *APIError", err)
	}
	if apiErr.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", apiErr.StatusCode)
	}
	if apiErr.Message != "court already booked for that slot" {
		t.Errorf("message = %q, want server text verbatim", apiErr.Message)
	}
}

// TestCreateReservation_Success decodes the confirmation.
func TestCreateReservation_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 55, "message": "reservation confirmed"}`))
	})

	conf, err := client.CreateReservation(context.Background(), booking.Request{Date: "2025-06-11", Time: "10:00"})
	if err != nil {
		t.Fatalf("CreateReservation failed: %v", err)
	}
	if conf.ID != 55 || conf.Message != "reservation confirmed" {
		t.Errorf("confirmation = %+v", conf)
	}
}

// TestCancelRegistration issues a DELETE keyed by id.
func TestCancelRegistration(t *testing.T) {
	var gotPath, gotMethod string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.CancelRegistration(context.Background(), 42); err != nil {
		t.Fatalf("CancelRegistration failed: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/api/registrations/42" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
}

// TestAPIError_FallbackMessage uses the HTTP status text when the body has
// no message field.
func TestAPIError_FallbackMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`not json`))
	})

	_, err := client.ListRegistrations(context.Background())
	var apiErr *gateway.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %v is not an *APIError", err)
	}
	if apiErr.Message != http.StatusText(http.StatusInternalServerError) {
		t.Errorf("message = %q, want status text fallback", apiErr.Message)
	}
}
