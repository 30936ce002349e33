package orchestrators

import (
	"context"
	"fmt"
	"time"

	"gymmate/internal/adapters/gateway"
	"gymmate/internal/domain/booking"
)

// ReservationCreator is the gateway surface needed by the reservation
// orchestrator.
type ReservationCreator interface {
	CreateReservation(ctx context.Context, req booking.Request) (gateway.Confirmation, error)
}

// ReserveDeps holds dependencies for creating a reservation.
type ReserveDeps struct {
	Gateway  ReservationCreator
	Location *time.Location   // zone the booking window is evaluated in
	Now      func() time.Time // injectable clock
}

// ExecuteReserve validates a reservation locally and submits it. Validation
// failures (bad fields, outside the booking window) never reach the
// network; the returned error is the user-facing rejection. API failures
// carry the server's message verbatim.
// PRE: deps are wired; Location non-nil
// POST: on nil error the reservation exists server-side
func ExecuteReserve(ctx context.Context, req booking.Request, deps ReserveDeps) (gateway.Confirmation, error) {
	now := time.Now()
	if deps.Now != nil {
		now = deps.Now()
	}

	if err := req.Validate(); err != nil {
		return gateway.Confirmation{}, err
	}

	candidate, err := req.At(deps.Location)
	if err != nil {
		return gateway.Confirmation{}, fmt.Errorf("invalid booking instant: %w", err)
	}
	if err := booking.CheckBookable(candidate, now); err != nil {
		return gateway.Confirmation{}, err
	}

	return deps.Gateway.CreateReservation(ctx, req)
}
