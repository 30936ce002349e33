package gateway

import (
	"context"
	"fmt"
	"net/http"

	"gymmate/internal/domain/booking"
)

// reservationBody is the wire shape for a new reservation.
type reservationBody struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	FacilityID  string `json:"facility_id,omitempty"`
	EquipmentID string `json:"equipment_id,omitempty"`
	TrainerID   string `json:"trainer_id,omitempty"`
}

// Confirmation is the server's acknowledgement of a reservation.
type Confirmation struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// CreateReservation submits a validated reservation request. On failure the
// returned *APIError message is shown to the user verbatim.
// PRE: req.Validate() returned nil and the candidate instant passed the
// booking-window check
// POST: returns the server's confirmation
func (c *Client) CreateReservation(ctx context.Context, req booking.Request) (Confirmation, error) {
	body := reservationBody{
		Date:        req.Date,
		Time:        req.Time,
		FacilityID:  req.FacilityID,
		EquipmentID: req.EquipmentID,
		TrainerID:   req.TrainerID,
	}
	var conf Confirmation
	if err := c.do(ctx, http.MethodPost, "/api/reservations", body, &conf); err != nil {
		return Confirmation{}, fmt.Errorf("create reservation: %w", err)
	}
	return conf, nil
}
