package tools

import (
	"context"
	"database/sql"
	"errors"

	"goodfoods/internal/store"
)

// CancelReservation marks a reservation cancelled. Cancellation is
// terminal: cancelling twice is an explicit error, not a silent success.
type CancelReservation struct {
	store *store.Store
}

func NewCancelReservation(st *store.Store) *CancelReservation {
	return &CancelReservation{store: st}
}

func (c *CancelReservation) Name() string { return "cancel_reservation" }
func (c *CancelReservation) Description() string {
	return "Cancel an existing reservation."
}

func (c *CancelReservation) InputSchema() any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"reservation_id": map[string]any{
				"type":        "integer",
				"description": "The reservation ID",
			},
		},
		"required": []string{"reservation_id"},
	}
}

type cancelResult struct {
	Success        bool   `json:"success"`
	ReservationID  int64  `json:"reservation_id"`
	RestaurantName string `json:"restaurant_name"`
	Message        string `json:"message"`
}

func (c *CancelReservation) Execute(ctx context.Context, input string) (string, error) {
	var args struct {
		ReservationID int64 `json:"reservation_id"`
	}
	decodeArgs(input, &args)

	reservation, err := c.store.GetReservation(ctx, args.ReservationID)
	if errors.Is(err, sql.ErrNoRows) {
		return errorJSON("Reservation not found"), nil
	}
	if err != nil {
		return "", err
	}
	if reservation.Status == store.StatusCancelled {
		return rejection("Reservation is already cancelled"), nil
	}

	if err := c.store.SetReservationStatus(ctx, reservation.ID, store.StatusCancelled); err != nil {
		return "", err
	}

	return toJSON(cancelResult{
		Success:        true,
		ReservationID:  reservation.ID,
		RestaurantName: reservation.RestaurantName,
		Message:        "Reservation successfully cancelled.",
	}), nil
}
