package tools

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"goodfoods/internal/booking"
	"goodfoods/internal/store"
)

// ModifyReservation changes the date-time or party size of an existing
// reservation, rechecking availability with the reservation itself
// excluded from the overlap sum.
type ModifyReservation struct {
	store   *store.Store
	checker *booking.Checker
}

func NewModifyReservation(st *store.Store, checker *booking.Checker) *ModifyReservation {
	return &ModifyReservation{store: st, checker: checker}
}

func (m *ModifyReservation) Name() string { return "modify_reservation" }
func (m *ModifyReservation) Description() string {
	return "Modify an existing reservation's date/time or party size."
}

func (m *ModifyReservation) InputSchema() any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"reservation_id": map[string]any{
				"type":        "integer",
				"description": "The reservation ID",
			},
			"new_datetime": map[string]any{
				"type":        "string",
				"description": "New ISO 8601 datetime (optional)",
			},
			"new_party_size": map[string]any{
				"type":        "integer",
				"description": "New party size (optional)",
			},
		},
		"required": []string{"reservation_id"},
	}
}

type modifyResult struct {
	Success        bool   `json:"success"`
	ReservationID  int64  `json:"reservation_id"`
	RestaurantName string `json:"restaurant_name"`
	NewDatetime    string `json:"new_datetime"`
	NewPartySize   int    `json:"new_party_size"`
	Message        string `json:"message"`
}

func (m *ModifyReservation) Execute(ctx context.Context, input string) (string, error) {
	var args struct {
		ReservationID int64  `json:"reservation_id"`
		NewDatetime   string `json:"new_datetime"`
		NewPartySize  int    `json:"new_party_size"`
	}
	decodeArgs(input, &args)

	reservation, err := m.store.GetReservation(ctx, args.ReservationID)
	if errors.Is(err, sql.ErrNoRows) {
		return errorJSON("Reservation not found"), nil
	}
	if err != nil {
		return "", err
	}
	if reservation.Status == store.StatusCancelled {
		return rejection("Cannot modify a cancelled reservation"), nil
	}

	if args.NewDatetime != "" {
		if _, err := booking.ParseDatetime(args.NewDatetime); err != nil {
			return errorJSON(err.Error()), nil
		}
	}

	// Unspecified fields keep their current values.
	finalDatetime := reservation.Datetime
	if args.NewDatetime != "" {
		finalDatetime = args.NewDatetime
	}
	finalPartySize := reservation.PartySize
	if args.NewPartySize != 0 {
		finalPartySize = args.NewPartySize
	}

	if args.NewDatetime != "" || args.NewPartySize != 0 {
		if err := m.store.SetReservationStatus(ctx, reservation.ID, store.StatusTemp); err != nil {
			return "", err
		}
		avail, checkErr := m.recheck(ctx, reservation.RestaurantID, finalDatetime, finalPartySize, reservation.ID)
		if checkErr != nil {
			if expectedFailure(checkErr) {
				return errorJSON(checkErr.Error()), nil
			}
			return "", checkErr
		}
		if !avail.Available {
			return errorJSON(avail.Reason), nil
		}
	}

	if err := m.store.UpdateReservationBooking(ctx, reservation.ID, finalDatetime, finalPartySize); err != nil {
		return "", err
	}

	return toJSON(modifyResult{
		Success:        true,
		ReservationID:  reservation.ID,
		RestaurantName: reservation.RestaurantName,
		NewDatetime:    finalDatetime,
		NewPartySize:   finalPartySize,
		Message:        "Reservation successfully modified.",
	}), nil
}

// recheck runs the availability check while the reservation sits in temp
// status. The reservation comes back to confirmed no matter how the check
// exits, including a panic; the decision to apply the change happens only
// after the restore.
func (m *ModifyReservation) recheck(ctx context.Context, restaurantID int64, datetime string, partySize int, reservationID int64) (avail *booking.Availability, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("availability recheck panicked: %v", rec)
		}
		if restoreErr := m.store.SetReservationStatus(ctx, reservationID, store.StatusConfirmed); restoreErr != nil {
			slog.Warn("failed to restore reservation status", "reservation_id", reservationID, "error", restoreErr)
		}
	}()
	return m.checker.Check(ctx, restaurantID, datetime, partySize)
}
