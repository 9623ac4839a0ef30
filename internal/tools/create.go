package tools

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"goodfoods/internal/booking"
	"goodfoods/internal/store"
)

// CreateReservation books a table after re-running the availability check.
type CreateReservation struct {
	store   *store.Store
	checker *booking.Checker
}

func NewCreateReservation(st *store.Store, checker *booking.Checker) *CreateReservation {
	return &CreateReservation{store: st, checker: checker}
}

func (c *CreateReservation) Name() string { return "create_reservation" }
func (c *CreateReservation) Description() string {
	return "Create a new reservation at a restaurant."
}

func (c *CreateReservation) InputSchema() any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"restaurant_id": map[string]any{
				"type":        "integer",
				"description": "The restaurant ID",
			},
			"customer_name": map[string]any{
				"type":        "string",
				"description": "Customer name",
			},
			"phone": map[string]any{
				"type":        "string",
				"description": "Contact phone number",
			},
			"party_size": map[string]any{
				"type":        "integer",
				"description": "Number of people",
			},
			"datetime": map[string]any{
				"type":        "string",
				"description": "ISO 8601 datetime",
			},
			"special_requests": map[string]any{
				"type":        "string",
				"description": "Special requests or notes",
			},
		},
		"required": []string{"restaurant_id", "customer_name", "phone", "party_size", "datetime"},
	}
}

type createResult struct {
	Success        bool   `json:"success"`
	ReservationID  int64  `json:"reservation_id"`
	RestaurantName string `json:"restaurant_name"`
	CustomerName   string `json:"customer_name"`
	PartySize      int    `json:"party_size"`
	Datetime       string `json:"datetime"`
	Status         string `json:"status"`
	Message        string `json:"message"`
}

func (c *CreateReservation) Execute(ctx context.Context, input string) (string, error) {
	args := struct {
		RestaurantID    int64  `json:"restaurant_id"`
		CustomerName    string `json:"customer_name"`
		Phone           string `json:"phone"`
		PartySize       int    `json:"party_size"`
		Datetime        string `json:"datetime"`
		SpecialRequests string `json:"special_requests"`
	}{PartySize: 1}
	decodeArgs(input, &args)

	if args.PartySize <= 0 {
		return errorJSON("Party size must be greater than 0"), nil
	}
	if strings.TrimSpace(args.CustomerName) == "" {
		return errorJSON("Customer name is required"), nil
	}
	if strings.TrimSpace(args.Phone) == "" {
		return errorJSON("Phone number is required"), nil
	}
	if _, err := booking.ParseDatetime(args.Datetime); err != nil {
		return errorJSON(err.Error()), nil
	}

	avail, err := c.checker.Check(ctx, args.RestaurantID, args.Datetime, args.PartySize)
	if err != nil {
		if expectedFailure(err) {
			return errorJSON(err.Error()), nil
		}
		return "", err
	}
	if !avail.Available {
		return errorJSON(avail.Reason), nil
	}

	specialRequests := sql.NullString{String: args.SpecialRequests, Valid: args.SpecialRequests != ""}
	id, err := c.store.InsertReservation(ctx, store.Reservation{
		RestaurantID:    args.RestaurantID,
		CustomerName:    strings.TrimSpace(args.CustomerName),
		Phone:           strings.TrimSpace(args.Phone),
		PartySize:       args.PartySize,
		Datetime:        args.Datetime,
		SpecialRequests: specialRequests,
		Status:          store.StatusConfirmed,
	})
	if err != nil {
		return "", err
	}

	return toJSON(createResult{
		Success:        true,
		ReservationID:  id,
		RestaurantName: avail.RestaurantName,
		CustomerName:   args.CustomerName,
		PartySize:      args.PartySize,
		Datetime:       args.Datetime,
		Status:         store.StatusConfirmed,
		Message:        fmt.Sprintf("Reservation confirmed! Your reservation ID is %d.", id),
	}), nil
}
