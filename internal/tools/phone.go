package tools

import (
	"context"
	"strings"

	"goodfoods/internal/store"
)

// LookupByPhone returns every reservation associated with a phone number,
// newest first.
type LookupByPhone struct {
	store *store.Store
}

func NewLookupByPhone(st *store.Store) *LookupByPhone {
	return &LookupByPhone{store: st}
}

func (l *LookupByPhone) Name() string { return "get_reservation_by_phone" }
func (l *LookupByPhone) Description() string {
	return "Look up all reservations associated with a phone number."
}

func (l *LookupByPhone) InputSchema() any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"phone": map[string]any{
				"type":        "string",
				"description": "Phone number to search",
			},
		},
		"required": []string{"phone"},
	}
}

type reservationResult struct {
	ReservationID   int64   `json:"reservation_id"`
	RestaurantName  string  `json:"restaurant_name"`
	CustomerName    string  `json:"customer_name"`
	PartySize       int     `json:"party_size"`
	Datetime        string  `json:"datetime"`
	SpecialRequests *string `json:"special_requests"`
	Status          string  `json:"status"`
}

func (l *LookupByPhone) Execute(ctx context.Context, input string) (string, error) {
	var args struct {
		Phone string `json:"phone"`
	}
	decodeArgs(input, &args)

	phone := strings.TrimSpace(args.Phone)
	if phone == "" {
		return errorList("Phone number is required"), nil
	}

	reservations, err := l.store.ReservationsByPhone(ctx, phone)
	if err != nil {
		return "", err
	}
	if len(reservations) == 0 {
		return messageList("No reservations found for this phone number."), nil
	}

	results := make([]reservationResult, len(reservations))
	for i, r := range reservations {
		var special *string
		if r.SpecialRequests.Valid {
			special = &reservations[i].SpecialRequests.String
		}
		results[i] = reservationResult{
			ReservationID:   r.ID,
			RestaurantName:  r.RestaurantName,
			CustomerName:    r.CustomerName,
			PartySize:       r.PartySize,
			Datetime:        r.Datetime,
			SpecialRequests: special,
			Status:          r.Status,
		}
	}
	return toJSON(results), nil
}
