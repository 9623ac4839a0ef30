package tools

import (
	"context"
	"errors"

	"goodfoods/internal/booking"
)

// CheckAvailability answers whether a restaurant can seat a party at a
// given date-time.
type CheckAvailability struct {
	checker *booking.Checker
}

func NewCheckAvailability(checker *booking.Checker) *CheckAvailability {
	return &CheckAvailability{checker: checker}
}

func (c *CheckAvailability) Name() string { return "check_availability" }
func (c *CheckAvailability) Description() string {
	return "Check if a restaurant has availability for a given date/time and party size."
}

func (c *CheckAvailability) InputSchema() any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"restaurant_id": map[string]any{
				"type":        "integer",
				"description": "The restaurant ID",
			},
			"datetime": map[string]any{
				"type":        "string",
				"description": "ISO 8601 datetime",
			},
			"party_size": map[string]any{
				"type":        "integer",
				"description": "Number of people",
			},
		},
		"required": []string{"restaurant_id", "datetime", "party_size"},
	}
}

type availabilityResult struct {
	Available         bool   `json:"available"`
	RestaurantName    string `json:"restaurant_name,omitempty"`
	AvailableSeats    int    `json:"available_seats,omitempty"`
	RequestedDatetime string `json:"requested_datetime,omitempty"`
	Reason            string `json:"reason,omitempty"`
}

func (c *CheckAvailability) Execute(ctx context.Context, input string) (string, error) {
	args := struct {
		RestaurantID int64  `json:"restaurant_id"`
		Datetime     string `json:"datetime"`
		PartySize    int    `json:"party_size"`
	}{PartySize: 1}
	decodeArgs(input, &args)

	avail, err := c.checker.Check(ctx, args.RestaurantID, args.Datetime, args.PartySize)
	if err != nil {
		if expectedFailure(err) {
			return errorJSON(err.Error()), nil
		}
		return "", err
	}

	return toJSON(availabilityResult{
		Available:         avail.Available,
		RestaurantName:    avail.RestaurantName,
		AvailableSeats:    avail.AvailableSeats,
		RequestedDatetime: avail.RequestedDatetime,
		Reason:            avail.Reason,
	}), nil
}

// expectedFailure reports whether err belongs to the domain failure
// taxonomy, which tools surface as structured data rather than faults.
func expectedFailure(err error) bool {
	var ve *booking.ValidationError
	var nfe *booking.NotFoundError
	var re *booking.RejectionError
	return errors.As(err, &ve) || errors.As(err, &nfe) || errors.As(err, &re)
}
