package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"goodfoods/internal/store"
)

// MidnightSentinel is the closing time meaning "open past midnight": it
// exempts the restaurant from the closing-time bound entirely.
const MidnightSentinel = "00:00"

// overlapWindow is the half-width of the symmetric window used to sum
// confirmed party sizes around a requested time. The one-hour figure is a
// coarse concurrent-occupancy model carried over for compatibility, not a
// tuned business rule.
const overlapWindow = time.Hour

const datetimeLayout = "2006-01-02T15:04:05"

var datetimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDatetime parses an ISO-8601 calendar date-time. Bare dates are
// rejected; a reservation needs a time of day.
func ParseDatetime(s string) (time.Time, error) {
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &ValidationError{Reason: "Invalid datetime format. Use ISO 8601 format."}
}

// IsOpenAt reports whether a restaurant with the given opening and closing
// times ("HH:MM") is open at t. Both boundary instants count as open. The
// midnight sentinel always satisfies the closing bound.
func IsOpenAt(opening, closing string, t time.Time) bool {
	requestTime := t.Format("15:04")
	if opening > requestTime {
		return false
	}
	return closing == MidnightSentinel || requestTime <= closing
}

// Availability is the outcome of a capacity check. Exactly one of the two
// shapes applies: available with seat count, or unavailable with a reason.
type Availability struct {
	Available         bool
	RestaurantName    string
	AvailableSeats    int
	RequestedDatetime string
	Reason            string
}

// Checker decides whether a reservation is possible at a restaurant for a
// given date-time and party size.
type Checker struct {
	store *store.Store
}

func NewChecker(st *store.Store) *Checker {
	return &Checker{store: st}
}

// Check validates the request, applies the open-hours and capacity rules,
// and sums confirmed reservations in the overlap window. Validation and
// lookup failures come back as typed errors; rule refusals come back as an
// unavailable Availability with a reason.
func (c *Checker) Check(ctx context.Context, restaurantID int64, isoDatetime string, partySize int) (*Availability, error) {
	if partySize <= 0 {
		return nil, &ValidationError{Reason: "Party size must be greater than 0"}
	}
	dt, err := ParseDatetime(isoDatetime)
	if err != nil {
		return nil, err
	}

	restaurant, err := c.store.GetRestaurant(ctx, restaurantID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Reason: "Restaurant not found"}
	}
	if err != nil {
		return nil, err
	}

	if !IsOpenAt(restaurant.OpeningTime, restaurant.ClosingTime, dt) {
		return &Availability{
			Available: false,
			Reason:    fmt.Sprintf("Restaurant is closed. Hours: %s - %s", restaurant.OpeningTime, restaurant.ClosingTime),
		}, nil
	}
	if partySize > restaurant.SeatingCapacity {
		return &Availability{
			Available: false,
			Reason:    fmt.Sprintf("Party size exceeds capacity of %d", restaurant.SeatingCapacity),
		}, nil
	}

	from := dt.Add(-overlapWindow).Format(datetimeLayout)
	to := dt.Add(overlapWindow).Format(datetimeLayout)
	reserved, err := c.store.ConfirmedPartySum(ctx, restaurantID, from, to)
	if err != nil {
		return nil, err
	}

	availableSeats := restaurant.SeatingCapacity - reserved
	if availableSeats >= partySize {
		return &Availability{
			Available:         true,
			RestaurantName:    restaurant.Name,
			AvailableSeats:    availableSeats,
			RequestedDatetime: isoDatetime,
		}, nil
	}
	return &Availability{
		Available: false,
		Reason:    fmt.Sprintf("Only %d seats remaining for this time slot.", availableSeats),
	}, nil
}
