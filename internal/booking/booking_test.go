package booking

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"goodfoods/internal/db"
	"goodfoods/internal/store"
)

type fixture struct {
	database *db.DB
	store    *store.Store
	checker  *Checker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	if err := database.Migrate(); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	st := store.New(database)
	return &fixture{database: database, store: st, checker: NewChecker(st)}
}

func (f *fixture) addRestaurant(t *testing.T, name, opening, closing string, capacity int) int64 {
	t.Helper()
	res, err := f.database.Conn().Exec(`
		INSERT INTO restaurants (name, location_area, city, cuisine, seating_capacity,
			average_price_per_person, features, opening_time, closing_time)
		VALUES (?, 'Bandra', 'Mumbai', 'North Indian', ?, 800, '', ?, ?)`,
		name, capacity, opening, closing)
	if err != nil {
		t.Fatalf("inserting restaurant: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

func (f *fixture) addReservation(t *testing.T, restaurantID int64, datetime string, partySize int, status string) {
	t.Helper()
	_, err := f.store.InsertReservation(context.Background(), store.Reservation{
		RestaurantID: restaurantID,
		CustomerName: "x",
		Phone:        "y",
		PartySize:    partySize,
		Datetime:     datetime,
		Status:       status,
	})
	if err != nil {
		t.Fatalf("inserting reservation: %v", err)
	}
}

func TestParseDatetime(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"2025-09-15T19:30:00", true},
		{"2025-09-15T19:30", true},
		{"2025-09-15", false}, // bare date has no time of day
		{"15/09/2025 19:30", false},
		{"", false},
		{"not a date", false},
	}
	for _, tt := range tests {
		_, err := ParseDatetime(tt.input)
		if tt.ok && err != nil {
			t.Errorf("ParseDatetime(%q): unexpected error %v", tt.input, err)
		}
		if !tt.ok {
			if err == nil {
				t.Errorf("ParseDatetime(%q): expected error", tt.input)
				continue
			}
			if err.Error() != "Invalid datetime format. Use ISO 8601 format." {
				t.Errorf("ParseDatetime(%q): wrong message %q", tt.input, err.Error())
			}
		}
	}
}

func TestIsOpenAt(t *testing.T) {
	tests := []struct {
		name     string
		opening  string
		closing  string
		datetime string
		want     bool
	}{
		{"inside hours", "11:00", "23:00", "2025-09-15T19:00", true},
		{"at opening", "11:00", "23:00", "2025-09-15T11:00", true},
		{"at closing", "11:00", "23:00", "2025-09-15T23:00", true},
		{"before opening", "11:00", "23:00", "2025-09-15T10:59", false},
		{"after closing", "11:00", "23:00", "2025-09-15T23:01", false},
		{"midnight closing passes late hour", "12:00", "00:00", "2025-09-15T23:45", true},
		{"midnight closing still enforces opening", "12:00", "00:00", "2025-09-15T09:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dt, err := ParseDatetime(tt.datetime)
			if err != nil {
				t.Fatalf("ParseDatetime(%q): %v", tt.datetime, err)
			}
			if got := IsOpenAt(tt.opening, tt.closing, dt); got != tt.want {
				t.Errorf("IsOpenAt(%q, %q, %s) = %v, want %v", tt.opening, tt.closing, tt.datetime, got, tt.want)
			}
		})
	}
}

func TestCheckValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.checker.Check(ctx, 1, "2025-09-15T19:00:00", 0)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("zero party size: got %v, want ValidationError", err)
	}
	if ve.Reason != "Party size must be greater than 0" {
		t.Errorf("wrong reason: %q", ve.Reason)
	}

	_, err = f.checker.Check(ctx, 1, "tomorrow at 7", 2)
	if !errors.As(err, &ve) {
		t.Fatalf("bad datetime: got %v, want ValidationError", err)
	}
}

func TestCheckRestaurantNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.checker.Check(context.Background(), 42, "2025-09-15T19:00:00", 2)
	var nfe *NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("got %v, want NotFoundError", err)
	}
	if nfe.Reason != "Restaurant not found" {
		t.Errorf("wrong reason: %q", nfe.Reason)
	}
}

func TestCheckClosedRestaurant(t *testing.T) {
	f := newFixture(t)
	id := f.addRestaurant(t, "Spice Symphony", "11:00", "23:00", 40)

	avail, err := f.checker.Check(context.Background(), id, "2025-09-15T09:00:00", 2)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if avail.Available {
		t.Fatal("expected unavailable outside opening hours")
	}
	if avail.Reason != "Restaurant is closed. Hours: 11:00 - 23:00" {
		t.Errorf("wrong reason: %q", avail.Reason)
	}
}

func TestCheckCapacityExceeded(t *testing.T) {
	f := newFixture(t)
	id := f.addRestaurant(t, "Spice Symphony", "11:00", "23:00", 40)

	avail, err := f.checker.Check(context.Background(), id, "2025-09-15T19:00:00", 41)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if avail.Available {
		t.Fatal("expected unavailable when party exceeds capacity")
	}
	if avail.Reason != "Party size exceeds capacity of 40" {
		t.Errorf("wrong reason: %q", avail.Reason)
	}
}

func TestCheckOverlapAccounting(t *testing.T) {
	f := newFixture(t)
	id := f.addRestaurant(t, "Spice Symphony", "11:00", "23:00", 40)
	ctx := context.Background()

	f.addReservation(t, id, "2025-09-15T19:00:00", 5, store.StatusConfirmed)
	f.addReservation(t, id, "2025-09-15T20:00:00", 4, store.StatusConfirmed)
	f.addReservation(t, id, "2025-09-15T19:30:00", 10, store.StatusCancelled)
	f.addReservation(t, id, "2025-09-15T22:00:00", 8, store.StatusConfirmed)

	// Both confirmed reservations fall inside 19:30±1h; the cancelled and
	// far-away ones do not count, so 9 of 40 seats are taken.
	avail, err := f.checker.Check(ctx, id, "2025-09-15T19:30:00", 31)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !avail.Available {
		t.Fatalf("expected available for party of 31 with 9 reserved, got reason %q", avail.Reason)
	}
	if avail.AvailableSeats != 31 {
		t.Errorf("got %d seats, want 31", avail.AvailableSeats)
	}

	avail, err = f.checker.Check(ctx, id, "2025-09-15T19:30:00", 32)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if avail.Available {
		t.Fatal("expected unavailable for party of 32 with 31 seats remaining")
	}
	if avail.Reason != "Only 31 seats remaining for this time slot." {
		t.Errorf("wrong reason: %q", avail.Reason)
	}
}

func TestCheckAvailableReportsSeats(t *testing.T) {
	f := newFixture(t)
	id := f.addRestaurant(t, "Spice Symphony", "11:00", "23:00", 40)
	ctx := context.Background()

	f.addReservation(t, id, "2025-09-15T19:00:00", 10, store.StatusConfirmed)

	avail, err := f.checker.Check(ctx, id, "2025-09-15T19:30:00", 10)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !avail.Available {
		t.Fatalf("expected available, got reason %q", avail.Reason)
	}
	if avail.AvailableSeats != 30 {
		t.Errorf("got %d seats, want 30", avail.AvailableSeats)
	}
	if avail.RestaurantName != "Spice Symphony" {
		t.Errorf("got restaurant name %q", avail.RestaurantName)
	}
	if avail.RequestedDatetime != "2025-09-15T19:30:00" {
		t.Errorf("requested datetime not echoed verbatim: %q", avail.RequestedDatetime)
	}

	// Asking for more than the remaining seats reports the remainder.
	avail, err = f.checker.Check(ctx, id, "2025-09-15T19:30:00", 35)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if avail.Available {
		t.Fatal("expected unavailable for party of 35 with 30 seats left")
	}
	if avail.Reason != "Only 30 seats remaining for this time slot." {
		t.Errorf("wrong reason: %q", avail.Reason)
	}
}

func TestCheckReservationOutsideWindowIgnored(t *testing.T) {
	f := newFixture(t)
	id := f.addRestaurant(t, "Spice Symphony", "11:00", "23:00", 40)
	ctx := context.Background()

	// 18:29 sits one minute outside the 19:30±1h window.
	f.addReservation(t, id, "2025-09-15T18:29:00", 40, store.StatusConfirmed)

	avail, err := f.checker.Check(ctx, id, "2025-09-15T19:30:00", 40)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !avail.Available {
		t.Fatalf("expected full capacity available, got reason %q", avail.Reason)
	}
	if avail.AvailableSeats != 40 {
		t.Errorf("got %d seats, want 40", avail.AvailableSeats)
	}
}
