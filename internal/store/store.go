package store

import (
	"context"
	"database/sql"
	"strings"

	"goodfoods/internal/db"
)

// Reservation status values. A reservation only counts against capacity
// while confirmed; temp marks a reservation mid-modification so it is
// excluded from its own availability recheck.
const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusTemp      = "temp"
)

type Restaurant struct {
	ID                    int64
	Name                  string
	LocationArea          string
	City                  string
	Cuisine               string
	SeatingCapacity       int
	AveragePricePerPerson int
	Features              string
	OpeningTime           string
	ClosingTime           string
}

type Reservation struct {
	ID              int64
	RestaurantID    int64
	CustomerName    string
	Phone           string
	PartySize       int
	Datetime        string
	SpecialRequests sql.NullString
	Status          string
	RestaurantName  string // populated by joined queries only
}

// SearchFilter narrows a restaurant search. Zero values mean "no bound";
// Area and Cuisine match as case-insensitive substrings.
type SearchFilter struct {
	Area        string
	Cuisine     string
	MinCapacity int
	MaxPrice    int
}

// Store is the catalog of restaurants and reservations. All operations are
// single statements; no transaction spans multiple calls.
type Store struct {
	conn *sql.DB
}

func New(database *db.DB) *Store {
	return &Store{conn: database.Conn()}
}

const restaurantColumns = `id, name, location_area, city, cuisine, seating_capacity,
	average_price_per_person, features, opening_time, closing_time`

func scanRestaurant(row interface{ Scan(...any) error }) (*Restaurant, error) {
	var r Restaurant
	var features sql.NullString
	err := row.Scan(&r.ID, &r.Name, &r.LocationArea, &r.City, &r.Cuisine,
		&r.SeatingCapacity, &r.AveragePricePerPerson, &features,
		&r.OpeningTime, &r.ClosingTime)
	if err != nil {
		return nil, err
	}
	r.Features = features.String
	return &r, nil
}

func (s *Store) GetRestaurant(ctx context.Context, id int64) (*Restaurant, error) {
	row := s.conn.QueryRowContext(ctx,
		"SELECT "+restaurantColumns+" FROM restaurants WHERE id = ?", id)
	return scanRestaurant(row)
}

func (s *Store) ListRestaurants(ctx context.Context) ([]Restaurant, error) {
	rows, err := s.conn.QueryContext(ctx,
		"SELECT "+restaurantColumns+" FROM restaurants ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Restaurant
	for rows.Next() {
		r, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (s *Store) SearchRestaurants(ctx context.Context, f SearchFilter) ([]Restaurant, error) {
	var b strings.Builder
	b.WriteString("SELECT " + restaurantColumns + " FROM restaurants WHERE 1=1")
	var args []any

	if f.Area != "" {
		b.WriteString(" AND LOWER(location_area) LIKE LOWER(?)")
		args = append(args, "%"+f.Area+"%")
	}
	if f.Cuisine != "" {
		b.WriteString(" AND LOWER(cuisine) LIKE LOWER(?)")
		args = append(args, "%"+f.Cuisine+"%")
	}
	if f.MinCapacity > 0 {
		b.WriteString(" AND seating_capacity >= ?")
		args = append(args, f.MinCapacity)
	}
	if f.MaxPrice > 0 {
		b.WriteString(" AND average_price_per_person <= ?")
		args = append(args, f.MaxPrice)
	}
	b.WriteString(" ORDER BY id")

	rows, err := s.conn.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Restaurant
	for rows.Next() {
		r, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// InsertReservation writes a new reservation and returns its id. The
// datetime string is stored exactly as submitted.
func (s *Store) InsertReservation(ctx context.Context, r Reservation) (int64, error) {
	res, err := s.conn.ExecContext(ctx, `
		INSERT INTO reservations (restaurant_id, customer_name, phone, party_size,
			reservation_datetime, special_requests, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.RestaurantID, r.CustomerName, r.Phone, r.PartySize,
		r.Datetime, r.SpecialRequests, r.Status)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const reservationJoin = `
	SELECT r.id, r.restaurant_id, r.customer_name, r.phone, r.party_size,
		r.reservation_datetime, r.special_requests, r.status, rest.name
	FROM reservations r
	JOIN restaurants rest ON r.restaurant_id = rest.id`

func scanReservation(row interface{ Scan(...any) error }) (*Reservation, error) {
	var r Reservation
	err := row.Scan(&r.ID, &r.RestaurantID, &r.CustomerName, &r.Phone,
		&r.PartySize, &r.Datetime, &r.SpecialRequests, &r.Status, &r.RestaurantName)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) GetReservation(ctx context.Context, id int64) (*Reservation, error) {
	row := s.conn.QueryRowContext(ctx, reservationJoin+" WHERE r.id = ?", id)
	return scanReservation(row)
}

func (s *Store) ReservationsByPhone(ctx context.Context, phone string) ([]Reservation, error) {
	rows, err := s.conn.QueryContext(ctx,
		reservationJoin+" WHERE r.phone = ? ORDER BY r.reservation_datetime DESC", phone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (s *Store) SetReservationStatus(ctx context.Context, id int64, status string) error {
	_, err := s.conn.ExecContext(ctx,
		"UPDATE reservations SET status = ? WHERE id = ?", status, id)
	return err
}

func (s *Store) UpdateReservationBooking(ctx context.Context, id int64, datetime string, partySize int) error {
	_, err := s.conn.ExecContext(ctx,
		"UPDATE reservations SET reservation_datetime = ?, party_size = ? WHERE id = ?",
		datetime, partySize, id)
	return err
}

// ConfirmedPartySum totals the party sizes of confirmed reservations at a
// restaurant whose datetime falls in [from, to]. Bounds are compared as
// strings, which is sound for ISO-8601 datetimes of equal precision.
func (s *Store) ConfirmedPartySum(ctx context.Context, restaurantID int64, from, to string) (int, error) {
	var total sql.NullInt64
	err := s.conn.QueryRowContext(ctx, `
		SELECT SUM(party_size) FROM reservations
		WHERE restaurant_id = ? AND reservation_datetime BETWEEN ? AND ?
		  AND status = ?`,
		restaurantID, from, to, StatusConfirmed).Scan(&total)
	if err != nil {
		return 0, err
	}
	return int(total.Int64), nil
}
