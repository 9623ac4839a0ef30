package db

import (
	"fmt"
	"math/rand"
	"strings"
)

const seedCity = "Mumbai"

var (
	seedAreas = []string{
		"Andheri", "Bandra", "Juhu", "Colaba", "Powai", "Lower Parel",
		"Worli", "Malad", "Goregaon", "Churchgate", "Fort", "Kurla",
		"Thane", "Vashi", "Panvel",
	}
	seedCuisines = []string{
		"North Indian", "South Indian", "Italian", "Chinese", "Japanese",
		"Thai", "Mexican", "Continental", "Multi-cuisine", "Mughlai",
		"Seafood", "Mediterranean", "Korean", "French", "American",
	}
	seedNamePrefixes = []string{
		"The", "Royal", "Golden", "Silver", "Blue", "Green", "Red",
		"Grand", "Little", "Big", "Urban", "Classic", "Modern", "Spice",
	}
	seedNameSuffixes = []string{
		"Kitchen", "Bistro", "Cafe", "Restaurant", "Diner", "Grill",
		"House", "Garden", "Terrace", "Lounge", "Table", "Plate",
		"Bites", "Corner", "Palace",
	}
	seedFeatures = []string{
		"rooftop", "family-friendly", "bar", "live-music", "outdoor-seating",
		"private-dining", "valet-parking", "wifi", "pet-friendly",
		"wheelchair-accessible", "romantic", "buffet",
	}
	seedOpeningTimes = []string{"10:00", "11:00", "11:30", "12:00"}
	seedClosingTimes = []string{"22:00", "22:30", "23:00", "23:30", "00:00"}
)

// SeedIfEmpty populates the restaurants table with synthetic sample data
// when it holds no rows. Returns the number of rows inserted.
func (d *DB) SeedIfEmpty(n int) (int, error) {
	var count int
	if err := d.conn.QueryRow("SELECT COUNT(*) FROM restaurants").Scan(&count); err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	tx, err := d.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO restaurants (name, location_area, city, cuisine, seating_capacity,
			average_price_per_person, features, opening_time, closing_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	usedNames := map[string]bool{}
	inserted := 0
	for inserted < n {
		prefix := seedNamePrefixes[rand.Intn(len(seedNamePrefixes))]
		suffix := seedNameSuffixes[rand.Intn(len(seedNameSuffixes))]
		cuisine := seedCuisines[rand.Intn(len(seedCuisines))]
		name := fmt.Sprintf("%s %s", prefix, suffix)
		if usedNames[name] {
			name = fmt.Sprintf("%s %s %s", prefix, cuisine, suffix)
		}
		if usedNames[name] {
			continue
		}
		usedNames[name] = true

		if _, err := stmt.Exec(
			name,
			seedAreas[rand.Intn(len(seedAreas))],
			seedCity,
			cuisine,
			20+rand.Intn(101),   // seating capacity 20..120
			300+rand.Intn(901),  // price per person 300..1200
			randomFeatures(),
			seedOpeningTimes[rand.Intn(len(seedOpeningTimes))],
			seedClosingTimes[rand.Intn(len(seedClosingTimes))],
		); err != nil {
			return 0, err
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

func randomFeatures() string {
	k := 2 + rand.Intn(3)
	picked := rand.Perm(len(seedFeatures))[:k]
	out := make([]string, k)
	for i, idx := range picked {
		out[i] = seedFeatures[idx]
	}
	return strings.Join(out, ",")
}
