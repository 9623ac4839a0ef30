package tools

import (
	"context"

	"goodfoods/internal/booking"
	"goodfoods/internal/store"
)

const maxSearchResults = 10

// Search finds restaurants by structured filters: area, cuisine, party
// size, requested time and budget.
type Search struct {
	store *store.Store
}

func NewSearch(st *store.Store) *Search {
	return &Search{store: st}
}

func (s *Search) Name() string { return "search_restaurants" }
func (s *Search) Description() string {
	return "Search restaurants given location, cuisine, date/time, party size, and optional budget."
}

func (s *Search) InputSchema() any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"location": map[string]any{
				"type":        "string",
				"description": "Area/neighborhood (e.g., 'Bandra', 'Andheri')",
			},
			"cuisine": map[string]any{
				"type":        "string",
				"description": "Type of cuisine (e.g., 'Italian', 'North Indian')",
			},
			"party_size": map[string]any{
				"type":        "integer",
				"description": "Number of people",
			},
			"datetime": map[string]any{
				"type":        "string",
				"description": "ISO 8601 datetime (e.g., '2024-12-25T19:00:00')",
			},
			"budget": map[string]any{
				"type":        "integer",
				"description": "Maximum budget per person in INR",
			},
		},
		"required": []string{"location", "party_size", "datetime"},
	}
}

type searchResult struct {
	ID                    int64  `json:"id"`
	Name                  string `json:"name"`
	LocationArea          string `json:"location_area"`
	Cuisine               string `json:"cuisine"`
	SeatingCapacity       int    `json:"seating_capacity"`
	AveragePricePerPerson int    `json:"average_price_per_person"`
	Features              string `json:"features"`
	OpeningTime           string `json:"opening_time"`
	ClosingTime           string `json:"closing_time"`
}

func (s *Search) Execute(ctx context.Context, input string) (string, error) {
	args := struct {
		Location  string `json:"location"`
		Cuisine   string `json:"cuisine"`
		PartySize int    `json:"party_size"`
		Datetime  string `json:"datetime"`
		Budget    int    `json:"budget"`
	}{PartySize: 1}
	decodeArgs(input, &args)

	if args.PartySize <= 0 {
		return errorList("Party size must be greater than 0"), nil
	}
	dt, err := booking.ParseDatetime(args.Datetime)
	if err != nil {
		return errorList(err.Error()), nil
	}

	restaurants, err := s.store.SearchRestaurants(ctx, store.SearchFilter{
		Area:        args.Location,
		Cuisine:     args.Cuisine,
		MinCapacity: args.PartySize,
		MaxPrice:    args.Budget,
	})
	if err != nil {
		return "", err
	}

	var results []searchResult
	for _, r := range restaurants {
		if !booking.IsOpenAt(r.OpeningTime, r.ClosingTime, dt) {
			continue
		}
		results = append(results, searchResult{
			ID:                    r.ID,
			Name:                  r.Name,
			LocationArea:          r.LocationArea,
			Cuisine:               r.Cuisine,
			SeatingCapacity:       r.SeatingCapacity,
			AveragePricePerPerson: r.AveragePricePerPerson,
			Features:              r.Features,
			OpeningTime:           r.OpeningTime,
			ClosingTime:           r.ClosingTime,
		})
		if len(results) == maxSearchResults {
			break
		}
	}

	if len(results) == 0 {
		return messageList("No restaurants found matching your criteria."), nil
	}
	return toJSON(results), nil
}
