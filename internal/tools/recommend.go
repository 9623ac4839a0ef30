package tools

import (
	"context"
	"errors"

	"goodfoods/internal/recommend"
)

// SemanticRecommend ranks restaurants against a free-text mood, occasion
// or vibe description.
type SemanticRecommend struct {
	ranker *recommend.Ranker
}

func NewSemanticRecommend(ranker *recommend.Ranker) *SemanticRecommend {
	return &SemanticRecommend{ranker: ranker}
}

func (s *SemanticRecommend) Name() string { return "semantic_recommend" }
func (s *SemanticRecommend) Description() string {
	return "Recommend restaurants based on user mood, occasion, or vibe using semantic similarity. " +
		"Use this when the user describes their preferences in terms of mood (romantic, casual, lively), " +
		"occasion (anniversary, birthday, business meeting), or atmosphere rather than strict filters."
}

func (s *SemanticRecommend) InputSchema() any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"location": map[string]any{
				"type":        "string",
				"description": "Preferred area/neighborhood in the city (e.g., 'Bandra', 'Andheri')",
			},
			"mood": map[string]any{
				"type": "string",
				"description": "User's mood, occasion, or vibe description (e.g., 'romantic anniversary dinner', " +
					"'casual friends night out', 'quiet business meeting')",
			},
			"cuisine": map[string]any{
				"type":        "string",
				"description": "Optional preferred cuisine type",
			},
			"budget": map[string]any{
				"type":        "integer",
				"description": "Optional maximum budget per person in INR",
			},
			"top_k": map[string]any{
				"type":        "integer",
				"description": "Number of recommendations to return (default: 5)",
			},
		},
		"required": []string{"location", "mood"},
	}
}

type recommendResult struct {
	ID                    int64   `json:"id"`
	Name                  string  `json:"name"`
	LocationArea          string  `json:"location_area"`
	Cuisine               string  `json:"cuisine"`
	AveragePricePerPerson int     `json:"average_price_per_person"`
	Features              string  `json:"features"`
	OpeningTime           string  `json:"opening_time"`
	ClosingTime           string  `json:"closing_time"`
	Similarity            float64 `json:"similarity"`
}

func (s *SemanticRecommend) Execute(ctx context.Context, input string) (string, error) {
	args := struct {
		Location string `json:"location"`
		Mood     string `json:"mood"`
		Cuisine  string `json:"cuisine"`
		Budget   int    `json:"budget"`
		TopK     int    `json:"top_k"`
	}{TopK: 5}
	decodeArgs(input, &args)

	recommendations, err := s.ranker.Recommend(ctx, recommend.Query{
		Mood:    args.Mood,
		Area:    args.Location,
		Cuisine: args.Cuisine,
		Budget:  args.Budget,
		TopK:    args.TopK,
	})
	if errors.Is(err, recommend.ErrNoRestaurants) {
		return messageList("No restaurants available in the database."), nil
	}
	if errors.Is(err, recommend.ErrNoMatch) {
		return messageList("No suitable restaurants found for your preferences."), nil
	}
	if err != nil {
		return "", err
	}

	results := make([]recommendResult, len(recommendations))
	for i, r := range recommendations {
		results[i] = recommendResult{
			ID:                    r.ID,
			Name:                  r.Name,
			LocationArea:          r.LocationArea,
			Cuisine:               r.Cuisine,
			AveragePricePerPerson: r.AveragePricePerPerson,
			Features:              r.Features,
			OpeningTime:           r.OpeningTime,
			ClosingTime:           r.ClosingTime,
			Similarity:            r.Similarity,
		}
	}
	return toJSON(results), nil
}
