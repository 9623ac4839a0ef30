package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"

	"goodfoods/internal/embedding"
	"goodfoods/internal/store"
)

// ErrNoRestaurants means the catalog held no restaurants when the cache was
// populated. ErrNoMatch means restaurants exist but the hard filters
// eliminated every candidate. Callers surface these as informational
// messages, not failures.
var (
	ErrNoRestaurants = errors.New("no restaurants in catalog")
	ErrNoMatch       = errors.New("no restaurants match filters")
)

const defaultTopK = 5

// Query describes a mood-based recommendation request. Mood feeds the
// similarity ranking; Area, Cuisine and Budget are hard filters applied
// before any scoring.
type Query struct {
	Mood    string
	Area    string
	Cuisine string
	Budget  int
	TopK    int
}

type Recommendation struct {
	ID                    int64
	Name                  string
	LocationArea          string
	Cuisine               string
	AveragePricePerPerson int
	Features              string
	OpeningTime           string
	ClosingTime           string
	Similarity            float64
}

// Ranker ranks restaurants by embedding similarity against a free-text mood
// description. It keeps a process-lifetime cache of restaurant vectors and
// metadata, populated from the catalog on first use and never refreshed:
// restaurants added later will not appear in recommendations until the
// process restarts. That staleness is deliberate and documented behavior.
type Ranker struct {
	store    *store.Store
	embedder embedding.Provider

	mu      sync.Mutex
	loaded  bool
	vectors map[int64][]float32
	meta    map[int64]store.Restaurant
}

func NewRanker(st *store.Store, embedder embedding.Provider) *Ranker {
	return &Ranker{
		store:    st,
		embedder: embedder,
		vectors:  make(map[int64][]float32),
		meta:     make(map[int64]store.Restaurant),
	}
}

// ensureLoaded performs the one-time full catalog scan and batch embed.
func (r *Ranker) ensureLoaded(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded {
		return nil
	}

	restaurants, err := r.store.ListRestaurants(ctx)
	if err != nil {
		return fmt.Errorf("scanning catalog: %w", err)
	}

	texts := make([]string, len(restaurants))
	for i, rest := range restaurants {
		texts[i] = describeRestaurant(rest)
	}

	if len(restaurants) > 0 {
		vectors, err := r.embedder.Embed(ctx, texts)
		if err != nil {
			return fmt.Errorf("embedding catalog: %w", err)
		}
		for i, rest := range restaurants {
			r.vectors[rest.ID] = vectors[i]
			r.meta[rest.ID] = rest
		}
	}

	r.loaded = true
	slog.Debug("recommend: restaurant vectors cached", "count", len(r.vectors))
	return nil
}

// Recommend embeds the query text once, filters, and returns the top-K
// candidates by cosine similarity, scores rounded to 4 decimal places.
func (r *Ranker) Recommend(ctx context.Context, q Query) ([]Recommendation, error) {
	if err := r.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	if len(r.vectors) == 0 {
		return nil, ErrNoRestaurants
	}

	queryVecs, err := r.embedder.Embed(ctx, []string{describeQuery(q)})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	queryVec := queryVecs[0]

	var scored []Recommendation
	for id, vec := range r.vectors {
		rest := r.meta[id]
		if q.Area != "" && !strings.Contains(strings.ToLower(rest.LocationArea), strings.ToLower(q.Area)) {
			continue
		}
		if q.Cuisine != "" && !strings.Contains(strings.ToLower(rest.Cuisine), strings.ToLower(q.Cuisine)) {
			continue
		}
		if q.Budget > 0 && rest.AveragePricePerPerson > q.Budget {
			continue
		}

		similarity := float64(embedding.CosineSimilarity(queryVec, vec))
		scored = append(scored, Recommendation{
			ID:                    rest.ID,
			Name:                  rest.Name,
			LocationArea:          rest.LocationArea,
			Cuisine:               rest.Cuisine,
			AveragePricePerPerson: rest.AveragePricePerPerson,
			Features:              rest.Features,
			OpeningTime:           rest.OpeningTime,
			ClosingTime:           rest.ClosingTime,
			Similarity:            math.Round(similarity*10000) / 10000,
		})
	}

	if len(scored) == 0 {
		return nil, ErrNoMatch
	}

	// Descending similarity; id breaks ties so a fixed input set always
	// ranks the same way.
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Similarity != scored[j].Similarity {
			return scored[i].Similarity > scored[j].Similarity
		}
		return scored[i].ID < scored[j].ID
	})

	topK := q.TopK
	if topK <= 0 {
		topK = defaultTopK
	}
	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

// describeRestaurant builds the text embedded for each restaurant.
func describeRestaurant(r store.Restaurant) string {
	features := r.Features
	if features == "" {
		features = "none"
	}
	return fmt.Sprintf("%s. Area: %s. Cuisine: %s. Features: %s.", r.Name, r.LocationArea, r.Cuisine, features)
}

// describeQuery builds the text embedded for the caller's request.
func describeQuery(q Query) string {
	parts := []string{q.Mood}
	if q.Area != "" {
		parts = append(parts, "Area: "+q.Area)
	}
	if q.Cuisine != "" {
		parts = append(parts, "Cuisine: "+q.Cuisine)
	}
	return strings.Join(parts, ". ") + "."
}
