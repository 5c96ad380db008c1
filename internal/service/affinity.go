package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/readstash/readstash/internal/model"
)

// CategoryCounter reports how many links a user has per category.
type CategoryCounter interface {
	CountLinkCategories(ctx context.Context, userID string) (map[model.Category]int, error)
}

// AffinityResolver derives the category a user is most interested in
// from their saved links.
type AffinityResolver struct {
	store  CategoryCounter
	logger *slog.Logger

	// pick(n) returns a uniform index in [0, n). Overridable in tests.
	pick func(n int) int
}

// NewAffinityResolver creates an AffinityResolver.
func NewAffinityResolver(store CategoryCounter, logger *slog.Logger) *AffinityResolver {
	return &AffinityResolver{
		store:  store,
		logger: logger.With("component", "affinity"),
		pick:   rand.IntN,
	}
}

// Resolve returns the user's dominant link category. A user with no
// links yet gets one of the cold-start defaults, chosen uniformly. Ties
// between counted categories break lexicographically so repeated runs
// agree.
func (r *AffinityResolver) Resolve(ctx context.Context, userID string) (model.Category, error) {
	counts, err := r.store.CountLinkCategories(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("count link categories: %w", err)
	}

	if len(counts) == 0 {
		return model.DefaultCategories[r.pick(len(model.DefaultCategories))], nil
	}

	var best model.Category
	bestCount := -1
	for category, count := range counts {
		if count > bestCount || (count == bestCount && category < best) {
			best = category
			bestCount = count
		}
	}

	return best, nil
}
