// Package feed aggregates third-party RSS feeds through a JSON
// conversion endpoint and normalizes the results into articles.
package feed

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/readstash/readstash/internal/model"
)

// Source is a single configured RSS feed tagged with one category.
type Source struct {
	Name     string         `json:"name"`
	URL      string         `json:"url"`
	Category model.Category `json:"category"`
}

// LoadSources reads the feed list from a JSON config file.
// Categories are canonicalized on load so the rest of the pipeline only
// sees the closed set.
func LoadSources(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feed config: %w", err)
	}

	var raw []struct {
		Name     string `json:"name"`
		URL      string `json:"url"`
		Category string `json:"category"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse feed config: %w", err)
	}

	sources := make([]Source, 0, len(raw))
	for i, entry := range raw {
		if entry.URL == "" {
			return nil, fmt.Errorf("feed config entry %d: missing url", i)
		}
		sources = append(sources, Source{
			Name:     entry.Name,
			URL:      entry.URL,
			Category: model.NormalizeCategory(entry.Category),
		})
	}

	return sources, nil
}

// Categories returns the distinct categories used by the given sources.
func Categories(sources []Source) []model.Category {
	seen := make(map[model.Category]bool)
	var categories []model.Category
	for _, src := range sources {
		if !seen[src.Category] {
			seen[src.Category] = true
			categories = append(categories, src.Category)
		}
	}
	return categories
}
