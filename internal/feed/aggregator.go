package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/readstash/readstash/internal/metrics"
	"github.com/readstash/readstash/internal/model"
)

const (
	// DefaultFeedsPerCategory caps how many feeds are polled per category
	// per run (upstream conversion calls are metered).
	DefaultFeedsPerCategory = 3

	// DefaultRecencyWindow drops items older than this.
	DefaultRecencyWindow = 168 * time.Hour

	// maxDescriptionLength bounds the stored plain-text description.
	maxDescriptionLength = 300
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Config tunes the aggregator.
type Config struct {
	// ConvertURL is the RSS-to-JSON conversion endpoint.
	ConvertURL string
	// FetchTimeout bounds each individual feed fetch.
	FetchTimeout time.Duration
	// RecencyWindow is the trailing window for item freshness.
	RecencyWindow time.Duration
	// FeedsPerCategory caps feeds polled per category per run.
	FeedsPerCategory int
}

// Aggregator fetches configured feeds and normalizes them into articles.
type Aggregator struct {
	client   *http.Client
	sources  []Source
	cfg      Config
	logger   *slog.Logger
	metrics  metrics.Recorder
}

// NewAggregator creates an Aggregator over the given sources.
func NewAggregator(sources []Source, cfg Config, logger *slog.Logger, recorder metrics.Recorder) *Aggregator {
	if cfg.FeedsPerCategory <= 0 {
		cfg.FeedsPerCategory = DefaultFeedsPerCategory
	}
	if cfg.RecencyWindow <= 0 {
		cfg.RecencyWindow = DefaultRecencyWindow
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 10 * time.Second
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return &Aggregator{
		client:  &http.Client{Timeout: cfg.FetchTimeout},
		sources: sources,
		cfg:     cfg,
		logger:  logger.With("component", "feed"),
		metrics: recorder,
	}
}

// Categories returns the distinct categories across the configured sources.
func (a *Aggregator) Categories() []model.Category {
	return Categories(a.sources)
}

// FetchCategoryArticles returns up to limit fresh articles for a category.
// At most FeedsPerCategory feeds are polled. A failing feed is skipped
// with a log line; the result may be shorter than limit or empty, which
// is not an error.
func (a *Aggregator) FetchCategoryArticles(ctx context.Context, category model.Category, limit int) []model.Article {
	var articles []model.Article
	polled := 0

	for _, src := range a.sources {
		if src.Category != category {
			continue
		}
		if polled >= a.cfg.FeedsPerCategory {
			break
		}
		polled++

		items, err := a.fetchFeed(ctx, src)
		if err != nil {
			a.metrics.IncFeedFetch("error")
			a.logger.Warn("feed fetch failed",
				"feed", src.Name,
				"category", category,
				"error", err,
			)
			continue
		}

		a.metrics.IncFeedFetch("success")
		articles = append(articles, items...)

		if limit > 0 && len(articles) >= limit {
			articles = articles[:limit]
			break
		}
	}

	return articles
}

// conversion API response, rss2json shaped.
type convertResponse struct {
	Status string `json:"status"`
	Feed   struct {
		Title string `json:"title"`
	} `json:"feed"`
	Items []convertItem `json:"items"`
}

type convertItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
	PubDate     string `json:"pubDate"`
}

// fetchFeed converts one feed through the JSON endpoint and filters
// items to the recency window.
func (a *Aggregator) fetchFeed(ctx context.Context, src Source) ([]model.Article, error) {
	endpoint := a.cfg.ConvertURL + "?rss_url=" + url.QueryEscape(src.URL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("conversion endpoint returned %d", resp.StatusCode)
	}

	var converted convertResponse
	if err := json.NewDecoder(resp.Body).Decode(&converted); err != nil {
		return nil, fmt.Errorf("decode conversion payload: %w", err)
	}
	if converted.Status != "ok" {
		return nil, fmt.Errorf("conversion status %q", converted.Status)
	}

	source := src.Name
	if source == "" {
		source = converted.Feed.Title
	}

	cutoff := time.Now().Add(-a.cfg.RecencyWindow)
	articles := make([]model.Article, 0, len(converted.Items))

	for _, item := range converted.Items {
		published, ok := parsePubDate(item.PubDate)
		if !ok || published.Before(cutoff) {
			continue
		}
		if item.Title == "" || item.Link == "" {
			continue
		}

		articles = append(articles, model.Article{
			Title:       strings.TrimSpace(item.Title),
			URL:         item.Link,
			Description: TruncateDescription(StripHTML(item.Description)),
			Source:      source,
			Category:    src.Category,
		})
	}

	return articles, nil
}

// pubDateLayouts are the timestamp formats seen from conversion APIs.
var pubDateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
}

func parsePubDate(s string) (time.Time, bool) {
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// StripHTML removes markup and collapses whitespace in a description.
func StripHTML(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}

// TruncateDescription bounds a plain-text description, rune-safe.
func TruncateDescription(s string) string {
	runes := []rune(s)
	if len(runes) <= maxDescriptionLength {
		return s
	}
	return string(runes[:maxDescriptionLength])
}
