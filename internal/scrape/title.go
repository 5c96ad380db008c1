// Package scrape fetches page titles for saved links.
package scrape

import (
	"context"
	"html"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/readstash/readstash/internal/model"
)

const (
	// maxBodyBytes bounds how much of a page is read looking for a title.
	maxBodyBytes = 256 * 1024

	// maxTitleLength bounds the stored title.
	maxTitleLength = 200

	// DefaultTimeout caps the whole fetch; link creation never blocks
	// longer than this on a slow or hostile URL.
	DefaultTimeout = 5 * time.Second
)

var (
	titlePattern      = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// TitleFetcher scrapes the first <title> tag from a page.
type TitleFetcher struct {
	client *http.Client
	logger *slog.Logger
}

// NewTitleFetcher creates a TitleFetcher with the given overall timeout.
func NewTitleFetcher(timeout time.Duration, logger *slog.Logger) *TitleFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &TitleFetcher{
		client: &http.Client{Timeout: timeout},
		logger: logger.With("component", "scrape"),
	}
}

// Fetch returns the page title, or UntitledFallback on any failure:
// timeout, non-200, unreadable body, or no <title> tag. It never returns
// an error to the caller.
func (f *TitleFetcher) Fetch(ctx context.Context, rawURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return model.UntitledFallback
	}
	req.Header.Set("User-Agent", "readstash/1.0 (+title preview)")

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Debug("title fetch failed", "url", rawURL, "error", err)
		return model.UntitledFallback
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.logger.Debug("title fetch non-200", "url", rawURL, "status", resp.StatusCode)
		return model.UntitledFallback
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return model.UntitledFallback
	}

	return ExtractTitle(string(body))
}

// ExtractTitle pulls the first <title> tag out of an HTML document.
// Returns UntitledFallback when none is present or it is empty.
func ExtractTitle(body string) string {
	match := titlePattern.FindStringSubmatch(body)
	if match == nil {
		return model.UntitledFallback
	}

	title := html.UnescapeString(match[1])
	title = strings.TrimSpace(whitespacePattern.ReplaceAllString(title, " "))
	if title == "" {
		return model.UntitledFallback
	}

	// Rune-safe: a byte slice could split a multibyte character.
	if runes := []rune(title); len(runes) > maxTitleLength {
		title = string(runes[:maxTitleLength])
	}

	return title
}
