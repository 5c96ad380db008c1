package model

import (
	"net/url"
	"strings"
	"time"
)

// UntitledFallback is used when a title is neither supplied nor scrapable.
const UntitledFallback = "Untitled"

// UnknownDomain is used when the link URL cannot be parsed.
const UnknownDomain = "unknown"

// Link represents a saved URL owned by exactly one user.
// Timestamp is the sortable instant used for listing order; DateAdded is
// the creation instant. They usually coincide but are stored separately.
type Link struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	URL        string    `json:"url"`
	Title      string    `json:"title"`
	Category   Category  `json:"category"`
	Domain     string    `json:"domain"`
	IsRead     bool      `json:"is_read"`
	IsFavorite bool      `json:"is_favorite"`
	DateAdded  time.Time `json:"date_added"`
	Timestamp  time.Time `json:"timestamp"`
}

// DeriveDomain extracts the host from a raw URL, stripping a leading
// "www.". A URL that cannot be parsed or has no host yields UnknownDomain
// rather than an error; saving a link must not fail on a bad URL.
func DeriveDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return UnknownDomain
	}

	host := strings.ToLower(parsed.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return UnknownDomain
	}
	return host
}
