package model

// Article is a normalized feed item produced by the aggregator.
// Description is plain text, already HTML-stripped and truncated.
type Article struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Source      string   `json:"source"`
	Category    Category `json:"category"`
}
