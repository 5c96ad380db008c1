package model

import "time"

// Event is a write-only analytics record. UserID is empty when the
// session could not be resolved; the sink stores it as NULL.
type Event struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	EventType string    `json:"event_type"`
	Metadata  []byte    `json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}
