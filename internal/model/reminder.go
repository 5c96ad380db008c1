package model

import "time"

// Reminder is a single recommended-article record surfaced to a user.
// Created by the reminder engine, marked seen by the user-facing endpoint.
type Reminder struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
	Category    Category  `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	Seen        bool      `json:"seen"`
}
