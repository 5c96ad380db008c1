// Package model defines domain entities for the application.
package model

import "time"

// User represents a registered account.
// UserHash is a non-sequential public identifier derived at creation time
// from the username and the creation instant; it is safe to expose to
// clients where the primary ID is not.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	UserHash     string    `json:"user_hash"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
