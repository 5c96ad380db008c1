// Package dto defines the request and response shapes of the HTTP API.
// Every response carries the {success, ...} envelope.
package dto

import (
	"encoding/json"
	"time"

	"github.com/readstash/readstash/internal/model"
)

// Response is the bare envelope used for errors and acknowledgements.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RegisterRequest creates an account.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest authenticates an account.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ResetPasswordRequest replaces an account password.
type ResetPasswordRequest struct {
	Username    string `json:"username"`
	NewPassword string `json:"newPassword"`
}

// UserInfo is the public view of a user. The password hash never
// leaves the service; the user hash is the shareable identifier.
type UserInfo struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	UserHash  string    `json:"user_hash"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserInfo converts a model.User for responses.
func NewUserInfo(user *model.User) *UserInfo {
	return &UserInfo{
		ID:        user.ID,
		Username:  user.Username,
		UserHash:  user.UserHash,
		CreatedAt: user.CreatedAt,
	}
}

// AuthResponse returns a session token alongside the user.
type AuthResponse struct {
	Success bool      `json:"success"`
	Token   string    `json:"token"`
	User    *UserInfo `json:"user"`
}

// CreateLinkRequest saves a link. Title and category are optional.
type CreateLinkRequest struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

// MarkReadRequest flips a link's read flag. The link field is "linkId"
// on the wire, unlike the reminder action which uses "id".
type MarkReadRequest struct {
	LinkID string `json:"linkId"`
	IsRead bool   `json:"isRead"`
}

// ToggleFavoriteRequest flips a link's favorite flag.
type ToggleFavoriteRequest struct {
	LinkID     string `json:"linkId"`
	IsFavorite bool   `json:"isFavorite"`
}

// LinkResponse returns a single link.
type LinkResponse struct {
	Success bool        `json:"success"`
	Link    *model.Link `json:"link"`
}

// LinksResponse returns a user's links.
type LinksResponse struct {
	Success bool          `json:"success"`
	Links   []*model.Link `json:"links"`
}

// RemindersResponse returns a user's unseen reminders.
type RemindersResponse struct {
	Success   bool              `json:"success"`
	Reminders []*model.Reminder `json:"reminders"`
}

// ReminderActionRequest mutates a reminder. The only action today is
// "mark_seen".
type ReminderActionRequest struct {
	Action string `json:"action"`
	ID     string `json:"id"`
}

// MetricsRequest records one analytics event.
type MetricsRequest struct {
	EventType string          `json:"event_type"`
	Metadata  json.RawMessage `json:"metadata"`
}

// DatabaseHealth reports database reachability.
type DatabaseHealth struct {
	Status    string `json:"status"`
	UserCount int64  `json:"userCount"`
}

// CacheHealth reports cache reachability.
type CacheHealth struct {
	Status string `json:"status"`
}

// HealthResponse is the composite health report.
type HealthResponse struct {
	Status   string         `json:"status"`
	Database DatabaseHealth `json:"database"`
	Cache    CacheHealth    `json:"cache"`
}
