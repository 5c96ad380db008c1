// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/readstash/readstash/internal/auth"
	"github.com/readstash/readstash/internal/metrics"
	"github.com/readstash/readstash/internal/model"
	"github.com/readstash/readstash/internal/repository"
)

// Auth service errors. These cross the handler boundary as structured
// {success:false, error} payloads, never as raised exceptions.
var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrUsernameExists     = errors.New("username already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const maxUsernameLength = 64

// UserStore is the persistence surface AuthService needs.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateUserPassword(ctx context.Context, username, passwordHash string) (bool, error)
}

// AuthService handles registration, login and password resets.
type AuthService struct {
	store   UserStore
	tokens  *auth.TokenIssuer
	salt    string
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewAuthService creates a new AuthService. The salt is injected from
// configuration, never read from an ambient global.
func NewAuthService(store UserStore, tokens *auth.TokenIssuer, salt string, logger *slog.Logger, recorder metrics.Recorder) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		store:   store,
		tokens:  tokens,
		salt:    salt,
		logger:  logger.With("component", "auth"),
		metrics: recorder,
	}
}

// Register creates a user and returns it with a session token.
// A duplicate username maps to ErrUsernameExists; other persistence
// failures propagate wrapped.
func (s *AuthService) Register(ctx context.Context, username, password string) (*model.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, "", ErrMissingCredentials
	}
	if len(username) > maxUsernameLength {
		return nil, "", ErrMissingCredentials
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           ulid.Make().String(),
		Username:     username,
		PasswordHash: auth.HashPassword(password, s.salt),
		UserHash:     auth.UserHash(username, now),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return nil, "", ErrUsernameExists
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	s.metrics.IncUserRegistered()
	s.logger.Info("user registered", "user_hash", user.UserHash)

	return user, token, nil
}

// Login verifies credentials and returns the user with a session token.
// Unknown usernames and bad passwords fail distinctly.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	if username == "" || password == "" {
		return nil, "", ErrMissingCredentials
	}

	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", fmt.Errorf("look up user: %w", err)
	}

	if !auth.VerifyPassword(password, s.salt, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}

// ResetPassword overwrites a user's password hash.
// Returns false when the username does not exist.
func (s *AuthService) ResetPassword(ctx context.Context, username, newPassword string) (bool, error) {
	if username == "" || newPassword == "" {
		return false, ErrMissingCredentials
	}

	changed, err := s.store.UpdateUserPassword(ctx, username, auth.HashPassword(newPassword, s.salt))
	if err != nil {
		return false, fmt.Errorf("update password: %w", err)
	}

	if changed {
		s.logger.Info("password reset", "username", username)
	}

	return changed, nil
}
