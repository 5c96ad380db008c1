package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/readstash/readstash/internal/auth"
	"github.com/readstash/readstash/internal/model"
)

// invalidTokenMessage is the single message for every auth failure so
// callers cannot probe which part of the check failed.
const invalidTokenMessage = "invalid or missing token"

// TokenVerifier validates a session token and returns its username.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// UserLoader resolves a username to a user record.
type UserLoader interface {
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// RequireAuth rejects requests without a valid bearer token and puts
// the resolved user on the context.
func RequireAuth(tokens TokenVerifier, users UserLoader, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, invalidTokenMessage)
				return
			}

			username, err := tokens.Verify(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, invalidTokenMessage)
				return
			}

			user, err := users.GetUserByUsername(r.Context(), username)
			if err != nil {
				// Token may outlive the account; treat it the same as a
				// bad token.
				logger.Warn("token user lookup failed",
					"request_id", GetRequestID(r.Context()),
					"error", err,
				)
				writeError(w, http.StatusUnauthorized, invalidTokenMessage)
				return
			}

			ctx := auth.ContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth resolves the user when a valid token is present but
// never rejects. Used by endpoints that accept anonymous traffic.
func OptionalAuth(tokens TokenVerifier, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			username, err := tokens.Verify(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetUserByUsername(r.Context(), username)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.ContextWithUser(r.Context(), user)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
