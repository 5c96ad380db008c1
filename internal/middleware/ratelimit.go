package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/readstash/readstash/internal/cache"
)

// LoginLimiter checks a per-IP login rate limit.
type LoginLimiter interface {
	CheckLoginRateLimit(ctx context.Context, ip string, ratePerMinute, burst int) (*cache.RateLimitResult, error)
}

// LoginRateLimit throttles login attempts per client IP. The limiter
// fails open, so a Redis outage degrades to unthrottled logins rather
// than a login outage.
func LoginRateLimit(limiter LoginLimiter, ratePerMinute, burst int, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			result, err := limiter.CheckLoginRateLimit(r.Context(), clientIP(r), ratePerMinute, burst)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			if !result.Allowed {
				logger.Warn("login rate limited",
					"request_id", GetRequestID(r.Context()),
					"retry_after", result.RetryAfter,
				)
				w.Header().Set("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())))
				writeError(w, http.StatusTooManyRequests, "too many login attempts")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// MaxBodySize caps request body reads. Oversized bodies surface as
// decode errors in the handlers.
func MaxBodySize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
