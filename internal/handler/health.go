package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/readstash/readstash/internal/handler/dto"
)

// DatabaseChecker reports database reachability and the user count.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
	UserCount(ctx context.Context) (int64, error)
}

// CachePinger reports cache reachability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves GET /health.
type HealthHandler struct {
	db     DatabaseChecker
	cache  CachePinger
	logger *slog.Logger
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(db DatabaseChecker, cache CachePinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, logger: logger.With("handler", "health")}
}

// Check reports overall and per-dependency status. A reachable database
// is required for "ok"; the cache degrades the report but keeps the
// service up, matching how the cache is used everywhere else.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp := dto.HealthResponse{
		Status:   "ok",
		Database: dto.DatabaseHealth{Status: "ok"},
		Cache:    dto.CacheHealth{Status: "ok"},
	}
	status := http.StatusOK

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Error("database health check failed", "error", err)
		resp.Status = "unavailable"
		resp.Database.Status = "unreachable"
		status = http.StatusServiceUnavailable
	} else {
		count, err := h.db.UserCount(ctx)
		if err != nil {
			h.logger.Error("user count failed", "error", err)
			resp.Database.Status = "degraded"
		} else {
			resp.Database.UserCount = count
		}
	}

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			h.logger.Warn("cache health check failed", "error", err)
			resp.Cache.Status = "unreachable"
			if resp.Status == "ok" {
				resp.Status = "degraded"
			}
		}
	}

	writeJSON(w, status, resp)
}
