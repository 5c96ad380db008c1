package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/readstash/readstash/internal/auth"
	"github.com/readstash/readstash/internal/handler/dto"
	"github.com/readstash/readstash/internal/model"
	"github.com/readstash/readstash/internal/service"
)

// LinkService is the link surface the handler needs.
type LinkService interface {
	Create(ctx context.Context, userID string, input service.CreateLinkInput) (*model.Link, error)
	List(ctx context.Context, userID string) ([]*model.Link, error)
	Delete(ctx context.Context, userID, linkID string) (bool, error)
	MarkRead(ctx context.Context, userID, linkID string, isRead bool) (bool, error)
	SetFavorite(ctx context.Context, userID, linkID string, isFavorite bool) (bool, error)
}

// LinkHandler serves the /links endpoints. All routes sit behind the
// auth middleware, so the user is always on the context.
type LinkHandler struct {
	links  LinkService
	logger *slog.Logger
}

// NewLinkHandler creates a LinkHandler.
func NewLinkHandler(links LinkService, logger *slog.Logger) *LinkHandler {
	return &LinkHandler{links: links, logger: logger.With("handler", "links")}
}

// List handles GET /links.
func (h *LinkHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	links, err := h.links.List(r.Context(), userID)
	if err != nil {
		h.logger.Error("list links failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, dto.LinksResponse{Success: true, Links: links})
}

// Create handles POST /links.
func (h *LinkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLinkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	link, err := h.links.Create(r.Context(), userID, service.CreateLinkInput{
		URL:      req.URL,
		Title:    req.Title,
		Category: req.Category,
	})
	if err != nil {
		if errors.Is(err, service.ErrMissingURL) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("create link failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, dto.LinkResponse{Success: true, Link: link})
}

// Delete handles DELETE /links?id=.
func (h *LinkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	linkID := r.URL.Query().Get("id")
	if linkID == "" {
		writeError(w, http.StatusBadRequest, "link id is required")
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	deleted, err := h.links.Delete(r.Context(), userID, linkID)
	if err != nil {
		h.logger.Error("delete link failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "link not found")
		return
	}

	writeJSON(w, http.StatusOK, dto.Response{Success: true, Message: "link deleted"})
}

// MarkRead handles POST /links/mark-read.
func (h *LinkHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	var req dto.MarkReadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.LinkID == "" {
		writeError(w, http.StatusBadRequest, "link id is required")
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	changed, err := h.links.MarkRead(r.Context(), userID, req.LinkID, req.IsRead)
	if err != nil {
		h.logger.Error("mark link read failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !changed {
		writeError(w, http.StatusNotFound, "link not found")
		return
	}

	writeJSON(w, http.StatusOK, dto.Response{Success: true, Message: "link updated"})
}

// ToggleFavorite handles POST /links/toggle-favorite.
func (h *LinkHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	var req dto.ToggleFavoriteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.LinkID == "" {
		writeError(w, http.StatusBadRequest, "link id is required")
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	changed, err := h.links.SetFavorite(r.Context(), userID, req.LinkID, req.IsFavorite)
	if err != nil {
		h.logger.Error("toggle link favorite failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !changed {
		writeError(w, http.StatusNotFound, "link not found")
		return
	}

	writeJSON(w, http.StatusOK, dto.Response{Success: true, Message: "link updated"})
}
