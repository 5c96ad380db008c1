package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/readstash/readstash/internal/auth"
	"github.com/readstash/readstash/internal/handler/dto"
	"github.com/readstash/readstash/internal/model"
)

// ReminderService is the reminder surface the handler needs.
type ReminderService interface {
	Unseen(ctx context.Context, userID string) ([]*model.Reminder, error)
	MarkSeen(ctx context.Context, userID, reminderID string) (bool, error)
}

// ReminderHandler serves the /reminders endpoints.
type ReminderHandler struct {
	reminders ReminderService
	logger    *slog.Logger
}

// NewReminderHandler creates a ReminderHandler.
func NewReminderHandler(reminders ReminderService, logger *slog.Logger) *ReminderHandler {
	return &ReminderHandler{reminders: reminders, logger: logger.With("handler", "reminders")}
}

// List handles GET /reminders.
func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	reminders, err := h.reminders.Unseen(r.Context(), userID)
	if err != nil {
		h.logger.Error("list reminders failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, dto.RemindersResponse{Success: true, Reminders: reminders})
}

// Action handles POST /reminders.
func (h *ReminderHandler) Action(w http.ResponseWriter, r *http.Request) {
	var req dto.ReminderActionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Action != "mark_seen" {
		writeError(w, http.StatusBadRequest, "unknown action")
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "reminder id is required")
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	changed, err := h.reminders.MarkSeen(r.Context(), userID, req.ID)
	if err != nil {
		h.logger.Error("mark reminder seen failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !changed {
		writeError(w, http.StatusNotFound, "reminder not found")
		return
	}

	writeJSON(w, http.StatusOK, dto.Response{Success: true, Message: "reminder updated"})
}
