package handler

import (
	"log/slog"
	"net/http"

	"github.com/readstash/readstash/internal/auth"
	"github.com/readstash/readstash/internal/handler/dto"
	"github.com/readstash/readstash/internal/model"
)

// EventPublisher pushes an event onto the analytics stream without
// blocking the request.
type EventPublisher interface {
	PublishAsync(event *model.Event)
}

// MetricsHandler serves POST /metrics, the write-only event sink.
type MetricsHandler struct {
	publisher EventPublisher
	logger    *slog.Logger
}

// NewMetricsHandler creates a MetricsHandler.
func NewMetricsHandler(publisher EventPublisher, logger *slog.Logger) *MetricsHandler {
	return &MetricsHandler{publisher: publisher, logger: logger.With("handler", "metrics")}
}

// Record handles POST /metrics. The user id is attached when a token
// resolved; anonymous events are accepted with a null user. The publish
// is fire and forget, so the response never waits on the stream.
func (h *MetricsHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req dto.MetricsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.EventType == "" {
		writeError(w, http.StatusBadRequest, "event_type is required")
		return
	}

	h.publisher.PublishAsync(&model.Event{
		UserID:    auth.UserIDFromContext(r.Context()),
		EventType: req.EventType,
		Metadata:  []byte(req.Metadata),
	})

	writeJSON(w, http.StatusAccepted, dto.Response{Success: true, Message: "event recorded"})
}
