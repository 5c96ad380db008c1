package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/readstash/readstash/internal/model"
)

// ReminderStore is the persistence surface ReminderService needs.
type ReminderStore interface {
	UnseenRemindersByUser(ctx context.Context, userID string) ([]*model.Reminder, error)
	MarkReminderSeen(ctx context.Context, userID, reminderID string) (bool, error)
}

// ReminderService exposes a user's pending reminders.
type ReminderService struct {
	store  ReminderStore
	logger *slog.Logger
}

// NewReminderService creates a new ReminderService.
func NewReminderService(store ReminderStore, logger *slog.Logger) *ReminderService {
	return &ReminderService{
		store:  store,
		logger: logger.With("component", "reminders"),
	}
}

// Unseen returns the user's unseen reminders. Empty slice, not nil,
// when there are none.
func (s *ReminderService) Unseen(ctx context.Context, userID string) ([]*model.Reminder, error) {
	reminders, err := s.store.UnseenRemindersByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	if reminders == nil {
		reminders = []*model.Reminder{}
	}
	return reminders, nil
}

// MarkSeen marks one of the user's reminders as seen. Returns false
// when the reminder does not exist or belongs to another user.
func (s *ReminderService) MarkSeen(ctx context.Context, userID, reminderID string) (bool, error) {
	changed, err := s.store.MarkReminderSeen(ctx, userID, reminderID)
	if err != nil {
		return false, fmt.Errorf("mark reminder seen: %w", err)
	}
	return changed, nil
}
