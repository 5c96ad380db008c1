package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/readstash/readstash/internal/model"
)

// CreateReminder inserts a reminder for a user.
func (r *Repository) CreateReminder(ctx context.Context, reminder *model.Reminder) error {
	query := `
		INSERT INTO reminders (id, user_id, title, url, description, source, category, created_at, seen)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		reminder.ID,
		reminder.UserID,
		reminder.Title,
		reminder.URL,
		reminder.Description,
		reminder.Source,
		reminder.Category,
		reminder.CreatedAt,
		reminder.Seen,
	)
	if err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}

	return nil
}

// UnseenRemindersByUser returns a user's reminders not yet marked seen,
// newest first.
func (r *Repository) UnseenRemindersByUser(ctx context.Context, userID string) ([]*model.Reminder, error) {
	query := `
		SELECT id, user_id, title, url, description, source, category, created_at, seen
		FROM reminders
		WHERE user_id = $1 AND NOT seen
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unseen reminders: %w", err)
	}
	defer rows.Close()

	var reminders []*model.Reminder
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, reminder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reminders: %w", err)
	}

	return reminders, nil
}

// MarkReminderSeen sets the seen flag, scoped to the owner. Idempotent;
// returns false when no row matched.
func (r *Repository) MarkReminderSeen(ctx context.Context, userID, reminderID string) (bool, error) {
	query := `UPDATE reminders SET seen = TRUE WHERE id = $1 AND user_id = $2`

	result, err := r.pool.Exec(ctx, query, reminderID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to mark reminder seen: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// scanReminder scans a single row into a Reminder model.
func scanReminder(row pgx.Row) (*model.Reminder, error) {
	var reminder model.Reminder
	err := row.Scan(
		&reminder.ID,
		&reminder.UserID,
		&reminder.Title,
		&reminder.URL,
		&reminder.Description,
		&reminder.Source,
		&reminder.Category,
		&reminder.CreatedAt,
		&reminder.Seen,
	)
	if err != nil {
		return nil, err
	}
	return &reminder, nil
}
