package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/readstash/readstash/internal/model"
)

// InsertEvents writes a batch of analytics events.
// Duplicate IDs are ignored so the stream worker can redeliver safely.
func (r *Repository) InsertEvents(ctx context.Context, events []*model.Event) error {
	if len(events) == 0 {
		return nil
	}

	query := `
		INSERT INTO metrics (id, user_id, event_type, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`

	batch := &pgx.Batch{}
	for _, event := range events {
		metadata := event.Metadata
		if len(metadata) == 0 {
			metadata = []byte("{}")
		}
		batch.Queue(query,
			event.ID,
			nullableString(event.UserID),
			event.EventType,
			metadata,
			event.CreatedAt,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(events); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch insert event %d: %w", i, err)
		}
	}

	return nil
}

// nullableString converts "" to a SQL NULL.
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
