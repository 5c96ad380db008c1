package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/readstash/readstash/internal/model"
)

// ErrLinkNotFound indicates the link does not exist for the given owner.
// A link owned by another user is indistinguishable from a missing one.
var ErrLinkNotFound = errors.New("link not found")

// CreateLink inserts a link and returns the stored row in one statement.
func (r *Repository) CreateLink(ctx context.Context, link *model.Link) (*model.Link, error) {
	query := `
		INSERT INTO links (id, user_id, url, title, category, domain, is_read, is_favorite, date_added, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, user_id, url, title, category, domain, is_read, is_favorite, date_added, timestamp
	`

	stored, err := scanLink(r.pool.QueryRow(ctx, query,
		link.ID,
		link.UserID,
		link.URL,
		link.Title,
		link.Category,
		link.Domain,
		link.IsRead,
		link.IsFavorite,
		link.DateAdded,
		link.Timestamp,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create link: %w", err)
	}

	return stored, nil
}

// ListLinksByUser returns all of a user's links, newest first by the
// sortable timestamp.
func (r *Repository) ListLinksByUser(ctx context.Context, userID string) ([]*model.Link, error) {
	query := `
		SELECT id, user_id, url, title, category, domain, is_read, is_favorite, date_added, timestamp
		FROM links
		WHERE user_id = $1
		ORDER BY timestamp DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	var links []*model.Link
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating links: %w", err)
	}

	return links, nil
}

// DeleteLink removes a link scoped to its owner.
// Returns false when no row matched (missing or owned by someone else).
func (r *Repository) DeleteLink(ctx context.Context, userID, linkID string) (bool, error) {
	query := `DELETE FROM links WHERE id = $1 AND user_id = $2`

	result, err := r.pool.Exec(ctx, query, linkID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete link: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// SetLinkRead sets the read flag, scoped to the owner. Idempotent.
func (r *Repository) SetLinkRead(ctx context.Context, userID, linkID string, isRead bool) (bool, error) {
	query := `UPDATE links SET is_read = $3 WHERE id = $1 AND user_id = $2`

	result, err := r.pool.Exec(ctx, query, linkID, userID, isRead)
	if err != nil {
		return false, fmt.Errorf("failed to set read flag: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// SetLinkFavorite sets the favorite flag, scoped to the owner. Idempotent.
func (r *Repository) SetLinkFavorite(ctx context.Context, userID, linkID string, isFavorite bool) (bool, error) {
	query := `UPDATE links SET is_favorite = $3 WHERE id = $1 AND user_id = $2`

	result, err := r.pool.Exec(ctx, query, linkID, userID, isFavorite)
	if err != nil {
		return false, fmt.Errorf("failed to set favorite flag: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// CountLinkCategories aggregates a user's links by category.
func (r *Repository) CountLinkCategories(ctx context.Context, userID string) (map[model.Category]int, error) {
	query := `
		SELECT category, COUNT(*)
		FROM links
		WHERE user_id = $1
		GROUP BY category
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count link categories: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.Category]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		counts[model.Category(category)] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category counts: %w", err)
	}

	return counts, nil
}

// scanLink scans a single row into a Link model.
func scanLink(row pgx.Row) (*model.Link, error) {
	var link model.Link
	err := row.Scan(
		&link.ID,
		&link.UserID,
		&link.URL,
		&link.Title,
		&link.Category,
		&link.Domain,
		&link.IsRead,
		&link.IsFavorite,
		&link.DateAdded,
		&link.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	return &link, nil
}
