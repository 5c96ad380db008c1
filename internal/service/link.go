package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/readstash/readstash/internal/metrics"
	"github.com/readstash/readstash/internal/model"
)

// ErrMissingURL rejects a link submitted without a URL. A malformed URL
// is still accepted; it only degrades the derived domain.
var ErrMissingURL = errors.New("link URL is required")

// LinkStore is the persistence surface LinkService needs.
type LinkStore interface {
	CreateLink(ctx context.Context, link *model.Link) (*model.Link, error)
	ListLinksByUser(ctx context.Context, userID string) ([]*model.Link, error)
	DeleteLink(ctx context.Context, userID, linkID string) (bool, error)
	SetLinkRead(ctx context.Context, userID, linkID string, isRead bool) (bool, error)
	SetLinkFavorite(ctx context.Context, userID, linkID string, isFavorite bool) (bool, error)
}

// TitleScraper resolves a page title for a URL. Implementations never
// fail; they fall back to a placeholder title.
type TitleScraper interface {
	Fetch(ctx context.Context, rawURL string) string
}

// LinkService manages a user's saved links.
type LinkService struct {
	store   LinkStore
	titles  TitleScraper
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewLinkService creates a new LinkService.
func NewLinkService(store LinkStore, titles TitleScraper, logger *slog.Logger, recorder metrics.Recorder) *LinkService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &LinkService{
		store:   store,
		titles:  titles,
		logger:  logger.With("component", "links"),
		metrics: recorder,
	}
}

// CreateLinkInput carries the client-supplied fields of a new link.
type CreateLinkInput struct {
	URL      string
	Title    string
	Category string
}

// Create saves a link for the user. A missing title is scraped from the
// page, an unknown category degrades to general, and the domain is
// derived from the URL. The write is a single insert; there is no
// read-modify-write of the user's collection.
func (s *LinkService) Create(ctx context.Context, userID string, input CreateLinkInput) (*model.Link, error) {
	if input.URL == "" {
		return nil, ErrMissingURL
	}

	title := input.Title
	if title == "" {
		title = s.titles.Fetch(ctx, input.URL)
	}

	now := time.Now().UTC()
	link := &model.Link{
		ID:        ulid.Make().String(),
		UserID:    userID,
		URL:       input.URL,
		Title:     title,
		Category:  model.NormalizeCategory(input.Category),
		Domain:    model.DeriveDomain(input.URL),
		DateAdded: now,
		Timestamp: now,
	}

	created, err := s.store.CreateLink(ctx, link)
	if err != nil {
		return nil, fmt.Errorf("create link: %w", err)
	}

	s.metrics.IncLinkCreated()
	s.logger.Info("link created",
		"link_id", created.ID,
		"category", created.Category,
		"domain", created.Domain,
	)

	return created, nil
}

// List returns the user's links, newest first. A user with no links
// gets an empty slice, not nil.
func (s *LinkService) List(ctx context.Context, userID string) ([]*model.Link, error) {
	links, err := s.store.ListLinksByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	if links == nil {
		links = []*model.Link{}
	}
	return links, nil
}

// Delete removes one of the user's links. Returns false when the link
// does not exist or belongs to someone else; the two cases are
// indistinguishable by design of the ownership-scoped delete.
func (s *LinkService) Delete(ctx context.Context, userID, linkID string) (bool, error) {
	deleted, err := s.store.DeleteLink(ctx, userID, linkID)
	if err != nil {
		return false, fmt.Errorf("delete link: %w", err)
	}
	if deleted {
		s.metrics.IncLinkDeleted()
	}
	return deleted, nil
}

// MarkRead sets the read flag on one of the user's links.
func (s *LinkService) MarkRead(ctx context.Context, userID, linkID string, isRead bool) (bool, error) {
	changed, err := s.store.SetLinkRead(ctx, userID, linkID, isRead)
	if err != nil {
		return false, fmt.Errorf("mark link read: %w", err)
	}
	return changed, nil
}

// SetFavorite sets the favorite flag on one of the user's links.
func (s *LinkService) SetFavorite(ctx context.Context, userID, linkID string, isFavorite bool) (bool, error) {
	changed, err := s.store.SetLinkFavorite(ctx, userID, linkID, isFavorite)
	if err != nil {
		return false, fmt.Errorf("set link favorite: %w", err)
	}
	return changed, nil
}
