// Package reminder implements the batch engine that assigns one
// recommended article to each user.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/readstash/readstash/internal/metrics"
	"github.com/readstash/readstash/internal/model"
)

// DefaultWorkers bounds concurrent per-user assignment.
const DefaultWorkers = 4

// DefaultArticlesPerCategory is how many candidates are fetched per
// category per run.
const DefaultArticlesPerCategory = 20

// UserLister enumerates the users to process.
type UserLister interface {
	ListUsers(ctx context.Context) ([]*model.User, error)
}

// ReminderCreator persists a created reminder.
type ReminderCreator interface {
	CreateReminder(ctx context.Context, reminder *model.Reminder) error
}

// AffinityResolver returns the category a user should be recommended.
type AffinityResolver interface {
	Resolve(ctx context.Context, userID string) (model.Category, error)
}

// ArticleFetcher supplies candidate articles per category.
type ArticleFetcher interface {
	Categories() []model.Category
	FetchCategoryArticles(ctx context.Context, category model.Category, limit int) []model.Article
}

// ArticleCache is an optional layer over the fetcher so repeated runs
// within the TTL reuse candidate lists. May be nil.
type ArticleCache interface {
	GetArticles(ctx context.Context, category model.Category) ([]model.Article, error)
	SetArticles(ctx context.Context, category model.Category, articles []model.Article, ttl time.Duration) error
}

// Config tunes an engine run.
type Config struct {
	// Workers bounds concurrent per-user processing.
	Workers int
	// ArticlesPerCategory caps candidates fetched per category.
	ArticlesPerCategory int
	// CacheTTL is how long fetched candidate lists stay reusable.
	CacheTTL time.Duration
}

// Result summarizes one engine run.
type Result struct {
	ProcessedUsers   int
	RemindersCreated int
	SkippedUsers     int
}

// Engine creates at most one reminder per user per run. Feeds are
// fetched once per category and the candidate lists are shared across
// all users, so the upstream cost does not grow with the user count.
type Engine struct {
	users    UserLister
	store    ReminderCreator
	affinity AffinityResolver
	fetcher  ArticleFetcher
	cache    ArticleCache
	cfg      Config
	logger   *slog.Logger
	metrics  metrics.Recorder

	// pick(n) returns a uniform index in [0, n). Overridable in tests.
	pick func(n int) int
}

// New creates an Engine. cache may be nil.
func New(users UserLister, store ReminderCreator, affinity AffinityResolver, fetcher ArticleFetcher, cache ArticleCache, cfg Config, logger *slog.Logger, recorder metrics.Recorder) *Engine {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.ArticlesPerCategory <= 0 {
		cfg.ArticlesPerCategory = DefaultArticlesPerCategory
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return &Engine{
		users:    users,
		store:    store,
		affinity: affinity,
		fetcher:  fetcher,
		cache:    cache,
		cfg:      cfg,
		logger:   logger.With("component", "reminder_engine"),
		metrics:  recorder,
		pick:     rand.IntN,
	}
}

// Run executes one full pass over all users. A user that cannot be
// processed is skipped and counted; only listing users at all is fatal.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	defer func() {
		e.metrics.ObserveReminderRun(time.Since(start))
	}()

	users, err := e.users.ListUsers(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list users: %w", err)
	}

	candidates := e.collectCandidates(ctx)

	var (
		mu     sync.Mutex
		result Result
		wg     sync.WaitGroup
	)
	jobs := make(chan *model.User)

	for i := 0; i < e.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for user := range jobs {
				created, err := e.processUser(ctx, user, candidates)

				mu.Lock()
				result.ProcessedUsers++
				switch {
				case err != nil:
					result.SkippedUsers++
				case created:
					result.RemindersCreated++
				default:
					result.SkippedUsers++
				}
				mu.Unlock()

				if err != nil {
					e.logger.Warn("user skipped", "user_id", user.ID, "error", err)
				}
			}
		}()
	}

	for _, user := range users {
		jobs <- user
	}
	close(jobs)
	wg.Wait()

	e.logger.Info("reminder run finished",
		"processed", result.ProcessedUsers,
		"created", result.RemindersCreated,
		"skipped", result.SkippedUsers,
		"duration", time.Since(start),
	)

	return result, nil
}

// collectCandidates fetches one candidate list per configured category,
// going through the cache when one is wired.
func (e *Engine) collectCandidates(ctx context.Context) map[model.Category][]model.Article {
	categories := e.fetcher.Categories()

	seen := false
	for _, c := range categories {
		if c == model.FallbackCategory {
			seen = true
			break
		}
	}
	if !seen {
		categories = append(categories, model.FallbackCategory)
	}

	candidates := make(map[model.Category][]model.Article, len(categories))
	for _, category := range categories {
		candidates[category] = e.categoryArticles(ctx, category)
	}
	return candidates
}

func (e *Engine) categoryArticles(ctx context.Context, category model.Category) []model.Article {
	if e.cache != nil {
		if cached, err := e.cache.GetArticles(ctx, category); err == nil && len(cached) > 0 {
			return cached
		}
	}

	articles := e.fetcher.FetchCategoryArticles(ctx, category, e.cfg.ArticlesPerCategory)

	if e.cache != nil && len(articles) > 0 {
		if err := e.cache.SetArticles(ctx, category, articles, e.cfg.CacheTTL); err != nil {
			e.logger.Warn("article cache write failed", "category", category, "error", err)
		}
	}

	return articles
}

// processUser resolves the user's category, picks one candidate at
// random and persists the reminder. Returns false with nil error when
// no candidates exist anywhere; an empty run is not a failure.
func (e *Engine) processUser(ctx context.Context, user *model.User, candidates map[model.Category][]model.Article) (bool, error) {
	category, err := e.affinity.Resolve(ctx, user.ID)
	if err != nil {
		return false, fmt.Errorf("resolve affinity: %w", err)
	}

	pool := candidates[category]
	if len(pool) == 0 {
		category = model.FallbackCategory
		pool = candidates[category]
	}
	if len(pool) == 0 {
		return false, nil
	}

	article := pool[e.pick(len(pool))]

	reminder := &model.Reminder{
		ID:          ulid.Make().String(),
		UserID:      user.ID,
		Title:       article.Title,
		URL:         article.URL,
		Description: article.Description,
		Source:      article.Source,
		Category:    category,
		CreatedAt:   time.Now().UTC(),
	}

	if err := e.store.CreateReminder(ctx, reminder); err != nil {
		return false, fmt.Errorf("create reminder: %w", err)
	}

	e.metrics.IncReminderCreated()
	return true, nil
}
