package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/readstash/readstash/internal/model"
)

const (
	articlesKeyPrefix = "articles:"

	// DefaultArticlesTTL bounds how long a category's candidate list is
	// reused before the next feed fetch.
	DefaultArticlesTTL = time.Hour
)

// ErrCacheMiss indicates the requested entry is not cached.
var ErrCacheMiss = errors.New("cache miss")

// GetArticles retrieves the cached candidate list for a category.
// Returns ErrCacheMiss when absent.
func (c *Cache) GetArticles(ctx context.Context, category model.Category) ([]model.Article, error) {
	key := articlesKeyPrefix + category.String()

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var articles []model.Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("decode cached articles: %w", err)
	}

	return articles, nil
}

// SetArticles stores a category's candidate list.
func (c *Cache) SetArticles(ctx context.Context, category model.Category, articles []model.Article, ttl time.Duration) error {
	key := articlesKeyPrefix + category.String()

	data, err := json.Marshal(articles)
	if err != nil {
		return fmt.Errorf("encode articles: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultArticlesTTL
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache articles: %w", err)
	}

	return nil
}
