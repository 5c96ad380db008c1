// Package main runs one reminder batch pass. Scheduling is external
// (cron or similar); the process exits non-zero only when the run as a
// whole fails.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/readstash/readstash/internal/cache"
	"github.com/readstash/readstash/internal/config"
	"github.com/readstash/readstash/internal/feed"
	"github.com/readstash/readstash/internal/metrics"
	"github.com/readstash/readstash/internal/reminder"
	"github.com/readstash/readstash/internal/repository"
	"github.com/readstash/readstash/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	sources, err := feed.LoadSources(cfg.FeedConfigPath)
	if err != nil {
		logger.Error("failed to load feed config", "path", cfg.FeedConfigPath, "error", err)
		os.Exit(1)
	}
	logger.Info("feed config loaded", "sources", len(sources))

	// The article cache is an optimization; run without it when Redis
	// is unreachable.
	var articleCache reminder.ArticleCache
	cacheClient, err := cache.New(ctx, cfg.RedisURL, cache.Options{
		PoolSize:     cfg.RedisPoolSize,
		MinIdleConns: cfg.RedisMinIdleConns,
	})
	if err != nil {
		logger.Warn("Redis unavailable, running uncached", "error", err)
	} else {
		defer cacheClient.Close()
		articleCache = cacheClient
	}

	recorder := metrics.NewNoop()

	aggregator := feed.NewAggregator(sources, feed.Config{
		ConvertURL:       cfg.FeedConvertURL,
		FetchTimeout:     cfg.FeedFetchTimeout,
		RecencyWindow:    cfg.FeedRecencyWindow,
		FeedsPerCategory: cfg.FeedsPerCategory,
	}, logger, recorder)

	affinity := service.NewAffinityResolver(repo, logger)

	engine := reminder.New(repo, repo, affinity, aggregator, articleCache, reminder.Config{
		Workers:             cfg.ReminderWorkers,
		ArticlesPerCategory: cfg.RemindersPerCategory,
	}, logger, recorder)

	result, err := engine.Run(ctx)
	if err != nil {
		logger.Error("reminder run failed", "error", err)
		os.Exit(1)
	}

	logger.Info("reminder run complete",
		"processed", result.ProcessedUsers,
		"created", result.RemindersCreated,
		"skipped", result.SkippedUsers,
	)
}

func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
