// Package main is the entrypoint for the Readstash API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/readstash/readstash/internal/analytics"
	"github.com/readstash/readstash/internal/auth"
	"github.com/readstash/readstash/internal/cache"
	"github.com/readstash/readstash/internal/config"
	"github.com/readstash/readstash/internal/handler"
	"github.com/readstash/readstash/internal/metrics"
	"github.com/readstash/readstash/internal/middleware"
	"github.com/readstash/readstash/internal/repository"
	"github.com/readstash/readstash/internal/scrape"
	"github.com/readstash/readstash/internal/server"
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

	if err := repository.Migrate(ctx, cfg.DatabaseURL); err != nil {
		logger.Error("migrations failed",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
		)
		os.Exit(1)
	}

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL, cache.Options{
		PoolSize:     cfg.RedisPoolSize,
		MinIdleConns: cfg.RedisMinIdleConns,
	})
	if err != nil {
		logger.Error("failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	tokenKey, err := cfg.TokenKeyBytes()
	if err != nil {
		logger.Error("invalid token key", "error", err)
		os.Exit(1)
	}
	tokens, err := auth.NewTokenIssuer(tokenKey, cfg.SessionTTL)
	if err != nil {
		logger.Error("failed to build token issuer", "error", err)
		os.Exit(1)
	}

	recorder := metrics.NewNoop()

	authService := service.NewAuthService(repo, tokens, cfg.PasswordSalt, logger, recorder)
	titleFetcher := scrape.NewTitleFetcher(cfg.TitleFetchTimeout, logger)
	linkService := service.NewLinkService(repo, titleFetcher, logger, recorder)
	reminderService := service.NewReminderService(repo, logger)

	publisher := analytics.NewPublisher(cacheClient.Client(), logger, recorder)

	// Drain the analytics stream in-process. Stops after the listener
	// so late fire-and-forget publishes still land.
	workerCtx, stopWorker := context.WithCancel(ctx)
	workerDone := make(chan struct{})
	worker := analytics.NewWorker(cacheClient.Client(), repo, hostnameConsumer(), logger)
	go func() {
		defer close(workerDone)
		if err := worker.Run(workerCtx); err != nil {
			logger.Error("analytics worker failed", "error", err)
		}
	}()

	authHandler := handler.NewAuthHandler(authService, logger)
	linkHandler := handler.NewLinkHandler(linkService, logger)
	reminderHandler := handler.NewReminderHandler(reminderService, logger)
	metricsHandler := handler.NewMetricsHandler(publisher, logger)
	healthHandler := handler.NewHealthHandler(repo, cacheClient, logger)

	router := setupRouter(routerDeps{
		cfg:       cfg,
		logger:    logger,
		tokens:    tokens,
		repo:      repo,
		cache:     cacheClient,
		auth:      authHandler,
		links:     linkHandler,
		reminders: reminderHandler,
		metrics:   metricsHandler,
		health:    healthHandler,
	})

	srv := server.New(router, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	srv.OnShutdown("analytics worker", func(ctx context.Context) error {
		stopWorker()
		select {
		case <-workerDone:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	logger.Info("starting server", "addr", srv.Addr(), "env", cfg.AppEnv)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

type routerDeps struct {
	cfg       *config.Config
	logger    *slog.Logger
	tokens    *auth.TokenIssuer
	repo      *repository.Repository
	cache     *cache.Cache
	auth      *handler.AuthHandler
	links     *handler.LinkHandler
	reminders *handler.ReminderHandler
	metrics   *handler.MetricsHandler
	health    *handler.HealthHandler
}

// setupRouter wires all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recoverer(deps.logger))
	r.Use(middleware.MaxBodySize(deps.cfg.MaxRequestBodySize))

	if origins := deps.cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/", handler.Root)
	r.Get("/health", deps.health.Check)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", deps.auth.Register)
		if deps.cfg.RateLimitLoginEnabled {
			r.With(middleware.LoginRateLimit(
				deps.cache,
				deps.cfg.RateLimitLoginRPM,
				deps.cfg.RateLimitLoginBurst,
				deps.logger,
			)).Post("/login", deps.auth.Login)
		} else {
			r.Post("/login", deps.auth.Login)
		}
		r.Post("/reset-password", deps.auth.ResetPassword)
		r.Post("/logout", deps.auth.Logout)
	})

	requireAuth := middleware.RequireAuth(deps.tokens, deps.repo, deps.logger)

	r.Route("/links", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", deps.links.List)
		r.Post("/", deps.links.Create)
		r.Delete("/", deps.links.Delete)
		r.Post("/mark-read", deps.links.MarkRead)
		r.Post("/toggle-favorite", deps.links.ToggleFavorite)
	})

	r.Route("/reminders", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", deps.reminders.List)
		r.Post("/", deps.reminders.Action)
	})

	r.With(middleware.OptionalAuth(deps.tokens, deps.repo)).
		Post("/metrics", deps.metrics.Record)

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	return r
}

// initLogger builds the slog logger from configuration.
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

// hostnameConsumer names this instance within the stream consumer group.
func hostnameConsumer() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return fmt.Sprintf("api-%d", os.Getpid())
	}
	return host
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

// redactURL strips credentials from a connection URL for logging.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		if username := parsed.User.Username(); username != "" {
			parsed.User = url.User(username)
		} else {
			parsed.User = url.User("redacted")
		}
	}

	return parsed.String()
}

// sanitizeError removes connection secrets from an error message.
func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
