// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor
// principles; secrets (password salt, token key) and the feed list are
// injected here rather than embedded as constants.
package config

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Cache / stream (Redis)
	RedisURL          string `env:"REDIS_URL,required"`
	RedisPoolSize     int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	RedisMinIdleConns int    `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Credentials
	// PasswordSalt feeds the salted credential hash; TokenKey is the
	// 32-byte (64 hex chars) symmetric key for session tokens.
	PasswordSalt string        `env:"PASSWORD_SALT,required"`
	TokenKey     string        `env:"TOKEN_KEY,required"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"720h"`

	// Title scraping
	TitleFetchTimeout time.Duration `env:"TITLE_FETCH_TIMEOUT" envDefault:"5s"`

	// Feed aggregation
	FeedConfigPath    string        `env:"FEED_CONFIG" envDefault:"feeds.json"`
	FeedConvertURL    string        `env:"FEED_CONVERT_URL" envDefault:"https://api.rss2json.com/v1/api.json"`
	FeedFetchTimeout  time.Duration `env:"FEED_FETCH_TIMEOUT" envDefault:"10s"`
	FeedRecencyWindow time.Duration `env:"FEED_RECENCY_WINDOW" envDefault:"168h"`
	FeedsPerCategory  int           `env:"FEEDS_PER_CATEGORY" envDefault:"3"`

	// Reminder batch run
	ReminderWorkers      int `env:"REMINDER_WORKERS" envDefault:"4"`
	RemindersPerCategory int `env:"REMINDERS_PER_CATEGORY" envDefault:"20"`

	// Login rate limiting
	RateLimitLoginEnabled bool `env:"RATE_LIMIT_LOGIN_ENABLED" envDefault:"true"`
	RateLimitLoginRPM     int  `env:"RATE_LIMIT_LOGIN_RPM" envDefault:"10"`
	RateLimitLoginBurst   int  `env:"RATE_LIMIT_LOGIN_BURST" envDefault:"5"`

	// CORS configuration
	// Comma-separated list of allowed origins.
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// TokenKeyBytes decodes the session token key from hex.
func (c *Config) TokenKeyBytes() ([]byte, error) {
	key, err := hex.DecodeString(c.TokenKey)
	if err != nil {
		return nil, fmt.Errorf("TOKEN_KEY must be hex encoded: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("TOKEN_KEY must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Load parses environment variables and returns a Config.
// A .env file is read first when present (development convenience).
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
