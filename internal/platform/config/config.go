// Package config builds service configuration from the environment so main
// stays lean. Engine thresholds are surfaced here because the engine itself
// never reads process-wide state.
package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures service level configuration.
type Server struct {
	Addr string

	// Redis is optional; with an empty URL the run store falls back to the
	// in-memory implementation.
	Redis RedisConfig

	// RunTTL bounds how long a run's outputs stay downloadable.
	RunTTL time.Duration

	// DownloadTokenTTL bounds the validity of signed download links.
	DownloadTokenTTL time.Duration

	// SigningKey signs download tokens.
	SigningKey string

	// Stripe settings; with an empty secret key the checkout gate runs in
	// dev mode and approves every run.
	StripeSecretKey     string
	StripeWebhookSecret string
	BaseURL             string

	// FreeTierLimit is the largest row count processed without payment.
	FreeTierLimit int
	// PricePerRowCents is charged per input row above the free tier.
	PricePerRowCents int

	// NameThreshold is the fuzzy name similarity cutoff on a 0-1 scale.
	NameThreshold float64
}

// RedisConfig carries connection settings for the run session cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables with documented
// defaults.
func FromEnv() Server {
	addr := os.Getenv("DEDUPE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	signingKey := os.Getenv("DOWNLOAD_SIGNING_KEY")
	if signingKey == "" {
		// Development default; must be overridden in production.
		signingKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr: addr,
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		RunTTL:              envDuration("RUN_TTL", 24*time.Hour),
		DownloadTokenTTL:    envDuration("DOWNLOAD_TOKEN_TTL", time.Hour),
		SigningKey:          signingKey,
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		BaseURL:             baseURL,
		FreeTierLimit:       envInt("FREE_TIER_LIMIT", 250),
		PricePerRowCents:    envInt("PRICE_PER_ROW_CENTS", 1),
		NameThreshold:       envFloat("NAME_THRESHOLD", 0.85),
	}
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
