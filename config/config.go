package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Defaults for limits and lifetimes. All of these are overridable by
// environment; see Load.
const (
	DefaultNonceTTL    = 5 * time.Minute
	DefaultSessionTTL  = 7 * 24 * time.Hour
	DefaultMaxBodySize = 1 << 20 // 1 MiB

	DefaultAuthLimit    = 10
	DefaultWriteLimit   = 50
	DefaultGeneralLimit = 100

	DefaultListenAddr = ":8080"
	DefaultAppURL     = "http://localhost:3000"
)

// RateLimits holds per-class request ceilings per minute.
type RateLimits struct {
	Auth    int
	Write   int
	General int
}

// Config is the process configuration, loaded once at startup.
type Config struct {
	ListenAddr string

	// SessionPassword seals session cookies. Required, at least 32 chars;
	// the codec constructor enforces the length and Load fails early.
	SessionPassword string

	// AuthSecret is the static service-to-service bearer token. Empty
	// disables the bearer path in the auth middleware.
	AuthSecret string

	// AppURL is the single allowed CORS origin.
	AppURL string

	// TrustedHeaderAuth enables the X-Wallet-Address identity header,
	// for deployments where an upstream gateway has already
	// authenticated the caller. Off by default.
	TrustedHeaderAuth bool

	// RedisURL, when set, switches the nonce store and event publisher
	// to Redis so multiple instances can share state.
	RedisURL string

	Production  bool
	NonceTTL    time.Duration
	SessionTTL  time.Duration
	MaxBodySize int64
	RateLimits  RateLimits
}

// ErrMissingSessionPassword is returned when SESSION_PASSWORD is unset.
var ErrMissingSessionPassword = errors.New("SESSION_PASSWORD is required")

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:        envOr("LISTEN_ADDR", DefaultListenAddr),
		SessionPassword:   os.Getenv("SESSION_PASSWORD"),
		AuthSecret:        os.Getenv("AUTH_SECRET"),
		AppURL:            envOr("APP_URL", envOr("NEXT_PUBLIC_APP_URL", DefaultAppURL)),
		TrustedHeaderAuth: os.Getenv("TRUSTED_HEADER_AUTH") == "true",
		RedisURL:          os.Getenv("REDIS_URL"),
		Production:        os.Getenv("APP_ENV") == "production",
		NonceTTL:          DefaultNonceTTL,
		SessionTTL:        DefaultSessionTTL,
		MaxBodySize:       envInt64("API_MAX_BODY_SIZE", DefaultMaxBodySize),
		RateLimits: RateLimits{
			Auth:    envInt("RATE_LIMIT_AUTH", DefaultAuthLimit),
			Write:   envInt("RATE_LIMIT_WRITE", DefaultWriteLimit),
			General: envInt("RATE_LIMIT_GENERAL", DefaultGeneralLimit),
		},
	}

	if cfg.SessionPassword == "" {
		return nil, ErrMissingSessionPassword
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
