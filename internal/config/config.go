// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds configuration knobs for the HTTP server and its collaborators.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	AppEnv          string
	LogLevel        string

	API      APIConfig
	Cache    CacheConfig
	Identity IdentityConfig
	Catalog  CatalogConfig
	Session  SessionConfig
}

// APIConfig configures the external storefront API client.
type APIConfig struct {
	BaseURL       string
	Timeout       time.Duration
	RetryAttempts int
}

// CacheConfig configures the AI response cache. An empty RedisURL selects the
// in-memory cache.
type CacheConfig struct {
	RedisURL string
	TTL      time.Duration
}

// IdentityConfig configures the identity provider REST client.
type IdentityConfig struct {
	BaseURL string
	APIKey  string
}

// CatalogConfig configures catalog loading and cart defaults.
type CatalogConfig struct {
	FallbackFile string
	QuickAddQty  int
	LoadTimeout  time.Duration
}

// SessionConfig controls eviction of idle shopper sessions.
type SessionConfig struct {
	IdleTimeout   time.Duration
	SweepInterval time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func boolenv(key string, def bool) bool {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func durenvms(key string, defMs int) time.Duration {
	ms := atoienv(key, defMs)
	return time.Duration(ms) * time.Millisecond
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 15),
		AppEnv:          getenv("APP_ENV", "production"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		API: APIConfig{
			BaseURL:       getenv("API_BASE_URL", "http://localhost:3001/api"),
			Timeout:       durenvms("API_TIMEOUT_MS", 10000),
			RetryAttempts: atoienv("API_RETRY_ATTEMPTS", 1),
		},
		Cache: CacheConfig{
			RedisURL: getenv("REDIS_URL", ""),
			TTL:      durenvs("CACHE_TTL_SEC", 300),
		},
		Identity: IdentityConfig{
			BaseURL: getenv("IDENTITY_BASE_URL", "https://identitytoolkit.googleapis.com/v1"),
			APIKey:  getenv("IDENTITY_API_KEY", ""),
		},
		Catalog: CatalogConfig{
			FallbackFile: getenv("CATALOG_FALLBACK_FILE", ""),
			QuickAddQty:  atoienv("DEFAULT_QUICK_ADD_QTY", 5),
			LoadTimeout:  durenvms("CATALOG_LOAD_TIMEOUT_MS", 8000),
		},
		Session: SessionConfig{
			IdleTimeout:   durenvs("SESSION_IDLE_SEC", 1800),
			SweepInterval: durenvs("SESSION_SWEEP_SEC", 60),
		},
	}
}

// Development reports whether the service runs in development mode.
func (c Config) Development() bool {
	return c.AppEnv == "development" || boolenv("DEV_MODE", false)
}
