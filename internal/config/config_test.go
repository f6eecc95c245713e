package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"HTTP_ADDR", "SHUTDOWN_TIMEOUT", "APP_ENV", "LOG_LEVEL", "DEV_MODE",
		"API_BASE_URL", "API_TIMEOUT_MS", "API_RETRY_ATTEMPTS",
		"REDIS_URL", "CACHE_TTL_SEC", "IDENTITY_BASE_URL", "IDENTITY_API_KEY",
		"CATALOG_FALLBACK_FILE", "DEFAULT_QUICK_ADD_QTY", "CATALOG_LOAD_TIMEOUT_MS",
		"SESSION_IDLE_SEC", "SESSION_SWEEP_SEC",
	} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr default")
	}
	if c.ShutdownTimeout != 15*time.Second {
		t.Fatalf("ShutdownTimeout default")
	}
	if c.AppEnv != "production" || c.Development() {
		t.Fatalf("AppEnv default")
	}
	if c.API.BaseURL != "http://localhost:3001/api" || c.API.Timeout != 10*time.Second {
		t.Fatalf("API defaults: %+v", c.API)
	}
	if c.API.RetryAttempts != 1 {
		t.Fatalf("retry attempts default")
	}
	if c.Cache.RedisURL != "" || c.Cache.TTL != 5*time.Minute {
		t.Fatalf("cache defaults: %+v", c.Cache)
	}
	if c.Catalog.QuickAddQty != 5 || c.Catalog.FallbackFile != "" {
		t.Fatalf("catalog defaults: %+v", c.Catalog)
	}
	if c.Session.IdleTimeout != 30*time.Minute || c.Session.SweepInterval != time.Minute {
		t.Fatalf("session defaults: %+v", c.Session)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SHUTDOWN_TIMEOUT", "2")
	t.Setenv("APP_ENV", "development")
	t.Setenv("API_BASE_URL", "http://api.internal/api")
	t.Setenv("API_TIMEOUT_MS", "250")
	t.Setenv("API_RETRY_ATTEMPTS", "3")
	t.Setenv("REDIS_URL", "redis://localhost:6379/2")
	t.Setenv("CACHE_TTL_SEC", "60")
	t.Setenv("IDENTITY_API_KEY", "k")
	t.Setenv("DEFAULT_QUICK_ADD_QTY", "10")
	c := Load()
	if c.HTTPAddr != ":9090" {
		t.Fatalf("HTTPAddr env")
	}
	if c.ShutdownTimeout != 2*time.Second {
		t.Fatalf("ShutdownTimeout env")
	}
	if !c.Development() {
		t.Fatalf("expected development mode")
	}
	if c.API.BaseURL != "http://api.internal/api" || c.API.Timeout != 250*time.Millisecond || c.API.RetryAttempts != 3 {
		t.Fatalf("API env: %+v", c.API)
	}
	if c.Cache.RedisURL != "redis://localhost:6379/2" || c.Cache.TTL != time.Minute {
		t.Fatalf("cache env: %+v", c.Cache)
	}
	if c.Identity.APIKey != "k" {
		t.Fatalf("identity env")
	}
	if c.Catalog.QuickAddQty != 10 {
		t.Fatalf("quick add env")
	}
}

func TestLoadInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("API_RETRY_ATTEMPTS", "many")
	t.Setenv("DEV_MODE", "maybe")
	t.Setenv("APP_ENV", "")
	c := Load()
	if c.API.RetryAttempts != 1 {
		t.Fatalf("expected default on parse error, got %d", c.API.RetryAttempts)
	}
	if c.Development() {
		t.Fatalf("expected non-development on bad DEV_MODE")
	}
}
