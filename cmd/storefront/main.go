// Package main boots the storefront HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/fairyhunter13/cryzo-storefront/internal/apiclient"
	"github.com/fairyhunter13/cryzo-storefront/internal/catalog"
	"github.com/fairyhunter13/cryzo-storefront/internal/config"
	httpapi "github.com/fairyhunter13/cryzo-storefront/internal/http"
	"github.com/fairyhunter13/cryzo-storefront/internal/identity"
	"github.com/fairyhunter13/cryzo-storefront/internal/obs"
	"github.com/fairyhunter13/cryzo-storefront/internal/respcache"
	"github.com/fairyhunter13/cryzo-storefront/internal/store"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()
	cfg := config.Load()
	obs.InitLoggerWith(obs.Options{Development: cfg.Development(), Level: cfg.LogLevel})
	defer obs.Sync()
	obs.Logger.Info("service_starting", zap.String("env", cfg.AppEnv), zap.String("api", cfg.API.BaseURL))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cache := newCache(ctx, cfg)
	client := apiclient.New(cfg.API.BaseURL,
		apiclient.WithTimeout(cfg.API.Timeout),
		apiclient.WithCache(cache),
		apiclient.WithRetry(apiclient.RetryPolicy{Attempts: cfg.API.RetryAttempts}),
	)

	cat := catalog.NewStore()
	loader := catalog.Loader{Fetcher: client, FallbackFile: cfg.Catalog.FallbackFile, Timeout: cfg.Catalog.LoadTimeout}
	if _, err := loader.Load(ctx, cat); err != nil {
		obs.Logger.Fatal("catalog_load_failed", zap.Error(err))
	}

	app := httpapi.NewApp(cfg, cat, store.New(), client, newProvider(cfg))
	mux := httpapi.NewRouter(app)
	go sweepSessions(ctx, app, cfg.Session)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			obs.Logger.Error("http_server_error", zap.Error(err))
			obs.Sync()
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info("shutdown_signal", zap.String("signal", s.String()))

	app.StartShutdown()
	cancel()

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", zap.Error(err))
	}
	if r, ok := cache.(*respcache.Redis); ok {
		if err := r.Close(); err != nil {
			obs.Logger.Warn("cache_close_failed", zap.Error(err))
		}
	}
	obs.Logger.Info("service_stopped")
}

// newCache prefers Redis when configured and falls back to process memory when
// Redis cannot be reached at boot.
func newCache(ctx context.Context, cfg config.Config) respcache.Cache {
	if cfg.Cache.RedisURL == "" {
		return respcache.NewMemory(respcache.WithTTL(cfg.Cache.TTL))
	}
	dctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	r, err := respcache.Dial(dctx, cfg.Cache.RedisURL, respcache.WithTTL(cfg.Cache.TTL))
	if err != nil {
		obs.Logger.Warn("cache_redis_unavailable", zap.Error(err))
		return respcache.NewMemory(respcache.WithTTL(cfg.Cache.TTL))
	}
	obs.Logger.Info("cache_redis_connected")
	return r
}

func newProvider(cfg config.Config) identity.Provider {
	if cfg.Identity.APIKey == "" {
		obs.Logger.Warn("identity_memory_provider", zap.String("reason", "IDENTITY_API_KEY not set"))
		return identity.NewMemoryProvider()
	}
	return identity.NewRESTProvider(cfg.Identity.BaseURL, cfg.Identity.APIKey, nil)
}

func sweepSessions(ctx context.Context, app *httpapi.App, cfg config.SessionConfig) {
	if cfg.SweepInterval <= 0 || cfg.IdleTimeout <= 0 {
		return
	}
	t := time.NewTicker(cfg.SweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := app.SweepSessions(cfg.IdleTimeout); n > 0 {
				obs.Logger.Debug("sessions_swept", zap.Int("evicted", n))
			}
		}
	}
}
