package httpapi

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/fairyhunter13/cryzo-storefront/internal/apiclient"
	"github.com/fairyhunter13/cryzo-storefront/internal/cart"
	"github.com/fairyhunter13/cryzo-storefront/internal/catalog"
	"github.com/fairyhunter13/cryzo-storefront/internal/config"
	"github.com/fairyhunter13/cryzo-storefront/internal/identity"
	"github.com/fairyhunter13/cryzo-storefront/internal/model"
	"github.com/fairyhunter13/cryzo-storefront/internal/obs"
	"github.com/fairyhunter13/cryzo-storefront/internal/respcache"
	"github.com/fairyhunter13/cryzo-storefront/internal/search"
	"github.com/fairyhunter13/cryzo-storefront/internal/state"
	"github.com/fairyhunter13/cryzo-storefront/internal/store"
)

// Upstream is the external storefront API.
type Upstream interface {
	GetProduct(ctx context.Context, id string) (model.Product, error)
	QuickSearch(ctx context.Context, f search.Filters) ([]model.Product, error)
	AISearch(ctx context.Context, query, image string) (apiclient.SearchResult, error)
	Chat(ctx context.Context, message string) (apiclient.ChatReply, error)
	CreateCheckout(ctx context.Context, items []cart.CheckoutLine, customerEmail string) (string, error)
	ContactInfo(ctx context.Context) apiclient.Contact
	CacheStats() (respcache.Stats, bool)
}

type counters struct {
	searches          atomic.Int64
	searchFallbacks   atomic.Int64
	chats             atomic.Int64
	chatFailures      atomic.Int64
	checkouts         atomic.Int64
	checkoutsBlocked  atomic.Int64
	checkoutsFailed   atomic.Int64
	cartMutations     atomic.Int64
	sessionsEvicted   atomic.Int64
	upstreamFallbacks atomic.Int64
}

type App struct {
	Cfg      config.Config
	Catalog  *catalog.Store
	Sessions *store.Store
	Auth     *identity.Auth
	API      Upstream

	closing atomic.Bool
	started time.Time
	stats   counters
}

// NewApp wires the handlers' collaborators. Sign-in and sign-out are mirrored
// into the session's application state.
func NewApp(cfg config.Config, cat *catalog.Store, sessions *store.Store, api Upstream, provider identity.Provider) *App {
	a := &App{Cfg: cfg, Catalog: cat, Sessions: sessions, API: api, started: time.Now()}
	a.Auth = identity.NewAuth(provider, func(sid string, u *model.User) {
		a.Sessions.Update(sid, func(s state.AppState) state.AppState { return state.SetUser(s, u) })
	})
	return a
}

func (a *App) StartShutdown() {
	a.closing.Store(true)
}

// Closing reports whether shutdown has begun.
func (a *App) Closing() bool {
	return a.closing.Load()
}

// SweepSessions evicts idle sessions and reports how many were removed.
func (a *App) SweepSessions(maxIdle time.Duration) int {
	evicted := a.Sessions.Sweep(maxIdle)
	for _, sid := range evicted {
		a.Auth.Forget(sid)
	}
	a.stats.sessionsEvicted.Add(int64(len(evicted)))
	return len(evicted)
}

func (a *App) quickAddQty() int {
	if a.Cfg.Catalog.QuickAddQty > 0 {
		return a.Cfg.Catalog.QuickAddQty
	}
	return cart.DefaultQuickAddQty
}

// lookupProduct finds id in the catalog, then among the session's displayed
// products, then upstream. Search results may hold products the catalog
// never loaded.
func (a *App) lookupProduct(ctx context.Context, s state.AppState, id string) (model.Product, bool) {
	if id == "" {
		return model.Product{}, false
	}
	if p, ok := a.Catalog.Get(id); ok {
		return p, true
	}
	for _, p := range s.Displayed {
		if p.ID == id {
			return p, true
		}
	}
	if a.API == nil {
		return model.Product{}, false
	}
	p, err := a.API.GetProduct(ctx, id)
	if err != nil {
		obs.Logger.Debug("product_lookup_failed", zap.String("id", id), zap.Error(err))
		return model.Product{}, false
	}
	return p, true
}

// savedProducts resolves the session's watchlist in saved order, skipping ids
// that can no longer be found.
func (a *App) savedProducts(ctx context.Context, s state.AppState) []model.Product {
	out := make([]model.Product, 0, len(s.Saved))
	for _, id := range s.Saved {
		if p, ok := a.lookupProduct(ctx, s, id); ok {
			out = append(out, p)
		}
	}
	return out
}
