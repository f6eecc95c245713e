package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/fairyhunter13/cryzo-storefront/internal/apiclient"
	"github.com/fairyhunter13/cryzo-storefront/internal/catalog"
	"github.com/fairyhunter13/cryzo-storefront/internal/config"
	httpapi "github.com/fairyhunter13/cryzo-storefront/internal/http"
	"github.com/fairyhunter13/cryzo-storefront/internal/identity"
	"github.com/fairyhunter13/cryzo-storefront/internal/obs"
	"github.com/fairyhunter13/cryzo-storefront/internal/respcache"
	"github.com/fairyhunter13/cryzo-storefront/internal/store"
)

const remoteCatalog = `{"products":[
  {"_id":"r1","brand":"Apple","model":"iPhone 15 Pro","storage":"256GB","retailPrice":610,"quantity":40,"phoneOrigin":"JP",
   "variations":[{"storage":"256GB","grade":"A","color":"Blue","price":610,"stock":20,"origin":"JP"},
                 {"storage":"512GB","grade":"A","color":"Blue","price":700,"stock":3,"origin":"JP"}]},
  {"_id":"r2","brand":"Samsung","model":"Galaxy S24","storage":"128GB","retailPrice":300,"quantity":12}
]}`

// upstream fails the first catalog request to exercise the retry policy.
func upstream(t *testing.T) (*httptest.Server, *atomic.Int32, *atomic.Int32) {
	t.Helper()
	var catalogCalls, searchCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		if catalogCalls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(remoteCatalog))
	})
	mux.HandleFunc("POST /search", func(w http.ResponseWriter, r *http.Request) {
		searchCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"query":"samsung","model":"Flash","products":[{"_id":"r2","brand":"Samsung","model":"Galaxy S24","retailPrice":300,"quantity":12}]}`))
	})
	mux.HandleFunc("POST /checkout", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"url":"https://pay.example/s/42"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &catalogCalls, &searchCalls
}

type client struct {
	t    *testing.T
	base string
	sid  string
}

func (c *client) call(method, path, body string, out any) int {
	c.t.Helper()
	var rdr *bytes.Reader
	if body != "" {
		rdr = bytes.NewReader([]byte(body))
	} else {
		rdr = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, c.base+path, rdr)
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.sid != "" {
		req.Header.Set(httpapi.SessionHeader, c.sid)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if c.sid == "" {
		c.sid = resp.Header.Get(httpapi.SessionHeader)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func TestIntegration_ShopperJourney(t *testing.T) {
	cfg := config.Load()
	obs.InitLogger()
	up, catalogCalls, searchCalls := upstream(t)

	mr := miniredis.RunT(t)
	cache, err := respcache.Dial(context.Background(), "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("dial cache: %v", err)
	}
	defer cache.Close()

	api := apiclient.New(up.URL,
		apiclient.WithCache(cache),
		apiclient.WithRetry(apiclient.RetryPolicy{Attempts: 3, InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond}),
	)
	cat := catalog.NewStore()
	src, err := catalog.Loader{Fetcher: api, Timeout: 2 * time.Second}.Load(context.Background(), cat)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if src != catalog.SourceRemote || cat.Len() != 2 || catalogCalls.Load() != 2 {
		t.Fatalf("expected remote catalog after one retry, src=%s len=%d calls=%d", src, cat.Len(), catalogCalls.Load())
	}

	app := httpapi.NewApp(cfg, cat, store.New(), api, identity.NewMemoryProvider())
	srv := httptest.NewServer(httpapi.NewRouter(app))
	defer srv.Close()
	c := &client{t: t, base: srv.URL}

	var detail struct {
		Price float64 `json:"price"`
		Match string  `json:"match"`
	}
	if code := c.call(http.MethodGet, "/products/r1?storage=512GB", "", &detail); code != http.StatusOK {
		t.Fatalf("detail: %d", code)
	}
	if detail.Price != 700 || detail.Match != "exact" {
		t.Fatalf("unexpected detail %+v", detail)
	}
	if c.sid == "" {
		t.Fatalf("expected a session id from the server")
	}

	var res struct {
		Source string `json:"source"`
		Cached bool   `json:"cached"`
		Total  int    `json:"total"`
	}
	c.call(http.MethodPost, "/search", `{"query":"samsung"}`, &res)
	c.call(http.MethodPost, "/search", `{"query":"Samsung"}`, &res)
	if res.Source != "ai" || !res.Cached || res.Total != 1 || searchCalls.Load() != 1 {
		t.Fatalf("expected cached ai search, got %+v calls=%d", res, searchCalls.Load())
	}
	if keys := mr.Keys(); len(keys) != 1 {
		t.Fatalf("expected one cached entry in redis, got %v", keys)
	}

	var sum struct {
		Summary struct {
			Units       int  `json:"units"`
			CanCheckout bool `json:"can_checkout"`
		} `json:"summary"`
	}
	c.call(http.MethodPost, "/cart/items", `{"product_id":"r2","quantity":9}`, &sum)
	if sum.Summary.CanCheckout {
		t.Fatalf("9 units must not pass the MOQ")
	}
	if code := c.call(http.MethodPost, "/checkout", "", nil); code != http.StatusConflict {
		t.Fatalf("expected blocked checkout, got %d", code)
	}
	c.call(http.MethodPatch, "/cart/items/r2", `{"delta":1}`, &sum)
	if sum.Summary.Units != 10 || !sum.Summary.CanCheckout {
		t.Fatalf("expected checkout-ready cart: %+v", sum.Summary)
	}

	if code := c.call(http.MethodPost, "/auth/signup", `{"email":"shop@example.com","password":"hunter22"}`, nil); code != http.StatusCreated {
		t.Fatalf("signup: %d", code)
	}
	var out struct {
		URL string `json:"url"`
	}
	if code := c.call(http.MethodPost, "/checkout", "", &out); code != http.StatusOK || out.URL != "https://pay.example/s/42" {
		t.Fatalf("checkout: %d %+v", code, out)
	}
}

func TestIntegration_FallbackCatalogWhenUpstreamDown(t *testing.T) {
	cfg := config.Load()
	obs.InitLogger()
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer down.Close()

	api := apiclient.New(down.URL, apiclient.WithCache(respcache.NewMemory()))
	cat := catalog.NewStore()
	src, err := catalog.Loader{Fetcher: api}.Load(context.Background(), cat)
	if err != nil || src != catalog.SourceFallback {
		t.Fatalf("expected fallback catalog, got %s %v", src, err)
	}

	app := httpapi.NewApp(cfg, cat, store.New(), api, identity.NewMemoryProvider())
	srv := httptest.NewServer(httpapi.NewRouter(app))
	defer srv.Close()
	c := &client{t: t, base: srv.URL}

	var res struct {
		Source   string `json:"source"`
		Fallback bool   `json:"fallback"`
		Total    int    `json:"total"`
	}
	c.call(http.MethodPost, "/search", `{"query":"pro max"}`, &res)
	if res.Source != "local" || !res.Fallback || res.Total != 1 {
		t.Fatalf("expected local fallback search, got %+v", res)
	}

	var health map[string]string
	c.call(http.MethodGet, "/healthz", "", &health)
	if health["catalog_source"] != "fallback" {
		t.Fatalf("unexpected health %+v", health)
	}
}
