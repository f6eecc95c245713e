package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/cryzo-storefront/internal/cart"
	"github.com/fairyhunter13/cryzo-storefront/internal/catalog"
	"github.com/fairyhunter13/cryzo-storefront/internal/respcache"
	"github.com/fairyhunter13/cryzo-storefront/internal/search"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestClassifyStatus(t *testing.T) {
	cases := map[int]Kind{
		200: Success,
		204: Success,
		400: Fatal,
		401: Fatal,
		404: Fatal,
		408: Retryable,
		429: Retryable,
		500: Retryable,
		503: Retryable,
	}
	for status, want := range cases {
		assert.Equal(t, want, classifyStatus(status), "status %d", status)
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, Success, KindOf(nil))
	assert.Equal(t, Fatal, KindOf(errors.New("boom")))
	assert.Equal(t, Retryable, KindOf(context.DeadlineExceeded))
	assert.Equal(t, Fatal, KindOf(context.Canceled))
	assert.Equal(t, Retryable, KindOf(&Error{Op: "x", Kind: Retryable, Err: errors.New("503")}))
}

func TestFetchProductsNormalizes(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products", r.URL.Path)
		writeJSON(w, 200, map[string]any{
			"products": []map[string]any{
				{"_id": "p1", "brand": "Apple", "model": "iPhone 15", "retailPrice": 500, "quantity": 9, "phoneOrigin": "JP"},
				{"brand": "NoID"},
			},
			"total": 2,
		})
	})
	c := New(srv.URL + "/api/")
	products, err := c.FetchProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, 500.0, products[0].PriceUSD)
	assert.Equal(t, int64(9), products[0].Stock)
	assert.Equal(t, "JP", products[0].Origin)
}

func TestFetchProductsServerError(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})
	_, err := New(srv.URL).FetchProducts(context.Background())
	require.Error(t, err)
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, Retryable, apiErr.Kind)
	assert.Equal(t, 503, apiErr.Status)
}

func TestNetworkErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	_, err := New(url).FetchProducts(context.Background())
	assert.Equal(t, Retryable, KindOf(err))
}

func TestDecodeErrorIsFatal(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	})
	_, err := New(srv.URL).FetchProducts(context.Background())
	assert.Equal(t, Fatal, KindOf(err))
}

func TestGetProduct(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products/p1":
			writeJSON(w, 200, map[string]any{"id": "p1", "priceUsd": 10})
		default:
			writeJSON(w, 404, map[string]any{"error": "not found"})
		}
	})
	c := New(srv.URL)
	p, err := c.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 10.0, p.PriceUSD)

	_, err = c.GetProduct(context.Background(), "nope")
	assert.Equal(t, Fatal, KindOf(err))
}

func TestQuickSearchEncodesFilters(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/quick", r.URL.Path)
		assert.Equal(t, "Apple", r.URL.Query().Get("brand"))
		assert.Equal(t, "900", r.URL.Query().Get("maxPrice"))
		assert.Empty(t, r.URL.Query().Get("grade"))
		writeJSON(w, 200, map[string]any{"products": []map[string]any{{"id": "a"}}, "total": 1})
	})
	products, err := New(srv.URL).QuickSearch(context.Background(), search.Filters{Brand: "Apple", MaxPrice: 900})
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestAISearchCachesSuccess(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		writeJSON(w, 200, map[string]any{
			"success":    true,
			"query":      req.Query,
			"model":      "Flash",
			"message":    "Found 1",
			"suggestion": "try 256GB",
			"products":   []map[string]any{{"_id": "p1", "model": "iPhone 15"}},
			"filters":    map[string]any{"brand": "Apple", "grade": nil, "maxPrice": 800},
		})
	})
	c := New(srv.URL, WithCache(respcache.NewMemory()))
	ctx := context.Background()

	first, err := c.AISearch(ctx, "iPhone 15", "")
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, "Found 1", first.Message)
	require.Len(t, first.Products, 1)
	f := first.Filters.Filters()
	assert.Equal(t, search.Filters{Brand: "Apple", MaxPrice: 800}, f)

	second, err := c.AISearch(ctx, "  IPHONE 15 ", "")
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Products, second.Products)
	assert.Equal(t, int32(1), calls.Load())

	st, ok := c.CacheStats()
	require.True(t, ok)
	assert.Equal(t, int64(1), st.Hits)
}

func TestAISearchSendsImageAndSkipsCache(t *testing.T) {
	var images []string
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		images = append(images, req.Image)
		writeJSON(w, 200, map[string]any{"success": true, "query": req.Query, "products": []map[string]any{{"_id": "p1"}}})
	})
	c := New(srv.URL, WithCache(respcache.NewMemory()))
	for i := 0; i < 2; i++ {
		res, err := c.AISearch(context.Background(), "this phone", "data:image/png;base64,AAAA")
		require.NoError(t, err)
		assert.False(t, res.Cached)
	}
	assert.Equal(t, []string{"data:image/png;base64,AAAA", "data:image/png;base64,AAAA"}, images)
}

func TestAISearchUnsuccessfulIsNotCached(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, 200, map[string]any{"success": false, "error": "quota"})
	})
	c := New(srv.URL, WithCache(respcache.NewMemory()))
	for i := 0; i < 2; i++ {
		_, err := c.AISearch(context.Background(), "q", "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnsuccessful))
		assert.Equal(t, Fatal, KindOf(err))
	}
	assert.Equal(t, int32(2), calls.Load())
}

func TestChatCaches(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, 200, ChatReply{Success: true, Response: "We ship worldwide", Intent: "question"})
	})
	c := New(srv.URL, WithCache(respcache.NewMemory()))
	for i := 0; i < 3; i++ {
		reply, err := c.Chat(context.Background(), "Do you ship?")
		require.NoError(t, err)
		assert.Equal(t, "We ship worldwide", reply.Response)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestCreateCheckout(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req checkoutRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if len(req.Items) == 0 {
			writeJSON(w, 200, checkoutResponse{Success: false, Error: "no items"})
			return
		}
		assert.Equal(t, "buyer@example.com", req.CustomerEmail)
		assert.Equal(t, 835.0, req.Items[0].PriceUSD)
		writeJSON(w, 200, checkoutResponse{Success: true, URL: "https://pay.example/s/1"})
	})
	c := New(srv.URL)
	u, err := c.CreateCheckout(context.Background(), []cart.CheckoutLine{{Brand: "Apple", PriceUSD: 835, Quantity: 10}}, "buyer@example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/s/1", u)

	_, err = c.CreateCheckout(context.Background(), nil, "")
	assert.True(t, errors.Is(err, ErrUnsuccessful))
}

func TestContactInfoFallback(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	assert.Equal(t, DefaultContact, New(srv.URL).ContactInfo(context.Background()))

	ok := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, Contact{Email: "x@y.z", Phone: "1"})
	})
	assert.Equal(t, Contact{Email: "x@y.z", Phone: "1"}, New(ok.URL).ContactInfo(context.Background()))
}

func TestRetryPolicy(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusTooManyRequests)
			return
		}
		writeJSON(w, 200, map[string]any{"products": []any{}, "total": 0})
	})
	policy := RetryPolicy{Attempts: 3, InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond}
	_, err := New(srv.URL, WithRetry(policy)).FetchProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRetryStopsOnFatal(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad", http.StatusBadRequest)
	})
	policy := RetryPolicy{Attempts: 5, InitialInterval: time.Millisecond}
	_, err := New(srv.URL, WithRetry(policy)).FetchProducts(context.Background())
	require.Error(t, err)
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDefaultPolicyDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusBadGateway)
	})
	_, err := New(srv.URL).FetchProducts(context.Background())
	assert.Equal(t, Retryable, KindOf(err))
	assert.Equal(t, int32(1), calls.Load())
}

var _ catalog.Fetcher = (*Client)(nil)
