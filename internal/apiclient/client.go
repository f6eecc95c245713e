// Package apiclient is the typed client for the external storefront API:
// catalog, AI search and chat, checkout sessions and contact details.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/fairyhunter13/cryzo-storefront/internal/obs"
	"github.com/fairyhunter13/cryzo-storefront/internal/respcache"
)

// DefaultTimeout bounds a single request when no client is supplied.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of an error response is kept for logging.
const maxErrorBody = 512

// RetryPolicy controls retries of retryable failures. Attempts counts every
// try including the first, so the zero value and 1 both mean no retry.
type RetryPolicy struct {
	Attempts        int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// NoRetry performs exactly one attempt.
var NoRetry = RetryPolicy{Attempts: 1}

func (p RetryPolicy) run(ctx context.Context, op string, fn func() error) error {
	if p.Attempts <= 1 {
		return fn()
	}
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := fn()
		if err != nil && !IsRetryable(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(p.Attempts)),
		backoff.WithNotify(func(err error, next time.Duration) {
			obs.Logger.Warn("api_retry", zap.String("op", op), zap.Duration("next", next), zap.Error(err))
		}),
	)
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return perm.Unwrap()
	}
	return err
}

// Client talks to the storefront API.
type Client struct {
	baseURL string
	http    *http.Client
	cache   respcache.Cache
	retry   RetryPolicy
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the traced default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithCache enables caching of AI search and chat responses.
func WithCache(cache respcache.Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithRetry sets the retry policy applied to every call.
func WithRetry(p RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

// New returns a client rooted at baseURL, e.g. http://localhost:3001/api.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		retry: NoRetry,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CacheStats exposes the response cache counters, if a cache is configured.
func (c *Client) CacheStats() (respcache.Stats, bool) {
	if c.cache == nil {
		return respcache.Stats{}, false
	}
	return c.cache.Stats(), true
}

// doJSON sends one request and decodes a 2xx JSON body into out. The raw body
// is returned for caching.
func (c *Client) doJSON(ctx context.Context, op, method, path string, in, out any) ([]byte, error) {
	var raw []byte
	err := c.retry.run(ctx, op, func() error {
		var err error
		raw, err = c.once(ctx, op, method, path, in, out)
		return err
	})
	return raw, err
}

func (c *Client) once(ctx context.Context, op, method, path string, in, out any) ([]byte, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, &Error{Op: op, Kind: Fatal, Err: errors.Wrap(err, "encode request")}
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, &Error{Op: op, Kind: Fatal, Err: errors.Wrap(err, "build request")}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Op: op, Kind: classifyTransport(err), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Op: op, Kind: Retryable, Status: resp.StatusCode, Err: errors.Wrap(err, "read body")}
	}
	if kind := classifyStatus(resp.StatusCode); kind != Success {
		snippet := raw
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, &Error{Op: op, Kind: kind, Status: resp.StatusCode, Err: errors.Errorf("%s: %s", resp.Status, bytes.TrimSpace(snippet))}
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return nil, &Error{Op: op, Kind: Fatal, Status: resp.StatusCode, Err: errors.Wrap(err, "decode response")}
		}
	}
	return raw, nil
}

func (c *Client) cached(ctx context.Context, key string, out any) bool {
	if c.cache == nil {
		return false
	}
	raw, ok := c.cache.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		obs.Logger.Warn("cache_entry_corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *Client) store(ctx context.Context, key string, raw []byte) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, key, raw); err != nil {
		obs.Logger.Warn("cache_set_failed", zap.String("key", key), zap.Error(err))
	}
}
