// Package respcache caches AI search and chat responses for a short TTL so
// repeated queries do not hit the upstream model.
package respcache

import (
	"context"
	"strings"
	"time"
)

// DefaultTTL is how long a cached response stays valid.
const DefaultTTL = 5 * time.Minute

// Namespaces keep search and chat entries apart.
const (
	NamespaceSearch = "search:"
	NamespaceChat   = "chat:"
)

// Cache stores opaque response bodies by key.
type Cache interface {
	// Get returns the cached value and true on a hit.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set stores value under key for the cache's TTL.
	Set(ctx context.Context, key string, value []byte) error
	// Stats returns hit/miss counters for monitoring.
	Stats() Stats
}

// Stats reports cache effectiveness.
type Stats struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	Entries int64   `json:"entries,omitempty"`
	HitRate float64 `json:"hit_rate"`
}

func newStats(hits, misses, entries int64) Stats {
	s := Stats{Hits: hits, Misses: misses, Entries: entries}
	if total := hits + misses; total > 0 {
		s.HitRate = float64(hits) / float64(total)
	}
	return s
}

// Key builds a cache key from a namespace and free-text input. Input is
// trimmed and lower-cased so "  iPhone " and "iphone" share an entry.
func Key(namespace, input string) string {
	return namespace + strings.ToLower(strings.TrimSpace(input))
}

// Option customizes a cache.
type Option func(*options)

type options struct {
	ttl    time.Duration
	prefix string
	now    func() time.Time
}

func defaultOptions() options {
	return options{ttl: DefaultTTL, prefix: "storefront:cache:", now: time.Now}
}

// WithTTL overrides DefaultTTL. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithPrefix sets the Redis key prefix.
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithClock replaces the time source of the in-memory cache.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}
