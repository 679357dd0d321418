// Package cache provides a TTL and schema-versioned cache over a pluggable
// key-value storage. Every storage failure degrades to a miss or a no-op.
package cache

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	// SchemaVersion is stamped on every entry. Entries written under any
	// other version, older or newer, are treated as misses.
	SchemaVersion = 2

	// DefaultTTL is the lifetime of an entry when the caller has no opinion.
	DefaultTTL = 6 * time.Hour

	keyPrefix = "cache:"
)

// Storage is a flat key-value store.
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	// Keys returns every key starting with prefix.
	Keys(prefix string) ([]string, error)
}

// entry is the stored envelope around a cached value.
type entry struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
	TTL       int64           `json:"ttl"`
	Version   int             `json:"version"`
}

// Cache stores JSON-encoded values with a lifetime.
type Cache struct {
	store   Storage
	clock   clockwork.Clock
	version int
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock sets the clock used for timestamps and expiry.
func WithClock(c clockwork.Clock) Option {
	return func(cache *Cache) { cache.clock = c }
}

// WithSchemaVersion overrides the schema version stamped on entries.
func WithSchemaVersion(v int) Option {
	return func(cache *Cache) { cache.version = v }
}

// New creates a Cache over store.
func New(store Storage, opts ...Option) *Cache {
	c := &Cache{
		store:   store,
		clock:   clockwork.NewRealClock(),
		version: SchemaVersion,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value stored under key. It reports false when the entry
// is missing, expired, from another schema version, or unreadable.
func Get[T any](c *Cache, key string) (T, bool) {
	var zero T
	raw, ok := c.lookup(key)
	if !ok {
		return zero, false
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		c.Invalidate(key)
		return zero, false
	}
	return v, true
}

// Set stores value under key for ttl. A ttl of zero or less stores an entry
// that is already expired. Failures are ignored.
func Set[T any](c *Cache, key string, value T, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	e := entry{
		Data:      data,
		Timestamp: c.clock.Now().UnixMilli(),
		TTL:       ttl.Milliseconds(),
		Version:   c.version,
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return
	}
	_ = c.store.Set(keyPrefix+key, raw)
}

func (c *Cache) lookup(key string) (json.RawMessage, bool) {
	raw, err := c.store.Get(keyPrefix + key)
	if err != nil || raw == nil {
		return nil, false
	}
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		c.Invalidate(key)
		return nil, false
	}
	if e.Version != c.version {
		c.Invalidate(key)
		return nil, false
	}
	if c.clock.Now().UnixMilli()-e.Timestamp >= e.TTL {
		c.Invalidate(key)
		return nil, false
	}
	return e.Data, true
}

// Has reports whether a live entry exists under key.
func (c *Cache) Has(key string) bool {
	_, ok := c.lookup(key)
	return ok
}

// Invalidate removes the entry under key.
func (c *Cache) Invalidate(key string) {
	_ = c.store.Delete(keyPrefix + key)
}

// InvalidatePrefix removes every entry whose key starts with prefix and
// returns how many were removed.
func (c *Cache) InvalidatePrefix(prefix string) int {
	keys, err := c.store.Keys(keyPrefix + prefix)
	if err != nil {
		return 0
	}
	n := 0
	for _, k := range keys {
		if c.store.Delete(k) == nil {
			n++
		}
	}
	return n
}

// Clear removes every cache entry.
func (c *Cache) Clear() int {
	return c.InvalidatePrefix("")
}

// Keys lists the live and stale entry keys under prefix, without the
// internal namespace.
func (c *Cache) Keys(prefix string) []string {
	keys, err := c.store.Keys(keyPrefix + prefix)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, strings.TrimPrefix(k, keyPrefix))
	}
	return out
}
