package uc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sync"
	"time"

	"github.com/fivetwenty-io/uc-client/internal/constants"
)

// Cache stores raw response bodies keyed by request.
type Cache interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Set(ctx context.Context, key string, entry *CacheEntry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Has(ctx context.Context, key string) bool
}

// CacheEntry is a cached response body.
type CacheEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
	ETag      string    `json:"etag,omitempty"`
}

// Expired reports whether the entry is past its expiry time.
func (e *CacheEntry) Expired() bool {
	return !e.ExpiresAt.IsZero() && time.Now().After(e.ExpiresAt)
}

// CacheOptions are settings shared by every cache backend.
type CacheOptions struct {
	// TTL is how long responses are cached.
	TTL time.Duration
	// MaxSize bounds the number of entries where the backend supports it.
	MaxSize int
	// EnableETags stores the ETag header alongside cached bodies.
	EnableETags bool
}

// DefaultCacheOptions returns the default cache options.
func DefaultCacheOptions() *CacheOptions {
	return &CacheOptions{
		TTL:         constants.DefaultCacheTTL,
		MaxSize:     constants.DefaultCacheSize,
		EnableETags: true,
	}
}

// CacheKey builds the cache key for a request. Query parameters are encoded
// in sorted order so equivalent requests share a key.
func CacheKey(method, path string, query url.Values) string {
	key := method + ":" + path
	if len(query) > 0 {
		key += "?" + query.Encode()
	}

	return key
}

// ScopedCacheKey prefixes CacheKey with scope, normally the service base URL
// and the caller's principal. Clients sharing a cache backend only see
// entries written under the same scope.
func ScopedCacheKey(scope, method, path string, query url.Values) string {
	if scope == "" {
		return CacheKey(method, path, query)
	}

	return scope + " " + CacheKey(method, path, query)
}

// hashedCacheKey maps an arbitrary cache key to a token safe for backends
// with a restricted key alphabet.
func hashedCacheKey(key string) string {
	sum := sha256.Sum256([]byte(key))

	return hex.EncodeToString(sum[:])
}

// MemoryCache is an in-process cache bounded by entry count.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*CacheEntry
	maxSize int
}

// NewMemoryCache creates a memory cache holding at most maxSize entries.
// A non-positive maxSize uses the default size.
func NewMemoryCache(maxSize int) *MemoryCache {
	if maxSize <= 0 {
		maxSize = constants.DefaultCacheSize
	}

	return &MemoryCache{
		entries: make(map[string]*CacheEntry),
		maxSize: maxSize,
	}
}

// Get returns a copy of the entry stored under key.
func (c *MemoryCache) Get(_ context.Context, key string) (*CacheEntry, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, ErrCacheKeyNotFound
	}

	if entry.Expired() {
		c.deleteIfSame(key, entry)

		return nil, ErrCacheEntryExpired
	}

	out := *entry

	return &out, nil
}

// deleteIfSame removes key only while it still maps to entry, so a Set that
// raced with an expired read is kept.
func (c *MemoryCache) deleteIfSame(key string, entry *CacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entries[key] == entry {
		delete(c.entries, key)
	}
}

// Set stores a copy of entry, evicting the entry closest to expiry when the
// cache is full.
func (c *MemoryCache) Set(_ context.Context, key string, entry *CacheEntry) error {
	stored := *entry

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evictLocked()
	}

	c.entries[key] = &stored

	return nil
}

// Delete removes the entry stored under key.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()

	return nil
}

// Clear removes every entry.
func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]*CacheEntry)
	c.mu.Unlock()

	return nil
}

// Has reports whether an unexpired entry is stored under key.
func (c *MemoryCache) Has(_ context.Context, key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]

	return ok && !entry.Expired()
}

// Cleanup removes expired entries.
func (c *MemoryCache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		if entry.Expired() {
			delete(c.entries, key)
		}
	}
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

func (c *MemoryCache) evictLocked() {
	var (
		victim string
		oldest time.Time
		found  bool
	)

	for key, entry := range c.entries {
		if entry.Expired() {
			delete(c.entries, key)

			return
		}

		if !found || entry.ExpiresAt.Before(oldest) {
			victim, oldest, found = key, entry.ExpiresAt, true
		}
	}

	if found {
		delete(c.entries, victim)
	}
}
