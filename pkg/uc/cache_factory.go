package uc

import (
	"context"
	"fmt"
	"time"
)

// CacheType represents the type of cache backend.
type CacheType string

const (
	// CacheTypeMemory represents in-memory cache.
	CacheTypeMemory CacheType = "memory"

	// CacheTypeNATS represents NATS KV cache.
	CacheTypeNATS CacheType = "nats"

	// CacheTypeNone represents no caching.
	CacheTypeNone CacheType = "none"
)

// CacheConfig configures the response cache.
type CacheConfig struct {
	// Type is the cache backend type.
	Type CacheType `json:"type" mapstructure:"type" yaml:"type"`

	// MaxSize bounds the memory cache.
	MaxSize int `json:"max_size,omitempty" mapstructure:"max_size" yaml:"max_size,omitempty"`

	// NATS configures the NATS KV backend.
	NATS *NATSKVConfig `json:"nats,omitempty" mapstructure:"nats" yaml:"nats,omitempty"`

	// Options applies to any backend. If nil, DefaultCacheOptions() is used.
	Options *CacheOptions `json:"-" mapstructure:"-" yaml:"-"`
}

// TTL returns the configured entry lifetime.
func (c *CacheConfig) TTL() time.Duration {
	if c == nil || c.Options == nil || c.Options.TTL <= 0 {
		return DefaultCacheOptions().TTL
	}

	return c.Options.TTL
}

// NewCacheFromConfig creates a cache backend from configuration. A nil
// config creates a default memory cache.
func NewCacheFromConfig(ctx context.Context, config *CacheConfig) (Cache, error) {
	if config == nil {
		return NewMemoryCache(DefaultCacheOptions().MaxSize), nil
	}

	switch config.Type {
	case CacheTypeMemory, "":
		return NewMemoryCache(config.MaxSize), nil

	case CacheTypeNATS:
		if config.NATS == nil {
			return nil, ErrNATSConfigRequired
		}

		return NewNATSKVCache(ctx, config.NATS)

	case CacheTypeNone:
		return NewNoOpCache(), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCacheType, config.Type)
	}
}

// NoOpCache is a cache that stores nothing.
type NoOpCache struct{}

// NewNoOpCache creates a new no-op cache.
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// Get always fails with ErrCacheDisabled.
func (c *NoOpCache) Get(context.Context, string) (*CacheEntry, error) {
	return nil, ErrCacheDisabled
}

// Set does nothing.
func (c *NoOpCache) Set(context.Context, string, *CacheEntry) error { return nil }

// Delete does nothing.
func (c *NoOpCache) Delete(context.Context, string) error { return nil }

// Clear does nothing.
func (c *NoOpCache) Clear(context.Context) error { return nil }

// Has always returns false.
func (c *NoOpCache) Has(context.Context, string) bool { return false }

// CacheChain layers caches, fastest first. Hits in a later layer are copied
// into the earlier ones.
type CacheChain struct {
	caches []Cache
}

// NewCacheChain creates a new cache chain.
func NewCacheChain(caches ...Cache) *CacheChain {
	return &CacheChain{caches: caches}
}

// Get returns the entry from the first layer that has it.
func (c *CacheChain) Get(ctx context.Context, key string) (*CacheEntry, error) {
	for i, cache := range c.caches {
		entry, err := cache.Get(ctx, key)
		if err != nil {
			continue
		}

		for _, earlier := range c.caches[:i] {
			_ = earlier.Set(ctx, key, entry)
		}

		return entry, nil
	}

	return nil, ErrKeyNotFoundInAnyCache
}

// Set stores the entry in every layer and returns the last failure.
func (c *CacheChain) Set(ctx context.Context, key string, entry *CacheEntry) error {
	return c.each(func(cache Cache) error { return cache.Set(ctx, key, entry) })
}

// Delete removes the entry from every layer.
func (c *CacheChain) Delete(ctx context.Context, key string) error {
	return c.each(func(cache Cache) error { return cache.Delete(ctx, key) })
}

// Clear empties every layer.
func (c *CacheChain) Clear(ctx context.Context) error {
	return c.each(func(cache Cache) error { return cache.Clear(ctx) })
}

// Has checks if a key exists in any layer.
func (c *CacheChain) Has(ctx context.Context, key string) bool {
	for _, cache := range c.caches {
		if cache.Has(ctx, key) {
			return true
		}
	}

	return false
}

func (c *CacheChain) each(fn func(Cache) error) error {
	var lastErr error

	for _, cache := range c.caches {
		if err := fn(cache); err != nil {
			lastErr = err
		}
	}

	return lastErr
}
