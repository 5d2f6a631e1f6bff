package uc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_ExpiredDeleteKeepsFreshSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := NewMemoryCache(10)

	require.NoError(t, cache.Set(ctx, "key", &CacheEntry{Data: []byte("old"), ExpiresAt: time.Now().Add(-time.Minute)}))

	cache.mu.RLock()
	stale := cache.entries["key"]
	cache.mu.RUnlock()

	// A writer stores a fresh entry between the expired read and the delete.
	require.NoError(t, cache.Set(ctx, "key", &CacheEntry{Data: []byte("new"), ExpiresAt: time.Now().Add(time.Minute)}))

	cache.deleteIfSame("key", stale)

	entry, err := cache.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), entry.Data)

	cache.mu.RLock()
	current := cache.entries["key"]
	cache.mu.RUnlock()

	cache.deleteIfSame("key", current)
	assert.False(t, cache.Has(ctx, "key"))
}
