package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	require.NoError(t, store.Set(ctx, Tag("p1", "healthPlans"), []byte("view"), 0))

	value, ok, err := store.Get(ctx, Tag("p1", "healthPlans"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("view"), value)
}

func TestMemoryInvalidateRemovesOnlyNamedTags(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	require.NoError(t, store.Set(ctx, Tag("p1", "healthPlans"), []byte("a"), 0))
	require.NoError(t, store.Set(ctx, Tag("p2", "healthPlans"), []byte("b"), 0))

	require.NoError(t, store.Invalidate(ctx, Tag("p1", "healthPlans")))

	_, ok, err := store.Get(ctx, Tag("p1", "healthPlans"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = store.Get(ctx, Tag("p2", "healthPlans"))
	require.NoError(t, err)
	assert.True(t, ok, "other tenants' views must survive invalidation")
}

func TestMemoryTTLExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	current := time.Now()
	store.now = func() time.Time { return current }

	require.NoError(t, store.Set(ctx, "tag", []byte("v"), time.Minute))

	current = current.Add(2 * time.Minute)
	_, ok, err := store.Get(ctx, "tag")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryExpiryEvictionKeepsConcurrentRefresh(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	current := time.Now()
	store.now = func() time.Time { return current }

	require.NoError(t, store.Set(ctx, "tag", []byte("stale"), time.Minute))
	current = current.Add(2 * time.Minute)

	// Simulate a Set racing the expiry path: the clock hook fires inside Get
	// after the read lock is released and before the eviction lock is taken.
	refreshed := false
	store.now = func() time.Time {
		if !refreshed {
			refreshed = true
			require.NoError(t, store.Set(ctx, "tag", []byte("fresh"), time.Minute))
		}
		return current
	}

	_, ok, err := store.Get(ctx, "tag")
	require.NoError(t, err)
	assert.False(t, ok, "the expired read itself is a miss")

	value, ok, err := store.Get(ctx, "tag")
	require.NoError(t, err)
	require.True(t, ok, "eviction must not discard an entry refreshed mid-flight")
	assert.Equal(t, []byte("fresh"), value)
}
