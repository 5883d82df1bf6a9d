package guru

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCachePutAndGet(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()

	snapshot := &Snapshot{OverallScore: 42.5, TimeEstimate: "6 meses"}
	require.NoError(t, cache.Put(ctx, 7, snapshot, time.Minute))

	got, err := cache.Get(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, *snapshot, *got)
}

func TestMemoryCacheMissReturnsNil(t *testing.T) {
	cache := NewMemoryCache()

	got, err := cache.Get(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryCacheExpiredEntryIsAMiss(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()

	require.NoError(t, cache.Put(ctx, 7, &Snapshot{OverallScore: 42.5}, -time.Minute))

	got, err := cache.Get(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()

	require.NoError(t, cache.Put(ctx, 7, &Snapshot{OverallScore: 42.5}, time.Minute))
	require.NoError(t, cache.Invalidate(ctx, 7))

	got, err := cache.Get(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryCacheInvalidateUnknownLearner(t *testing.T) {
	cache := NewMemoryCache()
	assert.NoError(t, cache.Invalidate(context.Background(), 12345))
}

func TestMemoryCacheReturnsACopy(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()

	require.NoError(t, cache.Put(ctx, 7, &Snapshot{OverallScore: 42.5}, time.Minute))

	first, err := cache.Get(ctx, 7)
	require.NoError(t, err)
	first.OverallScore = 0

	second, err := cache.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 42.5, second.OverallScore)
}
