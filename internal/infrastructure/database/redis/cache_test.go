package redis

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SME-Diagnostics/pkg/errors"
)

type cachedDoc struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

func newTestCache(t *testing.T) (Cache, *Client) {
	t.Helper()
	client, _ := newTestClient(t)
	return NewRedisCache(client, logging.NewNopLogger(), WithPrefix("test:")), client
}

func TestCache_SetGetRoundTrip(t *testing.T) {
	cache, client := newTestCache(t)
	ctx := context.Background()

	want := cachedDoc{Name: "Zambezi Agro Supplies", Score: 82}
	require.NoError(t, cache.Set(ctx, "doc:1", want, time.Minute))

	var got cachedDoc
	require.NoError(t, cache.Get(ctx, "doc:1", &got))
	assert.Equal(t, want, got)

	// Keys are namespaced under the prefix.
	n, err := client.Exists(ctx, "test:doc:1").Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestCache_GetMiss(t *testing.T) {
	cache, _ := newTestCache(t)

	var got cachedDoc
	err := cache.Get(context.Background(), "absent", &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCache_Delete(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "doc:1", cachedDoc{}, time.Minute))
	require.NoError(t, cache.Delete(ctx, "doc:1"))

	exists, err := cache.Exists(ctx, "doc:1")
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting nothing is fine.
	assert.NoError(t, cache.Delete(ctx))
}

func TestCache_GetOrSet_LoadsOncePerKey(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	var calls int32
	loader := func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return cachedDoc{Name: "loaded", Score: 7}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var got cachedDoc
			if err := cache.GetOrSet(ctx, "doc:load", &got, time.Minute, loader); err == nil {
				assert.Equal(t, "loaded", got.Name)
			}
		}()
	}
	wg.Wait()

	// Subsequent call hits the cache, not the loader.
	var got cachedDoc
	require.NoError(t, cache.GetOrSet(ctx, "doc:load", &got, time.Minute, loader))
	assert.Equal(t, 7, got.Score)
	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(8))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(1))
}

func TestCache_GetOrSet_NegativeCaching(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	var calls int
	loader := func(ctx context.Context) (interface{}, error) {
		calls++
		return nil, nil
	}

	var got cachedDoc
	assert.ErrorIs(t, cache.GetOrSet(ctx, "doc:null", &got, time.Minute, loader), ErrCacheMiss)
	// The null sentinel short-circuits the second lookup before the loader.
	assert.ErrorIs(t, cache.GetOrSet(ctx, "doc:null", &got, time.Minute, loader), ErrCacheMiss)
	assert.Equal(t, 1, calls)
}

func TestCache_GetOrSet_LoaderError(t *testing.T) {
	cache, _ := newTestCache(t)

	var got cachedDoc
	err := cache.GetOrSet(context.Background(), "doc:err", &got, time.Minute,
		func(ctx context.Context) (interface{}, error) {
			return nil, errors.Internal("upstream broke")
		})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInternal))
}

func TestCache_DeleteByPrefix(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "diag:biz-1:aaa", cachedDoc{}, time.Minute))
	require.NoError(t, cache.Set(ctx, "diag:biz-1:bbb", cachedDoc{}, time.Minute))
	require.NoError(t, cache.Set(ctx, "diag:biz-2:ccc", cachedDoc{}, time.Minute))

	deleted, err := cache.DeleteByPrefix(ctx, "diag:biz-1:")
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	exists, err := cache.Exists(ctx, "diag:biz-2:ccc")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestJitterTTL_StaysWithinTenPercent(t *testing.T) {
	c := &redisCache{}
	base := 10 * time.Minute
	for i := 0; i < 100; i++ {
		got := c.jitterTTL(base)
		assert.GreaterOrEqual(t, got, 9*time.Minute)
		assert.LessOrEqual(t, got, 11*time.Minute)
	}
	assert.Equal(t, time.Duration(0), c.jitterTTL(0))
}

//Personal.AI order the ending
