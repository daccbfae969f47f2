package cache_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopyard/storefront-api/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestNilClientIsNoOp(t *testing.T) {
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, nil, "products:list:", []string{"a"}, cache.DefaultTTL))

	var dest []string
	hit, err := cache.Get(ctx, nil, "products:list:", &dest)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, dest)

	require.NoError(t, cache.InvalidatePrefix(ctx, nil, "products:"))
}

func TestSetGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	rdb := newRedis(t)

	type entry struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}

	require.NoError(t, cache.Set(ctx, rdb, "products:id:1", entry{Name: "Laptop", Price: 1200}, cache.DefaultTTL))

	var got entry
	hit, err := cache.Get(ctx, rdb, "products:id:1", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "Laptop", got.Name)
	assert.InDelta(t, 1200, got.Price, 0.001)

	hit, err = cache.Get(ctx, rdb, "products:id:2", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestInvalidatePrefixDropsOnlyPrefix(t *testing.T) {
	ctx := context.Background()
	rdb := newRedis(t)

	require.NoError(t, cache.Set(ctx, rdb, "products:list:", []int{1}, cache.DefaultTTL))
	require.NoError(t, cache.Set(ctx, rdb, "products:id:1", 1, cache.DefaultTTL))
	require.NoError(t, cache.Set(ctx, rdb, "sessions:abc", 1, cache.DefaultTTL))

	require.NoError(t, cache.InvalidatePrefix(ctx, rdb, "products:"))

	var dest int
	hit, err := cache.Get(ctx, rdb, "products:id:1", &dest)
	require.NoError(t, err)
	assert.False(t, hit)

	var list []int
	hit, err = cache.Get(ctx, rdb, "products:list:", &list)
	require.NoError(t, err)
	assert.False(t, hit)

	hit, err = cache.Get(ctx, rdb, "sessions:abc", &dest)
	require.NoError(t, err)
	assert.True(t, hit)
}
