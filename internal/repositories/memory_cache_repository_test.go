package repositories

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheSetGet(t *testing.T) {
	cache := NewMemoryCacheRepository()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "key", "value", 0))

	val, err := cache.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "value", val)

	_, err = cache.Get(ctx, "missing")
	assert.ErrorIs(t, err, redis.Nil)
}

func TestMemoryCacheSetNX(t *testing.T) {
	cache := NewMemoryCacheRepository()
	ctx := context.Background()

	ok, err := cache.SetNX(ctx, "lock", "1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = cache.SetNX(ctx, "lock", "2", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	val, err := cache.Get(ctx, "lock")
	require.NoError(t, err)
	assert.Equal(t, "1", val)
}

func TestMemoryCacheSetNXConcurrent(t *testing.T) {
	cache := NewMemoryCacheRepository()
	ctx := context.Background()

	const attempts = 16
	acquired := make(chan bool, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := cache.SetNX(ctx, "lock", "1", time.Minute)
			require.NoError(t, err)
			acquired <- ok
		}()
	}
	wg.Wait()
	close(acquired)

	winners := 0
	for ok := range acquired {
		if ok {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
}

func TestMemoryCacheExpiry(t *testing.T) {
	cache := NewMemoryCacheRepository()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "key", "value", 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	_, err := cache.Get(ctx, "key")
	assert.ErrorIs(t, err, redis.Nil)

	// Просроченный ключ снова доступен для SetNX.
	ok, err := cache.SetNX(ctx, "key", "fresh", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryCacheDel(t *testing.T) {
	cache := NewMemoryCacheRepository()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", "1", 0))
	require.NoError(t, cache.Set(ctx, "b", "2", 0))
	require.NoError(t, cache.Del(ctx, "a", "b"))

	_, err := cache.Get(ctx, "a")
	assert.ErrorIs(t, err, redis.Nil)
}
