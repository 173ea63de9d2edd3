package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_Expiry(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "counterpart:u1", []byte(`{"name":"Sara"}`), 30*time.Second))

	value, ok, err := c.Get(ctx, "counterpart:u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"name":"Sara"}`, string(value))

	now = now.Add(30 * time.Second)
	_, ok, err = c.Get(ctx, "counterpart:u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCache_Delete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, c.Delete(ctx, "k"))

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_UnreachableServerIsAnError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := NewRedisCacheFromClient(client)
	defer c.Close()

	_, ok, err := c.Get(context.Background(), "missing")
	assert.Error(t, err)
	assert.False(t, ok)
}
