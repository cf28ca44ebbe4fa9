package cache

import (
	"context"
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
)

func TestTTLCacheGetSet(t *testing.T) {
	ctx := context.Background()
	c := NewTTLCache(10)

	_, ok, err := c.GetBytes(ctx, "missing")
	assert.NoError(t, err)
	assert.False(t, ok)

	value := []byte(`[1,2]`)
	assert.NoError(t, c.SetBytes(ctx, "k", value, time.Minute))
	value[0] = 'x'

	got, ok, err := c.GetBytes(ctx, "k")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[1,2]`, string(got))
}

func TestTTLCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewTTLCache(10)
	c.now = func() time.Time { return now }

	assert.NoError(t, c.SetBytes(ctx, "short", []byte("a"), time.Second))
	assert.NoError(t, c.SetBytes(ctx, "forever", []byte("b"), 0))

	now = now.Add(2 * time.Second)
	_, ok, _ := c.GetBytes(ctx, "short")
	assert.False(t, ok)
	_, ok, _ = c.GetBytes(ctx, "forever")
	assert.True(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestTTLCacheBounded(t *testing.T) {
	ctx := context.Background()
	c := NewTTLCache(2)

	assert.NoError(t, c.SetBytes(ctx, "a", []byte("1"), 0))
	assert.NoError(t, c.SetBytes(ctx, "b", []byte("2"), 0))
	assert.NoError(t, c.SetBytes(ctx, "a", []byte("3"), 0))
	assert.Equal(t, 2, c.Len())

	assert.NoError(t, c.SetBytes(ctx, "c", []byte("4"), 0))
	assert.Equal(t, 1, c.Len())
	got, ok, _ := c.GetBytes(ctx, "c")
	assert.True(t, ok)
	assert.Equal(t, "4", string(got))
}

func TestRedisCacheKeyPrefix(t *testing.T) {
	r := NewRedisCacheFromClient(nil, "")
	assert.Equal(t, "cryptobasket:predict:basket::7:0", r.key("predict:basket::7:0"))
}
