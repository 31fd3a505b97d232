package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitStore_Allow(t *testing.T) {
	_, client := newTestClient(t)
	store := NewRateLimitStore(client)
	fixed := time.Date(2026, 3, 1, 12, 0, 10, 0, time.UTC)
	store.now = func() time.Time { return fixed }
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		result, err := store.Allow(ctx, "user-1:burn", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, result.Allowed, "request %d should be allowed", i)
		assert.Equal(t, 3-i, result.Remaining)
	}

	result, err := store.Allow(ctx, "user-1:burn", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, int64(0), result.Remaining)
	assert.Equal(t, fixed.Truncate(time.Minute).Add(time.Minute).Unix(), result.ResetAt)

	other, err := store.Allow(ctx, "user-2:burn", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, other.Allowed, "keys are isolated")
}

func TestRateLimitStore_NewWindowResets(t *testing.T) {
	_, client := newTestClient(t)
	store := NewRateLimitStore(client)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := store.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	blocked, err := store.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, blocked.Allowed)

	now = now.Add(time.Minute)
	fresh, err := store.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, fresh.Allowed)
}

func TestRateLimitStore_KeyExpires(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewRateLimitStore(client)
	_, err := store.Allow(context.Background(), "k", 10, time.Minute)
	require.NoError(t, err)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Greater(t, mr.TTL(keys[0]), time.Duration(0))
}

func TestRateLimitStore_RedisDown(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewRateLimitStore(client)
	mr.Close()

	_, err := store.Allow(context.Background(), "k", 10, time.Minute)
	assert.Error(t, err)
}
