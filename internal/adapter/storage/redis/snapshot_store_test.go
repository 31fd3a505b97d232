package redis

import (
	"context"
	"testing"
	"time"

	"stack-settlement/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotStore_SetGetDelete(t *testing.T) {
	_, client := newTestClient(t)
	store := NewSnapshotStore(client, 30*time.Second)
	ctx := context.Background()

	snap := domain.BalanceSnapshot{
		UserID:     "user-1",
		AmountRaw:  5_000_000_000_000,
		Decimals:   9,
		UIAmount:   5000,
		CapturedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, store.Set(ctx, snap))

	got, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, snap.AmountRaw, got.AmountRaw)
	assert.True(t, snap.CapturedAt.Equal(got.CapturedAt))

	require.NoError(t, store.Delete(ctx, "user-1"))
	got, err = store.Get(ctx, "user-1")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestSnapshotStore_ExpiresWithTTL(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewSnapshotStore(client, 30*time.Second)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, domain.BalanceSnapshot{UserID: "user-1", AmountRaw: 1, CapturedAt: time.Now()}))
	mr.FastForward(31 * time.Second)

	got, err := store.Get(ctx, "user-1")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestSnapshotStore_StaleByCaptureTime(t *testing.T) {
	_, client := newTestClient(t)
	store := NewSnapshotStore(client, 30*time.Second)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base.Add(30 * time.Second) }

	require.NoError(t, store.Set(context.Background(), domain.BalanceSnapshot{UserID: "user-1", AmountRaw: 1, CapturedAt: base}))

	got, err := store.Get(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.Nil(t, got, "a snapshot exactly ttl old is stale")
}

func TestSnapshotStore_LastWriteWins(t *testing.T) {
	_, client := newTestClient(t)
	store := NewSnapshotStore(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, domain.BalanceSnapshot{UserID: "user-1", AmountRaw: 100, CapturedAt: time.Now()}))
	require.NoError(t, store.Set(ctx, domain.BalanceSnapshot{UserID: "user-1", AmountRaw: 40, CapturedAt: time.Now()}))

	got, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint64(40), got.AmountRaw)
}

func TestSnapshotStore_CorruptValue(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewSnapshotStore(client, time.Minute)
	require.NoError(t, mr.Set("snapshot:user-1", "{not json"))

	_, err := store.Get(context.Background(), "user-1")
	assert.Error(t, err)
}
