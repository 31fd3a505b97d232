package ports

import (
	"context"
	"time"

	"stack-settlement/internal/core/domain"
)

// SnapshotStore holds the pre-burn balance per user. Get returns nil when
// the snapshot is missing or older than the store's TTL. Set overwrites.
type SnapshotStore interface {
	Set(ctx context.Context, snapshot domain.BalanceSnapshot) error
	Get(ctx context.Context, userID string) (*domain.BalanceSnapshot, error)
	Delete(ctx context.Context, userID string) error
}

// Cache is a short-lived byte cache for read-side balances.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error) // nil when absent
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
