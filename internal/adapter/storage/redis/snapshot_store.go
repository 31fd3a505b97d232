package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"stack-settlement/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// SnapshotStore implements ports.SnapshotStore in Redis so that prepare and
// confirm may land on different replicas. Expiry is delegated to the key TTL.
type SnapshotStore struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// NewSnapshotStore creates a Redis-backed snapshot store.
func NewSnapshotStore(client *goredis.Client, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{
		client: client,
		prefix: "snapshot:",
		ttl:    ttl,
		now:    time.Now,
	}
}

// Set overwrites the user's snapshot and restarts its TTL.
func (s *SnapshotStore) Set(ctx context.Context, snap domain.BalanceSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+snap.UserID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis snapshot set: %w", err)
	}
	return nil
}

// Get returns nil, nil when there is no fresh snapshot.
func (s *SnapshotStore) Get(ctx context.Context, userID string) (*domain.BalanceSnapshot, error) {
	data, err := s.client.Get(ctx, s.prefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis snapshot get: %w", err)
	}

	var snap domain.BalanceSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	// The key TTL has second granularity on some servers; recheck the age.
	if !snap.FreshAt(s.now(), s.ttl) {
		return nil, nil
	}
	return &snap, nil
}

// Delete removes the user's snapshot.
func (s *SnapshotStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, s.prefix+userID).Err(); err != nil {
		return fmt.Errorf("redis snapshot delete: %w", err)
	}
	return nil
}
