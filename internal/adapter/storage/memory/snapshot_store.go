// Package memory holds process-local stores for single-replica deployments.
package memory

import (
	"context"
	"sync"
	"time"

	"stack-settlement/internal/core/domain"
)

// SnapshotStore implements ports.SnapshotStore with a mutex-guarded map.
// Entries expire lazily on Get; Sweep removes them eagerly.
type SnapshotStore struct {
	mu    sync.Mutex
	items map[string]domain.BalanceSnapshot
	ttl   time.Duration
	now   func() time.Time
}

// NewSnapshotStore creates an empty store.
func NewSnapshotStore(ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{
		items: make(map[string]domain.BalanceSnapshot),
		ttl:   ttl,
		now:   time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (s *SnapshotStore) WithClock(now func() time.Time) *SnapshotStore {
	s.now = now
	return s
}

// Set overwrites the user's snapshot.
func (s *SnapshotStore) Set(_ context.Context, snap domain.BalanceSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[snap.UserID] = snap
	return nil
}

// Get returns nil when the snapshot is missing or stale. Stale entries are
// dropped.
func (s *SnapshotStore) Get(_ context.Context, userID string) (*domain.BalanceSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, ok := s.items[userID]
	if !ok {
		return nil, nil
	}
	if !snap.FreshAt(s.now(), s.ttl) {
		delete(s.items, userID)
		return nil, nil
	}
	return &snap, nil
}

// Delete removes the user's snapshot.
func (s *SnapshotStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, userID)
	return nil
}

// Sweep drops every stale entry and returns how many were removed.
func (s *SnapshotStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, snap := range s.items {
		if !snap.FreshAt(now, s.ttl) {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, stale or not.
func (s *SnapshotStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *SnapshotStore) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
