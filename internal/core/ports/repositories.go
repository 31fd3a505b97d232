package ports

import (
	"context"
	"time"

	"stack-settlement/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// PurchaseRepository is the durable burn ledger. Uniqueness of
// (user, item, seq) is enforced by storage; Insert returns
// domain.ErrConflict when it is violated.
type PurchaseRepository interface {
	Exists(ctx context.Context, userID, itemID string) (bool, error)
	CountByItem(ctx context.Context, userID, itemID string) (int, error)
	Insert(ctx context.Context, p *domain.Purchase) error
	ListItemIDs(ctx context.Context, userID string) ([]string, error)
	TotalByUser(ctx context.Context, userID string) (int64, error)
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

// RewardRepository persists milestone rewards.
// Methods accepting pgx.Tx are used inside transaction blocks for pessimistic locking.
type RewardRepository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Reward, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, id int64, userID string) (*domain.Reward, error)
	MarkClaimed(ctx context.Context, tx pgx.Tx, id int64, txSignature string, claimedAt time.Time) (*domain.Reward, error)
	// CreatePending inserts a pending reward unless one exists for the
	// milestone. It reports whether a row was created.
	CreatePending(ctx context.Context, userID, milestoneID string, amountRaw int64) (bool, error)
}

// WalletRepository reads wallet links owned by the auth service.
type WalletRepository interface {
	// GetPrimary returns nil, nil when the user has no linked wallet.
	GetPrimary(ctx context.Context, userID string) (*domain.WalletAddress, error)
}

// AuditRepository persists audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
