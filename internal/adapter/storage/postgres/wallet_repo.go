package postgres

import (
	"context"
	"errors"
	"fmt"

	"stack-settlement/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

// GetPrimary returns the user's primary wallet, falling back to the oldest
// link when none is flagged primary.
func (r *WalletRepo) GetPrimary(ctx context.Context, userID string) (*domain.WalletAddress, error) {
	query := `SELECT user_id, address, cluster, is_primary, created_at
		FROM wallet_address WHERE user_id = $1
		ORDER BY is_primary DESC, created_at ASC LIMIT 1`

	w := &domain.WalletAddress{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&w.UserID, &w.Address, &w.Cluster, &w.IsPrimary, &w.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get primary wallet: %w", err)
	}
	return w, nil
}
