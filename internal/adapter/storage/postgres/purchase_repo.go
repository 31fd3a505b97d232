package postgres

import (
	"context"
	"fmt"

	"stack-settlement/internal/core/domain"
)

// Constraint names from migrations/001_init.sql.
const (
	constraintPurchaseKey  = "burn_user_upgrade_seq_key"
	constraintSignatureKey = "burn_tx_signature_key"
)

// PurchaseRepo implements ports.PurchaseRepository on the burn table.
type PurchaseRepo struct {
	pool Pool
}

// NewPurchaseRepo creates a new PurchaseRepo.
func NewPurchaseRepo(pool Pool) *PurchaseRepo {
	return &PurchaseRepo{pool: pool}
}

// Exists reports whether the user holds at least one purchase of itemID.
func (r *PurchaseRepo) Exists(ctx context.Context, userID, itemID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM burn WHERE user_id = $1 AND upgrade_id = $2)`,
		userID, itemID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check purchase exists: %w", err)
	}
	return exists, nil
}

// CountByItem returns how many times the user bought itemID.
func (r *PurchaseRepo) CountByItem(ctx context.Context, userID, itemID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM burn WHERE user_id = $1 AND upgrade_id = $2`,
		userID, itemID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count purchases: %w", err)
	}
	return n, nil
}

// Insert records a confirmed burn and fills in ID and CreatedAt.
// A duplicate (user, item, seq) returns domain.ErrConflict and a reused
// signature returns domain.ErrSignatureReused.
func (r *PurchaseRepo) Insert(ctx context.Context, p *domain.Purchase) error {
	query := `INSERT INTO burn (user_id, upgrade_id, seq, amount, tx_signature)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		p.UserID, p.ItemID, p.Seq, p.AmountRaw, p.TxSignature,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if name, ok := uniqueConstraint(err); ok {
			if name == constraintSignatureKey {
				return domain.ErrSignatureReused
			}
			return domain.ErrConflict
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// ListItemIDs returns the distinct items the user owns.
func (r *PurchaseRepo) ListItemIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT upgrade_id FROM burn WHERE user_id = $1 ORDER BY upgrade_id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list purchased items: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan purchased item: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// TotalByUser returns the raw amount the user has burned in total.
func (r *PurchaseRepo) TotalByUser(ctx context.Context, userID string) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0)::BIGINT FROM burn WHERE user_id = $1`,
		userID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum burned: %w", err)
	}
	return total, nil
}

// Leaderboard returns the top burners, highest first.
func (r *PurchaseRepo) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, SUM(amount)::BIGINT AS total
		FROM burn GROUP BY user_id
		ORDER BY total DESC, user_id ASC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []domain.LeaderboardEntry{}
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.TotalBurnedRaw); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
