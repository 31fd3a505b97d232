package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stack-settlement/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const rewardColumns = `id, user_id, milestone_id, amount, status, claimed_at, created_at, tx_signature`

// RewardRepo implements ports.RewardRepository.
type RewardRepo struct {
	pool Pool
}

// NewRewardRepo creates a new RewardRepo.
func NewRewardRepo(pool Pool) *RewardRepo {
	return &RewardRepo{pool: pool}
}

func scanReward(row pgx.Row) (*domain.Reward, error) {
	var (
		rw     domain.Reward
		status string
	)
	err := row.Scan(
		&rw.ID, &rw.UserID, &rw.MilestoneID, &rw.AmountRaw,
		&status, &rw.ClaimedAt, &rw.CreatedAt, &rw.TxSignature,
	)
	if err != nil {
		return nil, err
	}
	rw.Status = domain.RewardStatus(status)
	return &rw, nil
}

// ListByUser returns all rewards of the user, oldest first.
func (r *RewardRepo) ListByUser(ctx context.Context, userID string) ([]domain.Reward, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+rewardColumns+` FROM reward WHERE user_id = $1 ORDER BY created_at ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list rewards: %w", err)
	}
	defer rows.Close()

	rewards := []domain.Reward{}
	for rows.Next() {
		rw, err := scanReward(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reward: %w", err)
		}
		rewards = append(rewards, *rw)
	}
	return rewards, rows.Err()
}

// GetForUpdate locks the user's reward row for the rest of the transaction.
// Returns nil, nil when the reward does not exist or belongs to someone else.
func (r *RewardRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, id int64, userID string) (*domain.Reward, error) {
	rw, err := scanReward(tx.QueryRow(ctx,
		`SELECT `+rewardColumns+` FROM reward WHERE id = $1 AND user_id = $2 FOR UPDATE`,
		id, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reward for update: %w", err)
	}
	return rw, nil
}

// MarkClaimed flips a locked reward to claimed and returns the updated row.
func (r *RewardRepo) MarkClaimed(ctx context.Context, tx pgx.Tx, id int64, txSignature string, claimedAt time.Time) (*domain.Reward, error) {
	rw, err := scanReward(tx.QueryRow(ctx,
		`UPDATE reward SET status = 'claimed', claimed_at = $2, tx_signature = $3
		WHERE id = $1
		RETURNING `+rewardColumns,
		id, claimedAt, txSignature,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("reward not found: %d", id)
		}
		return nil, fmt.Errorf("mark reward claimed: %w", err)
	}
	return rw, nil
}

// CreatePending inserts a pending reward for a milestone unless the user
// already has one.
func (r *RewardRepo) CreatePending(ctx context.Context, userID, milestoneID string, amountRaw int64) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO reward (user_id, milestone_id, amount, status)
		VALUES ($1, $2, $3, 'pending')
		ON CONFLICT (user_id, milestone_id) DO NOTHING`,
		userID, milestoneID, amountRaw,
	)
	if err != nil {
		return false, fmt.Errorf("create pending reward: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
