package service

import (
	"context"
	"fmt"
	"time"

	"stack-settlement/internal/core/domain"
	"stack-settlement/internal/core/ports"
	"stack-settlement/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const tokenBalanceKeyPrefix = "token_balance:"

// RewardServiceImpl implements ports.RewardService.
type RewardServiceImpl struct {
	rewards    ports.RewardRepository
	wallets    ports.WalletRepository
	ledger     ports.Ledger
	cache      ports.Cache
	transactor ports.DBTransactor
	analytics  ports.Analytics
	balanceTTL time.Duration
	decimals   uint8
	now        func() time.Time
	log        zerolog.Logger
}

// NewRewardService creates a new RewardServiceImpl. analytics may be nil.
func NewRewardService(
	rewards ports.RewardRepository,
	wallets ports.WalletRepository,
	ledger ports.Ledger,
	cache ports.Cache,
	transactor ports.DBTransactor,
	analytics ports.Analytics,
	balanceTTL time.Duration,
	decimals uint8,
	log zerolog.Logger,
) *RewardServiceImpl {
	if analytics == nil {
		analytics = noopAnalytics{}
	}
	return &RewardServiceImpl{
		rewards:    rewards,
		wallets:    wallets,
		ledger:     ledger,
		cache:      cache,
		transactor: transactor,
		analytics:  analytics,
		balanceTTL: balanceTTL,
		decimals:   decimals,
		now:        time.Now,
		log:        log,
	}
}

// List returns the user's rewards, oldest first.
func (s *RewardServiceImpl) List(ctx context.Context, userID string) ([]ports.RewardView, error) {
	rewards, err := s.rewards.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list rewards: %w", err))
	}
	views := make([]ports.RewardView, 0, len(rewards))
	for _, r := range rewards {
		views = append(views, s.view(r))
	}
	return views, nil
}

// Balance returns the user's on-chain token balance in display units.
// Users without a wallet have a zero balance. Results are cached briefly.
func (s *RewardServiceImpl) Balance(ctx context.Context, userID string) (float64, error) {
	key := tokenBalanceKeyPrefix + userID

	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("balance cache read failed")
	} else if cached != nil {
		if d, err := decimal.NewFromString(string(cached)); err == nil {
			return d.InexactFloat64(), nil
		}
	}

	wallet, err := s.wallets.GetPrimary(ctx, userID)
	if err != nil {
		return 0, apperror.ErrDatabaseError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return 0, nil
	}

	balance, err := s.ledger.TokenBalance(ctx, wallet.Address)
	if err != nil {
		return 0, ledgerFailure(err)
	}

	display := domain.UintToDisplay(balance.AmountRaw, balance.Decimals)
	if err := s.cache.Set(ctx, key, []byte(display.String()), s.balanceTTL); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("balance cache write failed")
	}
	return display.InexactFloat64(), nil
}

// Claim transfers a pending reward to the user's wallet. The reward row stays
// locked for the whole transfer so concurrent claims serialize; a failed
// transfer rolls back and leaves the reward pending.
func (s *RewardServiceImpl) Claim(ctx context.Context, userID string, rewardID int64) (*ports.RewardView, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	reward, err := s.rewards.GetForUpdate(ctx, dbTx, rewardID, userID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("lock reward: %w", err))
	}
	if reward == nil {
		return nil, apperror.ErrRewardNotFound()
	}
	if reward.IsClaimed() {
		return nil, apperror.ErrAlreadyClaimed()
	}

	wallet, err := s.wallets.GetPrimary(ctx, userID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNoWallet()
	}

	if reward.AmountRaw <= 0 {
		return nil, apperror.InternalError(fmt.Errorf("reward %d has non-positive amount %d", reward.ID, reward.AmountRaw))
	}

	signature, err := s.ledger.Transfer(ctx, wallet.Address, uint64(reward.AmountRaw))
	if err != nil {
		s.log.Error().Err(err).
			Str("user_id", userID).
			Int64("reward_id", rewardID).
			Msg("Reward transfer failed")
		return nil, ledgerFailure(err)
	}

	claimed, err := s.rewards.MarkClaimed(ctx, dbTx, reward.ID, signature, s.now())
	if err != nil {
		s.log.Error().Err(err).
			Int64("reward_id", reward.ID).
			Str("signature", signature).
			Msg("Reward transferred but not marked claimed")
		return nil, apperror.ErrDatabaseError(fmt.Errorf("mark claimed: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		s.log.Error().Err(err).
			Int64("reward_id", reward.ID).
			Str("signature", signature).
			Msg("Reward transferred but claim commit failed")
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	if err := s.cache.Delete(ctx, tokenBalanceKeyPrefix+userID); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("balance cache invalidation failed")
	}

	s.log.Info().
		Str("user_id", userID).
		Int64("reward_id", claimed.ID).
		Str("milestone_id", claimed.MilestoneID).
		Int64("amount_raw", claimed.AmountRaw).
		Str("signature", signature).
		Msg("Reward claimed")

	s.analytics.Track(ctx, "reward_claimed", map[string]any{
		"milestone_id": claimed.MilestoneID,
		"amount":       domain.DisplayFloat(claimed.AmountRaw, s.decimals),
	})

	view := s.view(*claimed)
	return &view, nil
}

// GrantMilestones creates pending rewards for the given milestones. Unknown
// and already granted milestones are skipped. Returns the newly granted ids.
func (s *RewardServiceImpl) GrantMilestones(ctx context.Context, userID string, milestoneIDs []string) ([]string, error) {
	granted := make([]string, 0, len(milestoneIDs))
	seen := make(map[string]struct{}, len(milestoneIDs))

	for _, id := range milestoneIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		amount, ok := domain.MilestoneAmount(id)
		if !ok {
			s.log.Debug().Str("user_id", userID).Str("milestone_id", id).Msg("unknown milestone, skipping")
			continue
		}

		created, err := s.rewards.CreatePending(ctx, userID, id, amount)
		if err != nil {
			return nil, apperror.ErrDatabaseError(fmt.Errorf("grant %s: %w", id, err))
		}
		if created {
			granted = append(granted, id)
		}
	}

	if len(granted) > 0 {
		s.log.Info().Str("user_id", userID).Strs("milestones", granted).Msg("Milestone rewards granted")
	}
	return granted, nil
}

func (s *RewardServiceImpl) view(r domain.Reward) ports.RewardView {
	return ports.RewardView{
		Reward:        r,
		AmountDisplay: domain.DisplayFloat(r.AmountRaw, s.decimals),
	}
}
