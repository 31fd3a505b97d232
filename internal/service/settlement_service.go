package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"stack-settlement/internal/core/domain"
	"stack-settlement/internal/core/ports"
	"stack-settlement/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

// SettlementConfig tunes burn verification.
type SettlementConfig struct {
	Decimals uint8
	// Tolerance is the fraction of the cost the balance must drop by.
	Tolerance float64
	// RequireSnapshot fails confirm when no fresh snapshot exists instead
	// of accepting it unverified.
	RequireSnapshot bool
	// VerifySignatures checks a client-reported signature on-chain
	// instead of comparing balances.
	VerifySignatures bool
}

// SettlementServiceImpl implements ports.SettlementService.
type SettlementServiceImpl struct {
	purchases ports.PurchaseRepository
	wallets   ports.WalletRepository
	ledger    ports.Ledger
	builder   ports.TransactionBuilder
	verifier  ports.BurnVerifier
	snapshots ports.SnapshotStore
	analytics ports.Analytics
	cfg       SettlementConfig
	tolerance decimal.Decimal
	now       func() time.Time
	log       zerolog.Logger
}

// NewSettlementService creates a new SettlementServiceImpl. verifier and
// analytics may be nil.
func NewSettlementService(
	purchases ports.PurchaseRepository,
	wallets ports.WalletRepository,
	ledger ports.Ledger,
	builder ports.TransactionBuilder,
	verifier ports.BurnVerifier,
	snapshots ports.SnapshotStore,
	analytics ports.Analytics,
	cfg SettlementConfig,
	log zerolog.Logger,
) *SettlementServiceImpl {
	if analytics == nil {
		analytics = noopAnalytics{}
	}
	return &SettlementServiceImpl{
		purchases: purchases,
		wallets:   wallets,
		ledger:    ledger,
		builder:   builder,
		verifier:  verifier,
		snapshots: snapshots,
		analytics: analytics,
		cfg:       cfg,
		tolerance: decimal.NewFromFloat(cfg.Tolerance),
		now:       time.Now,
		log:       log,
	}
}

// Prepare prices the item, snapshots the wallet balance and returns a burn
// transaction for the wallet to co-sign. Nothing durable is written.
func (s *SettlementServiceImpl) Prepare(ctx context.Context, userID, itemID string) (*ports.PrepareResult, error) {
	item, err := s.resolveItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	wallet, err := s.requireWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	balance, err := s.ledger.TokenBalance(ctx, wallet.Address)
	if err != nil {
		return nil, ledgerFailure(err)
	}

	snap := domain.BalanceSnapshot{
		UserID:     userID,
		AmountRaw:  balance.AmountRaw,
		Decimals:   balance.Decimals,
		UIAmount:   balance.UIAmount,
		CapturedAt: s.now(),
	}
	if err := s.snapshots.Set(ctx, snap); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to store balance snapshot")
	}

	if balance.AmountRaw < uint64(item.Cost) {
		available := int64(math.MaxInt64)
		if balance.AmountRaw <= math.MaxInt64 {
			available = int64(balance.AmountRaw)
		}
		return nil, apperror.ErrInsufficientFunds(
			item.Cost, available,
			domain.ToDisplay(item.Cost, s.cfg.Decimals).String(),
			domain.UintToDisplay(balance.AmountRaw, s.cfg.Decimals).String(),
		)
	}

	tx, err := s.builder.BuildBurn(ctx, wallet.Address, uint64(item.Cost))
	if err != nil {
		return nil, ledgerFailure(fmt.Errorf("build burn: %w", err))
	}

	s.log.Info().
		Str("user_id", userID).
		Str("item_id", item.ID).
		Int64("amount_raw", item.Cost).
		Uint64("balance_raw", balance.AmountRaw).
		Msg("Burn prepared")

	return &ports.PrepareResult{
		Transaction:       tx.Encoded,
		ItemID:            item.ID,
		BurnAmountRaw:     item.Cost,
		BurnAmountDisplay: domain.DisplayFloat(item.Cost, s.cfg.Decimals),
		Blockhash:         tx.Blockhash,
		FeePayer:          tx.FeePayer,
		PendingSigners:    tx.PendingSigners(),
	}, nil
}

// Confirm verifies the burn landed and records the purchase. A purchase
// row is the only commit point; everything before it is retryable.
func (s *SettlementServiceImpl) Confirm(ctx context.Context, req ports.ConfirmRequest) (*ports.PurchaseResult, error) {
	item, err := s.resolveItem(ctx, req.UserID, req.ItemID)
	if err != nil {
		return nil, err
	}

	wallet, err := s.requireWallet(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	verified := req.Signature != "" && s.cfg.VerifySignatures && s.verifier != nil
	if verified {
		if err := s.verifySignature(ctx, req, wallet.Address, item); err != nil {
			return nil, err
		}
	} else if err := s.verifyBalanceDrop(ctx, req.UserID, wallet.Address, item); err != nil {
		return nil, err
	}

	if err := s.snapshots.Delete(ctx, req.UserID); err != nil {
		s.log.Warn().Err(err).Str("user_id", req.UserID).Msg("failed to delete balance snapshot")
	}

	purchase := &domain.Purchase{
		UserID:    req.UserID,
		ItemID:    item.ID,
		Seq:       item.Seq,
		AmountRaw: item.Cost,
	}
	// Unchecked signatures would claim the unique slot of someone else's burn.
	if verified {
		sig := req.Signature
		purchase.TxSignature = &sig
	}

	if err := s.purchases.Insert(ctx, purchase); err != nil {
		switch {
		case errors.Is(err, domain.ErrConflict):
			return nil, apperror.ErrAlreadyPurchased()
		case errors.Is(err, domain.ErrSignatureReused):
			return nil, apperror.ErrSignatureReused()
		default:
			return nil, apperror.ErrDatabaseError(fmt.Errorf("record purchase: %w", err))
		}
	}

	s.log.Info().
		Str("user_id", req.UserID).
		Str("item_id", item.ID).
		Int("seq", item.Seq).
		Int64("amount_raw", item.Cost).
		Bool("signature_verified", verified).
		Msg("Burn confirmed")

	s.analytics.Track(ctx, "burn_confirmed", map[string]any{
		"item_id": item.ID,
		"amount":  domain.DisplayFloat(item.Cost, s.cfg.Decimals),
	})

	return &ports.PurchaseResult{
		ID:            purchase.ID,
		UserID:        purchase.UserID,
		ItemID:        purchase.ItemID,
		AmountRaw:     purchase.AmountRaw,
		AmountDisplay: domain.DisplayFloat(purchase.AmountRaw, s.cfg.Decimals),
		TxSignature:   purchase.TxSignature,
		CreatedAt:     purchase.CreatedAt,
	}, nil
}

func (s *SettlementServiceImpl) verifySignature(ctx context.Context, req ports.ConfirmRequest, owner string, item domain.PricedItem) error {
	err := s.verifier.VerifyBurn(ctx, ports.BurnProof{
		Signature: req.Signature,
		Owner:     owner,
		AmountRaw: uint64(item.Cost),
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrBurnTxNotFound), errors.Is(err, domain.ErrBurnMismatch):
		s.log.Info().Err(err).
			Str("user_id", req.UserID).
			Str("signature", req.Signature).
			Msg("Burn signature rejected")
		return apperror.ErrBurnNotDetected()
	default:
		return ledgerFailure(err)
	}
}

// verifyBalanceDrop compares the balance now against the prepare-time
// snapshot. A missing or stale snapshot passes unless RequireSnapshot is set.
func (s *SettlementServiceImpl) verifyBalanceDrop(ctx context.Context, userID, owner string, item domain.PricedItem) error {
	balance, err := s.ledger.TokenBalance(ctx, owner)
	if err != nil {
		return ledgerFailure(err)
	}

	snap, err := s.snapshots.Get(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("balance snapshot unavailable, treating as missing")
		snap = nil
	}

	if snap == nil {
		if s.cfg.RequireSnapshot {
			return apperror.ErrBurnNotDetected()
		}
		s.log.Warn().
			Str("user_id", userID).
			Str("item_id", item.ID).
			Msg("No fresh balance snapshot, accepting burn unverified")
		return nil
	}

	drop := decimal.NewFromUint64(snap.AmountRaw).Sub(decimal.NewFromUint64(balance.AmountRaw))
	required := decimal.NewFromInt(item.Cost).Mul(s.tolerance)
	if drop.LessThan(required) {
		s.log.Info().
			Str("user_id", userID).
			Str("item_id", item.ID).
			Str("drop_raw", drop.String()).
			Str("required_raw", required.String()).
			Msg("Burn not detected")
		return apperror.ErrBurnNotDetected()
	}
	return nil
}

// resolveItem prices itemID for the user and rejects one-time items the
// user already owns.
func (s *SettlementServiceImpl) resolveItem(ctx context.Context, userID, itemID string) (domain.PricedItem, error) {
	if upgrade, ok := domain.LookupUpgrade(itemID); ok {
		owned, err := s.purchases.Exists(ctx, userID, itemID)
		if err != nil {
			return domain.PricedItem{}, apperror.ErrDatabaseError(fmt.Errorf("check purchase: %w", err))
		}
		if owned {
			return domain.PricedItem{}, apperror.ErrAlreadyPurchased()
		}
		return domain.PricedItem{ID: upgrade.ID, Cost: upgrade.Cost}, nil
	}

	if domain.IsRepeatable(itemID) {
		n, err := s.purchases.CountByItem(ctx, userID, itemID)
		if err != nil {
			return domain.PricedItem{}, apperror.ErrDatabaseError(fmt.Errorf("count purchases: %w", err))
		}
		cost, err := domain.FuelCell.CostAfter(n)
		if err != nil {
			return domain.PricedItem{}, apperror.Validation(fmt.Sprintf("%s cannot be purchased again", itemID))
		}
		return domain.PricedItem{ID: itemID, Cost: cost, Repeatable: true, Seq: n}, nil
	}

	return domain.PricedItem{}, apperror.ErrItemNotFound(itemID)
}

func (s *SettlementServiceImpl) requireWallet(ctx context.Context, userID string) (*domain.WalletAddress, error) {
	wallet, err := s.wallets.GetPrimary(ctx, userID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNoWallet()
	}
	return wallet, nil
}

// SpendableBalance returns the on-chain balance and the burned total.
// Users without a wallet get zeros.
func (s *SettlementServiceImpl) SpendableBalance(ctx context.Context, userID string) (*ports.SpendableBalance, error) {
	wallet, err := s.wallets.GetPrimary(ctx, userID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return &ports.SpendableBalance{}, nil
	}

	balance, err := s.ledger.TokenBalance(ctx, wallet.Address)
	if err != nil {
		return nil, ledgerFailure(err)
	}

	burned, err := s.purchases.TotalByUser(ctx, userID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("sum burned: %w", err))
	}

	return &ports.SpendableBalance{
		SpendableRaw:       balance.AmountRaw,
		SpendableDisplay:   domain.UintToDisplay(balance.AmountRaw, s.cfg.Decimals).InexactFloat64(),
		TotalBurnedRaw:     burned,
		TotalBurnedDisplay: domain.DisplayFloat(burned, s.cfg.Decimals),
	}, nil
}

// Upgrades lists the one-time catalog with display prices.
func (s *SettlementServiceImpl) Upgrades() []ports.UpgradeView {
	views := make([]ports.UpgradeView, 0, len(domain.BurnUpgrades))
	for _, u := range domain.BurnUpgrades {
		views = append(views, ports.UpgradeView{
			BurnUpgrade: u,
			DisplayCost: domain.DisplayFloat(u.Cost, s.cfg.Decimals),
		})
	}
	return views
}

// Purchased returns the ids of items the user owns.
func (s *SettlementServiceImpl) Purchased(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.purchases.ListItemIDs(ctx, userID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list purchases: %w", err))
	}
	return ids, nil
}

// FuelCellInfo prices the next fuel cell for the user.
func (s *SettlementServiceImpl) FuelCellInfo(ctx context.Context, userID string) (*ports.FuelCellInfo, error) {
	n, err := s.purchases.CountByItem(ctx, userID, domain.FuelCell.ID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("count purchases: %w", err))
	}
	cost, err := domain.FuelCell.CostAfter(n)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	return &ports.FuelCellInfo{
		RepeatableItem: domain.FuelCell,
		TimesPurchased: n,
		Cost:           cost,
		DisplayCost:    domain.DisplayFloat(cost, s.cfg.Decimals),
	}, nil
}

// Leaderboard returns the top burners. limit is clamped to [1, 100] and
// defaults to 10.
func (s *SettlementServiceImpl) Leaderboard(ctx context.Context, limit int) ([]ports.LeaderboardView, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}

	entries, err := s.purchases.Leaderboard(ctx, limit)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("leaderboard: %w", err))
	}

	views := make([]ports.LeaderboardView, 0, len(entries))
	for _, e := range entries {
		views = append(views, ports.LeaderboardView{
			UserID:             e.UserID,
			TotalBurnedRaw:     e.TotalBurnedRaw,
			TotalBurnedDisplay: domain.DisplayFloat(e.TotalBurnedRaw, s.cfg.Decimals),
		})
	}
	return views, nil
}

// ledgerFailure maps chain errors to LEDGER_001 and everything else to SYS_001.
func ledgerFailure(err error) error {
	var ledgerErr *domain.LedgerError
	if errors.As(err, &ledgerErr) {
		return apperror.ErrLedger(err)
	}
	return apperror.InternalError(err)
}
