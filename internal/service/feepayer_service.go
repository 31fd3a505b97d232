package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stack-settlement/internal/core/ports"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	feePayerBalanceKey = "fee_payer_balance"
	lamportsPerSOL     = 1_000_000_000
)

var (
	// minFundedSOL covers a handful of transaction fees.
	minFundedSOL = decimal.RequireFromString("0.01")
	lowSOL       = decimal.NewFromInt(1)
)

// FeePayerServiceImpl implements ports.FeePayerService.
type FeePayerServiceImpl struct {
	feePayer ports.FeePayer
	ledger   ports.Ledger
	cache    ports.Cache
	ttl      time.Duration
	log      zerolog.Logger
}

// NewFeePayerService creates a new FeePayerServiceImpl.
func NewFeePayerService(feePayer ports.FeePayer, ledger ports.Ledger, cache ports.Cache, ttl time.Duration, log zerolog.Logger) *FeePayerServiceImpl {
	return &FeePayerServiceImpl{
		feePayer: feePayer,
		ledger:   ledger,
		cache:    cache,
		ttl:      ttl,
		log:      log,
	}
}

// Balance reports the fee payer's SOL balance and funding state.
func (s *FeePayerServiceImpl) Balance(ctx context.Context) (*ports.FeePayerBalance, error) {
	cached, err := s.cache.Get(ctx, feePayerBalanceKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("fee payer cache read failed")
	} else if cached != nil {
		var b ports.FeePayerBalance
		if err := json.Unmarshal(cached, &b); err == nil {
			return &b, nil
		}
	}

	address := s.feePayer.Address()
	lamports, err := s.ledger.SOLBalance(ctx, address)
	if err != nil {
		return nil, ledgerFailure(fmt.Errorf("fee payer balance: %w", err))
	}

	sol := decimal.NewFromUint64(lamports).Div(decimal.NewFromInt(lamportsPerSOL))
	balance := &ports.FeePayerBalance{
		Address:    address,
		Lamports:   lamports,
		SOL:        sol.Round(3).InexactFloat64(),
		Funded:     sol.GreaterThanOrEqual(minFundedSOL),
		LowBalance: sol.LessThan(lowSOL),
	}

	if raw, err := json.Marshal(balance); err == nil {
		if err := s.cache.Set(ctx, feePayerBalanceKey, raw, s.ttl); err != nil {
			s.log.Warn().Err(err).Msg("fee payer cache write failed")
		}
	}

	if !balance.Funded {
		s.log.Warn().Str("address", address).Uint64("lamports", lamports).Msg("Fee payer is not funded")
	}
	return balance, nil
}
