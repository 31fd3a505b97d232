package service

import (
	"context"
	"sync"

	"stack-settlement/internal/core/domain"
	"stack-settlement/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// mockTx implements pgx.Tx for testing
type mockTx struct{ pgx.Tx }

func (m *mockTx) Rollback(_ context.Context) error { return nil }
func (m *mockTx) Commit(_ context.Context) error   { return nil }

// fakePurchaseRepo enforces the same uniqueness as the burn table.
type fakePurchaseRepo struct {
	mu     sync.Mutex
	rows   []domain.Purchase
	nextID int64
}

func (r *fakePurchaseRepo) Exists(_ context.Context, userID, itemID string) (bool, error) {
	n, _ := r.CountByItem(context.Background(), userID, itemID)
	return n > 0, nil
}

func (r *fakePurchaseRepo) CountByItem(_ context.Context, userID, itemID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.rows {
		if p.UserID == userID && p.ItemID == itemID {
			n++
		}
	}
	return n, nil
}

func (r *fakePurchaseRepo) Insert(_ context.Context, p *domain.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.UserID == p.UserID && row.ItemID == p.ItemID && row.Seq == p.Seq {
			return domain.ErrConflict
		}
		if p.TxSignature != nil && row.TxSignature != nil && *row.TxSignature == *p.TxSignature {
			return domain.ErrSignatureReused
		}
	}
	r.nextID++
	p.ID = r.nextID
	r.rows = append(r.rows, *p)
	return nil
}

func (r *fakePurchaseRepo) ListItemIDs(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := []string{}
	seen := map[string]bool{}
	for _, p := range r.rows {
		if p.UserID == userID && !seen[p.ItemID] {
			seen[p.ItemID] = true
			ids = append(ids, p.ItemID)
		}
	}
	return ids, nil
}

func (r *fakePurchaseRepo) TotalByUser(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, p := range r.rows {
		if p.UserID == userID {
			total += p.AmountRaw
		}
	}
	return total, nil
}

func (r *fakePurchaseRepo) Leaderboard(_ context.Context, _ int) ([]domain.LeaderboardEntry, error) {
	return nil, nil
}

func (r *fakePurchaseRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type fakeWallets map[string]string

func (w fakeWallets) GetPrimary(_ context.Context, userID string) (*domain.WalletAddress, error) {
	addr, ok := w[userID]
	if !ok {
		return nil, nil
	}
	return &domain.WalletAddress{UserID: userID, Address: addr, IsPrimary: true}, nil
}

// fakeLedger keeps balances in memory. burn stands in for the wallet
// submitting the prepared transaction.
type fakeLedger struct {
	mu       sync.Mutex
	balances map[string]uint64
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{balances: map[string]uint64{}}
}

func (l *fakeLedger) TokenBalance(_ context.Context, owner string) (domain.TokenBalance, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	raw := l.balances[owner]
	return domain.TokenBalance{
		AmountRaw: raw,
		Decimals:  domain.TokenDecimals,
		UIAmount:  domain.UintToDisplay(raw, domain.TokenDecimals).InexactFloat64(),
	}, nil
}

func (l *fakeLedger) Transfer(_ context.Context, recipient string, amountRaw uint64) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[recipient] += amountRaw
	return "transfer-sig", nil
}

func (l *fakeLedger) SOLBalance(context.Context, string) (uint64, error) {
	return 0, nil
}

func (l *fakeLedger) set(owner string, raw uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[owner] = raw
}

func (l *fakeLedger) burn(owner string, raw uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[owner] -= raw
}

type fakeBuilder struct {
	feePayer string
}

func (b fakeBuilder) BuildBurn(_ context.Context, owner string, _ uint64) (*domain.UnsignedTransaction, error) {
	return &domain.UnsignedTransaction{
		Encoded:   "AQID",
		Blockhash: "EkSnNWid2cvwEVnVx9aBqawnmiCNiDgp3gUdkDPTKN1N",
		FeePayer:  b.feePayer,
		Signers: []domain.SignerSlot{
			{Address: b.feePayer, Signed: true},
			{Address: owner, Signed: false},
		},
	}, nil
}

var (
	_ ports.PurchaseRepository = (*fakePurchaseRepo)(nil)
	_ ports.WalletRepository   = fakeWallets(nil)
	_ ports.Ledger             = (*fakeLedger)(nil)
	_ ports.TransactionBuilder = fakeBuilder{}
)
