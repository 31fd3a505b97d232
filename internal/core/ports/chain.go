package ports

import (
	"context"

	"stack-settlement/internal/core/domain"
)

// Ledger reads and moves the service's SPL token. Every failure is a
// *domain.LedgerError; nothing is retried here.
type Ledger interface {
	// TokenBalance returns the owner's balance of the configured mint.
	// An owner without a token account has a zero balance.
	TokenBalance(ctx context.Context, owner string) (domain.TokenBalance, error)
	// Transfer pays amountRaw from the fee payer's token account to the
	// recipient, creating the recipient account if needed. Returns the
	// confirmed transaction signature.
	Transfer(ctx context.Context, recipient string, amountRaw uint64) (string, error)
	// SOLBalance returns the lamport balance of an address.
	SOLBalance(ctx context.Context, address string) (uint64, error)
}

// TransactionBuilder produces transactions that need the user's signature.
type TransactionBuilder interface {
	BuildBurn(ctx context.Context, owner string, amountRaw uint64) (*domain.UnsignedTransaction, error)
}

// BurnProof identifies the on-chain burn a client claims to have sent.
type BurnProof struct {
	Signature string
	Owner     string
	AmountRaw uint64
}

// BurnVerifier checks a submitted burn transaction on-chain. It returns
// domain.ErrBurnTxNotFound, domain.ErrBurnMismatch, or a *domain.LedgerError.
type BurnVerifier interface {
	VerifyBurn(ctx context.Context, proof BurnProof) error
}

// FeePayer exposes the service signer's public address.
type FeePayer interface {
	Address() string
}
