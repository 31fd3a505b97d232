package solana

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"stack-settlement/internal/core/domain"
)

// Ledger reads token balances and pays out tokens from the fee payer's
// account. Every failure is returned as *domain.LedgerError.
type Ledger struct {
	rpc            *RPCClient
	token          tokenInfo
	feePayer       solanago.PrivateKey
	confirmTimeout time.Duration
	pollInterval   time.Duration
	log            zerolog.Logger
}

// NewLedger creates a Ledger bound to one mint.
func NewLedger(rpc *RPCClient, feePayer solanago.PrivateKey, opts Options, log zerolog.Logger) (*Ledger, error) {
	token, err := opts.token()
	if err != nil {
		return nil, err
	}
	l := &Ledger{
		rpc:            rpc,
		token:          token,
		feePayer:       feePayer,
		confirmTimeout: opts.ConfirmTimeout,
		pollInterval:   opts.PollInterval,
		log:            log,
	}
	if l.confirmTimeout <= 0 {
		l.confirmTimeout = 60 * time.Second
	}
	if l.pollInterval <= 0 {
		l.pollInterval = 500 * time.Millisecond
	}
	return l, nil
}

// Address returns the fee payer's public key.
func (l *Ledger) Address() string {
	return l.feePayer.PublicKey().String()
}

// TokenBalance returns owner's balance of the mint. A wallet that never held
// the token has no account and reads as zero.
func (l *Ledger) TokenBalance(ctx context.Context, owner string) (domain.TokenBalance, error) {
	zero := domain.TokenBalance{Decimals: l.token.decimals}

	ownerKey, err := ParseAddress(owner)
	if err != nil {
		return zero, &domain.LedgerError{Op: "token_balance", Err: err}
	}
	ata, err := l.token.ata(ownerKey)
	if err != nil {
		return zero, &domain.LedgerError{Op: "token_balance", Err: err}
	}

	amt, err := l.rpc.GetTokenAccountBalance(ctx, ata.String(), l.token.commitment)
	if err != nil {
		if isAccountNotFound(err) {
			return zero, nil
		}
		return zero, &domain.LedgerError{Op: "token_balance", Err: err}
	}

	raw, err := strconv.ParseUint(amt.Amount, 10, 64)
	if err != nil {
		return zero, &domain.LedgerError{Op: "token_balance", Err: fmt.Errorf("parse amount %q: %w", amt.Amount, err)}
	}
	bal := domain.TokenBalance{AmountRaw: raw, Decimals: amt.Decimals}
	if amt.UIAmount != nil {
		bal.UIAmount = *amt.UIAmount
	} else {
		bal.UIAmount = domain.UintToDisplay(raw, amt.Decimals).InexactFloat64()
	}
	return bal, nil
}

// SOLBalance returns the lamports held by address.
func (l *Ledger) SOLBalance(ctx context.Context, address string) (uint64, error) {
	if _, err := ParseAddress(address); err != nil {
		return 0, &domain.LedgerError{Op: "sol_balance", Err: err}
	}
	lamports, err := l.rpc.GetBalance(ctx, address, l.token.commitment)
	if err != nil {
		return 0, &domain.LedgerError{Op: "sol_balance", Err: err}
	}
	return lamports, nil
}

// Transfer sends amountRaw from the fee payer's token account to the
// recipient's, creating the recipient account when missing, and waits for
// confirmation. Recipients may be program-derived addresses.
func (l *Ledger) Transfer(ctx context.Context, recipient string, amountRaw uint64) (string, error) {
	sig, err := l.transfer(ctx, recipient, amountRaw)
	if err != nil {
		return "", &domain.LedgerError{Op: "transfer", Err: err}
	}
	return sig, nil
}

func (l *Ledger) transfer(ctx context.Context, recipient string, amountRaw uint64) (string, error) {
	to, err := ParseAddress(recipient)
	if err != nil {
		return "", err
	}
	payer := l.feePayer.PublicKey()

	fromATA, err := l.token.ata(payer)
	if err != nil {
		return "", err
	}
	toATA, err := l.token.ata(to)
	if err != nil {
		return "", err
	}

	bh, err := l.rpc.GetLatestBlockhash(ctx, l.token.commitment)
	if err != nil {
		return "", fmt.Errorf("latest blockhash: %w", err)
	}
	blockhash, err := solanago.HashFromBase58(bh.Blockhash)
	if err != nil {
		return "", fmt.Errorf("parse blockhash: %w", err)
	}

	tx, err := solanago.NewTransaction(
		[]solanago.Instruction{
			createATAIdempotentInstruction(payer, toATA, to, l.token.mint, l.token.program),
			transferCheckedInstruction(l.token.program, fromATA, l.token.mint, toATA, payer, amountRaw, l.token.decimals),
		},
		blockhash,
		solanago.TransactionPayer(payer),
	)
	if err != nil {
		return "", fmt.Errorf("build transaction: %w", err)
	}
	if err := signAs(tx, l.feePayer); err != nil {
		return "", err
	}
	wire, err := tx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("encode transaction: %w", err)
	}

	sig, err := l.rpc.SendTransaction(ctx, base64.StdEncoding.EncodeToString(wire), true, l.token.commitment)
	if err != nil {
		return "", fmt.Errorf("send transaction: %w", err)
	}

	l.log.Info().
		Str("signature", sig).
		Str("recipient", recipient).
		Uint64("amount_raw", amountRaw).
		Msg("Token transfer submitted")

	if err := l.awaitConfirmation(ctx, sig); err != nil {
		return "", err
	}
	return sig, nil
}

// awaitConfirmation polls the signature status until it reaches confirmed
// or finalized, fails on-chain, or the confirm timeout elapses.
func (l *Ledger) awaitConfirmation(ctx context.Context, sig string) error {
	ctx, cancel := context.WithTimeout(ctx, l.confirmTimeout)
	defer cancel()

	ticker := time.NewTicker(l.pollInterval)
	defer ticker.Stop()

	for {
		statuses, err := l.rpc.GetSignatureStatuses(ctx, sig)
		if err != nil && ctx.Err() == nil {
			return fmt.Errorf("signature status: %w", err)
		}
		if len(statuses) > 0 && statuses[0] != nil {
			st := statuses[0]
			if st.Err != nil {
				return fmt.Errorf("transaction %s failed: %v", sig, st.Err)
			}
			if st.ConfirmationStatus == "confirmed" || st.ConfirmationStatus == "finalized" {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("transaction %s not confirmed: %w", sig, ctx.Err())
		case <-ticker.C:
		}
	}
}
