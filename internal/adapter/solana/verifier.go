package solana

import (
	"context"
	"fmt"

	"github.com/mr-tron/base58"

	"stack-settlement/internal/core/domain"
	"stack-settlement/internal/core/ports"
)

// Verifier inspects a submitted transaction and checks that it burned the
// expected amount of the mint from the claimed owner's token account.
type Verifier struct {
	rpc   *RPCClient
	token tokenInfo
}

// NewVerifier creates a Verifier for the configured mint.
func NewVerifier(rpc *RPCClient, opts Options) (*Verifier, error) {
	token, err := opts.token()
	if err != nil {
		return nil, err
	}
	return &Verifier{rpc: rpc, token: token}, nil
}

// VerifyBurn returns nil when the transaction succeeded and contains a
// matching BurnChecked instruction.
func (v *Verifier) VerifyBurn(ctx context.Context, proof ports.BurnProof) error {
	if _, err := base58.Decode(proof.Signature); proof.Signature == "" || err != nil {
		return domain.ErrBurnMismatch
	}
	owner, err := ParseAddress(proof.Owner)
	if err != nil {
		return domain.ErrBurnMismatch
	}
	ata, err := v.token.ata(owner)
	if err != nil {
		return fmt.Errorf("derive token account: %w", err)
	}

	tx, err := v.rpc.GetTransaction(ctx, proof.Signature, v.token.commitment)
	if err != nil {
		return &domain.LedgerError{Op: "get_transaction", Err: err}
	}
	if tx == nil {
		return domain.ErrBurnTxNotFound
	}
	if tx.Meta == nil || tx.Meta.Err != nil {
		return domain.ErrBurnMismatch
	}

	keys := tx.AllAccountKeys()
	key := func(i int) string {
		if i < 0 || i >= len(keys) {
			return ""
		}
		return keys[i]
	}

	program := v.token.program.String()
	for _, ix := range tx.Tx.Message.Instructions {
		if key(ix.ProgramIDIndex) != program || len(ix.Accounts) < 3 {
			continue
		}
		data, err := base58.Decode(ix.Data)
		if err != nil {
			continue
		}
		disc, amount, decimals, ok := decodeCheckedAmount(data)
		if !ok || disc != ixBurnChecked {
			continue
		}
		if amount == proof.AmountRaw &&
			decimals == v.token.decimals &&
			key(ix.Accounts[0]) == ata.String() &&
			key(ix.Accounts[1]) == v.token.mint.String() &&
			key(ix.Accounts[2]) == owner.String() {
			return nil
		}
	}
	return domain.ErrBurnMismatch
}
