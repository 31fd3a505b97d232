package solana

import (
	"context"
	"encoding/base64"
	"fmt"

	solanago "github.com/gagliardetto/solana-go"

	"stack-settlement/internal/core/domain"
)

// Builder assembles burn transactions that the service pays for and the
// user's wallet completes.
type Builder struct {
	rpc      *RPCClient
	token    tokenInfo
	feePayer solanago.PrivateKey
}

// NewBuilder creates a Builder for the configured mint.
func NewBuilder(rpc *RPCClient, feePayer solanago.PrivateKey, opts Options) (*Builder, error) {
	token, err := opts.token()
	if err != nil {
		return nil, err
	}
	return &Builder{rpc: rpc, token: token, feePayer: feePayer}, nil
}

// BuildBurn returns a BurnChecked transaction of amountRaw from owner's
// token account, signed by the fee payer. The owner's slot is left empty.
func (b *Builder) BuildBurn(ctx context.Context, owner string, amountRaw uint64) (*domain.UnsignedTransaction, error) {
	ownerKey, err := ParseSigner(owner)
	if err != nil {
		return nil, err
	}
	ata, err := b.token.ata(ownerKey)
	if err != nil {
		return nil, fmt.Errorf("derive token account: %w", err)
	}

	bh, err := b.rpc.GetLatestBlockhash(ctx, b.token.commitment)
	if err != nil {
		return nil, &domain.LedgerError{Op: "latest_blockhash", Err: err}
	}
	blockhash, err := solanago.HashFromBase58(bh.Blockhash)
	if err != nil {
		return nil, &domain.LedgerError{Op: "latest_blockhash", Err: fmt.Errorf("parse blockhash: %w", err)}
	}

	payer := b.feePayer.PublicKey()
	tx, err := solanago.NewTransaction(
		[]solanago.Instruction{
			burnCheckedInstruction(b.token.program, ata, b.token.mint, ownerKey, amountRaw, b.token.decimals),
		},
		blockhash,
		solanago.TransactionPayer(payer),
	)
	if err != nil {
		return nil, fmt.Errorf("build transaction: %w", err)
	}
	if err := signAs(tx, b.feePayer); err != nil {
		return nil, err
	}

	wire, err := tx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("encode transaction: %w", err)
	}

	n := int(tx.Message.Header.NumRequiredSignatures)
	signers := make([]domain.SignerSlot, 0, n)
	for i := 0; i < n; i++ {
		signers = append(signers, domain.SignerSlot{
			Address: tx.Message.AccountKeys[i].String(),
			Signed:  tx.Signatures[i] != (solanago.Signature{}),
		})
	}

	return &domain.UnsignedTransaction{
		Encoded:   base64.StdEncoding.EncodeToString(wire),
		Blockhash: bh.Blockhash,
		FeePayer:  payer.String(),
		Signers:   signers,
	}, nil
}
