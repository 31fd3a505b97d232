package solana

import (
	"fmt"
	"time"

	solanago "github.com/gagliardetto/solana-go"
)

// Options describes the token the adapters operate on and how long to wait
// for confirmations.
type Options struct {
	Mint           string
	TokenProgramID string
	Decimals       uint8
	Commitment     string
	ConfirmTimeout time.Duration
	PollInterval   time.Duration
}

type tokenInfo struct {
	mint       solanago.PublicKey
	program    solanago.PublicKey
	decimals   uint8
	commitment string
}

func (o Options) token() (tokenInfo, error) {
	mint, err := ParseAddress(o.Mint)
	if err != nil {
		return tokenInfo{}, fmt.Errorf("mint: %w", err)
	}
	program, err := ParseAddress(o.TokenProgramID)
	if err != nil {
		return tokenInfo{}, fmt.Errorf("token program: %w", err)
	}
	commitment := o.Commitment
	if commitment == "" {
		commitment = "confirmed"
	}
	return tokenInfo{mint: mint, program: program, decimals: o.Decimals, commitment: commitment}, nil
}

func (t tokenInfo) ata(owner solanago.PublicKey) (solanago.PublicKey, error) {
	return AssociatedTokenAddress(owner, t.mint, t.program)
}

// signAs fills every required signature slot that belongs to key and
// leaves the others zeroed.
func signAs(tx *solanago.Transaction, key solanago.PrivateKey) error {
	msg, err := tx.Message.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	sig, err := key.Sign(msg)
	if err != nil {
		return fmt.Errorf("sign message: %w", err)
	}

	n := int(tx.Message.Header.NumRequiredSignatures)
	if len(tx.Signatures) != n {
		tx.Signatures = make([]solanago.Signature, n)
	}
	signer := key.PublicKey()
	for i := 0; i < n; i++ {
		if tx.Message.AccountKeys[i].Equals(signer) {
			tx.Signatures[i] = sig
		}
	}
	return nil
}
