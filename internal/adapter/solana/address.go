package solana

import (
	"fmt"

	solanago "github.com/gagliardetto/solana-go"
)

// AssociatedTokenAddress returns the canonical token account of owner for
// mint under the given token program.
func AssociatedTokenAddress(owner, mint, tokenProgram solanago.PublicKey) (solanago.PublicKey, error) {
	ata, _, err := solanago.FindProgramAddress(
		[][]byte{owner.Bytes(), tokenProgram.Bytes(), mint.Bytes()},
		solanago.SPLAssociatedTokenAccountProgramID,
	)
	return ata, err
}

// ParseAddress decodes a base58 account address.
func ParseAddress(s string) (solanago.PublicKey, error) {
	pk, err := solanago.PublicKeyFromBase58(s)
	if err != nil {
		return solanago.PublicKey{}, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return pk, nil
}

// ParseSigner decodes an address that must be able to sign, which rules out
// program-derived (off-curve) addresses.
func ParseSigner(s string) (solanago.PublicKey, error) {
	pk, err := ParseAddress(s)
	if err != nil {
		return pk, err
	}
	if !solanago.IsOnCurve(pk.Bytes()) {
		return solanago.PublicKey{}, fmt.Errorf("address %q is not a signing key", s)
	}
	return pk, nil
}
