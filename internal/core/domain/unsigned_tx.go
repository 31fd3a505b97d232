package domain

// SignerSlot is one required signature of a built transaction.
type SignerSlot struct {
	Address string `json:"address"`
	Signed  bool   `json:"signed"`
}

// UnsignedTransaction is a wire-encoded transaction the service has signed
// as fee payer. The remaining slots are obligations for the caller's wallet.
type UnsignedTransaction struct {
	Encoded   string       `json:"transaction"` // base64 wire format
	Blockhash string       `json:"blockhash"`
	FeePayer  string       `json:"fee_payer"`
	Signers   []SignerSlot `json:"signers"`
}

// PendingSigners lists the addresses that still have to sign.
func (t *UnsignedTransaction) PendingSigners() []string {
	var out []string
	for _, s := range t.Signers {
		if !s.Signed {
			out = append(out, s.Address)
		}
	}
	return out
}
