package domain

import (
	"errors"
	"time"
)

// ErrConflict is returned by the purchase ledger when a row for the same
// (user, item, seq) key already exists.
var ErrConflict = errors.New("purchase already recorded")

// ErrSignatureReused is returned when a burn signature is already bound to
// another purchase.
var ErrSignatureReused = errors.New("burn signature already recorded")

// Purchase is a confirmed burn. Rows are append-only.
type Purchase struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	ItemID      string    `json:"item_id"`
	Seq         int       `json:"seq"`
	AmountRaw   int64     `json:"amount_raw"`
	TxSignature *string   `json:"tx_signature,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// LeaderboardEntry is one user's burned total.
type LeaderboardEntry struct {
	UserID         string `json:"user_id"`
	TotalBurnedRaw int64  `json:"total_burned_raw"`
}
