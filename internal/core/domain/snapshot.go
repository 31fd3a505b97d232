package domain

import "time"

// BalanceSnapshot is the token balance observed when a burn was prepared.
// It is the baseline the confirm step compares against.
type BalanceSnapshot struct {
	UserID     string    `json:"user_id"`
	AmountRaw  uint64    `json:"amount_raw"`
	Decimals   uint8     `json:"decimals"`
	UIAmount   float64   `json:"ui_amount"`
	CapturedAt time.Time `json:"captured_at"`
}

// FreshAt reports whether the snapshot is still inside its validity window.
func (s *BalanceSnapshot) FreshAt(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.CapturedAt) < ttl
}

// TokenBalance is an SPL token balance. A missing token account reads as zero.
type TokenBalance struct {
	AmountRaw uint64  `json:"amount_raw"`
	Decimals  uint8   `json:"decimals"`
	UIAmount  float64 `json:"ui_amount"`
}
