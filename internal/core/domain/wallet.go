package domain

import "time"

// WalletAddress links a user to an on-chain address. Owned by the auth
// service; read-only here.
type WalletAddress struct {
	UserID    string    `json:"user_id"`
	Address   string    `json:"address"`
	Cluster   string    `json:"cluster"`
	IsPrimary bool      `json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
}
