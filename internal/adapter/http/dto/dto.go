package dto

// PrepareBurnRequest is the request body for POST /burn/prepare.
type PrepareBurnRequest struct {
	ItemID string `json:"item_id" binding:"required,max=64,safe_id"`
}

// ConfirmBurnRequest is the request body for POST /burn/confirm.
// Signature is the burn transaction signature the wallet submitted.
type ConfirmBurnRequest struct {
	ItemID    string `json:"item_id" binding:"required,max=64,safe_id"`
	Signature string `json:"signature,omitempty" binding:"omitempty,max=100,tx_signature"`
}

// GrantMilestonesRequest is the request body for POST /internal/rewards/milestones.
// The game server names the player; users cannot grant themselves rewards.
type GrantMilestonesRequest struct {
	UserID       string   `json:"user_id" binding:"required,max=64,safe_id"`
	MilestoneIDs []string `json:"milestone_ids" binding:"required,min=1,max=32,dive,max=64,safe_id"`
}

// PrepareBurnResponse carries the partially signed burn transaction.
type PrepareBurnResponse struct {
	Transaction    string   `json:"transaction"` // base64 wire format
	ItemID         string   `json:"item_id"`
	BurnAmount     float64  `json:"burn_amount"`
	BurnAmountRaw  int64    `json:"burn_amount_raw"`
	Blockhash      string   `json:"blockhash"`
	FeePayer       string   `json:"fee_payer"`
	PendingSigners []string `json:"pending_signers"`
}

// PurchaseResponse is a recorded burn.
type PurchaseResponse struct {
	ID          int64   `json:"id"`
	UserID      string  `json:"user_id"`
	ItemID      string  `json:"item_id"`
	Amount      float64 `json:"amount"`
	AmountRaw   int64   `json:"amount_raw"`
	TxSignature *string `json:"tx_signature,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// SpendableBalanceResponse is the response for GET /burn/spendable-balance.
type SpendableBalanceResponse struct {
	Spendable      float64 `json:"spendable"`
	SpendableRaw   string  `json:"spendable_raw"` // u64, may exceed JSON-safe integers
	TotalBurned    float64 `json:"total_burned"`
	TotalBurnedRaw int64   `json:"total_burned_raw"`
}

// UpgradeResponse is a catalog entry.
type UpgradeResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Cost        float64 `json:"cost"`
	CostRaw     int64   `json:"cost_raw"`
	EffectType  string  `json:"effect_type"`
	EffectValue float64 `json:"effect_value,omitempty"`
}

// FuelCellResponse prices the next fuel cell for the caller.
type FuelCellResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Icon           string  `json:"icon"`
	TimesPurchased int     `json:"times_purchased"`
	Cost           float64 `json:"cost"`
	CostRaw        int64   `json:"cost_raw"`
}

// LeaderboardEntryResponse is one ranked burner.
type LeaderboardEntryResponse struct {
	Rank           int     `json:"rank"`
	UserID         string  `json:"user_id"`
	TotalBurned    float64 `json:"total_burned"`
	TotalBurnedRaw int64   `json:"total_burned_raw"`
}

// RewardResponse is a milestone reward.
type RewardResponse struct {
	ID          int64   `json:"id"`
	MilestoneID string  `json:"milestone_id"`
	Amount      float64 `json:"amount"`
	AmountRaw   int64   `json:"amount_raw"`
	Status      string  `json:"status"`
	TxSignature *string `json:"tx_signature,omitempty"`
	ClaimedAt   *string `json:"claimed_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// RewardBalanceResponse is the response for GET /rewards/balance.
type RewardBalanceResponse struct {
	Balance float64 `json:"balance"`
}

// GrantMilestonesResponse lists the milestones that produced new rewards.
type GrantMilestonesResponse struct {
	Granted []string `json:"granted"`
}
