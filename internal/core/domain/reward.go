package domain

import "time"

// RewardStatus is the claim lifecycle of a milestone reward.
type RewardStatus string

const (
	RewardStatusPending RewardStatus = "pending"
	RewardStatusClaimed RewardStatus = "claimed"
)

// Reward is a token payout earned by reaching a game milestone.
type Reward struct {
	ID          int64        `json:"id"`
	UserID      string       `json:"user_id"`
	MilestoneID string       `json:"milestone_id"`
	AmountRaw   int64        `json:"amount_raw"`
	Status      RewardStatus `json:"status"`
	ClaimedAt   *time.Time   `json:"claimed_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	TxSignature *string      `json:"tx_signature,omitempty"`
}

// IsClaimed reports whether tokens were already sent for this reward.
func (r *Reward) IsClaimed() bool {
	return r.Status == RewardStatusClaimed
}

// MilestoneRewards maps milestone ids to their payout in raw units.
var MilestoneRewards = map[string]int64{
	"score_100":     Tokens(10),
	"score_1k":      Tokens(50),
	"score_10k":     Tokens(500),
	"score_100k":    Tokens(2_500),
	"score_1m":      Tokens(10_000),
	"taps_100":      Tokens(10),
	"taps_1k":       Tokens(100),
	"taps_10k":      Tokens(1_000),
	"first_upgrade": Tokens(25),
	"upgrades_5":    Tokens(250),
	"upgrades_10":   Tokens(5_000),
}

// MilestoneAmount returns the payout for a milestone, or false for unknown ids.
func MilestoneAmount(milestoneID string) (int64, bool) {
	amount, ok := MilestoneRewards[milestoneID]
	return amount, ok
}
