package ports

import (
	"context"
	"time"

	"stack-settlement/internal/core/domain"
)

// TokenService validates bearer sessions. Generate exists for the auth
// service and for tests; this service never issues sessions to end users.
type TokenService interface {
	Generate(userID string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID string
}

// --- Service Ports (Business Logic) ---

// SettlementService is the two-phase burn protocol plus its read side.
type SettlementService interface {
	Prepare(ctx context.Context, userID, itemID string) (*PrepareResult, error)
	Confirm(ctx context.Context, req ConfirmRequest) (*PurchaseResult, error)
	SpendableBalance(ctx context.Context, userID string) (*SpendableBalance, error)
	Upgrades() []UpgradeView
	Purchased(ctx context.Context, userID string) ([]string, error)
	FuelCellInfo(ctx context.Context, userID string) (*FuelCellInfo, error)
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardView, error)
}

// ConfirmRequest is the input of the confirm phase. Signature is optional;
// when present the burn is verified by transaction instead of balance delta.
type ConfirmRequest struct {
	UserID    string
	ItemID    string
	Signature string
}

// PrepareResult is handed to the wallet for co-signing.
type PrepareResult struct {
	Transaction       string
	ItemID            string
	BurnAmountRaw     int64
	BurnAmountDisplay float64
	Blockhash         string
	FeePayer          string
	PendingSigners    []string
}

// PurchaseResult is a recorded burn with its display amount.
type PurchaseResult struct {
	ID            int64
	UserID        string
	ItemID        string
	AmountRaw     int64
	AmountDisplay float64
	TxSignature   *string
	CreatedAt     time.Time
}

// SpendableBalance is the on-chain balance next to the burned total.
type SpendableBalance struct {
	SpendableRaw       uint64
	SpendableDisplay   float64
	TotalBurnedRaw     int64
	TotalBurnedDisplay float64
}

// UpgradeView is a catalog entry with its display price.
type UpgradeView struct {
	domain.BurnUpgrade
	DisplayCost float64
}

// FuelCellInfo is the repeatable item priced for a specific user.
type FuelCellInfo struct {
	domain.RepeatableItem
	TimesPurchased int
	Cost           int64
	DisplayCost    float64
}

// LeaderboardView is a leaderboard row with its display amount.
type LeaderboardView struct {
	UserID             string
	TotalBurnedRaw     int64
	TotalBurnedDisplay float64
}

// RewardService pays out milestone rewards.
type RewardService interface {
	List(ctx context.Context, userID string) ([]RewardView, error)
	Balance(ctx context.Context, userID string) (float64, error)
	Claim(ctx context.Context, userID string, rewardID int64) (*RewardView, error)
	GrantMilestones(ctx context.Context, userID string, milestoneIDs []string) ([]string, error)
}

// RewardView is a reward with its display amount.
type RewardView struct {
	domain.Reward
	AmountDisplay float64
}

// FeePayerService reports whether the service signer can pay fees.
type FeePayerService interface {
	Balance(ctx context.Context) (*FeePayerBalance, error)
}

// FeePayerBalance is the fee payer's SOL funding state.
type FeePayerBalance struct {
	Address    string  `json:"address"`
	Lamports   uint64  `json:"lamports"`
	SOL        float64 `json:"sol"`
	Funded     bool    `json:"funded"`
	LowBalance bool    `json:"low_balance"`
}

// AuditService records audit events without blocking the caller.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}

// Analytics sends best-effort product events. Failures never surface.
type Analytics interface {
	Track(ctx context.Context, event string, data map[string]any)
}
