package domain

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// EffectType names what a burn upgrade does in the game layer.
type EffectType string

const (
	EffectScoreMultiplier EffectType = "score_multiplier"
	EffectEnergyMax       EffectType = "energy_max"
	EffectEnergyPassive   EffectType = "energy_passive"
	EffectTapMultiplier   EffectType = "tap_multiplier"
	EffectUtility         EffectType = "utility"
)

// UpgradeEffect is opaque to settlement; it is echoed to clients.
type UpgradeEffect struct {
	Type  EffectType `json:"type"`
	Value float64    `json:"value,omitempty"`
}

// BurnUpgrade is a premium item bought by burning tokens. Each one can be
// purchased at most once per user.
type BurnUpgrade struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	Cost        int64         `json:"cost"` // raw units
	Effect      UpgradeEffect `json:"effect"`
}

// BurnUpgrades is the static catalog of one-time items.
var BurnUpgrades = []BurnUpgrade{
	{
		ID:          "diamond_hands",
		Name:        "Diamond Hands",
		Description: "Permanent +10% score multiplier on all earnings",
		Icon:        "diamond",
		Cost:        Tokens(100),
		Effect:      UpgradeEffect{Type: EffectScoreMultiplier, Value: 0.1},
	},
	{
		ID:          "energy_surge",
		Name:        "Energy Surge",
		Description: "Max energy increased from 100 to 150",
		Icon:        "battery-charging",
		Cost:        Tokens(250),
		Effect:      UpgradeEffect{Type: EffectEnergyMax, Value: 50},
	},
	{
		ID:          "auto_pilot",
		Name:        "Auto-Pilot",
		Description: "Auto-tappers run at 50% speed even at 0 energy",
		Icon:        "airplane",
		Cost:        Tokens(500),
		Effect:      UpgradeEffect{Type: EffectEnergyPassive, Value: 0.5},
	},
	{
		ID:          "golden_touch",
		Name:        "Golden Touch",
		Description: "+50 points per tap permanently",
		Icon:        "hand-left",
		Cost:        Tokens(1000),
		Effect:      UpgradeEffect{Type: EffectTapMultiplier, Value: 50},
	},
	{
		ID:          "buy_all",
		Name:        "Buy All",
		Description: "Buy all affordable shop upgrades with one tap",
		Icon:        "cart",
		Cost:        Tokens(200),
		Effect:      UpgradeEffect{Type: EffectUtility},
	},
	{
		ID:          "auto_claim",
		Name:        "Auto-Claim",
		Description: "Claim all pending rewards with one tap",
		Icon:        "gift",
		Cost:        Tokens(150),
		Effect:      UpgradeEffect{Type: EffectUtility},
	},
}

// RepeatableItem is bought any number of times; its price grows geometrically.
type RepeatableItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	BaseCost    int64  `json:"base_cost"`
	Multiplier  int64  `json:"cost_multiplier"`
}

// FuelCell refills energy. Cost doubles with every purchase: 10, 20, 40, 80...
var FuelCell = RepeatableItem{
	ID:          "fuel_cell",
	Name:        "Fuel Cell",
	Description: "Instantly refill energy to max (cost doubles each use)",
	Icon:        "flash",
	BaseCost:    Tokens(10),
	Multiplier:  2,
}

// ErrCostOverflow is returned when a repeatable item's price no longer fits in int64.
var ErrCostOverflow = errors.New("item cost overflows raw amount range")

// CostAfter returns base * multiplier^n for n prior purchases.
func (r RepeatableItem) CostAfter(n int) (int64, error) {
	if n < 0 {
		return 0, errors.New("negative purchase count")
	}
	cost := decimal.NewFromInt(r.BaseCost).
		Mul(decimal.NewFromInt(r.Multiplier).Pow(decimal.NewFromInt(int64(n))))
	if cost.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return 0, ErrCostOverflow
	}
	return cost.IntPart(), nil
}

// LookupUpgrade finds a one-time item by id.
func LookupUpgrade(id string) (BurnUpgrade, bool) {
	for _, u := range BurnUpgrades {
		if u.ID == id {
			return u, true
		}
	}
	return BurnUpgrade{}, false
}

// IsRepeatable reports whether itemID is the fuel-cell style item.
func IsRepeatable(itemID string) bool {
	return itemID == FuelCell.ID
}

// PricedItem is an item resolved to the price the user pays right now.
type PricedItem struct {
	ID         string
	Cost       int64
	Repeatable bool
	// Seq is the purchase ordinal recorded with the burn: 0 for one-time
	// items, prior purchase count for the repeatable item.
	Seq int
}
