package domain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// TokenDecimals is the STACK mint's decimal places. Catalog prices are
// expressed in raw units at this precision.
const TokenDecimals uint8 = 9

// TokenSymbol is shown in user-facing messages.
const TokenSymbol = "STACK"

// rawPerToken is 10^TokenDecimals.
const rawPerToken int64 = 1_000_000_000

// Tokens converts a whole-token amount to raw units.
func Tokens(n int64) int64 {
	return n * rawPerToken
}

// ToDisplay converts a raw amount to human-readable units.
func ToDisplay(raw int64, decimals uint8) decimal.Decimal {
	return decimal.New(raw, -int32(decimals))
}

// UintToDisplay is ToDisplay for on-chain u64 amounts.
func UintToDisplay(raw uint64, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(raw), -int32(decimals))
}

// DisplayFloat is the float form used in JSON responses.
func DisplayFloat(raw int64, decimals uint8) float64 {
	return ToDisplay(raw, decimals).InexactFloat64()
}
