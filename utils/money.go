package utils

import "github.com/shopspring/decimal"

// DollarsToCents converts a dollar amount to integer cents, rounding to
// the nearest cent. Decimal arithmetic keeps two-decimal inputs exact.
func DollarsToCents(dollars float64) int64 {
	return decimal.NewFromFloat(dollars).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// CentsToDollars converts integer cents back to a dollar amount.
func CentsToDollars(cents int64) float64 {
	v, _ := decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).Float64()
	return v
}
