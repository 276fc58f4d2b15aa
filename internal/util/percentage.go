package util

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// PercentageOf returns part/whole*100 rounded half-up to two places.
// A zero or negative whole yields exactly 0.
func PercentageOf(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() {
		return 0
	}
	return part.Mul(hundred).DivRound(whole, 2).InexactFloat64()
}
