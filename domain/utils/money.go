package utils

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// RoundMoney rounds an amount to 2 decimal places, half away from zero
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// ApplyPercent computes amount * percent / 100 without rounding.
// 12.5 means 12.5%.
func ApplyPercent(amount, percent decimal.Decimal) decimal.Decimal {
	return amount.Mul(percent).Div(hundred)
}

// Discounted returns the amount left after taking discountPercent off
func Discounted(amount, discountPercent decimal.Decimal) decimal.Decimal {
	return amount.Sub(ApplyPercent(amount, discountPercent))
}

// SignedDelta formats a ledger delta with an explicit sign, e.g. "+550.00"
func SignedDelta(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return amount.StringFixed(2)
	}
	return "+" + amount.StringFixed(2)
}

// ValidPercent reports whether p lies in [0, 100]
func ValidPercent(p decimal.Decimal) bool {
	return !p.IsNegative() && p.LessThanOrEqual(hundred)
}
