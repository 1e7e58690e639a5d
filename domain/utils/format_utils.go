package utils

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FormatMultiplier renders a payout percent as a stake multiplier, e.g. 55000 -> "550x", 950 -> "9.5x"
func FormatMultiplier(payoutPercent decimal.Decimal) string {
	return payoutPercent.Div(hundred).String() + "x"
}

// FormatPercent renders a percent without trailing zeros, e.g. "12.5%"
func FormatPercent(percent decimal.Decimal) string {
	return percent.String() + "%"
}

// FormatPayoutDescription is the human-readable pricing line shown for a wager
func FormatPayoutDescription(displayName string, payoutPercent, discountPercent decimal.Decimal) string {
	if discountPercent.IsZero() {
		return fmt.Sprintf("%s pays %s stake", displayName, FormatMultiplier(payoutPercent))
	}
	return fmt.Sprintf("%s pays %s stake, %s discount", displayName, FormatMultiplier(payoutPercent), FormatPercent(discountPercent))
}
