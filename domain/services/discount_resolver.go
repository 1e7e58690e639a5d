package services

import (
	"time"

	"lottosettle/domain/entities"
	"lottosettle/domain/utils"

	"github.com/shopspring/decimal"
)

// DiscountInput is what the resolver needs to price one wager
type DiscountInput struct {
	SubType          entities.SubType
	IsSpecialAccount bool
	Now              time.Time
	LastBettingDay   time.Time // calendar date of the draw's final betting day
}

// DiscountQuote is the resolved pricing for a wager
type DiscountQuote struct {
	SubType           entities.SubType
	DiscountPercent   decimal.Decimal
	PayoutPercent     decimal.Decimal
	Tier              entities.DiscountTier
	PayoutDescription string
}

// ResolveDiscount picks exactly one discount tier for a wager.
// Priority: special account, then the last-day window, then standard. Rates are never combined.
func ResolveDiscount(input DiscountInput, settings *entities.GameSettings) (*DiscountQuote, error) {
	spec, ok := input.SubType.Spec()
	if !ok {
		return nil, entities.NewInvalidInput("sub_type", "unknown sub-type %q", input.SubType)
	}
	if settings == nil {
		return nil, entities.NewInvalidInput("settings", "no game settings loaded")
	}
	rate, ok := settings.Rates[input.SubType]
	if !ok {
		return nil, entities.NewInvalidInput("sub_type", "no rate configured for %s in game %s", input.SubType, settings.GameType)
	}

	quote := &DiscountQuote{
		SubType:       input.SubType,
		PayoutPercent: rate.PayoutPercent,
	}
	switch {
	case input.IsSpecialAccount:
		quote.Tier = entities.DiscountTierSpecial
		quote.DiscountPercent = rate.SpecialDiscount
	case IsLastDayWindow(input.Now, input.LastBettingDay, settings):
		quote.Tier = entities.DiscountTierLastDay
		quote.DiscountPercent = rate.LastDayDiscount
	default:
		quote.Tier = entities.DiscountTierStandard
		quote.DiscountPercent = rate.StandardDiscount
	}
	quote.PayoutDescription = utils.FormatPayoutDescription(spec.DisplayName, quote.PayoutPercent, quote.DiscountPercent)

	return quote, nil
}

// IsLastDayWindow is true when the feature is enabled, now falls on the draw's last
// betting day in the game's time zone, and the time of day is at or past the cutoff.
func IsLastDayWindow(now, lastBettingDay time.Time, settings *entities.GameSettings) bool {
	if settings == nil || !settings.LastDayDiscountEnabled || lastBettingDay.IsZero() {
		return false
	}

	local := now.In(settings.Location())
	ly, lm, ld := local.Date()
	// Dates are stored without a zone; read their calendar fields as-is
	by, bm, bd := lastBettingDay.Date()
	if ly != by || lm != bm || ld != bd {
		return false
	}

	cutoff := settings.LastDayCutoffHour*60 + settings.LastDayCutoffMinute
	return local.Hour()*60+local.Minute() >= cutoff
}
