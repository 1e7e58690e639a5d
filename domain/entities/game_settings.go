package entities

import (
	"time"
	_ "time/tzdata" // game time zones must resolve in minimal containers

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Rate is one row of a rate table: three discount tiers and the payout percent
type Rate struct {
	SubType          SubType         `json:"sub_type"`
	StandardDiscount decimal.Decimal `json:"standard_discount"`
	SpecialDiscount  decimal.Decimal `json:"special_discount"`
	LastDayDiscount  decimal.Decimal `json:"last_day_discount"`
	PayoutPercent    decimal.Decimal `json:"payout_percent"`
}

// MaxDiscount returns the largest of the three tier rates
func (r Rate) MaxDiscount() decimal.Decimal {
	return decimal.Max(r.StandardDiscount, r.SpecialDiscount, r.LastDayDiscount)
}

// RateTable maps each sub-type to its rates for one game type
type RateTable map[SubType]Rate

// BonusKind is what a bonus rule is triggered by
type BonusKind string

const (
	BonusKindReferral BonusKind = "referral"
	BonusKindRecharge BonusKind = "recharge"
	BonusKindWager    BonusKind = "wager"
)

// IsValid reports whether the kind is known
func (k BonusKind) IsValid() bool {
	return k == BonusKindReferral || k == BonusKindRecharge || k == BonusKindWager
}

// BonusRule pays BonusValue when a trigger exactly equals TargetValue
type BonusRule struct {
	ID          int64           `json:"id" db:"id"`
	Kind        BonusKind       `json:"kind" db:"kind"`
	TargetValue decimal.Decimal `json:"target_value" db:"target_value"`
	BonusValue  decimal.Decimal `json:"bonus_value" db:"bonus_value"`
}

// GameSettings is the configuration snapshot passed explicitly into one
// resolution or settlement call. It is never mutated after loading.
type GameSettings struct {
	GameType               string          `json:"game_type"`
	Rates                  RateTable       `json:"rates"`
	LastDayDiscountEnabled bool            `json:"last_day_discount_enabled"`
	LastDayCutoffHour      int             `json:"last_day_cutoff_hour"`
	LastDayCutoffMinute    int             `json:"last_day_cutoff_minute"`
	TimeZone               string          `json:"time_zone"`
	WithdrawalFeePercent   decimal.Decimal `json:"withdrawal_fee_percent"`
	BonusRules             []BonusRule     `json:"bonus_rules"`
	LoadedAt               time.Time       `json:"loaded_at"`
}

// Location resolves the game's time zone, defaulting to UTC
func (g *GameSettings) Location() *time.Location {
	if g.TimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(g.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RulesOfKind returns the bonus rules of one kind in their configured order
func (g *GameSettings) RulesOfKind(kind BonusKind) []BonusRule {
	return lo.Filter(g.BonusRules, func(r BonusRule, _ int) bool {
		return r.Kind == kind
	})
}
