package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// WagerStatus is the resolution state of a wager
type WagerStatus string

const (
	WagerStatusPending WagerStatus = "pending"
	WagerStatusWon     WagerStatus = "won"
	WagerStatusLost    WagerStatus = "lost"
)

// DiscountTier records which rate tier applied at placement
type DiscountTier string

const (
	DiscountTierStandard DiscountTier = "standard"
	DiscountTierSpecial  DiscountTier = "special"
	DiscountTierLastDay  DiscountTier = "last_day"
)

// Wager is a bet on one sub-type of a draw. Discount and payout are fixed at placement.
type Wager struct {
	ID              int64           `db:"id"`
	AccountID       int64           `db:"account_id"`
	DrawID          int64           `db:"draw_id"`
	SubType         SubType         `db:"sub_type"`
	Numeral         string          `db:"numeral"`
	Stake           decimal.Decimal `db:"stake"`
	Price           decimal.Decimal `db:"price"` // stake after discount, debited at placement
	DiscountPercent decimal.Decimal `db:"discount_percent"`
	PayoutPercent   decimal.Decimal `db:"payout_percent"`
	DiscountTier    DiscountTier    `db:"discount_tier"`
	Status          WagerStatus     `db:"status"`
	PlacedAt        time.Time       `db:"placed_at"`
	ResolvedAt      *time.Time      `db:"resolved_at"`
}

// IsPending returns true until the draw is resolved
func (w *Wager) IsPending() bool {
	return w.Status == WagerStatusPending
}
