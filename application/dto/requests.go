package dto

import (
	"time"

	"lottosettle/domain/entities"
	"lottosettle/domain/interfaces"

	"github.com/shopspring/decimal"
)

// SettleRequestDTO is a decision on one financial request
type SettleRequestDTO struct {
	RequestID       int64
	Decision        entities.Decision
	ActingAccountID int64
	GameType        string // settings snapshot used for bonus rules; empty means the default game
}

// PublishDrawDTO carries the raw results of a draw
type PublishDrawDTO struct {
	DrawID          int64
	StraightResult  string
	SecondaryResult string
	ActingAccountID int64
	Edit            bool
	SettleWinners   bool // approve every winner's payout request right after resolution
}

// DrawPublicationResult is the outcome of publishing a draw and resolving its wagers
type DrawPublicationResult struct {
	Draw       *entities.Draw
	Resolution *interfaces.DrawResolution
	Settled    []int64         // request ids approved after publication
	Failed     map[int64]error // request ids whose settlement failed, left pending
}

// CreateDrawDTO registers an upcoming draw
type CreateDrawDTO struct {
	GameType       string
	DrawNumber     string
	LastBettingDay time.Time
}

// PlaceWagerDTO is a customer's wager
type PlaceWagerDTO struct {
	AccountID int64
	DrawID    int64
	SubType   entities.SubType
	Numeral   string
	Stake     decimal.Decimal
}

// RegisterAccountDTO creates an account, optionally referred by another one
type RegisterAccountDTO struct {
	Username   string
	Role       entities.Role
	ReferredBy *int64
	Bank       entities.BankDetails
	GameType   string // settings used to evaluate the referral bonus
}

// RegisterAccountResult is the new account plus the referral bonus it triggered, if any
type RegisterAccountResult struct {
	Account       *entities.Account
	ReferralBonus *interfaces.SettlementResult
}

// RechargeDTO records a pending top-up
type RechargeDTO struct {
	AccountID int64
	Amount    decimal.Decimal
	Method    string
}

// WithdrawalDTO records a pending withdrawal
type WithdrawalDTO struct {
	AccountID int64
	Amount    decimal.Decimal
	GameType  string // fee percent comes from this game's settings
}

// HistoryDTO pages through an account's ledger
type HistoryDTO struct {
	AccountID int64
	Limit     int
	Offset    int
}
