package interfaces

import (
	"context"
	"time"

	"lottosettle/domain/entities"

	"github.com/shopspring/decimal"
)

// DrawService defines the interface for publishing and locking draw results
type DrawService interface {
	// PublishResult validates the raw results, derives every face and stores them.
	// Re-publishing an unlocked draw replaces all derived fields.
	PublishResult(ctx context.Context, drawID int64, straight, secondary string) (*entities.Draw, error)

	// EditResult replaces the result of an already published, unlocked draw
	EditResult(ctx context.Context, drawID int64, straight, secondary string) (*entities.Draw, error)

	// ToggleLock flips the draw's lock flag
	ToggleLock(ctx context.Context, drawID, actingAccountID int64) (*entities.Draw, error)
}

// SettlementService applies decisions to financial requests. It is the only
// component that changes an account's available amount for a request.
type SettlementService interface {
	// Settle applies the decision exactly once
	Settle(ctx context.Context, requestID int64, decision entities.Decision, actingAccountID int64, settings *entities.GameSettings) (*SettlementResult, error)
}

// RequestService creates pending recharge and withdrawal requests
type RequestService interface {
	// SubmitRecharge records a pending recharge
	SubmitRecharge(ctx context.Context, accountID int64, amount decimal.Decimal, method string) (*entities.FinancialRequest, error)

	// SubmitWithdrawal records a pending withdrawal. The fee is taken from the
	// processed amount only; the requested amount is what settlement debits.
	SubmitWithdrawal(ctx context.Context, accountID int64, amount decimal.Decimal, settings *entities.GameSettings) (*entities.FinancialRequest, error)
}

// WagerService defines the interface for placing and resolving wagers
type WagerService interface {
	// PlaceWager prices the wager, debits the buyer and stores the fixed payout rate
	PlaceWager(ctx context.Context, input PlaceWagerInput, settings *entities.GameSettings) (*PlaceWagerResult, error)

	// ResolveDraw matches pending wagers against a published draw. Winners get a
	// pending wager settlement request, losers are marked lost. A loser still holding
	// a pending settlement request from an earlier result has it declined by actingAccountID.
	ResolveDraw(ctx context.Context, drawID, actingAccountID int64) (*DrawResolution, error)
}

// ReferralService awards referral bonuses
type ReferralService interface {
	// AwardReferralBonus checks the referrer's eligibility and settles a bonus
	// when the referral count exactly matches a rule. Returns nil when no rule fires.
	AwardReferralBonus(ctx context.Context, referrerID, refereeID int64, settings *entities.GameSettings) (*SettlementResult, error)
}

// AccountService records non-money account changes with their ledger entries
type AccountService interface {
	// SetSpecialRate toggles special-account pricing and writes a permission entry
	SetSpecialRate(ctx context.Context, accountID int64, enabled bool, actingAccountID int64) error

	// UpdateBankDetails replaces bank details and writes a bank_details entry
	UpdateBankDetails(ctx context.Context, accountID int64, details entities.BankDetails, actingAccountID int64) error

	// History returns the account's ledger entries, newest first
	History(ctx context.Context, accountID int64, limit, offset int) ([]*entities.LedgerEntry, error)

	// RequestEntries returns the ledger entries written for one financial request
	RequestEntries(ctx context.Context, requestID int64) ([]*entities.LedgerEntry, error)
}

// SettingsService administers rate tables, bonus rules and game-level settings.
// Every write invalidates the cached snapshot of the game type.
type SettingsService interface {
	UpdateGameSettings(ctx context.Context, settings *entities.GameSettings) error
	UpsertRate(ctx context.Context, gameType string, rate entities.Rate) error
	ReplaceBonusRules(ctx context.Context, gameType string, rules []entities.BonusRule) error
}

// SettlementResult describes the outcome of one Settle call
type SettlementResult struct {
	Request       *entities.FinancialRequest
	Credited      decimal.Decimal
	Debited       decimal.Decimal
	BalanceAfter  *decimal.Decimal // nil when the balance was not touched
	LedgerEntries []*entities.LedgerEntry
	Bonus         *entities.BonusRule // matched recharge bonus, if any
}

// PlaceWagerInput is everything needed to price and store a wager
type PlaceWagerInput struct {
	AccountID int64
	DrawID    int64
	SubType   entities.SubType
	Numeral   string
	Stake     decimal.Decimal
	Now       time.Time
}

// PlaceWagerResult is the stored wager plus the resolved pricing
type PlaceWagerResult struct {
	Wager             *entities.Wager
	PayoutDescription string
	BalanceAfter      decimal.Decimal
	BonusRequest      *entities.FinancialRequest // queued when a wager bonus rule matched
}

// DrawResolution summarizes ResolveDraw
type DrawResolution struct {
	DrawID             int64
	Winners            []*entities.Wager
	Losers             []*entities.Wager
	SettlementRequests []*entities.FinancialRequest
	Voided             []*entities.FinancialRequest // declined because an edit turned the winner into a loser
}
