package interfaces

import (
	"context"

	"lottosettle/domain/entities"
	"lottosettle/domain/events"

	"github.com/shopspring/decimal"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// GetByID retrieves an account, returning nil when it does not exist
	GetByID(ctx context.Context, id int64) (*entities.Account, error)

	// GetByIDForUpdate retrieves an account and locks its row until the transaction ends
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Account, error)

	// Create inserts a new account and fills in its ID and timestamps
	Create(ctx context.Context, account *entities.Account) error

	// Credit atomically adds amount to the available balance and returns the new balance
	Credit(ctx context.Context, id int64, amount decimal.Decimal) (decimal.Decimal, error)

	// Debit atomically subtracts amount only if the balance covers it.
	// Returns InsufficientBalanceError otherwise.
	Debit(ctx context.Context, id int64, amount decimal.Decimal) (decimal.Decimal, error)

	// SetSpecialRate updates the special-account discount flag
	SetSpecialRate(ctx context.Context, id int64, enabled bool) error

	// UpdateBankDetails replaces the withdrawal counterparty details
	UpdateBankDetails(ctx context.Context, id int64, details entities.BankDetails) error

	// CountReferrals returns how many accounts name referrerID as their referrer
	CountReferrals(ctx context.Context, referrerID int64) (int64, error)
}

// DrawRepository defines the interface for draw data access
type DrawRepository interface {
	// Create inserts an unpublished draw for a game instance
	Create(ctx context.Context, draw *entities.Draw) error

	// GetByID retrieves a draw by its ID
	GetByID(ctx context.Context, id int64) (*entities.Draw, error)

	// GetByIDForUpdate retrieves a draw with a row lock
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Draw, error)

	// GetByGameAndNumber retrieves a draw by its (game type, draw number) pair
	GetByGameAndNumber(ctx context.Context, gameType, drawNumber string) (*entities.Draw, error)

	// SaveResult writes raw and derived results in a single statement.
	// It only applies while the draw is unlocked and returns DrawLockedError otherwise.
	SaveResult(ctx context.Context, draw *entities.Draw) error

	// SetLocked sets the lock flag
	SetLocked(ctx context.Context, id int64, locked bool) error
}

// FinancialRequestRepository defines the interface for financial request data access
type FinancialRequestRepository interface {
	// Create inserts a pending request
	Create(ctx context.Context, request *entities.FinancialRequest) error

	// GetByID retrieves a request by its ID
	GetByID(ctx context.Context, id int64) (*entities.FinancialRequest, error)

	// GetByWagerID retrieves the settlement request for a wager
	GetByWagerID(ctx context.Context, wagerID int64) (*entities.FinancialRequest, error)

	// CompleteIfPending is the idempotency compare-and-set: it marks the request
	// completed with the given status only if it is not completed yet.
	// Returns false when another caller got there first.
	CompleteIfPending(ctx context.Context, id int64, status entities.RequestStatus, decidedBy int64) (bool, error)

	// ListPending returns uncompleted requests of a kind, oldest first
	ListPending(ctx context.Context, kind entities.RequestKind, limit int) ([]*entities.FinancialRequest, error)
}

// WagerRepository defines the interface for wager data access
type WagerRepository interface {
	// Create inserts a wager
	Create(ctx context.Context, wager *entities.Wager) error

	// GetByID retrieves a wager by its ID
	GetByID(ctx context.Context, id int64) (*entities.Wager, error)

	// ListPendingByDraw returns all unresolved wagers on a draw
	ListPendingByDraw(ctx context.Context, drawID int64) ([]*entities.Wager, error)

	// MarkResolved moves a pending wager to won or lost. Returns false if it was already resolved.
	MarkResolved(ctx context.Context, id int64, status entities.WagerStatus) (bool, error)
}

// LedgerRepository defines the interface for the append-only ledger
type LedgerRepository interface {
	// Append records a new ledger entry and fills in its ID and CreatedAt
	Append(ctx context.Context, entry *entities.LedgerEntry) error

	// ListByAccount returns entries for an account, newest first
	ListByAccount(ctx context.Context, accountID int64, limit, offset int) ([]*entities.LedgerEntry, error)

	// ListByRequest returns entries written for a financial request, oldest first
	ListByRequest(ctx context.Context, requestID int64) ([]*entities.LedgerEntry, error)
}

// SettingsRepository defines the interface for game settings, rate tables and bonus rules
type SettingsRepository interface {
	// LoadSnapshot reads the full configuration for a game type
	LoadSnapshot(ctx context.Context, gameType string) (*entities.GameSettings, error)

	// UpsertGameSettings writes the game-level fields (cutoff, zone, fee)
	UpsertGameSettings(ctx context.Context, settings *entities.GameSettings) error

	// UpsertRate writes one rate table row
	UpsertRate(ctx context.Context, gameType string, rate entities.Rate) error

	// ReplaceBonusRules replaces all bonus rules of a game type, keeping the given order
	ReplaceBonusRules(ctx context.Context, gameType string, rules []entities.BonusRule) error
}

// SettingsProvider hands out configuration snapshots, possibly from a cache
type SettingsProvider interface {
	// Snapshot returns the settings for a game type
	Snapshot(ctx context.Context, gameType string) (*entities.GameSettings, error)

	// Invalidate drops any cached snapshot for a game type
	Invalidate(ctx context.Context, gameType string) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher holds events until the surrounding transaction commits
type TransactionalEventPublisher interface {
	EventPublisher

	// Flush publishes all pending events
	Flush(ctx context.Context) error

	// Discard drops all pending events
	Discard()
}
