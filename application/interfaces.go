package application

import (
	"context"

	"lottosettle/application/dto"
	"lottosettle/domain/entities"
	"lottosettle/domain/interfaces"
)

// SettlementHandler applies staff or job decisions to financial requests.
// Each call is one unit of work.
type SettlementHandler interface {
	// Settle approves or declines a request exactly once
	Settle(ctx context.Context, req dto.SettleRequestDTO) (*interfaces.SettlementResult, error)
}

// DrawHandler manages draws and their published results
type DrawHandler interface {
	// CreateDraw registers an upcoming draw that accepts wagers until published
	CreateDraw(ctx context.Context, req dto.CreateDrawDTO) (*entities.Draw, error)

	// PublishDraw derives and stores the result, then resolves pending wagers in the same transaction
	PublishDraw(ctx context.Context, req dto.PublishDrawDTO) (*dto.DrawPublicationResult, error)

	// ToggleLock flips the lock flag of a draw
	ToggleLock(ctx context.Context, drawID, actingAccountID int64) (*entities.Draw, error)
}

// WagerHandler places wagers
type WagerHandler interface {
	PlaceWager(ctx context.Context, req dto.PlaceWagerDTO) (*interfaces.PlaceWagerResult, error)
}

// AccountHandler covers account registration, requests and non-money updates
type AccountHandler interface {
	RegisterAccount(ctx context.Context, req dto.RegisterAccountDTO) (*dto.RegisterAccountResult, error)
	SubmitRecharge(ctx context.Context, req dto.RechargeDTO) (*entities.FinancialRequest, error)
	SubmitWithdrawal(ctx context.Context, req dto.WithdrawalDTO) (*entities.FinancialRequest, error)
	SetSpecialRate(ctx context.Context, accountID int64, enabled bool, actingAccountID int64) error
	UpdateBankDetails(ctx context.Context, accountID int64, details entities.BankDetails, actingAccountID int64) error
	History(ctx context.Context, req dto.HistoryDTO) ([]*entities.LedgerEntry, error)
	RequestEntries(ctx context.Context, requestID int64) ([]*entities.LedgerEntry, error)
}

// SettingsHandler administers rate tables and bonus rules
type SettingsHandler interface {
	UpdateGameSettings(ctx context.Context, settings *entities.GameSettings) error
	UpsertRate(ctx context.Context, gameType string, rate entities.Rate) error
	ReplaceBonusRules(ctx context.Context, gameType string, rules []entities.BonusRule) error
}

// CommandHandler dispatches inbound command envelopes.
// A returned error means the message should be redelivered.
type CommandHandler interface {
	HandleCommand(ctx context.Context, envelope dto.CommandEnvelope) error
}
