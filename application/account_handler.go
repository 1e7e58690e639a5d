package application

import (
	"context"
	"fmt"
	"strings"

	"lottosettle/application/dto"
	"lottosettle/domain/entities"
	"lottosettle/domain/interfaces"
	"lottosettle/domain/services"
	"lottosettle/infrastructure/observability"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const maxHistoryPage = 200

// AccountHandlerImpl implements the AccountHandler interface
type AccountHandlerImpl struct {
	uowFactory UnitOfWorkFactory
	settings   settingsSource
	metrics    *observability.MetricsProvider
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(
	uowFactory UnitOfWorkFactory,
	settingsProvider interfaces.SettingsProvider,
	metrics *observability.MetricsProvider,
	defaultGameType string,
) AccountHandler {
	return &AccountHandlerImpl{
		uowFactory: uowFactory,
		settings:   settingsSource{provider: settingsProvider, defaultGameType: defaultGameType},
		metrics:    metrics,
	}
}

// RegisterAccount creates an account. When it was referred, the referrer's bonus is
// evaluated and settled in the same transaction, with the new account as the acting account.
func (h *AccountHandlerImpl) RegisterAccount(ctx context.Context, req dto.RegisterAccountDTO) (*dto.RegisterAccountResult, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, entities.NewInvalidInput("username", "username is required")
	}
	if req.Role != "" && !req.Role.IsValid() {
		return nil, entities.NewInvalidInput("role", "unknown role %q", req.Role)
	}

	var snapshot *entities.GameSettings
	if req.ReferredBy != nil {
		var err error
		if snapshot, err = h.settings.optional(ctx, req.GameType); err != nil {
			return nil, err
		}
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	// Registrations under one referrer serialize on the referrer row, so each
	// one counts the referrals committed before it plus itself.
	if req.ReferredBy != nil {
		referrer, err := uow.AccountRepository().GetByIDForUpdate(ctx, *req.ReferredBy)
		if err != nil {
			return nil, fmt.Errorf("failed to get referrer: %w", err)
		}
		if referrer == nil {
			return nil, &entities.NotFoundError{Resource: "account", ID: *req.ReferredBy}
		}
	}

	account := &entities.Account{
		Username:        username,
		Role:            req.Role,
		AvailableAmount: decimal.Zero,
		ReferredBy:      req.ReferredBy,
		Bank:            req.Bank,
	}
	if err := uow.AccountRepository().Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	result := &dto.RegisterAccountResult{Account: account}
	if req.ReferredBy != nil {
		settlementService := services.NewSettlementService(
			uow.AccountRepository(),
			uow.FinancialRequestRepository(),
			uow.WagerRepository(),
			uow.LedgerRepository(),
			uow.EventBus(),
		)
		referralService := services.NewReferralService(uow.AccountRepository(), uow.FinancialRequestRepository(), settlementService)

		done := h.metrics.MeasureSettlement(string(entities.RequestKindBonus))
		bonus, err := referralService.AwardReferralBonus(ctx, *req.ReferredBy, account.ID, snapshot)
		if err != nil {
			done(settlementOutcome(entities.DecisionApproved, err))
			return nil, err
		}
		if bonus != nil {
			done(observability.OutcomeApproved)
		}
		result.ReferralBonus = bonus
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"accountID":  account.ID,
		"username":   account.Username,
		"referredBy": req.ReferredBy,
		"bonusPaid":  result.ReferralBonus != nil,
	}).Info("Account registered")

	return result, nil
}

// SubmitRecharge records a pending recharge request
func (h *AccountHandlerImpl) SubmitRecharge(ctx context.Context, req dto.RechargeDTO) (*entities.FinancialRequest, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	request, err := services.NewRequestService(uow.AccountRepository(), uow.FinancialRequestRepository()).
		SubmitRecharge(ctx, req.AccountID, req.Amount, req.Method)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return request, nil
}

// SubmitWithdrawal records a pending withdrawal request with the game's fee
func (h *AccountHandlerImpl) SubmitWithdrawal(ctx context.Context, req dto.WithdrawalDTO) (*entities.FinancialRequest, error) {
	snapshot, err := h.settings.optional(ctx, req.GameType)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	request, err := services.NewRequestService(uow.AccountRepository(), uow.FinancialRequestRepository()).
		SubmitWithdrawal(ctx, req.AccountID, req.Amount, snapshot)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return request, nil
}

// SetSpecialRate toggles special-account pricing
func (h *AccountHandlerImpl) SetSpecialRate(ctx context.Context, accountID int64, enabled bool, actingAccountID int64) error {
	return h.withAccountService(ctx, func(accountService interfaces.AccountService) error {
		return accountService.SetSpecialRate(ctx, accountID, enabled, actingAccountID)
	})
}

// UpdateBankDetails replaces the account's bank details
func (h *AccountHandlerImpl) UpdateBankDetails(ctx context.Context, accountID int64, details entities.BankDetails, actingAccountID int64) error {
	return h.withAccountService(ctx, func(accountService interfaces.AccountService) error {
		return accountService.UpdateBankDetails(ctx, accountID, details, actingAccountID)
	})
}

// History pages through an account's ledger, newest first
func (h *AccountHandlerImpl) History(ctx context.Context, req dto.HistoryDTO) ([]*entities.LedgerEntry, error) {
	limit := req.Limit
	if limit <= 0 || limit > maxHistoryPage {
		limit = maxHistoryPage
	}
	offset := max(req.Offset, 0)

	var entries []*entities.LedgerEntry
	err := h.withAccountService(ctx, func(accountService interfaces.AccountService) error {
		var err error
		entries, err = accountService.History(ctx, req.AccountID, limit, offset)
		return err
	})
	return entries, err
}

// RequestEntries returns every ledger entry written for a financial request
func (h *AccountHandlerImpl) RequestEntries(ctx context.Context, requestID int64) ([]*entities.LedgerEntry, error) {
	var entries []*entities.LedgerEntry
	err := h.withAccountService(ctx, func(accountService interfaces.AccountService) error {
		var err error
		entries, err = accountService.RequestEntries(ctx, requestID)
		return err
	})
	return entries, err
}

func (h *AccountHandlerImpl) withAccountService(ctx context.Context, fn func(interfaces.AccountService) error) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := fn(services.NewAccountService(uow.AccountRepository(), uow.LedgerRepository(), uow.EventBus())); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
