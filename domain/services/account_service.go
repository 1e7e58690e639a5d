package services

import (
	"context"
	"fmt"
	"strconv"

	"lottosettle/domain/entities"
	"lottosettle/domain/interfaces"
	"lottosettle/domain/utils"
)

const accountsCollection = "accounts"

type accountService struct {
	accountRepo    interfaces.AccountRepository
	ledgerRepo     interfaces.LedgerRepository
	eventPublisher interfaces.EventPublisher
}

// NewAccountService creates a new account service
func NewAccountService(accountRepo interfaces.AccountRepository, ledgerRepo interfaces.LedgerRepository, eventPublisher interfaces.EventPublisher) interfaces.AccountService {
	return &accountService{
		accountRepo:    accountRepo,
		ledgerRepo:     ledgerRepo,
		eventPublisher: eventPublisher,
	}
}

// SetSpecialRate toggles special pricing and records a permission entry.
// Setting the current value again is a no-op.
func (s *accountService) SetSpecialRate(ctx context.Context, accountID int64, enabled bool, actingAccountID int64) error {
	account, err := s.getAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if account.SpecialRate == enabled {
		return nil
	}

	if err := s.accountRepo.SetSpecialRate(ctx, accountID, enabled); err != nil {
		return fmt.Errorf("failed to set special rate: %w", err)
	}

	return utils.RecordLedgerEntry(ctx, s.ledgerRepo, s.eventPublisher, &entities.LedgerEntry{
		FieldName:    entities.FieldSpecialRate,
		Delta:        strconv.FormatBool(account.SpecialRate) + " -> " + strconv.FormatBool(enabled),
		Collection:   accountsCollection,
		Category:     entities.CategoryPermission,
		ForAccountID: accountID,
		ByAccountID:  actingAccountID,
		Description:  "special account rate changed",
	})
}

// UpdateBankDetails replaces the withdrawal counterparty and records a bank_details entry
func (s *accountService) UpdateBankDetails(ctx context.Context, accountID int64, details entities.BankDetails, actingAccountID int64) error {
	if details.BankName == "" || details.AccountNo == "" || details.AccountName == "" {
		return entities.NewInvalidInput("bank_details", "bank name, account number and account name are required")
	}
	if _, err := s.getAccount(ctx, accountID); err != nil {
		return err
	}

	if err := s.accountRepo.UpdateBankDetails(ctx, accountID, details); err != nil {
		return fmt.Errorf("failed to update bank details: %w", err)
	}

	return utils.RecordLedgerEntry(ctx, s.ledgerRepo, s.eventPublisher, &entities.LedgerEntry{
		FieldName:    entities.FieldBankDetails,
		Delta:        fmt.Sprintf("%s ****%s", details.BankName, lastDigits(details.AccountNo, 4)),
		Collection:   accountsCollection,
		Category:     entities.CategoryBankDetails,
		ForAccountID: accountID,
		ByAccountID:  actingAccountID,
		Description:  "bank details updated",
	})
}

// History returns the account's ledger, newest first
func (s *accountService) History(ctx context.Context, accountID int64, limit, offset int) ([]*entities.LedgerEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	entries, err := s.ledgerRepo.ListByAccount(ctx, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return entries, nil
}

// RequestEntries returns the ledger entries of one financial request
func (s *accountService) RequestEntries(ctx context.Context, requestID int64) ([]*entities.LedgerEntry, error) {
	entries, err := s.ledgerRepo.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list request ledger entries: %w", err)
	}
	return entries, nil
}

func (s *accountService) getAccount(ctx context.Context, accountID int64) (*entities.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, &entities.NotFoundError{Resource: "account", ID: accountID}
	}
	return account, nil
}

func lastDigits(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
