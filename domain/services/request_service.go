package services

import (
	"context"
	"fmt"

	"lottosettle/domain/entities"
	"lottosettle/domain/interfaces"
	"lottosettle/domain/utils"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type requestService struct {
	accountRepo interfaces.AccountRepository
	requestRepo interfaces.FinancialRequestRepository
}

// NewRequestService creates a new request service
func NewRequestService(accountRepo interfaces.AccountRepository, requestRepo interfaces.FinancialRequestRepository) interfaces.RequestService {
	return &requestService{
		accountRepo: accountRepo,
		requestRepo: requestRepo,
	}
}

// SubmitRecharge records a pending recharge
func (s *requestService) SubmitRecharge(ctx context.Context, accountID int64, amount decimal.Decimal, method string) (*entities.FinancialRequest, error) {
	amount = utils.RoundMoney(amount)
	if !amount.IsPositive() {
		return nil, entities.NewInvalidInput("amount", "recharge amount must be positive")
	}
	if method == "" {
		return nil, entities.NewInvalidInput("method", "recharge method is required")
	}
	if _, err := s.getAccount(ctx, accountID); err != nil {
		return nil, err
	}

	req := &entities.FinancialRequest{
		Kind:            entities.RequestKindRecharge,
		AccountID:       accountID,
		Amount:          amount,
		Fee:             decimal.Zero,
		ProcessedAmount: amount,
		Method:          method,
		Status:          entities.RequestStatusPending,
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create recharge request: %w", err)
	}

	log.WithFields(log.Fields{
		"requestID": req.ID,
		"accountID": accountID,
		"amount":    amount.StringFixed(2),
	}).Info("Recharge request submitted")
	return req, nil
}

// SubmitWithdrawal records a pending withdrawal to the account's bank details
func (s *requestService) SubmitWithdrawal(ctx context.Context, accountID int64, amount decimal.Decimal, settings *entities.GameSettings) (*entities.FinancialRequest, error) {
	amount = utils.RoundMoney(amount)
	if !amount.IsPositive() {
		return nil, entities.NewInvalidInput("amount", "withdrawal amount must be positive")
	}

	account, err := s.getAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.Bank.AccountNo == "" {
		return nil, entities.NewInvalidInput("bank_details", "account %d has no bank details for withdrawal", accountID)
	}

	feePercent := decimal.Zero
	if settings != nil {
		feePercent = settings.WithdrawalFeePercent
	}
	fee := utils.RoundMoney(utils.ApplyPercent(amount, feePercent))

	req := &entities.FinancialRequest{
		Kind:            entities.RequestKindWithdrawal,
		AccountID:       accountID,
		Amount:          amount,
		Fee:             fee,
		ProcessedAmount: amount.Sub(fee),
		Method:          fmt.Sprintf("%s %s (%s)", account.Bank.BankName, account.Bank.AccountNo, account.Bank.AccountName),
		Status:          entities.RequestStatusPending,
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create withdrawal request: %w", err)
	}

	log.WithFields(log.Fields{
		"requestID":       req.ID,
		"accountID":       accountID,
		"amount":          amount.StringFixed(2),
		"fee":             fee.StringFixed(2),
		"processedAmount": req.ProcessedAmount.StringFixed(2),
	}).Info("Withdrawal request submitted")
	return req, nil
}

func (s *requestService) getAccount(ctx context.Context, accountID int64) (*entities.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, &entities.NotFoundError{Resource: "account", ID: accountID}
	}
	return account, nil
}
