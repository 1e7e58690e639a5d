package services

import (
	"context"
	"fmt"

	"lottosettle/domain/entities"
	"lottosettle/domain/events"
	"lottosettle/domain/interfaces"
	"lottosettle/domain/utils"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// settleFunc applies one side of a decision to a request that has already passed the
// completion compare-and-set. It runs inside the caller's transaction.
type settleFunc func(ctx context.Context, req *entities.FinancialRequest, actingAccountID int64, settings *entities.GameSettings, result *interfaces.SettlementResult) error

// requestHandler holds the approve and decline behavior for one request kind
type requestHandler struct {
	approve settleFunc
	decline settleFunc // optional, nil means the decline has no side effects
}

// settlementService is the only writer of available_amount for financial requests
type settlementService struct {
	accountRepo    interfaces.AccountRepository
	requestRepo    interfaces.FinancialRequestRepository
	wagerRepo      interfaces.WagerRepository
	ledgerRepo     interfaces.LedgerRepository
	eventPublisher interfaces.EventPublisher
	handlers       map[entities.RequestKind]requestHandler
}

// NewSettlementService creates a new settlement service.
// Settle must run inside a unit of work: a returned error means every write must be rolled back.
func NewSettlementService(
	accountRepo interfaces.AccountRepository,
	requestRepo interfaces.FinancialRequestRepository,
	wagerRepo interfaces.WagerRepository,
	ledgerRepo interfaces.LedgerRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.SettlementService {
	s := &settlementService{
		accountRepo:    accountRepo,
		requestRepo:    requestRepo,
		wagerRepo:      wagerRepo,
		ledgerRepo:     ledgerRepo,
		eventPublisher: eventPublisher,
	}
	s.handlers = map[entities.RequestKind]requestHandler{
		entities.RequestKindRecharge:        {approve: s.approveRecharge},
		entities.RequestKindWithdrawal:      {approve: s.approveWithdrawal},
		entities.RequestKindWagerSettlement: {approve: s.approveWagerPayout, decline: s.declineWagerPayout},
		entities.RequestKindBonus:           {approve: s.approveBonus},
	}
	return s
}

// Settle applies a decision to a pending request exactly once
func (s *settlementService) Settle(ctx context.Context, requestID int64, decision entities.Decision, actingAccountID int64, settings *entities.GameSettings) (*interfaces.SettlementResult, error) {
	if decision != entities.DecisionApproved && decision != entities.DecisionDeclined {
		return nil, entities.NewInvalidInput("decision", "unknown decision %q", decision)
	}

	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get financial request: %w", err)
	}
	if req == nil {
		return nil, &entities.NotFoundError{Resource: "financial request", ID: requestID}
	}
	if req.IsCompleted {
		return nil, &entities.AlreadySettledError{RequestID: requestID}
	}

	handler, ok := s.handlers[req.Kind]
	if !ok {
		return nil, entities.NewInvalidInput("kind", "no settlement handler for request kind %q", req.Kind)
	}

	// The read above is advisory; this conditional update is the real guard.
	// A concurrent settle of the same request blocks on the row and then sees zero rows.
	completed, err := s.requestRepo.CompleteIfPending(ctx, requestID, decision.Status(), actingAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to complete financial request: %w", err)
	}
	if !completed {
		return nil, &entities.AlreadySettledError{RequestID: requestID}
	}
	req.IsCompleted = true
	req.Status = decision.Status()
	req.DecidedBy = &actingAccountID

	result := &interfaces.SettlementResult{
		Request:  req,
		Credited: decimal.Zero,
		Debited:  decimal.Zero,
	}

	apply := handler.approve
	if decision == entities.DecisionDeclined {
		apply = handler.decline
	}
	if apply != nil {
		if err := apply(ctx, req, actingAccountID, settings, result); err != nil {
			return nil, err
		}
	}

	log.WithFields(log.Fields{
		"requestID": req.ID,
		"kind":      req.Kind,
		"accountID": req.AccountID,
		"status":    req.Status,
		"credited":  result.Credited.StringFixed(2),
		"debited":   result.Debited.StringFixed(2),
		"actingID":  actingAccountID,
	}).Info("Financial request settled")

	if err := s.eventPublisher.Publish(events.RequestSettledEvent{
		RequestID:       req.ID,
		Kind:            string(req.Kind),
		AccountID:       req.AccountID,
		Status:          string(req.Status),
		Credited:        result.Credited,
		Debited:         result.Debited,
		ActingAccountID: actingAccountID,
	}); err != nil {
		log.WithError(err).Error("Failed to publish request settled event")
	}

	return result, nil
}

// approveRecharge credits the recharge and, when a recharge bonus rule matches the
// amount exactly, credits the bonus as a second ledger entry.
func (s *settlementService) approveRecharge(ctx context.Context, req *entities.FinancialRequest, actingAccountID int64, settings *entities.GameSettings, result *interfaces.SettlementResult) error {
	amount := utils.RoundMoney(req.Amount)
	if err := s.credit(ctx, req, actingAccountID, amount, "recharge approved", result); err != nil {
		return err
	}

	var rules []entities.BonusRule
	if settings != nil {
		rules = settings.BonusRules
	}
	rule, ok := EvaluateBonus(entities.BonusKindRecharge, req.Amount, rules)
	if !ok || !rule.BonusValue.IsPositive() {
		return nil
	}

	result.Bonus = rule
	description := fmt.Sprintf("recharge bonus for %s", amount.StringFixed(2))
	return s.credit(ctx, req, actingAccountID, utils.RoundMoney(rule.BonusValue), description, result)
}

// approveWithdrawal debits the full requested amount. The fee only reduces the
// processed amount paid out externally and never appears in the ledger.
func (s *settlementService) approveWithdrawal(ctx context.Context, req *entities.FinancialRequest, actingAccountID int64, _ *entities.GameSettings, result *interfaces.SettlementResult) error {
	amount := utils.RoundMoney(req.Amount)

	balance, err := s.accountRepo.Debit(ctx, req.AccountID, amount)
	if err != nil {
		return err
	}

	entry := utils.MoneyEntry(req.AccountID, actingAccountID, req.Kind.Collection(), &req.ID, amount.Neg(), balance,
		fmt.Sprintf("withdrawal approved, %s disbursed to %s", req.ProcessedAmount.StringFixed(2), req.Method))
	if err := utils.RecordLedgerEntry(ctx, s.ledgerRepo, s.eventPublisher, entry); err != nil {
		return err
	}

	result.Debited = result.Debited.Add(amount)
	result.BalanceAfter = &balance
	result.LedgerEntries = append(result.LedgerEntries, entry)
	return nil
}

// approveWagerPayout credits stake x payout percent using the rate fixed when the wager was placed
func (s *settlementService) approveWagerPayout(ctx context.Context, req *entities.FinancialRequest, actingAccountID int64, _ *entities.GameSettings, result *interfaces.SettlementResult) error {
	wager, err := s.settledWager(ctx, req)
	if err != nil {
		return err
	}
	if !wager.IsPending() {
		return entities.NewInvalidInput("wager_id", "wager %d is already %s", wager.ID, wager.Status)
	}

	payout := utils.RoundMoney(utils.ApplyPercent(wager.Stake, wager.PayoutPercent))
	if payout.IsPositive() {
		description := fmt.Sprintf("wager %d won on %s %s", wager.ID, wager.SubType, wager.Numeral)
		if err := s.credit(ctx, req, actingAccountID, payout, description, result); err != nil {
			return err
		}
	}

	return s.resolveWager(ctx, wager, entities.WagerStatusWon)
}

// declineWagerPayout closes the wager without a payout
func (s *settlementService) declineWagerPayout(ctx context.Context, req *entities.FinancialRequest, _ int64, _ *entities.GameSettings, _ *interfaces.SettlementResult) error {
	wager, err := s.settledWager(ctx, req)
	if err != nil {
		return err
	}
	switch wager.Status {
	case entities.WagerStatusLost:
		return nil
	case entities.WagerStatusWon:
		return entities.NewInvalidInput("wager_id", "wager %d is already won", wager.ID)
	}
	return s.resolveWager(ctx, wager, entities.WagerStatusLost)
}

func (s *settlementService) approveBonus(ctx context.Context, req *entities.FinancialRequest, actingAccountID int64, _ *entities.GameSettings, result *interfaces.SettlementResult) error {
	description := "bonus approved"
	if req.BonusKind != nil {
		description = fmt.Sprintf("%s bonus approved", *req.BonusKind)
	}
	return s.credit(ctx, req, actingAccountID, utils.RoundMoney(req.Amount), description, result)
}

// credit applies one atomic balance increment and its ledger entry
func (s *settlementService) credit(ctx context.Context, req *entities.FinancialRequest, actingAccountID int64, amount decimal.Decimal, description string, result *interfaces.SettlementResult) error {
	balance, err := s.accountRepo.Credit(ctx, req.AccountID, amount)
	if err != nil {
		return fmt.Errorf("failed to credit account: %w", err)
	}

	entry := utils.MoneyEntry(req.AccountID, actingAccountID, req.Kind.Collection(), &req.ID, amount, balance, description)
	if err := utils.RecordLedgerEntry(ctx, s.ledgerRepo, s.eventPublisher, entry); err != nil {
		return err
	}

	result.Credited = result.Credited.Add(amount)
	result.BalanceAfter = &balance
	result.LedgerEntries = append(result.LedgerEntries, entry)
	return nil
}

func (s *settlementService) settledWager(ctx context.Context, req *entities.FinancialRequest) (*entities.Wager, error) {
	if req.WagerID == nil {
		return nil, entities.NewInvalidInput("wager_id", "wager settlement request %d has no wager", req.ID)
	}
	wager, err := s.wagerRepo.GetByID(ctx, *req.WagerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wager: %w", err)
	}
	if wager == nil {
		return nil, &entities.NotFoundError{Resource: "wager", ID: *req.WagerID}
	}
	return wager, nil
}

func (s *settlementService) resolveWager(ctx context.Context, wager *entities.Wager, status entities.WagerStatus) error {
	resolved, err := s.wagerRepo.MarkResolved(ctx, wager.ID, status)
	if err != nil {
		return fmt.Errorf("failed to resolve wager: %w", err)
	}
	if !resolved {
		return entities.NewInvalidInput("wager_id", "wager %d is no longer pending", wager.ID)
	}
	wager.Status = status
	return nil
}
