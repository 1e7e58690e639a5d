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

type referralService struct {
	accountRepo       interfaces.AccountRepository
	requestRepo       interfaces.FinancialRequestRepository
	settlementService interfaces.SettlementService
}

// NewReferralService creates a new referral service
func NewReferralService(
	accountRepo interfaces.AccountRepository,
	requestRepo interfaces.FinancialRequestRepository,
	settlementService interfaces.SettlementService,
) interfaces.ReferralService {
	return &referralService{
		accountRepo:       accountRepo,
		requestRepo:       requestRepo,
		settlementService: settlementService,
	}
}

// AwardReferralBonus pays the referrer when their referral count exactly hits a rule.
// Only accounts holding the customer role are eligible.
func (s *referralService) AwardReferralBonus(ctx context.Context, referrerID, refereeID int64, settings *entities.GameSettings) (*interfaces.SettlementResult, error) {
	referrer, err := s.accountRepo.GetByID(ctx, referrerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get referrer: %w", err)
	}
	if referrer == nil {
		return nil, &entities.NotFoundError{Resource: "account", ID: referrerID}
	}
	if !referrer.IsCustomer() {
		log.WithFields(log.Fields{
			"referrerID": referrerID,
			"role":       referrer.Role,
		}).Debug("Referrer not eligible for referral bonus")
		return nil, nil
	}
	if settings == nil {
		return nil, nil
	}

	count, err := s.accountRepo.CountReferrals(ctx, referrerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count referrals: %w", err)
	}

	rule, ok := EvaluateBonus(entities.BonusKindReferral, decimal.NewFromInt(count), settings.BonusRules)
	if !ok || !rule.BonusValue.IsPositive() {
		return nil, nil
	}

	kind := entities.BonusKindReferral
	amount := utils.RoundMoney(rule.BonusValue)
	req := &entities.FinancialRequest{
		Kind:            entities.RequestKindBonus,
		AccountID:       referrerID,
		Amount:          amount,
		Fee:             decimal.Zero,
		ProcessedAmount: amount,
		Method:          fmt.Sprintf("referral of account %d", refereeID),
		BonusKind:       &kind,
		Status:          entities.RequestStatusPending,
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create referral bonus request: %w", err)
	}

	log.WithFields(log.Fields{
		"referrerID": referrerID,
		"refereeID":  refereeID,
		"referrals":  count,
		"bonus":      amount.StringFixed(2),
	}).Info("Referral bonus rule matched")

	return s.settlementService.Settle(ctx, req.ID, entities.DecisionApproved, refereeID, settings)
}
