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

type wagerService struct {
	accountRepo    interfaces.AccountRepository
	drawRepo       interfaces.DrawRepository
	wagerRepo      interfaces.WagerRepository
	requestRepo    interfaces.FinancialRequestRepository
	ledgerRepo     interfaces.LedgerRepository
	eventPublisher interfaces.EventPublisher
}

// NewWagerService creates a new wager service
func NewWagerService(
	accountRepo interfaces.AccountRepository,
	drawRepo interfaces.DrawRepository,
	wagerRepo interfaces.WagerRepository,
	requestRepo interfaces.FinancialRequestRepository,
	ledgerRepo interfaces.LedgerRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.WagerService {
	return &wagerService{
		accountRepo:    accountRepo,
		drawRepo:       drawRepo,
		wagerRepo:      wagerRepo,
		requestRepo:    requestRepo,
		ledgerRepo:     ledgerRepo,
		eventPublisher: eventPublisher,
	}
}

// PlaceWager prices a wager, debits the discounted price and stores the payout rate
func (s *wagerService) PlaceWager(ctx context.Context, input interfaces.PlaceWagerInput, settings *entities.GameSettings) (*interfaces.PlaceWagerResult, error) {
	spec, ok := input.SubType.Spec()
	if !ok {
		return nil, entities.NewInvalidInput("sub_type", "unknown sub-type %q", input.SubType)
	}
	if err := utils.ValidateNumeral("numeral", input.Numeral, spec.NumeralLen); err != nil {
		return nil, err
	}
	if len(input.Numeral) != spec.NumeralLen {
		return nil, entities.NewInvalidInput("numeral", "%s takes exactly %d digits", spec.DisplayName, spec.NumeralLen)
	}
	stake := utils.RoundMoney(input.Stake)
	if !stake.IsPositive() {
		return nil, entities.NewInvalidInput("stake", "stake must be positive")
	}

	draw, err := s.drawRepo.GetByID(ctx, input.DrawID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draw: %w", err)
	}
	if draw == nil {
		return nil, &entities.NotFoundError{Resource: "draw", ID: input.DrawID}
	}
	if draw.Locked {
		return nil, &entities.DrawLockedError{DrawID: draw.ID}
	}
	if !draw.AcceptsWagers() {
		return nil, entities.NewInvalidInput("draw", "draw %d already has a result", draw.ID)
	}
	if settings == nil || settings.GameType != draw.GameType {
		return nil, entities.NewInvalidInput("settings", "settings do not match game type %s", draw.GameType)
	}

	account, err := s.accountRepo.GetByID(ctx, input.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, &entities.NotFoundError{Resource: "account", ID: input.AccountID}
	}

	quote, err := ResolveDiscount(DiscountInput{
		SubType:          input.SubType,
		IsSpecialAccount: account.SpecialRate,
		Now:              input.Now,
		LastBettingDay:   draw.LastBettingDay,
	}, settings)
	if err != nil {
		return nil, err
	}
	price := utils.RoundMoney(utils.Discounted(stake, quote.DiscountPercent))

	wager := &entities.Wager{
		AccountID:       account.ID,
		DrawID:          draw.ID,
		SubType:         input.SubType,
		Numeral:         input.Numeral,
		Stake:           stake,
		Price:           price,
		DiscountPercent: quote.DiscountPercent,
		PayoutPercent:   quote.PayoutPercent,
		DiscountTier:    quote.Tier,
		Status:          entities.WagerStatusPending,
		PlacedAt:        input.Now,
	}

	balance := account.AvailableAmount
	if price.IsPositive() {
		balance, err = s.accountRepo.Debit(ctx, account.ID, price)
		if err != nil {
			return nil, err
		}
	}

	if err := s.wagerRepo.Create(ctx, wager); err != nil {
		return nil, fmt.Errorf("failed to create wager: %w", err)
	}

	if price.IsPositive() {
		entry := utils.MoneyEntry(account.ID, account.ID, "wagers", nil, price.Neg(), balance,
			fmt.Sprintf("wager %d on %s %s", wager.ID, spec.DisplayName, wager.Numeral))
		if err := utils.RecordLedgerEntry(ctx, s.ledgerRepo, s.eventPublisher, entry); err != nil {
			return nil, err
		}
	}

	result := &interfaces.PlaceWagerResult{
		Wager:             wager,
		PayoutDescription: quote.PayoutDescription,
		BalanceAfter:      balance,
	}

	if rule, ok := EvaluateBonus(entities.BonusKindWager, stake, settings.BonusRules); ok && rule.BonusValue.IsPositive() {
		kind := entities.BonusKindWager
		bonus := &entities.FinancialRequest{
			Kind:            entities.RequestKindBonus,
			AccountID:       account.ID,
			Amount:          utils.RoundMoney(rule.BonusValue),
			Fee:             decimal.Zero,
			ProcessedAmount: utils.RoundMoney(rule.BonusValue),
			Method:          fmt.Sprintf("wager %d", wager.ID),
			BonusKind:       &kind,
			Status:          entities.RequestStatusPending,
		}
		if err := s.requestRepo.Create(ctx, bonus); err != nil {
			return nil, fmt.Errorf("failed to queue wager bonus: %w", err)
		}
		result.BonusRequest = bonus
	}

	log.WithFields(log.Fields{
		"wagerID":  wager.ID,
		"account":  account.ID,
		"drawID":   draw.ID,
		"subType":  wager.SubType,
		"stake":    stake.StringFixed(2),
		"price":    price.StringFixed(2),
		"tier":     wager.DiscountTier,
		"discount": wager.DiscountPercent.String(),
	}).Info("Wager placed")

	if err := s.eventPublisher.Publish(events.WagerPlacedEvent{
		WagerID:         wager.ID,
		AccountID:       wager.AccountID,
		DrawID:          wager.DrawID,
		SubType:         string(wager.SubType),
		Stake:           wager.Stake,
		Price:           wager.Price,
		DiscountPercent: wager.DiscountPercent,
		DiscountTier:    string(wager.DiscountTier),
	}); err != nil {
		log.WithError(err).Error("Failed to publish wager placed event")
	}

	return result, nil
}

// ResolveDraw scores every pending wager of a published draw. Winners get one pending
// wager settlement request each; a winner that already has one is skipped. A loser
// whose payout is still pending from an earlier result has that payout declined.
func (s *wagerService) ResolveDraw(ctx context.Context, drawID, actingAccountID int64) (*interfaces.DrawResolution, error) {
	draw, err := s.drawRepo.GetByID(ctx, drawID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draw: %w", err)
	}
	if draw == nil {
		return nil, &entities.NotFoundError{Resource: "draw", ID: drawID}
	}
	if !draw.IsPublished() {
		return nil, entities.NewInvalidInput("draw", "draw %d has no published result", drawID)
	}

	wagers, err := s.wagerRepo.ListPendingByDraw(ctx, drawID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending wagers: %w", err)
	}

	resolution := &interfaces.DrawResolution{DrawID: drawID}
	for _, wager := range wagers {
		if !WagerWins(wager.SubType, wager.Numeral, draw.Derived) {
			resolved, err := s.wagerRepo.MarkResolved(ctx, wager.ID, entities.WagerStatusLost)
			if err != nil {
				return nil, fmt.Errorf("failed to mark wager %d lost: %w", wager.ID, err)
			}
			if !resolved {
				continue
			}
			wager.Status = entities.WagerStatusLost
			resolution.Losers = append(resolution.Losers, wager)

			voided, err := s.voidStaleSettlement(ctx, wager, actingAccountID)
			if err != nil {
				return nil, err
			}
			if voided != nil {
				resolution.Voided = append(resolution.Voided, voided)
			}
			continue
		}

		existing, err := s.requestRepo.GetByWagerID(ctx, wager.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check settlement for wager %d: %w", wager.ID, err)
		}
		resolution.Winners = append(resolution.Winners, wager)
		if existing != nil {
			continue
		}

		payout := utils.RoundMoney(utils.ApplyPercent(wager.Stake, wager.PayoutPercent))
		if !payout.IsPositive() {
			// Nothing to pay, so there is nothing to approve.
			if _, err := s.wagerRepo.MarkResolved(ctx, wager.ID, entities.WagerStatusWon); err != nil {
				return nil, fmt.Errorf("failed to mark wager %d won: %w", wager.ID, err)
			}
			wager.Status = entities.WagerStatusWon
			continue
		}
		wagerID := wager.ID
		req := &entities.FinancialRequest{
			Kind:            entities.RequestKindWagerSettlement,
			AccountID:       wager.AccountID,
			Amount:          payout,
			Fee:             decimal.Zero,
			ProcessedAmount: payout,
			Method:          string(wager.SubType),
			WagerID:         &wagerID,
			Status:          entities.RequestStatusPending,
		}
		if err := s.requestRepo.Create(ctx, req); err != nil {
			return nil, fmt.Errorf("failed to create settlement for wager %d: %w", wager.ID, err)
		}
		resolution.SettlementRequests = append(resolution.SettlementRequests, req)
	}

	log.WithFields(log.Fields{
		"drawID":      drawID,
		"winners":     len(resolution.Winners),
		"losers":      len(resolution.Losers),
		"settlements": len(resolution.SettlementRequests),
		"voided":      len(resolution.Voided),
	}).Info("Draw resolved")

	return resolution, nil
}

// voidStaleSettlement declines the pending payout of a wager that an edited result
// turned into a loser. Returns nil when there is nothing to decline.
func (s *wagerService) voidStaleSettlement(ctx context.Context, wager *entities.Wager, actingAccountID int64) (*entities.FinancialRequest, error) {
	req, err := s.requestRepo.GetByWagerID(ctx, wager.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check settlement for wager %d: %w", wager.ID, err)
	}
	if req == nil || req.IsCompleted {
		return nil, nil
	}

	completed, err := s.requestRepo.CompleteIfPending(ctx, req.ID, entities.RequestStatusDeclined, actingAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to decline settlement for wager %d: %w", wager.ID, err)
	}
	if !completed {
		return nil, nil
	}
	req.IsCompleted = true
	req.Status = entities.RequestStatusDeclined
	req.DecidedBy = &actingAccountID

	log.WithFields(log.Fields{
		"requestID": req.ID,
		"wagerID":   wager.ID,
		"actingID":  actingAccountID,
	}).Info("Declined payout of wager that no longer wins")

	if err := s.eventPublisher.Publish(events.RequestSettledEvent{
		RequestID:       req.ID,
		Kind:            string(req.Kind),
		AccountID:       req.AccountID,
		Status:          string(req.Status),
		Credited:        decimal.Zero,
		Debited:         decimal.Zero,
		ActingAccountID: actingAccountID,
	}); err != nil {
		log.WithError(err).Error("Failed to publish request settled event")
	}
	return req, nil
}
