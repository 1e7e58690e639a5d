package application

import (
	"context"
	"fmt"
	"time"

	"lottosettle/application/dto"
	"lottosettle/domain/entities"
	"lottosettle/domain/interfaces"
	"lottosettle/domain/services"
	"lottosettle/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// WagerHandlerImpl implements the WagerHandler interface
type WagerHandlerImpl struct {
	uowFactory UnitOfWorkFactory
	settings   settingsSource
	metrics    *observability.MetricsProvider
	now        func() time.Time
}

// NewWagerHandler creates a new wager handler
func NewWagerHandler(
	uowFactory UnitOfWorkFactory,
	settingsProvider interfaces.SettingsProvider,
	metrics *observability.MetricsProvider,
) WagerHandler {
	return &WagerHandlerImpl{
		uowFactory: uowFactory,
		settings:   settingsSource{provider: settingsProvider},
		metrics:    metrics,
		now:        time.Now,
	}
}

// PlaceWager prices and stores a wager against its draw's game settings
func (h *WagerHandlerImpl) PlaceWager(ctx context.Context, req dto.PlaceWagerDTO) (*interfaces.PlaceWagerResult, error) {
	// The draw decides which game's rates apply
	gameType, err := h.drawGameType(ctx, req.DrawID)
	if err != nil {
		return nil, err
	}
	snapshot, err := h.settings.required(ctx, gameType)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	wagerService := services.NewWagerService(
		uow.AccountRepository(),
		uow.DrawRepository(),
		uow.WagerRepository(),
		uow.FinancialRequestRepository(),
		uow.LedgerRepository(),
		uow.EventBus(),
	)

	result, err := wagerService.PlaceWager(ctx, interfaces.PlaceWagerInput{
		AccountID: req.AccountID,
		DrawID:    req.DrawID,
		SubType:   req.SubType,
		Numeral:   req.Numeral,
		Stake:     req.Stake,
		Now:       h.now(),
	}, snapshot)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	h.metrics.RecordWagerPlaced(string(result.Wager.SubType), string(result.Wager.DiscountTier))
	h.metrics.RecordLedgerEntries("wagers", 1)

	log.WithFields(log.Fields{
		"wagerID":   result.Wager.ID,
		"accountID": req.AccountID,
		"drawID":    req.DrawID,
		"payout":    result.PayoutDescription,
	}).Info("Wager placed")

	return result, nil
}

func (h *WagerHandlerImpl) drawGameType(ctx context.Context, drawID int64) (string, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	draw, err := uow.DrawRepository().GetByID(ctx, drawID)
	if err != nil {
		return "", fmt.Errorf("failed to get draw: %w", err)
	}
	if draw == nil {
		return "", &entities.NotFoundError{Resource: "draw", ID: drawID}
	}
	return draw.GameType, nil
}
