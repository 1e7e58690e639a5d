package application

import (
	"context"
	"fmt"
	"strings"

	"lottosettle/application/dto"
	"lottosettle/domain/entities"
	"lottosettle/domain/services"
	"lottosettle/infrastructure/observability"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// DrawHandlerImpl implements the DrawHandler interface
type DrawHandlerImpl struct {
	uowFactory        UnitOfWorkFactory
	settlementHandler SettlementHandler
	metrics           *observability.MetricsProvider
}

// NewDrawHandler creates a new draw handler. settlementHandler is used to pay winners
// when a publication asks for it.
func NewDrawHandler(
	uowFactory UnitOfWorkFactory,
	settlementHandler SettlementHandler,
	metrics *observability.MetricsProvider,
) DrawHandler {
	return &DrawHandlerImpl{
		uowFactory:        uowFactory,
		settlementHandler: settlementHandler,
		metrics:           metrics,
	}
}

// CreateDraw registers a draw for (game type, draw number)
func (h *DrawHandlerImpl) CreateDraw(ctx context.Context, req dto.CreateDrawDTO) (*entities.Draw, error) {
	gameType := strings.TrimSpace(req.GameType)
	drawNumber := strings.TrimSpace(req.DrawNumber)
	if gameType == "" {
		return nil, entities.NewInvalidInput("game_type", "game type is required")
	}
	if drawNumber == "" {
		return nil, entities.NewInvalidInput("draw_number", "draw number is required")
	}
	if req.LastBettingDay.IsZero() {
		return nil, entities.NewInvalidInput("last_betting_day", "last betting day is required")
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	existing, err := uow.DrawRepository().GetByGameAndNumber(ctx, gameType, drawNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to look up draw: %w", err)
	}
	if existing != nil {
		return nil, entities.NewInvalidInput("draw_number", "draw %s already exists for %s", drawNumber, gameType)
	}

	draw := &entities.Draw{
		GameType:       gameType,
		DrawNumber:     drawNumber,
		LastBettingDay: req.LastBettingDay,
	}
	if err := uow.DrawRepository().Create(ctx, draw); err != nil {
		return nil, fmt.Errorf("failed to create draw: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"drawID":     draw.ID,
		"gameType":   gameType,
		"drawNumber": drawNumber,
	}).Info("Draw created")
	return draw, nil
}

// PublishDraw stores the derived result and resolves the draw's pending wagers atomically.
// Winner payouts are settled afterwards, one transaction per request, so a failing payout
// leaves its request pending without undoing the publication.
func (h *DrawHandlerImpl) PublishDraw(ctx context.Context, req dto.PublishDrawDTO) (*dto.DrawPublicationResult, error) {
	log.WithFields(log.Fields{
		"drawID":    req.DrawID,
		"straight":  req.StraightResult,
		"secondary": req.SecondaryResult,
		"edit":      req.Edit,
	}).Info("Publishing draw result")

	result, err := h.publishAndResolve(ctx, req)
	if err != nil {
		return nil, err
	}
	h.metrics.RecordDrawPublished(req.Edit)

	if !req.SettleWinners || len(result.Resolution.SettlementRequests) == 0 {
		return result, nil
	}

	result.Failed = make(map[int64]error)
	for _, request := range result.Resolution.SettlementRequests {
		_, err := h.settlementHandler.Settle(ctx, dto.SettleRequestDTO{
			RequestID:       request.ID,
			Decision:        entities.DecisionApproved,
			ActingAccountID: req.ActingAccountID,
			GameType:        result.Draw.GameType,
		})
		if err != nil {
			log.WithFields(log.Fields{
				"drawID":    req.DrawID,
				"requestID": request.ID,
				"error":     err,
			}).Error("Failed to settle winning wager")
			result.Failed[request.ID] = err
			// Continue with other winners
			continue
		}
		result.Settled = append(result.Settled, request.ID)
	}

	return result, nil
}

func (h *DrawHandlerImpl) publishAndResolve(ctx context.Context, req dto.PublishDrawDTO) (*dto.DrawPublicationResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	drawService := services.NewDrawService(uow.DrawRepository(), uow.EventBus())
	wagerService := services.NewWagerService(
		uow.AccountRepository(),
		uow.DrawRepository(),
		uow.WagerRepository(),
		uow.FinancialRequestRepository(),
		uow.LedgerRepository(),
		uow.EventBus(),
	)

	publish := drawService.PublishResult
	if req.Edit {
		publish = drawService.EditResult
	}
	draw, err := publish(ctx, req.DrawID, req.StraightResult, req.SecondaryResult)
	if err != nil {
		return nil, err
	}

	resolution, err := wagerService.ResolveDraw(ctx, draw.ID, req.ActingAccountID)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"drawID":   draw.ID,
		"winners":  len(resolution.Winners),
		"losers":   len(resolution.Losers),
		"voided":   len(resolution.Voided),
		"requests": lo.Map(resolution.SettlementRequests, func(r *entities.FinancialRequest, _ int) int64 { return r.ID }),
	}).Info("Draw published and wagers resolved")

	return &dto.DrawPublicationResult{
		Draw:       draw,
		Resolution: resolution,
	}, nil
}

// ToggleLock flips the draw's lock flag
func (h *DrawHandlerImpl) ToggleLock(ctx context.Context, drawID, actingAccountID int64) (*entities.Draw, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	draw, err := services.NewDrawService(uow.DrawRepository(), uow.EventBus()).ToggleLock(ctx, drawID, actingAccountID)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return draw, nil
}
