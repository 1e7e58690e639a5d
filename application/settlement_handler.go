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

// SettlementHandlerImpl implements the SettlementHandler interface
type SettlementHandlerImpl struct {
	uowFactory UnitOfWorkFactory
	settings   settingsSource
	metrics    *observability.MetricsProvider
}

// NewSettlementHandler creates a new settlement handler
func NewSettlementHandler(
	uowFactory UnitOfWorkFactory,
	settingsProvider interfaces.SettingsProvider,
	metrics *observability.MetricsProvider,
	defaultGameType string,
) SettlementHandler {
	return &SettlementHandlerImpl{
		uowFactory: uowFactory,
		settings:   settingsSource{provider: settingsProvider, defaultGameType: defaultGameType},
		metrics:    metrics,
	}
}

// Settle runs one settlement in its own transaction
func (h *SettlementHandlerImpl) Settle(ctx context.Context, req dto.SettleRequestDTO) (*interfaces.SettlementResult, error) {
	start := time.Now()

	snapshot, err := h.settings.optional(ctx, req.GameType)
	if err != nil {
		h.record("unknown", req.Decision, err, start)
		return nil, err
	}

	result, err := h.settle(ctx, req, snapshot)

	kind := "unknown"
	if result != nil && result.Request != nil {
		kind = string(result.Request.Kind)
	}
	h.record(kind, req.Decision, err, start)
	if err != nil {
		return nil, err
	}

	for _, entry := range result.LedgerEntries {
		h.metrics.RecordLedgerEntries(entry.Collection, 1)
	}

	log.WithFields(log.Fields{
		"requestID": req.RequestID,
		"kind":      kind,
		"decision":  req.Decision,
		"credited":  result.Credited.StringFixed(2),
		"debited":   result.Debited.StringFixed(2),
		"entries":   len(result.LedgerEntries),
	}).Info("Financial request settled")

	return result, nil
}

func (h *SettlementHandlerImpl) settle(ctx context.Context, req dto.SettleRequestDTO, snapshot *entities.GameSettings) (*interfaces.SettlementResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	settlementService := services.NewSettlementService(
		uow.AccountRepository(),
		uow.FinancialRequestRepository(),
		uow.WagerRepository(),
		uow.LedgerRepository(),
		uow.EventBus(),
	)

	result, err := settlementService.Settle(ctx, req.RequestID, req.Decision, req.ActingAccountID, snapshot)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return result, nil
}

func (h *SettlementHandlerImpl) record(kind string, decision entities.Decision, err error, start time.Time) {
	h.metrics.RecordSettlement(kind, settlementOutcome(decision, err), time.Since(start))
}

func settlementOutcome(decision entities.Decision, err error) string {
	switch {
	case err == nil && decision == entities.DecisionApproved:
		return observability.OutcomeApproved
	case err == nil:
		return observability.OutcomeDeclined
	case entities.IsDomainError(err):
		return observability.OutcomeRejected
	default:
		return observability.OutcomeFailed
	}
}
