package application

import (
	"context"
	"fmt"

	"lottosettle/domain/entities"
	"lottosettle/domain/interfaces"
	"lottosettle/domain/services"

	log "github.com/sirupsen/logrus"
)

// SettingsHandlerImpl implements the SettingsHandler interface
type SettingsHandlerImpl struct {
	uowFactory UnitOfWorkFactory
	provider   interfaces.SettingsProvider
}

// NewSettingsHandler creates a new settings handler. The provider's cached snapshot is
// invalidated after each successful commit.
func NewSettingsHandler(uowFactory UnitOfWorkFactory, provider interfaces.SettingsProvider) SettingsHandler {
	return &SettingsHandlerImpl{
		uowFactory: uowFactory,
		provider:   provider,
	}
}

// UpdateGameSettings writes the game-level settings
func (h *SettingsHandlerImpl) UpdateGameSettings(ctx context.Context, settings *entities.GameSettings) error {
	if settings == nil {
		return entities.NewInvalidInput("game_type", "game type is required")
	}
	return h.withSettingsService(ctx, settings.GameType, func(settingsService interfaces.SettingsService) error {
		return settingsService.UpdateGameSettings(ctx, settings)
	})
}

// UpsertRate writes one rate table row
func (h *SettingsHandlerImpl) UpsertRate(ctx context.Context, gameType string, rate entities.Rate) error {
	return h.withSettingsService(ctx, gameType, func(settingsService interfaces.SettingsService) error {
		return settingsService.UpsertRate(ctx, gameType, rate)
	})
}

// ReplaceBonusRules swaps a game's bonus table
func (h *SettingsHandlerImpl) ReplaceBonusRules(ctx context.Context, gameType string, rules []entities.BonusRule) error {
	return h.withSettingsService(ctx, gameType, func(settingsService interfaces.SettingsService) error {
		return settingsService.ReplaceBonusRules(ctx, gameType, rules)
	})
}

func (h *SettingsHandlerImpl) withSettingsService(ctx context.Context, gameType string, fn func(interfaces.SettingsService) error) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	// No provider inside the transaction: invalidating before commit would let a
	// concurrent reader cache the old rows again.
	if err := fn(services.NewSettingsService(uow.SettingsRepository(), nil)); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	if h.provider != nil {
		if err := h.provider.Invalidate(ctx, gameType); err != nil {
			log.WithFields(log.Fields{
				"gameType": gameType,
				"error":    err,
			}).Warn("Failed to invalidate settings cache")
		}
	}
	return nil
}
