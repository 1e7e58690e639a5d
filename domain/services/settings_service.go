package services

import (
	"context"
	"fmt"
	"time"

	"lottosettle/domain/entities"
	"lottosettle/domain/interfaces"
	"lottosettle/domain/utils"

	log "github.com/sirupsen/logrus"
)

type settingsService struct {
	settingsRepo interfaces.SettingsRepository
	provider     interfaces.SettingsProvider
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo interfaces.SettingsRepository, provider interfaces.SettingsProvider) interfaces.SettingsService {
	return &settingsService{
		settingsRepo: settingsRepo,
		provider:     provider,
	}
}

// UpdateGameSettings writes the cutoff, time zone, last-day flag and withdrawal fee
func (s *settingsService) UpdateGameSettings(ctx context.Context, settings *entities.GameSettings) error {
	if settings == nil || settings.GameType == "" {
		return entities.NewInvalidInput("game_type", "game type is required")
	}
	if settings.LastDayCutoffHour < 0 || settings.LastDayCutoffHour > 23 {
		return entities.NewInvalidInput("last_day_cutoff_hour", "hour %d out of range", settings.LastDayCutoffHour)
	}
	if settings.LastDayCutoffMinute < 0 || settings.LastDayCutoffMinute > 59 {
		return entities.NewInvalidInput("last_day_cutoff_minute", "minute %d out of range", settings.LastDayCutoffMinute)
	}
	if settings.TimeZone != "" {
		if _, err := time.LoadLocation(settings.TimeZone); err != nil {
			return entities.NewInvalidInput("time_zone", "unknown time zone %q", settings.TimeZone)
		}
	}
	if !utils.ValidPercent(settings.WithdrawalFeePercent) {
		return entities.NewInvalidInput("withdrawal_fee_percent", "must be between 0 and 100")
	}

	if err := s.settingsRepo.UpsertGameSettings(ctx, settings); err != nil {
		return fmt.Errorf("failed to save game settings: %w", err)
	}
	return s.invalidate(ctx, settings.GameType)
}

// UpsertRate writes one rate table row
func (s *settingsService) UpsertRate(ctx context.Context, gameType string, rate entities.Rate) error {
	if _, ok := rate.SubType.Spec(); !ok {
		return entities.NewInvalidInput("sub_type", "unknown sub-type %q", rate.SubType)
	}
	if !utils.ValidPercent(rate.StandardDiscount) || !utils.ValidPercent(rate.SpecialDiscount) || !utils.ValidPercent(rate.LastDayDiscount) {
		return entities.NewInvalidInput("discount", "discount percentages must be between 0 and 100")
	}
	if rate.PayoutPercent.IsNegative() {
		return entities.NewInvalidInput("payout_percent", "payout percent must not be negative")
	}

	if err := s.settingsRepo.UpsertRate(ctx, gameType, rate); err != nil {
		return fmt.Errorf("failed to save rate: %w", err)
	}
	return s.invalidate(ctx, gameType)
}

// ReplaceBonusRules swaps the bonus table of a game type
func (s *settingsService) ReplaceBonusRules(ctx context.Context, gameType string, rules []entities.BonusRule) error {
	for i, rule := range rules {
		if !rule.Kind.IsValid() {
			return entities.NewInvalidInput("kind", "rule %d has unknown kind %q", i, rule.Kind)
		}
		if !rule.BonusValue.IsPositive() {
			return entities.NewInvalidInput("bonus_value", "rule %d must pay a positive bonus", i)
		}
	}

	if err := s.settingsRepo.ReplaceBonusRules(ctx, gameType, rules); err != nil {
		return fmt.Errorf("failed to replace bonus rules: %w", err)
	}
	return s.invalidate(ctx, gameType)
}

// invalidate drops the cached snapshot; a failure only delays visibility until the TTL expires
func (s *settingsService) invalidate(ctx context.Context, gameType string) error {
	if s.provider == nil {
		return nil
	}
	if err := s.provider.Invalidate(ctx, gameType); err != nil {
		log.WithError(err).WithField("gameType", gameType).Warn("Failed to invalidate settings cache")
	}
	return nil
}
