package application

import (
	"context"
	"errors"

	"lottosettle/domain/entities"
	"lottosettle/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// settingsSource loads the settings snapshot a call works against.
// Snapshots are read before the transaction opens and never re-read inside it.
type settingsSource struct {
	provider        interfaces.SettingsProvider
	defaultGameType string
}

func (s settingsSource) gameType(requested string) string {
	if requested != "" {
		return requested
	}
	return s.defaultGameType
}

// required fails when the game type has no settings
func (s settingsSource) required(ctx context.Context, gameType string) (*entities.GameSettings, error) {
	return s.provider.Snapshot(ctx, s.gameType(gameType))
}

// optional returns nil settings when none are configured, which disables bonus rules
func (s settingsSource) optional(ctx context.Context, gameType string) (*entities.GameSettings, error) {
	if s.provider == nil {
		return nil, nil
	}
	settings, err := s.provider.Snapshot(ctx, s.gameType(gameType))
	if errors.Is(err, entities.ErrInvalidInput) {
		log.WithFields(log.Fields{
			"gameType": s.gameType(gameType),
			"error":    err,
		}).Warn("No settings snapshot, continuing without bonus rules")
		return nil, nil
	}
	return settings, err
}
