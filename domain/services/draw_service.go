package services

import (
	"context"
	"fmt"
	"time"

	"lottosettle/domain/entities"
	"lottosettle/domain/events"
	"lottosettle/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

type drawService struct {
	drawRepo       interfaces.DrawRepository
	eventPublisher interfaces.EventPublisher
}

// NewDrawService creates a new draw service
func NewDrawService(drawRepo interfaces.DrawRepository, eventPublisher interfaces.EventPublisher) interfaces.DrawService {
	return &drawService{
		drawRepo:       drawRepo,
		eventPublisher: eventPublisher,
	}
}

// PublishResult derives and stores the result of a draw
func (s *drawService) PublishResult(ctx context.Context, drawID int64, straight, secondary string) (*entities.Draw, error) {
	return s.applyResult(ctx, drawID, straight, secondary, false)
}

// EditResult re-derives an already published draw
func (s *drawService) EditResult(ctx context.Context, drawID int64, straight, secondary string) (*entities.Draw, error) {
	return s.applyResult(ctx, drawID, straight, secondary, true)
}

func (s *drawService) applyResult(ctx context.Context, drawID int64, straight, secondary string, requirePublished bool) (*entities.Draw, error) {
	// Validate and derive before touching storage
	derived, err := DeriveResult(straight, secondary)
	if err != nil {
		return nil, err
	}

	draw, err := s.drawRepo.GetByIDForUpdate(ctx, drawID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draw: %w", err)
	}
	if draw == nil {
		return nil, &entities.NotFoundError{Resource: "draw", ID: drawID}
	}
	if !draw.CanEdit() {
		return nil, &entities.DrawLockedError{DrawID: drawID}
	}
	edited := draw.IsPublished()
	if requirePublished && !edited {
		return nil, entities.NewInvalidInput("draw", "draw %d has no published result to edit", drawID)
	}

	updated := *draw
	updated.StraightResult = straight
	updated.SecondaryResult = secondary
	updated.Derived = derived
	now := time.Now().UTC()
	updated.PublishedAt = &now

	if err := s.drawRepo.SaveResult(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to save draw result: %w", err)
	}

	log.WithFields(log.Fields{
		"drawID":     drawID,
		"gameType":   updated.GameType,
		"drawNumber": updated.DrawNumber,
		"straight":   straight,
		"secondary":  secondary,
		"edited":     edited,
	}).Info("Draw result published")

	if err := s.eventPublisher.Publish(events.DrawPublishedEvent{
		DrawID:          updated.ID,
		GameType:        updated.GameType,
		DrawNumber:      updated.DrawNumber,
		StraightResult:  straight,
		SecondaryResult: secondary,
		Edited:          edited,
	}); err != nil {
		log.WithError(err).Error("Failed to publish draw published event")
	}

	return &updated, nil
}

// ToggleLock flips the lock flag of a draw
func (s *drawService) ToggleLock(ctx context.Context, drawID, actingAccountID int64) (*entities.Draw, error) {
	draw, err := s.drawRepo.GetByIDForUpdate(ctx, drawID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draw: %w", err)
	}
	if draw == nil {
		return nil, &entities.NotFoundError{Resource: "draw", ID: drawID}
	}

	locked := !draw.Locked
	if err := s.drawRepo.SetLocked(ctx, drawID, locked); err != nil {
		return nil, fmt.Errorf("failed to set draw lock: %w", err)
	}
	draw.Locked = locked

	log.WithFields(log.Fields{
		"drawID":   drawID,
		"locked":   locked,
		"actingID": actingAccountID,
	}).Info("Draw lock toggled")

	if err := s.eventPublisher.Publish(events.DrawLockChangedEvent{
		DrawID:          drawID,
		Locked:          locked,
		ActingAccountID: actingAccountID,
	}); err != nil {
		log.WithError(err).Error("Failed to publish draw lock changed event")
	}

	return draw, nil
}
