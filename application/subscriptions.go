package application

import (
	"context"

	"lottosettle/domain/events"

	log "github.com/sirupsen/logrus"
)

// LocalEventRegistrar receives in-process handlers for committed events
type LocalEventRegistrar interface {
	RegisterLocalHandler(eventType events.EventType, handler func(context.Context, events.Event) error)
}

// RegisterApplicationSubscriptions registers the in-process audit trail for
// settlements and draw publications
func RegisterApplicationSubscriptions(registrar LocalEventRegistrar) {
	registrar.RegisterLocalHandler(events.EventTypeRequestSettled, auditRequestSettled)
	registrar.RegisterLocalHandler(events.EventTypeDrawPublished, auditDrawPublished)
	registrar.RegisterLocalHandler(events.EventTypeDrawLockChanged, auditDrawLockChanged)
}

func auditRequestSettled(_ context.Context, event events.Event) error {
	settled, err := AssertEventType[events.RequestSettledEvent](event, "RequestSettledEvent")
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"requestID":       settled.RequestID,
		"kind":            settled.Kind,
		"accountID":       settled.AccountID,
		"status":          settled.Status,
		"credited":        settled.Credited.String(),
		"debited":         settled.Debited.String(),
		"actingAccountID": settled.ActingAccountID,
	}).Info("Request settled")
	return nil
}

func auditDrawPublished(_ context.Context, event events.Event) error {
	published, err := AssertEventType[events.DrawPublishedEvent](event, "DrawPublishedEvent")
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"drawID":     published.DrawID,
		"gameType":   published.GameType,
		"drawNumber": published.DrawNumber,
		"straight":   published.StraightResult,
		"secondary":  published.SecondaryResult,
		"edited":     published.Edited,
	}).Info("Draw result published")
	return nil
}

func auditDrawLockChanged(_ context.Context, event events.Event) error {
	changed, err := AssertEventType[events.DrawLockChangedEvent](event, "DrawLockChangedEvent")
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"drawID":          changed.DrawID,
		"locked":          changed.Locked,
		"actingAccountID": changed.ActingAccountID,
	}).Info("Draw lock changed")
	return nil
}
