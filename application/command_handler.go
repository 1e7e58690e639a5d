package application

import (
	"context"
	"encoding/json"
	"fmt"

	"lottosettle/application/dto"
	"lottosettle/domain/entities"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type commandFunc func(ctx context.Context, payload json.RawMessage) error

// CommandHandlerImpl routes command envelopes to the use-case handlers
type CommandHandlerImpl struct {
	handlers map[dto.CommandType]commandFunc
}

// NewCommandHandler creates a command handler over the given use-case handlers
func NewCommandHandler(
	settlementHandler SettlementHandler,
	drawHandler DrawHandler,
	wagerHandler WagerHandler,
) CommandHandler {
	h := &CommandHandlerImpl{}
	h.handlers = map[dto.CommandType]commandFunc{
		dto.CommandSettle: func(ctx context.Context, payload json.RawMessage) error {
			var cmd dto.SettleCommand
			if err := decodePayload(payload, &cmd); err != nil {
				return err
			}
			decision, err := entities.ParseDecision(cmd.Decision)
			if err != nil {
				return err
			}
			_, err = settlementHandler.Settle(ctx, dto.SettleRequestDTO{
				RequestID:       cmd.RequestID,
				Decision:        decision,
				ActingAccountID: cmd.ActingAccountID,
				GameType:        cmd.GameType,
			})
			return err
		},
		dto.CommandPublishDraw: func(ctx context.Context, payload json.RawMessage) error {
			var cmd dto.PublishDrawCommand
			if err := decodePayload(payload, &cmd); err != nil {
				return err
			}
			_, err := drawHandler.PublishDraw(ctx, dto.PublishDrawDTO{
				DrawID:          cmd.DrawID,
				StraightResult:  cmd.StraightResult,
				SecondaryResult: cmd.SecondaryResult,
				ActingAccountID: cmd.ActingAccountID,
				Edit:            cmd.Edit,
				SettleWinners:   cmd.SettleWinners,
			})
			return err
		},
		dto.CommandToggleLock: func(ctx context.Context, payload json.RawMessage) error {
			var cmd dto.ToggleLockCommand
			if err := decodePayload(payload, &cmd); err != nil {
				return err
			}
			_, err := drawHandler.ToggleLock(ctx, cmd.DrawID, cmd.ActingAccountID)
			return err
		},
		dto.CommandPlaceWager: func(ctx context.Context, payload json.RawMessage) error {
			var cmd dto.PlaceWagerCommand
			if err := decodePayload(payload, &cmd); err != nil {
				return err
			}
			subType, err := entities.ParseSubType(cmd.SubType)
			if err != nil {
				return err
			}
			stake, err := decimal.NewFromString(cmd.Stake)
			if err != nil {
				return entities.NewInvalidInput("stake", "stake %q is not a number", cmd.Stake)
			}
			_, err = wagerHandler.PlaceWager(ctx, dto.PlaceWagerDTO{
				AccountID: cmd.AccountID,
				DrawID:    cmd.DrawID,
				SubType:   subType,
				Numeral:   cmd.Numeral,
				Stake:     stake,
			})
			return err
		},
	}
	return h
}

// HandleCommand runs one command. Domain rejections are logged and swallowed so the
// message is acknowledged; infrastructure failures are returned for redelivery.
func (h *CommandHandlerImpl) HandleCommand(ctx context.Context, envelope dto.CommandEnvelope) error {
	fields := log.Fields{
		"commandID": envelope.CommandID,
		"command":   envelope.Command,
	}

	handler, ok := h.handlers[envelope.Command]
	if !ok {
		log.WithFields(fields).Warn("Dropping command of unknown type")
		return nil
	}

	err := handler(ctx, envelope.Payload)
	switch {
	case err == nil:
		log.WithFields(fields).Debug("Command handled")
		return nil
	case entities.IsDomainError(err):
		log.WithFields(fields).WithError(err).Warn("Command rejected")
		return nil
	default:
		log.WithFields(fields).WithError(err).Error("Command failed")
		return fmt.Errorf("failed to handle %s command %s: %w", envelope.Command, envelope.CommandID, err)
	}
}

// decodePayload maps malformed payloads to InvalidInput so they are not redelivered
func decodePayload(payload json.RawMessage, target any) error {
	if err := json.Unmarshal(payload, target); err != nil {
		return entities.NewInvalidInput("payload", "malformed payload: %v", err)
	}
	return nil
}
