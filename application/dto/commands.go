package dto

import (
	"encoding/json"
	"fmt"
)

// CommandType identifies the payload carried by a command envelope
type CommandType string

const (
	CommandSettle      CommandType = "settle"
	CommandPublishDraw CommandType = "publish_draw"
	CommandToggleLock  CommandType = "toggle_lock"
	CommandPlaceWager  CommandType = "place_wager"
)

// CommandEnvelope is the wire format of an inbound command message
type CommandEnvelope struct {
	CommandID string          `json:"command_id"`
	Command   CommandType     `json:"command"`
	Payload   json.RawMessage `json:"payload"`
}

// DecodeCommandEnvelope parses a raw message body
func DecodeCommandEnvelope(data []byte) (CommandEnvelope, error) {
	var envelope CommandEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return envelope, fmt.Errorf("failed to decode command envelope: %w", err)
	}
	if envelope.Command == "" {
		return envelope, fmt.Errorf("command envelope %q has no command type", envelope.CommandID)
	}
	return envelope, nil
}

// NewCommandEnvelope encodes a payload into an envelope
func NewCommandEnvelope(commandID string, command CommandType, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", command, err)
	}
	return json.Marshal(CommandEnvelope{
		CommandID: commandID,
		Command:   command,
		Payload:   raw,
	})
}

// SettleCommand asks for a decision on one financial request
type SettleCommand struct {
	RequestID       int64  `json:"request_id"`
	Decision        string `json:"decision"` // approve/approved or decline/declined
	ActingAccountID int64  `json:"acting_account_id"`
	GameType        string `json:"game_type,omitempty"`
}

// PublishDrawCommand publishes or edits a draw result
type PublishDrawCommand struct {
	DrawID          int64  `json:"draw_id"`
	StraightResult  string `json:"straight_result"`
	SecondaryResult string `json:"secondary_result"`
	ActingAccountID int64  `json:"acting_account_id"`
	Edit            bool   `json:"edit"`
	SettleWinners   bool   `json:"settle_winners"`
}

// ToggleLockCommand flips a draw's lock flag
type ToggleLockCommand struct {
	DrawID          int64 `json:"draw_id"`
	ActingAccountID int64 `json:"acting_account_id"`
}

// PlaceWagerCommand places one wager for an account
type PlaceWagerCommand struct {
	AccountID int64  `json:"account_id"`
	DrawID    int64  `json:"draw_id"`
	SubType   string `json:"sub_type"`
	Numeral   string `json:"numeral"`
	Stake     string `json:"stake"`
}
