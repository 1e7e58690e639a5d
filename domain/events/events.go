package events

import (
	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChanged  EventType = "balance_changed"
	EventTypeRequestSettled  EventType = "request_settled"
	EventTypeDrawPublished   EventType = "draw_published"
	EventTypeDrawLockChanged EventType = "draw_lock_changed"
	EventTypeWagerPlaced     EventType = "wager_placed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// EventEnvelope wraps a serialized event on the bus
type EventEnvelope struct {
	EventID       string                 `json:"event_id"`
	EventType     string                 `json:"event_type"`
	Timestamp     *timestamppb.Timestamp `json:"timestamp"`
	SourceService string                 `json:"source_service"`
	Payload       []byte                 `json:"payload"`
}

// BalanceChangedEvent is emitted for every money ledger entry
type BalanceChangedEvent struct {
	AccountID     int64           `json:"account_id"`
	LedgerEntryID int64           `json:"ledger_entry_id"`
	RequestID     *int64          `json:"request_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Collection    string          `json:"collection"`
}

func (e BalanceChangedEvent) Type() EventType {
	return EventTypeBalanceChanged
}

// RequestSettledEvent is emitted when a financial request reaches a terminal state
type RequestSettledEvent struct {
	RequestID       int64           `json:"request_id"`
	Kind            string          `json:"kind"`
	AccountID       int64           `json:"account_id"`
	Status          string          `json:"status"`
	Credited        decimal.Decimal `json:"credited"`
	Debited         decimal.Decimal `json:"debited"`
	ActingAccountID int64           `json:"acting_account_id"`
}

func (e RequestSettledEvent) Type() EventType {
	return EventTypeRequestSettled
}

// DrawPublishedEvent is emitted when a draw result is published or edited
type DrawPublishedEvent struct {
	DrawID          int64  `json:"draw_id"`
	GameType        string `json:"game_type"`
	DrawNumber      string `json:"draw_number"`
	StraightResult  string `json:"straight_result"`
	SecondaryResult string `json:"secondary_result"`
	Edited          bool   `json:"edited"`
}

func (e DrawPublishedEvent) Type() EventType {
	return EventTypeDrawPublished
}

// DrawLockChangedEvent is emitted when a draw's lock is toggled
type DrawLockChangedEvent struct {
	DrawID          int64 `json:"draw_id"`
	Locked          bool  `json:"locked"`
	ActingAccountID int64 `json:"acting_account_id"`
}

func (e DrawLockChangedEvent) Type() EventType {
	return EventTypeDrawLockChanged
}

// WagerPlacedEvent is emitted after a wager is accepted
type WagerPlacedEvent struct {
	WagerID         int64           `json:"wager_id"`
	AccountID       int64           `json:"account_id"`
	DrawID          int64           `json:"draw_id"`
	SubType         string          `json:"sub_type"`
	Stake           decimal.Decimal `json:"stake"`
	Price           decimal.Decimal `json:"price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountTier    string          `json:"discount_tier"`
}

func (e WagerPlacedEvent) Type() EventType {
	return EventTypeWagerPlaced
}
