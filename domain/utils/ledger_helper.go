package utils

import (
	"context"
	"fmt"

	"lottosettle/domain/entities"
	"lottosettle/domain/events"
	"lottosettle/domain/interfaces"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// RecordLedgerEntry appends a ledger entry and emits a BalanceChangedEvent for money entries.
// This is the single entry point for ledger writes; callers must hold the same
// transaction that applied the mutation the entry describes.
func RecordLedgerEntry(ctx context.Context, ledgerRepo interfaces.LedgerRepository, eventPublisher interfaces.EventPublisher, entry *entities.LedgerEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("invalid ledger entry: %w", err)
	}
	if entry.Amount != nil {
		rounded := RoundMoney(*entry.Amount)
		entry.Amount = &rounded
		entry.Delta = SignedDelta(rounded)
	}

	if err := ledgerRepo.Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}

	if !entry.IsMoney() {
		return nil
	}

	event := events.BalanceChangedEvent{
		AccountID:     entry.ForAccountID,
		LedgerEntryID: entry.ID,
		RequestID:     entry.RequestID,
		Amount:        *entry.Amount,
		Collection:    entry.Collection,
	}
	if entry.BalanceAfter != nil {
		event.BalanceAfter = *entry.BalanceAfter
	}
	log.WithFields(log.Fields{
		"accountID":    event.AccountID,
		"entryID":      event.LedgerEntryID,
		"amount":       event.Amount.StringFixed(2),
		"balanceAfter": event.BalanceAfter.StringFixed(2),
		"collection":   event.Collection,
	}).Debug("Publishing BalanceChangedEvent")
	if err := eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish balance changed event")
	}

	return nil
}

// MoneyEntry builds a money ledger entry for a balance delta
func MoneyEntry(forAccountID, byAccountID int64, collection string, requestID *int64, amount, balanceAfter decimal.Decimal, description string) *entities.LedgerEntry {
	return &entities.LedgerEntry{
		FieldName:    entities.FieldAvailableAmount,
		Amount:       &amount,
		BalanceAfter: &balanceAfter,
		Collection:   collection,
		Category:     entities.CategoryMoney,
		ForAccountID: forAccountID,
		ByAccountID:  byAccountID,
		RequestID:    requestID,
		Description:  description,
	}
}
