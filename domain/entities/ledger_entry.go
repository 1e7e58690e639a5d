package entities

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// UpdateCategory classifies what a ledger entry changed
type UpdateCategory string

const (
	CategoryMoney       UpdateCategory = "money"
	CategoryPermission  UpdateCategory = "permission"
	CategoryBankDetails UpdateCategory = "bank_details"
	CategoryUser        UpdateCategory = "user"
)

// Ledger field names
const (
	FieldAvailableAmount = "available_amount"
	FieldSpecialRate     = "special_rate"
	FieldBankDetails     = "bank_details"
	FieldRole            = "role"
)

// LedgerEntry is an immutable audit record of one mutation
type LedgerEntry struct {
	ID           int64            `db:"id"`
	FieldName    string           `db:"field_name"`
	Delta        string           `db:"delta"` // signed description, e.g. "+550.00"
	Amount       *decimal.Decimal `db:"amount"`
	BalanceAfter *decimal.Decimal `db:"balance_after"`
	Collection   string           `db:"collection"`
	Category     UpdateCategory   `db:"category"`
	ForAccountID int64            `db:"for_account_id"`
	ByAccountID  int64            `db:"by_account_id"`
	RequestID    *int64           `db:"request_id"`
	Description  string           `db:"description"`
	CreatedAt    time.Time        `db:"created_at"`
}

// IsMoney returns true for balance mutations
func (e *LedgerEntry) IsMoney() bool {
	return e.Category == CategoryMoney
}

// Validate checks that a money entry carries a non-zero amount
func (e *LedgerEntry) Validate() error {
	if e.FieldName == "" {
		return errors.New("ledger entry requires a field name")
	}
	if e.IsMoney() {
		if e.Amount == nil || e.Amount.IsZero() {
			return errors.New("money ledger entry requires a non-zero amount")
		}
	}
	return nil
}
