package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role is the account's base permission level
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAgent    Role = "agent"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

// IsValid reports whether the role is one of the known values
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleAgent, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// BankDetails is the counterparty information used for withdrawals
type BankDetails struct {
	BankName    string `json:"bank_name"`
	AccountNo   string `json:"account_no"`
	AccountName string `json:"account_name"`
}

// Account is a balance-bearing user of the lottery
type Account struct {
	ID              int64           `db:"id"`
	Username        string          `db:"username"`
	Role            Role            `db:"role"`
	AvailableAmount decimal.Decimal `db:"available_amount"`
	SpecialRate     bool            `db:"special_rate"`
	ReferredBy      *int64          `db:"referred_by"`
	Bank            BankDetails     `db:"-"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

// IsCustomer reports whether the account holds the base customer role
func (a *Account) IsCustomer() bool {
	return a.Role == RoleCustomer
}

// CanAfford checks the available amount against a debit
func (a *Account) CanAfford(amount decimal.Decimal) bool {
	return a.AvailableAmount.GreaterThanOrEqual(amount)
}
