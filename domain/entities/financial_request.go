package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequestKind is the variant of a financial request
type RequestKind string

const (
	RequestKindRecharge        RequestKind = "recharge"
	RequestKindWithdrawal      RequestKind = "withdrawal"
	RequestKindWagerSettlement RequestKind = "wager_settlement"
	RequestKindBonus           RequestKind = "bonus"
)

// Collection returns the owning collection name recorded on ledger entries
func (k RequestKind) Collection() string {
	switch k {
	case RequestKindRecharge:
		return "recharge_requests"
	case RequestKindWithdrawal:
		return "withdrawal_requests"
	case RequestKindWagerSettlement:
		return "wagers"
	case RequestKindBonus:
		return "bonus_requests"
	}
	return string(k)
}

// RequestStatus is the decision state of a request
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusDeclined RequestStatus = "declined"
)

// Decision is the outcome a staff member or job applies to a request
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionDeclined Decision = "declined"
)

// ParseDecision accepts approve/approved and decline/declined
func ParseDecision(raw string) (Decision, error) {
	switch raw {
	case "approve", "approved":
		return DecisionApproved, nil
	case "decline", "declined":
		return DecisionDeclined, nil
	}
	return "", NewInvalidInput("decision", "unknown decision %q", raw)
}

// Status maps the decision to the terminal request status
func (d Decision) Status() RequestStatus {
	if d == DecisionApproved {
		return RequestStatusApproved
	}
	return RequestStatusDeclined
}

// FinancialRequest is a recharge, withdrawal, wager settlement or bonus awaiting a decision.
// Once IsCompleted is true the request is terminal.
type FinancialRequest struct {
	ID              int64           `db:"id"`
	Kind            RequestKind     `db:"kind"`
	AccountID       int64           `db:"account_id"`
	Amount          decimal.Decimal `db:"amount"`
	Fee             decimal.Decimal `db:"fee"`
	ProcessedAmount decimal.Decimal `db:"processed_amount"` // withdrawal only: amount disbursed externally
	Method          string          `db:"method"`
	WagerID         *int64          `db:"wager_id"`
	BonusKind       *BonusKind      `db:"bonus_kind"`
	Status          RequestStatus   `db:"status"`
	IsCompleted     bool            `db:"is_completed"`
	DecidedBy       *int64          `db:"decided_by"`
	DecidedAt       *time.Time      `db:"decided_at"`
	CreatedAt       time.Time       `db:"created_at"`
}

// IsPending returns true while no decision has been applied
func (r *FinancialRequest) IsPending() bool {
	return !r.IsCompleted && r.Status == RequestStatusPending
}
