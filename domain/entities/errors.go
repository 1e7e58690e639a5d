package entities

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Sentinels for errors.Is checks. Each typed error below unwraps to one of them.
var (
	ErrNotFound            = errors.New("not found")
	ErrAlreadySettled      = errors.New("request already settled")
	ErrDrawLocked          = errors.New("draw is locked")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidInput        = errors.New("invalid input")
)

// NotFoundError reports a missing draw, request, wager or account
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// AlreadySettledError is returned when a financial request is already completed
type AlreadySettledError struct {
	RequestID int64
}

func (e *AlreadySettledError) Error() string {
	return fmt.Sprintf("financial request %d is already settled", e.RequestID)
}

func (e *AlreadySettledError) Unwrap() error { return ErrAlreadySettled }

// DrawLockedError is returned when an edit targets a locked draw
type DrawLockedError struct {
	DrawID int64
}

func (e *DrawLockedError) Error() string {
	return fmt.Sprintf("draw %d is locked", e.DrawID)
}

func (e *DrawLockedError) Unwrap() error { return ErrDrawLocked }

// InsufficientBalanceError is returned when a debit exceeds the available amount
type InsufficientBalanceError struct {
	AccountID int64
	Available decimal.Decimal
	Required  decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("account %d has insufficient balance: have %s, need %s",
		e.AccountID, e.Available.StringFixed(2), e.Required.StringFixed(2))
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }

// InvalidInputError reports a malformed numeral, unknown sub-type or bad amount
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// NewInvalidInput is shorthand for building an InvalidInputError
func NewInvalidInput(field, format string, args ...any) error {
	return &InvalidInputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsDomainError reports whether err is a business rejection rather than an infrastructure failure
func IsDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAlreadySettled) ||
		errors.Is(err, ErrDrawLocked) ||
		errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrInvalidInput)
}
