package entities

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypedErrors_MatchSentinels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"not found", &NotFoundError{Resource: "draw", ID: 4}, ErrNotFound},
		{"already settled", &AlreadySettledError{RequestID: 9}, ErrAlreadySettled},
		{"draw locked", &DrawLockedError{DrawID: 2}, ErrDrawLocked},
		{"insufficient balance", &InsufficientBalanceError{AccountID: 1, Available: decimal.NewFromInt(5), Required: decimal.NewFromInt(10)}, ErrInsufficientBalance},
		{"invalid input", NewInvalidInput("numeral", "expected %d digits", 3), ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			wrapped := fmt.Errorf("failed to settle: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
			assert.True(t, IsDomainError(wrapped))
		})
	}
}

func TestTypedErrors_Extractable(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("failed to debit: %w", &InsufficientBalanceError{
		AccountID: 7,
		Available: decimal.RequireFromString("12.5"),
		Required:  decimal.NewFromInt(20),
	})

	var insufficient *InsufficientBalanceError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, int64(7), insufficient.AccountID)
	assert.Contains(t, err.Error(), "have 12.50, need 20.00")
}

func TestIsDomainError_Infrastructure(t *testing.T) {
	t.Parallel()

	assert.False(t, IsDomainError(nil))
	assert.False(t, IsDomainError(errors.New("connection reset by peer")))
	assert.False(t, IsDomainError(fmt.Errorf("failed to begin transaction: %w", errors.New("pool closed"))))
}

func TestParseDecision(t *testing.T) {
	t.Parallel()

	for raw, want := range map[string]Decision{
		"approve":  DecisionApproved,
		"approved": DecisionApproved,
		"decline":  DecisionDeclined,
		"declined": DecisionDeclined,
	} {
		got, err := ParseDecision(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseDecision("maybe")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, RequestStatusApproved, DecisionApproved.Status())
	assert.Equal(t, RequestStatusDeclined, DecisionDeclined.Status())
}
