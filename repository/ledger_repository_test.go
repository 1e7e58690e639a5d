package repository

import (
	"context"
	"testing"

	"lottosettle/domain/entities"
	"lottosettle/repository/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerRepository_AppendAndList(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	accounts := NewAccountRepository(testDB.DB)
	requests := NewFinancialRequestRepository(testDB.DB)
	repo := NewLedgerRepository(testDB.DB)
	ctx := context.Background()

	customer := testutil.CreateTestAccount("customer", "0")
	require.NoError(t, accounts.Create(ctx, customer))
	req := testutil.CreateTestRequest(entities.RequestKindRecharge, customer.ID, "500.00")
	require.NoError(t, requests.Create(ctx, req))

	amount := decimal.RequireFromString("500.00")
	balance := decimal.RequireFromString("500.00")
	money := &entities.LedgerEntry{
		FieldName:    entities.FieldAvailableAmount,
		Delta:        "+500.00",
		Amount:       &amount,
		BalanceAfter: &balance,
		Collection:   "recharge_requests",
		Category:     entities.CategoryMoney,
		ForAccountID: customer.ID,
		ByAccountID:  customer.ID,
		RequestID:    &req.ID,
		Description:  "recharge approved",
	}
	require.NoError(t, repo.Append(ctx, money))
	require.NotZero(t, money.ID)

	permission := &entities.LedgerEntry{
		FieldName:    entities.FieldSpecialRate,
		Delta:        "false -> true",
		Collection:   "accounts",
		Category:     entities.CategoryPermission,
		ForAccountID: customer.ID,
		ByAccountID:  customer.ID,
	}
	require.NoError(t, repo.Append(ctx, permission))

	t.Run("by account newest first", func(t *testing.T) {
		entries, err := repo.ListByAccount(ctx, customer.ID, 10, 0)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, permission.ID, entries[0].ID)
		assert.Nil(t, entries[0].Amount)
		assert.Equal(t, money.ID, entries[1].ID)
		require.NotNil(t, entries[1].Amount)
		assert.Equal(t, "500.00", entries[1].Amount.StringFixed(2))
	})

	t.Run("pagination", func(t *testing.T) {
		entries, err := repo.ListByAccount(ctx, customer.ID, 1, 1)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, money.ID, entries[0].ID)
	})

	t.Run("by request", func(t *testing.T) {
		entries, err := repo.ListByRequest(ctx, req.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "+500.00", entries[0].Delta)
	})

	t.Run("entries cannot be rewritten", func(t *testing.T) {
		_, err := testDB.DB.Exec(ctx, `UPDATE ledger_entries SET delta = '+1.00' WHERE id = $1`, money.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "append-only")

		_, err = testDB.DB.Exec(ctx, `DELETE FROM ledger_entries WHERE id = $1`, money.ID)
		require.Error(t, err)
	})
}
