package repository

import (
	"context"
	"testing"
	"time"

	"lottosettle/domain/entities"
	"lottosettle/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinancialRequestRepository_CompleteIfPending(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	accounts := NewAccountRepository(testDB.DB)
	repo := NewFinancialRequestRepository(testDB.DB)
	ctx := context.Background()

	customer := testutil.CreateTestAccount("customer", "0")
	staff := testutil.CreateTestAccount("staff", "0")
	staff.Role = entities.RoleStaff
	require.NoError(t, accounts.Create(ctx, customer))
	require.NoError(t, accounts.Create(ctx, staff))

	req := testutil.CreateTestRequest(entities.RequestKindRecharge, customer.ID, "500.00")
	require.NoError(t, repo.Create(ctx, req))
	assert.Equal(t, entities.RequestStatusPending, req.Status)
	assert.False(t, req.IsCompleted)

	completed, err := repo.CompleteIfPending(ctx, req.ID, entities.RequestStatusApproved, staff.ID)
	require.NoError(t, err)
	assert.True(t, completed)

	// The second decision finds nothing to complete
	completed, err = repo.CompleteIfPending(ctx, req.ID, entities.RequestStatusDeclined, staff.ID)
	require.NoError(t, err)
	assert.False(t, completed)

	got, err := repo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)
	assert.Equal(t, entities.RequestStatusApproved, got.Status)
	require.NotNil(t, got.DecidedBy)
	assert.Equal(t, staff.ID, *got.DecidedBy)
	assert.NotNil(t, got.DecidedAt)
}

func TestFinancialRequestRepository_Lookups(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	accounts := NewAccountRepository(testDB.DB)
	draws := NewDrawRepository(testDB.DB)
	wagers := NewWagerRepository(testDB.DB)
	repo := NewFinancialRequestRepository(testDB.DB)
	ctx := context.Background()

	customer := testutil.CreateTestAccount("customer", "0")
	require.NoError(t, accounts.Create(ctx, customer))
	draw := testutil.CreateTestDraw("thai", "2024-10-01", time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, draws.Create(ctx, draw))
	wager := testutil.CreateTestWager(customer.ID, draw.ID, entities.SubTypeTwoUpStraight, "13", "10.00")
	require.NoError(t, wagers.Create(ctx, wager))

	settlement := testutil.CreateTestRequest(entities.RequestKindWagerSettlement, customer.ID, "900.00")
	settlement.WagerID = &wager.ID
	require.NoError(t, repo.Create(ctx, settlement))

	withdrawal := testutil.CreateTestWithdrawal(customer.ID, "1000.00", "20.00")
	require.NoError(t, repo.Create(ctx, withdrawal))

	t.Run("by wager", func(t *testing.T) {
		got, err := repo.GetByWagerID(ctx, wager.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, settlement.ID, got.ID)

		none, err := repo.GetByWagerID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, none)
	})

	t.Run("a wager gets one settlement", func(t *testing.T) {
		duplicate := testutil.CreateTestRequest(entities.RequestKindWagerSettlement, customer.ID, "900.00")
		duplicate.WagerID = &wager.ID
		assert.Error(t, repo.Create(ctx, duplicate))
	})

	t.Run("withdrawal keeps fee split", func(t *testing.T) {
		got, err := repo.GetByID(ctx, withdrawal.ID)
		require.NoError(t, err)
		assert.Equal(t, "1000.00", got.Amount.StringFixed(2))
		assert.Equal(t, "20.00", got.Fee.StringFixed(2))
		assert.Equal(t, "980.00", got.ProcessedAmount.StringFixed(2))
	})

	t.Run("pending by kind", func(t *testing.T) {
		pending, err := repo.ListPending(ctx, entities.RequestKindWithdrawal, 10)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, withdrawal.ID, pending[0].ID)
	})
}
