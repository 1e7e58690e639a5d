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

func TestWagerRepository_Lifecycle(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	accounts := NewAccountRepository(testDB.DB)
	draws := NewDrawRepository(testDB.DB)
	repo := NewWagerRepository(testDB.DB)
	ctx := context.Background()

	customer := testutil.CreateTestAccount("customer", "0")
	require.NoError(t, accounts.Create(ctx, customer))
	draw := testutil.CreateTestDraw("thai", "2024-11-01", time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, draws.Create(ctx, draw))

	first := testutil.CreateTestWager(customer.ID, draw.ID, entities.SubTypeThreeUpStraight, "213", "100.00")
	second := testutil.CreateTestWager(customer.ID, draw.ID, entities.SubTypeTwoUpSingle, "7", "20.00")
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	t.Run("get preserves pricing", func(t *testing.T) {
		got, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, entities.SubTypeThreeUpStraight, got.SubType)
		assert.Equal(t, "100.00", got.Stake.StringFixed(2))
		assert.Equal(t, "9000.0000", got.PayoutPercent.StringFixed(4))
		assert.Equal(t, entities.WagerStatusPending, got.Status)
	})

	t.Run("pending list and resolution", func(t *testing.T) {
		pending, err := repo.ListPendingByDraw(ctx, draw.ID)
		require.NoError(t, err)
		assert.Len(t, pending, 2)

		resolved, err := repo.MarkResolved(ctx, second.ID, entities.WagerStatusLost)
		require.NoError(t, err)
		assert.True(t, resolved)

		again, err := repo.MarkResolved(ctx, second.ID, entities.WagerStatusWon)
		require.NoError(t, err)
		assert.False(t, again)

		pending, err = repo.ListPendingByDraw(ctx, draw.ID)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, first.ID, pending[0].ID)

		got, err := repo.GetByID(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.WagerStatusLost, got.Status)
		assert.NotNil(t, got.ResolvedAt)
	})
}
