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

func TestDrawRepository_CreateAndGet(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewDrawRepository(testDB.DB)
	ctx := context.Background()

	draw := testutil.CreateTestDraw("thai", "2024-08-16", time.Date(2024, 8, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(ctx, draw))
	require.NotZero(t, draw.ID)

	t.Run("by id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, draw.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "thai", got.GameType)
		assert.False(t, got.IsPublished())
		assert.Nil(t, got.Derived)
		assert.Equal(t, 16, got.LastBettingDay.Day())
	})

	t.Run("by natural key", func(t *testing.T) {
		got, err := repo.GetByGameAndNumber(ctx, "thai", "2024-08-16")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, draw.ID, got.ID)
	})

	t.Run("missing", func(t *testing.T) {
		got, err := repo.GetByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestDrawRepository_SaveResult(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewDrawRepository(testDB.DB)
	ctx := context.Background()

	draw := testutil.CreateTestDraw("thai", "2024-09-01", time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(ctx, draw))

	now := time.Now().UTC()
	draw.StraightResult = "584213"
	draw.SecondaryResult = "47"
	draw.PublishedAt = &now
	draw.Derived = &entities.DerivedResult{
		ThreeUpStraight:   "213",
		ThreeUpRumble:     []string{"123", "132", "213", "231", "312", "321"},
		TwoUpStraight:     "13",
		SecondaryStraight: "47",
		ThreeUpDigits:     []string{"2", "1", "3"},
		TwoUpDigits:       []string{"1", "3"},
		SecondaryDigits:   []string{"4", "7"},
		ThreeUpTotal:      "6",
		TwoUpTotal:        "4",
		SecondaryTotal:    "11",
	}

	t.Run("result round trips", func(t *testing.T) {
		require.NoError(t, repo.SaveResult(ctx, draw))

		got, err := repo.GetByID(ctx, draw.ID)
		require.NoError(t, err)
		require.True(t, got.IsPublished())
		assert.Equal(t, "584213", got.StraightResult)
		assert.Equal(t, *draw.Derived, *got.Derived)
	})

	t.Run("locked draw is not written", func(t *testing.T) {
		require.NoError(t, repo.SetLocked(ctx, draw.ID, true))

		edited := *draw
		edited.StraightResult = "000000"
		err := repo.SaveResult(ctx, &edited)
		assert.ErrorIs(t, err, entities.ErrDrawLocked)

		got, err := repo.GetByID(ctx, draw.ID)
		require.NoError(t, err)
		assert.True(t, got.Locked)
		assert.Equal(t, "584213", got.StraightResult)
	})

	t.Run("lock on a missing draw", func(t *testing.T) {
		assert.ErrorIs(t, repo.SetLocked(ctx, 999999, true), entities.ErrNotFound)
	})
}
