package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"lottosettle/domain/entities"
	"lottosettle/domain/testhelpers"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func testSnapshot(gameType string) *entities.GameSettings {
	return &entities.GameSettings{
		GameType: gameType,
		Rates: entities.RateTable{
			entities.SubTypeThreeUpStraight: {
				SubType:          entities.SubTypeThreeUpStraight,
				StandardDiscount: decimal.NewFromInt(20),
				SpecialDiscount:  decimal.NewFromInt(30),
				LastDayDiscount:  decimal.RequireFromString("27.5"),
				PayoutPercent:    decimal.NewFromInt(55000),
			},
		},
		LastDayDiscountEnabled: true,
		LastDayCutoffHour:      18,
		LastDayCutoffMinute:    30,
		TimeZone:               "Asia/Bangkok",
		WithdrawalFeePercent:   decimal.NewFromInt(2),
		BonusRules: []entities.BonusRule{
			{ID: 1, Kind: entities.BonusKindRecharge, TargetValue: decimal.NewFromInt(500), BonusValue: decimal.NewFromInt(50)},
		},
	}
}

func TestSettingsCache_WithoutRedis(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("reads the repository every time", func(t *testing.T) {
		repo := new(testhelpers.MockSettingsRepository)
		repo.On("LoadSnapshot", ctx, "thai").Return(testSnapshot("thai"), nil).Twice()

		cache := NewSettingsCache(nil, repo, time.Minute, nil)
		for i := 0; i < 2; i++ {
			got, err := cache.Snapshot(ctx, "thai")
			require.NoError(t, err)
			assert.Equal(t, "thai", got.GameType)
		}
		require.NoError(t, cache.Invalidate(ctx, "thai"))
		repo.AssertExpectations(t)
	})

	t.Run("unknown game type", func(t *testing.T) {
		repo := new(testhelpers.MockSettingsRepository)
		repo.On("LoadSnapshot", ctx, "lao").Return(nil, nil)

		_, err := NewSettingsCache(nil, repo, time.Minute, nil).Snapshot(ctx, "lao")
		assert.ErrorIs(t, err, entities.ErrInvalidInput)
	})

	t.Run("empty game type", func(t *testing.T) {
		repo := new(testhelpers.MockSettingsRepository)
		_, err := NewSettingsCache(nil, repo, time.Minute, nil).Snapshot(ctx, "")
		assert.ErrorIs(t, err, entities.ErrInvalidInput)
		repo.AssertNotCalled(t, "LoadSnapshot", mock.Anything, mock.Anything)
	})

	t.Run("repository failure is wrapped", func(t *testing.T) {
		repo := new(testhelpers.MockSettingsRepository)
		repo.On("LoadSnapshot", ctx, "thai").Return(nil, errors.New("connection reset"))

		_, err := NewSettingsCache(nil, repo, time.Minute, nil).Snapshot(ctx, "thai")
		assert.ErrorContains(t, err, "failed to load settings snapshot")
	})
}

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis test in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
			Labels: map[string]string{
				"test":      "lottosettle-infrastructure",
				"test-name": t.Name(),
				"cleanup":   "auto",
			},
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Warning: Failed to terminate redis container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client, err := NewRedisClient(ctx, fmt.Sprintf("redis://%s:%s/0", host, port.Port()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSettingsCache_Redis(t *testing.T) {
	t.Parallel()
	client := setupTestRedis(t)
	ctx := context.Background()

	repo := new(testhelpers.MockSettingsRepository)
	repo.On("LoadSnapshot", ctx, "thai").Return(testSnapshot("thai"), nil).Twice()

	cache := NewSettingsCache(client, repo, time.Minute, nil)

	first, err := cache.Snapshot(ctx, "thai")
	require.NoError(t, err)

	// Served from redis, decimals intact
	second, err := cache.Snapshot(ctx, "thai")
	require.NoError(t, err)
	assert.True(t, first.Rates[entities.SubTypeThreeUpStraight].LastDayDiscount.Equal(second.Rates[entities.SubTypeThreeUpStraight].LastDayDiscount))
	assert.Equal(t, first.BonusRules[0].Kind, second.BonusRules[0].Kind)
	assert.Equal(t, "Asia/Bangkok", second.TimeZone)
	repo.AssertNumberOfCalls(t, "LoadSnapshot", 1)

	ttl, err := client.TTL(ctx, settingsKey("thai")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	// Invalidation forces a reload
	require.NoError(t, cache.Invalidate(ctx, "thai"))
	_, err = cache.Snapshot(ctx, "thai")
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "LoadSnapshot", 2)

	t.Run("corrupt entry falls back to the database", func(t *testing.T) {
		repo.On("LoadSnapshot", ctx, "lao").Return(testSnapshot("lao"), nil).Once()
		require.NoError(t, client.Set(ctx, settingsKey("lao"), "not json", time.Minute).Err())

		got, err := cache.Snapshot(ctx, "lao")
		require.NoError(t, err)
		assert.Equal(t, "lao", got.GameType)
	})
}
