package services

import (
	"errors"
	"testing"
	"time"

	"lottosettle/domain/entities"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestResolveDiscount_TierPriority(t *testing.T) {
	t.Parallel()

	inWindow := time.Date(2024, 8, 16, 12, 0, 0, 0, time.UTC)  // 19:00 Bangkok on the last day
	outWindow := time.Date(2024, 8, 15, 12, 0, 0, 0, time.UTC) // the day before

	tests := []struct {
		name         string
		special      bool
		now          time.Time
		wantTier     entities.DiscountTier
		wantDiscount string
	}{
		{"standard outside the window", false, outWindow, entities.DiscountTierStandard, "20"},
		{"last day inside the window", false, inWindow, entities.DiscountTierLastDay, "27.5"},
		{"special outside the window", true, outWindow, entities.DiscountTierSpecial, "30"},
		{"special beats last day", true, inWindow, entities.DiscountTierSpecial, "30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			quote, err := ResolveDiscount(DiscountInput{
				SubType:          entities.SubTypeThreeUpStraight,
				IsSpecialAccount: tt.special,
				Now:              tt.now,
				LastBettingDay:   lastBettingDay,
			}, newTestSettings())
			require.NoError(t, err)

			assert.Equal(t, tt.wantTier, quote.Tier)
			assert.True(t, decimal.RequireFromString(tt.wantDiscount).Equal(quote.DiscountPercent), "got %s", quote.DiscountPercent)
			assert.True(t, pct("55000").Equal(quote.PayoutPercent))
			assert.Contains(t, quote.PayoutDescription, "3 Up Straight pays 550x stake")
		})
	}
}

func TestIsLastDayWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		now      time.Time
		settings *entities.GameSettings
		want     bool
	}{
		{"one minute before cutoff", time.Date(2024, 8, 16, 11, 29, 0, 0, time.UTC), newTestSettings(), false},
		{"exactly at cutoff", time.Date(2024, 8, 16, 11, 30, 0, 0, time.UTC), newTestSettings(), true},
		{"late evening", time.Date(2024, 8, 16, 16, 59, 0, 0, time.UTC), newTestSettings(), true},
		{"next local day", time.Date(2024, 8, 16, 17, 0, 0, 0, time.UTC), newTestSettings(), false},
		{"utc date matches but local date does not", time.Date(2024, 8, 16, 20, 0, 0, 0, time.UTC), newTestSettings(), false},
		{"feature disabled", time.Date(2024, 8, 16, 12, 0, 0, 0, time.UTC), newTestSettings(func(s *entities.GameSettings) {
			s.LastDayDiscountEnabled = false
		}), false},
		{"utc game zone", time.Date(2024, 8, 16, 18, 30, 0, 0, time.UTC), newTestSettings(func(s *entities.GameSettings) {
			s.TimeZone = ""
		}), true},
		{"nil settings", time.Date(2024, 8, 16, 12, 0, 0, 0, time.UTC), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsLastDayWindow(tt.now, lastBettingDay, tt.settings))
		})
	}
}

func TestIsLastDayWindow_NoLastBettingDay(t *testing.T) {
	t.Parallel()
	assert.False(t, IsLastDayWindow(time.Now(), time.Time{}, newTestSettings()))
}

func TestResolveDiscount_Errors(t *testing.T) {
	t.Parallel()

	_, err := ResolveDiscount(DiscountInput{SubType: "five_up"}, newTestSettings())
	assert.True(t, errors.Is(err, entities.ErrInvalidInput))

	missing := newTestSettings(func(s *entities.GameSettings) {
		delete(s.Rates, entities.SubTypeTwoUpTotal)
	})
	_, err = ResolveDiscount(DiscountInput{SubType: entities.SubTypeTwoUpTotal}, missing)
	var invalid *entities.InvalidInputError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "sub_type", invalid.Field)

	_, err = ResolveDiscount(DiscountInput{SubType: entities.SubTypeTwoUpTotal}, nil)
	assert.True(t, errors.Is(err, entities.ErrInvalidInput))
}

func TestResolveDiscount_NeverCombinesTiers(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		percent := func(label string) decimal.Decimal {
			return decimal.NewFromInt(int64(rapid.IntRange(0, 10000).Draw(t, label))).Div(decimal.NewFromInt(100))
		}
		subTypes := entities.AllSubTypes()
		subType := subTypes[rapid.IntRange(0, len(subTypes)-1).Draw(t, "subType")]
		rate := entities.Rate{
			SubType:          subType,
			StandardDiscount: percent("standard"),
			SpecialDiscount:  percent("special"),
			LastDayDiscount:  percent("lastDay"),
			PayoutPercent:    percent("payout"),
		}
		settings := newTestSettings(func(s *entities.GameSettings) {
			s.Rates[subType] = rate
			s.LastDayCutoffHour = rapid.IntRange(0, 23).Draw(t, "cutoffHour")
			s.LastDayCutoffMinute = rapid.IntRange(0, 59).Draw(t, "cutoffMinute")
		})
		now := lastBettingDay.Add(time.Duration(rapid.IntRange(-48*60, 48*60).Draw(t, "minutes")) * time.Minute)

		quote, err := ResolveDiscount(DiscountInput{
			SubType:          subType,
			IsSpecialAccount: rapid.Bool().Draw(t, "special"),
			Now:              now,
			LastBettingDay:   lastBettingDay,
		}, settings)
		require.NoError(t, err)

		assert.True(t, quote.DiscountPercent.LessThanOrEqual(rate.MaxDiscount()))
		tierRate := map[entities.DiscountTier]decimal.Decimal{
			entities.DiscountTierStandard: rate.StandardDiscount,
			entities.DiscountTierSpecial:  rate.SpecialDiscount,
			entities.DiscountTierLastDay:  rate.LastDayDiscount,
		}[quote.Tier]
		assert.True(t, tierRate.Equal(quote.DiscountPercent))
		assert.True(t, rate.PayoutPercent.Equal(quote.PayoutPercent))
	})
}
