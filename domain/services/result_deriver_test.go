package services

import (
	"errors"
	"testing"

	"lottosettle/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDeriveResult_WorkedExample(t *testing.T) {
	t.Parallel()

	derived, err := DeriveResult("584213", "47")
	require.NoError(t, err)

	assert.Equal(t, "213", derived.ThreeUpStraight)
	assert.ElementsMatch(t, []string{"213", "231", "123", "132", "312", "321"}, derived.ThreeUpRumble)
	assert.Equal(t, "13", derived.TwoUpStraight)
	assert.Equal(t, "47", derived.SecondaryStraight)
	assert.Equal(t, []string{"2", "1", "3"}, derived.ThreeUpDigits)
	assert.Equal(t, []string{"1", "3"}, derived.TwoUpDigits)
	assert.Equal(t, []string{"4", "7"}, derived.SecondaryDigits)
	assert.Equal(t, "6", derived.ThreeUpTotal)
	assert.Equal(t, "4", derived.TwoUpTotal)
	assert.Equal(t, "1", derived.SecondaryTotal)
}

func TestDeriveResult_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		straight  string
		secondary string
		field     string
	}{
		{"straight too short", "58421", "47", "straight_result"},
		{"straight with letters", "5842a3", "47", "straight_result"},
		{"secondary too short", "584213", "4", "secondary_result"},
		{"secondary empty", "584213", "", "secondary_result"},
		{"secondary with space", "584213", "4 7", "secondary_result"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			derived, err := DeriveResult(tt.straight, tt.secondary)
			require.Error(t, err)
			assert.Nil(t, derived)

			var invalid *entities.InvalidInputError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestDeriveResult_LongerInputsUseTrailingDigits(t *testing.T) {
	t.Parallel()

	derived, err := DeriveResult("90817299", "305")
	require.NoError(t, err)

	assert.Equal(t, "299", derived.ThreeUpStraight)
	assert.Equal(t, []string{"299", "929", "992"}, derived.ThreeUpRumble)
	assert.Equal(t, "99", derived.TwoUpStraight)
	assert.Equal(t, "305", derived.SecondaryStraight)
	assert.Equal(t, "0", derived.ThreeUpTotal) // 20 -> "0"
	assert.Equal(t, "8", derived.TwoUpTotal)   // 18 -> "8"
	assert.Equal(t, "8", derived.SecondaryTotal)
}

func TestDeriveResult_Deterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		digit := rapid.RuneFrom([]rune("0123456789"))
		straight := rapid.StringOfN(digit, 6, 9, -1).Draw(t, "straight")
		secondary := rapid.StringOfN(digit, 2, 3, -1).Draw(t, "secondary")

		first, err := DeriveResult(straight, secondary)
		require.NoError(t, err)
		second, err := DeriveResult(straight, secondary)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, straight[len(straight)-3:], first.ThreeUpStraight)
		assert.Contains(t, first.ThreeUpRumble, first.ThreeUpStraight)
		assert.Len(t, first.ThreeUpTotal, 1)
		assert.Len(t, first.TwoUpTotal, 1)
		assert.Len(t, first.SecondaryTotal, 1)
	})
}

func TestWagerWins(t *testing.T) {
	t.Parallel()

	derived, err := DeriveResult("584213", "47")
	require.NoError(t, err)

	tests := []struct {
		subType entities.SubType
		numeral string
		want    bool
	}{
		{entities.SubTypeThreeUpStraight, "213", true},
		{entities.SubTypeThreeUpStraight, "231", false},
		{entities.SubTypeThreeUpRumble, "321", true},
		{entities.SubTypeThreeUpRumble, "214", false},
		{entities.SubTypeThreeUpSingle, "3", true},
		{entities.SubTypeThreeUpSingle, "4", false},
		{entities.SubTypeThreeUpTotal, "6", true},
		{entities.SubTypeThreeUpTotal, "5", false},
		{entities.SubTypeTwoUpStraight, "13", true},
		{entities.SubTypeTwoUpStraight, "31", false},
		{entities.SubTypeTwoUpSingle, "1", true},
		{entities.SubTypeTwoUpSingle, "2", false},
		{entities.SubTypeTwoUpTotal, "4", true},
		{entities.SubTypeSecondaryStraight, "47", true},
		{entities.SubTypeSecondaryStraight, "74", false},
		{entities.SubTypeSecondaryRumble, "74", true},
		{entities.SubTypeSecondaryRumble, "47", true},
		{entities.SubTypeSecondaryRumble, "44", false},
		{entities.SubTypeSecondarySingle, "7", true},
		{entities.SubTypeSecondaryTotal, "1", true},
		{entities.SubTypeSecondaryTotal, "11", false},
		{entities.SubType("four_up_straight"), "4213", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.subType)+"/"+tt.numeral, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, WagerWins(tt.subType, tt.numeral, derived))
		})
	}
}

func TestWagerWins_UnpublishedDraw(t *testing.T) {
	t.Parallel()
	assert.False(t, WagerWins(entities.SubTypeThreeUpStraight, "213", nil))
}
