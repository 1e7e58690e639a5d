package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMultiplier(t *testing.T) {
	tests := []struct {
		name     string
		percent  string
		expected string
	}{
		{
			name:     "three up straight",
			percent:  "55000",
			expected: "550x",
		},
		{
			name:     "fractional multiplier",
			percent:  "950",
			expected: "9.5x",
		},
		{
			name:     "even money",
			percent:  "100",
			expected: "1x",
		},
		{
			name:     "zero",
			percent:  "0",
			expected: "0x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatMultiplier(decimal.RequireFromString(tt.percent)))
		})
	}
}

func TestFormatPayoutDescription(t *testing.T) {
	tests := []struct {
		name     string
		payout   string
		discount string
		expected string
	}{
		{
			name:     "no discount",
			payout:   "55000",
			discount: "0",
			expected: "3 Up Straight pays 550x stake",
		},
		{
			name:     "with discount",
			payout:   "55000",
			discount: "12.5",
			expected: "3 Up Straight pays 550x stake, 12.5% discount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatPayoutDescription("3 Up Straight", decimal.RequireFromString(tt.payout), decimal.RequireFromString(tt.discount))
			assert.Equal(t, tt.expected, got)
		})
	}
}
