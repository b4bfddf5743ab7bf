package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nestegg/retirement-simulator/internal/domain"
)

func TestNewSpendingStrategy(t *testing.T) {
	for _, name := range []string{"standard", "retirement_smile", "conservative_decline"} {
		s, err := NewSpendingStrategy(name)
		require.NoError(t, err)
		assert.Equal(t, name, s.Name())
	}
	_, err := NewSpendingStrategy("bogus")
	require.Error(t, err)
	var cfgErr *domain.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "spending_strategy", cfgErr.Field)
	assert.Equal(t, "bogus", cfgErr.Value)
}

func TestStandardSpending(t *testing.T) {
	s, _ := NewSpendingStrategy("standard")
	for _, yr := range []int{0, 10, 40} {
		assert.True(t, s.Multiplier(yr).Equal(decimal.NewFromInt(1)))
	}
}

func TestSmileSpending(t *testing.T) {
	s, _ := NewSpendingStrategy("retirement_smile")

	tests := []struct {
		yearsRetired int
		expected     decimal.Decimal
	}{
		{0, decimal.NewFromFloat(1.10)},
		{9, decimal.NewFromFloat(1.10)},
		{10, decimal.NewFromFloat(1.09)},
		{20, decimal.NewFromFloat(0.99)},
		{39, decimal.NewFromFloat(0.80)},
		{60, decimal.NewFromFloat(0.80)}, // floor
	}
	for _, tt := range tests {
		got := s.Multiplier(tt.yearsRetired)
		assert.True(t, got.Equal(tt.expected),
			"year %d: expected %s, got %s", tt.yearsRetired, tt.expected, got)
	}
}

func TestDecliningSpending(t *testing.T) {
	s, _ := NewSpendingStrategy("conservative_decline")

	tests := []struct {
		yearsRetired int
		expected     decimal.Decimal
	}{
		{0, decimal.NewFromInt(1)},
		{10, decimal.NewFromFloat(0.95)},
		{50, decimal.NewFromFloat(0.75)},
		{80, decimal.NewFromFloat(0.75)}, // floor
	}
	for _, tt := range tests {
		got := s.Multiplier(tt.yearsRetired)
		assert.True(t, got.Equal(tt.expected),
			"year %d: expected %s, got %s", tt.yearsRetired, tt.expected, got)
	}
}
