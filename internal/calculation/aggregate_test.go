package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func decimals(vals ...int64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(vals))
	for i, v := range vals {
		out[i] = decimal.NewFromInt(v)
	}
	return out
}

func TestPercentileInterpolation(t *testing.T) {
	values := decimals(10, 20, 30, 40)

	tests := []struct {
		p        float64
		expected decimal.Decimal
	}{
		{0, decimal.NewFromInt(10)},
		{100, decimal.NewFromInt(40)},
		{50, decimal.NewFromInt(25)},  // midway between 20 and 30
		{25, decimal.NewFromFloat(17.5)},
		{75, decimal.NewFromFloat(32.5)},
	}
	for _, tt := range tests {
		got := Percentile(values, tt.p)
		assert.True(t, got.Equal(tt.expected),
			"p%.0f: expected %s, got %s", tt.p, tt.expected, got)
	}
}

func TestPercentileEdgeCases(t *testing.T) {
	assert.True(t, Percentile(nil, 50).IsZero())
	assert.True(t, Percentile(decimals(7), 90).Equal(decimal.NewFromInt(7)))

	// input order must not matter
	shuffled := decimals(40, 10, 30, 20)
	assert.True(t, Percentile(shuffled, 50).Equal(decimal.NewFromInt(25)))
}

func TestPercentileDoesNotMutateInput(t *testing.T) {
	values := decimals(30, 10, 20)
	Percentile(values, 50)
	assert.True(t, values[0].Equal(decimal.NewFromInt(30)))
}

func TestBandsOfOrdering(t *testing.T) {
	values := decimals(5, 1, 9, 3, 7, 2, 8, 4, 6, 10)
	bands := bandsOf(values)
	assert.True(t, bands.P10.LessThan(bands.P25))
	assert.True(t, bands.P25.LessThan(bands.P50))
	assert.True(t, bands.P50.LessThan(bands.P75))
	assert.True(t, bands.P75.LessThan(bands.P90))
	assert.True(t, bands.P50.Equal(decimal.NewFromFloat(5.5)))
}
