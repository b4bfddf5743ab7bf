package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFilingStatusValid(t *testing.T) {
	assert.True(t, FilingMarriedJointly.Valid())
	assert.True(t, FilingSingle.Valid())
	assert.False(t, FilingStatus("head_of_household").Valid())
	assert.False(t, FilingStatus("").Valid())
}

func TestBucketTypeValid(t *testing.T) {
	for _, bt := range []BucketType{BucketCash, BucketTaxable, BucketPretaxStandard, BucketPretax457, BucketRoth} {
		assert.True(t, bt.Valid(), string(bt))
	}
	assert.False(t, BucketType("401k").Valid())
}

func TestPersonDeathYear(t *testing.T) {
	p := Person{
		BirthDate:      time.Date(1960, 6, 15, 0, 0, 0, 0, time.UTC),
		LifeExpectancy: 90,
	}
	assert.Equal(t, 2050, p.DeathYear())
}

func TestDefaultMarketAssumptions(t *testing.T) {
	m := DefaultMarketAssumptions()
	assert.True(t, m.StockReturnMean.Equal(decimal.NewFromFloat(0.10)))
	assert.True(t, m.StockReturnStd.Equal(decimal.NewFromFloat(0.18)))
	assert.True(t, m.BondReturnMean.Equal(decimal.NewFromFloat(0.04)))
	assert.True(t, m.InflationMean.Equal(decimal.NewFromFloat(0.03)))
	assert.True(t, m.StockAllocation.Equal(decimal.NewFromFloat(0.60)))
	assert.True(t, m.CashYield.Equal(decimal.NewFromFloat(0.02)))
}

func TestBucketBalancesTotal(t *testing.T) {
	b := BucketBalances{
		Cash:           decimal.NewFromInt(100),
		Taxable:        decimal.NewFromInt(200),
		PretaxStandard: decimal.NewFromInt(300),
		Pretax457:      decimal.NewFromInt(400),
		Roth:           decimal.NewFromInt(500),
	}
	assert.True(t, b.Total().Equal(decimal.NewFromInt(1500)))
}

func TestConfigurationError(t *testing.T) {
	err := NewConfigurationError("state", "ZZ", "no tax table")
	assert.EqualError(t, err, `unsupported configuration: state="ZZ": no tax table`)
}
