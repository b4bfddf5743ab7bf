package calculation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/nestegg/retirement-simulator/internal/domain"
)

func TestStreamIncome(t *testing.T) {
	ic := NewIncomeCalculator()
	stream := &domain.IncomeStream{
		Name:               "Pension",
		AnnualAmount:       decimal.NewFromInt(24000),
		StartDate:          time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		InflationAdjusted:  false,
		SurvivorBenefitPct: decimal.NewFromFloat(0.5),
	}
	noInflation := decimal.NewFromInt(1)

	// before start
	got := ic.StreamIncome(stream, 2029, noInflation, true)
	assert.True(t, got.IsZero())

	// active, owner alive
	got = ic.StreamIncome(stream, 2030, noInflation, true)
	assert.True(t, got.Equal(decimal.NewFromInt(24000)))

	// survivor benefit after owner's death
	got = ic.StreamIncome(stream, 2040, noInflation, false)
	assert.True(t, got.Equal(decimal.NewFromInt(12000)))

	// inflation indexed from the stream's own start year
	stream.InflationAdjusted = true
	got = ic.StreamIncome(stream, 2035, decimal.NewFromFloat(1.2), true)
	assert.True(t, got.Equal(decimal.NewFromInt(28800)), "got %s", got)

	// the first payout year pays the nominal amount
	got = ic.StreamIncome(stream, 2030, decimal.NewFromInt(1), true)
	assert.True(t, got.Equal(decimal.NewFromInt(24000)))
}

func TestPropertyYearAppreciationAndCosts(t *testing.T) {
	ic := NewIncomeCalculator()
	prop := &domain.HomeProperty{
		Name:             "Home",
		PropertyType:     domain.PropertyPrimaryResidence,
		CurrentValue:     decimal.NewFromInt(500000),
		PurchasePrice:    decimal.NewFromInt(300000),
		AnnualCosts:      decimal.NewFromInt(12000),
		AppreciationRate: decimal.NewFromFloat(0.03),
	}

	ev := ic.PropertyYear(prop, 2030, domain.FilingMarriedJointly)
	assert.False(t, ev.Sold)
	assert.True(t, ev.CarryingCost.Equal(decimal.NewFromInt(12000)))
	assert.True(t, prop.CurrentValue.Equal(decimal.NewFromInt(515000)))
}

func TestPropertySaleSection121(t *testing.T) {
	ic := NewIncomeCalculator()
	saleYear := 2030

	tests := []struct {
		name         string
		propType     domain.PropertyType
		status       domain.FilingStatus
		value        decimal.Decimal
		purchase     decimal.Decimal
		wantGain     decimal.Decimal
	}{
		{
			name:     "primary residence gain under mfj exclusion",
			propType: domain.PropertyPrimaryResidence,
			status:   domain.FilingMarriedJointly,
			value:    decimal.NewFromInt(700000),
			purchase: decimal.NewFromInt(400000),
			wantGain: decimal.Zero,
		},
		{
			name:     "primary residence gain over single exclusion",
			propType: domain.PropertyPrimaryResidence,
			status:   domain.FilingSingle,
			value:    decimal.NewFromInt(700000),
			purchase: decimal.NewFromInt(400000),
			// appreciated value 707,000 minus 400,000 minus 250,000
			wantGain: decimal.NewFromInt(57000),
		},
		{
			name:     "rental gets no exclusion",
			propType: domain.PropertyRental,
			status:   domain.FilingMarriedJointly,
			value:    decimal.NewFromInt(400000),
			purchase: decimal.NewFromInt(300000),
			// appreciated value 404,000 minus 300,000
			wantGain: decimal.NewFromInt(104000),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prop := &domain.HomeProperty{
				Name:             "Prop",
				PropertyType:     tt.propType,
				CurrentValue:     tt.value,
				PurchasePrice:    tt.purchase,
				AppreciationRate: decimal.NewFromFloat(0.01),
				SaleYear:         &saleYear,
			}
			ev := ic.PropertyYear(prop, saleYear, tt.status)
			assert.True(t, ev.Sold)
			assert.True(t, ev.TaxableGain.Equal(tt.wantGain),
				"expected gain %s, got %s", tt.wantGain, ev.TaxableGain)
			assert.True(t, prop.CurrentValue.IsZero())
		})
	}
}

func TestPropertySaleProceeds(t *testing.T) {
	ic := NewIncomeCalculator()
	saleYear := 2032
	prop := &domain.HomeProperty{
		Name:            "Home",
		PropertyType:    domain.PropertyPrimaryResidence,
		CurrentValue:    decimal.NewFromInt(600000),
		PurchasePrice:   decimal.NewFromInt(500000),
		MortgageBalance: decimal.NewFromInt(100000),
		ReplacementCost: decimal.NewFromInt(200000),
		SaleYear:        &saleYear,
	}

	ev := ic.PropertyYear(prop, saleYear, domain.FilingMarriedJointly)
	// no appreciation rate set: 600,000 - 100,000 - 200,000
	assert.True(t, ev.SaleProceeds.Equal(decimal.NewFromInt(300000)),
		"got %s", ev.SaleProceeds)
}

func TestPropertyGoneAfterSale(t *testing.T) {
	ic := NewIncomeCalculator()
	saleYear := 2032
	prop := &domain.HomeProperty{
		Name:             "Home",
		PropertyType:     domain.PropertyPrimaryResidence,
		CurrentValue:     decimal.NewFromInt(600000),
		PurchasePrice:    decimal.NewFromInt(500000),
		AnnualCosts:      decimal.NewFromInt(12000),
		AppreciationRate: decimal.NewFromFloat(0.03),
		SaleYear:         &saleYear,
	}

	ev := ic.PropertyYear(prop, saleYear, domain.FilingMarriedJointly)
	assert.True(t, ev.Sold)

	for year := saleYear + 1; year <= saleYear+3; year++ {
		ev = ic.PropertyYear(prop, year, domain.FilingMarriedJointly)
		assert.False(t, ev.Sold)
		assert.True(t, ev.CarryingCost.IsZero(), "year %d still carries costs", year)
		assert.True(t, ev.SaleProceeds.IsZero())
		assert.True(t, ev.TaxableGain.IsZero())
	}
}
