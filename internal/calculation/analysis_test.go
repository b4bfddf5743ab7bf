package calculation

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nestegg/retirement-simulator/internal/domain"
)

func TestCompareClaimingAges(t *testing.T) {
	engine := NewEngine(nil)
	profile := simulationProfile()
	params := simulationParams()

	analysis, err := engine.CompareClaimingAges(context.Background(), profile, params)
	require.NoError(t, err)
	require.Len(t, analysis.Outcomes, 3)

	ages := []int{62, 67, 70}
	for i, outcome := range analysis.Outcomes {
		assert.Equal(t, ages[i], outcome.ClaimingAge)
		assert.True(t, outcome.SuccessRate.GreaterThanOrEqual(decimal.Zero))
	}

	// benefits rise monotonically with claiming age
	assert.True(t, analysis.Outcomes[0].AnnualBenefit1.LessThan(analysis.Outcomes[1].AnnualBenefit1))
	assert.True(t, analysis.Outcomes[1].AnnualBenefit1.LessThan(analysis.Outcomes[2].AnnualBenefit1))

	assert.Contains(t, ages, analysis.BestAge)
	assert.Equal(t, params.Seed, analysis.Seed)
}

func TestCompareClaimingAgesDoesNotMutateProfile(t *testing.T) {
	engine := NewEngine(nil)
	profile := simulationProfile()
	originalClaim := profile.Person1.SSClaimingAge

	_, err := engine.CompareClaimingAges(context.Background(), profile, simulationParams())
	require.NoError(t, err)
	assert.Equal(t, originalClaim, profile.Person1.SSClaimingAge)
}

func TestCompareRothConversion(t *testing.T) {
	engine := NewEngine(nil)
	profile := simulationProfile()
	params := simulationParams()
	plan := domain.RothConversion{
		AnnualAmount: decimal.NewFromInt(50000),
		Years:        5,
	}

	analysis, err := engine.CompareRothConversion(context.Background(), profile, params, plan)
	require.NoError(t, err)

	assert.Equal(t, "no conversion", analysis.Baseline.Label)
	assert.Equal(t, "with conversion", analysis.WithPlan.Label)
	assert.True(t, analysis.WithPlan.TotalConverted.Equal(decimal.NewFromInt(250000)))
	assert.True(t, analysis.Baseline.TotalConverted.IsZero())
	// both legs saw the same market draws
	assert.Equal(t, params.Seed, analysis.Seed)
}
