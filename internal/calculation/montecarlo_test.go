package calculation

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nestegg/retirement-simulator/internal/domain"
)

func simulationProfile() *domain.Profile {
	return &domain.Profile{
		Person1: domain.Person{
			Name:           "Alex",
			BirthDate:      time.Date(1960, 5, 1, 0, 0, 0, 0, time.UTC),
			RetirementDate: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
			LifeExpectancy: 90,
			SSMonthlyAtFRA: decimal.NewFromInt(2500),
			SSClaimingAge:  67,
		},
		Accounts: []domain.InvestmentAccount{
			{Name: "Cash", BucketType: domain.BucketCash, Value: decimal.NewFromInt(50000)},
			{Name: "Brokerage", BucketType: domain.BucketTaxable, Value: decimal.NewFromInt(600000), CostBasis: decimal.NewFromInt(350000)},
			{Name: "IRA", BucketType: domain.BucketPretaxStandard, Value: decimal.NewFromInt(900000)},
			{Name: "Roth", BucketType: domain.BucketRoth, Value: decimal.NewFromInt(150000)},
		},
		Market:         domain.DefaultMarketAssumptions(),
		AnnualSpending: decimal.NewFromInt(80000),
	}
}

func simulationParams() domain.RunParameters {
	return domain.RunParameters{
		NumPaths:         100,
		StartYear:        2026,
		Seed:             42,
		SpendingStrategy: "standard",
		FilingStatus:     domain.FilingSingle,
		State:            "FL",
	}
}

func TestRunBasic(t *testing.T) {
	engine := NewEngine(nil)
	result, err := engine.Run(context.Background(), simulationProfile(), simulationParams())
	require.NoError(t, err)

	assert.Equal(t, 100, result.NumPaths)
	assert.Equal(t, 2026, result.Timeline.StartYear)
	// horizon runs to life expectancy
	assert.Equal(t, 2050, result.Timeline.EndYear)
	assert.Len(t, result.Trajectory, result.Timeline.Years)
	assert.True(t, result.SuccessRate.GreaterThanOrEqual(decimal.Zero))
	assert.True(t, result.SuccessRate.LessThanOrEqual(decimal.NewFromInt(1)))
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", result.RunID.String())

	// percentile bands are ordered
	for _, yp := range result.Trajectory {
		assert.True(t, yp.Bands.P10.LessThanOrEqual(yp.Bands.P50), "year %d", yp.Year)
		assert.True(t, yp.Bands.P50.LessThanOrEqual(yp.Bands.P90), "year %d", yp.Year)
	}
}

func TestRunIdenticalSeedsIdenticalResults(t *testing.T) {
	engine := NewEngine(nil)
	profile := simulationProfile()
	params := simulationParams()

	first, err := engine.Run(context.Background(), profile, params)
	require.NoError(t, err)
	second, err := engine.Run(context.Background(), profile, params)
	require.NoError(t, err)

	assert.True(t, first.SuccessRate.Equal(second.SuccessRate))
	assert.True(t, first.FinalBalances.P50.Equal(second.FinalBalances.P50))
	assert.True(t, first.FinalBalances.P10.Equal(second.FinalBalances.P10))
	assert.Equal(t, first.FailedPaths, second.FailedPaths)
}

func TestRunDifferentSeedsDiverge(t *testing.T) {
	engine := NewEngine(nil)
	profile := simulationProfile()

	params := simulationParams()
	first, err := engine.Run(context.Background(), profile, params)
	require.NoError(t, err)

	params.Seed = 1042
	second, err := engine.Run(context.Background(), profile, params)
	require.NoError(t, err)

	assert.False(t, first.FinalBalances.P50.Equal(second.FinalBalances.P50))
}

func TestRunHigherSpendingNeverImprovesSuccess(t *testing.T) {
	engine := NewEngine(nil)
	params := simulationParams()

	modest := simulationProfile()
	modest.AnnualSpending = decimal.NewFromInt(50000)
	lavish := simulationProfile()
	lavish.AnnualSpending = decimal.NewFromInt(160000)

	modestRes, err := engine.Run(context.Background(), modest, params)
	require.NoError(t, err)
	lavishRes, err := engine.Run(context.Background(), lavish, params)
	require.NoError(t, err)

	assert.True(t, lavishRes.SuccessRate.LessThanOrEqual(modestRes.SuccessRate),
		"lavish %s vs modest %s", lavishRes.SuccessRate, modestRes.SuccessRate)
}

func TestRunSingleYearHorizon(t *testing.T) {
	engine := NewEngine(nil)
	params := simulationParams()
	params.Years = 1

	result, err := engine.Run(context.Background(), simulationProfile(), params)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Timeline.Years)
	assert.Len(t, result.Trajectory, 1)
}

func TestRunKeepPaths(t *testing.T) {
	engine := NewEngine(nil)
	params := simulationParams()
	params.KeepPaths = true

	result, err := engine.Run(context.Background(), simulationProfile(), params)
	require.NoError(t, err)
	require.Len(t, result.Paths, params.NumPaths)
	assert.Len(t, result.Paths[0].Ledger, result.Timeline.Years)

	// ledger totals agree with the trajectory inputs
	last := result.Paths[0].Ledger[len(result.Paths[0].Ledger)-1]
	assert.True(t, last.EndingTotalAsset.Equal(result.Paths[0].FinalBalance))
}

func TestRunRejectsBadConfig(t *testing.T) {
	engine := NewEngine(nil)
	profile := simulationProfile()

	params := simulationParams()
	params.State = "ZZ"
	_, err := engine.Run(context.Background(), profile, params)
	var cfgErr *domain.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)

	params = simulationParams()
	params.FilingStatus = "hoh"
	_, err = engine.Run(context.Background(), profile, params)
	assert.ErrorAs(t, err, &cfgErr)

	params = simulationParams()
	params.SpendingStrategy = "bogus"
	_, err = engine.Run(context.Background(), profile, params)
	assert.ErrorAs(t, err, &cfgErr)
}

// flatMarket removes all randomness so one path is fully deterministic.
func flatMarket() domain.MarketAssumptions {
	m := domain.DefaultMarketAssumptions()
	m.StockReturnMean = decimal.Zero
	m.StockReturnStd = decimal.Zero
	m.BondReturnMean = decimal.Zero
	m.BondReturnStd = decimal.Zero
	m.InflationMean = decimal.Zero
	m.InflationStd = decimal.Zero
	m.CashYield = decimal.Zero
	return m
}

func TestRunRMDExceedsSpendingNeed(t *testing.T) {
	engine := NewEngine(nil)
	cent := decimal.NewFromFloat(0.01)

	profile := &domain.Profile{
		Person1: domain.Person{
			Name:           "Ruth",
			BirthDate:      time.Date(1952, 3, 1, 0, 0, 0, 0, time.UTC),
			RetirementDate: time.Date(2017, 3, 1, 0, 0, 0, 0, time.UTC),
			LifeExpectancy: 95,
		},
		Accounts: []domain.InvestmentAccount{
			{Name: "IRA", BucketType: domain.BucketPretaxStandard, Value: decimal.NewFromInt(500000)},
		},
		Market:         flatMarket(),
		AnnualSpending: decimal.NewFromInt(1000),
	}
	params := domain.RunParameters{
		NumPaths:         1,
		StartYear:        2026,
		Years:            1,
		Seed:             7,
		SpendingStrategy: "standard",
		FilingStatus:     domain.FilingSingle,
		State:            "FL",
		KeepPaths:        true,
	}

	result, err := engine.Run(context.Background(), profile, params)
	require.NoError(t, err)
	require.Len(t, result.Paths, 1)
	require.Len(t, result.Paths[0].Ledger, 1)
	ledger := result.Paths[0].Ledger[0]

	// age 74: forced distribution of 500,000 / 25.5 even though the
	// spending need is far smaller
	rmd := decimal.NewFromInt(500000).Div(decimal.NewFromFloat(25.5))
	assert.True(t, ledger.RMDWithdrawal.Sub(rmd).Abs().LessThan(cent),
		"rmd %s", ledger.RMDWithdrawal)

	fed := NewFederalTaxCalculator().CalculateFederalTax(rmd, domain.FilingSingle)
	assert.True(t, ledger.FederalTax.Sub(fed).Abs().LessThan(cent))

	// the excess lands in the taxable bucket exactly once, after tax
	wantTaxable := rmd.Sub(decimal.NewFromInt(1000)).Sub(fed)
	assert.True(t, ledger.EndingBalances.Taxable.Sub(wantTaxable).Abs().LessThan(cent),
		"taxable %s want %s", ledger.EndingBalances.Taxable, wantTaxable)
	assert.True(t, ledger.EndingBalances.PretaxStandard.Sub(decimal.NewFromInt(500000).Sub(rmd)).Abs().LessThan(cent))

	// nothing is created from thin air: start minus spending minus tax
	wantTotal := decimal.NewFromInt(500000).Sub(decimal.NewFromInt(1000)).Sub(fed)
	assert.True(t, result.Paths[0].FinalBalance.Sub(wantTotal).Abs().LessThan(cent),
		"final %s want %s", result.Paths[0].FinalBalance, wantTotal)
}

func TestRunStreamStartsAtNominalAmount(t *testing.T) {
	engine := NewEngine(nil)
	cent := decimal.NewFromFloat(0.01)

	market := flatMarket()
	market.InflationMean = decimal.NewFromFloat(0.02)

	profile := &domain.Profile{
		Person1: domain.Person{
			Name:           "Ruth",
			BirthDate:      time.Date(1952, 3, 1, 0, 0, 0, 0, time.UTC),
			RetirementDate: time.Date(2017, 3, 1, 0, 0, 0, 0, time.UTC),
			LifeExpectancy: 95,
		},
		Accounts: []domain.InvestmentAccount{
			{Name: "Brokerage", BucketType: domain.BucketTaxable, Value: decimal.NewFromInt(1000000), CostBasis: decimal.NewFromInt(1000000)},
		},
		IncomeStreams: []domain.IncomeStream{
			{
				Name:              "Pension",
				AnnualAmount:      decimal.NewFromInt(20000),
				StartDate:         time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
				InflationAdjusted: true,
			},
		},
		Market:         market,
		AnnualSpending: decimal.NewFromInt(40000),
	}
	params := domain.RunParameters{
		NumPaths:         1,
		StartYear:        2026,
		Years:            6,
		Seed:             7,
		SpendingStrategy: "standard",
		FilingStatus:     domain.FilingSingle,
		State:            "FL",
		KeepPaths:        true,
	}

	result, err := engine.Run(context.Background(), profile, params)
	require.NoError(t, err)
	require.Len(t, result.Paths[0].Ledger, 6)

	// nominal in its first payout year despite four years of prior
	// inflation, then indexed from there
	first := result.Paths[0].Ledger[4] // 2030
	assert.True(t, first.GrossIncome.Sub(decimal.NewFromInt(20000)).Abs().LessThan(cent),
		"first payout %s", first.GrossIncome)
	second := result.Paths[0].Ledger[5] // 2031
	assert.True(t, second.GrossIncome.Sub(decimal.NewFromInt(20400)).Abs().LessThan(cent),
		"second payout %s", second.GrossIncome)
}

func TestRunProgressCallback(t *testing.T) {
	engine := NewEngine(nil)
	var calls int
	var lastDone int
	engine.Progress = func(done, total int) {
		calls++
		lastDone = done
	}

	params := simulationParams()
	_, err := engine.Run(context.Background(), simulationProfile(), params)
	require.NoError(t, err)
	assert.Equal(t, params.NumPaths, calls)
	assert.Equal(t, params.NumPaths, lastDone)
}

func TestRunContextCancellation(t *testing.T) {
	engine := NewEngine(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Run(ctx, simulationProfile(), simulationParams())
	assert.Error(t, err)
}

func TestProjectRMDSchedule(t *testing.T) {
	engine := NewEngine(nil)
	profile := simulationProfile()
	params := simulationParams()

	result, err := engine.Run(context.Background(), profile, params)
	require.NoError(t, err)
	require.NotEmpty(t, result.RMDSchedule)

	// 1960 cohort starts distributions at 75
	first := result.RMDSchedule[0]
	assert.Equal(t, 75, first.Age)
	assert.True(t, first.Divisor.Equal(decimal.NewFromFloat(24.6)))
	assert.Equal(t, domain.BucketPretaxStandard, first.BucketType)
}

func TestRunMarketPeriodWarningsSurface(t *testing.T) {
	engine := NewEngine(nil)
	params := simulationParams()
	params.MarketPeriods = &domain.MarketPeriods{
		Type: domain.MarketPeriodTimeline,
		Periods: []domain.TimelinePeriod{
			{StartYear: 2026, EndYear: 2035, Assumptions: func() domain.MarketAssumptions {
				a := domain.DefaultMarketAssumptions()
				a.StockReturnMean = decimal.NewFromFloat(0.02)
				return a
			}()},
		},
	}

	result, err := engine.Run(context.Background(), simulationProfile(), params)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Warnings)
}
