package calculation

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/nestegg/retirement-simulator/internal/domain"
	"github.com/nestegg/retirement-simulator/pkg/dateutil"
)

// defaultMaxWorkers bounds concurrent paths when the caller does not.
const defaultMaxWorkers = 8

// Engine runs the Monte Carlo household projection. One Engine can serve
// multiple runs; all mutable state lives per path.
type Engine struct {
	Logger     Logger
	Taxes      *TaxEngine
	Policy     *WithdrawalPolicy
	SS         *SocialSecurityCalculator
	Medicare   *MedicareCalculator
	RMD        *RMDCalculator
	Income     *IncomeCalculator
	AssumedTax decimal.Decimal

	// Progress, when set, is called after each completed path with the
	// running completion count and the total.
	Progress func(done, total int)
}

// NewEngine creates an engine with all calculators wired.
func NewEngine(logger Logger) *Engine {
	if logger == nil {
		logger = NopLogger{}
	}
	taxes := NewTaxEngine()
	return &Engine{
		Logger:     logger,
		Taxes:      taxes,
		Policy:     NewWithdrawalPolicy(taxes),
		SS:         NewSocialSecurityCalculator(),
		Medicare:   NewMedicareCalculator(),
		RMD:        NewRMDCalculator(),
		Income:     NewIncomeCalculator(),
		AssumedTax: decimal.NewFromFloat(0.22),
	}
}

// Run executes the full simulation and aggregates the outcome.
func (e *Engine) Run(ctx context.Context, profile *domain.Profile, params domain.RunParameters) (*domain.SimulationResult, error) {
	strategy, err := NewSpendingStrategy(params.SpendingStrategy)
	if err != nil {
		return nil, err
	}
	if !params.FilingStatus.Valid() {
		return nil, domain.NewConfigurationError("filing_status", string(params.FilingStatus), "must be mfj or single")
	}
	if _, err := e.Taxes.State.CalculateStateTax(decimal.Zero, params.State); err != nil {
		return nil, err
	}
	if !profile.AssumedTaxRate.IsZero() {
		e.AssumedTax = profile.AssumedTaxRate
	}
	e.Policy.EstimatedRate = e.AssumedTax

	timeline := deriveTimeline(profile, params)
	sched := BuildAssumptionSchedule(profile.Market, params.MarketPeriods, timeline.StartYear, timeline.Years)
	warnings := ValidateMarketPeriods(timeline.Years, params.MarketPeriods)

	e.Logger.Infof("starting simulation: %d paths over %d years (%d-%d)",
		params.NumPaths, timeline.Years, timeline.StartYear, timeline.EndYear)

	paths := make([]pathOutcome, params.NumPaths)
	workers := params.MaxWorkers
	if workers <= 0 {
		workers = defaultMaxWorkers
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	done := make(chan int, params.NumPaths)

	for i := 0; i < params.NumPaths; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(params.Seed + int64(i)))
			outcome, err := e.runPath(profile, params, strategy, sched, timeline, i, rng)
			if err != nil {
				return err
			}
			paths[i] = outcome
			done <- i
			return nil
		})
	}

	progressDone := make(chan struct{})
	go func() {
		defer close(progressDone)
		completed := 0
		for range done {
			completed++
			if e.Progress != nil {
				e.Progress(completed, params.NumPaths)
			}
			if completed == params.NumPaths {
				return
			}
		}
	}()

	if err := g.Wait(); err != nil {
		close(done)
		return nil, err
	}
	<-progressDone

	result := aggregate(paths, timeline, params, profile.Person1.BirthDate.Year())
	result.RunID = uuid.New()
	result.GeneratedAt = time.Now().UTC()
	result.Seed = params.Seed
	result.Warnings = warnings
	result.RMDSchedule = e.projectRMDSchedule(profile, timeline)

	e.Logger.Infof("simulation complete: success rate %s, %d failed paths",
		result.SuccessRate.StringFixed(4), result.FailedPaths)
	return result, nil
}

// pathOutcome is the full record of one path before aggregation.
type pathOutcome struct {
	result      domain.PathResult
	yearTotals  []decimal.Decimal
	failureYear int
}

func deriveTimeline(profile *domain.Profile, params domain.RunParameters) domain.Timeline {
	startYear := params.StartYear
	if startYear == 0 {
		startYear = time.Now().Year()
	}
	endYear := profile.Person1.DeathYear()
	if profile.Person2 != nil && profile.Person2.DeathYear() > endYear {
		endYear = profile.Person2.DeathYear()
	}
	years := params.Years
	if years == 0 {
		years = endYear - startYear + 1
	}
	if years < 1 {
		years = 1
	}

	tl := domain.Timeline{
		StartYear:       startYear,
		EndYear:         startYear + years - 1,
		Years:           years,
		RetirementYear1: profile.Person1.RetirementDate.Year(),
	}
	if profile.Person2 != nil {
		tl.RetirementYear2 = profile.Person2.RetirementDate.Year()
	}
	return tl
}

// drawNormal produces one normally distributed draw via the Box-Muller
// transform. Draw order is fixed per year so identical seeds replay
// identical paths.
func drawNormal(rng *rand.Rand, mean, std decimal.Decimal) decimal.Decimal {
	u1 := rng.Float64()
	u2 := rng.Float64()
	for u1 == 0 {
		u1 = rng.Float64()
	}
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mean.Add(decimal.NewFromFloat(z).Mul(std))
}

func claimingAge(person *domain.Person) int {
	if person.SSClaimingAge != 0 {
		return person.SSClaimingAge
	}
	return dateutil.FullRetirementAge(person.BirthDate)
}

// runPath simulates one path year by year.
func (e *Engine) runPath(profile *domain.Profile, params domain.RunParameters, strategy SpendingStrategy, sched *AssumptionSchedule, timeline domain.Timeline, pathIndex int, rng *rand.Rand) (pathOutcome, error) {
	buckets := NewBucketSet(profile.Accounts)
	properties := make([]domain.HomeProperty, len(profile.HomeProperties))
	copy(properties, profile.HomeProperties)

	outcome := pathOutcome{
		result:     domain.PathResult{PathIndex: pathIndex},
		yearTotals: make([]decimal.Decimal, timeline.Years),
	}
	if params.KeepPaths {
		outcome.result.Ledger = make([]domain.YearLedger, 0, timeline.Years)
	}

	one := decimal.NewFromInt(1)
	cumInflation := one
	failed := false
	conversionYearsDone := 0

	// cumInflation at each stream's first payout year; streams already
	// running at the projection start are nominal in the first year
	streamBase := make([]decimal.Decimal, len(profile.IncomeStreams))

	claim1 := claimingAge(&profile.Person1)
	benefit1 := e.SS.AdjustedAnnualBenefit(&profile.Person1, claim1)
	var claim2 int
	var benefit2 decimal.Decimal
	if profile.Person2 != nil {
		claim2 = claimingAge(profile.Person2)
		benefit2 = e.SS.AdjustedAnnualBenefit(profile.Person2, claim2)
	}

	for yearIdx := 0; yearIdx < timeline.Years; yearIdx++ {
		year := timeline.StartYear + yearIdx
		assumptions := sched.For(yearIdx)

		// fixed draw order: stock, bond, inflation
		stockReturn := drawNormal(rng, assumptions.StockReturnMean, assumptions.StockReturnStd)
		bondReturn := drawNormal(rng, assumptions.BondReturnMean, assumptions.BondReturnStd)
		inflation := drawNormal(rng, assumptions.InflationMean, assumptions.InflationStd)
		cumInflation = cumInflation.Mul(one.Add(inflation))

		age1 := year - profile.Person1.BirthDate.Year()
		alive1 := age1 <= profile.Person1.LifeExpectancy
		var age2 int
		alive2 := false
		if profile.Person2 != nil {
			age2 = year - profile.Person2.BirthDate.Year()
			alive2 = age2 <= profile.Person2.LifeExpectancy
		}
		retired := year >= timeline.RetirementYear1

		alloc := domain.AssetAllocation{
			Stocks: assumptions.StockAllocation,
			Bonds:  one.Sub(assumptions.StockAllocation),
		}
		buckets.Grow(stockReturn, bondReturn, assumptions.CashYield, alloc)

		ledger := domain.YearLedger{
			Year:        year,
			Age1:        age1,
			Age2:        age2,
			StockReturn: stockReturn,
			BondReturn:  bondReturn,
			Inflation:   inflation,
		}

		// scheduled income, each stream indexed from its own start year
		var streamIncome decimal.Decimal
		for i := range profile.IncomeStreams {
			stream := &profile.IncomeStreams[i]
			if year < stream.StartDate.Year() {
				continue
			}
			if streamBase[i].IsZero() {
				streamBase[i] = cumInflation
			}
			ownerAlive := alive1
			if profile.Person2 != nil && stream.Owner == profile.Person2.Name {
				ownerAlive = alive2
			}
			streamIncome = streamIncome.Add(e.Income.StreamIncome(stream, year, cumInflation.Div(streamBase[i]), ownerAlive))
		}

		// property cash flows
		var propertyCosts, propertyProceeds, propertyGains decimal.Decimal
		for i := range properties {
			ev := e.Income.PropertyYear(&properties[i], year, params.FilingStatus)
			propertyCosts = propertyCosts.Add(ev.CarryingCost)
			propertyProceeds = propertyProceeds.Add(ev.SaleProceeds)
			propertyGains = propertyGains.Add(ev.TaxableGain)
		}

		// Social Security, COLA-indexed from the projection start
		var ssBenefit decimal.Decimal
		if alive1 && age1 >= claim1 {
			ssBenefit = ssBenefit.Add(benefit1.Mul(cumInflation))
		}
		if profile.Person2 != nil && alive2 && age2 >= claim2 {
			ssBenefit = ssBenefit.Add(benefit2.Mul(cumInflation))
		}
		ledger.SocialSecurity = ssBenefit

		reached595 := dateutil.ReachedAgeFiftyNineAndHalf(profile.Person1.BirthDate, time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC))

		// required minimum distributions, forced per pre-tax bucket
		var rmdGross decimal.Decimal
		for _, bt := range []domain.BucketType{domain.BucketPretaxStandard, domain.BucketPretax457} {
			rmd := e.RMD.RequiredDistribution(buckets.TotalByType(bt), age1, profile.Person1.BirthDate.Year())
			if rmd.GreaterThan(decimal.Zero) {
				res := buckets.WithdrawFrom(bt, rmd)
				rmdGross = rmdGross.Add(res.Withdrawn)
			}
		}
		ledger.RMDWithdrawal = rmdGross

		// Roth conversion during the configured window
		var conversion decimal.Decimal
		if rc := params.RothConversion; rc != nil && retired && conversionYearsDone < rc.Years {
			avail := buckets.TotalByType(domain.BucketPretaxStandard)
			conversion = decimal.Min(rc.AnnualAmount, avail)
			if conversion.GreaterThan(decimal.Zero) {
				buckets.WithdrawFrom(domain.BucketPretaxStandard, conversion)
				buckets.Deposit(domain.BucketRoth, conversion, decimal.Zero)
			}
			conversionYearsDone++
		}
		ledger.RothConversion = conversion

		// wages only while accumulating
		var wages decimal.Decimal
		if !retired {
			// pre-retirement salary is out of model scope; savings are
			// deposited directly and spending is assumed covered
			buckets.Deposit(domain.BucketTaxable, profile.AnnualSavings, profile.AnnualSavings)
		}

		base := TaxYear{
			Wages:          wages,
			OrdinaryIncome: streamIncome.Add(rmdGross).Add(conversion),
			CapitalGains:   propertyGains,
			SSBenefit:      ssBenefit,
		}
		baseBill, err := e.Taxes.Compute(base, params.FilingStatus, params.State, reached595)
		if err != nil {
			return pathOutcome{}, err
		}

		if retired {
			yearsRetired := year - timeline.RetirementYear1

			// IRMAA estimated from the pre-withdrawal income picture
			eligible := 0
			if alive1 && age1 >= 65 {
				eligible++
			}
			if profile.Person2 != nil && alive2 && age2 >= 65 {
				eligible++
			}
			magi := base.OrdinaryIncome.Add(base.CapitalGains).Add(ssBenefit)
			irmaa := e.Medicare.AnnualSurcharge(magi, params.FilingStatus, eligible)
			ledger.IRMAASurcharge = irmaa

			spendingNeed := profile.AnnualSpending.
				Mul(cumInflation).
				Mul(strategy.Multiplier(yearsRetired)).
				Add(propertyCosts).
				Add(irmaa)
			ledger.SpendingNeed = spendingNeed

			inflows := streamIncome.Add(ssBenefit).Add(rmdGross).Add(propertyProceeds)
			netInflows := inflows.Sub(baseBill.Total())
			netNeed := spendingNeed.Sub(netInflows)

			if netNeed.GreaterThan(decimal.Zero) {
				res, err := e.Policy.Fund(buckets, netNeed, base, params.FilingStatus, params.State, reached595)
				if err != nil {
					return pathOutcome{}, err
				}
				ledger.GrossWithdrawal = res.GrossWithdrawal
				ledger.FederalTax = res.Taxes.Federal
				ledger.StateTax = res.Taxes.State
				ledger.CapitalGainsTax = res.Taxes.CapitalGains
				ledger.PenaltyTax = res.Taxes.Penalty
				ledger.Shortfall = res.Shortfall
				if res.Shortfall.GreaterThan(decimal.Zero) && !failed {
					failed = true
					outcome.failureYear = year
					e.Logger.Debugf("path %d failed in %d: shortfall %s", pathIndex, year, res.Shortfall.StringFixed(2))
				}
			} else {
				// surplus income, RMD beyond the year's need included,
				// lands in the taxable bucket at full basis; its tax
				// is already inside the bill netted above
				surplus := netNeed.Neg()
				buckets.Deposit(domain.BucketTaxable, surplus, surplus)
				ledger.FederalTax = baseBill.Federal
				ledger.StateTax = baseBill.State
				ledger.CapitalGainsTax = baseBill.CapitalGains
			}
		} else {
			ledger.FederalTax = baseBill.Federal
			ledger.StateTax = baseBill.State
			ledger.CapitalGainsTax = baseBill.CapitalGains
			// sale proceeds while accumulating are invested
			if propertyProceeds.GreaterThan(decimal.Zero) {
				buckets.Deposit(domain.BucketTaxable, propertyProceeds, propertyProceeds)
			}
		}

		ledger.GrossIncome = streamIncome
		ledger.EndingBalances = buckets.Balances()
		ledger.EndingTotalAsset = ledger.EndingBalances.Total()
		outcome.yearTotals[yearIdx] = ledger.EndingTotalAsset

		switch {
		case failed:
			ledger.State = domain.StateFailed
		case retired:
			ledger.State = domain.StateRetired
		default:
			ledger.State = domain.StateAccumulation
		}
		if yearIdx == timeline.Years-1 && !failed {
			ledger.State = domain.StateComplete
		}

		if params.KeepPaths {
			outcome.result.Ledger = append(outcome.result.Ledger, ledger)
		}
	}

	outcome.result.Failed = failed
	outcome.result.FailureYear = outcome.failureYear
	outcome.result.FinalBalance = buckets.Total()
	return outcome, nil
}

// projectRMDSchedule produces the deterministic expected-return RMD
// schedule shown alongside the stochastic results.
func (e *Engine) projectRMDSchedule(profile *domain.Profile, timeline domain.Timeline) []domain.RMDProjection {
	one := decimal.NewFromInt(1)
	expected := profile.Market.StockReturnMean.Mul(profile.Market.StockAllocation).
		Add(profile.Market.BondReturnMean.Mul(one.Sub(profile.Market.StockAllocation)))

	balances := map[domain.BucketType]decimal.Decimal{
		domain.BucketPretaxStandard: decimal.Zero,
		domain.BucketPretax457:      decimal.Zero,
	}
	for _, acct := range profile.Accounts {
		if _, ok := balances[acct.BucketType]; ok {
			balances[acct.BucketType] = balances[acct.BucketType].Add(acct.Value)
		}
	}

	birthYear := profile.Person1.BirthDate.Year()
	var schedule []domain.RMDProjection
	for year := timeline.StartYear; year <= timeline.EndYear; year++ {
		age := year - birthYear
		for _, bt := range []domain.BucketType{domain.BucketPretaxStandard, domain.BucketPretax457} {
			balances[bt] = balances[bt].Mul(one.Add(expected))
			rmd := e.RMD.RequiredDistribution(balances[bt], age, birthYear)
			if rmd.GreaterThan(decimal.Zero) {
				balances[bt] = balances[bt].Sub(rmd)
				schedule = append(schedule, domain.RMDProjection{
					BucketType: bt,
					Year:       year,
					Age:        age,
					Divisor:    e.RMD.Divisor(age, birthYear),
					Amount:     rmd,
				})
			}
		}
	}
	return schedule
}
