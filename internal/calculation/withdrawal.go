package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/nestegg/retirement-simulator/internal/domain"
)

const (
	// grossUpMaxIterations bounds the fixed-point search for the gross
	// withdrawal that delivers the requested net amount.
	grossUpMaxIterations = 25
)

// grossUpTolerance is the convergence threshold for the net delivered.
var grossUpTolerance = decimal.NewFromFloat(0.01)

// TaxYear is everything that feeds one year's tax computation.
type TaxYear struct {
	Wages          decimal.Decimal // earned income, FICA applies
	OrdinaryIncome decimal.Decimal // pensions, pre-tax draws, conversions
	CapitalGains   decimal.Decimal
	SSBenefit      decimal.Decimal
	PenaltyBase    decimal.Decimal // pre-tax standard draws before 59.5
}

// TaxBill is the result of one full-year tax computation.
type TaxBill struct {
	Federal      decimal.Decimal
	State        decimal.Decimal
	CapitalGains decimal.Decimal
	Penalty      decimal.Decimal
	FICA         decimal.Decimal
}

// Total sums every component of the bill.
func (tb TaxBill) Total() decimal.Decimal {
	return tb.Federal.Add(tb.State).Add(tb.CapitalGains).Add(tb.Penalty).Add(tb.FICA)
}

// TaxEngine combines the individual calculators into a single full-year
// computation. The gross-up loop recomputes the whole year on every
// iteration so bracket and threshold crossings are captured.
type TaxEngine struct {
	Federal *FederalTaxCalculator
	Gains   *CapitalGainsCalculator
	State   *StateTaxCalculator
	SS      *SocialSecurityCalculator
	FICA    *FICACalculator
}

// NewTaxEngine creates an engine with all 2024 tables loaded.
func NewTaxEngine() *TaxEngine {
	return &TaxEngine{
		Federal: NewFederalTaxCalculator(),
		Gains:   NewCapitalGainsCalculator(),
		State:   NewStateTaxCalculator(),
		SS:      NewSocialSecurityCalculator(),
		FICA:    NewFICACalculator(),
	}
}

// Compute produces the full tax bill for one year. Social Security
// taxability is derived from the year's other income, so ordering effects
// from additional withdrawals are captured automatically.
func (te *TaxEngine) Compute(ty TaxYear, status domain.FilingStatus, state string, reachedFiftyNineAndHalf bool) (TaxBill, error) {
	var bill TaxBill

	otherIncome := ty.Wages.Add(ty.OrdinaryIncome).Add(ty.CapitalGains)
	taxableSS := te.SS.TaxablePortion(ty.SSBenefit, otherIncome, status)

	ordinary := ty.Wages.Add(ty.OrdinaryIncome).Add(taxableSS)
	bill.Federal = te.Federal.CalculateFederalTax(ordinary, status)
	bill.CapitalGains = te.Gains.CalculateCapitalGainsTax(ty.CapitalGains, ordinary, status)

	// flat states do not tax Social Security
	stateTax, err := te.State.CalculateStateTax(ty.Wages.Add(ty.OrdinaryIncome).Add(ty.CapitalGains), state)
	if err != nil {
		return TaxBill{}, err
	}
	bill.State = stateTax

	bill.Penalty = EarlyWithdrawalPenalty(ty.PenaltyBase, domain.BucketPretaxStandard, reachedFiftyNineAndHalf)
	bill.FICA = te.FICA.CalculateFICA(ty.Wages)
	return bill, nil
}

// FundingResult reports how a net spending need was met.
type FundingResult struct {
	GrossWithdrawal decimal.Decimal
	ByBucket        map[domain.BucketType]decimal.Decimal
	RealizedGains   decimal.Decimal
	Taxes           TaxBill
	NetDelivered    decimal.Decimal
	Shortfall       decimal.Decimal
	Converged       bool
}

// WithdrawalPolicy draws from buckets in tax-efficiency order and solves
// for the gross amount whose after-tax proceeds meet the net need.
type WithdrawalPolicy struct {
	Engine *TaxEngine

	// EstimatedRate, when in (0,1), seeds the gross-up search at
	// need/(1-rate) instead of the net need itself. The fixed point
	// reached is the same; the seed only saves iterations.
	EstimatedRate decimal.Decimal
}

// NewWithdrawalPolicy creates a policy backed by the given tax engine.
func NewWithdrawalPolicy(engine *TaxEngine) *WithdrawalPolicy {
	return &WithdrawalPolicy{Engine: engine}
}

// drawOrder returns the bucket priority. Before 59.5 the 457(b) bucket is
// preferred right after cash because it carries no early penalty; after
// 59.5 it moves behind the standard pre-tax bucket.
func drawOrder(reachedFiftyNineAndHalf bool) []domain.BucketType {
	if reachedFiftyNineAndHalf {
		return []domain.BucketType{
			domain.BucketCash,
			domain.BucketTaxable,
			domain.BucketPretaxStandard,
			domain.BucketPretax457,
			domain.BucketRoth,
		}
	}
	return []domain.BucketType{
		domain.BucketCash,
		domain.BucketPretax457,
		domain.BucketTaxable,
		domain.BucketPretaxStandard,
		domain.BucketRoth,
	}
}

// allocation is one trial draw of a gross amount across buckets.
type allocation struct {
	byBucket      map[domain.BucketType]decimal.Decimal
	realizedGains decimal.Decimal
	withdrawn     decimal.Decimal
	buckets       *BucketSet
}

func runAllocation(bs *BucketSet, gross decimal.Decimal, reachedFiftyNineAndHalf bool) allocation {
	work := bs.Clone()
	alloc := allocation{
		byBucket: make(map[domain.BucketType]decimal.Decimal),
		buckets:  work,
	}
	remaining := gross
	for _, bt := range drawOrder(reachedFiftyNineAndHalf) {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		res := work.WithdrawFrom(bt, remaining)
		if res.Withdrawn.GreaterThan(decimal.Zero) {
			alloc.byBucket[bt] = alloc.byBucket[bt].Add(res.Withdrawn)
			alloc.withdrawn = alloc.withdrawn.Add(res.Withdrawn)
			alloc.realizedGains = alloc.realizedGains.Add(res.RealizedGain)
			remaining = remaining.Sub(res.Withdrawn)
		}
	}
	return alloc
}

// Fund withdraws enough, gross, to deliver netNeed after the incremental
// taxes the withdrawal itself creates. base is the year's tax picture
// before any discretionary withdrawal. On success the draw is committed
// to bs. A shortfall is reported when the accounts cannot deliver the
// net need.
func (wp *WithdrawalPolicy) Fund(bs *BucketSet, netNeed decimal.Decimal, base TaxYear, status domain.FilingStatus, state string, reachedFiftyNineAndHalf bool) (FundingResult, error) {
	baseBill, err := wp.Engine.Compute(base, status, state, reachedFiftyNineAndHalf)
	if err != nil {
		return FundingResult{}, err
	}

	if netNeed.LessThanOrEqual(decimal.Zero) {
		return FundingResult{
			ByBucket:  make(map[domain.BucketType]decimal.Decimal),
			Taxes:     baseBill,
			Converged: true,
		}, nil
	}

	one := decimal.NewFromInt(1)
	gross := netNeed
	if wp.EstimatedRate.GreaterThan(decimal.Zero) && wp.EstimatedRate.LessThan(one) {
		gross = netNeed.Div(one.Sub(wp.EstimatedRate))
	}
	var best allocation
	var bestBill TaxBill
	var bestNet decimal.Decimal
	converged := false

	for i := 0; i < grossUpMaxIterations; i++ {
		alloc := runAllocation(bs, gross, reachedFiftyNineAndHalf)

		trial := base
		pretax := alloc.byBucket[domain.BucketPretaxStandard].Add(alloc.byBucket[domain.BucketPretax457])
		trial.OrdinaryIncome = trial.OrdinaryIncome.Add(pretax)
		trial.CapitalGains = trial.CapitalGains.Add(alloc.realizedGains)
		trial.PenaltyBase = trial.PenaltyBase.Add(alloc.byBucket[domain.BucketPretaxStandard])

		bill, err := wp.Engine.Compute(trial, status, state, reachedFiftyNineAndHalf)
		if err != nil {
			return FundingResult{}, err
		}

		incrementalTax := bill.Total().Sub(baseBill.Total())
		net := alloc.withdrawn.Sub(incrementalTax)

		best, bestBill, bestNet = alloc, bill, net

		gap := netNeed.Sub(net)
		if gap.Abs().LessThanOrEqual(grossUpTolerance) {
			converged = true
			break
		}
		// accounts exhausted and still short: drawing more cannot close
		// the gap. An over-delivering partial draw instead shrinks gross
		// on the next pass.
		if alloc.withdrawn.LessThan(gross) && gap.GreaterThan(decimal.Zero) {
			break
		}
		gross = gross.Add(gap)
	}

	// commit the trial draw
	bs.Buckets = best.buckets.Buckets

	result := FundingResult{
		GrossWithdrawal: best.withdrawn,
		ByBucket:        best.byBucket,
		RealizedGains:   best.realizedGains,
		Taxes:           bestBill,
		NetDelivered:    bestNet,
		Converged:       converged,
	}
	if !converged {
		shortfall := netNeed.Sub(bestNet)
		if shortfall.GreaterThan(decimal.Zero) {
			result.Shortfall = shortfall
		}
	}
	return result, nil
}
