package calculation

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nestegg/retirement-simulator/internal/domain"
)

// TAX MODEL ASSUMPTIONS:
//
// 1. Federal brackets: 2024 tables, applied to ordinary income as handed
//    in. Deductions are the caller's concern. No inflation indexing in
//    future years.
//
// 2. Long-term capital gains: 2024 stacked brackets. Gains stack on top
//    of ordinary income when locating the 0/15/20 breakpoints.
//
// 3. Social Security taxability: provisional-income two-threshold
//    formula (50%/85% tiers).
//
// 4. State tax: flat-rate table by two-letter code. Unknown states are a
//    configuration error, not a silent zero.

// TaxBracket is one marginal bracket. Max of the top bracket is a
// sentinel large value.
type TaxBracket struct {
	Min  decimal.Decimal
	Max  decimal.Decimal
	Rate decimal.Decimal
}

// FederalTaxCalculator computes federal ordinary-income tax from the 2024
// bracket tables.
type FederalTaxCalculator struct {
	Year           int
	BracketsMFJ    []TaxBracket
	BracketsSingle []TaxBracket
}

// NewFederalTaxCalculator creates a calculator loaded with the 2024
// brackets for both filing statuses.
func NewFederalTaxCalculator() *FederalTaxCalculator {
	top := decimal.NewFromInt(999999999)
	return &FederalTaxCalculator{
		Year: 2024,
		BracketsMFJ: []TaxBracket{
			{decimal.Zero, decimal.NewFromInt(23200), decimal.NewFromFloat(0.10)},
			{decimal.NewFromInt(23200), decimal.NewFromInt(94300), decimal.NewFromFloat(0.12)},
			{decimal.NewFromInt(94300), decimal.NewFromInt(201050), decimal.NewFromFloat(0.22)},
			{decimal.NewFromInt(201050), decimal.NewFromInt(383900), decimal.NewFromFloat(0.24)},
			{decimal.NewFromInt(383900), decimal.NewFromInt(487450), decimal.NewFromFloat(0.32)},
			{decimal.NewFromInt(487450), decimal.NewFromInt(731200), decimal.NewFromFloat(0.35)},
			{decimal.NewFromInt(731200), top, decimal.NewFromFloat(0.37)},
		},
		BracketsSingle: []TaxBracket{
			{decimal.Zero, decimal.NewFromInt(11600), decimal.NewFromFloat(0.10)},
			{decimal.NewFromInt(11600), decimal.NewFromInt(47150), decimal.NewFromFloat(0.12)},
			{decimal.NewFromInt(47150), decimal.NewFromInt(100525), decimal.NewFromFloat(0.22)},
			{decimal.NewFromInt(100525), decimal.NewFromInt(191950), decimal.NewFromFloat(0.24)},
			{decimal.NewFromInt(191950), decimal.NewFromInt(243725), decimal.NewFromFloat(0.32)},
			{decimal.NewFromInt(243725), decimal.NewFromInt(609350), decimal.NewFromFloat(0.35)},
			{decimal.NewFromInt(609350), top, decimal.NewFromFloat(0.37)},
		},
	}
}

func (ftc *FederalTaxCalculator) brackets(status domain.FilingStatus) []TaxBracket {
	if status == domain.FilingSingle {
		return ftc.BracketsSingle
	}
	return ftc.BracketsMFJ
}

// CalculateFederalTax computes tax on ordinary taxable income.
func (ftc *FederalTaxCalculator) CalculateFederalTax(ordinaryIncome decimal.Decimal, status domain.FilingStatus) decimal.Decimal {
	if ordinaryIncome.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	var totalTax decimal.Decimal
	for _, bracket := range ftc.brackets(status) {
		if ordinaryIncome.LessThanOrEqual(bracket.Min) {
			break
		}
		incomeInBracket := decimal.Min(ordinaryIncome, bracket.Max).Sub(bracket.Min)
		if incomeInBracket.GreaterThan(decimal.Zero) {
			totalTax = totalTax.Add(incomeInBracket.Mul(bracket.Rate))
		}
	}
	return totalTax
}

// CapitalGainsCalculator computes long-term capital gains tax with 2024
// stacked brackets.
type CapitalGainsCalculator struct {
	ZeroTopMFJ       decimal.Decimal
	ZeroTopSingle    decimal.Decimal
	FifteenTopMFJ    decimal.Decimal
	FifteenTopSingle decimal.Decimal
}

// NewCapitalGainsCalculator creates a calculator with the 2024 LTCG
// breakpoints.
func NewCapitalGainsCalculator() *CapitalGainsCalculator {
	return &CapitalGainsCalculator{
		ZeroTopMFJ:       decimal.NewFromInt(94050),
		ZeroTopSingle:    decimal.NewFromInt(47025),
		FifteenTopMFJ:    decimal.NewFromInt(583750),
		FifteenTopSingle: decimal.NewFromInt(518900),
	}
}

// CalculateCapitalGainsTax computes LTCG tax on gains stacked on top of
// ordinary taxable income.
func (cgc *CapitalGainsCalculator) CalculateCapitalGainsTax(gains, ordinaryIncome decimal.Decimal, status domain.FilingStatus) decimal.Decimal {
	if gains.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	zeroTop, fifteenTop := cgc.ZeroTopMFJ, cgc.FifteenTopMFJ
	if status == domain.FilingSingle {
		zeroTop, fifteenTop = cgc.ZeroTopSingle, cgc.FifteenTopSingle
	}
	if ordinaryIncome.IsNegative() {
		ordinaryIncome = decimal.Zero
	}

	stackTop := ordinaryIncome.Add(gains)
	var tax decimal.Decimal

	// Portion above the 15% breakpoint taxed at 20%.
	if stackTop.GreaterThan(fifteenTop) {
		at20 := decimal.Min(gains, stackTop.Sub(fifteenTop))
		tax = tax.Add(at20.Mul(decimal.NewFromFloat(0.20)))
		gains = gains.Sub(at20)
		stackTop = fifteenTop
	}
	// Portion above the 0% breakpoint taxed at 15%.
	if stackTop.GreaterThan(zeroTop) && gains.GreaterThan(decimal.Zero) {
		at15 := decimal.Min(gains, stackTop.Sub(zeroTop))
		tax = tax.Add(at15.Mul(decimal.NewFromFloat(0.15)))
	}
	// Remainder sits in the 0% bracket.
	return tax
}

// StateTaxCalculator computes flat-rate state income tax. Only states
// with a defined rate are supported.
type StateTaxCalculator struct {
	Rates map[string]decimal.Decimal
}

// NewStateTaxCalculator creates a calculator loaded with the supported
// flat-rate states.
func NewStateTaxCalculator() *StateTaxCalculator {
	return &StateTaxCalculator{
		Rates: map[string]decimal.Decimal{
			"PA": decimal.NewFromFloat(0.0307),
			"IL": decimal.NewFromFloat(0.0495),
			"IN": decimal.NewFromFloat(0.0305),
			"MI": decimal.NewFromFloat(0.0425),
			"NC": decimal.NewFromFloat(0.0450),
			"CO": decimal.NewFromFloat(0.0440),
			"FL": decimal.Zero,
			"TX": decimal.Zero,
			"WA": decimal.Zero,
			"NV": decimal.Zero,
			"TN": decimal.Zero,
		},
	}
}

// CalculateStateTax applies the flat rate for the given state code. An
// unknown state yields a ConfigurationError.
func (stc *StateTaxCalculator) CalculateStateTax(income decimal.Decimal, state string) (decimal.Decimal, error) {
	rate, ok := stc.Rates[strings.ToUpper(state)]
	if !ok {
		return decimal.Zero, domain.NewConfigurationError("state", state, "no flat tax rate defined")
	}
	if income.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, nil
	}
	return income.Mul(rate), nil
}

// FICACalculator computes payroll taxes on earned income during
// accumulation years.
type FICACalculator struct {
	SSRate       decimal.Decimal
	SSWageBase   decimal.Decimal
	MedicareRate decimal.Decimal
}

// NewFICACalculator creates a calculator with 2024 rates and wage base.
func NewFICACalculator() *FICACalculator {
	return &FICACalculator{
		SSRate:       decimal.NewFromFloat(0.062),
		SSWageBase:   decimal.NewFromInt(168600),
		MedicareRate: decimal.NewFromFloat(0.0145),
	}
}

// CalculateFICA computes the employee share of payroll tax on wages.
func (f *FICACalculator) CalculateFICA(wages decimal.Decimal) decimal.Decimal {
	if wages.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	ss := decimal.Min(wages, f.SSWageBase).Mul(f.SSRate)
	medicare := wages.Mul(f.MedicareRate)
	return ss.Add(medicare)
}

// EarlyWithdrawalPenalty computes the 10% additional tax on pre-tax
// withdrawals before age 59.5. Governmental 457(b) plans are exempt.
func EarlyWithdrawalPenalty(amount decimal.Decimal, bucket domain.BucketType, reachedFiftyNineAndHalf bool) decimal.Decimal {
	if reachedFiftyNineAndHalf || bucket == domain.BucketPretax457 {
		return decimal.Zero
	}
	if bucket != domain.BucketPretaxStandard {
		return decimal.Zero
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return amount.Mul(decimal.NewFromFloat(0.10))
}
