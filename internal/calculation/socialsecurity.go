package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/nestegg/retirement-simulator/internal/domain"
	"github.com/nestegg/retirement-simulator/pkg/dateutil"
)

// SocialSecurityCalculator adjusts benefits for claiming age and computes
// the federally taxable portion of benefits.
type SocialSecurityCalculator struct {
	Threshold1MFJ    decimal.Decimal
	Threshold2MFJ    decimal.Decimal
	Threshold1Single decimal.Decimal
	Threshold2Single decimal.Decimal
}

// NewSocialSecurityCalculator creates a calculator with the statutory
// provisional-income thresholds.
func NewSocialSecurityCalculator() *SocialSecurityCalculator {
	return &SocialSecurityCalculator{
		Threshold1MFJ:    decimal.NewFromInt(32000),
		Threshold2MFJ:    decimal.NewFromInt(44000),
		Threshold1Single: decimal.NewFromInt(25000),
		Threshold2Single: decimal.NewFromInt(34000),
	}
}

// AdjustedAnnualBenefit converts a monthly benefit at Full Retirement Age
// into the annual benefit at the chosen claiming age. Claims before FRA
// are reduced 5/9 of 1% per month for the first 36 months and 5/12 of 1%
// per month beyond; claims after FRA earn 2/3 of 1% per month in delayed
// credits (8% per year, capped at age 70).
func (ssc *SocialSecurityCalculator) AdjustedAnnualBenefit(person *domain.Person, claimingAge int) decimal.Decimal {
	fra := dateutil.FullRetirementAge(person.BirthDate)
	if claimingAge > 70 {
		claimingAge = 70
	}
	monthsFromFRA := (claimingAge - fra) * 12

	factor := decimal.NewFromInt(1)
	switch {
	case monthsFromFRA < 0:
		early := -monthsFromFRA
		first := early
		if first > 36 {
			first = 36
		}
		reduction := decimal.NewFromInt(int64(first)).
			Mul(decimal.NewFromFloat(5.0 / 9.0 / 100.0))
		if early > 36 {
			reduction = reduction.Add(decimal.NewFromInt(int64(early - 36)).
				Mul(decimal.NewFromFloat(5.0 / 12.0 / 100.0)))
		}
		factor = factor.Sub(reduction)
	case monthsFromFRA > 0:
		factor = factor.Add(decimal.NewFromInt(int64(monthsFromFRA)).
			Mul(decimal.NewFromFloat(2.0 / 3.0 / 100.0)))
	}

	return person.SSMonthlyAtFRA.Mul(factor).Mul(decimal.NewFromInt(12))
}

// TaxablePortion returns the federally taxable share of Social Security
// benefits under the two-threshold provisional-income formula.
// otherIncome is all non-SS income counted toward provisional income.
func (ssc *SocialSecurityCalculator) TaxablePortion(ssBenefit, otherIncome decimal.Decimal, status domain.FilingStatus) decimal.Decimal {
	if ssBenefit.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	t1, t2 := ssc.Threshold1MFJ, ssc.Threshold2MFJ
	if status == domain.FilingSingle {
		t1, t2 = ssc.Threshold1Single, ssc.Threshold2Single
	}

	half := decimal.NewFromFloat(0.5)
	provisional := otherIncome.Add(ssBenefit.Mul(half))

	if provisional.LessThanOrEqual(t1) {
		return decimal.Zero
	}
	if provisional.LessThanOrEqual(t2) {
		return decimal.Min(ssBenefit.Mul(half), provisional.Sub(t1).Mul(half))
	}

	tier1 := decimal.Min(ssBenefit.Mul(half), t2.Sub(t1).Mul(half))
	tier2 := provisional.Sub(t2).Mul(decimal.NewFromFloat(0.85)).Add(tier1)
	return decimal.Min(ssBenefit.Mul(decimal.NewFromFloat(0.85)), tier2)
}
