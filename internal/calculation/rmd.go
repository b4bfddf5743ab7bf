package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/nestegg/retirement-simulator/pkg/dateutil"
)

// uniformLifetimeTable holds the IRS Uniform Lifetime divisors by age.
// Ages past the end of the table reuse the final divisor.
var uniformLifetimeTable = map[int]decimal.Decimal{
	72:  decimal.NewFromFloat(27.4),
	73:  decimal.NewFromFloat(26.5),
	74:  decimal.NewFromFloat(25.5),
	75:  decimal.NewFromFloat(24.6),
	76:  decimal.NewFromFloat(23.7),
	77:  decimal.NewFromFloat(22.9),
	78:  decimal.NewFromFloat(22.0),
	79:  decimal.NewFromFloat(21.1),
	80:  decimal.NewFromFloat(20.2),
	81:  decimal.NewFromFloat(19.4),
	82:  decimal.NewFromFloat(18.5),
	83:  decimal.NewFromFloat(17.7),
	84:  decimal.NewFromFloat(16.8),
	85:  decimal.NewFromFloat(16.0),
	86:  decimal.NewFromFloat(15.2),
	87:  decimal.NewFromFloat(14.4),
	88:  decimal.NewFromFloat(13.7),
	89:  decimal.NewFromFloat(12.9),
	90:  decimal.NewFromFloat(12.2),
	91:  decimal.NewFromFloat(11.5),
	92:  decimal.NewFromFloat(10.8),
	93:  decimal.NewFromFloat(10.1),
	94:  decimal.NewFromFloat(9.5),
	95:  decimal.NewFromFloat(8.9),
	96:  decimal.NewFromFloat(8.4),
	97:  decimal.NewFromFloat(7.8),
	98:  decimal.NewFromFloat(7.3),
	99:  decimal.NewFromFloat(6.8),
	100: decimal.NewFromFloat(6.4),
}

// RMDCalculator computes required minimum distributions from pre-tax
// buckets. The start age depends on birth year (SECURE 2.0 schedule).
type RMDCalculator struct{}

// NewRMDCalculator creates an RMDCalculator.
func NewRMDCalculator() *RMDCalculator {
	return &RMDCalculator{}
}

// Divisor returns the Uniform Lifetime divisor for the given age, or zero
// when no distribution is required at that age for the given birth year.
func (rc *RMDCalculator) Divisor(age, birthYear int) decimal.Decimal {
	if age < dateutil.RMDAge(birthYear) {
		return decimal.Zero
	}
	if d, ok := uniformLifetimeTable[age]; ok {
		return d
	}
	if age > 100 {
		return uniformLifetimeTable[100]
	}
	return decimal.Zero
}

// RequiredDistribution returns the RMD for one pre-tax bucket given its
// prior year-end balance.
func (rc *RMDCalculator) RequiredDistribution(priorYearEndBalance decimal.Decimal, age, birthYear int) decimal.Decimal {
	divisor := rc.Divisor(age, birthYear)
	if divisor.IsZero() || priorYearEndBalance.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return priorYearEndBalance.Div(divisor)
}
