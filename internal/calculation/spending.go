package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/nestegg/retirement-simulator/internal/domain"
)

// SpendingStrategy scales the base spending need by the number of years
// into retirement. Year 0 is the first retirement year. Multipliers are
// applied to the inflation-adjusted base need.
type SpendingStrategy interface {
	Name() string
	Multiplier(yearsRetired int) decimal.Decimal
}

// NewSpendingStrategy returns the named strategy.
func NewSpendingStrategy(name string) (SpendingStrategy, error) {
	switch name {
	case "standard":
		return standardSpending{}, nil
	case "retirement_smile":
		return smileSpending{}, nil
	case "conservative_decline":
		return decliningSpending{}, nil
	}
	return nil, domain.NewConfigurationError("spending_strategy", name,
		"must be standard, retirement_smile, or conservative_decline")
}

// standardSpending keeps spending constant in real terms.
type standardSpending struct{}

func (standardSpending) Name() string { return "standard" }

func (standardSpending) Multiplier(int) decimal.Decimal {
	return decimal.NewFromInt(1)
}

// smileSpending models the go-go/slow-go pattern: elevated spending for
// the first decade, then a 1% real decline per year down to an 80% floor.
type smileSpending struct{}

func (smileSpending) Name() string { return "retirement_smile" }

func (smileSpending) Multiplier(yearsRetired int) decimal.Decimal {
	if yearsRetired < 10 {
		return decimal.NewFromFloat(1.10)
	}
	m := decimal.NewFromFloat(1.10).
		Sub(decimal.NewFromInt(int64(yearsRetired - 9)).Mul(decimal.NewFromFloat(0.01)))
	floor := decimal.NewFromFloat(0.80)
	return decimal.Max(m, floor)
}

// decliningSpending reduces real spending 0.5% per year to a 75% floor.
type decliningSpending struct{}

func (decliningSpending) Name() string { return "conservative_decline" }

func (decliningSpending) Multiplier(yearsRetired int) decimal.Decimal {
	m := decimal.NewFromInt(1).
		Sub(decimal.NewFromInt(int64(yearsRetired)).Mul(decimal.NewFromFloat(0.005)))
	floor := decimal.NewFromFloat(0.75)
	return decimal.Max(m, floor)
}
