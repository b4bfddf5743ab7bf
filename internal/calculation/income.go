package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/nestegg/retirement-simulator/internal/domain"
)

// IncomeCalculator values scheduled income streams and property cash
// flows for one projection year.
type IncomeCalculator struct {
	Section121MFJ    decimal.Decimal
	Section121Single decimal.Decimal
}

// NewIncomeCalculator creates a calculator with Section 121 exclusion
// limits.
func NewIncomeCalculator() *IncomeCalculator {
	return &IncomeCalculator{
		Section121MFJ:    decimal.NewFromInt(500000),
		Section121Single: decimal.NewFromInt(250000),
	}
}

// StreamIncome returns the stream's payout in the given calendar year.
// The amount is nominal in the stream's first payout year;
// inflationSinceStart is the inflation compounded from that year on, so
// it is 1 when the stream begins. ownerAlive reflects whether the
// stream's owner has reached life expectancy.
func (ic *IncomeCalculator) StreamIncome(stream *domain.IncomeStream, year int, inflationSinceStart decimal.Decimal, ownerAlive bool) decimal.Decimal {
	if year < stream.StartDate.Year() {
		return decimal.Zero
	}
	amount := stream.AnnualAmount
	if stream.InflationAdjusted {
		amount = amount.Mul(inflationSinceStart)
	}
	if !ownerAlive {
		amount = amount.Mul(stream.SurvivorBenefitPct)
	}
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// PropertyEvent is the cash and tax consequence of a property in one
// year. A sale produces net proceeds before tax plus the taxable portion
// of the gain after any Section 121 exclusion.
type PropertyEvent struct {
	CarryingCost decimal.Decimal
	SaleProceeds decimal.Decimal // net of mortgage payoff and replacement cost
	TaxableGain  decimal.Decimal
	Sold         bool
}

// PropertyYear advances one property through one year: appreciation,
// carrying costs, and a sale when the configured sale year arrives.
// The property's CurrentValue is updated in place on the working copy.
func (ic *IncomeCalculator) PropertyYear(prop *domain.HomeProperty, year int, status domain.FilingStatus) PropertyEvent {
	var ev PropertyEvent

	// a sold property drops out of the projection entirely
	if prop.SaleYear != nil && year > *prop.SaleYear {
		return ev
	}

	one := decimal.NewFromInt(1)
	prop.CurrentValue = prop.CurrentValue.Mul(one.Add(prop.AppreciationRate))

	if prop.SaleYear != nil && *prop.SaleYear == year {
		ev.Sold = true
		gain := prop.CurrentValue.Sub(prop.PurchasePrice)
		if gain.IsNegative() {
			gain = decimal.Zero
		}
		if prop.PropertyType == domain.PropertyPrimaryResidence {
			exclusion := ic.Section121MFJ
			if status == domain.FilingSingle {
				exclusion = ic.Section121Single
			}
			gain = decimal.Max(decimal.Zero, gain.Sub(exclusion))
		}
		ev.TaxableGain = gain
		ev.SaleProceeds = prop.CurrentValue.
			Sub(prop.MortgageBalance).
			Sub(prop.ReplacementCost)
		prop.CurrentValue = decimal.Zero
		prop.MortgageBalance = decimal.Zero
		return ev
	}

	// rental cash flows are modeled as IncomeStream entries; the property
	// itself only carries costs and appreciation
	ev.CarryingCost = prop.AnnualCosts
	return ev
}
