package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/nestegg/retirement-simulator/internal/domain"
)

// IRMAATier maps a MAGI breakpoint to the annual per-person Part B
// surcharge above it.
type IRMAATier struct {
	MAGIThreshold decimal.Decimal
	AnnualAmount  decimal.Decimal
}

// MedicareCalculator computes income-related Medicare surcharges (IRMAA)
// from 2024 tier tables. Surcharges apply only to household members who
// are 65 or older.
type MedicareCalculator struct {
	TiersMFJ    []IRMAATier
	TiersSingle []IRMAATier
}

// NewMedicareCalculator creates a calculator with the 2024 IRMAA tiers.
func NewMedicareCalculator() *MedicareCalculator {
	amounts := []decimal.Decimal{
		decimal.NewFromFloat(839.40),
		decimal.NewFromFloat(2098.20),
		decimal.NewFromFloat(3357.00),
		decimal.NewFromFloat(4615.80),
		decimal.NewFromFloat(5030.40),
	}
	mfjThresholds := []int64{206000, 258000, 322000, 386000, 750000}
	singleThresholds := []int64{103000, 129000, 161000, 193000, 500000}

	mc := &MedicareCalculator{}
	for i := range amounts {
		mc.TiersMFJ = append(mc.TiersMFJ, IRMAATier{
			MAGIThreshold: decimal.NewFromInt(mfjThresholds[i]),
			AnnualAmount:  amounts[i],
		})
		mc.TiersSingle = append(mc.TiersSingle, IRMAATier{
			MAGIThreshold: decimal.NewFromInt(singleThresholds[i]),
			AnnualAmount:  amounts[i],
		})
	}
	return mc
}

// AnnualSurcharge returns the household's total annual IRMAA surcharge
// for the given MAGI. eligibleCount is how many household members are 65
// or older.
func (mc *MedicareCalculator) AnnualSurcharge(magi decimal.Decimal, status domain.FilingStatus, eligibleCount int) decimal.Decimal {
	if eligibleCount <= 0 {
		return decimal.Zero
	}
	tiers := mc.TiersMFJ
	if status == domain.FilingSingle {
		tiers = mc.TiersSingle
	}

	var perPerson decimal.Decimal
	for _, tier := range tiers {
		if magi.GreaterThan(tier.MAGIThreshold) {
			perPerson = tier.AnnualAmount
		} else {
			break
		}
	}
	return perPerson.Mul(decimal.NewFromInt(int64(eligibleCount)))
}
