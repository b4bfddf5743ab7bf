package calculation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/nestegg/retirement-simulator/internal/domain"
)

// Percentile computes the p-th percentile (0-100) of values using linear
// interpolation between order statistics. values need not be sorted.
func Percentile(values []decimal.Decimal, p float64) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })
	return percentileSorted(sorted, p)
}

func percentileSorted(sorted []decimal.Decimal, p float64) decimal.Decimal {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[n-1]
	}
	rank := p / 100 * float64(n-1)
	lo := int(rank)
	frac := decimal.NewFromFloat(rank - float64(lo))
	if lo+1 >= n {
		return sorted[n-1]
	}
	return sorted[lo].Add(sorted[lo+1].Sub(sorted[lo]).Mul(frac))
}

// bandsOf computes the standard percentile band from unsorted values.
func bandsOf(values []decimal.Decimal) domain.PercentileBand {
	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })
	return domain.PercentileBand{
		P10: percentileSorted(sorted, 10),
		P25: percentileSorted(sorted, 25),
		P50: percentileSorted(sorted, 50),
		P75: percentileSorted(sorted, 75),
		P90: percentileSorted(sorted, 90),
	}
}

// aggregate folds per-path outcomes into the run-level result. Failed
// paths stay in the trajectory so the lower percentiles reflect ruin.
func aggregate(paths []pathOutcome, timeline domain.Timeline, params domain.RunParameters, birthYear1 int) *domain.SimulationResult {
	result := &domain.SimulationResult{
		NumPaths: len(paths),
		Timeline: timeline,
	}

	finals := make([]decimal.Decimal, len(paths))
	var failureYears []decimal.Decimal
	failed := 0
	for i, p := range paths {
		finals[i] = p.result.FinalBalance
		if p.result.Failed {
			failed++
			failureYears = append(failureYears, decimal.NewFromInt(int64(p.failureYear)))
		}
	}
	result.FailedPaths = failed
	if len(paths) > 0 {
		result.SuccessRate = decimal.NewFromInt(int64(len(paths) - failed)).
			Div(decimal.NewFromInt(int64(len(paths))))
	}
	result.FinalBalances = bandsOf(finals)
	if len(failureYears) > 0 {
		result.MedianFailure = int(Percentile(failureYears, 50).Round(0).IntPart())
	}

	result.Trajectory = make([]domain.YearPercentiles, timeline.Years)
	yearValues := make([]decimal.Decimal, len(paths))
	for yearIdx := 0; yearIdx < timeline.Years; yearIdx++ {
		for i, p := range paths {
			yearValues[i] = p.yearTotals[yearIdx]
		}
		year := timeline.StartYear + yearIdx
		result.Trajectory[yearIdx] = domain.YearPercentiles{
			Year:  year,
			Age1:  year - birthYear1,
			Bands: bandsOf(yearValues),
		}
	}

	if params.KeepPaths {
		result.Paths = make([]domain.PathResult, len(paths))
		for i, p := range paths {
			result.Paths[i] = p.result
		}
	}
	return result
}
