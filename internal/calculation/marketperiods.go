package calculation

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/nestegg/retirement-simulator/internal/domain"
)

// recessionMeanCeiling and bullMeanFloor classify a period's stock
// return assumption for validation warnings.
var (
	recessionMeanCeiling = decimal.NewFromFloat(0.03)
	bullMeanFloor        = decimal.NewFromFloat(0.15)
)

// AssumptionSchedule maps each projection-year index to the market
// assumptions in force that year. Built once per run and shared by every
// path.
type AssumptionSchedule struct {
	byYear []domain.MarketAssumptions
}

// BuildAssumptionSchedule resolves the optional market-period bands into
// a per-year lookup. Years not covered by any band use the profile
// defaults. startYear is the first projection calendar year.
func BuildAssumptionSchedule(defaults domain.MarketAssumptions, periods *domain.MarketPeriods, startYear, years int) *AssumptionSchedule {
	sched := &AssumptionSchedule{byYear: make([]domain.MarketAssumptions, years)}
	for i := range sched.byYear {
		sched.byYear[i] = defaults
	}
	if periods == nil {
		return sched
	}

	switch periods.Type {
	case domain.MarketPeriodTimeline:
		for i := 0; i < years; i++ {
			calYear := startYear + i
			for _, per := range periods.Periods {
				if calYear >= per.StartYear && calYear <= per.EndYear {
					sched.byYear[i] = withDefaults(per.Assumptions, defaults)
					break
				}
			}
		}
	case domain.MarketPeriodCycle:
		cycleLen := 0
		for _, ph := range periods.Pattern {
			cycleLen += ph.Duration
		}
		if cycleLen == 0 {
			return sched
		}
		for i := 0; i < years; i++ {
			if !periods.Repeat && i >= cycleLen {
				break
			}
			offset := i % cycleLen
			for _, ph := range periods.Pattern {
				if offset < ph.Duration {
					sched.byYear[i] = withDefaults(ph.Assumptions, defaults)
					break
				}
				offset -= ph.Duration
			}
		}
	}
	return sched
}

// withDefaults fills fields a band left unset (allocation, cash yield)
// from the profile defaults so a band only has to specify distributions.
func withDefaults(a, defaults domain.MarketAssumptions) domain.MarketAssumptions {
	if a.StockAllocation.IsZero() {
		a.StockAllocation = defaults.StockAllocation
	}
	if a.CashYield.IsZero() {
		a.CashYield = defaults.CashYield
	}
	return a
}

// For returns the assumptions in force for the given projection-year
// index.
func (s *AssumptionSchedule) For(yearIndex int) domain.MarketAssumptions {
	if yearIndex < 0 || yearIndex >= len(s.byYear) {
		if len(s.byYear) == 0 {
			return domain.DefaultMarketAssumptions()
		}
		return s.byYear[len(s.byYear)-1]
	}
	return s.byYear[yearIndex]
}

// ValidateMarketPeriods returns advisory warnings about historically
// implausible period configurations. Warnings never block a run.
func ValidateMarketPeriods(horizonYears int, periods *domain.MarketPeriods) []string {
	if periods == nil {
		return nil
	}
	var warnings []string

	switch periods.Type {
	case domain.MarketPeriodTimeline:
		for _, per := range periods.Periods {
			length := per.EndYear - per.StartYear + 1
			mean := per.Assumptions.StockReturnMean
			if mean.LessThanOrEqual(recessionMeanCeiling) && length > 5 {
				warnings = append(warnings, fmt.Sprintf(
					"period %d-%d models a recession lasting %d years; historical recessions rarely exceed 5",
					per.StartYear, per.EndYear, length))
			}
			if mean.GreaterThanOrEqual(bullMeanFloor) && length > 15 {
				warnings = append(warnings, fmt.Sprintf(
					"period %d-%d models a bull market lasting %d years; historical bull markets rarely exceed 15",
					per.StartYear, per.EndYear, length))
			}
			if horizonYears > 0 && length*100 >= horizonYears*80 {
				warnings = append(warnings, fmt.Sprintf(
					"period %d-%d covers %d of %d projection years; a single market condition for most of retirement is unrealistic",
					per.StartYear, per.EndYear, length, horizonYears))
			}
		}
		warnings = append(warnings, timelineGapWarnings(periods.Periods)...)
	case domain.MarketPeriodCycle:
		total := 0
		for _, ph := range periods.Pattern {
			total += ph.Duration
		}
		if total > 0 && total < 3 {
			warnings = append(warnings, fmt.Sprintf(
				"cycle length of %d years is unusually short; real market cycles typically span several years", total))
		}
	}
	return warnings
}

func timelineGapWarnings(periods []domain.TimelinePeriod) []string {
	sorted := make([]domain.TimelinePeriod, len(periods))
	copy(sorted, periods)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartYear < sorted[j].StartYear })

	var warnings []string
	for i := 1; i < len(sorted); i++ {
		prev, next := sorted[i-1], sorted[i]
		if next.StartYear > prev.EndYear+1 {
			warnings = append(warnings, fmt.Sprintf(
				"gap in timeline coverage between %d and %d; uncovered years use default assumptions",
				prev.EndYear, next.StartYear))
		}
	}
	return warnings
}
