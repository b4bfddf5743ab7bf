package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PathState is the life-cycle phase of a single path in a given year.
type PathState string

const (
	StateAccumulation PathState = "accumulation"
	StateRetired      PathState = "retired"
	StateFailed       PathState = "failed"
	StateComplete     PathState = "complete"
)

// BucketBalances is an end-of-year snapshot of each bucket's total value.
type BucketBalances struct {
	Cash           decimal.Decimal `json:"cash"`
	Taxable        decimal.Decimal `json:"taxable"`
	PretaxStandard decimal.Decimal `json:"pretax_standard"`
	Pretax457      decimal.Decimal `json:"pretax_457"`
	Roth           decimal.Decimal `json:"roth"`
}

// Total sums all buckets.
func (b BucketBalances) Total() decimal.Decimal {
	return b.Cash.Add(b.Taxable).Add(b.PretaxStandard).Add(b.Pretax457).Add(b.Roth)
}

// YearLedger records what happened to one path in one calendar year.
type YearLedger struct {
	Year  int       `json:"year"`
	Age1  int       `json:"age1"`
	Age2  int       `json:"age2,omitempty"`
	State PathState `json:"state"`

	StockReturn decimal.Decimal `json:"stock_return"`
	BondReturn  decimal.Decimal `json:"bond_return"`
	Inflation   decimal.Decimal `json:"inflation"`

	GrossIncome      decimal.Decimal `json:"gross_income"`
	SocialSecurity   decimal.Decimal `json:"social_security"`
	SpendingNeed     decimal.Decimal `json:"spending_need"`
	GrossWithdrawal  decimal.Decimal `json:"gross_withdrawal"`
	RMDWithdrawal    decimal.Decimal `json:"rmd_withdrawal"`
	FederalTax       decimal.Decimal `json:"federal_tax"`
	StateTax         decimal.Decimal `json:"state_tax"`
	CapitalGainsTax  decimal.Decimal `json:"capital_gains_tax"`
	PenaltyTax       decimal.Decimal `json:"penalty_tax"`
	IRMAASurcharge   decimal.Decimal `json:"irmaa_surcharge"`
	RothConversion   decimal.Decimal `json:"roth_conversion,omitempty"`
	Shortfall        decimal.Decimal `json:"shortfall,omitempty"`
	EndingBalances   BucketBalances  `json:"ending_balances"`
	EndingTotalAsset decimal.Decimal `json:"ending_total"`
}

// PathResult is one completed simulation path.
type PathResult struct {
	PathIndex    int             `json:"path_index"`
	Failed       bool            `json:"failed"`
	FailureYear  int             `json:"failure_year,omitempty"`
	FinalBalance decimal.Decimal `json:"final_balance"`
	Ledger       []YearLedger    `json:"ledger,omitempty"`
}

// PercentileBand holds the interpolated order statistics of a
// distribution.
type PercentileBand struct {
	P10 decimal.Decimal `json:"p10"`
	P25 decimal.Decimal `json:"p25"`
	P50 decimal.Decimal `json:"p50"`
	P75 decimal.Decimal `json:"p75"`
	P90 decimal.Decimal `json:"p90"`
}

// YearPercentiles is the cross-path total-asset distribution at the end
// of one projection year.
type YearPercentiles struct {
	Year  int            `json:"year"`
	Age1  int            `json:"age1"`
	Bands PercentileBand `json:"bands"`
}

// RMDProjection is the deterministic required-distribution schedule for
// one pre-tax bucket, computed at expected (mean) returns.
type RMDProjection struct {
	BucketType BucketType      `json:"bucket_type"`
	Year       int             `json:"year"`
	Age        int             `json:"age"`
	Divisor    decimal.Decimal `json:"divisor"`
	Amount     decimal.Decimal `json:"amount"`
}

// Timeline summarizes the projection horizon.
type Timeline struct {
	StartYear       int `json:"start_year"`
	EndYear         int `json:"end_year"`
	Years           int `json:"years"`
	RetirementYear1 int `json:"retirement_year1"`
	RetirementYear2 int `json:"retirement_year2,omitempty"`
}

// SimulationResult is the aggregated outcome of a full run.
type SimulationResult struct {
	RunID       uuid.UUID `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Seed        int64     `json:"seed"`
	NumPaths    int       `json:"num_paths"`
	Timeline    Timeline  `json:"timeline"`

	SuccessRate   decimal.Decimal `json:"success_rate"` // fraction of paths that never failed
	FailedPaths   int             `json:"failed_paths"`
	FinalBalances PercentileBand  `json:"final_balances"`
	MedianFailure int             `json:"median_failure_year,omitempty"` // 0 when no failures

	Trajectory []YearPercentiles `json:"trajectory"`

	RMDSchedule []RMDProjection `json:"rmd_schedule,omitempty"`

	Warnings []string `json:"warnings,omitempty"`

	// Paths is populated only when RunParameters.KeepPaths is set.
	Paths []PathResult `json:"paths,omitempty"`
}

// ClaimingAgeOutcome is one leg of a Social Security claiming-age
// comparison.
type ClaimingAgeOutcome struct {
	ClaimingAge    int             `json:"claiming_age"`
	SuccessRate    decimal.Decimal `json:"success_rate"`
	MedianFinal    decimal.Decimal `json:"median_final_balance"`
	AnnualBenefit1 decimal.Decimal `json:"annual_benefit_person1"`
}

// ClaimingAgeAnalysis compares outcomes across claiming ages under
// identical market draws.
type ClaimingAgeAnalysis struct {
	RunID    uuid.UUID            `json:"run_id"`
	Seed     int64                `json:"seed"`
	Outcomes []ClaimingAgeOutcome `json:"outcomes"`
	BestAge  int                  `json:"best_age"`
}

// ConversionOutcome is one leg of a Roth-conversion comparison.
type ConversionOutcome struct {
	Label          string          `json:"label"`
	SuccessRate    decimal.Decimal `json:"success_rate"`
	MedianFinal    decimal.Decimal `json:"median_final_balance"`
	TotalConverted decimal.Decimal `json:"total_converted"`
}

// ConversionAnalysis compares a baseline run against a Roth-conversion
// run under identical market draws.
type ConversionAnalysis struct {
	RunID    uuid.UUID         `json:"run_id"`
	Seed     int64             `json:"seed"`
	Baseline ConversionOutcome `json:"baseline"`
	WithPlan ConversionOutcome `json:"with_plan"`
}
