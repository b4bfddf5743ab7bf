package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FilingStatus identifies the federal filing status used for bracket and
// threshold lookups.
type FilingStatus string

const (
	FilingMarriedJointly FilingStatus = "mfj"
	FilingSingle         FilingStatus = "single"
)

// Valid reports whether the filing status is one the engine models.
func (fs FilingStatus) Valid() bool {
	return fs == FilingMarriedJointly || fs == FilingSingle
}

// BucketType is the tax-treatment category of an investment account. The
// withdrawal policy draws from buckets in a fixed priority order and each
// bucket has different tax and penalty treatment.
type BucketType string

const (
	BucketCash           BucketType = "cash"
	BucketTaxable        BucketType = "taxable"
	BucketPretaxStandard BucketType = "pretax_standard"
	BucketPretax457      BucketType = "pretax_457"
	BucketRoth           BucketType = "roth"
)

// Valid reports whether the bucket type is known.
func (bt BucketType) Valid() bool {
	switch bt {
	case BucketCash, BucketTaxable, BucketPretaxStandard, BucketPretax457, BucketRoth:
		return true
	}
	return false
}

// Person holds the dates and Social Security parameters for one household
// member.
type Person struct {
	Name           string    `yaml:"name" json:"name"`
	BirthDate      time.Time `yaml:"birth_date" json:"birth_date"`
	RetirementDate time.Time `yaml:"retirement_date" json:"retirement_date"`
	LifeExpectancy int       `yaml:"life_expectancy" json:"life_expectancy"` // age at death

	// Social Security claiming parameters. SSMonthlyAtFRA is the monthly
	// benefit at Full Retirement Age; the engine adjusts it for the
	// claiming age.
	SSMonthlyAtFRA decimal.Decimal `yaml:"ss_monthly_at_fra" json:"ss_monthly_at_fra"`
	SSClaimingAge  int             `yaml:"ss_claiming_age,omitempty" json:"ss_claiming_age,omitempty"`
}

// DeathYear returns the calendar year the person reaches life expectancy.
func (p *Person) DeathYear() int {
	return p.BirthDate.Year() + p.LifeExpectancy
}

// AssetAllocation is a stock/bond weighting. Weights should sum to 1.
type AssetAllocation struct {
	Stocks decimal.Decimal `yaml:"stocks" json:"stocks"`
	Bonds  decimal.Decimal `yaml:"bonds" json:"bonds"`
}

// InvestmentAccount is a single account assigned to a withdrawal bucket.
// CostBasis is meaningful only for the taxable bucket.
//
// AllocationOverride, when set, gives this account its own stock/bond
// blend of the year's drawn asset returns instead of the profile-level
// blend. Default behavior (nil) keeps every growth bucket on the shared
// blended draw.
type InvestmentAccount struct {
	Name               string           `yaml:"name" json:"name"`
	BucketType         BucketType       `yaml:"bucket_type" json:"bucket_type"`
	Value              decimal.Decimal  `yaml:"value" json:"value"`
	CostBasis          decimal.Decimal  `yaml:"cost_basis,omitempty" json:"cost_basis,omitempty"`
	AllocationOverride *AssetAllocation `yaml:"allocation_override,omitempty" json:"allocation_override,omitempty"`
}

// IncomeStream is a scheduled cash inflow such as a pension or rental.
// AnnualAmount is nominal at StartDate and indexed by the path's drawn
// inflation when InflationAdjusted is set. When the owning person's death
// age is reached the stream continues at SurvivorBenefitPct (zero stops
// it).
type IncomeStream struct {
	Name               string          `yaml:"name" json:"name"`
	Owner              string          `yaml:"owner,omitempty" json:"owner,omitempty"`
	AnnualAmount       decimal.Decimal `yaml:"annual_amount" json:"annual_amount"`
	StartDate          time.Time       `yaml:"start_date" json:"start_date"`
	InflationAdjusted  bool            `yaml:"inflation_adjusted" json:"inflation_adjusted"`
	SurvivorBenefitPct decimal.Decimal `yaml:"survivor_benefit_pct,omitempty" json:"survivor_benefit_pct,omitempty"`
}

// PropertyType categorizes a HomeProperty for Section 121 purposes.
type PropertyType string

const (
	PropertyPrimaryResidence PropertyType = "primary_residence"
	PropertyRental           PropertyType = "rental"
	PropertyVacation         PropertyType = "vacation"
)

// HomeProperty models a property with carrying costs, appreciation and an
// optional one-time sale.
type HomeProperty struct {
	Name             string          `yaml:"name" json:"name"`
	PropertyType     PropertyType    `yaml:"property_type" json:"property_type"`
	CurrentValue     decimal.Decimal `yaml:"current_value" json:"current_value"`
	PurchasePrice    decimal.Decimal `yaml:"purchase_price" json:"purchase_price"`
	MortgageBalance  decimal.Decimal `yaml:"mortgage_balance,omitempty" json:"mortgage_balance,omitempty"`
	AnnualCosts      decimal.Decimal `yaml:"annual_costs,omitempty" json:"annual_costs,omitempty"`
	AppreciationRate decimal.Decimal `yaml:"appreciation_rate,omitempty" json:"appreciation_rate,omitempty"`
	SaleYear         *int            `yaml:"sale_year,omitempty" json:"sale_year,omitempty"` // calendar year
	ReplacementCost  decimal.Decimal `yaml:"replacement_cost,omitempty" json:"replacement_cost,omitempty"`
}

// MarketAssumptions holds the return and inflation distributions one path
// draws from, plus the blended allocation applied to all growth buckets.
type MarketAssumptions struct {
	StockReturnMean decimal.Decimal `yaml:"stock_return_mean" json:"stock_return_mean"`
	StockReturnStd  decimal.Decimal `yaml:"stock_return_std" json:"stock_return_std"`
	BondReturnMean  decimal.Decimal `yaml:"bond_return_mean" json:"bond_return_mean"`
	BondReturnStd   decimal.Decimal `yaml:"bond_return_std" json:"bond_return_std"`
	InflationMean   decimal.Decimal `yaml:"inflation_mean" json:"inflation_mean"`
	InflationStd    decimal.Decimal `yaml:"inflation_std" json:"inflation_std"`
	StockAllocation decimal.Decimal `yaml:"stock_allocation" json:"stock_allocation"`
	CashYield       decimal.Decimal `yaml:"cash_yield,omitempty" json:"cash_yield,omitempty"`
}

// DefaultMarketAssumptions returns the assumptions used when a profile
// does not supply its own.
func DefaultMarketAssumptions() MarketAssumptions {
	return MarketAssumptions{
		StockReturnMean: decimal.NewFromFloat(0.10),
		StockReturnStd:  decimal.NewFromFloat(0.18),
		BondReturnMean:  decimal.NewFromFloat(0.04),
		BondReturnStd:   decimal.NewFromFloat(0.06),
		InflationMean:   decimal.NewFromFloat(0.03),
		InflationStd:    decimal.NewFromFloat(0.02),
		StockAllocation: decimal.NewFromFloat(0.60),
		CashYield:       decimal.NewFromFloat(0.02),
	}
}

// MarketPeriodType selects how banded market assumptions map onto the
// projection horizon.
type MarketPeriodType string

const (
	MarketPeriodTimeline MarketPeriodType = "timeline"
	MarketPeriodCycle    MarketPeriodType = "cycle"
)

// TimelinePeriod applies assumptions to a calendar-year range.
type TimelinePeriod struct {
	StartYear   int               `yaml:"start_year" json:"start_year"`
	EndYear     int               `yaml:"end_year" json:"end_year"`
	Assumptions MarketAssumptions `yaml:"assumptions" json:"assumptions"`
}

// CyclePhase applies assumptions for Duration years within a repeating
// pattern.
type CyclePhase struct {
	Duration    int               `yaml:"duration" json:"duration"`
	Assumptions MarketAssumptions `yaml:"assumptions" json:"assumptions"`
}

// MarketPeriods optionally bands the horizon into market regimes; years
// not covered fall back to the profile assumptions.
type MarketPeriods struct {
	Type    MarketPeriodType `yaml:"type" json:"type"`
	Periods []TimelinePeriod `yaml:"periods,omitempty" json:"periods,omitempty"`
	Pattern []CyclePhase     `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Repeat  bool             `yaml:"repeat,omitempty" json:"repeat,omitempty"`
}

// RothConversion requests an annual Pre-Tax-Standard to Roth conversion
// for the first Years retirement years. The converted amount is ordinary
// income in the year of conversion.
type RothConversion struct {
	AnnualAmount decimal.Decimal `yaml:"annual_amount" json:"annual_amount"`
	Years        int             `yaml:"years" json:"years"`
}

// Profile is the engine's read-only input. The engine copies what it needs
// per path and never mutates the caller's Profile.
type Profile struct {
	Person1 Person  `yaml:"person1" json:"person1"`
	Person2 *Person `yaml:"person2,omitempty" json:"person2,omitempty"`

	Accounts       []InvestmentAccount `yaml:"accounts" json:"accounts"`
	IncomeStreams  []IncomeStream      `yaml:"income_streams,omitempty" json:"income_streams,omitempty"`
	HomeProperties []HomeProperty      `yaml:"home_properties,omitempty" json:"home_properties,omitempty"`

	Market MarketAssumptions `yaml:"market_assumptions" json:"market_assumptions"`

	// AnnualSpending is the real (today's dollars) net spending need in
	// retirement; AnnualSavings is deposited into the taxable bucket each
	// accumulation year.
	AnnualSpending decimal.Decimal `yaml:"annual_spending" json:"annual_spending"`
	AnnualSavings  decimal.Decimal `yaml:"annual_savings,omitempty" json:"annual_savings,omitempty"`

	// AssumedTaxRate is the flat planning rate used to seed the gross-up
	// search before the exact tax bill is solved.
	AssumedTaxRate decimal.Decimal `yaml:"assumed_tax_rate,omitempty" json:"assumed_tax_rate,omitempty"`
}

// RunParameters are the per-invocation knobs supplied alongside a Profile.
type RunParameters struct {
	NumPaths         int             `yaml:"num_paths" json:"num_paths"`
	StartYear        int             `yaml:"start_year,omitempty" json:"start_year,omitempty"` // 0 uses the current year
	Years            int             `yaml:"years,omitempty" json:"years,omitempty"`           // 0 derives from life expectancy
	Seed             int64           `yaml:"seed,omitempty" json:"seed,omitempty"`
	SpendingStrategy string          `yaml:"spending_strategy" json:"spending_strategy"`
	FilingStatus     FilingStatus    `yaml:"filing_status" json:"filing_status"`
	State            string          `yaml:"state" json:"state"`
	MarketPeriods    *MarketPeriods  `yaml:"market_periods,omitempty" json:"market_periods,omitempty"`
	RothConversion   *RothConversion `yaml:"roth_conversion,omitempty" json:"roth_conversion,omitempty"`

	// KeepPaths retains per-path ledgers on the result. Off by default to
	// keep memory at O(years) per in-flight path.
	KeepPaths bool `yaml:"keep_paths,omitempty" json:"keep_paths,omitempty"`

	// MaxWorkers bounds concurrent paths; 0 uses the default.
	MaxWorkers int `yaml:"max_workers,omitempty" json:"max_workers,omitempty"`
}
