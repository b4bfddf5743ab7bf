// Package config loads and validates simulation input files.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/nestegg/retirement-simulator/internal/domain"
)

const (
	// MinPaths and MaxPaths bound the number of Monte Carlo paths.
	MinPaths     = 100
	MaxPaths     = 50000
	DefaultPaths = 10000
)

// Input is the top-level document a simulation file decodes into.
type Input struct {
	Profile    domain.Profile       `yaml:"profile"`
	Parameters domain.RunParameters `yaml:"parameters"`
}

// InputParser loads and validates Input documents.
type InputParser struct{}

// NewInputParser creates an InputParser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile reads, parses and validates a YAML input file.
func (p *InputParser) LoadFromFile(path string) (*Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()
	return p.Parse(f)
}

// Parse decodes an Input from r, applies defaults and validates it.
func (p *InputParser) Parse(r io.Reader) (*Input, error) {
	var in Input
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}
	p.applyDefaults(&in)
	if err := p.Validate(&in); err != nil {
		return nil, err
	}
	return &in, nil
}

func (p *InputParser) applyDefaults(in *Input) {
	if in.Parameters.NumPaths == 0 {
		in.Parameters.NumPaths = DefaultPaths
	}
	if in.Parameters.SpendingStrategy == "" {
		in.Parameters.SpendingStrategy = "standard"
	}
	zero := domain.MarketAssumptions{}
	if in.Profile.Market == zero {
		in.Profile.Market = domain.DefaultMarketAssumptions()
	}
	if in.Profile.Market.CashYield.IsZero() {
		in.Profile.Market.CashYield = domain.DefaultMarketAssumptions().CashYield
	}
}

// Validate checks the input for errors the engine cannot recover from.
func (p *InputParser) Validate(in *Input) error {
	if in.Parameters.NumPaths < MinPaths || in.Parameters.NumPaths > MaxPaths {
		return fmt.Errorf("num_paths must be between %d and %d, got %d", MinPaths, MaxPaths, in.Parameters.NumPaths)
	}
	if !in.Parameters.FilingStatus.Valid() {
		return domain.NewConfigurationError("filing_status", string(in.Parameters.FilingStatus), "must be mfj or single")
	}
	if in.Parameters.State == "" {
		return domain.NewConfigurationError("state", "", "state is required")
	}
	switch in.Parameters.SpendingStrategy {
	case "standard", "retirement_smile", "conservative_decline":
	default:
		return fmt.Errorf("unknown spending_strategy %q", in.Parameters.SpendingStrategy)
	}

	if in.Profile.Person1.BirthDate.IsZero() {
		return fmt.Errorf("person1 birth_date is required")
	}
	if in.Profile.Person1.RetirementDate.IsZero() {
		return fmt.Errorf("person1 retirement_date is required")
	}
	if in.Profile.Person1.LifeExpectancy <= 0 {
		return fmt.Errorf("person1 life_expectancy must be positive")
	}
	if in.Profile.Person2 != nil {
		if in.Profile.Person2.BirthDate.IsZero() {
			return fmt.Errorf("person2 birth_date is required")
		}
		if in.Profile.Person2.LifeExpectancy <= 0 {
			return fmt.Errorf("person2 life_expectancy must be positive")
		}
	}
	if in.Profile.Person2 == nil && in.Parameters.FilingStatus == domain.FilingMarriedJointly {
		return fmt.Errorf("filing_status mfj requires person2")
	}

	if len(in.Profile.Accounts) == 0 {
		return fmt.Errorf("at least one account is required")
	}
	for i, acct := range in.Profile.Accounts {
		if !acct.BucketType.Valid() {
			return fmt.Errorf("account %d (%s): unknown bucket_type %q", i, acct.Name, acct.BucketType)
		}
		if acct.Value.IsNegative() {
			return fmt.Errorf("account %d (%s): value must not be negative", i, acct.Name)
		}
		if acct.BucketType == domain.BucketTaxable && acct.CostBasis.GreaterThan(acct.Value) {
			return fmt.Errorf("account %d (%s): cost_basis exceeds value", i, acct.Name)
		}
		if ao := acct.AllocationOverride; ao != nil {
			if !ao.Stocks.Add(ao.Bonds).Equal(decimal.NewFromInt(1)) {
				return fmt.Errorf("account %d (%s): allocation_override weights must sum to 1", i, acct.Name)
			}
		}
	}

	if in.Profile.AnnualSpending.IsNegative() || in.Profile.AnnualSpending.IsZero() {
		return fmt.Errorf("annual_spending must be positive")
	}

	for i, prop := range in.Profile.HomeProperties {
		if prop.SaleYear != nil && *prop.SaleYear < in.Profile.Person1.BirthDate.Year() {
			return fmt.Errorf("property %d (%s): sale_year %d is before person1's birth year", i, prop.Name, *prop.SaleYear)
		}
	}

	if mp := in.Parameters.MarketPeriods; mp != nil {
		if err := validateMarketPeriods(mp); err != nil {
			return err
		}
	}
	if rc := in.Parameters.RothConversion; rc != nil {
		if rc.AnnualAmount.IsNegative() || rc.Years < 0 {
			return fmt.Errorf("roth_conversion amounts must not be negative")
		}
	}
	return nil
}

func validateMarketPeriods(mp *domain.MarketPeriods) error {
	switch mp.Type {
	case domain.MarketPeriodTimeline:
		if len(mp.Periods) == 0 {
			return fmt.Errorf("timeline market_periods requires at least one period")
		}
		for i, per := range mp.Periods {
			if per.EndYear < per.StartYear {
				return fmt.Errorf("market period %d: end_year before start_year", i)
			}
		}
	case domain.MarketPeriodCycle:
		if len(mp.Pattern) == 0 {
			return fmt.Errorf("cycle market_periods requires at least one phase")
		}
		for i, ph := range mp.Pattern {
			if ph.Duration <= 0 {
				return fmt.Errorf("cycle phase %d: duration must be positive", i)
			}
		}
	default:
		return fmt.Errorf("unknown market_periods type %q", mp.Type)
	}
	return nil
}
