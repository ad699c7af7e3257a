package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RateMode selects how monthly rate sequences are produced
type RateMode string

const (
	RateModeFixed      RateMode = "fixed"
	RateModeHistorical RateMode = "historical"
	RateModeBootstrap  RateMode = "bootstrap"
)

// rateModeAliases maps the labels used by older input files onto the canonical modes
var rateModeAliases = map[string]RateMode{
	"fixed":              RateModeFixed,
	"user_input":         RateModeFixed,
	"user input":         RateModeFixed,
	"historical":         RateModeHistorical,
	"historical_average": RateModeHistorical,
	"average":            RateModeHistorical,
	"bootstrap":          RateModeBootstrap,
	"simulation":         RateModeBootstrap,
	"monte_carlo":        RateModeBootstrap,
}

// ParseRateMode resolves a mode name or alias, case-insensitively
func ParseRateMode(s string) (RateMode, error) {
	if m, ok := rateModeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return m, nil
	}
	return "", fmt.Errorf("unknown rate mode %q", s)
}

// UnmarshalText lets YAML, TOML and JSON inputs use any accepted alias
func (m *RateMode) UnmarshalText(text []byte) error {
	parsed, err := ParseRateMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// PortfolioModel selects how invested assets are held
type PortfolioModel string

const (
	// PortfolioSplit holds stocks and bonds and rebalances to the allocation ratio every month
	PortfolioSplit PortfolioModel = "split"
	// PortfolioSingle holds one investment bucket growing at the stock rate
	PortfolioSingle PortfolioModel = "single"
)

// LuxuryGate selects the affordability test for luxury spending
type LuxuryGate string

const (
	// LuxuryGateAuto uses the static gate in fixed mode and the dynamic gate otherwise
	LuxuryGateAuto    LuxuryGate = "auto"
	LuxuryGateDynamic LuxuryGate = "dynamic"
	LuxuryGateStatic  LuxuryGate = "static"
)

// StaticLuxuryMargin is the excess of stock return over inflation the static gate requires
var StaticLuxuryMargin = decimal.NewFromFloat(0.04)

// Person holds one member of the household
type Person struct {
	BirthDate             time.Time       `yaml:"birth_date" toml:"birth_date" json:"birth_date"`
	LifeExpectancy        int             `yaml:"life_expectancy" toml:"life_expectancy" json:"life_expectancy"`
	RetirementDate        time.Time       `yaml:"retirement_date" toml:"retirement_date" json:"retirement_date"`
	PensionStartDate      time.Time       `yaml:"pension_start_date,omitempty" toml:"pension_start_date,omitempty" json:"pension_start_date,omitempty"`
	SocialSecurityStart   time.Time       `yaml:"social_security_start_date,omitempty" toml:"social_security_start_date,omitempty" json:"social_security_start_date,omitempty"`
	AssistedLivingAge     int             `yaml:"assisted_living_age" toml:"assisted_living_age" json:"assisted_living_age"`
	MonthlyContribution   decimal.Decimal `yaml:"monthly_contribution" toml:"monthly_contribution" json:"monthly_contribution"`
	MonthlyPension        decimal.Decimal `yaml:"monthly_pension_income" toml:"monthly_pension_income" json:"monthly_pension_income"`
	MonthlySocialSecurity decimal.Decimal `yaml:"monthly_social_security_income" toml:"monthly_social_security_income" json:"monthly_social_security_income"`
}

// EndDate is the date the person reaches their life expectancy
func (p Person) EndDate() time.Time {
	return p.BirthDate.AddDate(p.LifeExpectancy, 0, 0)
}

// PensionStart returns the pension start date, defaulting to the retirement date
func (p Person) PensionStart() time.Time {
	if p.PensionStartDate.IsZero() {
		return p.RetirementDate
	}
	return p.PensionStartDate
}

// SocialSecurityStartDate returns the social security start date, defaulting to the retirement date
func (p Person) SocialSecurityStartDate() time.Time {
	if p.SocialSecurityStart.IsZero() {
		return p.RetirementDate
	}
	return p.SocialSecurityStart
}

// Household holds the shared spending, savings and allocation inputs
type Household struct {
	EssentialSpend      decimal.Decimal `yaml:"essential_spend" toml:"essential_spend" json:"essential_spend"`
	LuxurySpend         decimal.Decimal `yaml:"luxury_spend" toml:"luxury_spend" json:"luxury_spend"`
	AssistedLivingCost  decimal.Decimal `yaml:"assisted_living_cost" toml:"assisted_living_cost" json:"assisted_living_cost"`
	CurrentCash         decimal.Decimal `yaml:"current_cash" toml:"current_cash" json:"current_cash"`
	CurrentInvestment   decimal.Decimal `yaml:"current_investment" toml:"current_investment" json:"current_investment"`
	CashSetPoint        decimal.Decimal `yaml:"cash_set_point" toml:"cash_set_point" json:"cash_set_point"`
	StockAllocationPre  decimal.Decimal `yaml:"stock_allocation_pre_retirement" toml:"stock_allocation_pre_retirement" json:"stock_allocation_pre_retirement"`
	StockAllocationPost decimal.Decimal `yaml:"stock_allocation_post_retirement" toml:"stock_allocation_post_retirement" json:"stock_allocation_post_retirement"`
}

// RateAssumptions holds annual rates as fractions (0.02 = 2%) and the rate mode
type RateAssumptions struct {
	Mode          RateMode        `yaml:"mode" toml:"mode" json:"mode"`
	InflationRate decimal.Decimal `yaml:"inflation_rate" toml:"inflation_rate" json:"inflation_rate"`
	StockReturn   decimal.Decimal `yaml:"stock_return" toml:"stock_return" json:"stock_return"`
	BondReturn    decimal.Decimal `yaml:"bond_return" toml:"bond_return" json:"bond_return"`
	CashReturn    decimal.Decimal `yaml:"cash_return" toml:"cash_return" json:"cash_return"`
}

// StaticLuxuryAffordable reports whether the assumed returns pass the static luxury gate
func (r RateAssumptions) StaticLuxuryAffordable() bool {
	return r.StockReturn.GreaterThan(r.InflationRate.Add(StaticLuxuryMargin))
}

// ParameterSet is the immutable input of one projection pass
type ParameterSet struct {
	Self      Person          `json:"self"`
	Spouse    Person          `json:"spouse"`
	Household Household       `json:"household"`
	Rates     RateAssumptions `json:"rates"`
}

// Persons returns self and spouse in that order
func (ps *ParameterSet) Persons() [2]Person {
	return [2]Person{ps.Self, ps.Spouse}
}

// Validate checks ranges and chronology and reports every failure found
func (ps *ParameterSet) Validate() error {
	var errs []error
	errs = append(errs, validatePerson("self", ps.Self)...)
	errs = append(errs, validatePerson("spouse", ps.Spouse)...)
	errs = append(errs, validateHousehold(ps.Household)...)
	errs = append(errs, validateRates(ps.Rates)...)
	return errors.Join(errs...)
}

const maxLifeExpectancy = 130

func validatePerson(name string, p Person) []error {
	var errs []error
	field := func(f string) string { return name + "." + f }

	if p.BirthDate.IsZero() {
		errs = append(errs, invalidField(field("birth_date"), "is required"))
	}
	if p.LifeExpectancy <= 0 {
		errs = append(errs, invalidField(field("life_expectancy"), "must be positive, got %d", p.LifeExpectancy))
	} else if p.LifeExpectancy > maxLifeExpectancy {
		errs = append(errs, invalidField(field("life_expectancy"), "must be at most %d, got %d", maxLifeExpectancy, p.LifeExpectancy))
	}
	if p.RetirementDate.IsZero() {
		errs = append(errs, invalidField(field("retirement_date"), "is required"))
	} else if !p.BirthDate.IsZero() && !p.RetirementDate.After(p.BirthDate) {
		errs = append(errs, invalidField(field("retirement_date"), "must be after birth date"))
	}
	if !p.BirthDate.IsZero() {
		if !p.PensionStartDate.IsZero() && p.PensionStartDate.Before(p.BirthDate) {
			errs = append(errs, invalidField(field("pension_start_date"), "must not be before birth date"))
		}
		if !p.SocialSecurityStart.IsZero() && p.SocialSecurityStart.Before(p.BirthDate) {
			errs = append(errs, invalidField(field("social_security_start_date"), "must not be before birth date"))
		}
	}
	if p.AssistedLivingAge < 0 {
		errs = append(errs, invalidField(field("assisted_living_age"), "cannot be negative"))
	}
	errs = appendNonNegative(errs, field("monthly_contribution"), p.MonthlyContribution)
	errs = appendNonNegative(errs, field("monthly_pension_income"), p.MonthlyPension)
	errs = appendNonNegative(errs, field("monthly_social_security_income"), p.MonthlySocialSecurity)
	return errs
}

func validateHousehold(h Household) []error {
	var errs []error
	errs = appendNonNegative(errs, "household.essential_spend", h.EssentialSpend)
	errs = appendNonNegative(errs, "household.luxury_spend", h.LuxurySpend)
	errs = appendNonNegative(errs, "household.assisted_living_cost", h.AssistedLivingCost)
	errs = appendNonNegative(errs, "household.current_cash", h.CurrentCash)
	errs = appendNonNegative(errs, "household.current_investment", h.CurrentInvestment)
	errs = appendNonNegative(errs, "household.cash_set_point", h.CashSetPoint)
	errs = appendFraction(errs, "household.stock_allocation_pre_retirement", h.StockAllocationPre)
	errs = appendFraction(errs, "household.stock_allocation_post_retirement", h.StockAllocationPost)
	return errs
}

var maxAnnualRate = decimal.NewFromInt(1)

func validateRates(r RateAssumptions) []error {
	var errs []error
	if _, err := ParseRateMode(string(r.Mode)); err != nil {
		errs = append(errs, invalidField("rates.mode", "%v", err))
	}
	rates := []struct {
		name  string
		value decimal.Decimal
	}{
		{"rates.inflation_rate", r.InflationRate},
		{"rates.stock_return", r.StockReturn},
		{"rates.bond_return", r.BondReturn},
		{"rates.cash_return", r.CashReturn},
	}
	for _, rate := range rates {
		if err := CheckAnnualRate(rate.value.InexactFloat64()); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %w", ErrInvalidConfiguration, rate.name, err))
			continue
		}
		if rate.value.GreaterThan(maxAnnualRate) {
			errs = append(errs, invalidField(rate.name, "must be at most 1 (100%%), got %s", rate.value))
		}
	}
	return errs
}

// CheckAnnualRate rejects annual rates at or below -100%
func CheckAnnualRate(annual float64) error {
	if annual <= -1 {
		return fmt.Errorf("%w: annual rate %g is at or below -100%%", ErrInvalidRate, annual)
	}
	return nil
}

func appendNonNegative(errs []error, field string, v decimal.Decimal) []error {
	if v.IsNegative() {
		return append(errs, invalidField(field, "cannot be negative, got %s", v))
	}
	return errs
}

func appendFraction(errs []error, field string, v decimal.Decimal) []error {
	if v.IsNegative() || v.GreaterThan(decimal.NewFromInt(1)) {
		return append(errs, invalidField(field, "must be between 0 and 1, got %s", v))
	}
	return errs
}
