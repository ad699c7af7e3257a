package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validParameters() ParameterSet {
	person := Person{
		BirthDate:           date(1980, 1, 1),
		LifeExpectancy:      95,
		RetirementDate:      date(2045, 1, 1),
		AssistedLivingAge:   90,
		MonthlyContribution: decimal.NewFromInt(5000),
		MonthlyPension:      decimal.NewFromInt(4000),
	}
	return ParameterSet{
		Self:   person,
		Spouse: person,
		Household: Household{
			EssentialSpend:      decimal.NewFromInt(8000),
			LuxurySpend:         decimal.NewFromInt(1000),
			AssistedLivingCost:  decimal.NewFromInt(7000),
			CurrentCash:         decimal.NewFromInt(200000),
			CurrentInvestment:   decimal.NewFromInt(1000000),
			CashSetPoint:        decimal.NewFromInt(50000),
			StockAllocationPre:  decimal.NewFromFloat(0.8),
			StockAllocationPost: decimal.NewFromFloat(0.5),
		},
		Rates: RateAssumptions{
			Mode:          RateModeFixed,
			InflationRate: decimal.NewFromFloat(0.02),
			StockReturn:   decimal.NewFromFloat(0.11),
			BondReturn:    decimal.NewFromFloat(0.045),
			CashReturn:    decimal.NewFromFloat(0.02),
		},
	}
}

func TestParameterSetValidate(t *testing.T) {
	params := validParameters()
	require.NoError(t, params.Validate())

	tests := []struct {
		name   string
		mutate func(*ParameterSet)
		field  string
	}{
		{"negative cash", func(p *ParameterSet) { p.Household.CurrentCash = decimal.NewFromInt(-1) }, "household.current_cash"},
		{"negative assisted age", func(p *ParameterSet) { p.Spouse.AssistedLivingAge = -3 }, "spouse.assisted_living_age"},
		{"missing life expectancy", func(p *ParameterSet) { p.Self.LifeExpectancy = 0 }, "self.life_expectancy"},
		{"retirement before birth", func(p *ParameterSet) { p.Self.RetirementDate = date(1970, 1, 1) }, "self.retirement_date"},
		{"allocation above one", func(p *ParameterSet) { p.Household.StockAllocationPost = decimal.NewFromFloat(1.2) }, "household.stock_allocation_post_retirement"},
		{"unknown mode", func(p *ParameterSet) { p.Rates.Mode = "lucky" }, "rates.mode"},
		{"missing birth date", func(p *ParameterSet) { p.Spouse.BirthDate = time.Time{} }, "spouse.birth_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParameters()
			tt.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidateReportsEveryFailure(t *testing.T) {
	p := validParameters()
	p.Household.EssentialSpend = decimal.NewFromInt(-8000)
	p.Spouse.LifeExpectancy = -1
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "household.essential_spend")
	assert.Contains(t, err.Error(), "spouse.life_expectancy")
}

func TestRateAtOrBelowMinusOneIsInvalidRate(t *testing.T) {
	p := validParameters()
	p.Rates.StockReturn = decimal.NewFromInt(-1)
	err := p.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRate))
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))

	assert.NoError(t, CheckAnnualRate(-0.99))
	assert.ErrorIs(t, CheckAnnualRate(-1.5), ErrInvalidRate)
}

func TestStartDatesDefaultToRetirement(t *testing.T) {
	p := Person{RetirementDate: date(2045, 1, 1)}
	assert.Equal(t, p.RetirementDate, p.PensionStart())
	assert.Equal(t, p.RetirementDate, p.SocialSecurityStartDate())

	p.PensionStartDate = date(2047, 6, 1)
	assert.Equal(t, date(2047, 6, 1), p.PensionStart())
}

func TestParseRateModeAliases(t *testing.T) {
	cases := map[string]RateMode{
		"fixed":       RateModeFixed,
		"User Input":  RateModeFixed,
		"Historical":  RateModeHistorical,
		"simulation":  RateModeBootstrap,
		" bootstrap ": RateModeBootstrap,
	}
	for in, want := range cases {
		got, err := ParseRateMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseRateMode("martingale")
	assert.Error(t, err)

	var m RateMode
	require.NoError(t, m.UnmarshalText([]byte("simulation")))
	assert.Equal(t, RateModeBootstrap, m)
}

func TestStaticLuxuryAffordable(t *testing.T) {
	r := validParameters().Rates
	assert.True(t, r.StaticLuxuryAffordable(), "11% > 2% + 4%")

	r.StockReturn = decimal.NewFromFloat(0.06)
	assert.False(t, r.StaticLuxuryAffordable(), "boundary is exclusive")
}

func TestSimulationSettings(t *testing.T) {
	s := SimulationSettings{}.WithDefaults()
	assert.Equal(t, DefaultNumSimulations, s.NumSimulations)
	assert.Equal(t, PortfolioSplit, s.Portfolio)
	require.NoError(t, s.Validate())

	assert.Equal(t, LuxuryGateStatic, s.EffectiveLuxuryGate(RateModeFixed))
	assert.Equal(t, LuxuryGateDynamic, s.EffectiveLuxuryGate(RateModeBootstrap))
	s.LuxuryGate = LuxuryGateDynamic
	assert.Equal(t, LuxuryGateDynamic, s.EffectiveLuxuryGate(RateModeFixed))

	bad := SimulationSettings{NumSimulations: -2, Workers: -1, Portfolio: "triple", LuxuryGate: "sometimes"}
	err := bad.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	for _, f := range []string{"num_simulations", "workers", "portfolio", "luxury_gate"} {
		assert.Contains(t, err.Error(), f)
	}
}

func TestConfigurationValidateNamesScenario(t *testing.T) {
	p := validParameters()
	cfg := Configuration{Name: "early", Self: p.Self, Spouse: p.Spouse, Household: p.Household, Rates: p.Rates}
	require.NoError(t, cfg.Validate())

	cfg.Household.CashSetPoint = decimal.NewFromInt(-5)
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `configuration "early"`)
}
