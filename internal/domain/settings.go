package domain

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultNumSimulations is the ensemble size used when none is configured
const DefaultNumSimulations = 100

// SimulationSettings controls how a forecast is executed. None of these
// values change the household inputs, only the way they are projected.
type SimulationSettings struct {
	NumSimulations  int            `yaml:"num_simulations" toml:"num_simulations" json:"num_simulations"`
	Seed            int64          `yaml:"seed" toml:"seed" json:"seed"`          // 0 draws a seed from the clock
	Workers         int            `yaml:"workers" toml:"workers" json:"workers"` // 0 uses runtime.NumCPU()
	Portfolio       PortfolioModel `yaml:"portfolio" toml:"portfolio" json:"portfolio"`
	LuxuryGate      LuxuryGate     `yaml:"luxury_gate" toml:"luxury_gate" json:"luxury_gate"`
	NominalSpending bool           `yaml:"nominal_spending" toml:"nominal_spending" json:"nominal_spending"`
	IndexOnlyIncome bool           `yaml:"index_only_income" toml:"index_only_income" json:"index_only_income"`
}

// DefaultSimulationSettings returns the canonical engine behavior
func DefaultSimulationSettings() SimulationSettings {
	return SimulationSettings{
		NumSimulations: DefaultNumSimulations,
		Portfolio:      PortfolioSplit,
		LuxuryGate:     LuxuryGateAuto,
	}
}

// WithDefaults fills unset fields from DefaultSimulationSettings
func (s SimulationSettings) WithDefaults() SimulationSettings {
	d := DefaultSimulationSettings()
	if s.NumSimulations == 0 {
		s.NumSimulations = d.NumSimulations
	}
	if s.Portfolio == "" {
		s.Portfolio = d.Portfolio
	}
	if s.LuxuryGate == "" {
		s.LuxuryGate = d.LuxuryGate
	}
	s.Portfolio = PortfolioModel(strings.ToLower(string(s.Portfolio)))
	s.LuxuryGate = LuxuryGate(strings.ToLower(string(s.LuxuryGate)))
	return s
}

// Validate checks the settings after defaults have been applied
func (s SimulationSettings) Validate() error {
	var errs []error
	if s.NumSimulations < 1 {
		errs = append(errs, invalidField("simulation.num_simulations", "must be at least 1, got %d", s.NumSimulations))
	}
	if s.Workers < 0 {
		errs = append(errs, invalidField("simulation.workers", "cannot be negative, got %d", s.Workers))
	}
	switch s.Portfolio {
	case PortfolioSplit, PortfolioSingle:
	default:
		errs = append(errs, invalidField("simulation.portfolio", "must be %q or %q, got %q", PortfolioSplit, PortfolioSingle, s.Portfolio))
	}
	switch s.LuxuryGate {
	case LuxuryGateAuto, LuxuryGateDynamic, LuxuryGateStatic:
	default:
		errs = append(errs, invalidField("simulation.luxury_gate", "must be auto, dynamic or static, got %q", s.LuxuryGate))
	}
	return errors.Join(errs...)
}

// EffectiveLuxuryGate resolves auto to the gate used by the given rate mode
func (s SimulationSettings) EffectiveLuxuryGate(mode RateMode) LuxuryGate {
	if s.LuxuryGate != LuxuryGateAuto && s.LuxuryGate != "" {
		return s.LuxuryGate
	}
	if mode == RateModeFixed {
		return LuxuryGateStatic
	}
	return LuxuryGateDynamic
}

// Configuration is the complete input file
type Configuration struct {
	Name       string             `yaml:"name,omitempty" toml:"name,omitempty" json:"name,omitempty"`
	Self       Person             `yaml:"self" toml:"self" json:"self"`
	Spouse     Person             `yaml:"spouse" toml:"spouse" json:"spouse"`
	Household  Household          `yaml:"household" toml:"household" json:"household"`
	Rates      RateAssumptions    `yaml:"rates" toml:"rates" json:"rates"`
	Simulation SimulationSettings `yaml:"simulation,omitempty" toml:"simulation,omitempty" json:"simulation"`
}

// Parameters returns the ParameterSet described by the configuration
func (c *Configuration) Parameters() ParameterSet {
	return ParameterSet{
		Self:      c.Self,
		Spouse:    c.Spouse,
		Household: c.Household,
		Rates:     c.Rates,
	}
}

// Validate checks the household parameters and the simulation settings
func (c *Configuration) Validate() error {
	params := c.Parameters()
	if err := errors.Join(params.Validate(), c.Simulation.WithDefaults().Validate()); err != nil {
		if c.Name != "" {
			return fmt.Errorf("configuration %q: %w", c.Name, err)
		}
		return err
	}
	return nil
}
