package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rpgo/household-forecast/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Format identifies a configuration file encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// DefaultRateMode is used when a configuration does not name one
const DefaultRateMode = domain.RateModeBootstrap

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// FormatForPath picks the encoding from the file extension. JSON is read by
// the YAML decoder.
func FormatForPath(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml", ".json":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported configuration file extension %q (use .yaml, .yml, .json or .toml)", filepath.Ext(filename))
	}
}

// LoadFromFile loads configuration from a YAML, JSON or TOML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	format, err := FormatForPath(filename)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data, format)
}

// Parse decodes and validates a configuration
func (ip *InputParser) Parse(data []byte, format Format) (*domain.Configuration, error) {
	var config domain.Configuration
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &config); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown configuration format %q", format)
	}

	ip.ApplyDefaults(&config)
	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

// ApplyDefaults fills the rate mode and simulation settings left unset
func (ip *InputParser) ApplyDefaults(config *domain.Configuration) {
	if config.Rates.Mode == "" {
		config.Rates.Mode = DefaultRateMode
	}
	config.Simulation = config.Simulation.WithDefaults()
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if config == nil {
		return fmt.Errorf("%w: no configuration provided", domain.ErrInvalidConfiguration)
	}
	return config.Validate()
}

// SaveConfiguration writes a configuration in the format implied by the file extension
func (ip *InputParser) SaveConfiguration(config *domain.Configuration, filename string) error {
	format, err := FormatForPath(filename)
	if err != nil {
		return err
	}
	data, err := ip.Marshal(config, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}

// Marshal encodes a configuration as YAML or TOML
func (ip *InputParser) Marshal(config *domain.Configuration, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(config); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
		return buf.Bytes(), nil
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(config); err != nil {
			return nil, fmt.Errorf("failed to encode TOML: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown configuration format %q", format)
	}
}

// CreateExampleConfiguration returns the default household: two people born in
// 1980 retiring in 2045, with a bootstrap forecast of 100 runs.
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	birthDate := time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)
	retirementDate := time.Date(2045, 1, 1, 0, 0, 0, 0, time.UTC)

	person := domain.Person{
		BirthDate:             birthDate,
		LifeExpectancy:        95,
		RetirementDate:        retirementDate,
		PensionStartDate:      retirementDate,
		SocialSecurityStart:   retirementDate,
		AssistedLivingAge:     90,
		MonthlyContribution:   decimal.NewFromInt(5000),
		MonthlyPension:        decimal.NewFromInt(4000),
		MonthlySocialSecurity: decimal.Zero,
	}

	return &domain.Configuration{
		Name:   "Example Household",
		Self:   person,
		Spouse: person,
		Household: domain.Household{
			EssentialSpend:      decimal.NewFromInt(8000),
			LuxurySpend:         decimal.NewFromInt(1000),
			AssistedLivingCost:  decimal.NewFromInt(7000),
			CurrentCash:         decimal.NewFromInt(200000),
			CurrentInvestment:   decimal.NewFromInt(1000000),
			CashSetPoint:        decimal.NewFromInt(50000),
			StockAllocationPre:  decimal.NewFromFloat(0.80),
			StockAllocationPost: decimal.NewFromFloat(0.50),
		},
		Rates: domain.RateAssumptions{
			Mode:          domain.RateModeBootstrap,
			InflationRate: decimal.NewFromFloat(0.02),
			StockReturn:   decimal.NewFromFloat(0.11),
			BondReturn:    decimal.NewFromFloat(0.045),
			CashReturn:    decimal.NewFromFloat(0.02),
		},
		Simulation: domain.DefaultSimulationSettings(),
	}
}
