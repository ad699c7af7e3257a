package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rpgo/household-forecast/internal/domain"
)

// Settings are runtime options read from FORECAST_* environment variables.
// Zero values leave the configuration file's settings in place.
type Settings struct {
	HistoricalData string `env:"FORECAST_HISTORICAL_DATA"`
	DataDir        string `env:"FORECAST_DATA_DIR" envDefault:"data"`
	Simulations    int    `env:"FORECAST_SIMULATIONS"`
	Seed           int64  `env:"FORECAST_SEED"`
	Workers        int    `env:"FORECAST_WORKERS"`
	StorePath      string `env:"FORECAST_STORE_PATH"`
	Debug          bool   `env:"FORECAST_DEBUG"`
}

// LoadSettings reads settings from the process environment, falling back to
// values in envFile when it exists. Variables already set in the environment win.
func LoadSettings(envFile string) (Settings, error) {
	environment := env.ToMap(os.Environ())
	if envFile != "" {
		values, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			for k, v := range values {
				if _, set := environment[k]; !set {
					environment[k] = v
				}
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return Settings{}, fmt.Errorf("read %s: %w", envFile, err)
		}
	}

	var s Settings
	if err := env.ParseWithOptions(&s, env.Options{Environment: environment}); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	if s.StorePath == "" {
		s.StorePath = DefaultStorePath()
	}
	return s, nil
}

// Apply overrides simulation settings with the non-zero runtime values
func (s Settings) Apply(sim domain.SimulationSettings) domain.SimulationSettings {
	if s.Simulations != 0 {
		sim.NumSimulations = s.Simulations
	}
	if s.Seed != 0 {
		sim.Seed = s.Seed
	}
	if s.Workers != 0 {
		sim.Workers = s.Workers
	}
	return sim
}

// ConfigDir returns the per-user directory for forecast state.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "household-forecast")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "household-forecast")
}

// DefaultStorePath returns the run archive location used when none is configured.
func DefaultStorePath() string {
	return filepath.Join(ConfigDir(), "runs.db")
}
