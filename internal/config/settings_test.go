package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rpgo/household-forecast/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsFromEnvironment(t *testing.T) {
	t.Setenv("FORECAST_SIMULATIONS", "500")
	t.Setenv("FORECAST_SEED", "31")
	t.Setenv("FORECAST_DEBUG", "true")
	t.Setenv("FORECAST_STORE_PATH", "/tmp/runs.db")

	s, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, 500, s.Simulations)
	assert.Equal(t, int64(31), s.Seed)
	assert.True(t, s.Debug)
	assert.Equal(t, "/tmp/runs.db", s.StorePath)
	assert.Equal(t, "data", s.DataDir)
}

func TestLoadSettingsDotEnvFallback(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("FORECAST_WORKERS=3\nFORECAST_HISTORICAL_DATA=returns.csv\nFORECAST_SEED=5\n"), 0o644))
	t.Setenv("FORECAST_SEED", "8")
	t.Setenv("XDG_CONFIG_HOME", dir)

	s, err := LoadSettings(envFile)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Workers)
	assert.Equal(t, "returns.csv", s.HistoricalData)
	assert.Equal(t, int64(8), s.Seed, "process environment wins over .env")
	assert.Equal(t, filepath.Join(dir, "household-forecast", "runs.db"), s.StorePath)

	_, present := os.LookupEnv("FORECAST_WORKERS")
	assert.False(t, present, ".env values are not exported to the process")
}

func TestLoadSettingsMissingDotEnvIsIgnored(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestLoadSettingsRejectsBadValues(t *testing.T) {
	t.Setenv("FORECAST_SIMULATIONS", "many")
	_, err := LoadSettings("")
	assert.ErrorContains(t, err, "parse env")
}

func TestSettingsApply(t *testing.T) {
	base := domain.SimulationSettings{NumSimulations: 100, Seed: 1, Portfolio: domain.PortfolioSplit}

	assert.Equal(t, base, Settings{}.Apply(base))

	got := Settings{Simulations: 20, Seed: 9, Workers: 2}.Apply(base)
	assert.Equal(t, 20, got.NumSimulations)
	assert.Equal(t, int64(9), got.Seed)
	assert.Equal(t, 2, got.Workers)
	assert.Equal(t, domain.PortfolioSplit, got.Portfolio)
}
