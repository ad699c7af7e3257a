package calculation

import (
	"context"
	"fmt"

	"github.com/rpgo/household-forecast/internal/domain"
)

// CalculationEngine orchestrates timeline, rates, cash flow, Monte Carlo and aggregation
type CalculationEngine struct {
	Logger Logger
}

// NewCalculationEngine creates a new calculation engine
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{Logger: NopLogger{}}
}

// SetLogger sets the logger for the calculation engine. If nil is provided, a no-op logger is used.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

func (ce *CalculationEngine) logger() Logger {
	if ce.Logger == nil {
		return NopLogger{}
	}
	return ce.Logger
}

// RunConfiguration runs the forecast described by a loaded configuration file
func (ce *CalculationEngine) RunConfiguration(ctx context.Context, cfg *domain.Configuration, table *domain.HistoricalReturnsTable) (*domain.Forecast, error) {
	params := cfg.Parameters()
	forecast, err := ce.Run(ctx, &params, cfg.Simulation, table)
	if err != nil {
		return nil, err
	}
	forecast.Name = cfg.Name
	return forecast, nil
}

// Run projects the household from today. Fixed and historical modes yield a
// single Result; bootstrap mode yields an Ensemble, its Bands, and a
// historical-average baseline. params is never modified.
func (ce *CalculationEngine) Run(ctx context.Context, params *domain.ParameterSet, settings domain.SimulationSettings, table *domain.HistoricalReturnsTable) (*domain.Forecast, error) {
	log := ce.logger()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	settings = settings.WithDefaults()
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	mode, err := domain.ParseRateMode(string(params.Rates.Mode))
	if err != nil {
		return nil, fmt.Errorf("%w: rates.mode: %w", domain.ErrInvalidConfiguration, err)
	}

	start := today()
	timeline := BuildTimeline(params, start)
	plan := NewCashFlowPlan(params, timeline, mode, settings)
	log.Infof("forecast: mode=%s months=%d start=%s", mode, timeline.Len(), start.Format("2006-01-02"))
	log.Debugf("forecast: retired from month %d, luxury gate %s, portfolio %s",
		plan.RetiredIndex(), settings.EffectiveLuxuryGate(mode), settings.Portfolio)

	forecast := &domain.Forecast{
		Mode:        mode,
		GeneratedAt: nowFunc(),
		Settings:    settings,
		Parameters:  *params,
		Timeline:    timeline,
	}

	switch mode {
	case domain.RateModeFixed:
		result, err := ce.runSingle(plan, NewFixedRates(params.Rates))
		if err != nil {
			return nil, fmt.Errorf("fixed projection: %w", err)
		}
		forecast.Result = result
		forecast.ExpectedFinal = result.FinalTotal()
		forecast.BaselineFinal = forecast.ExpectedFinal

	case domain.RateModeHistorical:
		if table.Len() == 0 {
			return nil, fmt.Errorf("historical mode: %w", domain.ErrMissingHistoricalData)
		}
		result, err := ce.runSingle(plan, &HistoricalAverageRates{Table: table})
		if err != nil {
			return nil, fmt.Errorf("historical projection: %w", err)
		}
		forecast.Result = result
		forecast.ExpectedFinal = result.FinalTotal()
		forecast.BaselineFinal = forecast.ExpectedFinal

	case domain.RateModeBootstrap:
		if table.Len() == 0 {
			return nil, fmt.Errorf("bootstrap mode: %w", domain.ErrMissingHistoricalData)
		}
		baseline, err := ce.runSingle(plan, &HistoricalAverageRates{Table: table})
		if err != nil {
			return nil, fmt.Errorf("baseline projection: %w", err)
		}
		sampler, err := NewBootstrapRates(table, nil)
		if err != nil {
			return nil, fmt.Errorf("bootstrap sampler: %w", err)
		}
		sim := NewMonteCarloSimulator(plan, sampler, settings)
		sim.Logger = log
		ensemble, err := sim.RunSimulation(ctx)
		if err != nil {
			return nil, err
		}
		ensemble.Baseline = baseline
		forecast.Seed = sim.Seed
		forecast.Ensemble = ensemble
		forecast.Bands = ComputeBands(ensemble.Members)
		forecast.ExpectedFinal = Headline(forecast.Bands)
		forecast.BaselineFinal = baseline.FinalTotal()
	}

	log.Infof("forecast: expected final %.0f, baseline final %.0f", forecast.ExpectedFinal, forecast.BaselineFinal)
	return forecast, nil
}

func (ce *CalculationEngine) runSingle(plan *CashFlowPlan, provider RateProvider) (*domain.SimulationResult, error) {
	rates, err := provider.Rates(plan.Months())
	if err != nil {
		return nil, err
	}
	return plan.Run(rates)
}
