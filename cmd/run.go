package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rpgo/household-forecast/internal/calculation"
	"github.com/rpgo/household-forecast/internal/config"
	"github.com/rpgo/household-forecast/internal/domain"
	"github.com/rpgo/household-forecast/internal/output"
	"github.com/rpgo/household-forecast/internal/store"
	"github.com/spf13/cobra"
)

var (
	flagConfig      string
	flagHistory     string
	flagFormat      string
	flagOutput      string
	flagSave        bool
	flagExplain     bool
	flagMode        string
	flagSimulations int
	flagSeed        int64
	flagWorkers     int
)

var runCmd = &cobra.Command{
	Use:   "run [config]",
	Short: "Run a forecast from a YAML or TOML configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runForecast,
}

func init() {
	runCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "Configuration file (.yaml, .yml, .json or .toml)")
	runCmd.Flags().StringVar(&flagHistory, "history", "", "Historical returns CSV (Year,Stocks,Bonds,Cash,Inflation)")
	runCmd.Flags().StringVarP(&flagFormat, "format", "f", "console", "Report format: "+fmt.Sprint(output.AvailableFormatterNames()))
	runCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Write the report to a file or directory instead of stdout")
	runCmd.Flags().BoolVar(&flagSave, "save", false, "Archive the run in the local run store")
	runCmd.Flags().BoolVar(&flagExplain, "explain", false, "Print how the forecast is computed")
	runCmd.Flags().StringVar(&flagMode, "mode", "", "Override the rate mode: fixed, historical or bootstrap")
	runCmd.Flags().IntVar(&flagSimulations, "simulations", 0, "Number of bootstrap simulations")
	runCmd.Flags().Int64Var(&flagSeed, "seed", 0, "Bootstrap master seed (0 draws from the clock)")
	runCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Parallel simulation workers (0 uses every CPU)")
	rootCmd.AddCommand(runCmd)
}

// loadRunConfiguration reads the configuration and applies env then flag overrides.
func loadRunConfiguration(cmd *cobra.Command, args []string) (*domain.Configuration, error) {
	path := flagConfig
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return nil, fmt.Errorf("no configuration file given; create one with `forecast example config.yaml`")
	}
	cfg, err := config.NewInputParser().LoadFromFile(path)
	if err != nil {
		return nil, err
	}

	cfg.Simulation = settings.Apply(cfg.Simulation)
	flags := cmd.Flags()
	if flags.Changed("simulations") {
		cfg.Simulation.NumSimulations = flagSimulations
	}
	if flags.Changed("seed") {
		cfg.Simulation.Seed = flagSeed
	}
	if flags.Changed("workers") {
		cfg.Simulation.Workers = flagWorkers
	}
	if flags.Changed("mode") {
		mode, err := domain.ParseRateMode(flagMode)
		if err != nil {
			return nil, err
		}
		cfg.Rates.Mode = mode
	}
	return cfg, nil
}

// loadHistory returns the historical table when the rate mode needs one.
func loadHistory(mode domain.RateMode) (*domain.HistoricalReturnsTable, error) {
	if mode == domain.RateModeFixed {
		return nil, nil
	}
	name := flagHistory
	if name == "" {
		name = settings.HistoricalData
	}
	if name == "" {
		return nil, fmt.Errorf("%s mode: %w: pass --history or set FORECAST_HISTORICAL_DATA", mode, domain.ErrMissingHistoricalData)
	}
	return calculation.NewHistoricalDataManager(settings.DataDir).Load(name)
}

func runForecast(cmd *cobra.Command, args []string) error {
	formatter, err := output.LookupFormatter(flagFormat)
	if err != nil {
		return err
	}
	cfg, err := loadRunConfiguration(cmd, args)
	if err != nil {
		return err
	}
	mode, err := domain.ParseRateMode(string(cfg.Rates.Mode))
	if err != nil {
		return err
	}
	table, err := loadHistory(mode)
	if err != nil {
		return err
	}
	for _, w := range calculation.ValidateDataQuality(table) {
		logger.Warnf("historical data: %s", w)
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer stop()

	engine := calculation.NewCalculationEngine()
	engine.SetLogger(logger)
	forecast, err := engine.RunConfiguration(ctx, cfg, table)
	if err != nil {
		return err
	}

	if flagSave {
		archive, err := store.Open(settings.StorePath)
		if err != nil {
			return err
		}
		defer archive.Close()
		id, err := archive.Save(forecast)
		if err != nil {
			return fmt.Errorf("archiving run: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved run %s to %s\n", id, settings.StorePath)
	}

	if flagExplain {
		fmt.Fprintln(cmd.OutOrStdout(), output.Methodology(forecast.Mode))
	}

	if flagOutput != "" {
		written, err := output.WriteFormatted(formatter, forecast, flagOutput)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", written)
		return nil
	}
	data, err := formatter.Format(forecast)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
