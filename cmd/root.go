// Package cmd implements the forecast command line.
package cmd

import (
	"os"

	"github.com/rpgo/household-forecast/internal/calculation"
	"github.com/rpgo/household-forecast/internal/config"
	"github.com/spf13/cobra"
)

var (
	flagDebug   bool
	flagEnvFile string
)

// populated by the root command's PersistentPreRunE
var (
	settings config.Settings
	logger   calculation.Logger = calculation.NopLogger{}
)

var rootCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Household monthly cash-flow forecast",
	Long: "Project a two-person household's cash, investments, income and spending month by month\n" +
		"until both reach life expectancy, with fixed, historical-average or bootstrap market rates.",
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log engine progress to stderr")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "Optional file of FORECAST_* variables")
}

func loadSettings(cmd *cobra.Command, _ []string) error {
	s, err := config.LoadSettings(flagEnvFile)
	if err != nil {
		return err
	}
	settings = s
	if flagDebug || s.Debug {
		logger = calculation.NewStdLogger(cmd.ErrOrStderr(), true)
	} else {
		logger = calculation.NopLogger{}
	}
	return nil
}
