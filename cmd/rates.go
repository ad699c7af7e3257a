package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/rpgo/household-forecast/internal/calculation"
	"github.com/rpgo/household-forecast/internal/domain"
	"github.com/rpgo/household-forecast/internal/output"
	"github.com/spf13/cobra"
)

var flagRatesJSON bool

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Summarize a historical returns table",
	Long:  "Load a historical returns CSV and print per-column statistics, the rates the historical-average mode would use, and data quality warnings.",
	Args:  cobra.NoArgs,
	RunE:  runRates,
}

func init() {
	ratesCmd.Flags().StringVar(&flagHistory, "history", "", "Historical returns CSV (Year,Stocks,Bonds,Cash,Inflation)")
	ratesCmd.Flags().BoolVar(&flagRatesJSON, "json", false, "Print statistics as JSON")
	rootCmd.AddCommand(ratesCmd)
}

func runRates(cmd *cobra.Command, _ []string) error {
	table, err := loadHistory(domain.RateModeHistorical)
	if err != nil {
		return err
	}
	stats := calculation.CalculateStatistics(table)
	warnings := calculation.ValidateDataQuality(table)

	if flagRatesJSON {
		data, err := json.MarshalIndent(struct {
			Source     string                             `json:"source"`
			Statistics []calculation.HistoricalStatistics `json:"statistics"`
			Warnings   []string                           `json:"warnings,omitempty"`
		}{table.Source, stats, warnings}, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, output.RenderHistoricalStatistics(table, stats, warnings))
	avg, err := calculation.GeometricAverages(table)
	if err != nil {
		return err
	}
	monthly, err := avg.Monthly()
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Historical-average monthly rates: stocks %s, bonds %s, cash %s, inflation %s\n",
		output.FormatPercentage(monthly.Stock), output.FormatPercentage(monthly.Bond),
		output.FormatPercentage(monthly.Cash), output.FormatPercentage(monthly.Inflation))
	return nil
}
