package output

import (
	"fmt"
	"strings"

	"github.com/rpgo/household-forecast/internal/calculation"
	"github.com/rpgo/household-forecast/internal/domain"
)

var methodologySteps = []string{
	"The timeline runs in 30-day steps from today until the later of the two life-expectancy dates.",
	"Each month, contributions are added while a person is alive and still working.",
	"Pension and Social Security are paid from their start dates while the recipient is alive.",
	"Essential spending, and luxury spending when markets outpace inflation, rises with the price level.",
	"Assisted-living cost is added per person from the assisted-living age until life expectancy.",
	"A surplus goes to cash. A shortfall draws cash first and then investments, never below zero.",
	"Investments top cash back up to the set-point. The stock share follows the pre- or post-retirement ratio.",
	"Cash, stocks and bonds then grow at that month's rates.",
	"Balances are reported in today's dollars by dividing by cumulative inflation.",
}

var modeNotes = map[domain.RateMode]string{
	domain.RateModeFixed:      "Fixed: the entered annual rates apply every month, converted as (1+r)^(1/12)-1.",
	domain.RateModeHistorical: "Historical average: the geometric mean of each column of the historical table applies every month.",
	domain.RateModeBootstrap:  "Bootstrap: every month of every simulation draws one historical year at random, so all four rates come from the same year. The median across simulations is the most likely outcome, and the historical-average run is shown alongside it.",
}

// Methodology returns a plain-language description of the projection.
func Methodology(mode domain.RateMode) string {
	var b strings.Builder
	b.WriteString("HOW THE FORECAST WORKS\n")
	for i, s := range methodologySteps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	if note, ok := modeNotes[mode]; ok {
		b.WriteString("\n")
		b.WriteString(note)
		b.WriteString("\n")
	}
	return b.String()
}

// RenderHistoricalStatistics renders per-column statistics and data quality warnings.
func RenderHistoricalStatistics(returns *domain.HistoricalReturnsTable, stats []calculation.HistoricalStatistics, warnings []string) string {
	var b strings.Builder
	first, last := returns.YearRange()
	b.WriteString(renderTitle(fmt.Sprintf("HISTORICAL RETURNS %d-%d", first, last)))
	b.WriteString("\n\n")

	t := table{
		Title:    fmt.Sprintf("%d years from %s", returns.Len(), returns.Source),
		Headers:  []string{"Column", "Mean", "Geometric", "Median", "Std Dev", "Min", "Max"},
		LeftCols: 1,
	}
	for _, s := range stats {
		t.Rows = append(t.Rows, []string{
			s.Column,
			FormatPercentage(s.Mean),
			FormatPercentage(s.GeometricMean),
			FormatPercentage(s.Median),
			FormatPercentage(s.StdDev),
			FormatPercentage(s.Min),
			FormatPercentage(s.Max),
		})
	}
	b.WriteString(renderTable(t))

	if len(warnings) > 0 {
		b.WriteString("\n  ")
		b.WriteString(badStyle.Render("Data quality warnings"))
		b.WriteString("\n")
		for _, w := range warnings {
			b.WriteString("  - ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}
