package output

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/rpgo/household-forecast/internal/domain"
)

// ConsoleFormatter renders a styled terminal report: headline values followed
// by a year-by-year table of the primary run and, in bootstrap mode, the bands.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string      { return "console" }
func (c ConsoleFormatter) Extension() string { return "txt" }

func (c ConsoleFormatter) Format(forecast *domain.Forecast) ([]byte, error) {
	if forecast == nil {
		return nil, fmt.Errorf("console: nil forecast")
	}
	var buf bytes.Buffer
	title := "HOUSEHOLD CASH-FLOW FORECAST"
	if forecast.Name != "" {
		title += ": " + forecast.Name
	}
	fmt.Fprintln(&buf, renderTitle(title))
	fmt.Fprintln(&buf)
	buf.WriteString(renderPairs(headlinePairs(forecast)))
	fmt.Fprintln(&buf)

	primary := forecast.Primary()
	if primary == nil || primary.Months() == 0 {
		fmt.Fprintln(&buf, labelStyle.Render("  (empty timeline: nothing to project)"))
		return buf.Bytes(), nil
	}
	buf.WriteString(renderTable(yearlyTable(forecast, primary)))
	return buf.Bytes(), nil
}

func headlinePairs(f *domain.Forecast) [][2]string {
	mode := string(f.Mode)
	if f.Ensemble != nil {
		mode = fmt.Sprintf("%s (%d simulations, seed %d)", f.Mode, len(f.Ensemble.Members), f.Seed)
	}
	pairs := [][2]string{{"Rate mode", mode}}
	if n := f.Months(); n > 0 {
		first, last := f.Timeline.Dates[0], f.Timeline.Dates[n-1]
		pairs = append(pairs, [2]string{"Horizon", fmt.Sprintf("%d months (%s to %s)", n, first.Format("2006-01-02"), last.Format("2006-01-02"))})
	} else {
		pairs = append(pairs, [2]string{"Horizon", "0 months"})
	}

	expected := styleBalance(f.ExpectedFinal, FormatMillions(f.ExpectedFinal))
	if f.Bands != nil {
		pairs = append(pairs,
			[2]string{"Most likely final", expected + labelStyle.Render("  median, today's dollars")},
			[2]string{"Historical final", styleBalance(f.BaselineFinal, FormatMillions(f.BaselineFinal)) + labelStyle.Render("  historical-average rates")},
		)
		last := f.Bands.Len() - 1
		if last >= 0 {
			pairs = append(pairs, [2]string{"Final P10 / P90", FormatMillions(f.Bands.P10[last]) + " / " + FormatMillions(f.Bands.P90[last])})
		}
	} else {
		pairs = append(pairs, [2]string{"Final total", expected + labelStyle.Render("  today's dollars")})
	}
	return pairs
}

func styleBalance(v float64, s string) string {
	if v <= 0 {
		return badStyle.Render(s)
	}
	return goodStyle.Render(s)
}

// yearlyIndices returns every twelfth month plus the final month.
func yearlyIndices(n int) []int {
	var idx []int
	for i := 0; i < n; i += 12 {
		idx = append(idx, i)
	}
	if n > 0 && idx[len(idx)-1] != n-1 {
		idx = append(idx, n-1)
	}
	return idx
}

func yearlyTable(f *domain.Forecast, r *domain.SimulationResult) table {
	headers := []string{"Month", "Date", "Ages", "Cash", "Investment", "Total", "Income", "Spend"}
	bands := f.Bands != nil && f.Bands.Len() == r.Months()
	if bands {
		headers = append(headers, "P10", "P50", "P90")
	}
	t := table{Title: "Year by year (today's dollars)", Headers: headers, LeftCols: 3}
	for _, i := range yearlyIndices(r.Months()) {
		row := []string{
			strconv.Itoa(i),
			f.Timeline.Dates[i].Format("2006-01"),
			ages(r, i),
			FormatCurrency(r.Cash[i]),
			FormatCurrency(r.Investment[i]),
			FormatCurrency(r.Total[i]),
			FormatCurrency(r.Income[i]),
			FormatCurrency(r.Spend[i]),
		}
		if bands {
			row = append(row, FormatCurrency(f.Bands.P10[i]), FormatCurrency(f.Bands.P50[i]), FormatCurrency(f.Bands.P90[i]))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func ages(r *domain.SimulationResult, i int) string {
	self := ""
	if i < len(r.AgeSelf) {
		self = strconv.Itoa(r.AgeSelf[i])
	}
	if i < len(r.AgeSpouse) {
		return self + "/" + strconv.Itoa(r.AgeSpouse[i])
	}
	return self
}

// SummaryFormatter is a plain, unstyled one-screen summary.
type SummaryFormatter struct{}

func (s SummaryFormatter) Name() string      { return "summary" }
func (s SummaryFormatter) Extension() string { return "txt" }

func (s SummaryFormatter) Format(forecast *domain.Forecast) ([]byte, error) {
	if forecast == nil {
		return nil, fmt.Errorf("summary: nil forecast")
	}
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "HOUSEHOLD FORECAST SUMMARY")
	fmt.Fprintln(&buf, "================================")
	if forecast.Name != "" {
		fmt.Fprintf(&buf, "Name: %s\n", forecast.Name)
	}
	fmt.Fprintf(&buf, "Mode: %s\n", forecast.Mode)
	fmt.Fprintf(&buf, "Months: %d\n", forecast.Months())
	if forecast.Ensemble != nil {
		fmt.Fprintf(&buf, "Simulations: %d Seed: %d\n", len(forecast.Ensemble.Members), forecast.Seed)
		fmt.Fprintf(&buf, "Most likely final: %s\n", FormatMillions(forecast.ExpectedFinal))
		fmt.Fprintf(&buf, "Historical final: %s\n", FormatMillions(forecast.BaselineFinal))
	} else {
		fmt.Fprintf(&buf, "Final total: %s\n", FormatMillions(forecast.ExpectedFinal))
	}
	return buf.Bytes(), nil
}
