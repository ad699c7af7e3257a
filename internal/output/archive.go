package output

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/rpgo/household-forecast/internal/store"
)

// RenderRunList renders archived run summaries as a table.
func RenderRunList(runs []store.RunSummary) string {
	if len(runs) == 0 {
		return labelStyle.Render("  No archived runs.") + "\n"
	}
	t := table{
		Title:    fmt.Sprintf("%d archived runs", len(runs)),
		Headers:  []string{"ID", "Created", "Name", "Mode", "Months", "Expected", "Historical"},
		LeftCols: 4,
	}
	for _, r := range runs {
		t.Rows = append(t.Rows, []string{
			shortID(r.ID),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Name,
			string(r.Mode),
			strconv.Itoa(r.Months),
			FormatMillions(r.ExpectedFinal),
			FormatMillions(r.BaselineFinal),
		})
	}
	return renderTable(t)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// RenderRun renders one archived run with its yearly totals.
func RenderRun(run *store.Run) string {
	var b strings.Builder
	title := "ARCHIVED RUN " + shortID(run.ID)
	if run.Name != "" {
		title += ": " + run.Name
	}
	b.WriteString(renderTitle(title))
	b.WriteString("\n\n")

	mode := string(run.Mode)
	if run.Simulations > 0 {
		mode = fmt.Sprintf("%s (%d simulations, seed %d)", run.Mode, run.Simulations, run.Seed)
	}
	b.WriteString(renderPairs([][2]string{
		{"ID", run.ID},
		{"Created", run.CreatedAt.Local().Format("2006-01-02 15:04:05")},
		{"Rate mode", mode},
		{"Months", strconv.Itoa(run.Months)},
		{"Expected final", FormatMillions(run.ExpectedFinal)},
		{"Historical final", FormatMillions(run.BaselineFinal)},
	}))
	b.WriteString("\n")

	if len(run.MonthRows) == 0 {
		return b.String()
	}
	t := table{Title: "Year by year (today's dollars)", Headers: []string{"Month", "Date", "Total", "P10", "P50", "P90"}, LeftCols: 2}
	for _, i := range yearlyIndices(len(run.MonthRows)) {
		m := run.MonthRows[i]
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(m.Month),
			m.Date.Format("2006-01"),
			FormatCurrency(m.Total),
			nullCurrency(m.P10),
			nullCurrency(m.P50),
			nullCurrency(m.P90),
		})
	}
	b.WriteString(renderTable(t))
	return b.String()
}

func nullCurrency(v sql.NullFloat64) string {
	if !v.Valid {
		return "-"
	}
	return FormatCurrency(v.Float64)
}
