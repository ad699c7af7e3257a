package output

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/rpgo/household-forecast/internal/domain"
	"github.com/rpgo/household-forecast/pkg/decimal"
)

// FormatCurrency formats an amount as whole US dollars with thousands separators.
func FormatCurrency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "n/a"
	}
	dollars := decimal.NewMoney(amount).RoundDollars().IntPart()
	if dollars < 0 {
		return "-$" + humanize.Comma(-dollars)
	}
	return "$" + humanize.Comma(dollars)
}

// FormatMillions formats an amount as $X.YM, the headline style.
func FormatMillions(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "n/a"
	}
	m := decimal.NewMoney(amount).Millions()
	if m.IsNegative() {
		return "-$" + m.Neg().StringFixed(1) + "M"
	}
	return "$" + m.StringFixed(1) + "M"
}

// FormatPercentage formats a fractional rate as a percentage with 2 decimals.
func FormatPercentage(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate*100)
}

// dollars rounds to whole dollars for tabular exports.
func dollars(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return ""
	}
	return decimal.NewMoney(amount).RoundDollars().StringFixed(0)
}

// realValue converts a nominal amount at month i into month-0 dollars.
func realValue(r *domain.SimulationResult, series []float64, i int) float64 {
	if i >= len(r.Deflator) || r.Deflator[i] == 0 {
		return series[i]
	}
	return series[i] / r.Deflator[i]
}
