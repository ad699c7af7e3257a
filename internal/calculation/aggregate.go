package calculation

import (
	"math"
	"sort"

	"github.com/rpgo/household-forecast/internal/domain"
)

// Percentile returns the q-quantile of samples by linear interpolation between
// order statistics at position q*(n-1). samples is not modified.
func Percentile(samples []float64, q float64) float64 {
	n := len(samples)
	if n == 0 {
		return math.NaN()
	}

	tmp := make([]float64, n)
	copy(tmp, samples)
	sort.Float64s(tmp)
	return sortedPercentile(tmp, q)
}

func sortedPercentile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}

	pos := q * float64(n-1)
	below := int(math.Floor(pos))
	above := int(math.Ceil(pos))
	if above == below {
		return sorted[below]
	}
	weight := pos - float64(below)
	return sorted[below]*(1-weight) + sorted[above]*weight
}

// ComputeBands returns per-month percentiles of the members' real totals. The
// baseline is not part of the distribution.
func ComputeBands(members []*domain.SimulationResult) *domain.PercentileBands {
	if len(members) == 0 {
		return &domain.PercentileBands{}
	}
	months := members[0].Months()
	bands := &domain.PercentileBands{
		P10: make([]float64, months),
		P25: make([]float64, months),
		P50: make([]float64, months),
		P75: make([]float64, months),
		P90: make([]float64, months),
	}
	column := make([]float64, len(members))
	for i := 0; i < months; i++ {
		for k, m := range members {
			column[k] = m.Total[i]
		}
		sort.Float64s(column)
		bands.P10[i] = sortedPercentile(column, 0.10)
		bands.P25[i] = sortedPercentile(column, 0.25)
		bands.P50[i] = sortedPercentile(column, 0.50)
		bands.P75[i] = sortedPercentile(column, 0.75)
		bands.P90[i] = sortedPercentile(column, 0.90)
	}
	return bands
}

// Headline returns the final-month median, the most likely ending balance
func Headline(bands *domain.PercentileBands) float64 {
	if bands == nil || bands.Len() == 0 {
		return 0
	}
	return bands.P50[bands.Len()-1]
}
