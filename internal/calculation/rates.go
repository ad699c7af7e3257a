package calculation

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/rpgo/household-forecast/internal/domain"
	"gonum.org/v1/gonum/stat"
)

// MonthlyRate converts an annual fractional rate to its compounding monthly equivalent.
func MonthlyRate(annual float64) (float64, error) {
	if err := domain.CheckAnnualRate(annual); err != nil {
		return 0, err
	}
	return math.Pow(1+annual, 1.0/12) - 1, nil
}

// AnnualRates is one set of annual fractional rates
type AnnualRates struct {
	Stock     float64 `json:"stock"`
	Bond      float64 `json:"bond"`
	Cash      float64 `json:"cash"`
	Inflation float64 `json:"inflation"`
}

// Monthly converts every rate with MonthlyRate
func (a AnnualRates) Monthly() (AnnualRates, error) {
	var m AnnualRates
	var err error
	if m.Stock, err = MonthlyRate(a.Stock); err != nil {
		return m, fmt.Errorf("stock: %w", err)
	}
	if m.Bond, err = MonthlyRate(a.Bond); err != nil {
		return m, fmt.Errorf("bond: %w", err)
	}
	if m.Cash, err = MonthlyRate(a.Cash); err != nil {
		return m, fmt.Errorf("cash: %w", err)
	}
	if m.Inflation, err = MonthlyRate(a.Inflation); err != nil {
		return m, fmt.Errorf("inflation: %w", err)
	}
	return m, nil
}

// RateProvider produces the monthly rate sequences for one projection
type RateProvider interface {
	Rates(months int) (*domain.RateSeries, error)
}

// FixedRates replicates one set of assumed annual rates across every month
type FixedRates struct {
	Annual AnnualRates
}

// NewFixedRates reads the assumed rates from the parameter set
func NewFixedRates(r domain.RateAssumptions) *FixedRates {
	return &FixedRates{Annual: AnnualRates{
		Stock:     r.StockReturn.InexactFloat64(),
		Bond:      r.BondReturn.InexactFloat64(),
		Cash:      r.CashReturn.InexactFloat64(),
		Inflation: r.InflationRate.InexactFloat64(),
	}}
}

func (f *FixedRates) Rates(months int) (*domain.RateSeries, error) {
	m, err := f.Annual.Monthly()
	if err != nil {
		return nil, err
	}
	return constantSeries(domain.RateModeFixed, m, months), nil
}

// HistoricalAverageRates replicates the table's per-column geometric mean across every month
type HistoricalAverageRates struct {
	Table *domain.HistoricalReturnsTable
}

func (h *HistoricalAverageRates) Rates(months int) (*domain.RateSeries, error) {
	avg, err := GeometricAverages(h.Table)
	if err != nil {
		return nil, err
	}
	m, err := avg.Monthly()
	if err != nil {
		return nil, err
	}
	return constantSeries(domain.RateModeHistorical, m, months), nil
}

// GeometricAverages returns (prod(1+x))^(1/n) - 1 for each column of the table
func GeometricAverages(table *domain.HistoricalReturnsTable) (AnnualRates, error) {
	if table.Len() == 0 {
		return AnnualRates{}, domain.ErrMissingHistoricalData
	}
	var out AnnualRates
	cols := []struct {
		name string
		dst  *float64
	}{
		{"stocks", &out.Stock},
		{"bonds", &out.Bond},
		{"cash", &out.Cash},
		{"inflation", &out.Inflation},
	}
	for _, c := range cols {
		growth := table.Column(c.name)
		for i, x := range growth {
			if err := domain.CheckAnnualRate(x); err != nil {
				return AnnualRates{}, fmt.Errorf("%s row %d: %w", c.name, i, err)
			}
			growth[i] = 1 + x
		}
		*c.dst = stat.GeometricMean(growth, nil) - 1
	}
	return out, nil
}

func constantSeries(mode domain.RateMode, m AnnualRates, months int) *domain.RateSeries {
	rs := &domain.RateSeries{
		Mode:      mode,
		Stock:     make([]float64, months),
		Bond:      make([]float64, months),
		Cash:      make([]float64, months),
		Inflation: make([]float64, months),
	}
	for i := 0; i < months; i++ {
		rs.Stock[i] = m.Stock
		rs.Bond[i] = m.Bond
		rs.Cash[i] = m.Cash
		rs.Inflation[i] = m.Inflation
	}
	return rs
}

// BootstrapRates draws one table row per month, with replacement, and uses
// all four of that row's returns for the month.
type BootstrapRates struct {
	monthly []AnnualRates
	rng     *rand.Rand
}

// NewBootstrapRates converts the table to monthly rates once so samplers can share it.
// rng may be nil when only Sample is used.
func NewBootstrapRates(table *domain.HistoricalReturnsTable, rng *rand.Rand) (*BootstrapRates, error) {
	if table.Len() == 0 {
		return nil, domain.ErrMissingHistoricalData
	}
	monthly := make([]AnnualRates, table.Len())
	for i, row := range table.Rows {
		m, err := AnnualRates{Stock: row.Stocks, Bond: row.Bonds, Cash: row.Cash, Inflation: row.Inflation}.Monthly()
		if err != nil {
			return nil, fmt.Errorf("historical year %d: %w", row.Year, err)
		}
		monthly[i] = m
	}
	return &BootstrapRates{monthly: monthly, rng: rng}, nil
}

// WithRand returns a sampler sharing the converted table but drawing from rng
func (b *BootstrapRates) WithRand(rng *rand.Rand) *BootstrapRates {
	return &BootstrapRates{monthly: b.monthly, rng: rng}
}

func (b *BootstrapRates) Rates(months int) (*domain.RateSeries, error) {
	if b.rng == nil {
		return nil, fmt.Errorf("bootstrap sampler has no random source")
	}
	return b.Sample(months, b.rng), nil
}

// Sample draws a series of the given length from rng
func (b *BootstrapRates) Sample(months int, rng *rand.Rand) *domain.RateSeries {
	rs := &domain.RateSeries{
		Mode:      domain.RateModeBootstrap,
		Stock:     make([]float64, months),
		Bond:      make([]float64, months),
		Cash:      make([]float64, months),
		Inflation: make([]float64, months),
		Draws:     make([]int, months),
	}
	for i := 0; i < months; i++ {
		k := rng.Intn(len(b.monthly))
		m := b.monthly[k]
		rs.Draws[i] = k
		rs.Stock[i] = m.Stock
		rs.Bond[i] = m.Bond
		rs.Cash[i] = m.Cash
		rs.Inflation[i] = m.Inflation
	}
	return rs
}
