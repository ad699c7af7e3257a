package calculation

import (
	"math"
	"math/rand"
	"testing"

	"github.com/rpgo/household-forecast/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyRate(t *testing.T) {
	for _, annual := range []float64{0, 0.02, 0.11, -0.37, 0.5} {
		m, err := MonthlyRate(annual)
		require.NoError(t, err)
		assert.InDelta(t, 1+annual, math.Pow(1+m, 12), 1e-12, "annual %v", annual)
	}

	_, err := MonthlyRate(-1)
	assert.ErrorIs(t, err, domain.ErrInvalidRate)
	_, err = MonthlyRate(-2.5)
	assert.ErrorIs(t, err, domain.ErrInvalidRate)
}

func TestFixedRates(t *testing.T) {
	rs, err := NewFixedRates(concreteScenario().Rates).Rates(24)
	require.NoError(t, err)
	require.Equal(t, 24, rs.Len())
	assert.Equal(t, domain.RateModeFixed, rs.Mode)

	wantStock, _ := MonthlyRate(0.11)
	for i := 0; i < 24; i++ {
		assert.Equal(t, wantStock, rs.Stock[i])
	}
	assert.Nil(t, rs.Draws)

	bad := &FixedRates{Annual: AnnualRates{Stock: 0.05, Bond: -1, Cash: 0.01, Inflation: 0.02}}
	_, err = bad.Rates(3)
	assert.ErrorIs(t, err, domain.ErrInvalidRate)
}

func TestGeometricAverages(t *testing.T) {
	table := &domain.HistoricalReturnsTable{Rows: []domain.ReturnRow{
		{Year: 1, Stocks: 0.10, Bonds: 0.05, Cash: 0.02, Inflation: 0.03},
		{Year: 2, Stocks: -0.10, Bonds: 0.05, Cash: 0.04, Inflation: 0.01},
	}}
	avg, err := GeometricAverages(table)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(1.1*0.9)-1, avg.Stock, 1e-12)
	assert.InDelta(t, 0.05, avg.Bond, 1e-12)
	assert.InDelta(t, math.Sqrt(1.02*1.04)-1, avg.Cash, 1e-12)

	_, err = GeometricAverages(&domain.HistoricalReturnsTable{})
	assert.ErrorIs(t, err, domain.ErrMissingHistoricalData)
}

func TestHistoricalAverageRatesAreConstant(t *testing.T) {
	rs, err := (&HistoricalAverageRates{Table: sampleTable()}).Rates(12)
	require.NoError(t, err)
	assert.Equal(t, domain.RateModeHistorical, rs.Mode)
	for i := 1; i < 12; i++ {
		assert.Equal(t, rs.Stock[0], rs.Stock[i])
		assert.Equal(t, rs.Inflation[0], rs.Inflation[i])
	}

	_, err = (&HistoricalAverageRates{}).Rates(12)
	assert.ErrorIs(t, err, domain.ErrMissingHistoricalData)
}

func TestBootstrapDrawsWholeRows(t *testing.T) {
	table := sampleTable()
	sampler, err := NewBootstrapRates(table, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	rs, err := sampler.Rates(600)
	require.NoError(t, err)
	require.Equal(t, 600, rs.Len())
	require.Len(t, rs.Draws, 600)

	for i, k := range rs.Draws {
		row := table.Rows[k]
		stock, _ := MonthlyRate(row.Stocks)
		bond, _ := MonthlyRate(row.Bonds)
		cash, _ := MonthlyRate(row.Cash)
		infl, _ := MonthlyRate(row.Inflation)
		assert.Equal(t, stock, rs.Stock[i])
		assert.Equal(t, bond, rs.Bond[i])
		assert.Equal(t, cash, rs.Cash[i])
		assert.Equal(t, infl, rs.Inflation[i])
	}
}

func TestBootstrapMatchesEmpiricalDistribution(t *testing.T) {
	table := sampleTable()
	sampler, err := NewBootstrapRates(table, nil)
	require.NoError(t, err)

	const months = 50000
	rs := sampler.Sample(months, rand.New(rand.NewSource(12345)))

	counts := make([]int, table.Len())
	var drawnStock float64
	for _, k := range rs.Draws {
		counts[k]++
		drawnStock += table.Rows[k].Stocks
	}

	// Chi-square goodness of fit against the uniform row distribution; the 0.1%
	// critical value for 9 degrees of freedom is 27.88.
	expected := float64(months) / float64(table.Len())
	var chi2 float64
	for _, c := range counts {
		diff := float64(c) - expected
		chi2 += diff * diff / expected
	}
	assert.Less(t, chi2, 27.88)

	var tableMean float64
	for _, r := range table.Rows {
		tableMean += r.Stocks
	}
	tableMean /= float64(table.Len())
	assert.InDelta(t, tableMean, drawnStock/months, 0.005)
}

func TestBootstrapIsReproducibleForASeed(t *testing.T) {
	sampler, err := NewBootstrapRates(sampleTable(), nil)
	require.NoError(t, err)

	a := sampler.Sample(120, rand.New(rand.NewSource(99)))
	b := sampler.WithRand(rand.New(rand.NewSource(99)))
	bs, err := b.Rates(120)
	require.NoError(t, err)
	assert.Equal(t, a.Draws, bs.Draws)

	_, err = sampler.Rates(10)
	assert.Error(t, err, "no random source configured")
}

func TestBootstrapRejectsEmptyOrInvalidTable(t *testing.T) {
	_, err := NewBootstrapRates(nil, nil)
	assert.ErrorIs(t, err, domain.ErrMissingHistoricalData)

	bad := &domain.HistoricalReturnsTable{Rows: []domain.ReturnRow{{Year: 1931, Stocks: -1.2}}}
	_, err = NewBootstrapRates(bad, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidRate)
}
