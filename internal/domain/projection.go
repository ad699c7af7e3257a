package domain

import (
	"time"
)

// ReturnRow is one year of fractional annual returns
type ReturnRow struct {
	Year      int     `json:"year"`
	Stocks    float64 `json:"stocks"`
	Bonds     float64 `json:"bonds"`
	Cash      float64 `json:"cash"`
	Inflation float64 `json:"inflation"`
}

// HistoricalReturnsTable is an ordered, read-only table of annual returns
type HistoricalReturnsTable struct {
	Source string      `json:"source,omitempty"`
	Rows   []ReturnRow `json:"rows"`
}

// Len returns the number of rows; a nil table has none
func (t *HistoricalReturnsTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Column extracts one column by name: stocks, bonds, cash or inflation
func (t *HistoricalReturnsTable) Column(name string) []float64 {
	if t == nil {
		return nil
	}
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		switch name {
		case "stocks":
			out[i] = r.Stocks
		case "bonds":
			out[i] = r.Bonds
		case "cash":
			out[i] = r.Cash
		case "inflation":
			out[i] = r.Inflation
		}
	}
	return out
}

// YearRange returns the first and last year in the table
func (t *HistoricalReturnsTable) YearRange() (int, int) {
	if t.Len() == 0 {
		return 0, 0
	}
	return t.Rows[0].Year, t.Rows[len(t.Rows)-1].Year
}

// Timeline is the ordered sequence of projection dates, 30 days apart
type Timeline struct {
	Start time.Time   `json:"start"`
	Dates []time.Time `json:"dates"`
}

// Len returns the month count
func (tl *Timeline) Len() int {
	return len(tl.Dates)
}

// RateSeries holds one monthly rate per timeline month for each asset class
type RateSeries struct {
	Mode      RateMode  `json:"mode"`
	Stock     []float64 `json:"stock"`
	Bond      []float64 `json:"bond"`
	Cash      []float64 `json:"cash"`
	Inflation []float64 `json:"inflation"`
	// Draws records the table row sampled for each month in bootstrap mode
	Draws []int `json:"draws,omitempty"`
}

// Len returns the number of months covered
func (rs *RateSeries) Len() int {
	return len(rs.Stock)
}

// SimulationResult is one full projection. Cash through Spend are in real
// (month-0) dollars. The Nominal* series and the income and spend breakdown
// are nominal; divide by Deflator to convert.
type SimulationResult struct {
	Cash       []float64 `json:"cash"`
	Investment []float64 `json:"investment"`
	Total      []float64 `json:"total"`
	Income     []float64 `json:"income"`
	Spend      []float64 `json:"spend"`
	AgeSelf    []int     `json:"age_self"`
	AgeSpouse  []int     `json:"age_spouse"`

	NominalCash  []float64 `json:"nominal_cash"`
	NominalStock []float64 `json:"nominal_stock"`
	NominalBond  []float64 `json:"nominal_bond"`

	Contributions    []float64 `json:"contributions"`
	RetirementIncome []float64 `json:"retirement_income"`
	EssentialSpend   []float64 `json:"essential_spend"`
	LuxurySpend      []float64 `json:"luxury_spend"`
	AssistedSpend    []float64 `json:"assisted_spend"`
	StockRatio       []float64 `json:"stock_ratio"`
	Deflator         []float64 `json:"deflator"`

	Rates *RateSeries `json:"-"`
}

// Months returns the number of projected months
func (r *SimulationResult) Months() int {
	return len(r.Total)
}

// FinalTotal returns the real total balance in the last month, or 0 for an empty timeline
func (r *SimulationResult) FinalTotal() float64 {
	if r == nil || len(r.Total) == 0 {
		return 0
	}
	return r.Total[len(r.Total)-1]
}

// Ensemble is the set of bootstrap runs plus the historical-average baseline
type Ensemble struct {
	Members  []*SimulationResult `json:"-"`
	Baseline *SimulationResult   `json:"-"`
	Seeds    []int64             `json:"seeds"`
}

// Table returns the real total balance by month, one column per run with the baseline first
func (e *Ensemble) Table() [][]float64 {
	months := 0
	if e.Baseline != nil {
		months = e.Baseline.Months()
	} else if len(e.Members) > 0 {
		months = e.Members[0].Months()
	}
	table := make([][]float64, months)
	for i := range table {
		row := make([]float64, 0, len(e.Members)+1)
		if e.Baseline != nil {
			row = append(row, e.Baseline.Total[i])
		}
		for _, m := range e.Members {
			row = append(row, m.Total[i])
		}
		table[i] = row
	}
	return table
}

// PercentileBands holds per-month percentiles of the ensemble's real total balance
type PercentileBands struct {
	P10 []float64 `json:"p10"`
	P25 []float64 `json:"p25"`
	P50 []float64 `json:"p50"`
	P75 []float64 `json:"p75"`
	P90 []float64 `json:"p90"`
}

// Len returns the number of months covered
func (b *PercentileBands) Len() int {
	return len(b.P50)
}

// Forecast is the outcome of one engine pass
type Forecast struct {
	ID          string             `json:"id,omitempty"`
	Name        string             `json:"name,omitempty"`
	Mode        RateMode           `json:"mode"`
	GeneratedAt time.Time          `json:"generated_at"`
	Seed        int64              `json:"seed,omitempty"`
	Settings    SimulationSettings `json:"settings"`
	Parameters  ParameterSet       `json:"parameters"`
	Timeline    Timeline           `json:"timeline"`

	// Result is the single projection for fixed and historical modes
	Result *SimulationResult `json:"result,omitempty"`

	// Ensemble and Bands are set in bootstrap mode
	Ensemble *Ensemble        `json:"ensemble,omitempty"`
	Bands    *PercentileBands `json:"bands,omitempty"`

	// ExpectedFinal is the final-month median in bootstrap mode, or the single run's final total
	ExpectedFinal float64 `json:"expected_final"`
	BaselineFinal float64 `json:"baseline_final"`
}

// Primary returns the run used for per-month detail: the single result, or the bootstrap baseline
func (f *Forecast) Primary() *SimulationResult {
	if f.Result != nil {
		return f.Result
	}
	if f.Ensemble != nil {
		return f.Ensemble.Baseline
	}
	return nil
}

// Months returns the timeline length
func (f *Forecast) Months() int {
	return f.Timeline.Len()
}
