package calculation

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rpgo/household-forecast/internal/domain"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// HistoricalColumns lists the return columns every table must carry, in display order
var HistoricalColumns = []string{"stocks", "bonds", "cash", "inflation"}

// HistoricalStatistics provides statistical summary of one table column
type HistoricalStatistics struct {
	Column        string  `json:"column"`
	Mean          float64 `json:"mean"`
	GeometricMean float64 `json:"geometric_mean"`
	Median        float64 `json:"median"`
	StdDev        float64 `json:"std_dev"`
	Min           float64 `json:"min"`
	Max           float64 `json:"max"`
	Count         int     `json:"count"`
	MissingYears  []int   `json:"missing_years,omitempty"`
}

// HistoricalDataManager loads historical return tables relative to a data directory.
// Loaded tables are cached per absolute path for the life of the process.
type HistoricalDataManager struct {
	DataPath string
}

// NewHistoricalDataManager creates a new historical data manager
func NewHistoricalDataManager(dataPath string) *HistoricalDataManager {
	return &HistoricalDataManager{DataPath: dataPath}
}

var tableCache = struct {
	mu     sync.Mutex
	tables map[string]*domain.HistoricalReturnsTable
}{tables: make(map[string]*domain.HistoricalReturnsTable)}

// Load resolves name against DataPath (absolute names are used as is) and loads the table
func (hdm *HistoricalDataManager) Load(name string) (*domain.HistoricalReturnsTable, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: no historical returns file configured", domain.ErrMissingHistoricalData)
	}
	path := name
	if !filepath.IsAbs(path) && hdm.DataPath != "" {
		path = filepath.Join(hdm.DataPath, name)
	}
	return LoadHistoricalReturns(path)
}

// LoadHistoricalReturns reads a returns CSV, reusing the cached table when the path was loaded before
func LoadHistoricalReturns(path string) (*domain.HistoricalReturnsTable, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	tableCache.mu.Lock()
	defer tableCache.mu.Unlock()
	if t, ok := tableCache.tables[abs]; ok {
		return t, nil
	}

	file, err := os.Open(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrMissingHistoricalData, path, err)
		}
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	table, err := ParseHistoricalReturns(file, path)
	if err != nil {
		return nil, err
	}
	tableCache.tables[abs] = table
	return table, nil
}

// ParseHistoricalReturns reads a CSV with a Year column and the four return columns.
// Headers are matched case-insensitively in any order; every cell must hold a number.
func ParseHistoricalReturns(r io.Reader, source string) (*domain.HistoricalReturnsTable, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s is empty", domain.ErrMissingHistoricalData, source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := map[string]int{}
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	required := append([]string{"year"}, HistoricalColumns...)
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("invalid CSV format in %s: missing column %q", source, col)
		}
	}

	table := &domain.HistoricalReturnsTable{Source: source}
	seen := map[int]bool{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read data row: %w", err)
		}

		cell := func(col string) (string, error) {
			v := strings.TrimSpace(record[index[col]])
			if v == "" {
				return "", fmt.Errorf("%s line %d: missing %s value", source, line, col)
			}
			return v, nil
		}

		yearText, err := cell("year")
		if err != nil {
			return nil, err
		}
		year, err := strconv.Atoi(yearText)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid year %q", source, line, yearText)
		}
		if seen[year] {
			return nil, fmt.Errorf("%s line %d: duplicate year %d", source, line, year)
		}
		seen[year] = true

		values := make([]float64, len(HistoricalColumns))
		for i, col := range HistoricalColumns {
			text, err := cell(col)
			if err != nil {
				return nil, err
			}
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: invalid %s value %q", source, line, col, text)
			}
			if err := domain.CheckAnnualRate(v); err != nil {
				return nil, fmt.Errorf("%s line %d: %s: %w", source, line, col, err)
			}
			values[i] = v
		}

		table.Rows = append(table.Rows, domain.ReturnRow{
			Year:      year,
			Stocks:    values[0],
			Bonds:     values[1],
			Cash:      values[2],
			Inflation: values[3],
		})
	}

	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("%w: no data rows in %s", domain.ErrMissingHistoricalData, source)
	}

	sort.SliceStable(table.Rows, func(i, j int) bool { return table.Rows[i].Year < table.Rows[j].Year })
	return table, nil
}

// CalculateStatistics summarizes every return column of the table
func CalculateStatistics(table *domain.HistoricalReturnsTable) []HistoricalStatistics {
	if table.Len() == 0 {
		return nil
	}
	missing := missingYears(table)

	out := make([]HistoricalStatistics, 0, len(HistoricalColumns))
	for _, col := range HistoricalColumns {
		values := table.Column(col)
		growth := make([]float64, len(values))
		for i, v := range values {
			growth[i] = 1 + v
		}
		mean, std := stat.MeanStdDev(values, nil)
		if len(values) < 2 {
			std = 0
		}
		out = append(out, HistoricalStatistics{
			Column:        col,
			Mean:          mean,
			GeometricMean: stat.GeometricMean(growth, nil) - 1,
			Median:        Percentile(values, 0.5),
			StdDev:        std,
			Min:           floats.Min(values),
			Max:           floats.Max(values),
			Count:         len(values),
			MissingYears:  missing,
		})
	}
	return out
}

// missingYears lists gaps between the first and last year of a sorted table
func missingYears(table *domain.HistoricalReturnsTable) []int {
	var gaps []int
	for i := 1; i < len(table.Rows); i++ {
		for y := table.Rows[i-1].Year + 1; y < table.Rows[i].Year; y++ {
			gaps = append(gaps, y)
		}
	}
	return gaps
}

// ValidateDataQuality reports gaps and extreme values that a loaded table still permits
func ValidateDataQuality(table *domain.HistoricalReturnsTable) []string {
	if table.Len() == 0 {
		return nil
	}
	var issues []string
	if gaps := missingYears(table); len(gaps) > 0 {
		issues = append(issues, fmt.Sprintf("Missing years: %v", gaps))
	}
	for _, row := range table.Rows {
		if row.Stocks > 1 {
			issues = append(issues, fmt.Sprintf("Extreme positive stock return for year %d: %.4f", row.Year, row.Stocks))
		}
		if row.Stocks < -0.5 {
			issues = append(issues, fmt.Sprintf("Extreme negative stock return for year %d: %.4f", row.Year, row.Stocks))
		}
		if row.Inflation < -0.2 || row.Inflation > 0.3 {
			issues = append(issues, fmt.Sprintf("Extreme inflation for year %d: %.4f", row.Year, row.Inflation))
		}
	}
	return issues
}
