package calculation

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rpgo/household-forecast/internal/domain"
)

const testReturnsCSV = `Inflation,Year,STOCKS,Bonds,Cash
0.016,2001,-0.119,0.056,0.034
0.034,2000,-0.091,0.168,0.058
0.024,2002,-0.221,0.151,0.016
`

func writeCSV(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestParseHistoricalReturns(t *testing.T) {
	table, err := ParseHistoricalReturns(strings.NewReader(testReturnsCSV), "inline")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	if table.Len() != 3 {
		t.Fatalf("Expected 3 rows, got %d", table.Len())
	}
	if table.Rows[0].Year != 2000 || table.Rows[2].Year != 2002 {
		t.Errorf("Rows should be sorted by year, got %d..%d", table.Rows[0].Year, table.Rows[2].Year)
	}
	if table.Rows[0].Stocks != -0.091 || table.Rows[0].Inflation != 0.034 {
		t.Errorf("Columns matched by header name incorrectly: %+v", table.Rows[0])
	}
	if table.Source != "inline" {
		t.Errorf("Expected source to be recorded, got %q", table.Source)
	}
}

func TestParseHistoricalReturnsRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantErr error
		wantMsg string
	}{
		{"empty file", "", domain.ErrMissingHistoricalData, "empty"},
		{"header only", "Year,Stocks,Bonds,Cash,Inflation\n", domain.ErrMissingHistoricalData, "no data rows"},
		{"missing column", "Year,Stocks,Bonds,Cash\n2000,0.1,0.1,0.1\n", nil, `missing column "inflation"`},
		{"missing value", "Year,Stocks,Bonds,Cash,Inflation\n2000,0.1,,0.01,0.02\n", nil, "line 2: missing bonds value"},
		{"bad number", "Year,Stocks,Bonds,Cash,Inflation\n2000,abc,0.1,0.01,0.02\n", nil, `invalid stocks value "abc"`},
		{"duplicate year", "Year,Stocks,Bonds,Cash,Inflation\n2000,0.1,0.1,0.01,0.02\n2000,0.1,0.1,0.01,0.02\n", nil, "duplicate year 2000"},
		{"total loss", "Year,Stocks,Bonds,Cash,Inflation\n2000,-1,0.1,0.01,0.02\n", domain.ErrInvalidRate, "stocks"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHistoricalReturns(strings.NewReader(tt.csv), "test.csv")
			if err == nil {
				t.Fatal("Expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Expected message containing %q, got %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func TestLoadHistoricalReturnsCachesByPath(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "returns.csv", testReturnsCSV)

	first, err := LoadHistoricalReturns(path)
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}

	// A rewritten file is not re-read within the process.
	writeCSV(t, dir, "returns.csv", "Year,Stocks,Bonds,Cash,Inflation\n1999,0.2,0.1,0.05,0.02\n")
	second, err := NewHistoricalDataManager(dir).Load("returns.csv")
	if err != nil {
		t.Fatalf("Failed to load through manager: %v", err)
	}
	if first != second {
		t.Error("Expected the cached table to be returned")
	}
}

func TestLoadHistoricalReturnsMissingFile(t *testing.T) {
	_, err := LoadHistoricalReturns(filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, domain.ErrMissingHistoricalData) {
		t.Errorf("Expected ErrMissingHistoricalData, got %v", err)
	}

	_, err = NewHistoricalDataManager("").Load("")
	if !errors.Is(err, domain.ErrMissingHistoricalData) {
		t.Errorf("Expected ErrMissingHistoricalData for an empty name, got %v", err)
	}
}

func TestCalculateStatistics(t *testing.T) {
	table := &domain.HistoricalReturnsTable{Rows: []domain.ReturnRow{
		{Year: 2000, Stocks: 0.10, Bonds: 0.02, Cash: 0.01, Inflation: 0.03},
		{Year: 2001, Stocks: -0.20, Bonds: 0.04, Cash: 0.01, Inflation: 0.01},
		{Year: 2004, Stocks: 0.40, Bonds: 0.06, Cash: 0.01, Inflation: 0.02},
	}}
	stats := CalculateStatistics(table)
	if len(stats) != 4 {
		t.Fatalf("Expected 4 columns, got %d", len(stats))
	}

	s := stats[0]
	if s.Column != "stocks" || s.Count != 3 {
		t.Fatalf("Unexpected first column: %+v", s)
	}
	if math.Abs(s.Mean-0.10) > 1e-12 || math.Abs(s.Median-0.10) > 1e-12 {
		t.Errorf("Expected mean and median 0.10, got %v and %v", s.Mean, s.Median)
	}
	if s.Min != -0.20 || s.Max != 0.40 {
		t.Errorf("Expected min -0.20 and max 0.40, got %v and %v", s.Min, s.Max)
	}
	if math.Abs(s.StdDev-0.3) > 1e-12 {
		t.Errorf("Expected sample standard deviation 0.3, got %v", s.StdDev)
	}
	wantGeo := math.Cbrt(1.1*0.8*1.4) - 1
	if math.Abs(s.GeometricMean-wantGeo) > 1e-12 {
		t.Errorf("Expected geometric mean %v, got %v", wantGeo, s.GeometricMean)
	}
	if len(s.MissingYears) != 2 || s.MissingYears[0] != 2002 || s.MissingYears[1] != 2003 {
		t.Errorf("Expected missing years [2002 2003], got %v", s.MissingYears)
	}

	if CalculateStatistics(nil) != nil {
		t.Error("Expected no statistics for a nil table")
	}
}

func TestValidateDataQuality(t *testing.T) {
	table := &domain.HistoricalReturnsTable{Rows: []domain.ReturnRow{
		{Year: 1931, Stocks: -0.62, Bonds: 0.02, Cash: 0.01, Inflation: -0.09},
		{Year: 1933, Stocks: 1.2, Bonds: 0.02, Cash: 0.01, Inflation: 0.01},
	}}
	issues := ValidateDataQuality(table)
	if len(issues) != 3 {
		t.Fatalf("Expected 3 issues, got %d: %v", len(issues), issues)
	}
	if !strings.Contains(issues[0], "1932") {
		t.Errorf("Expected the gap year to be reported first, got %q", issues[0])
	}

	if got := ValidateDataQuality(sampleTable()); len(got) != 0 {
		t.Errorf("Expected a clean sample table, got %v", got)
	}
}
