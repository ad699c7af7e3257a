package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/rpgo/household-forecast/internal/domain"
)

// MonthlyCSVFormatter exports the primary run month by month in today's
// dollars, rounded to whole dollars.
type MonthlyCSVFormatter struct{}

func (c MonthlyCSVFormatter) Name() string      { return "monthly-csv" }
func (c MonthlyCSVFormatter) Extension() string { return "csv" }

var monthlyHeader = []string{"Date", "Investment", "Cash", "Total", "Spend", "Income", "Age Self", "Age Spouse", "Savings", "Retirement Income", "Assisted"}

func (c MonthlyCSVFormatter) Format(forecast *domain.Forecast) ([]byte, error) {
	if forecast == nil {
		return nil, fmt.Errorf("monthly csv: nil forecast")
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(monthlyHeader); err != nil {
		return nil, err
	}
	r := forecast.Primary()
	if r != nil {
		for i := 0; i < r.Months() && i < forecast.Months(); i++ {
			row := []string{
				forecast.Timeline.Dates[i].Format("2006-01-02"),
				dollars(r.Investment[i]),
				dollars(r.Cash[i]),
				dollars(r.Total[i]),
				dollars(r.Spend[i]),
				dollars(r.Income[i]),
				strconv.Itoa(r.AgeSelf[i]),
				strconv.Itoa(r.AgeSpouse[i]),
				dollars(realValue(r, r.Contributions, i)),
				dollars(realValue(r, r.RetirementIncome, i)),
				dollars(realValue(r, r.AssistedSpend, i)),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// PercentileCSVFormatter exports the per-month distribution of the real total
// balance: the historical-average baseline next to the ensemble percentiles.
// Single-run modes leave the percentile cells empty.
type PercentileCSVFormatter struct{}

func (c PercentileCSVFormatter) Name() string      { return "percentile-csv" }
func (c PercentileCSVFormatter) Extension() string { return "csv" }

var percentileHeader = []string{"Month", "Date", "Historical", "P10", "P25", "P50", "P75", "P90"}

func (c PercentileCSVFormatter) Format(forecast *domain.Forecast) ([]byte, error) {
	if forecast == nil {
		return nil, fmt.Errorf("percentile csv: nil forecast")
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(percentileHeader); err != nil {
		return nil, err
	}
	primary := forecast.Primary()
	bands := forecast.Bands
	for i := 0; i < forecast.Months(); i++ {
		row := make([]string, len(percentileHeader))
		row[0] = strconv.Itoa(i)
		row[1] = forecast.Timeline.Dates[i].Format("2006-01-02")
		if primary != nil && i < primary.Months() {
			row[2] = dollars(primary.Total[i])
		}
		if bands != nil && i < bands.Len() {
			row[3] = dollars(bands.P10[i])
			row[4] = dollars(bands.P25[i])
			row[5] = dollars(bands.P50[i])
			row[6] = dollars(bands.P75[i])
			row[7] = dollars(bands.P90[i])
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
