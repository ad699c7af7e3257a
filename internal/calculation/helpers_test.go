package calculation

import (
	"testing"
	"time"

	"github.com/rpgo/household-forecast/internal/domain"
	"github.com/shopspring/decimal"
)

var testNow = time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)

// pinClock fixes the projection start for the duration of the test
func pinClock(t *testing.T) time.Time {
	t.Helper()
	prev := nowFunc
	SetNowFunc(func() time.Time { return testNow })
	t.Cleanup(func() { SetNowFunc(prev) })
	return testNow
}

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func money(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// concreteScenario is the reference household: both born 1980, retiring in
// 15 years, contributions exceeding essential spend.
func concreteScenario() *domain.ParameterSet {
	person := domain.Person{
		BirthDate:           d(1980, 1, 1),
		LifeExpectancy:      95,
		RetirementDate:      testNow.AddDate(15, 0, 0),
		AssistedLivingAge:   90,
		MonthlyContribution: money(5000),
	}
	return &domain.ParameterSet{
		Self:   person,
		Spouse: person,
		Household: domain.Household{
			EssentialSpend:      money(8000),
			CurrentCash:         money(200000),
			CurrentInvestment:   money(1000000),
			CashSetPoint:        money(50000),
			StockAllocationPre:  money(0.8),
			StockAllocationPost: money(0.5),
		},
		Rates: domain.RateAssumptions{
			Mode:          domain.RateModeFixed,
			InflationRate: money(0.02),
			StockReturn:   money(0.11),
			BondReturn:    money(0.045),
			CashReturn:    money(0.02),
		},
	}
}

// sampleTable is a small table with good and bad years
func sampleTable() *domain.HistoricalReturnsTable {
	return &domain.HistoricalReturnsTable{Source: "test", Rows: []domain.ReturnRow{
		{Year: 2000, Stocks: -0.091, Bonds: 0.168, Cash: 0.058, Inflation: 0.034},
		{Year: 2001, Stocks: -0.119, Bonds: 0.056, Cash: 0.034, Inflation: 0.016},
		{Year: 2002, Stocks: -0.221, Bonds: 0.151, Cash: 0.016, Inflation: 0.024},
		{Year: 2003, Stocks: 0.287, Bonds: 0.004, Cash: 0.010, Inflation: 0.019},
		{Year: 2004, Stocks: 0.109, Bonds: 0.045, Cash: 0.014, Inflation: 0.033},
		{Year: 2005, Stocks: 0.049, Bonds: 0.029, Cash: 0.032, Inflation: 0.034},
		{Year: 2006, Stocks: 0.158, Bonds: 0.020, Cash: 0.047, Inflation: 0.025},
		{Year: 2007, Stocks: 0.055, Bonds: 0.102, Cash: 0.044, Inflation: 0.041},
		{Year: 2008, Stocks: -0.370, Bonds: 0.201, Cash: 0.014, Inflation: 0.001},
		{Year: 2009, Stocks: 0.265, Bonds: -0.111, Cash: 0.002, Inflation: 0.027},
	}}
}

// constantRates builds a series with the same monthly rates every month
func constantRates(months int, stock, bond, cash, inflation float64) *domain.RateSeries {
	return constantSeries(domain.RateModeFixed, AnnualRates{Stock: stock, Bond: bond, Cash: cash, Inflation: inflation}, months)
}
