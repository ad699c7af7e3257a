package output

import (
	"time"

	"github.com/rpgo/household-forecast/internal/domain"
)

var fixtureStart = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

func fixtureResult(months int, base float64) *domain.SimulationResult {
	r := &domain.SimulationResult{}
	for i := 0; i < months; i++ {
		total := base + 1000*float64(i)
		r.Cash = append(r.Cash, 50000)
		r.Investment = append(r.Investment, total-50000)
		r.Total = append(r.Total, total)
		r.Income = append(r.Income, 4000)
		r.Spend = append(r.Spend, 8000)
		r.AgeSelf = append(r.AgeSelf, 45+i/12)
		r.AgeSpouse = append(r.AgeSpouse, 43+i/12)
		r.Contributions = append(r.Contributions, 10000)
		r.RetirementIncome = append(r.RetirementIncome, 0)
		r.AssistedSpend = append(r.AssistedSpend, 0)
		r.EssentialSpend = append(r.EssentialSpend, 8000)
		r.LuxurySpend = append(r.LuxurySpend, 0)
		r.Deflator = append(r.Deflator, 1)
	}
	return r
}

func fixtureTimeline(months int) domain.Timeline {
	tl := domain.Timeline{Start: fixtureStart}
	for i := 0; i < months; i++ {
		tl.Dates = append(tl.Dates, fixtureStart.AddDate(0, 0, 30*i))
	}
	return tl
}

func fixedForecast(months int) *domain.Forecast {
	r := fixtureResult(months, 1_200_000)
	return &domain.Forecast{
		Name:          "Test Household",
		Mode:          domain.RateModeFixed,
		GeneratedAt:   fixtureStart,
		Timeline:      fixtureTimeline(months),
		Result:        r,
		ExpectedFinal: r.FinalTotal(),
		BaselineFinal: r.FinalTotal(),
	}
}

func bootstrapForecast(months int) *domain.Forecast {
	baseline := fixtureResult(months, 1_000_000)
	members := []*domain.SimulationResult{
		fixtureResult(months, 900_000),
		fixtureResult(months, 1_100_000),
		fixtureResult(months, 1_300_000),
	}
	bands := &domain.PercentileBands{}
	for i := 0; i < months; i++ {
		bands.P10 = append(bands.P10, members[0].Total[i])
		bands.P25 = append(bands.P25, members[0].Total[i]+50_000)
		bands.P50 = append(bands.P50, members[1].Total[i])
		bands.P75 = append(bands.P75, members[2].Total[i]-50_000)
		bands.P90 = append(bands.P90, members[2].Total[i])
	}
	return &domain.Forecast{
		Mode:          domain.RateModeBootstrap,
		GeneratedAt:   fixtureStart,
		Seed:          42,
		Timeline:      fixtureTimeline(months),
		Ensemble:      &domain.Ensemble{Members: members, Baseline: baseline, Seeds: []int64{1, 2, 3}},
		Bands:         bands,
		ExpectedFinal: bands.P50[months-1],
		BaselineFinal: baseline.FinalTotal(),
	}
}
