package calculation

import (
	"sort"
	"time"

	"github.com/rpgo/household-forecast/internal/domain"
	"github.com/rpgo/household-forecast/pkg/dateutil"
)

// BuildTimeline returns the projection dates from start until the later of the
// two life-expectancy dates, one every 30 days.
func BuildTimeline(params *domain.ParameterSet, start time.Time) domain.Timeline {
	start = dateutil.StartOfDay(start)
	final := dateutil.Latest(params.Self.EndDate(), params.Spouse.EndDate())
	months := dateutil.MonthsBetween(start, final)
	if months < 0 {
		months = 0
	}
	return domain.Timeline{
		Start: start,
		Dates: dateutil.StepDates(start, months),
	}
}

// MonthIndex returns the first timeline index whose date is on or after d.
// Dates past the end of the timeline map to Len().
func MonthIndex(tl domain.Timeline, d time.Time) int {
	d = dateutil.StartOfDay(d)
	return sort.Search(len(tl.Dates), func(i int) bool {
		return !tl.Dates[i].Before(d)
	})
}

// AgeSeries returns the approximate age on every timeline date.
func AgeSeries(tl domain.Timeline, birthDate time.Time) []int {
	ages := make([]int, len(tl.Dates))
	for i, d := range tl.Dates {
		ages[i] = dateutil.AgeOnDate(birthDate, d)
	}
	return ages
}

// firstAgeIndex returns the first index whose age is at least minAge; ages never decrease.
func firstAgeIndex(ages []int, minAge int) int {
	return sort.SearchInts(ages, minAge)
}
