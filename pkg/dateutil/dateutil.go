package dateutil

import (
	"time"
)

// DaysPerStep is the fixed length of one projection month.
const DaysPerStep = 30

// DaysPerAgeYear is the year length used by the age approximation.
const DaysPerAgeYear = 365

// StartOfDay returns the UTC calendar date of t at midnight.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole number of calendar days from one date to another.
// The result is negative when to is before from.
func DaysBetween(from, to time.Time) int {
	return int(StartOfDay(to).Sub(StartOfDay(from)).Hours() / 24)
}

// AgeOnDate approximates age in whole years as floor(days / 365).
// It drifts by roughly a day every four years, which callers accept.
func AgeOnDate(birthDate, atDate time.Time) int {
	return floorDiv(DaysBetween(birthDate, atDate), DaysPerAgeYear)
}

// AddYears adds a specified number of years to a date
func AddYears(date time.Time, years int) time.Time {
	return date.AddDate(years, 0, 0)
}

// MonthsBetween counts calendar month boundaries between two dates, ignoring the day.
func MonthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

// StepDates returns n dates spaced DaysPerStep days apart, starting at start.
func StepDates(start time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	start = StartOfDay(start)
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, DaysPerStep*i)
	}
	return dates
}

// Latest returns the later of two dates.
func Latest(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
