package metrics

import "time"

// ComputeWeekNumber returns the ISO-8601 week of date.
func ComputeWeekNumber(date time.Time) int {
	_, week := date.ISOWeek()
	return week
}

// ComputeWeek returns the ISO-8601 year and week of date. The year differs
// from the calendar year for days at the edges of the year.
func ComputeWeek(date time.Time) (year, week int) {
	return date.ISOWeek()
}
