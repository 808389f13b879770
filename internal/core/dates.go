package core

import (
	"time"
)

// Date returns t truncated to a calendar date (midnight UTC). All date
// arithmetic in this package operates on values normalized this way.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf normalizes an arbitrary time to its calendar date.
func DateOf(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// DaysBetween returns whole calendar days from one date to another.
// Negative when to precedes from.
func DaysBetween(from, to time.Time) int {
	return int(DateOf(to).Sub(DateOf(from)).Hours() / 24)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysInMonthOf returns the number of days in the month containing t.
func DaysInMonthOf(t time.Time) int {
	return DaysInMonth(t.Year(), t.Month())
}

// WeekdayMonday0 converts Go's Sunday=0 weekday to the Monday=0
// convention used by recurring gig patterns.
func WeekdayMonday0(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
