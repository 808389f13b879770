package core

import (
	"fmt"
	"time"
)

// Occurrences returns every date a recurring gig fires within
// [start, end] inclusive, in ascending order. The window is first
// intersected with the gig's own StartDate/EndDate bounds; an empty
// intersection yields an empty, non-error result. A pattern missing a
// field its type requires returns a descriptive error.
func Occurrences(gig RecurringGig, start, end time.Time) ([]time.Time, error) {
	start = DateOf(start)
	end = DateOf(end)

	effectiveStart := start
	if gig.StartDate.After(effectiveStart) {
		effectiveStart = DateOf(gig.StartDate)
	}
	effectiveEnd := end
	if gig.EndDate != nil && gig.EndDate.Before(effectiveEnd) {
		effectiveEnd = DateOf(*gig.EndDate)
	}
	if effectiveStart.After(effectiveEnd) {
		return nil, nil
	}

	switch gig.Pattern {
	case PatternWeekly:
		if gig.DayOfWeek == nil {
			return nil, fmt.Errorf("occurrences: weekly pattern missing day of week")
		}
		return weeklyOccurrences(DateOf(gig.StartDate), *gig.DayOfWeek, effectiveStart, effectiveEnd, 1), nil
	case PatternBiweekly:
		if gig.DayOfWeek == nil {
			return nil, fmt.Errorf("occurrences: biweekly pattern missing day of week")
		}
		return weeklyOccurrences(DateOf(gig.StartDate), *gig.DayOfWeek, effectiveStart, effectiveEnd, 2), nil
	case PatternMonthlyDate:
		if gig.DayOfMonth == nil {
			return nil, fmt.Errorf("occurrences: monthly_date pattern missing day of month")
		}
		return monthlyDateOccurrences(*gig.DayOfMonth, effectiveStart, effectiveEnd), nil
	case PatternMonthlyOrdinal:
		if gig.Ordinal == nil {
			return nil, fmt.Errorf("occurrences: monthly_ordinal pattern missing ordinal")
		}
		if gig.DayOfWeek == nil {
			return nil, fmt.Errorf("occurrences: monthly_ordinal pattern missing day of week")
		}
		return monthlyOrdinalOccurrences(*gig.Ordinal, *gig.DayOfWeek, effectiveStart, effectiveEnd), nil
	case PatternCustom:
		if gig.DayOfWeek == nil {
			return nil, fmt.Errorf("occurrences: custom pattern missing day of week")
		}
		if gig.IntervalWeeks == nil || *gig.IntervalWeeks <= 0 {
			return nil, fmt.Errorf("occurrences: custom pattern missing interval weeks")
		}
		return weeklyOccurrences(DateOf(gig.StartDate), *gig.DayOfWeek, effectiveStart, effectiveEnd, *gig.IntervalWeeks), nil
	default:
		return nil, fmt.Errorf("occurrences: unknown pattern type %q", gig.Pattern)
	}
}

// weeklyOccurrences walks the arithmetic progression anchor + n*interval
// weeks, restricted to [start, end]. The anchor occurrence is the first
// date on or after patternStart that falls on dayOfWeek (Monday=0).
func weeklyOccurrences(patternStart time.Time, dayOfWeek int, start, end time.Time, interval int) []time.Time {
	daysUntil := (dayOfWeek - WeekdayMonday0(patternStart) + 7) % 7
	first := patternStart.AddDate(0, 0, daysUntil)

	current := first
	if start.After(first) {
		// Jump near the window instead of iterating from the anchor.
		// Truncation can land one interval short, so advance afterward.
		weeksElapsed := DaysBetween(first, start) / 7
		intervalsElapsed := weeksElapsed / interval
		current = first.AddDate(0, 0, intervalsElapsed*interval*7)
		for current.Before(start) {
			current = current.AddDate(0, 0, interval*7)
		}
	}

	var out []time.Time
	for !current.After(end) {
		if !current.Before(start) {
			out = append(out, current)
		}
		current = current.AddDate(0, 0, interval*7)
	}
	return out
}

// monthStarts returns the first day of each month from the month
// containing start through the month containing end.
func monthStarts(start, end time.Time) []time.Time {
	var out []time.Time
	current := Date(start.Year(), start.Month(), 1)
	for !current.After(end) {
		out = append(out, current)
		current = current.AddDate(0, 1, 0)
	}
	return out
}

// monthlyDateOccurrences emits dayOfMonth in every month of the window,
// clamped to the month's last day when the month is short.
func monthlyDateOccurrences(dayOfMonth int, start, end time.Time) []time.Time {
	var out []time.Time
	for _, monthStart := range monthStarts(start, end) {
		day := dayOfMonth
		if last := DaysInMonthOf(monthStart); day > last {
			day = last
		}
		occurrence := Date(monthStart.Year(), monthStart.Month(), day)
		if !occurrence.Before(start) && !occurrence.After(end) {
			out = append(out, occurrence)
		}
	}
	return out
}

// monthlyOrdinalOccurrences emits the nth weekday of every month in the
// window. Months without an nth occurrence contribute nothing.
func monthlyOrdinalOccurrences(ordinal, dayOfWeek int, start, end time.Time) []time.Time {
	var out []time.Time
	for _, monthStart := range monthStarts(start, end) {
		occurrence, ok := NthWeekdayOfMonth(ordinal, dayOfWeek, monthStart)
		if !ok {
			continue
		}
		if !occurrence.Before(start) && !occurrence.After(end) {
			out = append(out, occurrence)
		}
	}
	return out
}

// NthWeekdayOfMonth returns the nth occurrence (1-5) of dayOfWeek
// (Monday=0) in the month containing monthStart. ok is false when the
// month has no such occurrence, e.g. a 5th Friday in a 4-Friday month.
func NthWeekdayOfMonth(ordinal, dayOfWeek int, monthStart time.Time) (time.Time, bool) {
	firstDay := Date(monthStart.Year(), monthStart.Month(), 1)
	daysUntil := (dayOfWeek - WeekdayMonday0(firstDay) + 7) % 7
	firstOccurrence := firstDay.AddDate(0, 0, daysUntil)

	target := firstOccurrence.AddDate(0, 0, (ordinal-1)*7)
	if target.Month() != monthStart.Month() {
		return time.Time{}, false
	}
	return target, true
}
