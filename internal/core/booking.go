package core

import (
	"time"
)

// IsBookingWindowOpen reports whether today's day of month falls inside
// the venue's booking window. A window whose start exceeds its end
// wraps across month-end (e.g. the 25th through the 5th).
func IsBookingWindowOpen(venue Venue, today time.Time) bool {
	if venue.BookingWindowStart == nil {
		return false
	}

	currentDay := today.Day()
	startDay := *venue.BookingWindowStart
	endDay := startDay
	if venue.BookingWindowEnd != nil {
		endDay = *venue.BookingWindowEnd
	}

	if startDay <= endDay {
		return startDay <= currentDay && currentDay <= endDay
	}
	return currentDay >= startDay || currentDay <= endDay
}

// DaysUntilBookingWindow returns days until the booking window opens.
// ok is false when no window is configured or the window is already
// open. When the start day has passed this month, the wrap uses the
// current month's length for the remainder term even if the next month
// is shorter or longer; that approximation is intentional.
func DaysUntilBookingWindow(venue Venue, today time.Time) (int, bool) {
	if venue.BookingWindowStart == nil {
		return 0, false
	}
	if IsBookingWindowOpen(venue, today) {
		return 0, false
	}

	currentDay := today.Day()
	startDay := *venue.BookingWindowStart

	if currentDay < startDay {
		return startDay - currentDay, true
	}
	daysLeftInMonth := DaysInMonthOf(today) - currentDay
	return daysLeftInMonth + startDay, true
}
