package core

import (
	"time"
)

// Point values for the venue priority score. The score is additive and
// uncapped: a venue with several simultaneous issues can exceed 100.
const (
	pointsFirstOverdue   = 35
	pointsExtraOverdue   = 15
	pointsFirstInvoice   = 30
	pointsExtraInvoice   = 10
	pointsWindowOpen     = 25
	pointsWindowImminent = 20
	pointsWindowSoon     = 10
	pointsNoUpcoming     = 10
	pointsFewUpcoming    = 5
	pointsStaleContact   = 5
	pointsAgingContact   = 3
	windowImminentDays   = 3
	windowSoonDays       = 7
	lowUpcomingShowCount = 2
	scoreRedThreshold    = 50
	scoreYellowThreshold = 25
)

// Section is a smart-report bucket. A venue lands in at most one.
type Section string

const (
	SectionGetPaid     Section = "GET_PAID"
	SectionBookShows   Section = "BOOK_SHOWS"
	SectionStayInTouch Section = "STAY_IN_TOUCH"
)

// Score computes the venue's priority score for a given day. Higher
// means the venue needs attention sooner. All sub-scores observe the
// same today value, so callers should capture it once per pass.
func Score(venue Venue, today time.Time) int {
	today = DateOf(today)
	score := 0

	// Payment issues.
	overdue := 0
	for _, show := range venue.Shows {
		if show.PaymentStatus == PaymentPending && DaysBetween(show.Date, today) >= OverdueDays {
			overdue++
		}
	}
	if overdue > 0 {
		score += pointsFirstOverdue + pointsExtraOverdue*(overdue-1)
	}

	pendingInvoices := 0
	for _, show := range venue.Shows {
		if NeedsInvoice(show, venue, today) {
			pendingInvoices++
		}
	}
	if pendingInvoices > 0 {
		score += pointsFirstInvoice + pointsExtraInvoice*(pendingInvoices-1)
	}

	// Booking opportunities.
	if IsBookingWindowOpen(venue, today) {
		score += pointsWindowOpen
	} else if days, ok := DaysUntilBookingWindow(venue, today); ok {
		if days <= windowImminentDays {
			score += pointsWindowImminent
		} else if days <= windowSoonDays {
			score += pointsWindowSoon
		}
	}

	switch upcoming := upcomingShowCount(venue, today); {
	case upcoming == 0:
		score += pointsNoUpcoming
	case upcoming <= lowUpcomingShowCount:
		score += pointsFewUpcoming
	}

	// Contact reminders.
	if !SuppressContactReminder(venue, today) {
		days, contacted := DaysSinceContact(venue, today)
		if !contacted || days >= ContactStaleDays {
			score += pointsStaleContact
		} else if days >= ContactReminderDays {
			score += pointsAgingContact
		}
	}

	return score
}

func upcomingShowCount(venue Venue, today time.Time) int {
	count := 0
	for _, show := range venue.Shows {
		if !DateOf(show.Date).Before(DateOf(today)) && !show.IsCancelled {
			count++
		}
	}
	return count
}

// HasPaymentIssues reports whether any show is overdue or still needs
// an invoice.
func HasPaymentIssues(venue Venue, today time.Time) bool {
	for _, show := range venue.Shows {
		if show.PaymentStatus != PaymentPending || !DateOf(show.Date).Before(DateOf(today)) {
			continue
		}
		if DaysBetween(show.Date, today) >= OverdueDays {
			return true
		}
		if NeedsInvoice(show, venue, today) {
			return true
		}
	}
	return false
}

// HasBookingOpportunity reports whether the venue is worth pitching:
// the booking window is open or opens within a week, or few shows are
// on the calendar.
func HasBookingOpportunity(venue Venue, today time.Time) bool {
	if IsBookingWindowOpen(venue, today) {
		return true
	}
	if days, ok := DaysUntilBookingWindow(venue, today); ok && days <= windowSoonDays {
		return true
	}
	return upcomingShowCount(venue, today) <= lowUpcomingShowCount
}

// sectionRules is the classification chain, evaluated in priority
// order until the first match.
var sectionRules = []struct {
	section Section
	match   func(Venue, time.Time) bool
}{
	{SectionGetPaid, HasPaymentIssues},
	{SectionBookShows, HasBookingOpportunity},
	{SectionStayInTouch, NeedsContact},
}

// Classify assigns the venue to its primary report section. ok is
// false when the venue should not appear at all: a zero score, or a
// score accumulated from minor factors with no dominant reason.
func Classify(venue Venue, score int, today time.Time) (Section, bool) {
	if score == 0 {
		return "", false
	}
	for _, rule := range sectionRules {
		if rule.match(venue, today) {
			return rule.section, true
		}
	}
	return "", false
}

// ScoreColor returns the display tier for a score.
func ScoreColor(score int) Color {
	switch {
	case score >= scoreRedThreshold:
		return ColorRed
	case score >= scoreYellowThreshold:
		return ColorYellow
	default:
		return ColorGreen
	}
}
