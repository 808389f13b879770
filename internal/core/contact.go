package core

import (
	"time"
)

// Suppression and staleness thresholds for contact reminders.
const (
	AwaitingResponseDays = 14
	ContactReminderDays  = 60
	ContactStaleDays     = 90
)

// LastContactDate returns the most recent contact date for a venue,
// regardless of outcome. ok is false when the venue was never contacted.
func LastContactDate(venue Venue) (time.Time, bool) {
	var latest time.Time
	found := false
	for _, log := range venue.ContactLogs {
		d := DateOf(log.ContactedAt)
		if !found || d.After(latest) {
			latest = d
			found = true
		}
	}
	return latest, found
}

// DaysSinceContact returns days since the most recent contact. ok is
// false when the venue was never contacted.
func DaysSinceContact(venue Venue, today time.Time) (int, bool) {
	latest, ok := LastContactDate(venue)
	if !ok {
		return 0, false
	}
	return DaysBetween(latest, today), true
}

// SuppressContactReminder reports whether contact reminders should be
// silenced: an awaiting_response outcome within the last 14 days, or
// any follow-up scheduled strictly in the future.
func SuppressContactReminder(venue Venue, today time.Time) bool {
	today = DateOf(today)
	for _, log := range venue.ContactLogs {
		if log.Outcome != nil && *log.Outcome == OutcomeAwaitingResponse {
			if DaysBetween(log.ContactedAt, today) < AwaitingResponseDays {
				return true
			}
		}
		if log.FollowUpDate != nil && DateOf(*log.FollowUpDate).After(today) {
			return true
		}
	}
	return false
}

// NeedsContact reports whether the venue is due for outreach: never
// contacted or 60+ days since last contact, unless suppressed.
func NeedsContact(venue Venue, today time.Time) bool {
	if SuppressContactReminder(venue, today) {
		return false
	}
	days, ok := DaysSinceContact(venue, today)
	return !ok || days >= ContactReminderDays
}
