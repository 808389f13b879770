package core_test

import (
	"testing"

	"github.com/rlt-lab/gigsly/internal/core"
)

var scoreToday = core.Date(2025, 6, 15)

func pastShow(daysAgo int, status core.PaymentStatus) core.Show {
	return core.Show{
		Date:          scoreToday.AddDate(0, 0, -daysAgo),
		PaymentStatus: status,
	}
}

func futureShow(daysAhead int) core.Show {
	return core.Show{
		Date:          scoreToday.AddDate(0, 0, daysAhead),
		PaymentStatus: core.PaymentPending,
	}
}

// recentlyBooked keeps a venue out of the contact and booking buckets:
// plenty of upcoming shows and fresh contact history.
func recentlyBooked() core.Venue {
	return core.Venue{
		Shows: []core.Show{futureShow(7), futureShow(14), futureShow(21)},
		ContactLogs: []core.ContactLog{
			{ContactedAt: scoreToday.AddDate(0, 0, -5), Method: core.ContactEmail},
		},
	}
}

func TestScore_OverdueShows(t *testing.T) {
	venue := recentlyBooked()
	venue.Shows = append(venue.Shows, pastShow(45, core.PaymentPending))

	got := core.Score(venue, scoreToday)
	if got != 35 {
		t.Fatalf("one overdue show = %d, want 35", got)
	}

	venue.Shows = append(venue.Shows, pastShow(60, core.PaymentPending), pastShow(90, core.PaymentPending))
	got = core.Score(venue, scoreToday)
	if got != 35+15+15 {
		t.Fatalf("three overdue shows = %d, want 65", got)
	}
}

func TestScore_PendingInvoices(t *testing.T) {
	venue := recentlyBooked()
	venue.RequiresInvoice = true
	venue.Shows = append(venue.Shows, pastShow(10, core.PaymentPending), pastShow(20, core.PaymentPending))

	got := core.Score(venue, scoreToday)
	if got != 30+10 {
		t.Fatalf("two pending invoices = %d, want 40", got)
	}
}

func TestScore_BookingWindow(t *testing.T) {
	venue := recentlyBooked()
	day := scoreToday.Day()
	venue.BookingWindowStart = intPtr(day)
	venue.BookingWindowEnd = intPtr(day)
	if got := core.Score(venue, scoreToday); got != 25 {
		t.Fatalf("open window = %d, want 25", got)
	}

	venue.BookingWindowStart = intPtr(day + 2)
	venue.BookingWindowEnd = intPtr(day + 3)
	if got := core.Score(venue, scoreToday); got != 20 {
		t.Fatalf("window in 2 days = %d, want 20", got)
	}

	venue.BookingWindowStart = intPtr(day + 6)
	venue.BookingWindowEnd = intPtr(day + 7)
	if got := core.Score(venue, scoreToday); got != 10 {
		t.Fatalf("window in 6 days = %d, want 10", got)
	}
}

func TestScore_UpcomingShows(t *testing.T) {
	venue := recentlyBooked()
	venue.Shows = nil
	if got := core.Score(venue, scoreToday); got != 10 {
		t.Fatalf("no upcoming shows = %d, want 10", got)
	}

	venue.Shows = []core.Show{futureShow(7), futureShow(14)}
	if got := core.Score(venue, scoreToday); got != 5 {
		t.Fatalf("two upcoming shows = %d, want 5", got)
	}

	cancelled := futureShow(21)
	cancelled.IsCancelled = true
	venue.Shows = append(venue.Shows, cancelled)
	if got := core.Score(venue, scoreToday); got != 5 {
		t.Fatalf("cancelled show should not count, got %d, want 5", got)
	}
}

func TestScore_StaleContact(t *testing.T) {
	venue := recentlyBooked()
	venue.ContactLogs = nil
	if got := core.Score(venue, scoreToday); got != 5 {
		t.Fatalf("never contacted = %d, want 5", got)
	}

	venue.ContactLogs = []core.ContactLog{
		{ContactedAt: scoreToday.AddDate(0, 0, -70), Method: core.ContactPhone},
	}
	if got := core.Score(venue, scoreToday); got != 3 {
		t.Fatalf("70 days since contact = %d, want 3", got)
	}

	venue.ContactLogs = []core.ContactLog{
		{ContactedAt: scoreToday.AddDate(0, 0, -120), Method: core.ContactPhone},
	}
	if got := core.Score(venue, scoreToday); got != 5 {
		t.Fatalf("120 days since contact = %d, want 5", got)
	}
}

func TestScore_SuppressionZeroesContactContribution(t *testing.T) {
	awaiting := core.OutcomeAwaitingResponse
	venue := recentlyBooked()
	venue.ContactLogs = []core.ContactLog{
		{ContactedAt: scoreToday.AddDate(0, 0, -120), Method: core.ContactEmail},
		{ContactedAt: scoreToday.AddDate(0, 0, -5), Method: core.ContactEmail, Outcome: &awaiting},
	}

	if got := core.Score(venue, scoreToday); got != 0 {
		t.Fatalf("suppressed venue = %d, want 0", got)
	}
	if core.NeedsContact(venue, scoreToday) {
		t.Fatalf("suppressed venue should not need contact")
	}
	if section, ok := core.Classify(venue, core.Score(venue, scoreToday), scoreToday); ok {
		t.Fatalf("suppressed venue classified as %s", section)
	}
}

func TestScore_UncappedStacking(t *testing.T) {
	venue := core.Venue{RequiresInvoice: true}
	for i := 0; i < 5; i++ {
		venue.Shows = append(venue.Shows, pastShow(40+i, core.PaymentPending))
	}
	// 5 overdue (35+4*15) + 5 invoices (30+4*10) + no upcoming (10) +
	// never contacted (5) = 180.
	if got := core.Score(venue, scoreToday); got != 180 {
		t.Fatalf("stacked issues = %d, want 180", got)
	}
}

func TestClassify_PriorityOrder(t *testing.T) {
	venue := recentlyBooked()
	venue.Shows = append(venue.Shows, pastShow(45, core.PaymentPending))

	score := core.Score(venue, scoreToday)
	if score < 35 {
		t.Fatalf("overdue venue score = %d, want >= 35", score)
	}
	section, ok := core.Classify(venue, score, scoreToday)
	if !ok || section != core.SectionGetPaid {
		t.Fatalf("overdue venue classified as %q (ok=%v), want GET_PAID", section, ok)
	}

	venue = recentlyBooked()
	venue.Shows = venue.Shows[:1] // low upcoming count
	section, ok = core.Classify(venue, core.Score(venue, scoreToday), scoreToday)
	if !ok || section != core.SectionBookShows {
		t.Fatalf("low-shows venue classified as %q (ok=%v), want BOOK_SHOWS", section, ok)
	}

	venue = recentlyBooked()
	venue.ContactLogs = []core.ContactLog{
		{ContactedAt: scoreToday.AddDate(0, 0, -100), Method: core.ContactEmail},
	}
	section, ok = core.Classify(venue, core.Score(venue, scoreToday), scoreToday)
	if !ok || section != core.SectionStayInTouch {
		t.Fatalf("stale-contact venue classified as %q (ok=%v), want STAY_IN_TOUCH", section, ok)
	}
}

func TestClassify_ZeroScoreNeverClassified(t *testing.T) {
	venue := recentlyBooked()
	if score := core.Score(venue, scoreToday); score != 0 {
		t.Fatalf("healthy venue score = %d, want 0", score)
	}
	if section, ok := core.Classify(venue, 0, scoreToday); ok {
		t.Fatalf("zero-score venue classified as %s", section)
	}
}

func TestScoreColor(t *testing.T) {
	if got := core.ScoreColor(55); got != core.ColorRed {
		t.Fatalf("ScoreColor(55) = %s, want red", got)
	}
	if got := core.ScoreColor(50); got != core.ColorRed {
		t.Fatalf("ScoreColor(50) = %s, want red", got)
	}
	if got := core.ScoreColor(30); got != core.ColorYellow {
		t.Fatalf("ScoreColor(30) = %s, want yellow", got)
	}
	if got := core.ScoreColor(10); got != core.ColorGreen {
		t.Fatalf("ScoreColor(10) = %s, want green", got)
	}
}
