package core_test

import (
	"testing"

	"github.com/rlt-lab/gigsly/internal/core"
)

func TestIsBookingWindowOpen_NoWindow(t *testing.T) {
	venue := core.Venue{Name: "Test"}
	if core.IsBookingWindowOpen(venue, core.Date(2025, 6, 15)) {
		t.Fatalf("venue without window should never be open")
	}
	if _, ok := core.DaysUntilBookingWindow(venue, core.Date(2025, 6, 15)); ok {
		t.Fatalf("venue without window has no days-until value")
	}
}

func TestIsBookingWindowOpen_NormalRange(t *testing.T) {
	venue := core.Venue{
		BookingWindowStart: intPtr(10),
		BookingWindowEnd:   intPtr(20),
	}
	if !core.IsBookingWindowOpen(venue, core.Date(2025, 6, 10)) {
		t.Fatalf("expected window open on start day")
	}
	if !core.IsBookingWindowOpen(venue, core.Date(2025, 6, 20)) {
		t.Fatalf("expected window open on end day")
	}
	if core.IsBookingWindowOpen(venue, core.Date(2025, 6, 21)) {
		t.Fatalf("expected window closed after end day")
	}
}

func TestIsBookingWindowOpen_WrapsMonthEnd(t *testing.T) {
	venue := core.Venue{
		BookingWindowStart: intPtr(25),
		BookingWindowEnd:   intPtr(5),
	}
	if !core.IsBookingWindowOpen(venue, core.Date(2025, 6, 2)) {
		t.Fatalf("expected wrapped window open on the 2nd")
	}
	if !core.IsBookingWindowOpen(venue, core.Date(2025, 6, 27)) {
		t.Fatalf("expected wrapped window open on the 27th")
	}
	if core.IsBookingWindowOpen(venue, core.Date(2025, 6, 15)) {
		t.Fatalf("expected wrapped window closed mid-month")
	}
}

func TestIsBookingWindowOpen_EndDefaultsToStart(t *testing.T) {
	venue := core.Venue{BookingWindowStart: intPtr(12)}
	if !core.IsBookingWindowOpen(venue, core.Date(2025, 6, 12)) {
		t.Fatalf("expected single-day window open on its day")
	}
	if core.IsBookingWindowOpen(venue, core.Date(2025, 6, 13)) {
		t.Fatalf("expected single-day window closed the next day")
	}
}

func TestDaysUntilBookingWindow_LaterThisMonth(t *testing.T) {
	venue := core.Venue{BookingWindowStart: intPtr(20), BookingWindowEnd: intPtr(22)}
	days, ok := core.DaysUntilBookingWindow(venue, core.Date(2025, 6, 15))
	if !ok || days != 5 {
		t.Fatalf("days until = %d (ok=%v), want 5", days, ok)
	}
}

func TestDaysUntilBookingWindow_OpenReturnsNothing(t *testing.T) {
	venue := core.Venue{BookingWindowStart: intPtr(15)}
	if _, ok := core.DaysUntilBookingWindow(venue, core.Date(2025, 6, 15)); ok {
		t.Fatalf("open window should report no days-until value")
	}
}

func TestDaysUntilBookingWindow_WrapUsesCurrentMonthLength(t *testing.T) {
	// The wrap formula counts the remainder of the current month plus
	// the start day, even when the next month has a different length.
	venue := core.Venue{BookingWindowStart: intPtr(3), BookingWindowEnd: intPtr(5)}

	// Jan 28 (31-day month): (31-28) + 3 = 6.
	days, ok := core.DaysUntilBookingWindow(venue, core.Date(2025, 1, 28))
	if !ok || days != 6 {
		t.Fatalf("wrap from Jan = %d (ok=%v), want 6", days, ok)
	}

	// Feb 28, 2025 (28-day month): (28-28) + 3 = 3.
	days, ok = core.DaysUntilBookingWindow(venue, core.Date(2025, 2, 28))
	if !ok || days != 3 {
		t.Fatalf("wrap from Feb = %d (ok=%v), want 3", days, ok)
	}
}
