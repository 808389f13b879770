package ics_test

import (
	"strings"
	"testing"

	"github.com/rlt-lab/gigsly/internal/core"
	"github.com/rlt-lab/gigsly/internal/ics"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func int64Ptr(n int64) *int64 { return &n }

// fakeStore records importer writes in memory.
type fakeStore struct {
	venues []core.Venue
	shows  []core.Show
	nextID int64
}

func (f *fakeStore) SearchVenues(query string) ([]core.Venue, error) {
	var hits []core.Venue
	for _, v := range f.venues {
		if strings.Contains(strings.ToLower(v.Name), strings.ToLower(query)) {
			hits = append(hits, v)
		}
	}
	return hits, nil
}

func (f *fakeStore) CreateVenue(venue core.Venue) (int64, error) {
	f.nextID++
	venue.ID = f.nextID
	f.venues = append(f.venues, venue)
	return venue.ID, nil
}

func (f *fakeStore) CreateShow(show core.Show) (int64, error) {
	f.nextID++
	show.ID = f.nextID
	f.shows = append(f.shows, show)
	return show.ID, nil
}

func exportFixture() ([]core.Show, map[int64]core.Venue) {
	venues := []core.Venue{
		{ID: 1, Name: "The Basement", Address: strPtr("123 Main St")},
	}
	shows := []core.Show{
		{
			ID:            10,
			VenueID:       int64Ptr(1),
			Date:          core.Date(2025, 7, 4),
			StartTime:     strPtr("20:00"),
			PayAmount:     floatPtr(200),
			PaymentStatus: core.PaymentPending,
		},
		{
			ID:            11,
			VenueID:       int64Ptr(1),
			Date:          core.Date(2025, 5, 1),
			PaymentStatus: core.PaymentPaid,
		},
		{
			ID:          12,
			VenueID:     int64Ptr(1),
			Date:        core.Date(2025, 8, 1),
			IsCancelled: true,
		},
	}
	return shows, ics.VenueIndex(venues)
}

func TestExportWritesEvents(t *testing.T) {
	shows, venues := exportFixture()

	var buf strings.Builder
	count, err := ics.Export(&buf, shows, venues, false, core.Date(2025, 6, 15))
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2 (cancelled show skipped)", count)
	}

	out := buf.String()
	for _, want := range []string{
		"PRODID:-//Gigsly//EN",
		"SUMMARY:The Basement ($200)",
		"UID:gigsly-show-10@gigsly.local",
		"UID:gigsly-show-11@gigsly.local",
		"LOCATION:123 Main St",
		"DTSTART:20250704T200000Z",
		"DTEND:20250704T220000Z",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "gigsly-show-12") {
		t.Fatalf("cancelled show exported:\n%s", out)
	}
}

func TestExportFutureOnly(t *testing.T) {
	shows, venues := exportFixture()

	var buf strings.Builder
	count, err := ics.Export(&buf, shows, venues, true, core.Date(2025, 6, 15))
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
	if strings.Contains(buf.String(), "gigsly-show-11") {
		t.Fatalf("past show exported:\n%s", buf.String())
	}
}

func TestExportAllDayWhenNoStartTime(t *testing.T) {
	shows := []core.Show{
		{ID: 20, Date: core.Date(2025, 7, 4), VenueNameSnapshot: strPtr("Old Haunt")},
	}

	var buf strings.Builder
	if _, err := ics.Export(&buf, shows, nil, false, core.Date(2025, 6, 15)); err != nil {
		t.Fatalf("Export: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "SUMMARY:Old Haunt") {
		t.Fatalf("snapshot name not used:\n%s", out)
	}
	if !strings.Contains(out, "DTSTART;VALUE=DATE:20250704") {
		t.Fatalf("expected all-day DTSTART:\n%s", out)
	}
}

func TestImportCreatesVenueAndShow(t *testing.T) {
	payload := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Test//EN",
		"BEGIN:VEVENT",
		"UID:abc@example.com",
		"SUMMARY:Corner Bar ($150)",
		"LOCATION:456 Oak Ave",
		"DTSTART:20250704T200000Z",
		"DTEND:20250704T220000Z",
		"END:VEVENT",
		"END:VCALENDAR",
	}, "\r\n") + "\r\n"

	store := &fakeStore{}
	stats, err := ics.Import(strings.NewReader(payload), store, false)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.ShowsCreated != 1 || stats.VenuesCreated != 1 || stats.ShowsSkipped != 0 {
		t.Fatalf("stats = %+v", stats)
	}

	if len(store.venues) != 1 || store.venues[0].Name != "Corner Bar" {
		t.Fatalf("venues = %+v", store.venues)
	}
	if store.venues[0].Address == nil || *store.venues[0].Address != "456 Oak Ave" {
		t.Fatalf("venue address = %v", store.venues[0].Address)
	}

	if len(store.shows) != 1 {
		t.Fatalf("shows = %+v", store.shows)
	}
	show := store.shows[0]
	if !show.Date.Equal(core.Date(2025, 7, 4)) {
		t.Fatalf("show date = %v", show.Date)
	}
	if show.StartTime == nil || *show.StartTime != "20:00" {
		t.Fatalf("show start time = %v", show.StartTime)
	}
}

func TestImportMatchesExistingVenueCaseInsensitively(t *testing.T) {
	payload := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Test//EN",
		"BEGIN:VEVENT",
		"UID:abc@example.com",
		"SUMMARY:the basement",
		"DTSTART;VALUE=DATE:20250704",
		"END:VEVENT",
		"END:VCALENDAR",
	}, "\r\n") + "\r\n"

	store := &fakeStore{
		venues: []core.Venue{{ID: 7, Name: "The Basement"}},
		nextID: 7,
	}
	stats, err := ics.Import(strings.NewReader(payload), store, false)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.VenuesCreated != 0 || stats.ShowsCreated != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	show := store.shows[0]
	if show.VenueID == nil || *show.VenueID != 7 {
		t.Fatalf("show venue id = %v", show.VenueID)
	}
	if show.StartTime != nil {
		t.Fatalf("all-day import should leave start time nil, got %v", show.StartTime)
	}
}

func TestImportDryRunWritesNothing(t *testing.T) {
	payload := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Test//EN",
		"BEGIN:VEVENT",
		"UID:abc@example.com",
		"SUMMARY:Corner Bar",
		"DTSTART:20250704T200000Z",
		"END:VEVENT",
		"END:VCALENDAR",
	}, "\r\n") + "\r\n"

	store := &fakeStore{}
	stats, err := ics.Import(strings.NewReader(payload), store, true)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.ShowsCreated != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if len(store.venues) != 0 || len(store.shows) != 0 {
		t.Fatalf("dry run wrote records: venues=%d shows=%d", len(store.venues), len(store.shows))
	}
}

func TestImportSkipsEventWithoutStart(t *testing.T) {
	payload := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Test//EN",
		"BEGIN:VEVENT",
		"UID:abc@example.com",
		"SUMMARY:Corner Bar",
		"END:VEVENT",
		"END:VCALENDAR",
	}, "\r\n") + "\r\n"

	store := &fakeStore{}
	stats, err := ics.Import(strings.NewReader(payload), store, false)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.ShowsSkipped != 1 || stats.ShowsCreated != 0 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestRoundTrip(t *testing.T) {
	shows, venues := exportFixture()

	var buf strings.Builder
	if _, err := ics.Export(&buf, shows, venues, false, core.Date(2025, 6, 15)); err != nil {
		t.Fatalf("Export: %v", err)
	}

	store := &fakeStore{}
	stats, err := ics.Import(strings.NewReader(buf.String()), store, false)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.ShowsCreated != 2 {
		t.Fatalf("ShowsCreated = %d, want 2", stats.ShowsCreated)
	}
	if stats.VenuesCreated != 1 {
		t.Fatalf("VenuesCreated = %d, want 1 (pay suffix stripped to one name)", stats.VenuesCreated)
	}
	if store.venues[0].Name != "The Basement" {
		t.Fatalf("venue name = %q", store.venues[0].Name)
	}
}
