package backup_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rlt-lab/gigsly/internal/backup"
	"github.com/rlt-lab/gigsly/internal/core"
	"github.com/rlt-lab/gigsly/internal/storage"
)

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "gigsly.db")

	db, err := storage.Open(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store, err := storage.New(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }

// seedStore populates a store with one venue carrying a show, a
// recurring gig, and a contact log.
func seedStore(t *testing.T, store *storage.Store) int64 {
	t.Helper()

	venueID, err := store.CreateVenue(core.Venue{Name: "The Blue Note", HasW9: true})
	if err != nil {
		t.Fatalf("create venue: %v", err)
	}

	_, err = store.CreateShow(core.Show{
		VenueID:   &venueID,
		Date:      core.Date(2025, 6, 1),
		PayAmount: floatPtr(200),
	})
	if err != nil {
		t.Fatalf("create show: %v", err)
	}

	_, err = store.CreateRecurringGig(core.RecurringGig{
		VenueID:   venueID,
		Pattern:   core.PatternWeekly,
		DayOfWeek: intPtr(4),
		StartDate: core.Date(2025, 1, 3),
	})
	if err != nil {
		t.Fatalf("create gig: %v", err)
	}

	outcome := core.OutcomeBooked
	_, err = store.CreateContactLog(core.ContactLog{
		VenueID:     venueID,
		ContactedAt: time.Date(2025, 5, 20, 15, 0, 0, 0, time.UTC),
		Method:      core.ContactEmail,
		Outcome:     &outcome,
	})
	if err != nil {
		t.Fatalf("create contact log: %v", err)
	}

	return venueID
}

func TestCreateWritesVersionedSnapshot(t *testing.T) {
	store := openTestStore(t)
	seedStore(t, store)

	path := filepath.Join(t.TempDir(), "backup.json")
	if err := backup.Create(store, path, true, time.Now()); err != nil {
		t.Fatalf("create backup: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("parse backup: %v", err)
	}
	if v, ok := doc["version"].(float64); !ok || int(v) != backup.Version {
		t.Fatalf("version = %v", doc["version"])
	}
	for _, key := range []string{"venues", "shows", "recurring_gigs", "contact_logs"} {
		items, ok := doc[key].([]any)
		if !ok {
			t.Fatalf("%s missing or not a list", key)
		}
		if len(items) != 1 {
			t.Fatalf("%s has %d entries, want 1", key, len(items))
		}
	}
}

func TestCreateMakesParentDirectories(t *testing.T) {
	store := openTestStore(t)

	path := filepath.Join(t.TempDir(), "nested", "dir", "backup.json")
	if err := backup.Create(store, path, false, time.Now()); err != nil {
		t.Fatalf("create backup: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("backup file missing: %v", err)
	}
}

func TestRestoreReplace(t *testing.T) {
	source := openTestStore(t)
	seedStore(t, source)

	path := filepath.Join(t.TempDir(), "backup.json")
	if err := backup.Create(source, path, false, time.Now()); err != nil {
		t.Fatalf("create backup: %v", err)
	}

	target := openTestStore(t)
	if _, err := target.CreateVenue(core.Venue{Name: "Stale Venue"}); err != nil {
		t.Fatalf("create stale venue: %v", err)
	}

	stats, err := backup.Restore(target, path, backup.ModeReplace)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if stats.Venues != 1 || stats.Shows != 1 || stats.RecurringGigs != 1 || stats.ContactLogs != 1 {
		t.Fatalf("stats = %+v", stats)
	}

	venues, err := target.ListVenues()
	if err != nil {
		t.Fatalf("list venues: %v", err)
	}
	if len(venues) != 1 || venues[0].Name != "The Blue Note" {
		t.Fatalf("venues after replace = %+v", venues)
	}
	if !venues[0].HasW9 {
		t.Fatalf("venue flags lost in restore")
	}
	if len(venues[0].Shows) != 1 {
		t.Fatalf("shows not reattached: %+v", venues[0].Shows)
	}
	if len(venues[0].ContactLogs) != 1 {
		t.Fatalf("contact logs not reattached: %+v", venues[0].ContactLogs)
	}

	gigs, err := target.ListRecurringGigs()
	if err != nil {
		t.Fatalf("list gigs: %v", err)
	}
	if len(gigs) != 1 || gigs[0].VenueID != venues[0].ID {
		t.Fatalf("gig venue not remapped: %+v", gigs)
	}
}

func TestRestoreMergeSkipsDuplicateVenues(t *testing.T) {
	source := openTestStore(t)
	seedStore(t, source)

	path := filepath.Join(t.TempDir(), "backup.json")
	if err := backup.Create(source, path, false, time.Now()); err != nil {
		t.Fatalf("create backup: %v", err)
	}

	target := openTestStore(t)
	if _, err := target.CreateVenue(core.Venue{Name: "the blue note"}); err != nil {
		t.Fatalf("create existing venue: %v", err)
	}
	if _, err := target.CreateVenue(core.Venue{Name: "Other Venue"}); err != nil {
		t.Fatalf("create other venue: %v", err)
	}

	stats, err := backup.Restore(target, path, backup.ModeMerge)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if stats.Venues != 0 {
		t.Fatalf("duplicate venue restored: %+v", stats)
	}
	if stats.Shows != 0 || stats.RecurringGigs != 0 || stats.ContactLogs != 0 {
		t.Fatalf("dependents of skipped venue restored: %+v", stats)
	}

	venues, err := target.ListVenues()
	if err != nil {
		t.Fatalf("list venues: %v", err)
	}
	if len(venues) != 2 {
		t.Fatalf("merge changed venue count: %+v", venues)
	}
}

func TestRestoreMergeAddsNewVenues(t *testing.T) {
	source := openTestStore(t)
	seedStore(t, source)

	path := filepath.Join(t.TempDir(), "backup.json")
	if err := backup.Create(source, path, false, time.Now()); err != nil {
		t.Fatalf("create backup: %v", err)
	}

	target := openTestStore(t)
	if _, err := target.CreateVenue(core.Venue{Name: "Other Venue"}); err != nil {
		t.Fatalf("create other venue: %v", err)
	}

	stats, err := backup.Restore(target, path, backup.ModeMerge)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if stats.Venues != 1 || stats.Shows != 1 || stats.RecurringGigs != 1 || stats.ContactLogs != 1 {
		t.Fatalf("stats = %+v", stats)
	}

	venues, err := target.ListVenues()
	if err != nil {
		t.Fatalf("list venues: %v", err)
	}
	if len(venues) != 2 {
		t.Fatalf("venue count = %d, want 2", len(venues))
	}
}

func TestRestoreCarriesOrphanShows(t *testing.T) {
	source := openTestStore(t)
	venueID := seedStore(t, source)

	if err := source.DeleteVenue(venueID, core.Date(2025, 7, 1)); err != nil {
		t.Fatalf("delete venue: %v", err)
	}

	path := filepath.Join(t.TempDir(), "backup.json")
	if err := backup.Create(source, path, false, time.Now()); err != nil {
		t.Fatalf("create backup: %v", err)
	}

	target := openTestStore(t)
	stats, err := backup.Restore(target, path, backup.ModeReplace)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if stats.Venues != 0 {
		t.Fatalf("deleted venue resurrected: %+v", stats)
	}
	if stats.Shows != 1 {
		t.Fatalf("orphan show not restored: %+v", stats)
	}

	shows, err := target.ListShows()
	if err != nil {
		t.Fatalf("list shows: %v", err)
	}
	if len(shows) != 1 {
		t.Fatalf("shows = %+v", shows)
	}
	if shows[0].VenueID != nil {
		t.Fatalf("orphan show gained a venue: %+v", shows[0])
	}
	if shows[0].VenueNameSnapshot == nil || *shows[0].VenueNameSnapshot != "The Blue Note" {
		t.Fatalf("snapshot name = %v", shows[0].VenueNameSnapshot)
	}
}

func TestRestoreRejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	payload := `{"version": 99, "venues": [], "shows": [], "recurring_gigs": [], "contact_logs": []}`
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatalf("write backup: %v", err)
	}

	target := openTestStore(t)
	if _, err := backup.Restore(target, path, backup.ModeReplace); err == nil {
		t.Fatalf("expected version error")
	}
}

func TestRestoreRejectsUnknownMode(t *testing.T) {
	source := openTestStore(t)
	path := filepath.Join(t.TempDir(), "backup.json")
	if err := backup.Create(source, path, false, time.Now()); err != nil {
		t.Fatalf("create backup: %v", err)
	}

	if _, err := backup.Restore(source, path, backup.Mode("upsert")); err == nil {
		t.Fatalf("expected mode error")
	}
}
