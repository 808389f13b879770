// Package backup writes versioned JSON snapshots of every entity and
// restores them, either replacing the database or merging into it.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rlt-lab/gigsly/internal/core"
)

// Version identifies the snapshot format.
const Version = 1

const dateLayout = "2006-01-02"

// Store is the persistence surface backup needs. *storage.Store
// satisfies it.
type Store interface {
	ListVenues() ([]core.Venue, error)
	ListShows() ([]core.Show, error)
	ListRecurringGigs() ([]core.RecurringGig, error)
	CreateVenue(venue core.Venue) (int64, error)
	CreateShow(show core.Show) (int64, error)
	CreateRecurringGig(gig core.RecurringGig) (int64, error)
	DeactivateRecurringGig(id int64) error
	CreateContactLog(log core.ContactLog) (int64, error)
	Wipe() error
}

// Mode selects how Restore treats existing data.
type Mode string

const (
	// ModeReplace wipes the database before restoring.
	ModeReplace Mode = "replace"
	// ModeMerge keeps existing data, skipping venues whose name already
	// exists (case-insensitive) along with their dependents.
	ModeMerge Mode = "merge"
)

// Snapshot is the on-disk backup document.
type Snapshot struct {
	Version       int             `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	Venues        []venueRecord   `json:"venues"`
	Shows         []showRecord    `json:"shows"`
	RecurringGigs []gigRecord     `json:"recurring_gigs"`
	ContactLogs   []contactRecord `json:"contact_logs"`
}

type venueRecord struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	Location           *string  `json:"location"`
	Address            *string  `json:"address"`
	ContactName        *string  `json:"contact_name"`
	ContactEmail       *string  `json:"contact_email"`
	ContactPhone       *string  `json:"contact_phone"`
	MileageOneWay      *float64 `json:"mileage_one_way"`
	TypicalPay         *float64 `json:"typical_pay"`
	PaymentMethod      *string  `json:"payment_method"`
	RequiresInvoice    bool     `json:"requires_invoice"`
	HasW9              bool     `json:"has_w9"`
	BookingWindowStart *int     `json:"booking_window_start"`
	BookingWindowEnd   *int     `json:"booking_window_end"`
	Notes              *string  `json:"notes"`
}

type showRecord struct {
	ID                  int64    `json:"id"`
	VenueID             *int64   `json:"venue_id"`
	VenueNameSnapshot   *string  `json:"venue_name_snapshot"`
	Date                string   `json:"date"`
	StartTime           *string  `json:"start_time"`
	EndTime             *string  `json:"end_time"`
	PayAmount           *float64 `json:"pay_amount"`
	PaymentStatus       string   `json:"payment_status"`
	PaymentReceivedDate *string  `json:"payment_received_date"`
	InvoiceSent         bool     `json:"invoice_sent"`
	InvoiceSentDate     *string  `json:"invoice_sent_date"`
	IsCancelled         bool     `json:"is_cancelled"`
	Notes               *string  `json:"notes"`
}

type gigRecord struct {
	ID            int64    `json:"id"`
	VenueID       int64    `json:"venue_id"`
	PayAmount     *float64 `json:"pay_amount"`
	PatternType   string   `json:"pattern_type"`
	DayOfWeek     *int     `json:"day_of_week"`
	DayOfMonth    *int     `json:"day_of_month"`
	Ordinal       *int     `json:"ordinal"`
	IntervalWeeks *int     `json:"interval_weeks"`
	StartDate     string   `json:"start_date"`
	EndDate       *string  `json:"end_date"`
	IsActive      bool     `json:"is_active"`
}

type contactRecord struct {
	VenueID      int64     `json:"venue_id"`
	ContactedAt  time.Time `json:"contacted_at"`
	Method       string    `json:"method"`
	Outcome      *string   `json:"outcome"`
	FollowUpDate *string   `json:"follow_up_date"`
	Notes        *string   `json:"notes"`
}

// DefaultPath returns today's backup file under ~/.gigsly/backups.
func DefaultPath(now time.Time) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("backup path: %w", err)
	}
	name := fmt.Sprintf("backup-%s.json", now.Format(dateLayout))
	return filepath.Join(home, ".gigsly", "backups", name), nil
}

func formatDate(t time.Time) string {
	return core.DateOf(t).Format(dateLayout)
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return core.DateOf(t), nil
}

func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Build collects every entity into a snapshot.
func Build(db Store, now time.Time) (Snapshot, error) {
	snap := Snapshot{
		Version:       Version,
		CreatedAt:     now.UTC(),
		Venues:        []venueRecord{},
		Shows:         []showRecord{},
		RecurringGigs: []gigRecord{},
		ContactLogs:   []contactRecord{},
	}

	venues, err := db.ListVenues()
	if err != nil {
		return snap, fmt.Errorf("backup: list venues: %w", err)
	}
	for _, v := range venues {
		var method *string
		if v.PaymentMethod != nil {
			m := string(*v.PaymentMethod)
			method = &m
		}
		snap.Venues = append(snap.Venues, venueRecord{
			ID:                 v.ID,
			Name:               v.Name,
			Location:           v.Location,
			Address:            v.Address,
			ContactName:        v.ContactName,
			ContactEmail:       v.ContactEmail,
			ContactPhone:       v.ContactPhone,
			MileageOneWay:      v.MileageOneWay,
			TypicalPay:         v.TypicalPay,
			PaymentMethod:      method,
			RequiresInvoice:    v.RequiresInvoice,
			HasW9:              v.HasW9,
			BookingWindowStart: v.BookingWindowStart,
			BookingWindowEnd:   v.BookingWindowEnd,
			Notes:              v.Notes,
		})
		for _, log := range v.ContactLogs {
			var outcome *string
			if log.Outcome != nil {
				o := string(*log.Outcome)
				outcome = &o
			}
			snap.ContactLogs = append(snap.ContactLogs, contactRecord{
				VenueID:      log.VenueID,
				ContactedAt:  log.ContactedAt.UTC(),
				Method:       string(log.Method),
				Outcome:      outcome,
				FollowUpDate: formatDatePtr(log.FollowUpDate),
				Notes:        log.Notes,
			})
		}
	}

	// ListShows covers orphaned shows that no venue snapshot carries.
	shows, err := db.ListShows()
	if err != nil {
		return snap, fmt.Errorf("backup: list shows: %w", err)
	}
	for _, s := range shows {
		snap.Shows = append(snap.Shows, showRecord{
			ID:                  s.ID,
			VenueID:             s.VenueID,
			VenueNameSnapshot:   s.VenueNameSnapshot,
			Date:                formatDate(s.Date),
			StartTime:           s.StartTime,
			EndTime:             s.EndTime,
			PayAmount:           s.PayAmount,
			PaymentStatus:       string(s.PaymentStatus),
			PaymentReceivedDate: formatDatePtr(s.PaymentReceivedDate),
			InvoiceSent:         s.InvoiceSent,
			InvoiceSentDate:     formatDatePtr(s.InvoiceSentDate),
			IsCancelled:         s.IsCancelled,
			Notes:               s.Notes,
		})
	}

	gigs, err := db.ListRecurringGigs()
	if err != nil {
		return snap, fmt.Errorf("backup: list recurring gigs: %w", err)
	}
	for _, g := range gigs {
		snap.RecurringGigs = append(snap.RecurringGigs, gigRecord{
			ID:            g.ID,
			VenueID:       g.VenueID,
			PayAmount:     g.PayAmount,
			PatternType:   string(g.Pattern),
			DayOfWeek:     g.DayOfWeek,
			DayOfMonth:    g.DayOfMonth,
			Ordinal:       g.Ordinal,
			IntervalWeeks: g.IntervalWeeks,
			StartDate:     formatDate(g.StartDate),
			EndDate:       formatDatePtr(g.EndDate),
			IsActive:      g.IsActive,
		})
	}

	return snap, nil
}

// Create builds a snapshot and writes it to path, creating parent
// directories as needed.
func Create(db Store, path string, pretty bool, now time.Time) error {
	snap, err := Build(db, now)
	if err != nil {
		return err
	}

	var data []byte
	if pretty {
		data, err = json.MarshalIndent(snap, "", "  ")
	} else {
		data, err = json.Marshal(snap)
	}
	if err != nil {
		return fmt.Errorf("backup: marshal: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("backup: create dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("backup: write %s: %w", path, err)
	}
	return nil
}

// Stats counts entities restored from a snapshot.
type Stats struct {
	Venues        int
	Shows         int
	RecurringGigs int
	ContactLogs   int
}

// Restore loads a snapshot file into the store. Replace mode wipes the
// database first; merge mode skips venues that already exist by name
// (case-insensitive), dropping their dependents. Shows lose their
// recurring gig link; venue IDs are remapped to the newly created rows.
func Restore(db Store, path string, mode Mode) (Stats, error) {
	var stats Stats

	data, err := os.ReadFile(path)
	if err != nil {
		return stats, fmt.Errorf("restore: read %s: %w", path, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return stats, fmt.Errorf("restore: parse %s: %w", path, err)
	}
	if snap.Version != Version {
		return stats, fmt.Errorf("restore: unsupported backup version %d", snap.Version)
	}

	switch mode {
	case ModeReplace:
		if err := db.Wipe(); err != nil {
			return stats, fmt.Errorf("restore: wipe: %w", err)
		}
	case ModeMerge:
	default:
		return stats, fmt.Errorf("restore: unknown mode %q", mode)
	}

	existingNames := make(map[string]bool)
	if mode == ModeMerge {
		venues, err := db.ListVenues()
		if err != nil {
			return stats, fmt.Errorf("restore: list venues: %w", err)
		}
		for _, v := range venues {
			existingNames[strings.ToLower(v.Name)] = true
		}
	}

	venueIDs := make(map[int64]int64)
	for _, rec := range snap.Venues {
		if existingNames[strings.ToLower(rec.Name)] {
			continue
		}
		id, err := db.CreateVenue(venueFromRecord(rec))
		if err != nil {
			return stats, fmt.Errorf("restore: venue %s: %w", rec.Name, err)
		}
		venueIDs[rec.ID] = id
		stats.Venues++
	}

	for _, rec := range snap.RecurringGigs {
		newVenueID, ok := venueIDs[rec.VenueID]
		if !ok {
			continue
		}
		gig, err := gigFromRecord(rec, newVenueID)
		if err != nil {
			return stats, fmt.Errorf("restore: recurring gig %d: %w", rec.ID, err)
		}
		id, err := db.CreateRecurringGig(gig)
		if err != nil {
			return stats, fmt.Errorf("restore: recurring gig %d: %w", rec.ID, err)
		}
		if !rec.IsActive {
			if err := db.DeactivateRecurringGig(id); err != nil {
				return stats, fmt.Errorf("restore: recurring gig %d: %w", rec.ID, err)
			}
		}
		stats.RecurringGigs++
	}

	for _, rec := range snap.Shows {
		show, err := showFromRecord(rec)
		if err != nil {
			return stats, fmt.Errorf("restore: show %d: %w", rec.ID, err)
		}
		if rec.VenueID != nil {
			newID, ok := venueIDs[*rec.VenueID]
			if !ok {
				continue
			}
			show.VenueID = &newID
		}
		if _, err := db.CreateShow(show); err != nil {
			return stats, fmt.Errorf("restore: show %d: %w", rec.ID, err)
		}
		stats.Shows++
	}

	for _, rec := range snap.ContactLogs {
		newVenueID, ok := venueIDs[rec.VenueID]
		if !ok {
			continue
		}
		log, err := contactLogFromRecord(rec, newVenueID)
		if err != nil {
			return stats, fmt.Errorf("restore: contact log: %w", err)
		}
		if _, err := db.CreateContactLog(log); err != nil {
			return stats, fmt.Errorf("restore: contact log: %w", err)
		}
		stats.ContactLogs++
	}

	return stats, nil
}

func venueFromRecord(rec venueRecord) core.Venue {
	var method *core.PaymentMethod
	if rec.PaymentMethod != nil {
		m := core.PaymentMethod(*rec.PaymentMethod)
		method = &m
	}
	return core.Venue{
		Name:               rec.Name,
		Location:           rec.Location,
		Address:            rec.Address,
		ContactName:        rec.ContactName,
		ContactEmail:       rec.ContactEmail,
		ContactPhone:       rec.ContactPhone,
		MileageOneWay:      rec.MileageOneWay,
		TypicalPay:         rec.TypicalPay,
		PaymentMethod:      method,
		RequiresInvoice:    rec.RequiresInvoice,
		HasW9:              rec.HasW9,
		BookingWindowStart: rec.BookingWindowStart,
		BookingWindowEnd:   rec.BookingWindowEnd,
		Notes:              rec.Notes,
	}
}

func showFromRecord(rec showRecord) (core.Show, error) {
	date, err := parseDate(rec.Date)
	if err != nil {
		return core.Show{}, fmt.Errorf("parse date: %w", err)
	}
	received, err := parseDatePtr(rec.PaymentReceivedDate)
	if err != nil {
		return core.Show{}, fmt.Errorf("parse payment_received_date: %w", err)
	}
	invoiced, err := parseDatePtr(rec.InvoiceSentDate)
	if err != nil {
		return core.Show{}, fmt.Errorf("parse invoice_sent_date: %w", err)
	}
	return core.Show{
		VenueNameSnapshot:   rec.VenueNameSnapshot,
		Date:                date,
		StartTime:           rec.StartTime,
		EndTime:             rec.EndTime,
		PayAmount:           rec.PayAmount,
		PaymentStatus:       core.PaymentStatus(rec.PaymentStatus),
		PaymentReceivedDate: received,
		InvoiceSent:         rec.InvoiceSent,
		InvoiceSentDate:     invoiced,
		IsCancelled:         rec.IsCancelled,
		Notes:               rec.Notes,
	}, nil
}

func gigFromRecord(rec gigRecord, venueID int64) (core.RecurringGig, error) {
	start, err := parseDate(rec.StartDate)
	if err != nil {
		return core.RecurringGig{}, fmt.Errorf("parse start_date: %w", err)
	}
	end, err := parseDatePtr(rec.EndDate)
	if err != nil {
		return core.RecurringGig{}, fmt.Errorf("parse end_date: %w", err)
	}
	return core.RecurringGig{
		VenueID:       venueID,
		PayAmount:     rec.PayAmount,
		Pattern:       core.PatternType(rec.PatternType),
		DayOfWeek:     rec.DayOfWeek,
		DayOfMonth:    rec.DayOfMonth,
		Ordinal:       rec.Ordinal,
		IntervalWeeks: rec.IntervalWeeks,
		StartDate:     start,
		EndDate:       end,
	}, nil
}

func contactLogFromRecord(rec contactRecord, venueID int64) (core.ContactLog, error) {
	followUp, err := parseDatePtr(rec.FollowUpDate)
	if err != nil {
		return core.ContactLog{}, fmt.Errorf("parse follow_up_date: %w", err)
	}
	var outcome *core.ContactOutcome
	if rec.Outcome != nil {
		o := core.ContactOutcome(*rec.Outcome)
		outcome = &o
	}
	return core.ContactLog{
		VenueID:      venueID,
		ContactedAt:  rec.ContactedAt,
		Method:       core.ContactMethod(rec.Method),
		Outcome:      outcome,
		FollowUpDate: followUp,
		Notes:        rec.Notes,
	}, nil
}
