package ics

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/rlt-lab/gigsly/internal/core"
)

// ShowWriter is the storage surface the importer needs: venue lookup
// plus venue and show creation.
type ShowWriter interface {
	SearchVenues(query string) ([]core.Venue, error)
	CreateVenue(venue core.Venue) (int64, error)
	CreateShow(show core.Show) (int64, error)
}

// ImportStats summarizes one import run.
type ImportStats struct {
	ShowsCreated  int
	ShowsSkipped  int
	VenuesCreated int
}

// Import walks the calendar's VEVENTs and creates a show per event,
// finding or creating each venue by the event summary. Events without
// a start date or a usable venue name are skipped. With dryRun set,
// shows are counted but nothing is written.
func Import(r io.Reader, db ShowWriter, dryRun bool) (ImportStats, error) {
	var stats ImportStats

	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return stats, fmt.Errorf("import ics: parse: %w", err)
	}

	for _, event := range cal.Events() {
		summary := propertyValue(event, ical.ComponentPropertySummary)
		location := propertyValue(event, ical.ComponentPropertyLocation)

		date, clock, ok := eventStart(event)
		if !ok {
			stats.ShowsSkipped++
			continue
		}

		venueName := summary
		if i := strings.Index(venueName, "($"); i >= 0 {
			venueName = strings.TrimSpace(venueName[:i])
		}
		if venueName == "" {
			stats.ShowsSkipped++
			continue
		}

		if dryRun {
			stats.ShowsCreated++
			continue
		}

		venueID, created, err := findOrCreateVenue(db, venueName, location)
		if err != nil {
			return stats, err
		}
		if created {
			stats.VenuesCreated++
		}

		show := core.Show{
			VenueID:       &venueID,
			Date:          date,
			StartTime:     clock,
			PaymentStatus: core.PaymentPending,
		}
		if _, err := db.CreateShow(show); err != nil {
			return stats, fmt.Errorf("import ics: create show for %s: %w", venueName, err)
		}
		stats.ShowsCreated++
	}

	return stats, nil
}

// ImportFile imports from an ICS file on disk.
func ImportFile(path string, db ShowWriter, dryRun bool) (ImportStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportStats{}, fmt.Errorf("import ics: open %s: %w", path, err)
	}
	defer f.Close()
	return Import(f, db, dryRun)
}

func propertyValue(event *ical.VEvent, name ical.ComponentProperty) string {
	if p := event.GetProperty(name); p != nil {
		return p.Value
	}
	return ""
}

// eventStart returns the event's date and, for timed events, the HH:MM
// start time. All-day events are detected by the DTSTART value lacking
// a time component.
func eventStart(event *ical.VEvent) (time.Time, *string, bool) {
	prop := event.GetProperty(ical.ComponentPropertyDtStart)
	if prop == nil || prop.Value == "" {
		return time.Time{}, nil, false
	}

	allDay := !strings.Contains(prop.Value, "T")
	if params := prop.ICalParameters; params != nil {
		if vs, ok := params["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			allDay = true
		}
	}

	if allDay {
		start, err := event.GetAllDayStartAt()
		if err != nil {
			return time.Time{}, nil, false
		}
		return core.DateOf(start), nil, true
	}

	start, err := event.GetStartAt()
	if err != nil {
		return time.Time{}, nil, false
	}
	clock := start.Format(timeLayout)
	return core.DateOf(start), &clock, true
}

// findOrCreateVenue resolves a venue by name, preferring an exact
// case-insensitive match among search hits, and creates a minimal
// venue when none exists.
func findOrCreateVenue(db ShowWriter, name, location string) (int64, bool, error) {
	venues, err := db.SearchVenues(name)
	if err != nil {
		return 0, false, fmt.Errorf("import ics: search venue %s: %w", name, err)
	}
	if len(venues) > 0 {
		for _, v := range venues {
			if strings.EqualFold(v.Name, name) {
				return v.ID, false, nil
			}
		}
		return venues[0].ID, false, nil
	}

	venue := core.Venue{Name: name}
	if location != "" {
		venue.Address = &location
	}
	id, err := db.CreateVenue(venue)
	if err != nil {
		return 0, false, fmt.Errorf("import ics: create venue %s: %w", name, err)
	}
	return id, true, nil
}
