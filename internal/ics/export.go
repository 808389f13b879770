// Package ics exports shows to ICS calendar files and imports shows
// back from them.
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

const (
	prodID       = "-//Gigsly//EN"
	calendarName = "Gigsly Shows"
	uidSuffix    = "@gigsly.local"

	// timeLayout matches the HH:MM text shows carry for start/end times.
	timeLayout = "15:04"

	defaultShowDuration = 2 * time.Hour
)

// VenueIndex maps venue IDs for address lookups during export.
func VenueIndex(venues []core.Venue) map[int64]core.Venue {
	index := make(map[int64]core.Venue, len(venues))
	for _, v := range venues {
		index[v.ID] = v
	}
	return index
}

// Export writes shows as VEVENTs. Cancelled shows are skipped; with
// futureOnly set, shows before today are skipped too. Returns the
// number of events written.
func Export(w io.Writer, shows []core.Show, venues map[int64]core.Venue, futureOnly bool, today time.Time) (int, error) {
	today = core.DateOf(today)

	cal := ical.NewCalendar()
	cal.SetProductId(prodID)
	cal.SetVersion("2.0")
	cal.SetCalscale("GREGORIAN")
	cal.SetXWRCalName(calendarName)

	count := 0
	for _, show := range shows {
		if show.IsCancelled {
			continue
		}
		if futureOnly && core.DateOf(show.Date).Before(today) {
			continue
		}

		var venue *core.Venue
		if show.VenueID != nil {
			if v, ok := venues[*show.VenueID]; ok {
				venue = &v
			}
		}

		event := cal.AddEvent(fmt.Sprintf("gigsly-show-%d%s", show.ID, uidSuffix))

		summary := show.DisplayName(venue)
		if show.PayAmount != nil && *show.PayAmount != 0 {
			summary += fmt.Sprintf(" ($%.0f)", *show.PayAmount)
		}
		event.SetSummary(summary)

		setEventTimes(event, show)

		if venue != nil && venue.Address != nil && *venue.Address != "" {
			event.SetLocation(*venue.Address)
		}

		if desc := describeShow(show); desc != "" {
			event.SetDescription(desc)
		}

		count++
	}

	if err := cal.SerializeTo(w); err != nil {
		return 0, fmt.Errorf("export ics: serialize: %w", err)
	}
	return count, nil
}

// ExportFile writes the calendar to path, creating or truncating it.
func ExportFile(path string, shows []core.Show, venues map[int64]core.Venue, futureOnly bool, today time.Time) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("export ics: create %s: %w", path, err)
	}
	defer f.Close()

	count, err := Export(f, shows, venues, futureOnly, today)
	if err != nil {
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("export ics: close %s: %w", path, err)
	}
	return count, nil
}

// setEventTimes writes DTSTART/DTEND. Shows with a start time become
// timed events, defaulting to a two hour slot when no end time is set.
// Shows without one become all-day events.
func setEventTimes(event *ical.VEvent, show core.Show) {
	date := core.DateOf(show.Date)

	start, ok := combineTime(date, show.StartTime)
	if !ok {
		event.SetAllDayStartAt(date)
		event.SetAllDayEndAt(date)
		return
	}

	event.SetStartAt(start)
	if end, ok := combineTime(date, show.EndTime); ok {
		event.SetEndAt(end)
	} else {
		event.SetEndAt(start.Add(defaultShowDuration))
	}
}

func combineTime(date time.Time, clock *string) (time.Time, bool) {
	if clock == nil || *clock == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(timeLayout, *clock)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), true
}

func describeShow(show core.Show) string {
	var parts []string
	if show.PayAmount != nil && *show.PayAmount != 0 {
		parts = append(parts, fmt.Sprintf("Pay: $%.2f", *show.PayAmount))
	}
	if show.PaymentStatus != "" {
		parts = append(parts, fmt.Sprintf("Status: %s", show.PaymentStatus))
	}
	if show.Notes != nil && *show.Notes != "" {
		parts = append(parts, fmt.Sprintf("Notes: %s", *show.Notes))
	}
	return strings.Join(parts, "\n")
}
