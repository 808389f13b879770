// Package report builds and renders the smart action report and the
// yearly tax report from venue snapshots.
package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/rlt-lab/gigsly/internal/core"
)

// Item is one venue entry in a smart report section.
type Item struct {
	VenueName string
	Score     int
}

// SmartReport is the prioritized action list across all venues.
type SmartReport struct {
	UnpaidBalance float64
	GetPaid       []Item
	BookShows     []Item
	StayInTouch   []Item
}

// Empty reports whether no venue landed in any section.
func (r SmartReport) Empty() bool {
	return len(r.GetPaid) == 0 && len(r.BookShows) == 0 && len(r.StayInTouch) == 0
}

// BuildSmartReport scores and classifies every venue as of today.
// Venues are expected in a stable order (ListVenues returns them
// alphabetically); within a section they sort by score descending with
// ties keeping that order. unpaidShows feeds the balance header and
// may include orphaned shows that no venue snapshot carries.
func BuildSmartReport(venues []core.Venue, unpaidShows []core.Show, today time.Time) SmartReport {
	today = core.DateOf(today)

	var report SmartReport
	report.UnpaidBalance = core.UnpaidBalance(unpaidShows, today)

	for _, venue := range venues {
		score := core.Score(venue, today)
		section, ok := core.Classify(venue, score, today)
		if !ok {
			continue
		}
		item := Item{VenueName: venue.Name, Score: score}
		switch section {
		case core.SectionGetPaid:
			report.GetPaid = append(report.GetPaid, item)
		case core.SectionBookShows:
			report.BookShows = append(report.BookShows, item)
		case core.SectionStayInTouch:
			report.StayInTouch = append(report.StayInTouch, item)
		}
	}

	for _, items := range [][]Item{report.GetPaid, report.BookShows, report.StayInTouch} {
		sort.SliceStable(items, func(i, j int) bool { return items[i].Score > items[j].Score })
	}
	return report
}

// ANSI escapes used when rendering to a terminal.
const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[91m"
	ansiYellow = "\033[93m"
	ansiGreen  = "\033[92m"
)

func tint(color core.Color, useColor bool) (string, string) {
	if !useColor {
		return "", ""
	}
	switch color {
	case core.ColorRed:
		return ansiRed, ansiReset
	case core.ColorYellow:
		return ansiYellow, ansiReset
	default:
		return ansiGreen, ansiReset
	}
}

func indicator(color core.Color) string {
	switch color {
	case core.ColorRed:
		return "!"
	case core.ColorYellow:
		return "*"
	default:
		return " "
	}
}

// RenderSmart writes the smart report in the terminal layout. useColor
// enables ANSI tinting of each line by score tier.
func RenderSmart(w io.Writer, report SmartReport, useColor bool) {
	line := func(s string) { fmt.Fprintln(w, s) }

	line("")
	line("============================================================")
	line("GIGSLY SMART REPORT")
	line("============================================================")

	if report.UnpaidBalance > 0 {
		line("")
		fmt.Fprintf(w, "Unpaid Balance: $%s\n", humanize.FormatFloat("#,###.##", report.UnpaidBalance))
	}

	sections := []struct {
		title string
		items []Item
	}{
		{"1. GET PAID", report.GetPaid},
		{"2. BOOK SHOWS", report.BookShows},
		{"3. STAY IN TOUCH", report.StayInTouch},
	}
	for _, section := range sections {
		if len(section.items) == 0 {
			continue
		}
		line("")
		line(section.title)
		line("----------------------------------------")
		for _, item := range section.items {
			color := core.ScoreColor(item.Score)
			open, reset := tint(color, useColor)
			fmt.Fprintf(w, "  %s%s %s (score: %d)%s\n", open, indicator(color), item.VenueName, item.Score, reset)
		}
	}

	if report.Empty() {
		line("")
		line("All caught up! No action items.")
	}

	line("")
	line("============================================================")
	line("")
}

// TaxReport summarizes a year's paid income split by W-9 status, plus
// mileage deduction.
type TaxReport struct {
	Year             int
	PaidShowCount    int
	W9Income         float64
	W9Venues         []string
	SelfReportIncome float64
	SelfReportVenues []string
	TotalMileage     float64
	MileageRate      float64
}

// TotalIncome is the year's combined paid income.
func (r TaxReport) TotalIncome() float64 {
	return r.W9Income + r.SelfReportIncome
}

// MileageDeduction is the estimated deduction at the configured rate.
func (r TaxReport) MileageDeduction() float64 {
	return r.TotalMileage * r.MileageRate
}

// BuildTaxReport tallies the year's paid shows, splitting income by the
// venue's W-9 status. Shows whose venue was deleted still count, as
// self-reported income without a venue name or mileage. Mileage counts a
// round trip per paid show.
func BuildTaxReport(shows []core.Show, venues []core.Venue, year int, mileageRate float64) TaxReport {
	report := TaxReport{Year: year, MileageRate: mileageRate}

	byID := make(map[int64]core.Venue, len(venues))
	for _, venue := range venues {
		byID[venue.ID] = venue
	}

	w9Venues := make(map[string]bool)
	selfVenues := make(map[string]bool)

	for _, show := range shows {
		if show.Date.Year() != year {
			continue
		}
		if show.PaymentStatus != core.PaymentPaid {
			continue
		}
		report.PaidShowCount++

		amount := 0.0
		if show.PayAmount != nil {
			amount = *show.PayAmount
		}

		var venue core.Venue
		hasVenue := false
		if show.VenueID != nil {
			venue, hasVenue = byID[*show.VenueID]
		}

		if hasVenue && venue.HasW9 {
			report.W9Income += amount
			w9Venues[venue.Name] = true
		} else {
			report.SelfReportIncome += amount
			if hasVenue {
				selfVenues[venue.Name] = true
			}
		}

		if hasVenue && venue.MileageOneWay != nil {
			report.TotalMileage += *venue.MileageOneWay * 2
		}
	}

	report.W9Venues = sortedKeys(w9Venues)
	report.SelfReportVenues = sortedKeys(selfVenues)
	return report
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RenderTax writes the tax report in the terminal layout.
func RenderTax(w io.Writer, report TaxReport) {
	line := func(s string) { fmt.Fprintln(w, s) }

	line("")
	line("============================================================")
	fmt.Fprintf(w, "GIGSLY TAX REPORT - %d\n", report.Year)
	line("============================================================")

	line("")
	fmt.Fprintf(w, "Total Shows Paid: %d\n", report.PaidShowCount)
	fmt.Fprintf(w, "Total Income: $%s\n", humanize.FormatFloat("#,###.##", report.TotalIncome()))

	line("")
	line("--- INCOME BY W-9 STATUS ---")
	line("")
	fmt.Fprintf(w, "1099 Expected (W-9 on file): $%s\n", humanize.FormatFloat("#,###.##", report.W9Income))
	for _, name := range report.W9Venues {
		fmt.Fprintf(w, "   - %s\n", name)
	}

	line("")
	fmt.Fprintf(w, "Self-Reported (No W-9): $%s\n", humanize.FormatFloat("#,###.##", report.SelfReportIncome))
	for _, name := range report.SelfReportVenues {
		fmt.Fprintf(w, "   - %s\n", name)
	}

	line("")
	line("--- MILEAGE ---")
	fmt.Fprintf(w, "Total Miles: %s\n", humanize.FormatFloat("#,###.#", report.TotalMileage))
	fmt.Fprintf(w, "IRS Rate (%d): $%v/mile\n", report.Year, report.MileageRate)
	fmt.Fprintf(w, "Estimated Deduction: $%s\n", humanize.FormatFloat("#,###.##", report.MileageDeduction()))

	line("")
	line("============================================================")
	line("")
}
