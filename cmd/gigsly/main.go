package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	arg "github.com/alexflint/go-arg"
	"golang.org/x/term"

	"github.com/rlt-lab/gigsly/internal/backup"
	"github.com/rlt-lab/gigsly/internal/config"
	"github.com/rlt-lab/gigsly/internal/core"
	"github.com/rlt-lab/gigsly/internal/ics"
	"github.com/rlt-lab/gigsly/internal/report"
	"github.com/rlt-lab/gigsly/internal/storage"
)

// Version is the current CLI version string.
const Version = "v0.1"

const dateLayout = "2006-01-02"

type addVenueCmd struct {
	Name            string   `arg:"positional" help:"venue name"`
	Location        string   `arg:"--location" help:"city or neighborhood"`
	Address         string   `arg:"--address" help:"street address"`
	ContactName     string   `arg:"--contact-name" help:"booking contact name"`
	ContactEmail    string   `arg:"--contact-email" help:"booking contact email"`
	ContactPhone    string   `arg:"--contact-phone" help:"booking contact phone"`
	Mileage         *float64 `arg:"--mileage" help:"one-way mileage from home"`
	Pay             *float64 `arg:"--pay" help:"typical pay per show"`
	PaymentMethod   string   `arg:"--payment-method" help:"cash, check, venmo, cashapp, paypal, or direct_deposit"`
	RequiresInvoice bool     `arg:"--requires-invoice" help:"venue requires an invoice before paying"`
	HasW9           bool     `arg:"--has-w9" help:"venue has a W-9 on file"`
	WindowStart     *int     `arg:"--window-start" help:"booking window start day of month (1-31)"`
	WindowEnd       *int     `arg:"--window-end" help:"booking window end day of month (1-31)"`
	Notes           string   `arg:"--notes"`
}

type venuesCmd struct {
	Search string `arg:"--search,-s" help:"filter venues by name"`
}

type addShowCmd struct {
	VenueID   int64    `arg:"positional" help:"venue ID"`
	Date      string   `arg:"positional" help:"show date (YYYY-MM-DD)"`
	StartTime string   `arg:"--start" help:"start time (HH:MM)"`
	EndTime   string   `arg:"--end" help:"end time (HH:MM)"`
	Pay       *float64 `arg:"--pay" help:"pay amount"`
	Notes     string   `arg:"--notes"`
}

type editShowCmd struct {
	ShowID    int64    `arg:"positional" help:"show ID"`
	Date      string   `arg:"--date" help:"new show date (YYYY-MM-DD)"`
	StartTime string   `arg:"--start" help:"start time (HH:MM)"`
	EndTime   string   `arg:"--end" help:"end time (HH:MM)"`
	Pay       *float64 `arg:"--pay" help:"pay amount"`
	Notes     string   `arg:"--notes"`
	Cancel    bool     `arg:"--cancel" help:"mark the show cancelled"`
}

type deleteShowCmd struct {
	ShowID int64 `arg:"positional" help:"show ID"`
}

type deleteGigCmd struct {
	GigID      int64 `arg:"positional" help:"recurring gig ID"`
	KeepFuture bool  `arg:"--keep-future" help:"leave already-generated future shows in place"`
}

type showsCmd struct {
	Upcoming bool `arg:"--upcoming" help:"only shows from today on"`
	Unpaid   bool `arg:"--unpaid" help:"only past unpaid shows"`
}

type markPaidCmd struct {
	ShowID int64  `arg:"positional" help:"show ID"`
	Date   string `arg:"--date" help:"payment received date (YYYY-MM-DD), defaults to today"`
}

type markInvoicedCmd struct {
	ShowID int64  `arg:"positional" help:"show ID"`
	Date   string `arg:"--date" help:"invoice sent date (YYYY-MM-DD), defaults to today"`
}

type addGigCmd struct {
	VenueID       int64    `arg:"positional" help:"venue ID"`
	Pattern       string   `arg:"positional" help:"weekly, biweekly, monthly_date, monthly_ordinal, or custom"`
	StartDate     string   `arg:"positional" help:"anchor date (YYYY-MM-DD)"`
	DayOfWeek     *int     `arg:"--day-of-week" help:"0-6 with Monday=0"`
	DayOfMonth    *int     `arg:"--day-of-month" help:"1-31, short months clamp"`
	Ordinal       *int     `arg:"--ordinal" help:"1-5, e.g. 2 for the 2nd weekday of the month"`
	IntervalWeeks *int     `arg:"--interval-weeks" help:"weeks between occurrences (custom pattern)"`
	EndDate       string   `arg:"--end-date" help:"last date the gig runs (YYYY-MM-DD)"`
	Pay           *float64 `arg:"--pay" help:"pay amount inherited by generated shows"`
}

type logContactCmd struct {
	VenueID  int64  `arg:"positional" help:"venue ID"`
	Method   string `arg:"positional" help:"email, phone, in_person, or other"`
	Outcome  string `arg:"--outcome" help:"booked, declined, awaiting_response, follow_up_needed, or other"`
	FollowUp string `arg:"--follow-up" help:"follow-up date (YYYY-MM-DD)"`
	Notes    string `arg:"--notes"`
}

type generateCmd struct {
	Days int `arg:"--days" default:"90" help:"how many days ahead to materialize shows"`
}

type reportCmd struct{}

type taxCmd struct {
	Year int `arg:"positional" default:"0" help:"tax year, defaults to the current year"`
}

type exportCalendarCmd struct {
	Output     string `arg:"--output,-o" default:"gigsly-calendar.ics" help:"output ICS file path"`
	FutureOnly bool   `arg:"--future-only" help:"only export future shows"`
}

type importCalendarCmd struct {
	Filepath string `arg:"positional" help:"ICS file to import"`
	DryRun   bool   `arg:"--dry-run" help:"preview without making changes"`
}

type backupCmd struct {
	Output string `arg:"--output,-o" help:"output file path, defaults to ~/.gigsly/backups/backup-YYYY-MM-DD.json"`
}

type exportJSONCmd struct {
	Output string `arg:"--output,-o" default:"gigsly-export.json" help:"output JSON file path"`
}

type restoreCmd struct {
	Filepath string `arg:"positional" help:"backup file to restore"`
	Merge    bool   `arg:"--merge" help:"merge with existing data instead of replacing"`
}

type cliArgs struct {
	AddVenue       *addVenueCmd       `arg:"subcommand:add-venue" help:"add a venue"`
	Venues         *venuesCmd         `arg:"subcommand:venues" help:"list venues"`
	AddShow        *addShowCmd        `arg:"subcommand:add-show" help:"add a show"`
	EditShow       *editShowCmd       `arg:"subcommand:edit-show" help:"edit a show"`
	DeleteShow     *deleteShowCmd     `arg:"subcommand:delete-show" help:"delete a show"`
	DeleteGig      *deleteGigCmd      `arg:"subcommand:delete-gig" help:"delete a recurring gig"`
	Shows          *showsCmd          `arg:"subcommand:shows" help:"list shows"`
	MarkPaid       *markPaidCmd       `arg:"subcommand:mark-paid" help:"record payment for a show"`
	MarkInvoiced   *markInvoicedCmd   `arg:"subcommand:mark-invoiced" help:"record an invoice sent for a show"`
	AddGig         *addGigCmd         `arg:"subcommand:add-gig" help:"add a recurring gig"`
	LogContact     *logContactCmd     `arg:"subcommand:log-contact" help:"log venue outreach"`
	Generate       *generateCmd       `arg:"subcommand:generate" help:"materialize shows from recurring gigs"`
	Report         *reportCmd         `arg:"subcommand:report" help:"show the smart report"`
	Tax            *taxCmd            `arg:"subcommand:tax" help:"show a yearly tax report"`
	ExportCalendar *exportCalendarCmd `arg:"subcommand:export-calendar" help:"export shows to an ICS file"`
	ImportCalendar *importCalendarCmd `arg:"subcommand:import-calendar" help:"import shows from an ICS file"`
	Backup         *backupCmd         `arg:"subcommand:backup" help:"write a JSON backup"`
	ExportJSON     *exportJSONCmd     `arg:"subcommand:export-json" help:"write a human-readable JSON export"`
	Restore        *restoreCmd        `arg:"subcommand:restore" help:"restore from a JSON backup"`
}

func (cliArgs) Description() string {
	return "gigsly - track gigs, venues, payments, and booking outreach"
}

func (cliArgs) Version() string {
	return "gigsly " + Version
}

// openStore opens the SQLite-backed store and returns a close function.
func openStore() (*storage.Store, func(), error) {
	dbPath, err := storage.ResolveDBPath()
	if err != nil {
		return nil, nil, fmt.Errorf("resolve db path: %w", err)
	}

	sqlDB, err := storage.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}

	st, err := storage.New(sqlDB)
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("new store: %w", err)
	}

	return st, func() { _ = sqlDB.Close() }, nil
}

func loadConfig() (*config.Config, error) {
	path, err := config.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	return config.Load(path)
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func parseDateArg(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return core.DateOf(t), nil
}

func parseDateArgOrToday(s string, today time.Time) (time.Time, error) {
	if s == "" {
		return today, nil
	}
	return parseDateArg(s)
}

func cmdAddVenue(c *addVenueCmd) int {
	st, closeDB, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "add-venue: %v\n", err)
		return 1
	}
	defer closeDB()

	venue := core.Venue{
		Name:               strings.TrimSpace(c.Name),
		Location:           strPtr(c.Location),
		Address:            strPtr(c.Address),
		ContactName:        strPtr(c.ContactName),
		ContactEmail:       strPtr(c.ContactEmail),
		ContactPhone:       strPtr(c.ContactPhone),
		MileageOneWay:      c.Mileage,
		TypicalPay:         c.Pay,
		RequiresInvoice:    c.RequiresInvoice,
		HasW9:              c.HasW9,
		BookingWindowStart: c.WindowStart,
		BookingWindowEnd:   c.WindowEnd,
		Notes:              strPtr(c.Notes),
	}
	if c.PaymentMethod != "" {
		method := core.PaymentMethod(c.PaymentMethod)
		venue.PaymentMethod = &method
	}

	id, err := st.CreateVenue(venue)
	if err != nil {
		fmt.Fprintf(os.Stderr, "add-venue: %v\n", err)
		return 1
	}
	fmt.Printf("Added venue #%d: %s\n", id, venue.Name)
	return 0
}

func cmdVenues(c *venuesCmd) int {
	st, closeDB, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "venues: %v\n", err)
		return 1
	}
	defer closeDB()

	var venues []core.Venue
	if c.Search != "" {
		venues, err = st.SearchVenues(c.Search)
	} else {
		venues, err = st.ListVenues()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "venues: %v\n", err)
		return 1
	}

	if len(venues) == 0 {
		fmt.Println("No venues.")
		return 0
	}

	today := core.DateOf(time.Now())
	for _, v := range venues {
		line := fmt.Sprintf("#%d %s", v.ID, v.Name)
		if v.Location != nil {
			line += fmt.Sprintf(" (%s)", *v.Location)
		}
		if core.IsBookingWindowOpen(v, today) {
			line += " [booking window open]"
		}
		fmt.Println(line)
	}
	return 0
}

func cmdAddShow(c *addShowCmd) int {
	date, err := parseDateArg(c.Date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "add-show: %v\n", err)
		return 1
	}

	st, closeDB, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "add-show: %v\n", err)
		return 1
	}
	defer closeDB()

	show := core.Show{
		VenueID:   &c.VenueID,
		Date:      date,
		StartTime: strPtr(c.StartTime),
		EndTime:   strPtr(c.EndTime),
		PayAmount: c.Pay,
		Notes:     strPtr(c.Notes),
	}
	id, err := st.CreateShow(show)
	if err != nil {
		fmt.Fprintf(os.Stderr, "add-show: %v\n", err)
		return 1
	}
	fmt.Printf("Added show #%d on %s\n", id, c.Date)
	return 0
}

func cmdShows(c *showsCmd) int {
	st, closeDB, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "shows: %v\n", err)
		return 1
	}
	defer closeDB()

	today := core.DateOf(time.Now())

	var shows []core.Show
	switch {
	case c.Unpaid:
		shows, err = st.ListUnpaidShows(today)
	case c.Upcoming:
		shows, err = st.ListUpcomingShows(today)
	default:
		shows, err = st.ListShows()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "shows: %v\n", err)
		return 1
	}

	if len(shows) == 0 {
		fmt.Println("No shows.")
		return 0
	}

	venues, err := st.ListVenues()
	if err != nil {
		fmt.Fprintf(os.Stderr, "shows: %v\n", err)
		return 1
	}
	index := ics.VenueIndex(venues)

	for _, show := range shows {
		var venue *core.Venue
		if show.VenueID != nil {
			if v, ok := index[*show.VenueID]; ok {
				venue = &v
			}
		}

		line := fmt.Sprintf("#%d %s  %s", show.ID, show.Date.Format(dateLayout), show.DisplayName(venue))
		if show.PayAmount != nil {
			line += fmt.Sprintf("  $%.2f", *show.PayAmount)
		}
		status, _ := core.PaymentStatusDisplay(show, today)
		line += "  " + status
		if show.IsCancelled {
			line += "  [cancelled]"
		}
		fmt.Println(line)
	}
	return 0
}

func cmdEditShow(c *editShowCmd) int {
	st, closeDB, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "edit-show: %v\n", err)
		return 1
	}
	defer closeDB()

	show, err := st.GetShow(c.ShowID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "edit-show: %v\n", err)
		return 1
	}

	if c.Date != "" {
		date, err := parseDateArg(c.Date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "edit-show: %v\n", err)
			return 1
		}
		show.Date = date
	}
	if c.StartTime != "" {
		show.StartTime = strPtr(c.StartTime)
	}
	if c.EndTime != "" {
		show.EndTime = strPtr(c.EndTime)
	}
	if c.Pay != nil {
		show.PayAmount = c.Pay
	}
	if c.Notes != "" {
		show.Notes = strPtr(c.Notes)
	}
	if c.Cancel {
		show.IsCancelled = true
	}

	if err := st.UpdateShow(show); err != nil {
		fmt.Fprintf(os.Stderr, "edit-show: %v\n", err)
		return 1
	}
	fmt.Printf("Show #%d updated\n", c.ShowID)
	return 0
}

func cmdDeleteShow(c *deleteShowCmd) int {
	st, closeDB, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "delete-show: %v\n", err)
		return 1
	}
	defer closeDB()

	if err := st.DeleteShow(c.ShowID); err != nil {
		fmt.Fprintf(os.Stderr, "delete-show: %v\n", err)
		return 1
	}
	fmt.Printf("Show #%d deleted\n", c.ShowID)
	return 0
}

func cmdDeleteGig(c *deleteGigCmd) int {
	st, closeDB, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "delete-gig: %v\n", err)
		return 1
	}
	defer closeDB()

	today := core.DateOf(time.Now())
	if err := st.DeleteRecurringGig(c.GigID, !c.KeepFuture, today); err != nil {
		fmt.Fprintf(os.Stderr, "delete-gig: %v\n", err)
		return 1
	}
	if c.KeepFuture {
		fmt.Printf("Recurring gig #%d deleted\n", c.GigID)
	} else {
		fmt.Printf("Recurring gig #%d deleted, future shows cancelled\n", c.GigID)
	}
	return 0
}

func cmdMarkPaid(c *markPaidCmd) int {
	today := core.DateOf(time.Now())
	date, err := parseDateArgOrToday(c.Date, today)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mark-paid: %v\n", err)
		return 1
	}

	st, closeDB, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "mark-paid: %v\n", err)
		return 1
	}
	defer closeDB()

	if err := st.MarkShowPaid(c.ShowID, date); err != nil {
		fmt.Fprintf(os.Stderr, "mark-paid: %v\n", err)
		return 1
	}
	fmt.Printf("Show #%d marked paid\n", c.ShowID)
	return 0
}

func cmdMarkInvoiced(c *markInvoicedCmd) int {
	today := core.DateOf(time.Now())
	date, err := parseDateArgOrToday(c.Date, today)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mark-invoiced: %v\n", err)
		return 1
	}

	st, closeDB, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "mark-invoiced: %v\n", err)
		return 1
	}
	defer closeDB()

	if err := st.MarkInvoiceSent(c.ShowID, date); err != nil {
		fmt.Fprintf(os.Stderr, "mark-invoiced: %v\n", err)
		return 1
	}
	fmt.Printf("Show #%d marked invoiced\n", c.ShowID)
	return 0
}

func cmdAddGig(c *addGigCmd) int {
	start, err := parseDateArg(c.StartDate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "add-gig: %v\n", err)
		return 1
	}

	gig := core.RecurringGig{
		VenueID:       c.VenueID,
		PayAmount:     c.Pay,
		Pattern:       core.PatternType(c.Pattern),
		DayOfWeek:     c.DayOfWeek,
		DayOfMonth:    c.DayOfMonth,
		Ordinal:       c.Ordinal,
		IntervalWeeks: c.IntervalWeeks,
		StartDate:     start,
	}
	if c.EndDate != "" {
		end, err := parseDateArg(c.EndDate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "add-gig: %v\n", err)
			return 1
		}
		gig.EndDate = &end
	}

	st, closeDB, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "add-gig: %v\n", err)
		return 1
	}
	defer closeDB()

	id, err := st.CreateRecurringGig(gig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "add-gig: %v\n", err)
		return 1
	}
	fmt.Printf("Added recurring gig #%d\n", id)
	return 0
}

func cmdLogContact(c *logContactCmd) int {
	log := core.ContactLog{
		VenueID:     c.VenueID,
		ContactedAt: time.Now().UTC(),
		Method:      core.ContactMethod(c.Method),
		Notes:       strPtr(c.Notes),
	}
	if c.Outcome != "" {
		outcome := core.ContactOutcome(c.Outcome)
		log.Outcome = &outcome
	}
	if c.FollowUp != "" {
		followUp, err := parseDateArg(c.FollowUp)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log-contact: %v\n", err)
			return 1
		}
		log.FollowUpDate = &followUp
	}

	st, closeDB, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "log-contact: %v\n", err)
		return 1
	}
	defer closeDB()

	id, err := st.CreateContactLog(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log-contact: %v\n", err)
		return 1
	}
	fmt.Printf("Logged contact #%d\n", id)
	return 0
}

func cmdGenerate(c *generateCmd) int {
	if c.Days <= 0 {
		fmt.Fprintln(os.Stderr, "generate: --days must be positive")
		return 1
	}

	st, closeDB, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate: %v\n", err)
		return 1
	}
	defer closeDB()

	today := core.DateOf(time.Now())
	until := today.AddDate(0, 0, c.Days)

	gigs, err := st.ListActiveRecurringGigs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate: %v\n", err)
		return 1
	}

	total := 0
	for _, gig := range gigs {
		created, err := st.GenerateShows(gig, today, until)
		if err != nil {
			fmt.Fprintf(os.Stderr, "generate: gig #%d: %v\n", gig.ID, err)
			return 1
		}
		total += created
	}
	fmt.Printf("Generated %d shows through %s\n", total, until.Format(dateLayout))
	return 0
}

func cmdReport() int {
	st, closeDB, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "report: %v\n", err)
		return 1
	}
	defer closeDB()

	today := core.DateOf(time.Now())

	venues, err := st.ListVenues()
	if err != nil {
		fmt.Fprintf(os.Stderr, "report: %v\n", err)
		return 1
	}
	unpaid, err := st.ListUnpaidShows(today)
	if err != nil {
		fmt.Fprintf(os.Stderr, "report: %v\n", err)
		return 1
	}

	r := report.BuildSmartReport(venues, unpaid, today)
	useColor := term.IsTerminal(int(os.Stdout.Fd()))
	report.RenderSmart(os.Stdout, r, useColor)
	return 0
}

func cmdTax(c *taxCmd) int {
	year := c.Year
	if year == 0 {
		year = time.Now().Year()
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tax: %v\n", err)
		return 1
	}

	st, closeDB, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tax: %v\n", err)
		return 1
	}
	defer closeDB()

	shows, err := st.ListShowsForYear(year)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tax: %v\n", err)
		return 1
	}
	venues, err := st.ListVenues()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tax: %v\n", err)
		return 1
	}

	r := report.BuildTaxReport(shows, venues, year, cfg.MileageRate(year))
	report.RenderTax(os.Stdout, r)
	return 0
}

func cmdExportCalendar(c *exportCalendarCmd) int {
	st, closeDB, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "export-calendar: %v\n", err)
		return 1
	}
	defer closeDB()

	shows, err := st.ListShows()
	if err != nil {
		fmt.Fprintf(os.Stderr, "export-calendar: %v\n", err)
		return 1
	}
	venues, err := st.ListVenues()
	if err != nil {
		fmt.Fprintf(os.Stderr, "export-calendar: %v\n", err)
		return 1
	}

	today := core.DateOf(time.Now())
	count, err := ics.ExportFile(c.Output, shows, ics.VenueIndex(venues), c.FutureOnly, today)
	if err != nil {
		fmt.Fprintf(os.Stderr, "export-calendar: %v\n", err)
		return 1
	}
	fmt.Printf("Exported %d shows to %s\n", count, c.Output)
	return 0
}

func cmdImportCalendar(c *importCalendarCmd) int {
	st, closeDB, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "import-calendar: %v\n", err)
		return 1
	}
	defer closeDB()

	stats, err := ics.ImportFile(c.Filepath, st, c.DryRun)
	if err != nil {
		fmt.Fprintf(os.Stderr, "import-calendar: %v\n", err)
		return 1
	}

	if c.DryRun {
		fmt.Println("Dry run - no changes made:")
	}
	fmt.Printf("Shows: %d created, %d skipped\n", stats.ShowsCreated, stats.ShowsSkipped)
	if stats.VenuesCreated > 0 {
		fmt.Printf("Venues: %d created\n", stats.VenuesCreated)
	}
	return 0
}

func cmdBackup(c *backupCmd) int {
	now := time.Now()

	path := c.Output
	if path == "" {
		var err error
		path, err = backup.DefaultPath(now)
		if err != nil {
			fmt.Fprintf(os.Stderr, "backup: %v\n", err)
			return 1
		}
	}

	st, closeDB, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "backup: %v\n", err)
		return 1
	}
	defer closeDB()

	if err := backup.Create(st, path, false, now); err != nil {
		fmt.Fprintf(os.Stderr, "backup: %v\n", err)
		return 1
	}
	fmt.Printf("Backup created: %s\n", path)
	return 0
}

func cmdExportJSON(c *exportJSONCmd) int {
	st, closeDB, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "export-json: %v\n", err)
		return 1
	}
	defer closeDB()

	if err := backup.Create(st, c.Output, true, time.Now()); err != nil {
		fmt.Fprintf(os.Stderr, "export-json: %v\n", err)
		return 1
	}
	fmt.Printf("Exported to %s\n", c.Output)
	return 0
}

func cmdRestore(c *restoreCmd) int {
	st, closeDB, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "restore: %v\n", err)
		return 1
	}
	defer closeDB()

	mode := backup.ModeReplace
	if c.Merge {
		mode = backup.ModeMerge
	}

	stats, err := backup.Restore(st, c.Filepath, mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "restore: %v\n", err)
		return 1
	}
	fmt.Printf("Restored: %d venues, %d shows, %d gigs, %d contact logs\n",
		stats.Venues, stats.Shows, stats.RecurringGigs, stats.ContactLogs)
	return 0
}

func main() {
	var args cliArgs
	parser := arg.MustParse(&args)

	var code int
	switch {
	case args.AddVenue != nil:
		code = cmdAddVenue(args.AddVenue)
	case args.Venues != nil:
		code = cmdVenues(args.Venues)
	case args.AddShow != nil:
		code = cmdAddShow(args.AddShow)
	case args.EditShow != nil:
		code = cmdEditShow(args.EditShow)
	case args.DeleteShow != nil:
		code = cmdDeleteShow(args.DeleteShow)
	case args.DeleteGig != nil:
		code = cmdDeleteGig(args.DeleteGig)
	case args.Shows != nil:
		code = cmdShows(args.Shows)
	case args.MarkPaid != nil:
		code = cmdMarkPaid(args.MarkPaid)
	case args.MarkInvoiced != nil:
		code = cmdMarkInvoiced(args.MarkInvoiced)
	case args.AddGig != nil:
		code = cmdAddGig(args.AddGig)
	case args.LogContact != nil:
		code = cmdLogContact(args.LogContact)
	case args.Generate != nil:
		code = cmdGenerate(args.Generate)
	case args.Report != nil:
		code = cmdReport()
	case args.Tax != nil:
		code = cmdTax(args.Tax)
	case args.ExportCalendar != nil:
		code = cmdExportCalendar(args.ExportCalendar)
	case args.ImportCalendar != nil:
		code = cmdImportCalendar(args.ImportCalendar)
	case args.Backup != nil:
		code = cmdBackup(args.Backup)
	case args.ExportJSON != nil:
		code = cmdExportJSON(args.ExportJSON)
	case args.Restore != nil:
		code = cmdRestore(args.Restore)
	default:
		parser.WriteHelp(os.Stdout)
	}
	os.Exit(code)
}
