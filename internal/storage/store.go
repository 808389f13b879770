package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rlt-lab/gigsly/internal/core"
)

// dateLayout is how calendar dates are stored. ISO ordering keeps the
// end_date >= start_date CHECK meaningful as a string comparison.
const dateLayout = "2006-01-02"

// Store provides SQLite-backed persistence for venues, shows,
// recurring gigs, and contact logs.
type Store struct {
	db *sql.DB
}

// New returns a Store bound to an existing database handle.
func New(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &Store{db: db}, nil
}

func formatDate(t time.Time) string {
	return core.DateOf(t).Format(dateLayout)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return core.DateOf(t), nil
}

func nullableDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatDate(*t)
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func nullableInt(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

// CreateVenue inserts a new venue and returns its ID.
func (s *Store) CreateVenue(venue core.Venue) (int64, error) {
	if s == nil || s.db == nil {
		return -1, fmt.Errorf("create venue: store is nil")
	}
	if strings.TrimSpace(venue.Name) == "" {
		return -1, fmt.Errorf("create venue: name is empty")
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)

	var method any
	if venue.PaymentMethod != nil {
		method = string(*venue.PaymentMethod)
	}

	result, err := s.db.Exec(`
		INSERT INTO venues (name, location, address, contact_name, contact_email, contact_phone,
		                    mileage_one_way, typical_pay, payment_method, requires_invoice, has_w9,
		                    booking_window_start, booking_window_end, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		venue.Name,
		nullableString(venue.Location),
		nullableString(venue.Address),
		nullableString(venue.ContactName),
		nullableString(venue.ContactEmail),
		nullableString(venue.ContactPhone),
		nullableFloat(venue.MileageOneWay),
		nullableFloat(venue.TypicalPay),
		method,
		venue.RequiresInvoice,
		venue.HasW9,
		nullableInt(venue.BookingWindowStart),
		nullableInt(venue.BookingWindowEnd),
		nullableString(venue.Notes),
		now,
		now,
	)
	if err != nil {
		return -1, fmt.Errorf("create venue: insert: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return -1, fmt.Errorf("create venue: last insert id: %w", err)
	}
	return id, nil
}

const venueColumns = `id, name, location, address, contact_name, contact_email, contact_phone,
	mileage_one_way, typical_pay, payment_method, requires_invoice, has_w9,
	booking_window_start, booking_window_end, notes, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVenue(row rowScanner) (core.Venue, error) {
	var venue core.Venue
	var location, address, contactName, contactEmail, contactPhone, method, notes sql.NullString
	var mileage, typicalPay sql.NullFloat64
	var windowStart, windowEnd sql.NullInt64
	var createdAtStr, updatedAtStr string

	err := row.Scan(&venue.ID, &venue.Name, &location, &address, &contactName, &contactEmail,
		&contactPhone, &mileage, &typicalPay, &method, &venue.RequiresInvoice, &venue.HasW9,
		&windowStart, &windowEnd, &notes, &createdAtStr, &updatedAtStr)
	if err != nil {
		return core.Venue{}, err
	}

	if location.Valid {
		v := location.String
		venue.Location = &v
	}
	if address.Valid {
		v := address.String
		venue.Address = &v
	}
	if contactName.Valid {
		v := contactName.String
		venue.ContactName = &v
	}
	if contactEmail.Valid {
		v := contactEmail.String
		venue.ContactEmail = &v
	}
	if contactPhone.Valid {
		v := contactPhone.String
		venue.ContactPhone = &v
	}
	if mileage.Valid {
		v := mileage.Float64
		venue.MileageOneWay = &v
	}
	if typicalPay.Valid {
		v := typicalPay.Float64
		venue.TypicalPay = &v
	}
	if method.Valid {
		v := core.PaymentMethod(method.String)
		venue.PaymentMethod = &v
	}
	if windowStart.Valid {
		v := int(windowStart.Int64)
		venue.BookingWindowStart = &v
	}
	if windowEnd.Valid {
		v := int(windowEnd.Int64)
		venue.BookingWindowEnd = &v
	}
	if notes.Valid {
		v := notes.String
		venue.Notes = &v
	}

	venue.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAtStr)
	if err != nil {
		return core.Venue{}, fmt.Errorf("parse created_at: %w", err)
	}
	venue.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAtStr)
	if err != nil {
		return core.Venue{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return venue, nil
}

// GetVenue returns a venue snapshot with its shows and contact logs loaded.
func (s *Store) GetVenue(id int64) (core.Venue, error) {
	if s == nil || s.db == nil {
		return core.Venue{}, fmt.Errorf("get venue: store is nil")
	}
	if id <= 0 {
		return core.Venue{}, fmt.Errorf("get venue: invalid venue ID")
	}

	row := s.db.QueryRow(`SELECT `+venueColumns+` FROM venues WHERE id = ?`, id)
	venue, err := scanVenue(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Venue{}, fmt.Errorf("get venue: not found")
		}
		return core.Venue{}, fmt.Errorf("get venue: scan: %w", err)
	}

	venue.Shows, err = s.listShowsWhere(`venue_id = ?`, id)
	if err != nil {
		return core.Venue{}, fmt.Errorf("get venue: shows: %w", err)
	}
	venue.ContactLogs, err = s.ListContactLogsForVenue(id)
	if err != nil {
		return core.Venue{}, fmt.Errorf("get venue: contact logs: %w", err)
	}
	return venue, nil
}

// ListVenues returns all venues ordered by name, each with its shows
// and contact logs loaded so scoring sees complete snapshots.
func (s *Store) ListVenues() ([]core.Venue, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("list venues: store is nil")
	}

	rows, err := s.db.Query(`SELECT ` + venueColumns + ` FROM venues ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list venues: query: %w", err)
	}
	defer rows.Close()

	venues := make([]core.Venue, 0)
	for rows.Next() {
		venue, err := scanVenue(rows)
		if err != nil {
			return nil, fmt.Errorf("list venues: scan: %w", err)
		}
		venues = append(venues, venue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list venues: rows: %w", err)
	}

	for i := range venues {
		venues[i].Shows, err = s.listShowsWhere(`venue_id = ?`, venues[i].ID)
		if err != nil {
			return nil, fmt.Errorf("list venues: shows: %w", err)
		}
		venues[i].ContactLogs, err = s.ListContactLogsForVenue(venues[i].ID)
		if err != nil {
			return nil, fmt.Errorf("list venues: contact logs: %w", err)
		}
	}
	return venues, nil
}

// SearchVenues returns venues whose name contains the query,
// case-insensitively, without relations loaded.
func (s *Store) SearchVenues(query string) ([]core.Venue, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("search venues: store is nil")
	}

	rows, err := s.db.Query(
		`SELECT `+venueColumns+` FROM venues WHERE name LIKE ? COLLATE NOCASE ORDER BY name ASC`,
		"%"+query+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("search venues: query: %w", err)
	}
	defer rows.Close()

	venues := make([]core.Venue, 0)
	for rows.Next() {
		venue, err := scanVenue(rows)
		if err != nil {
			return nil, fmt.Errorf("search venues: scan: %w", err)
		}
		venues = append(venues, venue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search venues: rows: %w", err)
	}
	return venues, nil
}

// UpdateVenue rewrites a venue row from the given snapshot.
func (s *Store) UpdateVenue(venue core.Venue) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("update venue: store is nil")
	}
	if venue.ID <= 0 {
		return fmt.Errorf("update venue: invalid venue ID")
	}
	if strings.TrimSpace(venue.Name) == "" {
		return fmt.Errorf("update venue: name is empty")
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)

	var method any
	if venue.PaymentMethod != nil {
		method = string(*venue.PaymentMethod)
	}

	result, err := s.db.Exec(`
		UPDATE venues SET name = ?, location = ?, address = ?, contact_name = ?, contact_email = ?,
		       contact_phone = ?, mileage_one_way = ?, typical_pay = ?, payment_method = ?,
		       requires_invoice = ?, has_w9 = ?, booking_window_start = ?, booking_window_end = ?,
		       notes = ?, updated_at = ?
		WHERE id = ?`,
		venue.Name,
		nullableString(venue.Location),
		nullableString(venue.Address),
		nullableString(venue.ContactName),
		nullableString(venue.ContactEmail),
		nullableString(venue.ContactPhone),
		nullableFloat(venue.MileageOneWay),
		nullableFloat(venue.TypicalPay),
		method,
		venue.RequiresInvoice,
		venue.HasW9,
		nullableInt(venue.BookingWindowStart),
		nullableInt(venue.BookingWindowEnd),
		nullableString(venue.Notes),
		now,
		venue.ID,
	)
	if err != nil {
		return fmt.Errorf("update venue: update: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update venue: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update venue: no rows updated (id=%d)", venue.ID)
	}
	return nil
}

// DeleteVenue removes a venue while preserving history: past shows keep
// a name snapshot and are detached, future shows are cancelled,
// recurring gigs are deactivated, and contact logs are removed with the
// venue.
func (s *Store) DeleteVenue(id int64, today time.Time) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("delete venue: store is nil")
	}
	if id <= 0 {
		return fmt.Errorf("delete venue: invalid venue ID")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("delete venue: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var name string
	row := tx.QueryRow(`SELECT name FROM venues WHERE id = ?`, id)
	if err := row.Scan(&name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("delete venue: not found")
		}
		return fmt.Errorf("delete venue: read name: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	todayStr := formatDate(today)

	_, err = tx.Exec(
		`UPDATE shows SET venue_name_snapshot = ?, venue_id = NULL, updated_at = ? WHERE venue_id = ? AND date < ?`,
		name, now, id, todayStr,
	)
	if err != nil {
		return fmt.Errorf("delete venue: snapshot past shows: %w", err)
	}

	_, err = tx.Exec(
		`UPDATE shows SET is_cancelled = 1, venue_name_snapshot = ?, venue_id = NULL, updated_at = ? WHERE venue_id = ? AND date >= ?`,
		name, now, id, todayStr,
	)
	if err != nil {
		return fmt.Errorf("delete venue: cancel future shows: %w", err)
	}

	// Gigs cannot outlive their venue; detach the generated shows first
	// so the gig rows can go.
	_, err = tx.Exec(
		`UPDATE shows SET recurring_gig_id = NULL, updated_at = ?
		 WHERE recurring_gig_id IN (SELECT id FROM recurring_gigs WHERE venue_id = ?)`,
		now, id,
	)
	if err != nil {
		return fmt.Errorf("delete venue: detach generated shows: %w", err)
	}
	_, err = tx.Exec(`DELETE FROM recurring_gigs WHERE venue_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete venue: delete gigs: %w", err)
	}

	_, err = tx.Exec(`DELETE FROM contact_logs WHERE venue_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete venue: delete contact logs: %w", err)
	}

	_, err = tx.Exec(`DELETE FROM venues WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete venue: delete: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete venue: commit: %w", err)
	}
	return nil
}

// CreateShow inserts a new show and returns its ID.
func (s *Store) CreateShow(show core.Show) (int64, error) {
	if s == nil || s.db == nil {
		return -1, fmt.Errorf("create show: store is nil")
	}
	if show.Date.IsZero() {
		return -1, fmt.Errorf("create show: date is required")
	}
	if show.PaymentStatus == "" {
		show.PaymentStatus = core.PaymentPending
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)

	var venueID any
	if show.VenueID != nil {
		venueID = *show.VenueID
	}
	var gigID any
	if show.RecurringGigID != nil {
		gigID = *show.RecurringGigID
	}

	result, err := s.db.Exec(`
		INSERT INTO shows (venue_id, recurring_gig_id, venue_name_snapshot, date, start_time, end_time,
		                   pay_amount, payment_status, payment_received_date, invoice_sent,
		                   invoice_sent_date, is_cancelled, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		venueID,
		gigID,
		nullableString(show.VenueNameSnapshot),
		formatDate(show.Date),
		nullableString(show.StartTime),
		nullableString(show.EndTime),
		nullableFloat(show.PayAmount),
		string(show.PaymentStatus),
		nullableDate(show.PaymentReceivedDate),
		show.InvoiceSent,
		nullableDate(show.InvoiceSentDate),
		show.IsCancelled,
		nullableString(show.Notes),
		now,
		now,
	)
	if err != nil {
		return -1, fmt.Errorf("create show: insert: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return -1, fmt.Errorf("create show: last insert id: %w", err)
	}
	return id, nil
}

const showColumns = `id, venue_id, recurring_gig_id, venue_name_snapshot, date, start_time, end_time,
	pay_amount, payment_status, payment_received_date, invoice_sent, invoice_sent_date,
	is_cancelled, notes, created_at, updated_at`

func scanShow(row rowScanner) (core.Show, error) {
	var show core.Show
	var venueID, gigID sql.NullInt64
	var snapshot, startTime, endTime, notes sql.NullString
	var payAmount sql.NullFloat64
	var statusStr, dateStr, createdAtStr, updatedAtStr string
	var receivedStr, invoiceSentStr sql.NullString

	err := row.Scan(&show.ID, &venueID, &gigID, &snapshot, &dateStr, &startTime, &endTime,
		&payAmount, &statusStr, &receivedStr, &show.InvoiceSent, &invoiceSentStr,
		&show.IsCancelled, &notes, &createdAtStr, &updatedAtStr)
	if err != nil {
		return core.Show{}, err
	}

	if venueID.Valid {
		v := venueID.Int64
		show.VenueID = &v
	}
	if gigID.Valid {
		v := gigID.Int64
		show.RecurringGigID = &v
	}
	if snapshot.Valid {
		v := snapshot.String
		show.VenueNameSnapshot = &v
	}
	if startTime.Valid {
		v := startTime.String
		show.StartTime = &v
	}
	if endTime.Valid {
		v := endTime.String
		show.EndTime = &v
	}
	if payAmount.Valid {
		v := payAmount.Float64
		show.PayAmount = &v
	}
	if notes.Valid {
		v := notes.String
		show.Notes = &v
	}
	show.PaymentStatus = core.PaymentStatus(statusStr)

	show.Date, err = parseDate(dateStr)
	if err != nil {
		return core.Show{}, fmt.Errorf("parse date: %w", err)
	}
	if receivedStr.Valid {
		d, err := parseDate(receivedStr.String)
		if err != nil {
			return core.Show{}, fmt.Errorf("parse payment_received_date: %w", err)
		}
		show.PaymentReceivedDate = &d
	}
	if invoiceSentStr.Valid {
		d, err := parseDate(invoiceSentStr.String)
		if err != nil {
			return core.Show{}, fmt.Errorf("parse invoice_sent_date: %w", err)
		}
		show.InvoiceSentDate = &d
	}

	show.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAtStr)
	if err != nil {
		return core.Show{}, fmt.Errorf("parse created_at: %w", err)
	}
	show.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAtStr)
	if err != nil {
		return core.Show{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return show, nil
}

func (s *Store) listShowsWhere(where string, args ...any) ([]core.Show, error) {
	query := `SELECT ` + showColumns + ` FROM shows`
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY date ASC, id ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	shows := make([]core.Show, 0)
	for rows.Next() {
		show, err := scanShow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		shows = append(shows, show)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return shows, nil
}

// ListShows returns every show ordered by date.
func (s *Store) ListShows() ([]core.Show, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("list shows: store is nil")
	}
	shows, err := s.listShowsWhere("")
	if err != nil {
		return nil, fmt.Errorf("list shows: %w", err)
	}
	return shows, nil
}

// ListUpcomingShows returns non-cancelled shows on or after today.
func (s *Store) ListUpcomingShows(today time.Time) ([]core.Show, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("list upcoming shows: store is nil")
	}
	shows, err := s.listShowsWhere(`date >= ? AND is_cancelled = 0`, formatDate(today))
	if err != nil {
		return nil, fmt.Errorf("list upcoming shows: %w", err)
	}
	return shows, nil
}

// ListUnpaidShows returns past shows whose payment is still pending.
func (s *Store) ListUnpaidShows(today time.Time) ([]core.Show, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("list unpaid shows: store is nil")
	}
	shows, err := s.listShowsWhere(`date < ? AND payment_status = 'pending'`, formatDate(today))
	if err != nil {
		return nil, fmt.Errorf("list unpaid shows: %w", err)
	}
	return shows, nil
}

// ListShowsInRange returns shows between from and to inclusive.
func (s *Store) ListShowsInRange(from, to time.Time) ([]core.Show, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("list shows in range: store is nil")
	}
	shows, err := s.listShowsWhere(`date >= ? AND date <= ?`, formatDate(from), formatDate(to))
	if err != nil {
		return nil, fmt.Errorf("list shows in range: %w", err)
	}
	return shows, nil
}

// ListShowsForYear returns every show dated in the given year.
func (s *Store) ListShowsForYear(year int) ([]core.Show, error) {
	return s.ListShowsInRange(core.Date(year, time.January, 1), core.Date(year, time.December, 31))
}

// GetShow returns a single show by ID.
func (s *Store) GetShow(id int64) (core.Show, error) {
	if s == nil || s.db == nil {
		return core.Show{}, fmt.Errorf("get show: store is nil")
	}

	row := s.db.QueryRow(`SELECT `+showColumns+` FROM shows WHERE id = ?`, id)
	show, err := scanShow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Show{}, fmt.Errorf("get show: not found (id=%d)", id)
		}
		return core.Show{}, fmt.Errorf("get show: scan: %w", err)
	}
	return show, nil
}

// UpdateShow rewrites a show row from the given snapshot.
func (s *Store) UpdateShow(show core.Show) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("update show: store is nil")
	}
	if show.ID <= 0 {
		return fmt.Errorf("update show: invalid show ID")
	}
	if show.Date.IsZero() {
		return fmt.Errorf("update show: date is required")
	}
	if show.PaymentStatus == "" {
		show.PaymentStatus = core.PaymentPending
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)

	var venueID any
	if show.VenueID != nil {
		venueID = *show.VenueID
	}
	var gigID any
	if show.RecurringGigID != nil {
		gigID = *show.RecurringGigID
	}

	result, err := s.db.Exec(`
		UPDATE shows SET venue_id = ?, recurring_gig_id = ?, venue_name_snapshot = ?, date = ?,
		       start_time = ?, end_time = ?, pay_amount = ?, payment_status = ?,
		       payment_received_date = ?, invoice_sent = ?, invoice_sent_date = ?,
		       is_cancelled = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		venueID,
		gigID,
		nullableString(show.VenueNameSnapshot),
		formatDate(show.Date),
		nullableString(show.StartTime),
		nullableString(show.EndTime),
		nullableFloat(show.PayAmount),
		string(show.PaymentStatus),
		nullableDate(show.PaymentReceivedDate),
		show.InvoiceSent,
		nullableDate(show.InvoiceSentDate),
		show.IsCancelled,
		nullableString(show.Notes),
		now,
		show.ID,
	)
	if err != nil {
		return fmt.Errorf("update show: update: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update show: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update show: no rows updated (id=%d)", show.ID)
	}
	return nil
}

// DeleteShow removes a single show outright. Cancelling is usually the
// better record; deletion is for shows entered by mistake.
func (s *Store) DeleteShow(id int64) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("delete show: store is nil")
	}
	if id <= 0 {
		return fmt.Errorf("delete show: invalid show ID")
	}

	result, err := s.db.Exec(`DELETE FROM shows WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete show: delete: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete show: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete show: no rows deleted (id=%d)", id)
	}
	return nil
}

// MarkShowPaid records a payment against a show.
func (s *Store) MarkShowPaid(id int64, receivedDate time.Time) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("mark show paid: store is nil")
	}
	if id <= 0 {
		return fmt.Errorf("mark show paid: invalid show ID")
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	result, err := s.db.Exec(
		`UPDATE shows SET payment_status = 'paid', payment_received_date = ?, updated_at = ? WHERE id = ?`,
		formatDate(receivedDate), now, id,
	)
	if err != nil {
		return fmt.Errorf("mark show paid: update: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark show paid: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("mark show paid: no rows updated (id=%d)", id)
	}
	return nil
}

// MarkInvoiceSent records that a show's invoice went out.
func (s *Store) MarkInvoiceSent(id int64, sentDate time.Time) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("mark invoice sent: store is nil")
	}
	if id <= 0 {
		return fmt.Errorf("mark invoice sent: invalid show ID")
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	result, err := s.db.Exec(
		`UPDATE shows SET invoice_sent = 1, invoice_sent_date = ?, updated_at = ? WHERE id = ?`,
		formatDate(sentDate), now, id,
	)
	if err != nil {
		return fmt.Errorf("mark invoice sent: update: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark invoice sent: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("mark invoice sent: no rows updated (id=%d)", id)
	}
	return nil
}

// CreateRecurringGig inserts a new recurring gig and returns its ID.
func (s *Store) CreateRecurringGig(gig core.RecurringGig) (int64, error) {
	if s == nil || s.db == nil {
		return -1, fmt.Errorf("create recurring gig: store is nil")
	}
	if gig.VenueID <= 0 {
		return -1, fmt.Errorf("create recurring gig: invalid venue ID")
	}
	if gig.StartDate.IsZero() {
		return -1, fmt.Errorf("create recurring gig: start date is required")
	}

	// Reject malformed patterns at the data-entry boundary, not at
	// generation time.
	if _, err := core.Occurrences(gig, gig.StartDate, gig.StartDate); err != nil {
		return -1, fmt.Errorf("create recurring gig: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)

	result, err := s.db.Exec(`
		INSERT INTO recurring_gigs (venue_id, pay_amount, pattern_type, day_of_week, day_of_month,
		                            ordinal, interval_weeks, start_date, end_date, is_active,
		                            created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		gig.VenueID,
		nullableFloat(gig.PayAmount),
		string(gig.Pattern),
		nullableInt(gig.DayOfWeek),
		nullableInt(gig.DayOfMonth),
		nullableInt(gig.Ordinal),
		nullableInt(gig.IntervalWeeks),
		formatDate(gig.StartDate),
		nullableDate(gig.EndDate),
		true,
		now,
		now,
	)
	if err != nil {
		return -1, fmt.Errorf("create recurring gig: insert: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return -1, fmt.Errorf("create recurring gig: last insert id: %w", err)
	}
	return id, nil
}

func scanRecurringGig(row rowScanner) (core.RecurringGig, error) {
	var gig core.RecurringGig
	var payAmount sql.NullFloat64
	var dayOfWeek, dayOfMonth, ordinal, intervalWeeks sql.NullInt64
	var patternStr, startDateStr, createdAtStr, updatedAtStr string
	var endDateStr sql.NullString

	err := row.Scan(&gig.ID, &gig.VenueID, &payAmount, &patternStr, &dayOfWeek, &dayOfMonth,
		&ordinal, &intervalWeeks, &startDateStr, &endDateStr, &gig.IsActive,
		&createdAtStr, &updatedAtStr)
	if err != nil {
		return core.RecurringGig{}, err
	}

	gig.Pattern = core.PatternType(patternStr)
	if payAmount.Valid {
		v := payAmount.Float64
		gig.PayAmount = &v
	}
	if dayOfWeek.Valid {
		v := int(dayOfWeek.Int64)
		gig.DayOfWeek = &v
	}
	if dayOfMonth.Valid {
		v := int(dayOfMonth.Int64)
		gig.DayOfMonth = &v
	}
	if ordinal.Valid {
		v := int(ordinal.Int64)
		gig.Ordinal = &v
	}
	if intervalWeeks.Valid {
		v := int(intervalWeeks.Int64)
		gig.IntervalWeeks = &v
	}

	gig.StartDate, err = parseDate(startDateStr)
	if err != nil {
		return core.RecurringGig{}, fmt.Errorf("parse start_date: %w", err)
	}
	if endDateStr.Valid {
		d, err := parseDate(endDateStr.String)
		if err != nil {
			return core.RecurringGig{}, fmt.Errorf("parse end_date: %w", err)
		}
		gig.EndDate = &d
	}

	gig.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAtStr)
	if err != nil {
		return core.RecurringGig{}, fmt.Errorf("parse created_at: %w", err)
	}
	gig.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAtStr)
	if err != nil {
		return core.RecurringGig{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return gig, nil
}

const gigColumns = `id, venue_id, pay_amount, pattern_type, day_of_week, day_of_month,
	ordinal, interval_weeks, start_date, end_date, is_active, created_at, updated_at`

func (s *Store) listGigsWhere(where string, args ...any) ([]core.RecurringGig, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("list recurring gigs: store is nil")
	}

	query := `SELECT ` + gigColumns + ` FROM recurring_gigs`
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY id ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recurring gigs: query: %w", err)
	}
	defer rows.Close()

	gigs := make([]core.RecurringGig, 0)
	for rows.Next() {
		gig, err := scanRecurringGig(rows)
		if err != nil {
			return nil, fmt.Errorf("list recurring gigs: scan: %w", err)
		}
		gigs = append(gigs, gig)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recurring gigs: rows: %w", err)
	}
	return gigs, nil
}

// ListRecurringGigs returns every recurring gig, active or not.
func (s *Store) ListRecurringGigs() ([]core.RecurringGig, error) {
	return s.listGigsWhere("")
}

// ListActiveRecurringGigs returns every active recurring gig.
func (s *Store) ListActiveRecurringGigs() ([]core.RecurringGig, error) {
	return s.listGigsWhere(`is_active = 1`)
}

// DeactivateRecurringGig stops future generation for a gig.
func (s *Store) DeactivateRecurringGig(id int64) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("deactivate recurring gig: store is nil")
	}
	if id <= 0 {
		return fmt.Errorf("deactivate recurring gig: invalid gig ID")
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	result, err := s.db.Exec(`UPDATE recurring_gigs SET is_active = 0, updated_at = ? WHERE id = ?`, now, id)
	if err != nil {
		return fmt.Errorf("deactivate recurring gig: update: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate recurring gig: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("deactivate recurring gig: no rows updated (id=%d)", id)
	}
	return nil
}

// UpdateRecurringGig rewrites a gig row from the given snapshot. The
// pattern is re-validated, same as on create.
func (s *Store) UpdateRecurringGig(gig core.RecurringGig) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("update recurring gig: store is nil")
	}
	if gig.ID <= 0 {
		return fmt.Errorf("update recurring gig: invalid gig ID")
	}
	if gig.VenueID <= 0 {
		return fmt.Errorf("update recurring gig: invalid venue ID")
	}
	if gig.StartDate.IsZero() {
		return fmt.Errorf("update recurring gig: start date is required")
	}
	if _, err := core.Occurrences(gig, gig.StartDate, gig.StartDate); err != nil {
		return fmt.Errorf("update recurring gig: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)

	result, err := s.db.Exec(`
		UPDATE recurring_gigs SET venue_id = ?, pay_amount = ?, pattern_type = ?, day_of_week = ?,
		       day_of_month = ?, ordinal = ?, interval_weeks = ?, start_date = ?, end_date = ?,
		       is_active = ?, updated_at = ?
		WHERE id = ?`,
		gig.VenueID,
		nullableFloat(gig.PayAmount),
		string(gig.Pattern),
		nullableInt(gig.DayOfWeek),
		nullableInt(gig.DayOfMonth),
		nullableInt(gig.Ordinal),
		nullableInt(gig.IntervalWeeks),
		formatDate(gig.StartDate),
		nullableDate(gig.EndDate),
		gig.IsActive,
		now,
		gig.ID,
	)
	if err != nil {
		return fmt.Errorf("update recurring gig: update: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update recurring gig: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update recurring gig: no rows updated (id=%d)", gig.ID)
	}
	return nil
}

// DeleteRecurringGig removes a gig row. With cancelFuture, generated
// shows on or after today are cancelled first; past shows always keep
// their history. Generated shows are detached so the gig row can go.
func (s *Store) DeleteRecurringGig(id int64, cancelFuture bool, today time.Time) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("delete recurring gig: store is nil")
	}
	if id <= 0 {
		return fmt.Errorf("delete recurring gig: invalid gig ID")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("delete recurring gig: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339Nano)

	if cancelFuture {
		_, err = tx.Exec(
			`UPDATE shows SET is_cancelled = 1, updated_at = ? WHERE recurring_gig_id = ? AND date >= ?`,
			now, id, formatDate(today),
		)
		if err != nil {
			return fmt.Errorf("delete recurring gig: cancel future shows: %w", err)
		}
	}

	_, err = tx.Exec(
		`UPDATE shows SET recurring_gig_id = NULL, updated_at = ? WHERE recurring_gig_id = ?`,
		now, id,
	)
	if err != nil {
		return fmt.Errorf("delete recurring gig: detach shows: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM recurring_gigs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recurring gig: delete: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete recurring gig: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete recurring gig: no rows deleted (id=%d)", id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete recurring gig: commit: %w", err)
	}
	return nil
}

// GetShowForRecurringDate returns the show generated from a recurring
// gig on a specific date, if one exists.
func (s *Store) GetShowForRecurringDate(gigID int64, date time.Time) (core.Show, bool, error) {
	if s == nil || s.db == nil {
		return core.Show{}, false, fmt.Errorf("get recurring show: store is nil")
	}

	row := s.db.QueryRow(
		`SELECT `+showColumns+` FROM shows WHERE recurring_gig_id = ? AND date = ? LIMIT 1`,
		gigID, formatDate(date),
	)
	show, err := scanShow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Show{}, false, nil
		}
		return core.Show{}, false, fmt.Errorf("get recurring show: scan: %w", err)
	}
	return show, true, nil
}

// GenerateShows materializes show rows for a recurring gig across the
// given window. Dates that already have a show for this gig are left
// alone, so repeated runs are idempotent. Returns how many shows were
// created.
func (s *Store) GenerateShows(gig core.RecurringGig, from, to time.Time) (int, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("generate shows: store is nil")
	}

	occurrences, err := core.Occurrences(gig, from, to)
	if err != nil {
		return 0, fmt.Errorf("generate shows: %w", err)
	}

	created := 0
	for _, date := range occurrences {
		_, exists, err := s.GetShowForRecurringDate(gig.ID, date)
		if err != nil {
			return created, fmt.Errorf("generate shows: %w", err)
		}
		if exists {
			continue
		}

		venueID := gig.VenueID
		gigID := gig.ID
		_, err = s.CreateShow(core.Show{
			VenueID:        &venueID,
			RecurringGigID: &gigID,
			Date:           date,
			PayAmount:      gig.PayAmount,
			PaymentStatus:  core.PaymentPending,
		})
		if err != nil {
			return created, fmt.Errorf("generate shows: %w", err)
		}
		created++
	}
	return created, nil
}

// CreateContactLog inserts a new contact log entry and returns its ID.
func (s *Store) CreateContactLog(log core.ContactLog) (int64, error) {
	if s == nil || s.db == nil {
		return -1, fmt.Errorf("create contact log: store is nil")
	}
	if log.VenueID <= 0 {
		return -1, fmt.Errorf("create contact log: invalid venue ID")
	}
	if log.ContactedAt.IsZero() {
		return -1, fmt.Errorf("create contact log: contacted_at is required")
	}
	if log.Method == "" {
		return -1, fmt.Errorf("create contact log: method is required")
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)

	var outcome any
	if log.Outcome != nil {
		outcome = string(*log.Outcome)
	}

	result, err := s.db.Exec(`
		INSERT INTO contact_logs (venue_id, contacted_at, method, outcome, follow_up_date, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		log.VenueID,
		log.ContactedAt.UTC().Format(time.RFC3339Nano),
		string(log.Method),
		outcome,
		nullableDate(log.FollowUpDate),
		nullableString(log.Notes),
		now,
	)
	if err != nil {
		return -1, fmt.Errorf("create contact log: insert: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return -1, fmt.Errorf("create contact log: last insert id: %w", err)
	}
	return id, nil
}

// ListContactLogsForVenue returns a venue's contact history, most
// recent last.
func (s *Store) ListContactLogsForVenue(venueID int64) ([]core.ContactLog, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("list contact logs: store is nil")
	}

	rows, err := s.db.Query(
		`SELECT id, venue_id, contacted_at, method, outcome, follow_up_date, notes, created_at
		 FROM contact_logs WHERE venue_id = ? ORDER BY contacted_at ASC, id ASC`,
		venueID,
	)
	if err != nil {
		return nil, fmt.Errorf("list contact logs: query: %w", err)
	}
	defer rows.Close()

	logs := make([]core.ContactLog, 0)
	for rows.Next() {
		var log core.ContactLog
		var contactedAtStr, methodStr, createdAtStr string
		var outcomeStr, followUpStr, notesStr sql.NullString

		err = rows.Scan(&log.ID, &log.VenueID, &contactedAtStr, &methodStr, &outcomeStr,
			&followUpStr, &notesStr, &createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("list contact logs: scan: %w", err)
		}

		log.Method = core.ContactMethod(methodStr)
		if outcomeStr.Valid {
			v := core.ContactOutcome(outcomeStr.String)
			log.Outcome = &v
		}
		if followUpStr.Valid {
			d, err := parseDate(followUpStr.String)
			if err != nil {
				return nil, fmt.Errorf("list contact logs: parse follow_up_date: %w", err)
			}
			log.FollowUpDate = &d
		}
		if notesStr.Valid {
			v := notesStr.String
			log.Notes = &v
		}

		log.ContactedAt, err = time.Parse(time.RFC3339Nano, contactedAtStr)
		if err != nil {
			return nil, fmt.Errorf("list contact logs: parse contacted_at: %w", err)
		}
		log.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("list contact logs: parse created_at: %w", err)
		}

		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list contact logs: rows: %w", err)
	}
	return logs, nil
}

// UpdateContactLog rewrites a contact log entry from the given snapshot.
func (s *Store) UpdateContactLog(log core.ContactLog) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("update contact log: store is nil")
	}
	if log.ID <= 0 {
		return fmt.Errorf("update contact log: invalid contact log ID")
	}
	if log.ContactedAt.IsZero() {
		return fmt.Errorf("update contact log: contacted_at is required")
	}
	if log.Method == "" {
		return fmt.Errorf("update contact log: method is required")
	}

	var outcome any
	if log.Outcome != nil {
		outcome = string(*log.Outcome)
	}

	result, err := s.db.Exec(`
		UPDATE contact_logs SET contacted_at = ?, method = ?, outcome = ?, follow_up_date = ?, notes = ?
		WHERE id = ?`,
		log.ContactedAt.UTC().Format(time.RFC3339Nano),
		string(log.Method),
		outcome,
		nullableDate(log.FollowUpDate),
		nullableString(log.Notes),
		log.ID,
	)
	if err != nil {
		return fmt.Errorf("update contact log: update: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update contact log: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update contact log: no rows updated (id=%d)", log.ID)
	}
	return nil
}

// DeleteContactLog removes a single contact log entry.
func (s *Store) DeleteContactLog(id int64) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("delete contact log: store is nil")
	}
	if id <= 0 {
		return fmt.Errorf("delete contact log: invalid contact log ID")
	}

	result, err := s.db.Exec(`DELETE FROM contact_logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete contact log: delete: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete contact log: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete contact log: no rows deleted (id=%d)", id)
	}
	return nil
}

// Wipe deletes all domain rows. Used by backup restore in replace mode.
func (s *Store) Wipe() error {
	if s == nil || s.db == nil {
		return fmt.Errorf("wipe: store is nil")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("wipe: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Children before parents to satisfy foreign keys.
	for _, table := range []string{"shows", "contact_logs", "recurring_gigs", "venues"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("wipe: delete %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("wipe: commit: %w", err)
	}
	return nil
}
