package storage

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the current schema version for Gigsly's local SQLite database.
const SchemaVersion = 1

// Migrate ensures the SQLite schema exists and is at the current SchemaVersion.
func Migrate(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("migrate: db is nil")
	}

	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY);`)
	if err != nil {
		return fmt.Errorf("migrate: create schema_migrations: %w", err)
	}

	var current int
	err = db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations;`).Scan(&current)
	if err != nil {
		return fmt.Errorf("migrate: read current version: %w", err)
	}

	if current >= SchemaVersion {
		return nil
	}

	transaction, err := db.Begin()
	if err != nil {
		return fmt.Errorf("migrate: begin transaction: %w", err)
	}
	defer func() { _ = transaction.Rollback() }()

	_, err = transaction.Exec(`
		CREATE TABLE IF NOT EXISTS venues (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			location TEXT NULL,
			address TEXT NULL,
			contact_name TEXT NULL,
			contact_email TEXT NULL,
			contact_phone TEXT NULL,
			mileage_one_way REAL NULL,
			typical_pay REAL NULL,
			payment_method TEXT NULL,
			requires_invoice INTEGER NOT NULL DEFAULT 0,
			has_w9 INTEGER NOT NULL DEFAULT 0,
			booking_window_start INTEGER NULL,
			booking_window_end INTEGER NULL,
			notes TEXT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			CHECK (booking_window_start IS NULL OR (booking_window_start >= 1 AND booking_window_start <= 31)),
			CHECK (booking_window_end IS NULL OR (booking_window_end >= 1 AND booking_window_end <= 31)),
			CHECK (mileage_one_way IS NULL OR mileage_one_way >= 0),
			CHECK (payment_method IS NULL OR payment_method IN ('cash', 'check', 'venmo', 'cashapp', 'paypal', 'direct_deposit'))
		);
	`)
	if err != nil {
		return fmt.Errorf("migrate: create venues table: %w", err)
	}

	_, err = transaction.Exec(`
		CREATE TABLE IF NOT EXISTS recurring_gigs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			venue_id INTEGER NOT NULL,
			pay_amount REAL NULL,
			pattern_type TEXT NOT NULL,
			day_of_week INTEGER NULL,
			day_of_month INTEGER NULL,
			ordinal INTEGER NULL,
			interval_weeks INTEGER NULL,
			start_date TEXT NOT NULL,
			end_date TEXT NULL,
			is_active INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			FOREIGN KEY(venue_id) REFERENCES venues(id),
			CHECK (pattern_type IN ('weekly', 'biweekly', 'monthly_date', 'monthly_ordinal', 'custom')),
			CHECK (day_of_week IS NULL OR (day_of_week >= 0 AND day_of_week <= 6)),
			CHECK (day_of_month IS NULL OR (day_of_month >= 1 AND day_of_month <= 31)),
			CHECK (ordinal IS NULL OR (ordinal >= 1 AND ordinal <= 5)),
			CHECK (end_date IS NULL OR end_date >= start_date)
		);
	`)
	if err != nil {
		return fmt.Errorf("migrate: create recurring_gigs table: %w", err)
	}

	_, err = transaction.Exec(`
		CREATE TABLE IF NOT EXISTS shows (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			venue_id INTEGER NULL,
			recurring_gig_id INTEGER NULL,
			venue_name_snapshot TEXT NULL,
			date TEXT NOT NULL,
			start_time TEXT NULL,
			end_time TEXT NULL,
			pay_amount REAL NULL,
			payment_status TEXT NOT NULL DEFAULT 'pending',
			payment_received_date TEXT NULL,
			invoice_sent INTEGER NOT NULL DEFAULT 0,
			invoice_sent_date TEXT NULL,
			is_cancelled INTEGER NOT NULL DEFAULT 0,
			notes TEXT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			FOREIGN KEY(venue_id) REFERENCES venues(id),
			FOREIGN KEY(recurring_gig_id) REFERENCES recurring_gigs(id),
			CHECK (payment_status IN ('pending', 'paid')),
			CHECK (invoice_sent = 0 OR invoice_sent_date IS NOT NULL),
			CHECK (payment_status = 'pending' OR payment_received_date IS NOT NULL),
			CHECK (venue_id IS NOT NULL OR venue_name_snapshot IS NOT NULL)
		);
	`)
	if err != nil {
		return fmt.Errorf("migrate: create shows table: %w", err)
	}

	_, err = transaction.Exec(`
		CREATE TABLE IF NOT EXISTS contact_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			venue_id INTEGER NOT NULL,
			contacted_at TEXT NOT NULL,
			method TEXT NOT NULL,
			outcome TEXT NULL,
			follow_up_date TEXT NULL,
			notes TEXT NULL,
			created_at TEXT NOT NULL,
			FOREIGN KEY(venue_id) REFERENCES venues(id),
			CHECK (method IN ('email', 'phone', 'in_person', 'other')),
			CHECK (outcome IS NULL OR outcome IN ('booked', 'declined', 'awaiting_response', 'follow_up_needed', 'other'))
		);
	`)
	if err != nil {
		return fmt.Errorf("migrate: create contact_logs table: %w", err)
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_shows_venue_id ON shows(venue_id);`,
		`CREATE INDEX IF NOT EXISTS idx_shows_date ON shows(date);`,
		`CREATE INDEX IF NOT EXISTS idx_shows_recurring_gig_id ON shows(recurring_gig_id);`,
		`CREATE INDEX IF NOT EXISTS idx_recurring_gigs_venue_id ON recurring_gigs(venue_id);`,
		`CREATE INDEX IF NOT EXISTS idx_contact_logs_venue_id ON contact_logs(venue_id);`,
	}
	for _, stmt := range indexes {
		if _, err = transaction.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: create index: %w", err)
		}
	}

	_, err = transaction.Exec(`INSERT INTO schema_migrations(version) VALUES (?);`, SchemaVersion)
	if err != nil {
		return fmt.Errorf("migrate: record schema version: %w", err)
	}

	err = transaction.Commit()
	if err != nil {
		return fmt.Errorf("migrate: commit transaction: %w", err)
	}

	return nil
}
