package core

import (
	"time"
)

// PaymentStatus is the payment state of a show.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// PaymentMethod is how a venue typically pays.
type PaymentMethod string

const (
	MethodCash          PaymentMethod = "cash"
	MethodCheck         PaymentMethod = "check"
	MethodVenmo         PaymentMethod = "venmo"
	MethodCashApp       PaymentMethod = "cashapp"
	MethodPayPal        PaymentMethod = "paypal"
	MethodDirectDeposit PaymentMethod = "direct_deposit"
)

// PatternType identifies a recurring gig's schedule family.
type PatternType string

const (
	PatternWeekly         PatternType = "weekly"
	PatternBiweekly       PatternType = "biweekly"
	PatternMonthlyDate    PatternType = "monthly_date"
	PatternMonthlyOrdinal PatternType = "monthly_ordinal"
	PatternCustom         PatternType = "custom"
)

// ContactMethod is how a venue was contacted.
type ContactMethod string

const (
	ContactEmail    ContactMethod = "email"
	ContactPhone    ContactMethod = "phone"
	ContactInPerson ContactMethod = "in_person"
	ContactOther    ContactMethod = "other"
)

// ContactOutcome is the result of a contact attempt.
type ContactOutcome string

const (
	OutcomeBooked           ContactOutcome = "booked"
	OutcomeDeclined         ContactOutcome = "declined"
	OutcomeAwaitingResponse ContactOutcome = "awaiting_response"
	OutcomeFollowUpNeeded   ContactOutcome = "follow_up_needed"
	OutcomeOther            ContactOutcome = "other"
)

// Venue is a snapshot of a place you perform, together with its shows
// and contact history. Scoring and booking-window logic only read
// fields; nothing in this package mutates a venue.
type Venue struct {
	ID              int64
	Name            string
	Location        *string
	Address         *string
	ContactName     *string
	ContactEmail    *string
	ContactPhone    *string
	MileageOneWay   *float64
	TypicalPay      *float64
	PaymentMethod   *PaymentMethod
	RequiresInvoice bool
	HasW9           bool
	// BookingWindowStart/End are days of month (1-31). End defaults to
	// Start when unset; Start > End means the window wraps month-end.
	BookingWindowStart *int
	BookingWindowEnd   *int
	Notes              *string
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Shows       []Show
	ContactLogs []ContactLog
}

// Show is a single performance record.
type Show struct {
	ID             int64
	VenueID        *int64
	RecurringGigID *int64
	// VenueNameSnapshot is kept for shows whose venue was deleted. It is
	// display-only and never feeds scoring or recurrence.
	VenueNameSnapshot   *string
	Date                time.Time
	StartTime           *string
	EndTime             *string
	PayAmount           *float64
	PaymentStatus       PaymentStatus
	PaymentReceivedDate *time.Time
	InvoiceSent         bool
	InvoiceSentDate     *time.Time
	IsCancelled         bool
	Notes               *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// RecurringGig defines a repeating booking pattern anchored at StartDate.
type RecurringGig struct {
	ID        int64
	VenueID   int64
	PayAmount *float64
	Pattern   PatternType
	// DayOfWeek is 0-6 with Monday=0. Required for weekly, biweekly,
	// custom, and monthly_ordinal patterns.
	DayOfWeek *int
	// DayOfMonth is 1-31. Required for monthly_date; short months clamp.
	DayOfMonth *int
	// Ordinal is 1-5 ("2nd Tuesday"). Required for monthly_ordinal.
	Ordinal *int
	// IntervalWeeks is the gap between occurrences. Required for custom.
	IntervalWeeks *int
	StartDate     time.Time
	EndDate       *time.Time
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ContactLog records one outreach attempt to a venue.
type ContactLog struct {
	ID           int64
	VenueID      int64
	ContactedAt  time.Time
	Method       ContactMethod
	Outcome      *ContactOutcome
	FollowUpDate *time.Time
	Notes        *string
	CreatedAt    time.Time
}

// DisplayName returns the show's venue name, using the snapshot for
// orphaned shows.
func (s Show) DisplayName(venue *Venue) string {
	if venue != nil {
		return venue.Name
	}
	if s.VenueNameSnapshot != nil && *s.VenueNameSnapshot != "" {
		return *s.VenueNameSnapshot
	}
	return "Unknown Venue"
}
