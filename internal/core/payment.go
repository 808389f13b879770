package core

import (
	"fmt"
	"time"
)

// OverdueDays is how long after a show a pending payment counts as overdue.
const OverdueDays = 30

// Color is a display tier used by report rendering.
type Color string

const (
	ColorGreen  Color = "green"
	ColorGray   Color = "gray"
	ColorYellow Color = "yellow"
	ColorRed    Color = "red"
)

// PaymentStatusDisplay returns the status text and color tier for a show.
func PaymentStatusDisplay(show Show, today time.Time) (string, Color) {
	if show.PaymentStatus == PaymentPaid {
		return "paid", ColorGreen
	}

	if !DateOf(show.Date).Before(DateOf(today)) {
		return "pending", ColorGray
	}

	daysUnpaid := DaysBetween(show.Date, today)
	if daysUnpaid >= OverdueDays {
		return fmt.Sprintf("OVERDUE (%dd)", daysUnpaid), ColorRed
	}
	return fmt.Sprintf("UNPAID (%dd)", daysUnpaid), ColorYellow
}

// NeedsInvoice reports whether a show still needs an invoice sent: the
// venue requires invoices, the show has occurred, and payment is pending.
func NeedsInvoice(show Show, venue Venue, today time.Time) bool {
	return venue.RequiresInvoice &&
		!show.InvoiceSent &&
		DateOf(show.Date).Before(DateOf(today)) &&
		show.PaymentStatus == PaymentPending
}

// UnpaidBalance sums pay amounts across past unpaid shows.
func UnpaidBalance(shows []Show, today time.Time) float64 {
	total := 0.0
	for _, show := range shows {
		if !DateOf(show.Date).Before(DateOf(today)) {
			continue
		}
		if show.PaymentStatus != PaymentPending {
			continue
		}
		if show.PayAmount != nil {
			total += *show.PayAmount
		}
	}
	return total
}
