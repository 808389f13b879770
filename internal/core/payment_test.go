package core_test

import (
	"strings"
	"testing"

	"github.com/rlt-lab/gigsly/internal/core"
)

var payToday = core.Date(2025, 6, 15)

func floatPtr(f float64) *float64 { return &f }

func TestPaymentStatusDisplay(t *testing.T) {
	show := core.Show{Date: payToday.AddDate(0, 0, -30), PaymentStatus: core.PaymentPaid}
	text, color := core.PaymentStatusDisplay(show, payToday)
	if text != "paid" || color != core.ColorGreen {
		t.Fatalf("paid show = %q/%s, want paid/green", text, color)
	}

	show = core.Show{Date: payToday.AddDate(0, 0, 7), PaymentStatus: core.PaymentPending}
	text, color = core.PaymentStatusDisplay(show, payToday)
	if text != "pending" || color != core.ColorGray {
		t.Fatalf("future show = %q/%s, want pending/gray", text, color)
	}

	show = core.Show{Date: payToday.AddDate(0, 0, -10), PaymentStatus: core.PaymentPending}
	text, color = core.PaymentStatusDisplay(show, payToday)
	if !strings.Contains(text, "UNPAID") || !strings.Contains(text, "10d") || color != core.ColorYellow {
		t.Fatalf("10-day unpaid show = %q/%s, want UNPAID (10d)/yellow", text, color)
	}

	show = core.Show{Date: payToday.AddDate(0, 0, -45), PaymentStatus: core.PaymentPending}
	text, color = core.PaymentStatusDisplay(show, payToday)
	if !strings.Contains(text, "OVERDUE") || !strings.Contains(text, "45d") || color != core.ColorRed {
		t.Fatalf("45-day unpaid show = %q/%s, want OVERDUE (45d)/red", text, color)
	}
}

func TestNeedsInvoice(t *testing.T) {
	venue := core.Venue{RequiresInvoice: true}
	show := core.Show{Date: payToday.AddDate(0, 0, -5), PaymentStatus: core.PaymentPending}
	if !core.NeedsInvoice(show, venue, payToday) {
		t.Fatalf("past pending show at invoicing venue needs invoice")
	}

	show.InvoiceSent = true
	if core.NeedsInvoice(show, venue, payToday) {
		t.Fatalf("already-sent invoice should not need another")
	}

	show.InvoiceSent = false
	venue.RequiresInvoice = false
	if core.NeedsInvoice(show, venue, payToday) {
		t.Fatalf("venue without invoice requirement never needs invoices")
	}

	venue.RequiresInvoice = true
	show.Date = payToday.AddDate(0, 0, 5)
	if core.NeedsInvoice(show, venue, payToday) {
		t.Fatalf("future show does not need an invoice yet")
	}
}

func TestUnpaidBalance(t *testing.T) {
	shows := []core.Show{
		{Date: payToday.AddDate(0, 0, -10), PaymentStatus: core.PaymentPending, PayAmount: floatPtr(150)},
		{Date: payToday.AddDate(0, 0, -20), PaymentStatus: core.PaymentPending, PayAmount: floatPtr(200.50)},
		{Date: payToday.AddDate(0, 0, -30), PaymentStatus: core.PaymentPaid, PayAmount: floatPtr(300)},
		{Date: payToday.AddDate(0, 0, 10), PaymentStatus: core.PaymentPending, PayAmount: floatPtr(400)},
		{Date: payToday.AddDate(0, 0, -40), PaymentStatus: core.PaymentPending},
	}
	if got := core.UnpaidBalance(shows, payToday); got != 350.50 {
		t.Fatalf("unpaid balance = %v, want 350.50", got)
	}
}
