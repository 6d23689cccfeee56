package invoice

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"atelier-storefront/internal/domain"
)

func TestNumberFor(t *testing.T) {
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	n := NumberFor("FA", at)
	if !strings.HasPrefix(n, "FA-20240601-") {
		t.Fatalf("unexpected invoice number %q", n)
	}
	if n == NumberFor("FA", at) {
		t.Fatalf("expected distinct suffixes for consecutive numbers")
	}
}

func TestEuros(t *testing.T) {
	cases := map[int64]string{
		0:     "0,00 EUR",
		5:     "0,05 EUR",
		1234:  "12,34 EUR",
		10000: "100,00 EUR",
	}
	for cents, want := range cases {
		if got := euros(cents); got != want {
			t.Fatalf("euros(%d) = %q, want %q", cents, got, want)
		}
	}
	if got := euros(-150); got != "-1,50 EUR" {
		t.Fatalf("euros(-150) = %q", got)
	}
}

func TestFromBookingDesignationCarriesRangeAndDays(t *testing.T) {
	r, err := domain.ParseDateRange("2024-06-01", "2024-06-03")
	if err != nil {
		t.Fatalf("parse range: %v", err)
	}
	b := domain.Booking{
		InvoiceNumber: "FA-1",
		CustomerEmail: "c@example.com",
		Currency:      "EUR",
		SubtotalCents: 2000,
		TotalCents:    2000,
		Lines: []domain.BookingLine{{
			ProductName:     "Arche florale",
			Quantity:        2,
			DailyPriceCents: 1000,
			Range:           r,
			Days:            3,
			TotalCents:      2000,
		}},
	}
	doc := FromBooking(b)
	if len(doc.Lines) != 1 {
		t.Fatalf("expected one line, got %d", len(doc.Lines))
	}
	if !strings.Contains(doc.Lines[0].Designation, "2024-06-01 / 2024-06-03") {
		t.Fatalf("designation missing range: %q", doc.Lines[0].Designation)
	}
	if !strings.Contains(doc.Lines[0].Designation, "(3 j)") {
		t.Fatalf("designation missing day count: %q", doc.Lines[0].Designation)
	}
}

func TestRenderProducesPDF(t *testing.T) {
	doc := Document{
		Number:        "FA-20240601-TEST",
		IssuedAt:      time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		CustomerName:  "Jeanne Martin",
		CustomerEmail: "jeanne@example.com",
		Currency:      "EUR",
		Lines: []Line{
			{Designation: "Vase céramique", Quantity: 2, UnitPriceCents: 2500, TotalCents: 5000},
		},
		SubtotalCents: 5000,
		DiscountCents: 500,
		ShippingCents: 590,
		TotalCents:    5090,
	}
	out, err := Render(doc, ShopInfo{LegalName: "Atelier", VATRatePercent: 20})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output is not a PDF (starts with %q)", out[:8])
	}
}
