package invoice

import (
	"fmt"
	"strings"
	"time"

	"atelier-storefront/internal/domain"
	"atelier-storefront/internal/pricing"
	"github.com/google/uuid"
)

// ShopInfo is the seller block printed on every invoice.
type ShopInfo struct {
	LegalName      string
	Address        string
	SIRET          string
	VATRatePercent int64
}

// Line is one row of the invoice table.
type Line struct {
	Designation    string
	Quantity       int
	UnitPriceCents int64
	TotalCents     int64
}

// Document is a fully priced invoice ready for rendering. All *Cents fields
// are tax-exclusive; the TTC column is derived at render time.
type Document struct {
	Number        string
	IssuedAt      time.Time
	CustomerName  string
	CustomerEmail string
	Currency      string
	Lines         []Line
	SubtotalCents int64
	DiscountCents int64
	ShippingCents int64
	DepositCents  int64
	TotalCents    int64
}

// NumberFor builds an invoice number like FA-20240601-3F2A.
func NumberFor(prefix string, at time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:4])
	return fmt.Sprintf("%s-%s-%s", prefix, at.Format("20060102"), suffix)
}

// FromOrder maps a confirmed sale order to an invoice document.
func FromOrder(o domain.Order) Document {
	doc := Document{
		Number:        o.InvoiceNumber,
		IssuedAt:      time.Now().UTC(),
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		Currency:      o.Currency,
		SubtotalCents: o.SubtotalCents,
		DiscountCents: o.DiscountCents,
		ShippingCents: o.ShippingCents,
		TotalCents:    o.TotalCents,
	}
	for _, l := range o.Lines {
		doc.Lines = append(doc.Lines, Line{
			Designation:    l.ProductName,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
			TotalCents:     l.TotalCents,
		})
	}
	return doc
}

// FromBooking maps a confirmed rental booking to an invoice document. The
// designation carries the rental window and day count the shopper saw.
func FromBooking(b domain.Booking) Document {
	doc := Document{
		Number:        b.InvoiceNumber,
		IssuedAt:      time.Now().UTC(),
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		Currency:      b.Currency,
		SubtotalCents: b.SubtotalCents,
		DiscountCents: b.DiscountCents,
		DepositCents:  b.DepositCents,
		TotalCents:    b.TotalCents,
	}
	for _, l := range b.Lines {
		doc.Lines = append(doc.Lines, Line{
			Designation:    fmt.Sprintf("%s - location %s (%d j)", l.ProductName, l.Range.String(), l.Days),
			Quantity:       l.Quantity,
			UnitPriceCents: l.DailyPriceCents,
			TotalCents:     l.TotalCents,
		})
	}
	return doc
}

func euros(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d,%02d EUR", sign, cents/100, cents%100)
}

func ttc(cents, ratePercent int64) int64 {
	return pricing.WithVAT(cents, ratePercent)
}
