package domain

import "time"

type Booking struct {
	ID            string        `json:"id"`
	SessionID     string        `json:"sessionId"`
	CustomerEmail string        `json:"customerEmail"`
	CustomerName  string        `json:"customerName,omitempty"`
	Currency      string        `json:"currency"`
	SubtotalCents int64         `json:"subtotalCents"`
	DiscountCents int64         `json:"discountCents"`
	DepositCents  int64         `json:"depositCents"`
	TotalCents    int64         `json:"totalCents"`
	PromoCode     string        `json:"promoCode,omitempty"`
	Status        string        `json:"status"`
	PaymentStatus string        `json:"paymentStatus"`
	InvoiceNumber string        `json:"invoiceNumber,omitempty"`
	Lines         []BookingLine `json:"lines,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
}

type BookingLine struct {
	ID              string    `json:"id"`
	BookingID       string    `json:"bookingId"`
	ProductID       string    `json:"productId"`
	ProductName     string    `json:"productName"`
	Quantity        int       `json:"quantity"`
	DailyPriceCents int64     `json:"dailyPriceCents"`
	Range           DateRange `json:"range"`
	Days            int       `json:"days"`
	TotalCents      int64     `json:"totalCents"`
}
