package domain

import "time"

// Order and Booking share a small lifecycle: records are created pending at
// checkout-session creation and move to confirmed exactly once, when the
// provider webhook reports payment.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"

	PaymentUnpaid = "unpaid"
	PaymentPaid   = "paid"
)

type Order struct {
	ID             string      `json:"id"`
	SessionID      string      `json:"sessionId"`
	CustomerEmail  string      `json:"customerEmail"`
	CustomerName   string      `json:"customerName,omitempty"`
	Currency       string      `json:"currency"`
	SubtotalCents  int64       `json:"subtotalCents"`
	DiscountCents  int64       `json:"discountCents"`
	ShippingCents  int64       `json:"shippingCents"`
	TotalCents     int64       `json:"totalCents"`
	PromoCode      string      `json:"promoCode,omitempty"`
	DeliveryMethod string      `json:"deliveryMethod,omitempty"`
	Status         string      `json:"status"`
	PaymentStatus  string      `json:"paymentStatus"`
	InvoiceNumber  string      `json:"invoiceNumber,omitempty"`
	Lines          []OrderLine `json:"lines,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
}

type OrderLine struct {
	ID             string            `json:"id"`
	OrderID        string            `json:"orderId"`
	ProductID      string            `json:"productId"`
	ProductName    string            `json:"productName"`
	Quantity       int               `json:"quantity"`
	UnitPriceCents int64             `json:"unitPriceCents"`
	TotalCents     int64             `json:"totalCents"`
	Customizations map[string]string `json:"customizations,omitempty"`
}
