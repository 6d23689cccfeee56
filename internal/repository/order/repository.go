package order

import (
	"context"

	"atelier-storefront/internal/domain"
)

type CreateOrderInput struct {
	SessionID      string
	CustomerEmail  string
	CustomerName   string
	Currency       string
	SubtotalCents  int64
	DiscountCents  int64
	ShippingCents  int64
	TotalCents     int64
	PromoCode      string
	DeliveryMethod string
	Lines          []CreateOrderLine
}

type CreateOrderLine struct {
	ProductID      string
	ProductName    string
	Quantity       int
	UnitPriceCents int64
	TotalCents     int64
	Customizations map[string]string
}

type Repository interface {
	// CreatePending inserts the order with its lines and decrements product
	// stock in the same transaction. A floor-checked decrement that touches
	// no row aborts the whole insert with domain.ErrInsufficientStock.
	CreatePending(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetBySessionID(ctx context.Context, sessionID string) (*domain.Order, error)
	// MarkPaid transitions pending -> confirmed/paid exactly once. The bool
	// reports whether this call performed the transition; an
	// already-confirmed order returns false with no changes.
	MarkPaid(ctx context.Context, sessionID, invoiceNumber string) (*domain.Order, bool, error)
	List(ctx context.Context) ([]domain.Order, error)
}
