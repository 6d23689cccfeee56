package booking

import (
	"context"
	"time"

	"atelier-storefront/internal/domain"
)

type CreateBookingInput struct {
	SessionID     string
	CustomerEmail string
	CustomerName  string
	Currency      string
	SubtotalCents int64
	DiscountCents int64
	DepositCents  int64
	TotalCents    int64
	PromoCode     string
	Lines         []CreateBookingLine
}

type CreateBookingLine struct {
	ProductID       string
	ProductName     string
	Quantity        int
	DailyPriceCents int64
	Range           domain.DateRange
	Days            int
	TotalCents      int64
}

type Repository interface {
	// CreatePending inserts the booking with its lines. The exclusion
	// constraint on booking_lines turns a lost availability race into
	// domain.ErrSlotTaken instead of a silent double-booking.
	CreatePending(ctx context.Context, in CreateBookingInput) (*domain.Booking, error)
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetBySessionID(ctx context.Context, sessionID string) (*domain.Booking, error)
	// MarkConfirmed transitions pending -> confirmed/paid exactly once; the
	// bool reports whether this call performed the transition.
	MarkConfirmed(ctx context.Context, sessionID, invoiceNumber string) (*domain.Booking, bool, error)
	// ActiveRanges lists the date ranges currently holding the product.
	ActiveRanges(ctx context.Context, productID string) ([]domain.DateRange, error)
	// ReleaseStale frees slots held by pending bookings older than the
	// cutoff, i.e. abandoned checkout sessions.
	ReleaseStale(ctx context.Context, olderThan time.Duration) (int64, error)
	List(ctx context.Context) ([]domain.Booking, error)
}
