package outbox

import (
	"context"
	"time"
)

const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"

	KindOrderInvoice   = "order_invoice"
	KindBookingInvoice = "booking_invoice"
)

// Notification is one "invoice to send" record. Uniqueness on
// (kind, ref, recipient) makes webhook replays enqueue at most once.
type Notification struct {
	ID            string
	Kind          string
	RefID         string
	Recipient     string
	Status        string
	Attempts      int
	NextAttemptAt time.Time
	LastError     string
	SentAt        *time.Time
	CreatedAt     time.Time
}

type Repository interface {
	// Enqueue inserts a pending notification; a duplicate is silently
	// ignored so replayed webhooks cannot double-send.
	Enqueue(ctx context.Context, kind, refID, recipient string) error
	// Due returns pending notifications whose next attempt is due.
	Due(ctx context.Context, limit int) ([]Notification, error)
	MarkSent(ctx context.Context, id string) error
	// MarkRetry schedules the next attempt; past maxAttempts the record is
	// parked as failed for operator attention.
	MarkRetry(ctx context.Context, id string, attempt int, nextAttempt time.Time, cause string, maxAttempts int) error
}
