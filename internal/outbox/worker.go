package outbox

import (
	"context"
	"fmt"
	"time"

	"atelier-storefront/internal/domain"
	"atelier-storefront/internal/invoice"
	"atelier-storefront/internal/mailer"
	outboxrepo "atelier-storefront/internal/repository/outbox"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// Pending bookings older than this are treated as abandoned checkout
// sessions and their slots released.
const staleBookingAge = 24 * time.Hour

const batchSize = 20

type orderGetter interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
}

type bookingGetter interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
}

type slotReleaser interface {
	ReleaseStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Worker drains the notification outbox: for each due record it renders the
// invoice PDF and mails it, rescheduling failures with exponential backoff.
// It also frees rental slots held by abandoned pending bookings.
type Worker struct {
	repo     outboxrepo.Repository
	orders   orderGetter
	bookings bookingGetter
	releaser slotReleaser
	sender   mailer.Sender
	shop     invoice.ShopInfo
	logger   *zap.Logger

	pollInterval time.Duration
	maxAttempts  int
}

func NewWorker(
	repo outboxrepo.Repository,
	orders orderGetter,
	bookings bookingGetter,
	releaser slotReleaser,
	sender mailer.Sender,
	shop invoice.ShopInfo,
	pollInterval time.Duration,
	maxAttempts int,
	logger *zap.Logger,
) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		repo:         repo,
		orders:       orders,
		bookings:     bookings,
		releaser:     releaser,
		sender:       sender,
		shop:         shop,
		logger:       logger,
		pollInterval: pollInterval,
		maxAttempts:  maxAttempts,
	}
}

// Run polls until the context is cancelled. Safe to restart at any point:
// all state lives in the outbox table.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("outbox worker started", zap.Duration("poll_interval", w.pollInterval))
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("outbox worker stopped")
			return
		case <-ticker.C:
			if _, err := w.releaser.ReleaseStale(ctx, staleBookingAge); err != nil {
				w.logger.Error("release stale bookings", zap.Error(err))
			}
			w.Drain(ctx)
		}
	}
}

// Drain processes every currently due notification once.
func (w *Worker) Drain(ctx context.Context) {
	due, err := w.repo.Due(ctx, batchSize)
	if err != nil {
		w.logger.Error("list due notifications", zap.Error(err))
		return
	}
	for _, n := range due {
		if err := w.process(ctx, n); err != nil {
			attempt := n.Attempts + 1
			next := time.Now().Add(retryDelay(attempt))
			w.logger.Warn("notification delivery failed",
				zap.String("id", n.ID),
				zap.String("kind", n.Kind),
				zap.Int("attempt", attempt),
				zap.Error(err))
			if markErr := w.repo.MarkRetry(ctx, n.ID, attempt, next, err.Error(), w.maxAttempts); markErr != nil {
				w.logger.Error("mark retry", zap.String("id", n.ID), zap.Error(markErr))
			}
			continue
		}
		if err := w.repo.MarkSent(ctx, n.ID); err != nil {
			w.logger.Error("mark sent", zap.String("id", n.ID), zap.Error(err))
		}
	}
}

func (w *Worker) process(ctx context.Context, n outboxrepo.Notification) error {
	var doc invoice.Document
	switch n.Kind {
	case outboxrepo.KindOrderInvoice:
		ord, err := w.orders.GetByID(ctx, n.RefID)
		if err != nil {
			return fmt.Errorf("load order %s: %w", n.RefID, err)
		}
		doc = invoice.FromOrder(*ord)
	case outboxrepo.KindBookingInvoice:
		bk, err := w.bookings.GetByID(ctx, n.RefID)
		if err != nil {
			return fmt.Errorf("load booking %s: %w", n.RefID, err)
		}
		doc = invoice.FromBooking(*bk)
	default:
		return fmt.Errorf("unknown notification kind %q", n.Kind)
	}

	pdf, err := invoice.Render(doc, w.shop)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Votre facture %s", doc.Number)
	body := fmt.Sprintf("Bonjour,\n\nVeuillez trouver ci-joint la facture %s.\n\n%s", doc.Number, w.shop.LegalName)

	// Transient SMTP hiccups get two quick in-process retries before the
	// record goes back to the queue.
	send := func() error {
		return w.sender.Send(n.Recipient, subject, body, doc.Number+".pdf", pdf)
	}
	if err := backoff.Retry(send, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2)); err != nil {
		return err
	}

	w.logger.Info("invoice sent",
		zap.String("kind", n.Kind),
		zap.String("recipient", n.Recipient),
		zap.String("invoice", doc.Number))
	return nil
}

// retryDelay spaces queue-level attempts 30s, 1m, 2m, ... capped at one hour.
func retryDelay(attempt int) time.Duration {
	d := 30 * time.Second
	for i := 1; i < attempt && d < time.Hour; i++ {
		d *= 2
	}
	if d > time.Hour {
		return time.Hour
	}
	return d
}
