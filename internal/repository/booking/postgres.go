package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"atelier-storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Postgres error code for exclusion constraint violations.
const exclusionViolation = "23P01"

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const bookingColumns = `id::text, session_id, customer_email, COALESCE(customer_name, ''), currency,
subtotal_cents, discount_cents, deposit_cents, total_cents,
COALESCE(promo_code, ''), status, payment_status, COALESCE(invoice_number, ''), created_at`

func (r *postgresRepo) CreatePending(ctx context.Context, in CreateBookingInput) (*domain.Booking, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	q := fmt.Sprintf(`
INSERT INTO bookings (session_id, customer_email, customer_name, currency, subtotal_cents, discount_cents, deposit_cents, total_cents, promo_code)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, NULLIF($9, ''))
RETURNING %s`, bookingColumns)
	bk, err := scanBooking(tx.QueryRow(ctx, q,
		in.SessionID, in.CustomerEmail, in.CustomerName, in.Currency,
		in.SubtotalCents, in.DiscountCents, in.DepositCents, in.TotalCents, in.PromoCode))
	if err != nil {
		return nil, err
	}

	for _, l := range in.Lines {
		_, err := tx.Exec(ctx, `
INSERT INTO booking_lines (booking_id, product_id, product_name, quantity, daily_price_cents, start_date, end_date, days, total_cents)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`, bk.ID, l.ProductID, l.ProductName, l.Quantity, l.DailyPriceCents, l.Range.Start, l.Range.End, l.Days, l.TotalCents)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == exclusionViolation {
				r.logger.Warn("booking slot conflict",
					zap.String("product_id", l.ProductID),
					zap.String("range", l.Range.String()))
				return nil, domain.ErrSlotTaken
			}
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Info("booking created",
		zap.String("booking_id", bk.ID),
		zap.String("session_id", bk.SessionID),
		zap.Int64("total_cents", bk.TotalCents))
	return r.GetByID(ctx, bk.ID)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	q := fmt.Sprintf(`SELECT %s FROM bookings WHERE id = $1`, bookingColumns)
	return r.fetchBooking(ctx, q, id)
}

func (r *postgresRepo) GetBySessionID(ctx context.Context, sessionID string) (*domain.Booking, error) {
	q := fmt.Sprintf(`SELECT %s FROM bookings WHERE session_id = $1`, bookingColumns)
	return r.fetchBooking(ctx, q, sessionID)
}

func (r *postgresRepo) MarkConfirmed(ctx context.Context, sessionID, invoiceNumber string) (*domain.Booking, bool, error) {
	cmd, err := r.pool.Exec(ctx, `
UPDATE bookings
SET status = 'confirmed', payment_status = 'paid', invoice_number = $2
WHERE session_id = $1 AND status = 'pending'
`, sessionID, invoiceNumber)
	if err != nil {
		return nil, false, err
	}
	transitioned := cmd.RowsAffected() > 0

	bk, err := r.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}
	return bk, transitioned, nil
}

func (r *postgresRepo) ActiveRanges(ctx context.Context, productID string) ([]domain.DateRange, error) {
	const q = `
SELECT bl.start_date, bl.end_date
FROM booking_lines bl
WHERE bl.product_id = $1 AND bl.active
ORDER BY bl.start_date ASC
`
	rows, err := r.pool.Query(ctx, q, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.DateRange
	for rows.Next() {
		var dr domain.DateRange
		if err := rows.Scan(&dr.Start, &dr.End); err != nil {
			return nil, err
		}
		result = append(result, dr)
	}
	return result, rows.Err()
}

func (r *postgresRepo) ReleaseStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	cmd, err := r.pool.Exec(ctx, `
UPDATE booking_lines
SET active = FALSE
WHERE active
  AND booking_id IN (SELECT id FROM bookings WHERE status = 'pending' AND created_at < $1)
`, cutoff)
	if err != nil {
		return 0, err
	}
	if n := cmd.RowsAffected(); n > 0 {
		r.logger.Info("released stale booking slots", zap.Int64("count", n))
		return n, nil
	}
	return 0, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Booking, error) {
	q := fmt.Sprintf(`SELECT %s FROM bookings ORDER BY created_at DESC`, bookingColumns)
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *b)
	}
	return result, rows.Err()
}

func (r *postgresRepo) fetchBooking(ctx context.Context, q string, arg interface{}) (*domain.Booking, error) {
	bk, err := scanBooking(r.pool.QueryRow(ctx, q, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const linesQuery = `
SELECT id::text, booking_id::text, product_id::text, product_name, quantity, daily_price_cents, start_date, end_date, days, total_cents
FROM booking_lines
WHERE booking_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, linesQuery, bk.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.BookingLine
		if err := rows.Scan(
			&line.ID,
			&line.BookingID,
			&line.ProductID,
			&line.ProductName,
			&line.Quantity,
			&line.DailyPriceCents,
			&line.Range.Start,
			&line.Range.End,
			&line.Days,
			&line.TotalCents,
		); err != nil {
			return nil, err
		}
		bk.Lines = append(bk.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bk, nil
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(
		&b.ID,
		&b.SessionID,
		&b.CustomerEmail,
		&b.CustomerName,
		&b.Currency,
		&b.SubtotalCents,
		&b.DiscountCents,
		&b.DepositCents,
		&b.TotalCents,
		&b.PromoCode,
		&b.Status,
		&b.PaymentStatus,
		&b.InvoiceNumber,
		&b.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}
