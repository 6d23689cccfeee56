package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"atelier-storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

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

const orderColumns = `id::text, session_id, customer_email, COALESCE(customer_name, ''), currency,
subtotal_cents, discount_cents, shipping_cents, total_cents,
COALESCE(promo_code, ''), COALESCE(delivery_method, ''), status, payment_status, COALESCE(invoice_number, ''), created_at`

func (r *postgresRepo) CreatePending(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	q := fmt.Sprintf(`
INSERT INTO orders (session_id, customer_email, customer_name, currency, subtotal_cents, discount_cents, shipping_cents, total_cents, promo_code, delivery_method)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, NULLIF($9, ''), NULLIF($10, ''))
RETURNING %s`, orderColumns)
	ord, err := scanOrder(tx.QueryRow(ctx, q,
		in.SessionID, in.CustomerEmail, in.CustomerName, in.Currency,
		in.SubtotalCents, in.DiscountCents, in.ShippingCents, in.TotalCents,
		in.PromoCode, in.DeliveryMethod))
	if err != nil {
		return nil, err
	}

	for _, l := range in.Lines {
		cmd, err := tx.Exec(ctx, `
UPDATE products
SET stock_quantity = stock_quantity - $2
WHERE id = $1 AND stock_quantity >= $2
`, l.ProductID, l.Quantity)
		if err != nil {
			return nil, err
		}
		if cmd.RowsAffected() == 0 {
			return nil, domain.ErrInsufficientStock
		}

		customizations := l.Customizations
		if customizations == nil {
			customizations = map[string]string{}
		}
		raw, err := json.Marshal(customizations)
		if err != nil {
			return nil, err
		}
		if _, err := tx.Exec(ctx, `
INSERT INTO order_lines (order_id, product_id, product_name, quantity, unit_price_cents, total_cents, customizations)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`, ord.ID, l.ProductID, l.ProductName, l.Quantity, l.UnitPriceCents, l.TotalCents, raw); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Info("order created",
		zap.String("order_id", ord.ID),
		zap.String("session_id", ord.SessionID),
		zap.Int64("total_cents", ord.TotalCents))
	return r.GetByID(ctx, ord.ID)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	q := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)
	return r.fetchOrder(ctx, q, id)
}

func (r *postgresRepo) GetBySessionID(ctx context.Context, sessionID string) (*domain.Order, error) {
	q := fmt.Sprintf(`SELECT %s FROM orders WHERE session_id = $1`, orderColumns)
	return r.fetchOrder(ctx, q, sessionID)
}

func (r *postgresRepo) MarkPaid(ctx context.Context, sessionID, invoiceNumber string) (*domain.Order, bool, error) {
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders
SET status = 'confirmed', payment_status = 'paid', invoice_number = $2
WHERE session_id = $1 AND status = 'pending'
`, sessionID, invoiceNumber)
	if err != nil {
		return nil, false, err
	}
	transitioned := cmd.RowsAffected() > 0

	ord, err := r.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}
	return ord, transitioned, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Order, error) {
	q := fmt.Sprintf(`SELECT %s FROM orders ORDER BY created_at DESC`, orderColumns)
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	return result, rows.Err()
}

func (r *postgresRepo) fetchOrder(ctx context.Context, q string, arg interface{}) (*domain.Order, error) {
	ord, err := scanOrder(r.pool.QueryRow(ctx, q, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const linesQuery = `
SELECT id::text, order_id::text, product_id::text, product_name, quantity, unit_price_cents, total_cents, customizations
FROM order_lines
WHERE order_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, linesQuery, ord.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.OrderLine
		var raw []byte
		if err := rows.Scan(
			&line.ID,
			&line.OrderID,
			&line.ProductID,
			&line.ProductName,
			&line.Quantity,
			&line.UnitPriceCents,
			&line.TotalCents,
			&raw,
		); err != nil {
			return nil, err
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &line.Customizations); err != nil {
				return nil, err
			}
		}
		ord.Lines = append(ord.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ord, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	if err := row.Scan(
		&o.ID,
		&o.SessionID,
		&o.CustomerEmail,
		&o.CustomerName,
		&o.Currency,
		&o.SubtotalCents,
		&o.DiscountCents,
		&o.ShippingCents,
		&o.TotalCents,
		&o.PromoCode,
		&o.DeliveryMethod,
		&o.Status,
		&o.PaymentStatus,
		&o.InvoiceNumber,
		&o.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}
