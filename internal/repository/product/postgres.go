package product

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

const productColumns = `id::text, name, COALESCE(description, ''), price_cents, daily_rental_price_cents,
currency, stock_quantity, for_sale, for_rent, customizable, options, images, created_at`

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	q := fmt.Sprintf(`SELECT %s FROM products ORDER BY created_at DESC`, productColumns)
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Error("product repo: list", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("product repo: get", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	options, images, err := encodeJSONFields(p)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`
INSERT INTO products (name, description, price_cents, daily_rental_price_cents, currency, stock_quantity, for_sale, for_rent, customizable, options, images)
VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING %s`, productColumns)
	created, err := scanProduct(r.pool.QueryRow(ctx, q,
		p.Name, p.Description, p.PriceCents, p.DailyRentalPriceCents, p.Currency,
		p.StockQuantity, p.ForSale, p.ForRent, p.Customizable, options, images))
	if err != nil {
		r.logger.Error("product repo: create", zap.String("name", p.Name), zap.Error(err))
		return nil, err
	}
	return created, nil
}

func (r *postgresRepo) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	options, images, err := encodeJSONFields(p)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`
UPDATE products
SET name = $2, description = NULLIF($3, ''), price_cents = $4, daily_rental_price_cents = $5,
    currency = $6, stock_quantity = $7, for_sale = $8, for_rent = $9, customizable = $10,
    options = $11, images = $12
WHERE id = $1
RETURNING %s`, productColumns)
	updated, err := scanProduct(r.pool.QueryRow(ctx, q,
		p.ID, p.Name, p.Description, p.PriceCents, p.DailyRentalPriceCents, p.Currency,
		p.StockQuantity, p.ForSale, p.ForRent, p.Customizable, options, images))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("product repo: update", zap.String("id", p.ID), zap.Error(err))
		return nil, err
	}
	return updated, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var options, images []byte
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.PriceCents,
		&p.DailyRentalPriceCents,
		&p.Currency,
		&p.StockQuantity,
		&p.ForSale,
		&p.ForRent,
		&p.Customizable,
		&options,
		&images,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	if len(options) > 0 {
		if err := json.Unmarshal(options, &p.Options); err != nil {
			return nil, fmt.Errorf("malformed customization options for product %s: %w", p.ID, err)
		}
		if err := domain.ValidateOptions(p.Options); err != nil {
			return nil, fmt.Errorf("malformed customization options for product %s: %w", p.ID, err)
		}
	}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &p.Images); err != nil {
			return nil, fmt.Errorf("malformed image list for product %s: %w", p.ID, err)
		}
	}
	return &p, nil
}

func encodeJSONFields(p domain.Product) ([]byte, []byte, error) {
	if err := domain.ValidateOptions(p.Options); err != nil {
		return nil, nil, err
	}
	opts := p.Options
	if opts == nil {
		opts = []domain.CustomizationOption{}
	}
	imgs := p.Images
	if imgs == nil {
		imgs = []string{}
	}
	options, err := json.Marshal(opts)
	if err != nil {
		return nil, nil, err
	}
	images, err := json.Marshal(imgs)
	if err != nil {
		return nil, nil, err
	}
	return options, images, nil
}
