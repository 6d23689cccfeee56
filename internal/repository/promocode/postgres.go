package promocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"atelier-storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const promoColumns = `id::text, code, discount_percent, apply_to_all, product_ids, valid_from, valid_until, usage_limit, usage_count, active, created_at`

func (r *postgresRepo) List(ctx context.Context) ([]domain.PromoCode, error) {
	q := fmt.Sprintf(`SELECT %s FROM promo_codes ORDER BY created_at DESC`, promoColumns)
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PromoCode
	for rows.Next() {
		p, err := scanPromo(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

func (r *postgresRepo) GetByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	q := fmt.Sprintf(`SELECT %s FROM promo_codes WHERE code = $1`, promoColumns)
	p, err := scanPromo(r.pool.QueryRow(ctx, q, strings.ToUpper(strings.TrimSpace(code))))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Create(ctx context.Context, p domain.PromoCode) (*domain.PromoCode, error) {
	ids, err := json.Marshal(orEmpty(p.ProductIDs))
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`
INSERT INTO promo_codes (code, discount_percent, apply_to_all, product_ids, valid_from, valid_until, usage_limit, active)
VALUES (UPPER($1), $2, $3, $4, $5, $6, $7, $8)
RETURNING %s`, promoColumns)
	created, err := scanPromo(r.pool.QueryRow(ctx, q,
		p.Code, p.DiscountPercent, p.ApplyToAll, ids, p.ValidFrom, p.ValidUntil, p.UsageLimit, p.Active))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return created, nil
}

func (r *postgresRepo) Update(ctx context.Context, p domain.PromoCode) (*domain.PromoCode, error) {
	ids, err := json.Marshal(orEmpty(p.ProductIDs))
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`
UPDATE promo_codes
SET code = UPPER($2), discount_percent = $3, apply_to_all = $4, product_ids = $5,
    valid_from = $6, valid_until = $7, usage_limit = $8, active = $9
WHERE id = $1
RETURNING %s`, promoColumns)
	updated, err := scanPromo(r.pool.QueryRow(ctx, q,
		p.ID, p.Code, p.DiscountPercent, p.ApplyToAll, ids, p.ValidFrom, p.ValidUntil, p.UsageLimit, p.Active))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM promo_codes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) IncrementUsage(ctx context.Context, code string) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE promo_codes SET usage_count = usage_count + 1 WHERE code = UPPER($1)`, code)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanPromo(row pgx.Row) (*domain.PromoCode, error) {
	var p domain.PromoCode
	var ids []byte
	if err := row.Scan(
		&p.ID,
		&p.Code,
		&p.DiscountPercent,
		&p.ApplyToAll,
		&ids,
		&p.ValidFrom,
		&p.ValidUntil,
		&p.UsageLimit,
		&p.UsageCount,
		&p.Active,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		if err := json.Unmarshal(ids, &p.ProductIDs); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

func orEmpty(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
