package admin

import (
	"context"
	"errors"

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

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	const q = `
SELECT id::text, email, password_hash, created_at
FROM admin_users
WHERE email = LOWER($1)
`
	return scan(r.pool.QueryRow(ctx, q, email))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.AdminUser, error) {
	const q = `
SELECT id::text, email, password_hash, created_at
FROM admin_users
WHERE id = $1
`
	return scan(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) Create(ctx context.Context, u domain.AdminUser) (*domain.AdminUser, error) {
	const q = `
INSERT INTO admin_users (email, password_hash)
VALUES (LOWER($1), $2)
RETURNING id::text, email, password_hash, created_at
`
	created, err := scan(r.pool.QueryRow(ctx, q, u.Email, u.PasswordHash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return created, nil
}

func scan(row pgx.Row) (*domain.AdminUser, error) {
	var u domain.AdminUser
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
