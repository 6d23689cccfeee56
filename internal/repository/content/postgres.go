package content

import (
	"context"
	"encoding/json"
	"errors"

	"atelier-storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) ListAnnouncements(ctx context.Context, activeOnly bool) ([]domain.Announcement, error) {
	q := `SELECT id::text, message, active, created_at FROM announcements`
	if activeOnly {
		q += ` WHERE active`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Announcement
	for rows.Next() {
		var a domain.Announcement
		if err := rows.Scan(&a.ID, &a.Message, &a.Active, &a.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (r *postgresRepo) CreateAnnouncement(ctx context.Context, a domain.Announcement) (*domain.Announcement, error) {
	const q = `
INSERT INTO announcements (message, active)
VALUES ($1, $2)
RETURNING id::text, message, active, created_at
`
	var out domain.Announcement
	if err := r.pool.QueryRow(ctx, q, a.Message, a.Active).Scan(&out.ID, &out.Message, &out.Active, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) UpdateAnnouncement(ctx context.Context, a domain.Announcement) (*domain.Announcement, error) {
	const q = `
UPDATE announcements
SET message = $2, active = $3
WHERE id = $1
RETURNING id::text, message, active, created_at
`
	var out domain.Announcement
	if err := r.pool.QueryRow(ctx, q, a.ID, a.Message, a.Active).Scan(&out.ID, &out.Message, &out.Active, &out.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) DeleteAnnouncement(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) ListRealisations(ctx context.Context) ([]domain.Realisation, error) {
	const q = `SELECT id::text, title, COALESCE(description, ''), images, created_at FROM realisations ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Realisation
	for rows.Next() {
		rl, err := scanRealisation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rl)
	}
	return result, rows.Err()
}

func (r *postgresRepo) GetRealisation(ctx context.Context, id string) (*domain.Realisation, error) {
	const q = `SELECT id::text, title, COALESCE(description, ''), images, created_at FROM realisations WHERE id = $1`
	rl, err := scanRealisation(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rl, nil
}

func (r *postgresRepo) CreateRealisation(ctx context.Context, in domain.Realisation) (*domain.Realisation, error) {
	images, err := marshalImages(in.Images)
	if err != nil {
		return nil, err
	}
	const q = `
INSERT INTO realisations (title, description, images)
VALUES ($1, NULLIF($2, ''), $3)
RETURNING id::text, title, COALESCE(description, ''), images, created_at
`
	return scanRealisation(r.pool.QueryRow(ctx, q, in.Title, in.Description, images))
}

func (r *postgresRepo) UpdateRealisation(ctx context.Context, in domain.Realisation) (*domain.Realisation, error) {
	images, err := marshalImages(in.Images)
	if err != nil {
		return nil, err
	}
	const q = `
UPDATE realisations
SET title = $2, description = NULLIF($3, ''), images = $4
WHERE id = $1
RETURNING id::text, title, COALESCE(description, ''), images, created_at
`
	rl, err := scanRealisation(r.pool.QueryRow(ctx, q, in.ID, in.Title, in.Description, images))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rl, nil
}

func (r *postgresRepo) DeleteRealisation(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM realisations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanRealisation(row pgx.Row) (*domain.Realisation, error) {
	var rl domain.Realisation
	var images []byte
	if err := row.Scan(&rl.ID, &rl.Title, &rl.Description, &images, &rl.CreatedAt); err != nil {
		return nil, err
	}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &rl.Images); err != nil {
			return nil, err
		}
	}
	return &rl, nil
}

func marshalImages(images []string) ([]byte, error) {
	if images == nil {
		images = []string{}
	}
	return json.Marshal(images)
}
