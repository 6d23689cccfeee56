package outbox

import (
	"context"
	"time"

	"atelier-storefront/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Enqueue(ctx context.Context, kind, refID, recipient string) error {
	const q = `
INSERT INTO notification_outbox (kind, ref_id, recipient)
VALUES ($1, $2, $3)
ON CONFLICT (kind, ref_id, recipient) DO NOTHING
`
	_, err := r.pool.Exec(ctx, q, kind, refID, recipient)
	return err
}

func (r *postgresRepo) Due(ctx context.Context, limit int) ([]Notification, error) {
	const q = `
SELECT id::text, kind, ref_id::text, recipient, status, attempts, next_attempt_at, COALESCE(last_error, ''), sent_at, created_at
FROM notification_outbox
WHERE status = 'pending' AND next_attempt_at <= now()
ORDER BY next_attempt_at ASC
LIMIT $1
`
	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(
			&n.ID,
			&n.Kind,
			&n.RefID,
			&n.Recipient,
			&n.Status,
			&n.Attempts,
			&n.NextAttemptAt,
			&n.LastError,
			&n.SentAt,
			&n.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

func (r *postgresRepo) MarkSent(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE notification_outbox
SET status = 'sent', sent_at = now()
WHERE id = $1
`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) MarkRetry(ctx context.Context, id string, attempt int, nextAttempt time.Time, cause string, maxAttempts int) error {
	status := StatusPending
	if attempt >= maxAttempts {
		status = StatusFailed
	}
	cmd, err := r.pool.Exec(ctx, `
UPDATE notification_outbox
SET attempts = $2, next_attempt_at = $3, last_error = $4, status = $5
WHERE id = $1
`, id, attempt, nextAttempt, cause, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
