package promocode

import (
	"context"

	"atelier-storefront/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.PromoCode, error)
	GetByCode(ctx context.Context, code string) (*domain.PromoCode, error)
	Create(ctx context.Context, p domain.PromoCode) (*domain.PromoCode, error)
	Update(ctx context.Context, p domain.PromoCode) (*domain.PromoCode, error)
	Delete(ctx context.Context, id string) error
	// IncrementUsage bumps usage_count once per confirmed checkout.
	IncrementUsage(ctx context.Context, code string) error
}
