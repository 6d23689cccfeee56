package admin

import (
	"context"

	"atelier-storefront/internal/domain"
)

type Repository interface {
	GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error)
	GetByID(ctx context.Context, id string) (*domain.AdminUser, error)
	Create(ctx context.Context, u domain.AdminUser) (*domain.AdminUser, error)
}
