package content

import (
	"context"

	"atelier-storefront/internal/domain"
)

type Repository interface {
	ListAnnouncements(ctx context.Context, activeOnly bool) ([]domain.Announcement, error)
	CreateAnnouncement(ctx context.Context, a domain.Announcement) (*domain.Announcement, error)
	UpdateAnnouncement(ctx context.Context, a domain.Announcement) (*domain.Announcement, error)
	DeleteAnnouncement(ctx context.Context, id string) error

	ListRealisations(ctx context.Context) ([]domain.Realisation, error)
	GetRealisation(ctx context.Context, id string) (*domain.Realisation, error)
	CreateRealisation(ctx context.Context, r domain.Realisation) (*domain.Realisation, error)
	UpdateRealisation(ctx context.Context, r domain.Realisation) (*domain.Realisation, error)
	DeleteRealisation(ctx context.Context, id string) error
}
