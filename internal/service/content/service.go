package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"atelier-storefront/internal/domain"
	contentrepo "atelier-storefront/internal/repository/content"
)

// ErrInvalidContent marks rejected admin writes.
var ErrInvalidContent = errors.New("invalid content")

// Service manages storefront editorial content: announcement banners and the
// realisations portfolio.
type Service struct {
	repo contentrepo.Repository
}

func New(repo contentrepo.Repository) *Service {
	return &Service{repo: repo}
}

// ActiveAnnouncements returns the banners currently shown on the storefront.
func (s *Service) ActiveAnnouncements(ctx context.Context) ([]domain.Announcement, error) {
	list, err := s.repo.ListAnnouncements(ctx, true)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Announcement{}
	}
	return list, nil
}

func (s *Service) ListAnnouncements(ctx context.Context) ([]domain.Announcement, error) {
	list, err := s.repo.ListAnnouncements(ctx, false)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Announcement{}
	}
	return list, nil
}

func (s *Service) CreateAnnouncement(ctx context.Context, a domain.Announcement) (*domain.Announcement, error) {
	a.Message = strings.TrimSpace(a.Message)
	if a.Message == "" {
		return nil, fmt.Errorf("%w: message required", ErrInvalidContent)
	}
	return s.repo.CreateAnnouncement(ctx, a)
}

func (s *Service) UpdateAnnouncement(ctx context.Context, a domain.Announcement) (*domain.Announcement, error) {
	a.Message = strings.TrimSpace(a.Message)
	if a.Message == "" {
		return nil, fmt.Errorf("%w: message required", ErrInvalidContent)
	}
	return s.repo.UpdateAnnouncement(ctx, a)
}

func (s *Service) DeleteAnnouncement(ctx context.Context, id string) error {
	return s.repo.DeleteAnnouncement(ctx, id)
}

func (s *Service) ListRealisations(ctx context.Context) ([]domain.Realisation, error) {
	list, err := s.repo.ListRealisations(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Realisation{}
	}
	return list, nil
}

func (s *Service) GetRealisation(ctx context.Context, id string) (*domain.Realisation, error) {
	return s.repo.GetRealisation(ctx, id)
}

func (s *Service) CreateRealisation(ctx context.Context, r domain.Realisation) (*domain.Realisation, error) {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return nil, fmt.Errorf("%w: title required", ErrInvalidContent)
	}
	return s.repo.CreateRealisation(ctx, r)
}

func (s *Service) UpdateRealisation(ctx context.Context, r domain.Realisation) (*domain.Realisation, error) {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return nil, fmt.Errorf("%w: title required", ErrInvalidContent)
	}
	return s.repo.UpdateRealisation(ctx, r)
}

func (s *Service) DeleteRealisation(ctx context.Context, id string) error {
	return s.repo.DeleteRealisation(ctx, id)
}
