package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"atelier-storefront/internal/domain"
	productrepo "atelier-storefront/internal/repository/product"
)

// ErrInvalidProduct marks rejected admin writes.
var ErrInvalidProduct = errors.New("invalid product")

// Service exposes the product catalog to the storefront and the back office.
type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if err := validate(&p); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if err := validate(&p); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// validate enforces the catalog's write rules: a product must be sellable or
// rentable, priced for each enabled mode, and its customization options must
// match the closed option schema.
func validate(p *domain.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("%w: name required", ErrInvalidProduct)
	}
	if !p.ForSale && !p.ForRent {
		return fmt.Errorf("%w: product must be for sale, for rent, or both", ErrInvalidProduct)
	}
	if p.ForSale && p.PriceCents <= 0 {
		return fmt.Errorf("%w: sale price must be positive", ErrInvalidProduct)
	}
	if p.ForRent && p.DailyRentalPriceCents <= 0 {
		return fmt.Errorf("%w: daily rental price must be positive", ErrInvalidProduct)
	}
	if p.StockQuantity < 0 {
		return fmt.Errorf("%w: stock cannot be negative", ErrInvalidProduct)
	}
	if !p.Customizable && len(p.Options) > 0 {
		return fmt.Errorf("%w: options require the customizable flag", ErrInvalidProduct)
	}
	if err := domain.ValidateOptions(p.Options); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}
	return nil
}
