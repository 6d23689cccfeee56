package promo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"atelier-storefront/internal/domain"
	promorepo "atelier-storefront/internal/repository/promocode"
)

// ErrInvalidPromo marks rejected admin writes.
var ErrInvalidPromo = errors.New("invalid promo code")

// Service validates promo codes for the storefront and manages them for the
// back office.
type Service struct {
	repo promorepo.Repository
	now  func() time.Time
}

func New(repo promorepo.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Validation is the storefront answer to "can I use this code on this cart".
type Validation struct {
	Valid           bool   `json:"valid"`
	Code            string `json:"code,omitempty"`
	DiscountPercent int    `json:"discountPercent,omitempty"`
	Reason          string `json:"reason,omitempty"`
}

// Validate checks a code against its window, usage limit and product
// restrictions. Invalid codes yield a reason, not an error: the endpoint
// answers 200 either way.
func (s *Service) Validate(ctx context.Context, code string, productIDs []string) (Validation, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return Validation{Valid: false, Reason: "code required"}, nil
	}
	p, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Validation{Valid: false, Reason: "unknown code"}, nil
		}
		return Validation{}, err
	}
	if !p.Usable(s.now()) {
		return Validation{Valid: false, Reason: "code expired or exhausted"}, nil
	}
	for _, id := range productIDs {
		if !p.Covers(id) {
			return Validation{Valid: false, Reason: "code not applicable to this cart"}, nil
		}
	}
	return Validation{Valid: true, Code: p.Code, DiscountPercent: p.DiscountPercent}, nil
}

func (s *Service) List(ctx context.Context) ([]domain.PromoCode, error) {
	codes, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if codes == nil {
		codes = []domain.PromoCode{}
	}
	return codes, nil
}

func (s *Service) Create(ctx context.Context, p domain.PromoCode) (*domain.PromoCode, error) {
	if err := validate(&p); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Update(ctx context.Context, p domain.PromoCode) (*domain.PromoCode, error) {
	if err := validate(&p); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func validate(p *domain.PromoCode) error {
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	if p.Code == "" {
		return fmt.Errorf("%w: code required", ErrInvalidPromo)
	}
	if p.DiscountPercent < 1 || p.DiscountPercent > 100 {
		return fmt.Errorf("%w: discount must be between 1 and 100 percent", ErrInvalidPromo)
	}
	if p.ValidUntil.Before(p.ValidFrom) {
		return fmt.Errorf("%w: validity window ends before it starts", ErrInvalidPromo)
	}
	if !p.ApplyToAll && len(p.ProductIDs) == 0 {
		return fmt.Errorf("%w: restricted code needs at least one product", ErrInvalidPromo)
	}
	if p.UsageLimit != nil && *p.UsageLimit < 1 {
		return fmt.Errorf("%w: usage limit must be positive", ErrInvalidPromo)
	}
	return nil
}
