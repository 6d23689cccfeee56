package booking

import (
	"context"

	"atelier-storefront/internal/domain"
	"go.uber.org/zap"
)

// Service answers availability questions for rental products.
type Service struct {
	repo   rangeRepo
	logger *zap.Logger
}

type rangeRepo interface {
	ActiveRanges(ctx context.Context, productID string) ([]domain.DateRange, error)
}

func New(repo rangeRepo, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// BookedDates returns the confirmed and pending ranges for a product, for
// the storefront calendar.
func (s *Service) BookedDates(ctx context.Context, productID string) ([]domain.DateRange, error) {
	ranges, err := s.repo.ActiveRanges(ctx, productID)
	if err != nil {
		return nil, err
	}
	if ranges == nil {
		ranges = []domain.DateRange{}
	}
	return ranges, nil
}

// Available reports whether the candidate range is free of conflicts. This is
// advisory only: the booking write itself is guarded by an exclusion
// constraint, so a lost race surfaces as domain.ErrSlotTaken there.
func (s *Service) Available(ctx context.Context, productID string, candidate domain.DateRange) (bool, error) {
	ranges, err := s.repo.ActiveRanges(ctx, productID)
	if err != nil {
		return false, err
	}
	if Blocked(candidate, ranges) {
		s.logger.Debug("rental range blocked",
			zap.String("product_id", productID),
			zap.String("range", candidate.String()))
		return false, nil
	}
	return true, nil
}

// Blocked reports whether the candidate intersects any existing range,
// inclusive at both endpoints.
func Blocked(candidate domain.DateRange, existing []domain.DateRange) bool {
	for _, r := range existing {
		if candidate.Overlaps(r) {
			return true
		}
	}
	return false
}
