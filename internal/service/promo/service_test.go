package promo

import (
	"context"
	"testing"
	"time"

	"atelier-storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	byCode  map[string]*domain.PromoCode
	created *domain.PromoCode
}

func (f *fakeRepo) List(_ context.Context) ([]domain.PromoCode, error) { return nil, nil }

func (f *fakeRepo) GetByCode(_ context.Context, code string) (*domain.PromoCode, error) {
	p, ok := f.byCode[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) Create(_ context.Context, p domain.PromoCode) (*domain.PromoCode, error) {
	f.created = &p
	return &p, nil
}

func (f *fakeRepo) Update(_ context.Context, p domain.PromoCode) (*domain.PromoCode, error) {
	return &p, nil
}

func (f *fakeRepo) Delete(_ context.Context, _ string) error         { return nil }
func (f *fakeRepo) IncrementUsage(_ context.Context, _ string) error { return nil }

func fixedNow() time.Time {
	return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
}

func usableCode() *domain.PromoCode {
	return &domain.PromoCode{
		ID: "p1", Code: "SUMMER", DiscountPercent: 15, ApplyToAll: true, Active: true,
		ValidFrom:  fixedNow().Add(-24 * time.Hour),
		ValidUntil: fixedNow().Add(24 * time.Hour),
	}
}

func newService(repo *fakeRepo) *Service {
	s := New(repo)
	s.now = fixedNow
	return s
}

func TestValidateAcceptsUsableCode(t *testing.T) {
	svc := newService(&fakeRepo{byCode: map[string]*domain.PromoCode{"SUMMER": usableCode()}})

	v, err := svc.Validate(context.Background(), "  summer ", []string{"vase"})
	require.NoError(t, err)
	assert.True(t, v.Valid)
	assert.Equal(t, "SUMMER", v.Code)
	assert.Equal(t, 15, v.DiscountPercent)
}

func TestValidateUnknownCode(t *testing.T) {
	svc := newService(&fakeRepo{byCode: map[string]*domain.PromoCode{}})

	v, err := svc.Validate(context.Background(), "NOPE", nil)
	require.NoError(t, err)
	assert.False(t, v.Valid)
	assert.Equal(t, "unknown code", v.Reason)
}

func TestValidateExpiredCode(t *testing.T) {
	expired := usableCode()
	expired.ValidUntil = fixedNow().Add(-time.Hour)
	svc := newService(&fakeRepo{byCode: map[string]*domain.PromoCode{"SUMMER": expired}})

	v, err := svc.Validate(context.Background(), "SUMMER", nil)
	require.NoError(t, err)
	assert.False(t, v.Valid)
}

func TestValidateExhaustedCode(t *testing.T) {
	limit := 3
	exhausted := usableCode()
	exhausted.UsageLimit = &limit
	exhausted.UsageCount = 3
	svc := newService(&fakeRepo{byCode: map[string]*domain.PromoCode{"SUMMER": exhausted}})

	v, err := svc.Validate(context.Background(), "SUMMER", nil)
	require.NoError(t, err)
	assert.False(t, v.Valid)
}

func TestValidateRestrictedCodeMustCoverWholeCart(t *testing.T) {
	restricted := usableCode()
	restricted.ApplyToAll = false
	restricted.ProductIDs = []string{"vase"}
	svc := newService(&fakeRepo{byCode: map[string]*domain.PromoCode{"SUMMER": restricted}})

	v, err := svc.Validate(context.Background(), "SUMMER", []string{"vase", "plaque"})
	require.NoError(t, err)
	assert.False(t, v.Valid)

	v, err = svc.Validate(context.Background(), "SUMMER", []string{"vase"})
	require.NoError(t, err)
	assert.True(t, v.Valid)
}

func TestCreateNormalizesAndValidates(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(repo)

	_, err := svc.Create(context.Background(), domain.PromoCode{
		Code: " noel ", DiscountPercent: 20, ApplyToAll: true,
		ValidFrom:  fixedNow(),
		ValidUntil: fixedNow().Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "NOEL", repo.created.Code)
}

func TestCreateRejectsBadInput(t *testing.T) {
	svc := newService(&fakeRepo{})
	base := domain.PromoCode{
		Code: "X", DiscountPercent: 10, ApplyToAll: true,
		ValidFrom: fixedNow(), ValidUntil: fixedNow().Add(time.Hour),
	}

	noCode := base
	noCode.Code = " "
	badPct := base
	badPct.DiscountPercent = 0
	badWindow := base
	badWindow.ValidUntil = base.ValidFrom.Add(-time.Hour)
	noProducts := base
	noProducts.ApplyToAll = false

	for name, p := range map[string]domain.PromoCode{
		"empty code":         noCode,
		"zero discount":      badPct,
		"inverted window":    badWindow,
		"restricted no list": noProducts,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), p)
			assert.ErrorIs(t, err, ErrInvalidPromo)
		})
	}
}
