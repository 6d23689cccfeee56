package catalog

import (
	"context"
	"testing"

	"atelier-storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct{ created *domain.Product }

func (f *fakeRepo) List(_ context.Context) ([]domain.Product, error) { return nil, nil }

func (f *fakeRepo) GetByID(_ context.Context, _ string) (*domain.Product, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeRepo) Create(_ context.Context, p domain.Product) (*domain.Product, error) {
	f.created = &p
	return &p, nil
}

func (f *fakeRepo) Update(_ context.Context, p domain.Product) (*domain.Product, error) {
	return &p, nil
}

func (f *fakeRepo) Delete(_ context.Context, _ string) error { return nil }

func validProduct() domain.Product {
	return domain.Product{
		Name:       "Vase céramique",
		PriceCents: 2500,
		ForSale:    true,
	}
}

func TestListNeverReturnsNil(t *testing.T) {
	svc := New(&fakeRepo{})
	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
}

func TestCreateAcceptsValidProduct(t *testing.T) {
	repo := &fakeRepo{}
	svc := New(repo)

	_, err := svc.Create(context.Background(), validProduct())
	require.NoError(t, err)
	assert.Equal(t, "Vase céramique", repo.created.Name)
}

func TestCreateRejectsInvalidProducts(t *testing.T) {
	svc := New(&fakeRepo{})

	noName := validProduct()
	noName.Name = "  "

	noMode := validProduct()
	noMode.ForSale = false

	freeSale := validProduct()
	freeSale.PriceCents = 0

	freeRental := domain.Product{Name: "Arche", ForRent: true}

	negStock := validProduct()
	negStock.StockQuantity = -1

	orphanOptions := validProduct()
	orphanOptions.Options = []domain.CustomizationOption{{Name: "Texte", Kind: domain.OptionText}}

	badOption := validProduct()
	badOption.Customizable = true
	badOption.Options = []domain.CustomizationOption{{Name: "Choix", Kind: "slider"}}

	for name, p := range map[string]domain.Product{
		"empty name":                noName,
		"neither sale nor rent":     noMode,
		"sale without price":        freeSale,
		"rental without daily rate": freeRental,
		"negative stock":            negStock,
		"options without the flag":  orphanOptions,
		"unknown option kind":       badOption,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), p)
			assert.ErrorIs(t, err, ErrInvalidProduct)
		})
	}
}
