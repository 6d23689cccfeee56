package pricing

import (
	"testing"
	"time"

	"atelier-storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func rentalLine(t *testing.T, daily int64, qty int, start, end string) Line {
	t.Helper()
	r, err := domain.ParseDateRange(start, end)
	require.NoError(t, err)
	return Line{ProductID: "p1", Quantity: qty, Rental: true, DailyPriceCents: daily, Range: r}
}

func activePromo(pct int) *domain.PromoCode {
	return &domain.PromoCode{
		Code:            "TEN",
		DiscountPercent: pct,
		ApplyToAll:      true,
		ValidFrom:       now.AddDate(0, -1, 0),
		ValidUntil:      now.AddDate(0, 1, 0),
		Active:          true,
	}
}

func TestRentalLineTotalIgnoresDayCount(t *testing.T) {
	// dailyRentalPrice=10EUR, qty=2, 2024-06-01..2024-06-03: three billable
	// days are displayed but the charge stays dailyRate x quantity.
	l := rentalLine(t, 1000, 2, "2024-06-01", "2024-06-03")

	assert.Equal(t, 3, l.RentalDays())
	assert.Equal(t, int64(2000), l.Total())
}

func TestRentalDaysInclusive(t *testing.T) {
	cases := []struct {
		start, end string
		days       int
	}{
		{"2024-06-01", "2024-06-01", 1},
		{"2024-06-01", "2024-06-02", 2},
		{"2024-06-01", "2024-06-30", 30},
	}
	for _, tc := range cases {
		l := rentalLine(t, 1000, 1, tc.start, tc.end)
		assert.Equal(t, tc.days, l.RentalDays(), "%s..%s", tc.start, tc.end)
	}
}

func TestSaleLineTotal(t *testing.T) {
	l := Line{ProductID: "p1", Quantity: 3, UnitPriceCents: 2500}
	assert.Equal(t, int64(7500), l.Total())
}

func TestSummarizePromoAllProducts(t *testing.T) {
	// subtotal 100EUR, code TEN at 10%: discount 10.00EUR, total 90.00EUR.
	lines := []Line{{ProductID: "p1", Quantity: 4, UnitPriceCents: 2500}}

	sum, err := Summarize(lines, activePromo(10), DeliveryPickup, Rates{}, now)
	require.NoError(t, err)

	assert.Equal(t, domain.CartSale, sum.Kind)
	assert.Equal(t, int64(10000), sum.SubtotalCents)
	assert.Equal(t, int64(1000), sum.DiscountCents)
	assert.Equal(t, int64(0), sum.ShippingCents)
	assert.Equal(t, int64(9000), sum.TotalCents)
	assert.Equal(t, "TEN", sum.PromoCode)
}

func TestSummarizeDiscountRounding(t *testing.T) {
	// 33.35EUR at 15% = 5.0025EUR, rounds half-up to 5.00EUR.
	lines := []Line{{ProductID: "p1", Quantity: 1, UnitPriceCents: 3335}}
	sum, err := Summarize(lines, activePromo(15), DeliveryPickup, Rates{}, now)
	require.NoError(t, err)
	assert.Equal(t, int64(500), sum.DiscountCents)
}

func TestSummarizeRejectsMixedCart(t *testing.T) {
	lines := []Line{
		{ProductID: "p1", Quantity: 1, UnitPriceCents: 1000},
		rentalLine(t, 500, 1, "2024-07-01", "2024-07-02"),
	}
	_, err := Summarize(lines, nil, DeliveryPickup, Rates{}, now)
	assert.ErrorIs(t, err, domain.ErrMixedCart)
}

func TestSummarizeRestrictedPromoMustCoverCart(t *testing.T) {
	promo := activePromo(10)
	promo.ApplyToAll = false
	promo.ProductIDs = []string{"p1"}

	lines := []Line{
		{ProductID: "p1", Quantity: 1, UnitPriceCents: 1000},
		{ProductID: "p2", Quantity: 1, UnitPriceCents: 1000},
	}
	_, err := Summarize(lines, promo, DeliveryPickup, Rates{}, now)
	assert.ErrorIs(t, err, ErrPromoNotApplicable)

	lines = lines[:1]
	sum, err := Summarize(lines, promo, DeliveryPickup, Rates{}, now)
	require.NoError(t, err)
	assert.Equal(t, int64(100), sum.DiscountCents)
}

func TestSummarizePromoValidity(t *testing.T) {
	expired := activePromo(10)
	expired.ValidUntil = now.AddDate(0, 0, -1)

	inactive := activePromo(10)
	inactive.Active = false

	limit := 3
	exhausted := activePromo(10)
	exhausted.UsageLimit = &limit
	exhausted.UsageCount = 3

	lines := []Line{{ProductID: "p1", Quantity: 1, UnitPriceCents: 1000}}
	for name, promo := range map[string]*domain.PromoCode{
		"expired":   expired,
		"inactive":  inactive,
		"exhausted": exhausted,
	} {
		_, err := Summarize(lines, promo, DeliveryPickup, Rates{}, now)
		assert.ErrorIs(t, err, ErrPromoInvalid, name)
	}
}

func TestSummarizeShipping(t *testing.T) {
	rates := Rates{StandardCents: 590, ExpressCents: 990}

	plain := []Line{{ProductID: "p1", Quantity: 1, UnitPriceCents: 1000}}
	sum, err := Summarize(plain, nil, DeliveryStandard, rates, now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), sum.ShippingCents, "no customizable product: free shipping")

	custom := []Line{{ProductID: "p1", Quantity: 1, UnitPriceCents: 1000, Customizable: true}}
	sum, err = Summarize(custom, nil, DeliveryStandard, rates, now)
	require.NoError(t, err)
	assert.Equal(t, int64(590), sum.ShippingCents)
	assert.Equal(t, int64(1590), sum.TotalCents)

	sum, err = Summarize(custom, nil, DeliveryExpress, rates, now)
	require.NoError(t, err)
	assert.Equal(t, int64(990), sum.ShippingCents)

	sum, err = Summarize(custom, nil, DeliveryPickup, rates, now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), sum.ShippingCents)

	_, err = Summarize(custom, nil, DeliveryMethod("drone"), rates, now)
	assert.ErrorIs(t, err, ErrUnknownDeliveryMethod)
}

func TestSummarizeRentalDeposit(t *testing.T) {
	lines := []Line{rentalLine(t, 1000, 2, "2024-06-01", "2024-06-03")}
	sum, err := Summarize(lines, nil, "", Rates{DepositCents: 5000}, now)
	require.NoError(t, err)

	assert.Equal(t, domain.CartRental, sum.Kind)
	assert.Equal(t, int64(2000), sum.SubtotalCents)
	assert.Equal(t, int64(5000), sum.DepositCents)
	assert.Equal(t, int64(0), sum.ShippingCents)
	assert.Equal(t, int64(7000), sum.TotalCents)
}

func TestWithVAT(t *testing.T) {
	assert.Equal(t, int64(1200), WithVAT(1000, 20))
	assert.Equal(t, int64(120), WithVAT(100, 20))
	assert.Equal(t, int64(1199), WithVAT(999, 20)) // 11.988 rounds to 11.99
}
