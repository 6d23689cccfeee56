package pricing

import (
	"errors"
	"time"

	"atelier-storefront/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	// ErrPromoInvalid covers inactive, expired and exhausted codes.
	ErrPromoInvalid = errors.New("promo code invalid or expired")
	// ErrPromoNotApplicable is returned when a restricted code does not cover
	// every product in the cart.
	ErrPromoNotApplicable = errors.New("promo code not applicable to this cart")
	// ErrUnknownDeliveryMethod is returned for delivery methods outside the
	// fixed rate table.
	ErrUnknownDeliveryMethod = errors.New("unknown delivery method")
)

// Line is a cart entry after server-side validation: prices come from the
// product record, never from the client.
type Line struct {
	ProductID       string
	ProductName     string
	Quantity        int
	Rental          bool
	UnitPriceCents  int64
	DailyPriceCents int64
	Range           domain.DateRange
	Customizable    bool
}

// Total prices a single line. Rental lines bill dailyRate x quantity; the
// day count is reported to the shopper but does not enter the price. That
// mirrors the live business rule and is asserted as such by the tests.
func (l Line) Total() int64 {
	if l.Rental {
		return l.DailyPriceCents * int64(l.Quantity)
	}
	return l.UnitPriceCents * int64(l.Quantity)
}

// RentalDays is the inclusive day count displayed alongside a rental line.
func (l Line) RentalDays() int {
	if !l.Rental {
		return 0
	}
	return l.Range.Days()
}

type DeliveryMethod string

const (
	DeliveryPickup   DeliveryMethod = "pickup"
	DeliveryStandard DeliveryMethod = "standard"
	DeliveryExpress  DeliveryMethod = "express"
)

// Rates is the fixed shipping table plus the flat rental deposit.
type Rates struct {
	StandardCents int64
	ExpressCents  int64
	DepositCents  int64
}

// Summary is the priced cart. All amounts are tax-exclusive cents; the TTC
// figure shown to shoppers is derived separately (see WithVAT).
type Summary struct {
	Kind          domain.CartKind
	SubtotalCents int64
	DiscountCents int64
	ShippingCents int64
	DepositCents  int64
	TotalCents    int64
	PromoCode     string
}

// Summarize aggregates validated lines into a priced summary. At most one
// promo code applies; a restricted code must cover every product in the cart.
// Shipping is free unless the cart holds a customizable product. Sale carts
// get shipping, rental carts a deposit.
func Summarize(priced []Line, promo *domain.PromoCode, method DeliveryMethod, rates Rates, now time.Time) (Summary, error) {
	var sale, rental bool
	var subtotal int64
	customizable := false
	for _, l := range priced {
		if l.Rental {
			rental = true
		} else {
			sale = true
		}
		subtotal += l.Total()
		if l.Customizable {
			customizable = true
		}
	}
	if sale && rental {
		return Summary{}, domain.ErrMixedCart
	}
	kind := domain.CartSale
	if rental {
		kind = domain.CartRental
	}

	var discount int64
	var code string
	if promo != nil {
		if !promo.Usable(now) {
			return Summary{}, ErrPromoInvalid
		}
		for _, l := range priced {
			if !promo.Covers(l.ProductID) {
				return Summary{}, ErrPromoNotApplicable
			}
		}
		discount = PercentOf(subtotal, promo.DiscountPercent)
		code = promo.Code
	}

	var shipping, deposit int64
	if kind == domain.CartSale {
		if customizable {
			switch method {
			case DeliveryPickup, "":
				shipping = 0
			case DeliveryStandard:
				shipping = rates.StandardCents
			case DeliveryExpress:
				shipping = rates.ExpressCents
			default:
				return Summary{}, ErrUnknownDeliveryMethod
			}
		}
	} else {
		deposit = rates.DepositCents
	}

	return Summary{
		Kind:          kind,
		SubtotalCents: subtotal,
		DiscountCents: discount,
		ShippingCents: shipping,
		DepositCents:  deposit,
		TotalCents:    subtotal - discount + shipping + deposit,
		PromoCode:     code,
	}, nil
}

// PercentOf computes pct% of an amount in cents, rounded half-up to the cent.
func PercentOf(amountCents int64, pct int) int64 {
	return decimal.NewFromInt(amountCents).
		Mul(decimal.NewFromInt(int64(pct))).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}

// WithVAT converts a tax-exclusive amount to its TTC equivalent.
func WithVAT(htCents, ratePercent int64) int64 {
	return decimal.NewFromInt(htCents).
		Mul(decimal.NewFromInt(100 + ratePercent)).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}
