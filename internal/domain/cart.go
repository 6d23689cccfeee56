package domain

// CartLine is one client-held cart entry submitted at checkout. Unit prices
// on the wire are informational only; the checkout service recomputes every
// amount from the product record before charging.
type CartLine struct {
	ProductID      string            `json:"productId"`
	Quantity       int               `json:"quantity"`
	Rental         bool              `json:"isRental"`
	RentalStart    string            `json:"rentalStart,omitempty"`
	RentalEnd      string            `json:"rentalEnd,omitempty"`
	Customizations map[string]string `json:"customizations,omitempty"`
}

// CartKind classifies a cart once validated: all-sale or all-rental.
type CartKind string

const (
	CartSale   CartKind = "sale"
	CartRental CartKind = "rental"
)

// KindOfCart derives the cart kind, rejecting mixed carts.
func KindOfCart(lines []CartLine) (CartKind, error) {
	var sale, rental bool
	for _, l := range lines {
		if l.Rental {
			rental = true
		} else {
			sale = true
		}
	}
	if sale && rental {
		return "", ErrMixedCart
	}
	if rental {
		return CartRental, nil
	}
	return CartSale, nil
}
