package domain

import "time"

type PromoCode struct {
	ID              string    `json:"id"`
	Code            string    `json:"code"`
	DiscountPercent int       `json:"discountPercent"`
	ApplyToAll      bool      `json:"applyToAllProducts"`
	ProductIDs      []string  `json:"applicableProducts,omitempty"`
	ValidFrom       time.Time `json:"validFrom"`
	ValidUntil      time.Time `json:"validUntil"`
	UsageLimit      *int      `json:"usageLimit,omitempty"`
	UsageCount      int       `json:"usageCount"`
	Active          bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Usable reports whether the code can still be applied at the given instant.
func (p PromoCode) Usable(now time.Time) bool {
	if !p.Active {
		return false
	}
	if now.Before(p.ValidFrom) || now.After(p.ValidUntil) {
		return false
	}
	if p.UsageLimit != nil && p.UsageCount >= *p.UsageLimit {
		return false
	}
	return true
}

// Covers reports whether the code applies to the given product.
func (p PromoCode) Covers(productID string) bool {
	if p.ApplyToAll {
		return true
	}
	for _, id := range p.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}
