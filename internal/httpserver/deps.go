package httpserver

import (
	"context"

	"atelier-storefront/internal/domain"
	"atelier-storefront/internal/payment"
	"atelier-storefront/internal/service/adminauth"
	"atelier-storefront/internal/service/checkout"
	"atelier-storefront/internal/service/promo"
)

type catalogService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type availabilityService interface {
	BookedDates(ctx context.Context, productID string) ([]domain.DateRange, error)
}

type promoService interface {
	Validate(ctx context.Context, code string, productIDs []string) (promo.Validation, error)
	List(ctx context.Context) ([]domain.PromoCode, error)
	Create(ctx context.Context, p domain.PromoCode) (*domain.PromoCode, error)
	Update(ctx context.Context, p domain.PromoCode) (*domain.PromoCode, error)
	Delete(ctx context.Context, id string) error
}

type checkoutService interface {
	CreateSaleSession(ctx context.Context, in checkout.Input) (*payment.Session, error)
	CreateRentalSession(ctx context.Context, in checkout.Input) (*payment.Session, error)
	HandleWebhook(ctx context.Context, signature string, body []byte) error
}

type authService interface {
	Login(ctx context.Context, email, password string) (*adminauth.LoginResult, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*domain.AdminUser, error)
}

type contentService interface {
	ActiveAnnouncements(ctx context.Context) ([]domain.Announcement, error)
	ListAnnouncements(ctx context.Context) ([]domain.Announcement, error)
	CreateAnnouncement(ctx context.Context, a domain.Announcement) (*domain.Announcement, error)
	UpdateAnnouncement(ctx context.Context, a domain.Announcement) (*domain.Announcement, error)
	DeleteAnnouncement(ctx context.Context, id string) error

	ListRealisations(ctx context.Context) ([]domain.Realisation, error)
	GetRealisation(ctx context.Context, id string) (*domain.Realisation, error)
	CreateRealisation(ctx context.Context, r domain.Realisation) (*domain.Realisation, error)
	UpdateRealisation(ctx context.Context, r domain.Realisation) (*domain.Realisation, error)
	DeleteRealisation(ctx context.Context, id string) error
}

type orderLister interface {
	List(ctx context.Context) ([]domain.Order, error)
}

type bookingLister interface {
	List(ctx context.Context) ([]domain.Booking, error)
}

// Deps carries the services the HTTP layer exposes.
type Deps struct {
	Catalog        catalogService
	Availability   availabilityService
	Promos         promoService
	Checkout       checkoutService
	Auth           authService
	Content        contentService
	Orders         orderLister
	Bookings       bookingLister
	AllowedOrigins []string
}
