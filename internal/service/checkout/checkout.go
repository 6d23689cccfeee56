package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"atelier-storefront/internal/booking"
	"atelier-storefront/internal/domain"
	"atelier-storefront/internal/invoice"
	"atelier-storefront/internal/payment"
	"atelier-storefront/internal/pricing"
	bookingrepo "atelier-storefront/internal/repository/booking"
	orderrepo "atelier-storefront/internal/repository/order"
	outboxrepo "atelier-storefront/internal/repository/outbox"
	"go.uber.org/zap"
)

var (
	// ErrValidation marks client mistakes: empty carts, unknown products,
	// malformed rental windows, bad customization data. Handlers map it to 400.
	ErrValidation = errors.New("invalid checkout request")
	// ErrEmptyCart is returned when the submitted cart has no lines.
	ErrEmptyCart = fmt.Errorf("%w: cart is empty", ErrValidation)
)

type productGetter interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type promoStore interface {
	GetByCode(ctx context.Context, code string) (*domain.PromoCode, error)
	IncrementUsage(ctx context.Context, code string) error
}

type orderStore interface {
	CreatePending(ctx context.Context, in orderrepo.CreateOrderInput) (*domain.Order, error)
	MarkPaid(ctx context.Context, sessionID, invoiceNumber string) (*domain.Order, bool, error)
}

type bookingStore interface {
	CreatePending(ctx context.Context, in bookingrepo.CreateBookingInput) (*domain.Booking, error)
	MarkConfirmed(ctx context.Context, sessionID, invoiceNumber string) (*domain.Booking, bool, error)
	ActiveRanges(ctx context.Context, productID string) ([]domain.DateRange, error)
}

type notifier interface {
	Enqueue(ctx context.Context, kind, refID, recipient string) error
}

// Settings carries the storefront knobs checkout needs.
type Settings struct {
	Currency      string
	SuccessURL    string
	CancelURL     string
	InvoicePrefix string
	AdminEmail    string
	Rates         pricing.Rates
}

// Deps groups the collaborators of the checkout service.
type Deps struct {
	Products productGetter
	Promos   promoStore
	Orders   orderStore
	Bookings bookingStore
	Provider payment.Provider
	Outbox   notifier
	Settings Settings
	Logger   *zap.Logger
}

// Service orchestrates checkout: it validates and prices the cart server-side,
// opens a provider session, persists the pending order or booking, and later
// confirms it from the payment webhook.
type Service struct {
	products productGetter
	promos   promoStore
	orders   orderStore
	bookings bookingStore
	provider payment.Provider
	outbox   notifier
	settings Settings
	logger   *zap.Logger
	now      func() time.Time
}

func New(d Deps) *Service {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &Service{
		products: d.Products,
		promos:   d.Promos,
		orders:   d.Orders,
		bookings: d.Bookings,
		provider: d.Provider,
		outbox:   d.Outbox,
		settings: d.Settings,
		logger:   d.Logger,
		now:      time.Now,
	}
}

// Input is a checkout request. Client-sent prices are ignored; everything is
// repriced from the product records.
type Input struct {
	Lines          []domain.CartLine `json:"items"`
	CustomerEmail  string            `json:"customerEmail"`
	CustomerName   string            `json:"customerName"`
	PromoCode      string            `json:"promoCode"`
	DeliveryMethod string            `json:"deliveryMethod"`
}

// CreateSaleSession prices a sale cart, opens a provider session and records
// the pending order. Stock is reserved by the order insert, which decrements
// atomically and fails with domain.ErrInsufficientStock when short.
func (s *Service) CreateSaleSession(ctx context.Context, in Input) (*payment.Session, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	kind, err := domain.KindOfCart(in.Lines)
	if err != nil {
		return nil, err
	}
	if kind != domain.CartSale {
		return nil, fmt.Errorf("%w: rental items must use the rental checkout", ErrValidation)
	}

	priced, err := s.priceLines(ctx, in.Lines)
	if err != nil {
		return nil, err
	}
	promo, err := s.resolvePromo(ctx, in.PromoCode)
	if err != nil {
		return nil, err
	}
	summary, err := pricing.Summarize(priced, promo, pricing.DeliveryMethod(in.DeliveryMethod), s.settings.Rates, s.now())
	if err != nil {
		return nil, err
	}

	session, err := s.provider.CreateCheckoutSession(ctx, s.sessionInput(in, priced, summary, "sale"))
	if err != nil {
		return nil, fmt.Errorf("create sale session: %w", err)
	}

	orderIn := orderrepo.CreateOrderInput{
		SessionID:      session.ID,
		CustomerEmail:  in.CustomerEmail,
		CustomerName:   in.CustomerName,
		Currency:       s.settings.Currency,
		SubtotalCents:  summary.SubtotalCents,
		DiscountCents:  summary.DiscountCents,
		ShippingCents:  summary.ShippingCents,
		TotalCents:     summary.TotalCents,
		PromoCode:      summary.PromoCode,
		DeliveryMethod: in.DeliveryMethod,
	}
	for i, l := range priced {
		orderIn.Lines = append(orderIn.Lines, orderrepo.CreateOrderLine{
			ProductID:      l.ProductID,
			ProductName:    l.ProductName,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
			TotalCents:     l.Total(),
			Customizations: in.Lines[i].Customizations,
		})
	}
	if _, err := s.orders.CreatePending(ctx, orderIn); err != nil {
		return nil, err
	}

	s.logger.Info("sale checkout session created",
		zap.String("session_id", session.ID),
		zap.Int64("total_cents", summary.TotalCents))
	return session, nil
}

// CreateRentalSession prices a rental cart, checks availability, opens a
// provider session and records the pending booking. The advisory availability
// check keeps the common path friendly; the exclusion constraint on the insert
// is what actually closes the race, surfacing domain.ErrSlotTaken.
func (s *Service) CreateRentalSession(ctx context.Context, in Input) (*payment.Session, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	kind, err := domain.KindOfCart(in.Lines)
	if err != nil {
		return nil, err
	}
	if kind != domain.CartRental {
		return nil, fmt.Errorf("%w: sale items must use the sale checkout", ErrValidation)
	}

	priced, err := s.priceLines(ctx, in.Lines)
	if err != nil {
		return nil, err
	}
	for _, l := range priced {
		existing, err := s.bookings.ActiveRanges(ctx, l.ProductID)
		if err != nil {
			return nil, err
		}
		if booking.Blocked(l.Range, existing) {
			return nil, domain.ErrSlotTaken
		}
	}

	promo, err := s.resolvePromo(ctx, in.PromoCode)
	if err != nil {
		return nil, err
	}
	summary, err := pricing.Summarize(priced, promo, "", s.settings.Rates, s.now())
	if err != nil {
		return nil, err
	}

	session, err := s.provider.CreateCheckoutSession(ctx, s.sessionInput(in, priced, summary, "rental"))
	if err != nil {
		return nil, fmt.Errorf("create rental session: %w", err)
	}

	bookingIn := bookingrepo.CreateBookingInput{
		SessionID:     session.ID,
		CustomerEmail: in.CustomerEmail,
		CustomerName:  in.CustomerName,
		Currency:      s.settings.Currency,
		SubtotalCents: summary.SubtotalCents,
		DiscountCents: summary.DiscountCents,
		DepositCents:  summary.DepositCents,
		TotalCents:    summary.TotalCents,
		PromoCode:     summary.PromoCode,
	}
	for _, l := range priced {
		bookingIn.Lines = append(bookingIn.Lines, bookingrepo.CreateBookingLine{
			ProductID:       l.ProductID,
			ProductName:     l.ProductName,
			Quantity:        l.Quantity,
			DailyPriceCents: l.DailyPriceCents,
			Range:           l.Range,
			Days:            l.RentalDays(),
			TotalCents:      l.Total(),
		})
	}
	if _, err := s.bookings.CreatePending(ctx, bookingIn); err != nil {
		return nil, err
	}

	s.logger.Info("rental checkout session created",
		zap.String("session_id", session.ID),
		zap.Int64("total_cents", summary.TotalCents))
	return session, nil
}

// HandleWebhook verifies and applies a provider event. Confirmation is
// idempotent: replays find the record already confirmed and re-enqueue
// notifications, which the outbox deduplicates.
func (s *Service) HandleWebhook(ctx context.Context, signature string, body []byte) error {
	if err := s.provider.VerifySignature(signature, body); err != nil {
		return err
	}
	ev, err := payment.ParseEvent(body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if ev.Type != payment.EventCheckoutCompleted {
		s.logger.Debug("ignoring webhook event", zap.String("type", ev.Type))
		return nil
	}
	sessionID := ev.Data.Object.ID
	if sessionID == "" {
		return fmt.Errorf("%w: event carries no session id", ErrValidation)
	}

	number := invoice.NumberFor(s.settings.InvoicePrefix, s.now())

	ord, transitioned, err := s.orders.MarkPaid(ctx, sessionID, number)
	switch {
	case err == nil:
		return s.settleOrder(ctx, ord, transitioned)
	case errors.Is(err, domain.ErrNotFound):
		// Fall through to bookings.
	default:
		return err
	}

	bk, transitioned, err := s.bookings.MarkConfirmed(ctx, sessionID, number)
	switch {
	case err == nil:
		return s.settleBooking(ctx, bk, transitioned)
	case errors.Is(err, domain.ErrNotFound):
		// A session we never opened. Acknowledge so the provider stops
		// retrying, but leave a trace.
		s.logger.Warn("webhook for unknown session", zap.String("session_id", sessionID))
		return nil
	default:
		return err
	}
}

func (s *Service) settleOrder(ctx context.Context, ord *domain.Order, transitioned bool) error {
	if transitioned && ord.PromoCode != "" {
		if err := s.promos.IncrementUsage(ctx, ord.PromoCode); err != nil {
			s.logger.Error("increment promo usage", zap.String("code", ord.PromoCode), zap.Error(err))
		}
	}
	if transitioned {
		s.logger.Info("order confirmed",
			zap.String("order_id", ord.ID),
			zap.String("invoice", ord.InvoiceNumber))
	}
	return s.enqueueInvoices(ctx, outboxrepo.KindOrderInvoice, ord.ID, ord.CustomerEmail)
}

func (s *Service) settleBooking(ctx context.Context, bk *domain.Booking, transitioned bool) error {
	if transitioned && bk.PromoCode != "" {
		if err := s.promos.IncrementUsage(ctx, bk.PromoCode); err != nil {
			s.logger.Error("increment promo usage", zap.String("code", bk.PromoCode), zap.Error(err))
		}
	}
	if transitioned {
		s.logger.Info("booking confirmed",
			zap.String("booking_id", bk.ID),
			zap.String("invoice", bk.InvoiceNumber))
	}
	return s.enqueueInvoices(ctx, outboxrepo.KindBookingInvoice, bk.ID, bk.CustomerEmail)
}

func (s *Service) enqueueInvoices(ctx context.Context, kind, refID, customerEmail string) error {
	if err := s.outbox.Enqueue(ctx, kind, refID, customerEmail); err != nil {
		return fmt.Errorf("enqueue customer invoice: %w", err)
	}
	if s.settings.AdminEmail != "" {
		if err := s.outbox.Enqueue(ctx, kind, refID, s.settings.AdminEmail); err != nil {
			return fmt.Errorf("enqueue admin invoice: %w", err)
		}
	}
	return nil
}

// priceLines loads every product and builds server-priced lines, validating
// sale or rental eligibility and customization data along the way.
func (s *Service) priceLines(ctx context.Context, lines []domain.CartLine) ([]pricing.Line, error) {
	priced := make([]pricing.Line, 0, len(lines))
	for _, cl := range lines {
		if cl.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
		}
		p, err := s.products.GetByID(ctx, cl.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: unknown product %s", ErrValidation, cl.ProductID)
			}
			return nil, err
		}

		line := pricing.Line{
			ProductID:       p.ID,
			ProductName:     p.Name,
			Quantity:        cl.Quantity,
			Rental:          cl.Rental,
			UnitPriceCents:  p.PriceCents,
			DailyPriceCents: p.DailyRentalPriceCents,
			Customizable:    p.Customizable,
		}

		if cl.Rental {
			if !p.ForRent {
				return nil, fmt.Errorf("%w: product %q is not rentable", ErrValidation, p.Name)
			}
			r, err := domain.ParseDateRange(cl.RentalStart, cl.RentalEnd)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrValidation, err)
			}
			line.Range = r
		} else {
			if !p.ForSale {
				return nil, fmt.Errorf("%w: product %q is not for sale", ErrValidation, p.Name)
			}
		}

		if err := validateCustomizations(p, cl.Customizations); err != nil {
			return nil, err
		}
		priced = append(priced, line)
	}
	return priced, nil
}

func (s *Service) resolvePromo(ctx context.Context, code string) (*domain.PromoCode, error) {
	if code == "" {
		return nil, nil
	}
	promo, err := s.promos.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, pricing.ErrPromoInvalid
		}
		return nil, err
	}
	return promo, nil
}

func (s *Service) sessionInput(in Input, priced []pricing.Line, summary pricing.Summary, kind string) payment.CreateSessionInput {
	out := payment.CreateSessionInput{
		Currency:   s.settings.Currency,
		SuccessURL: s.settings.SuccessURL,
		CancelURL:  s.settings.CancelURL,
		Metadata: map[string]string{
			"kind":           kind,
			"customer_email": in.CustomerEmail,
		},
	}
	if summary.PromoCode != "" {
		out.Metadata["promo_code"] = summary.PromoCode
	}
	for _, l := range priced {
		sl := payment.SessionLine{
			Name:            l.ProductName,
			UnitAmountCents: l.UnitPriceCents,
			Quantity:        l.Quantity,
		}
		if l.Rental {
			sl.UnitAmountCents = l.DailyPriceCents
			sl.Description = fmt.Sprintf("Location %s (%d j)", l.Range.String(), l.RentalDays())
		}
		out.Lines = append(out.Lines, sl)
	}
	if summary.DiscountCents > 0 {
		out.Lines = append(out.Lines, payment.SessionLine{
			Name:            fmt.Sprintf("Remise (%s)", summary.PromoCode),
			UnitAmountCents: -summary.DiscountCents,
			Quantity:        1,
		})
	}
	if summary.ShippingCents > 0 {
		out.Lines = append(out.Lines, payment.SessionLine{
			Name:            "Livraison",
			UnitAmountCents: summary.ShippingCents,
			Quantity:        1,
		})
	}
	if summary.DepositCents > 0 {
		out.Lines = append(out.Lines, payment.SessionLine{
			Name:            "Caution",
			UnitAmountCents: summary.DepositCents,
			Quantity:        1,
		})
	}
	return out
}

func validateInput(in Input) error {
	if len(in.Lines) == 0 {
		return ErrEmptyCart
	}
	if in.CustomerEmail == "" {
		return fmt.Errorf("%w: customer email required", ErrValidation)
	}
	return nil
}

// validateCustomizations enforces the product's option schema on submitted
// values: unknown keys are rejected, required options must be present, and
// dropdown or checkbox values must match a declared choice.
func validateCustomizations(p *domain.Product, values map[string]string) error {
	if len(values) > 0 && !p.Customizable {
		return fmt.Errorf("%w: product %q does not take customizations", ErrValidation, p.Name)
	}
	byName := make(map[string]domain.CustomizationOption, len(p.Options))
	for _, opt := range p.Options {
		byName[opt.Name] = opt
	}
	for name := range values {
		if _, ok := byName[name]; !ok {
			return fmt.Errorf("%w: unknown customization %q for product %q", ErrValidation, name, p.Name)
		}
	}
	for _, opt := range p.Options {
		val, present := values[opt.Name]
		if !present || val == "" {
			if opt.Required {
				return fmt.Errorf("%w: customization %q is required", ErrValidation, opt.Name)
			}
			continue
		}
		switch opt.Kind {
		case domain.OptionDropdown, domain.OptionCheckbox:
			found := false
			for _, c := range opt.Choices {
				if c.Label == val {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("%w: %q is not a valid choice for %q", ErrValidation, val, opt.Name)
			}
		}
	}
	return nil
}
