package httpserver

import (
	"errors"
	"io"
	"net/http"

	"atelier-storefront/internal/domain"
	"atelier-storefront/internal/payment"
	"atelier-storefront/internal/pricing"
	"atelier-storefront/internal/service/catalog"
	checkoutsvc "atelier-storefront/internal/service/checkout"
	contentsvc "atelier-storefront/internal/service/content"
	promosvc "atelier-storefront/internal/service/promo"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// signatureHeader carries the webhook HMAC signature.
const signatureHeader = "Payment-Signature"

// maxWebhookBody bounds webhook payload reads.
const maxWebhookBody = 1 << 20

type handlers struct {
	deps   Deps
	logger *zap.Logger
}

func newHandlers(deps Deps, logger *zap.Logger) *handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &handlers{deps: deps, logger: logger}
}

// respondError maps service errors to HTTP statuses.
func (h *handlers) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrSlotTaken),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrMixedCart),
		errors.Is(err, checkoutsvc.ErrValidation),
		errors.Is(err, catalog.ErrInvalidProduct),
		errors.Is(err, promosvc.ErrInvalidPromo),
		errors.Is(err, contentsvc.ErrInvalidContent),
		errors.Is(err, pricing.ErrPromoInvalid),
		errors.Is(err, pricing.ErrPromoNotApplicable),
		errors.Is(err, pricing.ErrUnknownDeliveryMethod):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *handlers) listProducts(c *gin.Context) {
	products, err := h.deps.Catalog.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *handlers) getProduct(c *gin.Context) {
	p, err := h.deps.Catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) bookedDates(c *gin.Context) {
	ranges, err := h.deps.Availability.BookedDates(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	out := make([]gin.H, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, gin.H{
			"start": r.Start.Format("2006-01-02"),
			"end":   r.End.Format("2006-01-02"),
		})
	}
	c.JSON(http.StatusOK, gin.H{"bookedDates": out})
}

type validatePromoRequest struct {
	Code       string   `json:"code"`
	ProductIDs []string `json:"productIds"`
}

func (h *handlers) validatePromo(c *gin.Context) {
	var req validatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	v, err := h.deps.Promos.Validate(c.Request.Context(), req.Code, req.ProductIDs)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *handlers) createSaleSession(c *gin.Context) {
	var in checkoutsvc.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	session, err := h.deps.Checkout.CreateSaleSession(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionId": session.ID, "url": session.URL})
}

func (h *handlers) createRentalSession(c *gin.Context) {
	var in checkoutsvc.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	session, err := h.deps.Checkout.CreateRentalSession(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionId": session.ID, "url": session.URL})
}

// paymentWebhook verifies and applies a provider event. The raw body is read
// before any parsing: the signature covers the exact bytes on the wire.
func (h *handlers) paymentWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	err = h.deps.Checkout.HandleWebhook(c.Request.Context(), c.GetHeader(signatureHeader), body)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"received": true})
	case errors.Is(err, payment.ErrBadSignature):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
	case errors.Is(err, checkoutsvc.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		// Let the provider retry delivery.
		h.logger.Error("webhook processing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *handlers) activeAnnouncements(c *gin.Context) {
	list, err := h.deps.Content.ActiveAnnouncements(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handlers) listRealisations(c *gin.Context) {
	list, err := h.deps.Content.ListRealisations(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handlers) getRealisation(c *gin.Context) {
	r, err := h.deps.Content.GetRealisation(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}
