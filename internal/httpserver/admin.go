package httpserver

import (
	"errors"
	"net/http"

	"atelier-storefront/internal/domain"
	"atelier-storefront/internal/service/adminauth"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *handlers) adminLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}
	res, err := h.deps.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, adminauth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handlers) adminLogout(c *gin.Context) {
	if err := h.deps.Auth.Logout(c.Request.Context(), bearerToken(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) createProduct(c *gin.Context) {
	var p domain.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	created, err := h.deps.Catalog.Create(c.Request.Context(), p)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) updateProduct(c *gin.Context) {
	var p domain.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	p.ID = c.Param("id")
	updated, err := h.deps.Catalog.Update(c.Request.Context(), p)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *handlers) deleteProduct(c *gin.Context) {
	if err := h.deps.Catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) listPromoCodes(c *gin.Context) {
	codes, err := h.deps.Promos.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, codes)
}

func (h *handlers) createPromoCode(c *gin.Context) {
	var p domain.PromoCode
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	created, err := h.deps.Promos.Create(c.Request.Context(), p)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) updatePromoCode(c *gin.Context) {
	var p domain.PromoCode
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	p.ID = c.Param("id")
	updated, err := h.deps.Promos.Update(c.Request.Context(), p)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *handlers) deletePromoCode(c *gin.Context) {
	if err := h.deps.Promos.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) listAnnouncements(c *gin.Context) {
	list, err := h.deps.Content.ListAnnouncements(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handlers) createAnnouncement(c *gin.Context) {
	var a domain.Announcement
	if err := c.ShouldBindJSON(&a); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	created, err := h.deps.Content.CreateAnnouncement(c.Request.Context(), a)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) updateAnnouncement(c *gin.Context) {
	var a domain.Announcement
	if err := c.ShouldBindJSON(&a); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	a.ID = c.Param("id")
	updated, err := h.deps.Content.UpdateAnnouncement(c.Request.Context(), a)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *handlers) deleteAnnouncement(c *gin.Context) {
	if err := h.deps.Content.DeleteAnnouncement(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) createRealisation(c *gin.Context) {
	var r domain.Realisation
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	created, err := h.deps.Content.CreateRealisation(c.Request.Context(), r)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) updateRealisation(c *gin.Context) {
	var r domain.Realisation
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	r.ID = c.Param("id")
	updated, err := h.deps.Content.UpdateRealisation(c.Request.Context(), r)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *handlers) deleteRealisation(c *gin.Context) {
	if err := h.deps.Content.DeleteRealisation(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) listOrders(c *gin.Context) {
	orders, err := h.deps.Orders.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

func (h *handlers) listBookings(c *gin.Context) {
	bookings, err := h.deps.Bookings.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	c.JSON(http.StatusOK, bookings)
}
