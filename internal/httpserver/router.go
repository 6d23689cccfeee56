package httpserver

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// buildRouter wires the storefront and admin routes.
func buildRouter(logger *zap.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery())
	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	if len(deps.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = deps.AllowedOrigins
		corsCfg.AllowCredentials = true
	}
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := newHandlers(deps, logger)

	api := router.Group("/api")
	{
		api.GET("/products", h.listProducts)
		api.GET("/products/:id", h.getProduct)
		api.GET("/rental/products/:id/booked-dates", h.bookedDates)
		api.GET("/announcements", h.activeAnnouncements)
		api.GET("/realisations", h.listRealisations)
		api.GET("/realisations/:id", h.getRealisation)

		api.POST("/promo-codes/validate", h.validatePromo)
		api.POST("/payment/create-checkout-session", h.createSaleSession)
		api.POST("/rental/create-checkout-session", h.createRentalSession)
		api.POST("/webhooks/payment", h.paymentWebhook)

		api.POST("/admin/login", h.adminLogin)

		admin := api.Group("/admin", adminAuth(deps.Auth))
		{
			admin.POST("/logout", h.adminLogout)

			admin.POST("/products", h.createProduct)
			admin.PUT("/products/:id", h.updateProduct)
			admin.DELETE("/products/:id", h.deleteProduct)

			admin.GET("/promo-codes", h.listPromoCodes)
			admin.POST("/promo-codes", h.createPromoCode)
			admin.PUT("/promo-codes/:id", h.updatePromoCode)
			admin.DELETE("/promo-codes/:id", h.deletePromoCode)

			admin.GET("/announcements", h.listAnnouncements)
			admin.POST("/announcements", h.createAnnouncement)
			admin.PUT("/announcements/:id", h.updateAnnouncement)
			admin.DELETE("/announcements/:id", h.deleteAnnouncement)

			admin.POST("/realisations", h.createRealisation)
			admin.PUT("/realisations/:id", h.updateRealisation)
			admin.DELETE("/realisations/:id", h.deleteRealisation)

			admin.GET("/orders", h.listOrders)
			admin.GET("/bookings", h.listBookings)
		}
	}

	return router
}
