package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"atelier-storefront/internal/booking"
	"atelier-storefront/internal/config"
	"atelier-storefront/internal/db"
	"atelier-storefront/internal/httpserver"
	"atelier-storefront/internal/invoice"
	"atelier-storefront/internal/logger"
	"atelier-storefront/internal/mailer"
	"atelier-storefront/internal/outbox"
	"atelier-storefront/internal/payment"
	"atelier-storefront/internal/pricing"
	adminrepo "atelier-storefront/internal/repository/admin"
	bookingrepo "atelier-storefront/internal/repository/booking"
	contentrepo "atelier-storefront/internal/repository/content"
	orderrepo "atelier-storefront/internal/repository/order"
	outboxrepo "atelier-storefront/internal/repository/outbox"
	productrepo "atelier-storefront/internal/repository/product"
	promorepo "atelier-storefront/internal/repository/promocode"
	tokenrepo "atelier-storefront/internal/repository/token"
	adminauthsvc "atelier-storefront/internal/service/adminauth"
	catalogsvc "atelier-storefront/internal/service/catalog"
	checkoutsvc "atelier-storefront/internal/service/checkout"
	contentsvc "atelier-storefront/internal/service/content"
	promosvc "atelier-storefront/internal/service/promo"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		log.Fatal("connect to db", zap.Error(err))
	}
	defer pool.Close()

	productRepo := productrepo.NewPostgres(pool, log)
	promoRepo := promorepo.NewPostgres(pool)
	orderRepo := orderrepo.NewPostgres(pool, log)
	bookingRepo := bookingrepo.NewPostgres(pool, log)
	outboxRepo := outboxrepo.NewPostgres(pool)
	adminRepo := adminrepo.NewPostgres(pool)
	tokenRepo := tokenrepo.NewPostgres(pool)
	contentRepo := contentrepo.NewPostgres(pool)

	provider := payment.NewClient(cfg.Payment.APIBaseURL, cfg.Payment.APIKey, cfg.Payment.WebhookSecret)
	rates := pricing.Rates{
		StandardCents: cfg.Shop.StandardShipCent,
		ExpressCents:  cfg.Shop.ExpressShipCent,
		DepositCents:  cfg.Shop.RentalDeposit,
	}

	catalogService := catalogsvc.New(productRepo)
	availabilityService := booking.New(bookingRepo, log)
	promoService := promosvc.New(promoRepo)
	authService := adminauthsvc.New(adminRepo, tokenRepo)
	contentService := contentsvc.New(contentRepo)
	checkoutService := checkoutsvc.New(checkoutsvc.Deps{
		Products: productRepo,
		Promos:   promoRepo,
		Orders:   orderRepo,
		Bookings: bookingRepo,
		Provider: provider,
		Outbox:   outboxRepo,
		Settings: checkoutsvc.Settings{
			Currency:      cfg.Shop.Currency,
			SuccessURL:    cfg.Payment.SuccessURL,
			CancelURL:     cfg.Payment.CancelURL,
			InvoicePrefix: cfg.Shop.InvoicePrefix,
			AdminEmail:    cfg.SMTP.AdminEmail,
			Rates:         rates,
		},
		Logger: log,
	})

	shop := invoice.ShopInfo{
		LegalName:      cfg.Shop.LegalName,
		Address:        cfg.Shop.LegalAddress,
		SIRET:          cfg.Shop.SIRET,
		VATRatePercent: cfg.Shop.VATRatePercent,
	}
	worker := outbox.NewWorker(
		outboxRepo, orderRepo, bookingRepo, bookingRepo,
		mailer.NewSMTP(cfg.SMTP), shop,
		cfg.Outbox.PollInterval, cfg.Outbox.MaxAttempts, log,
	)
	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	go worker.Run(workerCtx)

	srv := httpserver.New(cfg.HTTPAddr, log, pool, httpserver.Deps{
		Catalog:        catalogService,
		Availability:   availabilityService,
		Promos:         promoService,
		Checkout:       checkoutService,
		Auth:           authService,
		Content:        contentService,
		Orders:         orderRepo,
		Bookings:       bookingRepo,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting http server", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		log.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server error", zap.Error(err))
	}

	stopWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	} else {
		log.Info("server stopped")
	}
}
