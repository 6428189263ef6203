// File: roomflow/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"

	"roomflow/config"
	"roomflow/database"
	"roomflow/database/repository"
	"roomflow/handlers"
	"roomflow/middleware"
	"roomflow/models"
	"roomflow/routes"
	"roomflow/services/payments"
	"roomflow/services/wizard"
	"roomflow/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	database.InitCatalogDB()
	utils.InitDraftCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// Catalog adapters and durable stores.
	roomRepo := repository.NewGormRoomRepo(database.CatalogDB)
	serviceRepo := repository.NewGormServiceRepo(database.CatalogDB)
	comboRepo := repository.NewGormComboRepo(database.CatalogDB)
	bookingRepo := repository.NewMongoBookingRepo()
	invoiceRepo := repository.NewMongoInvoiceRepo()

	draftTTL := time.Duration(config.AppConfig.DraftTTLMinutes) * time.Minute
	if draftTTL <= 0 {
		draftTTL = utils.DefaultDraftTTL
	}
	draftStore := wizard.NewDraftStore(utils.GetDraftCacheClient(), draftTTL)

	gateway := payments.NewStripeGateway(config.AppConfig.Currency, logger)

	wizardService := &wizard.DefaultWizardService{
		Rooms:         roomRepo,
		Services:      serviceRepo,
		Combos:        comboRepo,
		Bookings:      bookingRepo,
		Invoices:      invoiceRepo,
		Gateway:       gateway,
		Store:         draftStore,
		Logger:        logger,
		VATPercent:    config.AppConfig.VATPercent,
		DepositAmount: models.Money(config.AppConfig.DepositAmount),
	}

	wizardHandler := handlers.NewWizardHandler(wizardService, logger)
	routes.RegisterRoutes(router, wizardHandler)

	utils.StartHealthMonitor(utils.GetDraftCacheClient(), database.MongoClient, database.CatalogDB)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
