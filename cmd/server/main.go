package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"invoice_manager/internal/config"
	"invoice_manager/internal/database"
	"invoice_manager/internal/handlers"
	"invoice_manager/internal/logger"
	"invoice_manager/internal/middleware"
	"invoice_manager/internal/redis"
	"invoice_manager/internal/repository"
	"invoice_manager/internal/services"
	"invoice_manager/pkg/whatsapp"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := logger.Setup(cfg.LoggerConfig()); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize logger")
	}
	log := logger.WithComponent("main")

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Saves of one order are serialized through redis when it is configured,
	// otherwise within this process only.
	locker := services.NewLocalLocker()
	if cfg.RedisURL != "" {
		redisClient, err := redis.Initialize(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		locker = redisClient
	}

	whatsappClient := whatsapp.NewClient(cfg.WhatsAppAPIURL, cfg.WhatsAppUsername, cfg.WhatsAppPassword, cfg.WhatsAppPath)

	// Initialize repositories and services
	store := repository.NewStore(db)
	userService := services.NewUserService(store.Users(), store.Companies())
	customerService := services.NewCustomerService(store.Customers())
	productService := services.NewProductService(store.Products())
	orderService := services.NewOrderService(store, locker, cfg.OrderLockTTL)
	invoiceService := services.NewInvoiceService(store, services.NewWhatsAppNotifier(whatsappClient), cfg.InvoiceDueDays)

	apiHandler := handlers.NewAPIHandler(customerService, productService, orderService, invoiceService)

	// Setup routes
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())
	apiHandler.RegisterRoutes(router,
		middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst).Limit(),
		middleware.AuthMiddleware(cfg.JWTSecret, userService),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.ServerPort).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
