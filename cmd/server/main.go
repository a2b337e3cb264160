package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/scentra/scentra-backend/config"
	"github.com/scentra/scentra-backend/internal/app/controller"
	"github.com/scentra/scentra-backend/internal/app/repository"
	"github.com/scentra/scentra-backend/internal/app/service"
	"github.com/scentra/scentra-backend/internal/db"
	"github.com/scentra/scentra-backend/internal/middleware"
	"github.com/scentra/scentra-backend/internal/router"
	"github.com/scentra/scentra-backend/internal/scheduler"
	"github.com/scentra/scentra-backend/internal/storage"
	"github.com/scentra/scentra-backend/internal/websocket"
	"github.com/scentra/scentra-backend/pkg/logger"
	"github.com/scentra/scentra-backend/pkg/payment/solstra"
	"github.com/scentra/scentra-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting SCENTRA Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis backs the token blacklist. Logout degrades gracefully
	// without it, so a failed connection is not fatal.
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Failed to connect to Redis, token revocation disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer redis.Close()

	// Payment provider client
	payClient, err := solstra.NewClient(solstra.Config{
		APIKey:          cfg.Payment.Solstra.APIKey,
		BaseURL:         cfg.Payment.Solstra.BaseURL,
		WebhookURL:      cfg.Server.WebhookURL(),
		DefaultCurrency: cfg.Payment.Solstra.DefaultCurrency,
	})
	if err != nil {
		logger.Fatal("Failed to initialize payment client", err)
	}

	// WebSocket hub for payment notifications
	hub := websocket.NewHub()
	go hub.Run()

	// S3 storage for product images
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	preferenceRepo := repository.NewPreferenceRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cartRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	productService := service.NewProductService(productRepo)
	preferenceService := service.NewPreferenceService(preferenceRepo)
	cartService := service.NewCartService(cartRepo, productRepo, db.GetDB())
	recommendService := service.NewRecommendService(preferenceRepo, productRepo)
	checkoutService := service.NewCheckoutService(orderRepo, cartRepo, payClient, hub, db.GetDB())

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	productController := controller.NewProductController(productService)
	preferenceController := controller.NewPreferenceController(preferenceService)
	cartController := controller.NewCartController(cartService)
	recommendController := controller.NewRecommendController(recommendService)
	orderController := controller.NewOrderController(checkoutService)
	paymentController := controller.NewPaymentController(checkoutService, hub)
	uploadController := controller.NewUploadController(s3Storage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Payment reconciliation catches settlements whose webhook was lost
	paymentScheduler := scheduler.NewPaymentScheduler(
		orderRepo,
		checkoutService,
		cfg.Payment.Solstra.PollInterval,
	)
	if err := paymentScheduler.Start(); err != nil {
		logger.Fatal("Failed to start payment scheduler", err)
	}
	defer paymentScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		productController,
		preferenceController,
		cartController,
		recommendController,
		orderController,
		paymentController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
