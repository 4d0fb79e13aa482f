package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"green-basket/internal/auth"
	"green-basket/internal/config"
	"green-basket/internal/database"
	"green-basket/internal/handler"
	"green-basket/internal/payment"
	"green-basket/internal/repository"
	"green-basket/internal/router"
	"green-basket/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Local development convenience; absence of the file is fine.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting green-basket API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	catalogRepo := repository.NewCatalogRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)

	// Initialize services
	catalogService := service.NewCatalogService(productRepo, catalogRepo, logger)
	orderService := service.NewOrderService(orderRepo, userRepo, logger)
	cartService := service.NewCartService(cartRepo, orderService, logger)
	userService := service.NewUserService(userRepo, logger)

	// Initialize authentication
	verifier := auth.NewInitDataVerifier(cfg.Telegram.BotToken, time.Duration(cfg.Telegram.WebAppAuthTTL)*time.Second)
	tokens := auth.NewTokenIssuer(cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Second)

	// Initialize payment provider
	paymentProvider := payment.NewProvider(cfg.YooKassa, logger)

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Product:  handler.NewProductHandler(catalogService, logger),
		Category: handler.NewCategoryHandler(catalogService, logger),
		Cart:     handler.NewCartHandler(cartService, logger),
		Order:    handler.NewOrderHandler(orderService, logger),
		Address:  handler.NewAddressHandler(userService, logger),
		Auth:     handler.NewAuthHandler(verifier, tokens, userService, logger),
		Payment:  handler.NewPaymentHandler(paymentProvider, orderService, logger),
	}

	// Initialize router
	mux := router.New(handlers, tokens, userService, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
