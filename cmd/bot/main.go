package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"green-basket/internal/bot"
	"green-basket/internal/config"
	"green-basket/internal/database"
	"green-basket/internal/repository"
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
	if cfg.Telegram.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting green-basket bot")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories and services shared with the API
	productRepo := repository.NewProductRepository(pool, logger)
	catalogRepo := repository.NewCatalogRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)

	catalogService := service.NewCatalogService(productRepo, catalogRepo, logger)
	orderService := service.NewOrderService(orderRepo, userRepo, logger)
	cartService := service.NewCartService(cartRepo, orderService, logger)
	userService := service.NewUserService(userRepo, logger)

	client := bot.NewClient(cfg.Telegram.BotToken, logger)
	b := bot.New(client, userService, catalogService, cartService, cfg.Telegram.PollTimeout, logger)

	if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("bot error: %w", err)
	}

	logger.Info().Msg("bot shutdown completed")
	return nil
}
