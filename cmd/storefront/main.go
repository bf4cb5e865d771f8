package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/backend"
	"storefront/internal/cart"
	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/router"
	"storefront/internal/service"
	"storefront/internal/thumbnail"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting storefront server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize cart persistence
	stores, closeStores, err := newStoreFactory(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize cart store: %w", err)
	}
	defer closeStores()

	// Initialize thumbnail resolver with S3 and backend fallback
	var thumbs thumbnail.Resolver
	if cfg.S3.Enabled {
		s3Resolver, err := thumbnail.NewS3Resolver(ctx, cfg.S3, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 resolver, falling back to backend thumbnail URLs")
			thumbs = thumbnail.NewBackendResolver(cfg.Backend.PublicURL)
		} else {
			thumbs = s3Resolver
		}
	} else {
		thumbs = thumbnail.NewBackendResolver(cfg.Backend.PublicURL)
		logger.Info().Msg("serving thumbnails from the product backend (S3 disabled)")
	}

	// Initialize backend client and reconciler
	client := backend.NewClient(cfg.Backend, logger)
	reconciler := cart.NewReconciler(client, cfg.Cart.LookupConcurrency, logger)

	// Initialize services
	productService := service.NewProductService(client, thumbs, logger)
	cartService := service.NewCartService(reconciler, thumbs, logger)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService, logger)
	cartHandler := handler.NewCartHandler(cartService, stores, logger)

	// Initialize router
	mux := router.New(productHandler, cartHandler, logger)

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
			Str("backend", cfg.Backend.BaseURL).
			Str("cart_store", cfg.Cart.Store).
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

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
