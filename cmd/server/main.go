package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dvalle/tienda/internal"
	"github.com/dvalle/tienda/internal/cart"
	"github.com/dvalle/tienda/internal/catalog"
	"github.com/dvalle/tienda/internal/events"
	"github.com/dvalle/tienda/internal/handler/storefront"
	"github.com/dvalle/tienda/internal/middleware"
	"github.com/dvalle/tienda/internal/persist"
	"github.com/dvalle/tienda/internal/router"
	"github.com/dvalle/tienda/internal/routes"
	"github.com/dvalle/tienda/internal/telemetry"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize Sentry error tracking
	sentryCleanup, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:         cfg.Sentry.DSN,
		Enabled:     cfg.Sentry.Enabled,
		Environment: cfg.Sentry.Environment,
		Release:     cfg.Sentry.Release,
		SampleRate:  cfg.Sentry.SampleRate,
		Debug:       cfg.Sentry.Debug,
	}, logger)
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer sentryCleanup()

	// Run migrations before opening the snapshot store
	if cfg.Cart.Backend == "postgres" {
		logger.Info("Connecting to database...")
		sqlDB, err := sql.Open("pgx", cfg.Cart.DatabaseURL)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}

		if err := sqlDB.Ping(); err != nil {
			sqlDB.Close()
			return fmt.Errorf("database ping failed: %w", err)
		}

		logger.Info("Running database migrations...")
		if err := internal.RunMigrations(sqlDB); err != nil {
			sqlDB.Close()
			return fmt.Errorf("migration failed: %w", err)
		}
		sqlDB.Close()
		logger.Info("Database migrations completed successfully")
	}

	// Initialize snapshot storage
	adapter, err := persist.NewAdapter(ctx, cfg.Cart)
	if err != nil {
		return fmt.Errorf("failed to initialize cart storage: %w", err)
	}
	logger.Info("Cart storage initialized", "backend", cfg.Cart.Backend)

	// Initialize catalog client
	catalogClient := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout, logger)
	logger.Info("Catalog client initialized", "base_url", cfg.Catalog.BaseURL)

	// Initialize cart manager
	carts := cart.NewManager(adapter, logger)

	// Initialize the optional NATS event publisher
	var publisher *events.Publisher
	if cfg.NATS.Enabled {
		publisher, err = events.NewPublisher(cfg.NATS.URL, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer publisher.Close()
		logger.Info("Event publisher initialized", "url", cfg.NATS.URL)
	}

	// ==========================================================================
	// Initialize middleware and metrics
	// ==========================================================================

	metrics := middleware.NewMetrics("tienda")
	businessMetrics := telemetry.NewMetrics("tienda")

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	secure := cfg.Env == "prod"

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		metrics.Middleware,
		middleware.MaxBodySize(middleware.DefaultMaxBodySize),
		middleware.Timeout(middleware.DefaultTimeout),
		router.CORS([]string{cfg.BaseURL}),
		router.Logger(logger),
	)

	routes.RegisterStorefrontRoutes(r, routes.StorefrontDeps{
		CartHandler:     storefront.NewCartHandler(carts, catalogClient, businessMetrics, logger, secure),
		CheckoutHandler: storefront.NewCheckoutHandler(carts, publisher, businessMetrics, logger, secure),
		HealthHandler: func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		},
		MetricsHandler: metrics.Handler(),
	})

	// ==========================================================================
	// Start server
	// ==========================================================================

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("Starting cart server", "address", addr, "env", cfg.Env)

	if err := http.ListenAndServe(addr, r); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
