package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/rajagrocer/storefront-backend/api/routes"
	"github.com/rajagrocer/storefront-backend/internal/approval"
	"github.com/rajagrocer/storefront-backend/internal/billing"
	"github.com/rajagrocer/storefront-backend/internal/cart"
	"github.com/rajagrocer/storefront-backend/internal/catalog"
	checkoutsvc "github.com/rajagrocer/storefront-backend/internal/checkout"
	"github.com/rajagrocer/storefront-backend/internal/orders"
	"github.com/rajagrocer/storefront-backend/pkg/config"
	"github.com/rajagrocer/storefront-backend/pkg/db"
	"github.com/rajagrocer/storefront-backend/pkg/logger"
	"github.com/rajagrocer/storefront-backend/pkg/metrics"
	"github.com/rajagrocer/storefront-backend/pkg/migrate"
	pkgredis "github.com/rajagrocer/storefront-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) error {
	ctx := context.Background()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}

	var closers []func() error
	closers = append(closers, dbClient.Close)

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return multierr.Append(err, closeAll(closers))
	}

	var idempotencyStore pkgredis.IdempotencyStore
	var redisPinger pkgredis.Pinger
	if cfg.Redis.Enabled() && cfg.FeatureFlags.CheckoutIdempotency {
		redisClient, redisErr := pkgredis.New(ctx, cfg.Redis)
		if redisErr != nil {
			return multierr.Append(redisErr, closeAll(closers))
		}
		closers = append(closers, redisClient.Close)
		idempotencyStore = redisClient
		redisPinger = redisClient
	}

	registry := prometheus.NewRegistry()
	storefrontMetrics := metrics.NewStorefrontMetrics(registry)

	cartService, err := cart.NewService(cart.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		return multierr.Append(err, closeAll(closers))
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		return multierr.Append(err, closeAll(closers))
	}

	ordersRepo := orders.NewRepository(dbClient.DB())

	sheetClient, err := checkoutsvc.NewSheetClient(cfg.Sheet.SubmitURL, checkoutsvc.WithTimeout(cfg.Sheet.Timeout))
	if err != nil {
		return multierr.Append(err, closeAll(closers))
	}

	checkoutService, err := checkoutsvc.NewService(
		cartService,
		ordersRepo,
		dbClient,
		sheetClient,
		cfg.Store.Email,
		logg,
		storefrontMetrics,
	)
	if err != nil {
		return multierr.Append(err, closeAll(closers))
	}

	approvalClient, err := approval.NewClient(cfg.Sheet.ApprovalURL, approval.WithTimeout(cfg.Sheet.Timeout))
	if err != nil {
		return multierr.Append(err, closeAll(closers))
	}

	approvalService, err := approval.NewService(approvalClient, logg, storefrontMetrics)
	if err != nil {
		return multierr.Append(err, closeAll(closers))
	}

	billingService, err := billing.NewService(ordersRepo, approvalService, cfg.Store)
	if err != nil {
		return multierr.Append(err, closeAll(closers))
	}

	router := routes.NewRouter(routes.Deps{
		Config:                 cfg,
		Logger:                 logg,
		DBPinger:               dbClient,
		Redis:                  idempotencyStore,
		RedisPinger:            redisPinger,
		Registry:               registry,
		Catalog:                catalogService,
		Cart:                   cartService,
		Checkout:               checkoutService,
		Billing:                billingService,
		CheckoutIdempotencyTTL: cfg.FeatureFlags.CheckoutIdempotencyTTL,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	startCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(startCtx, "starting api server")

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return multierr.Append(err, closeAll(closers))
		}
	case <-stop:
		logg.Info(startCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return multierr.Append(err, closeAll(closers))
		}
	}

	return closeAll(closers)
}

func closeAll(closers []func() error) error {
	var combined error
	for i := len(closers) - 1; i >= 0; i-- {
		combined = multierr.Append(combined, closers[i]())
	}
	return combined
}
