package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tienditalabs/tiendita-backend/api/routes"
	"github.com/tienditalabs/tiendita-backend/internal/auth"
	"github.com/tienditalabs/tiendita-backend/internal/cart"
	"github.com/tienditalabs/tiendita-backend/internal/catalog"
	"github.com/tienditalabs/tiendita-backend/internal/checkout"
	"github.com/tienditalabs/tiendita-backend/internal/newsletter"
	"github.com/tienditalabs/tiendita-backend/internal/orders"
	"github.com/tienditalabs/tiendita-backend/internal/uploads"
	"github.com/tienditalabs/tiendita-backend/pkg/config"
	"github.com/tienditalabs/tiendita-backend/pkg/db"
	"github.com/tienditalabs/tiendita-backend/pkg/logger"
	"github.com/tienditalabs/tiendita-backend/pkg/metrics"
	"github.com/tienditalabs/tiendita-backend/pkg/migrate"
	"github.com/tienditalabs/tiendita-backend/pkg/payments"
	"github.com/tienditalabs/tiendita-backend/pkg/redis"
	"github.com/tienditalabs/tiendita-backend/pkg/storage/gcs"
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	storageClient, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap object storage", err)
		os.Exit(1)
	}
	defer func() {
		if err := storageClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing object storage", err)
		}
	}()

	paymentsClient, err := payments.NewClient(
		cfg.Payments.AccessToken,
		payments.WithBaseURL(cfg.Payments.BaseURL),
		payments.WithEnvironment(cfg.Payments.Environment()),
	)
	if err != nil {
		logg.Error(ctx, "failed to create payments client", err)
		os.Exit(1)
	}

	svcs, snapshot, err := buildServices(cfg, dbClient, redisClient, storageClient, paymentsClient)
	if err != nil {
		logg.Error(ctx, "failed to wire services", err)
		os.Exit(1)
	}

	go snapshot.RunRefresher(ctx, cfg.Catalog.SnapshotRefresh, func(err error) {
		logg.Error(ctx, "catalog snapshot refresh failed", err)
	})

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	router := routes.NewRouter(cfg, logg, redisClient, httpMetrics, registry, svcs, routes.Probes{
		DB:      dbClient,
		Redis:   redisClient,
		Storage: storageClient,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(serverCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(serverCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(serverCtx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(serverCtx, "graceful shutdown failed", err)
			os.Exit(1)
		}
		logg.Info(serverCtx, "api server stopped")
	}
}

func buildServices(
	cfg *config.Config,
	dbClient *db.Client,
	redisClient *redis.Client,
	storageClient *gcs.Client,
	paymentsClient *payments.Client,
) (routes.Services, *catalog.Cache, error) {
	catalogRepo := catalog.NewRepository(dbClient.DB())
	catalogSvc, err := catalog.NewService(catalogRepo)
	if err != nil {
		return routes.Services{}, nil, err
	}
	snapshot, err := catalog.NewCache(catalogRepo)
	if err != nil {
		return routes.Services{}, nil, err
	}
	cachedCatalog, err := catalog.NewCachedService(catalogSvc, snapshot)
	if err != nil {
		return routes.Services{}, nil, err
	}

	cartStore, err := cart.NewRedisStore(redisClient, cfg.Cart.TTL)
	if err != nil {
		return routes.Services{}, nil, err
	}
	cartSvc, err := cart.NewService(cartStore)
	if err != nil {
		return routes.Services{}, nil, err
	}

	ordersRepo := orders.NewRepository(dbClient.DB())
	ordersSvc, err := orders.NewService(ordersRepo, paymentsClient)
	if err != nil {
		return routes.Services{}, nil, err
	}

	checkoutSvc, err := checkout.NewService(cartSvc, paymentsClient, ordersRepo, cfg.Payments, cfg.Storefront)
	if err != nil {
		return routes.Services{}, nil, err
	}

	newsletterSvc, err := newsletter.NewService(newsletter.NewRepository(dbClient.DB()))
	if err != nil {
		return routes.Services{}, nil, err
	}

	authSvc, err := auth.NewService(auth.NewRepository(dbClient.DB()), cfg.JWT)
	if err != nil {
		return routes.Services{}, nil, err
	}

	uploadsSvc, err := uploads.NewService(storageClient, cfg.Media)
	if err != nil {
		return routes.Services{}, nil, err
	}

	return routes.Services{
		Catalog:    cachedCatalog,
		Cart:       cartSvc,
		Checkout:   checkoutSvc,
		Orders:     ordersSvc,
		Newsletter: newsletterSvc,
		Uploads:    uploadsSvc,
		Auth:       authSvc,
	}, snapshot, nil
}
