package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/velstore/catalog-backend/api/routes"
	"github.com/velstore/catalog-backend/internal/cart"
	"github.com/velstore/catalog-backend/internal/catalog"
	"github.com/velstore/catalog-backend/internal/customers"
	"github.com/velstore/catalog-backend/internal/orders"
	"github.com/velstore/catalog-backend/internal/search"
	"github.com/velstore/catalog-backend/pkg/config"
	"github.com/velstore/catalog-backend/pkg/db"
	"github.com/velstore/catalog-backend/pkg/logger"
	"github.com/velstore/catalog-backend/pkg/metrics"
	"github.com/velstore/catalog-backend/pkg/migrate"
	"github.com/velstore/catalog-backend/pkg/redis"
	"github.com/velstore/catalog-backend/pkg/sequence"
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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	allocMetrics := metrics.NewAllocatorMetrics(registry)
	reqMetrics := metrics.NewRequestMetrics(registry)
	alloc := sequence.NewAllocator(cfg.Allocator, allocMetrics)

	catalogRepo, err := catalog.NewRepository(dbClient.DB(), alloc)
	requireResource(logg, "catalog repository", err)

	searchIndex, err := search.NewRedisIndex(redisClient)
	requireResource(logg, "search index", err)

	catalogService, err := catalog.NewService(catalogRepo, searchIndex, logg)
	requireResource(logg, "catalog service", err)

	cartRepo, err := cart.NewRepository(dbClient.DB(), alloc)
	requireResource(logg, "cart repository", err)

	cartService, err := cart.NewService(cartRepo, catalogRepo)
	requireResource(logg, "cart service", err)

	customerRepo, err := customers.NewRepository(dbClient.DB())
	requireResource(logg, "customers repository", err)

	customerService, err := customers.NewService(customerRepo, cartRepo)
	requireResource(logg, "customers service", err)

	orderRepo, err := orders.NewRepository(dbClient.DB(), alloc)
	requireResource(logg, "orders repository", err)

	orderService, err := orders.NewService(orderRepo, customerService, cartService)
	requireResource(logg, "orders service", err)

	searchService, err := search.NewService(searchIndex, catalogRepo, cfg.Search.MaxHits)
	requireResource(logg, "search service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:         cfg,
			Logger:         logg,
			RequestMetrics: reqMetrics,
			MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			DBPinger:       dbClient,
			RedisPinger:    redisClient,
			Catalog:        catalogService,
			Carts:          cartService,
			Customers:      customerService,
			Orders:         orderService,
			Search:         searchService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func requireResource(logg *logger.Logger, name string, err error) {
	if err != nil {
		logg.Error(context.Background(), "failed to create "+name, err)
		os.Exit(1)
	}
}
