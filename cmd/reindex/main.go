package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/velstore/catalog-backend/internal/catalog"
	"github.com/velstore/catalog-backend/internal/search"
	"github.com/velstore/catalog-backend/pkg/config"
	"github.com/velstore/catalog-backend/pkg/db"
	"github.com/velstore/catalog-backend/pkg/logger"
	"github.com/velstore/catalog-backend/pkg/redis"
	"github.com/velstore/catalog-backend/pkg/sequence"
)

// Rebuilds the Redis title index from the items table. With -drop the index
// key is removed first so entries for deleted items do not linger.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "reindex"})

	_ = godotenv.Load()

	drop := flag.Bool("drop", false, "drop the existing index before rebuilding")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "reindex",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer redisClient.Close()

	alloc := sequence.NewAllocator(cfg.Allocator, nil)
	catalogRepo, err := catalog.NewRepository(dbClient.DB(), alloc)
	requireResource(ctx, logg, "catalog repository", err)

	searchIndex, err := search.NewRedisIndex(redisClient)
	requireResource(ctx, logg, "search index", err)

	searchService, err := search.NewService(searchIndex, catalogRepo, cfg.Search.MaxHits)
	requireResource(ctx, logg, "search service", err)

	if *drop {
		requireResource(ctx, logg, "index drop", redisClient.Del(ctx, redisClient.SearchIndexKey()))
	}

	count, err := searchService.Reindex(ctx)
	requireResource(ctx, logg, "reindex", err)

	ctx = logg.WithField(ctx, "indexed", count)
	logg.Info(ctx, "reindex complete")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
