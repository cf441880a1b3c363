package main

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/ridloal/mini-store/internal/platform/auth"
	"github.com/ridloal/mini-store/internal/platform/cache"
	"github.com/ridloal/mini-store/internal/platform/config"
	"github.com/ridloal/mini-store/internal/platform/database"
	"github.com/ridloal/mini-store/internal/platform/logger"
	"github.com/ridloal/mini-store/internal/platform/search"
	"github.com/ridloal/mini-store/internal/platform/server"
	productAPI "github.com/ridloal/mini-store/internal/product/api"
	productRepo "github.com/ridloal/mini-store/internal/product/repository"
	productService "github.com/ridloal/mini-store/internal/product/service"
)

func main() {
	defer logger.Sync()

	dbCfg := config.LoadDBConfig("product")
	serverCfg := config.LoadServerConfig("8082")
	redisCfg := config.LoadRedisConfig()
	searchCfg := config.LoadSearchConfig()
	catalogCfg := config.LoadCatalogConfig()
	authCfg := config.LoadAuthConfig()

	logger.Info("Starting Product Service...")

	db, err := database.Connect(dbCfg.DSN)
	if err != nil {
		logger.Error("Failed to connect to database for Product Service", err)
		os.Exit(1)
	}
	defer db.Close()

	if dbCfg.AutoMigrate {
		if err := database.EnsureSchema(context.Background(), db); err != nil {
			logger.Error("Failed to apply database schema", err)
			os.Exit(1)
		}
	}

	redisClient := cache.NewRedisClient(redisCfg)
	defer redisClient.Close()
	listCache := cache.NewRedisCache(redisClient)

	esClient, err := search.NewClient(searchCfg)
	if err != nil {
		logger.Error("Failed to create search client", err)
		os.Exit(1)
	}
	index := productRepo.NewElasticProductIndex(esClient)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := index.EnsureIndex(ctx); err != nil {
		logger.Warn("Search index unavailable at startup; search falls back to the database", zap.Error(err))
	}
	cancel()

	prodRepository := productRepo.NewPostgresProductRepository(db)
	external := productService.NewExternalCatalogClient(catalogCfg.ExternalProductsURL)
	catalog := productService.NewCatalogService(prodRepository, index, listCache, external, catalogCfg)
	productHandler := productAPI.NewProductHandler(catalog, auth.NewTokenManager(authCfg))

	if catalogCfg.IndexResyncSchedule != "" {
		resync, err := productService.NewIndexResyncScheduler(catalog, catalogCfg.IndexResyncSchedule)
		if err != nil {
			logger.Error("Invalid INDEX_RESYNC_SCHEDULE", err)
			os.Exit(1)
		}
		resync.Start()
		defer resync.Stop()
	}

	router := server.NewRouter("product-service", map[string]server.HealthCheck{
		"postgres": db.PingContext,
		"redis":    listCache.Ping,
	})
	productHandler.RegisterRoutes(router.Group("/api/v1"))

	logger.Info("Product Service reading external feed", zap.String("url", catalogCfg.ExternalProductsURL))
	if err := server.Run("product-service", serverCfg.Port, router); err != nil {
		logger.Error("Product Service server stopped", err)
	}
}
