package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/ridloal/mini-store/internal/order/api"
	"github.com/ridloal/mini-store/internal/order/repository"
	"github.com/ridloal/mini-store/internal/order/service"
	"github.com/ridloal/mini-store/internal/platform/auth"
	"github.com/ridloal/mini-store/internal/platform/config"
	"github.com/ridloal/mini-store/internal/platform/database"
	"github.com/ridloal/mini-store/internal/platform/logger"
	"github.com/ridloal/mini-store/internal/platform/server"
)

func main() {
	defer logger.Sync()

	dbCfg := config.LoadDBConfig("order")
	serverCfg := config.LoadServerConfig("8084")
	orderCfg := config.LoadOrderConfig()
	authCfg := config.LoadAuthConfig()

	logger.Info("Starting Order Service...", zap.Bool("reserve_stock", orderCfg.ReserveStock))

	db, err := database.Connect(dbCfg.DSN)
	if err != nil {
		logger.Error("Failed to connect to database for Order Service", err)
		os.Exit(1)
	}
	defer db.Close()

	if dbCfg.AutoMigrate {
		if err := database.EnsureSchema(context.Background(), db); err != nil {
			logger.Error("Failed to apply database schema", err)
			os.Exit(1)
		}
	}

	orderRepository := repository.NewPostgresOrderRepository(db)
	ordService := service.NewOrderService(orderRepository, orderCfg)
	orderHandler := api.NewOrderHandler(ordService, auth.NewTokenManager(authCfg))

	router := server.NewRouter("order-service", map[string]server.HealthCheck{
		"postgres": db.PingContext,
	})
	orderHandler.RegisterRoutes(router.Group("/api/v1"))

	if err := server.Run("order-service", serverCfg.Port, router); err != nil {
		logger.Error("Order Service server stopped", err)
	}
}
