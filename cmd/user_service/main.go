package main

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/ridloal/mini-store/internal/platform/auth"
	"github.com/ridloal/mini-store/internal/platform/config"
	"github.com/ridloal/mini-store/internal/platform/database"
	"github.com/ridloal/mini-store/internal/platform/logger"
	"github.com/ridloal/mini-store/internal/platform/server"
	userAPI "github.com/ridloal/mini-store/internal/user/api"
	userRepo "github.com/ridloal/mini-store/internal/user/repository"
	userService "github.com/ridloal/mini-store/internal/user/service"
)

func main() {
	defer logger.Sync()

	dbCfg := config.LoadDBConfig("user")
	serverCfg := config.LoadServerConfig("8081")
	authCfg := config.LoadAuthConfig()

	logger.Info("Starting User Service...")
	if authCfg.InsecureSecret() {
		logger.Warn("JWT_SECRET_KEY not set, using the insecure development key")
	}

	db, err := database.Connect(dbCfg.DSN)
	if err != nil {
		logger.Error("Failed to connect to database", err)
		os.Exit(1)
	}
	defer db.Close()

	if dbCfg.AutoMigrate {
		if err := database.EnsureSchema(context.Background(), db); err != nil {
			logger.Error("Failed to apply database schema", err)
			os.Exit(1)
		}
	}

	tokens := auth.NewTokenManager(authCfg)
	userRepository := userRepo.NewPostgresUserRepository(db)
	accounts := userService.NewAccountService(userRepository, tokens, authCfg)
	lifecycle := userService.NewLifecycleService(userRepository)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if _, err := accounts.EnsureAdmin(ctx, authCfg.AdminUserName, authCfg.AdminPassword); err != nil {
		logger.Warn("Could not ensure an admin account exists", zap.Error(err))
	}
	cancel()

	userHandler := userAPI.NewUserHandler(accounts, lifecycle, tokens)

	router := server.NewRouter("user-service", map[string]server.HealthCheck{
		"postgres": db.PingContext,
	})
	userHandler.RegisterRoutes(router.Group("/api/v1"))

	if err := server.Run("user-service", serverCfg.Port, router); err != nil {
		logger.Error("User Service server stopped", err)
	}
}
