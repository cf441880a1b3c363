package main

import (
	"os"

	"github.com/ridloal/mini-store/internal/platform/config"
	"github.com/ridloal/mini-store/internal/platform/logger"
	"github.com/ridloal/mini-store/internal/platform/server"
)

func main() {
	defer logger.Sync()

	cfg := config.LoadGatewayConfig()
	logger.Info("Starting API Gateway...")

	handler, err := newGatewayHandler(cfg)
	if err != nil {
		logger.Error("Failed to configure API Gateway routes", err)
		os.Exit(1)
	}

	if err := server.Run("api-gateway", ":"+cfg.ListenPort, handler); err != nil {
		logger.Error("API Gateway stopped", err)
	}
}
