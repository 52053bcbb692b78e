package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hcc-staging-mcp-server/internal/config"
	"github.com/hcc-staging-mcp-server/internal/mcp"
)

func main() {
	// Load configuration
	configManager, err := config.NewManagerFromFile(os.Getenv("HCC_CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	logger := config.NewLogger(*configManager.GetLoggingConfig())

	// Create MCP server
	mcpServer, err := mcp.NewServer(configManager, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create MCP server")
	}

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := mcpServer.Start(ctx); err != nil && ctx.Err() == nil {
		logger.WithError(err).Fatal("MCP server failed")
	}

	logger.Info("HCC staging MCP server stopped")
}
