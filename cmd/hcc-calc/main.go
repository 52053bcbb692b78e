package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hcc-staging-mcp-server/internal/cli"
	"github.com/hcc-staging-mcp-server/internal/config"
)

func main() {
	configManager, err := config.NewManagerFromFile(os.Getenv("HCC_CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := configManager.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration validation failed: %v\n", err)
		os.Exit(1)
	}

	logger := config.NewLogger(*configManager.GetLoggingConfig())
	c := cli.NewCLI(os.Stdout, logger, configManager.GetPolicy())

	if err := c.Run(context.Background(), os.Args[1:]); err != nil {
		if errors.Is(err, cli.ErrBlocked) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
