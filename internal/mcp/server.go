// Package mcp exposes the HCC evaluation engine as Model Context Protocol tools over stdio.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/hcc-staging-mcp-server/internal/cache"
	"github.com/hcc-staging-mcp-server/internal/domain"
	"github.com/hcc-staging-mcp-server/internal/service"
)

// Tool names
const (
	ToolEvaluateHCC        = "evaluate_hcc"
	ToolValidateParameters = "validate_parameters"
	ToolDescribePolicy     = "describe_policy"
	ToolListStagingRules   = "list_staging_rules"
)

// Server represents the HCC staging MCP server implementation
type Server struct {
	config    domain.ConfigManager
	mcpServer *mcp.Server
	engine    *service.EvaluatorService
	evaluator *cache.Evaluator
	limiter   *rate.Limiter
	logger    *logrus.Logger
}

// NewServer creates a new MCP server instance
func NewServer(configManager domain.ConfigManager, logger *logrus.Logger) (*Server, error) {
	mcpConfig := configManager.GetMCPConfig()

	engine, err := service.NewEvaluatorService(logger, configManager.GetPolicy())
	if err != nil {
		return nil, fmt.Errorf("failed to create evaluator: %w", err)
	}

	reportCache, err := cache.NewReportCache(*configManager.GetCacheConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create report cache: %w", err)
	}

	server := &Server{
		config:    configManager,
		engine:    engine,
		evaluator: cache.NewEvaluator(engine, reportCache, logger),
		limiter:   newLimiter(mcpConfig.RateLimit, mcpConfig.RateBurst),
		logger:    logger,
	}

	serverInfo := &mcp.Implementation{
		Name:    mcpConfig.ServerName,
		Version: mcpConfig.ServerVersion,
	}
	server.mcpServer = mcp.NewServer(serverInfo, nil)

	server.registerTools()
	return server, nil
}

// newLimiter returns nil when limit is zero, which disables limiting.
func newLimiter(limit float64, burst int) *rate.Limiter {
	if limit <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(limit), burst)
}

// registerTools registers all MCP tools with the SDK server
func (s *Server) registerTools() {
	s.logger.Info("Registering MCP tools...")

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: ToolEvaluateHCC,
		Description: "Compute ALBI, Child-Pugh, MELD, MELD-Na, Okuda, CLIP, ART, BCLC and HKLC " +
			"plus Milan, UCSF, Up-to-Seven and UNOS/OPTN transplant eligibility for one patient.",
	}, s.handleEvaluateHCC)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolValidateParameters,
		Description: "Check clinical parameters for plausibility without computing scores.",
	}, s.handleValidateParameters)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolDescribePolicy,
		Description: "Describe the active formula policy and the available alternatives.",
	}, s.handleDescribePolicy)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolListStagingRules,
		Description: "List the BCLC and HKLC staging decision tables in evaluation order.",
	}, s.handleListStagingRules)

	s.logger.WithField("tool_count", 4).Info("Successfully registered all tools")
}

// Start runs the MCP server on stdio until ctx is cancelled or the client disconnects
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithFields(logrus.Fields{
		"policy":    s.engine.Policy().Name,
		"transport": s.config.GetMCPConfig().TransportType,
	}).Info("Starting HCC staging MCP server...")

	err := s.mcpServer.Run(ctx, &mcp.StdioTransport{})

	stats := s.evaluator.Stats()
	s.logger.WithFields(logrus.Fields{
		"cache_size":     stats.Size,
		"cache_hits":     stats.Hits,
		"cache_misses":   stats.Misses,
		"cache_hit_rate": stats.HitRate,
	}).Info("HCC staging MCP server stopped")

	if err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
