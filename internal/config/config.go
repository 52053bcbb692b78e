package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/hcc-staging-mcp-server/internal/domain"
)

// Manager implements the ConfigManager interface using Viper
type Manager struct {
	v      *viper.Viper
	config *domain.Config
}

// NewManager creates a new configuration manager
func NewManager() (*Manager, error) {
	return NewManagerFromFile("")
}

// NewManagerFromFile creates a configuration manager reading an explicit config file.
// An empty path falls back to the standard search locations.
func NewManagerFromFile(path string) (*Manager, error) {
	m := &Manager{v: viper.New()}
	if path != "" {
		m.v.SetConfigFile(path)
	}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from various sources
func (m *Manager) loadConfig() error {
	if m.v.ConfigFileUsed() == "" {
		m.v.SetConfigName("config")
		m.v.SetConfigType("yaml")
		m.v.AddConfigPath(".")
		m.v.AddConfigPath("./config")
		m.v.AddConfigPath("/etc/hcc-staging/")
	}

	// Set environment variable prefix and enable automatic env binding
	m.v.SetEnvPrefix("HCC")
	m.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.v.AutomaticEnv()

	m.setDefaults()

	// Read configuration file (optional - will use defaults and env vars if not found)
	if err := m.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &domain.Config{}
	if err := m.v.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.config = config
	return nil
}

// setDefaults sets default configuration values
func (m *Manager) setDefaults() {
	m.v.SetDefault("environment", "development")

	// Formula policy defaults
	standard := domain.DefaultPolicy()
	m.v.SetDefault("policy.name", standard.Name)
	m.v.SetDefault("policy.albi_formula", string(standard.ALBIFormula))
	m.v.SetDefault("policy.meld_formula", string(standard.MELDFormula))
	m.v.SetDefault("policy.okuda_size_proxy", string(standard.OkudaSizeProxy))

	// Logging defaults
	m.v.SetDefault("logging.level", "info")
	m.v.SetDefault("logging.format", "json")
	m.v.SetDefault("logging.output", "stderr")

	// MCP defaults
	m.v.SetDefault("mcp.server_name", "hcc-staging-mcp-server")
	m.v.SetDefault("mcp.server_version", "v0.1.0")
	m.v.SetDefault("mcp.transport_type", "stdio")
	m.v.SetDefault("mcp.rate_limit", 20)
	m.v.SetDefault("mcp.rate_burst", 40)

	// Cache defaults
	m.v.SetDefault("cache.enabled", true)
	m.v.SetDefault("cache.max_items", 512)
	m.v.SetDefault("cache.ttl", "15m")
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetPolicy returns the configured formula policy
func (m *Manager) GetPolicy() domain.FormulaPolicy {
	return m.config.Policy
}

// GetLoggingConfig returns logging configuration
func (m *Manager) GetLoggingConfig() *domain.LoggingConfig {
	return &m.config.Logging
}

// GetMCPConfig returns MCP server configuration
func (m *Manager) GetMCPConfig() *domain.MCPConfig {
	return &m.config.MCP
}

// GetCacheConfig returns cache configuration
func (m *Manager) GetCacheConfig() *domain.CacheConfig {
	return &m.config.Cache
}

// Reload reloads the configuration
func (m *Manager) Reload() error {
	return m.loadConfig()
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	config := m.config

	if err := config.Policy.Validate(); err != nil {
		return fmt.Errorf("invalid policy: %w", err)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	switch strings.ToLower(config.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %s", config.Logging.Format)
	}

	if config.MCP.TransportType != "stdio" {
		return fmt.Errorf("unsupported MCP transport: %s", config.MCP.TransportType)
	}
	if config.MCP.RateLimit < 0 {
		return fmt.Errorf("invalid MCP rate limit: %v", config.MCP.RateLimit)
	}

	if config.Cache.Enabled && config.Cache.MaxItems <= 0 {
		return fmt.Errorf("cache max_items must be positive when caching is enabled")
	}

	return nil
}

// IsProduction returns true if running in production mode
func (m *Manager) IsProduction() bool {
	return strings.ToLower(m.config.Environment) == "production"
}

// IsDevelopment returns true if running in development mode
func (m *Manager) IsDevelopment() bool {
	env := strings.ToLower(m.config.Environment)
	return env == "development" || env == "dev" || env == ""
}
