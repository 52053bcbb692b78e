package domain

import (
	"time"
)

// Config represents the main application configuration
type Config struct {
	Environment string        `mapstructure:"environment"`
	Policy      FormulaPolicy `mapstructure:"policy"`
	Logging     LoggingConfig `mapstructure:"logging"`
	MCP         MCPConfig     `mapstructure:"mcp"`
	Cache       CacheConfig   `mapstructure:"cache"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MCPConfig represents MCP server configuration
type MCPConfig struct {
	ServerName    string  `mapstructure:"server_name"`
	ServerVersion string  `mapstructure:"server_version"`
	TransportType string  `mapstructure:"transport_type"` // only "stdio" is served
	RateLimit     float64 `mapstructure:"rate_limit"`     // tool calls per second, 0 disables
	RateBurst     int     `mapstructure:"rate_burst"`
}

// CacheConfig represents the in-memory report cache configuration
type CacheConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	MaxItems int           `mapstructure:"max_items"`
	TTL      time.Duration `mapstructure:"ttl"`
}
