package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcc-staging-mcp-server/internal/domain"
)

func TestNewManager_Defaults(t *testing.T) {
	m, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	assert.Equal(t, domain.DefaultPolicy(), m.GetPolicy())
	assert.Equal(t, "info", m.GetLoggingConfig().Level)
	assert.Equal(t, "json", m.GetLoggingConfig().Format)
	assert.Equal(t, "stdio", m.GetMCPConfig().TransportType)
	assert.Equal(t, 20.0, m.GetMCPConfig().RateLimit)
	assert.Equal(t, 40, m.GetMCPConfig().RateBurst)
	assert.True(t, m.GetCacheConfig().Enabled)
	assert.Equal(t, 512, m.GetCacheConfig().MaxItems)
	assert.Equal(t, 15*time.Minute, m.GetCacheConfig().TTL)
	assert.True(t, m.IsDevelopment())
	assert.False(t, m.IsProduction())
}

func TestNewManager_EnvironmentOverrides(t *testing.T) {
	t.Setenv("HCC_ENVIRONMENT", "production")
	t.Setenv("HCC_POLICY_NAME", "legacy")
	t.Setenv("HCC_POLICY_ALBI_FORMULA", "legacy_unscaled")
	t.Setenv("HCC_LOGGING_LEVEL", "debug")
	t.Setenv("HCC_CACHE_TTL", "1h")

	m, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	assert.Equal(t, "legacy", m.GetPolicy().Name)
	assert.Equal(t, domain.ALBI_LEGACY_UNSCALED, m.GetPolicy().ALBIFormula)
	assert.Equal(t, domain.MELD_STANDARD, m.GetPolicy().MELDFormula)
	assert.Equal(t, "debug", m.GetLoggingConfig().Level)
	assert.Equal(t, time.Hour, m.GetCacheConfig().TTL)
	assert.True(t, m.IsProduction())
}

func TestNewManagerFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hcc.yaml")
	content := `
policy:
  name: legacy
  albi_formula: legacy_unscaled
  meld_formula: expanded_constants
  okuda_size_proxy: raw_over_50
logging:
  level: warn
  format: text
cache:
  enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	m, err := NewManagerFromFile(path)
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	assert.Equal(t, domain.LegacyPolicy(), m.GetPolicy())
	assert.Equal(t, "warn", m.GetLoggingConfig().Level)
	assert.False(t, m.GetCacheConfig().Enabled)
	// untouched sections keep their defaults
	assert.Equal(t, "stdio", m.GetMCPConfig().TransportType)
}

func TestNewManagerFromFile_Missing(t *testing.T) {
	_, err := NewManagerFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *domain.Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *domain.Config) {},
		},
		{
			name:    "unknown ALBI formula",
			mutate:  func(c *domain.Config) { c.Policy.ALBIFormula = "quadratic" },
			wantErr: "invalid policy",
		},
		{
			name:    "bad log level",
			mutate:  func(c *domain.Config) { c.Logging.Level = "verbose" },
			wantErr: "invalid log level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *domain.Config) { c.Logging.Format = "xml" },
			wantErr: "invalid log format",
		},
		{
			name:    "non-stdio transport",
			mutate:  func(c *domain.Config) { c.MCP.TransportType = "http" },
			wantErr: "unsupported MCP transport",
		},
		{
			name:    "negative rate limit",
			mutate:  func(c *domain.Config) { c.MCP.RateLimit = -1 },
			wantErr: "invalid MCP rate limit",
		},
		{
			name:    "cache without capacity",
			mutate:  func(c *domain.Config) { c.Cache.MaxItems = 0 },
			wantErr: "max_items",
		},
		{
			name: "disabled cache needs no capacity",
			mutate: func(c *domain.Config) {
				c.Cache.Enabled = false
				c.Cache.MaxItems = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewManager()
			require.NoError(t, err)
			tt.mutate(m.GetConfig())

			err = m.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger(domain.LoggingConfig{Level: "debug", Format: "text", Output: "discard"})
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)

	logger = NewLogger(domain.LoggingConfig{Level: "nonsense", Format: "json"})
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
	assert.Equal(t, os.Stderr, logger.Out)
}
