package domain

import (
	"context"
)

// InputValidator checks a ParameterSet for physiologic plausibility
type InputValidator interface {
	Validate(params ParameterSet) []Issue
}

// Evaluator computes the complete report for one ParameterSet
type Evaluator interface {
	Evaluate(ctx context.Context, params ParameterSet) (*EvaluationReport, error)
	Policy() FormulaPolicy
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetPolicy() FormulaPolicy
	GetLoggingConfig() *LoggingConfig
	GetMCPConfig() *MCPConfig
	GetCacheConfig() *CacheConfig
	Reload() error
	Validate() error
	IsProduction() bool
	IsDevelopment() bool
}
