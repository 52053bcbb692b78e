// Package cache memoizes evaluation reports in process memory.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/hcc-staging-mcp-server/internal/domain"
)

// ReportCache is a bounded, expiring cache of evaluation reports keyed by the formula
// policy and the canonical encoding of the parameter set. Evaluation is deterministic,
// so a hit is always equal to a fresh computation.
type ReportCache struct {
	lru    *expirable.LRU[string, domain.EvaluationReport]
	hits   atomic.Int64
	misses atomic.Int64
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Size    int     `json:"size"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// NewReportCache creates a cache from configuration. It returns nil when caching is disabled;
// a nil *ReportCache is safe to use and never hits.
func NewReportCache(cfg domain.CacheConfig) (*ReportCache, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.MaxItems <= 0 {
		return nil, fmt.Errorf("cache max_items must be positive, got %d", cfg.MaxItems)
	}
	return &ReportCache{
		lru: expirable.NewLRU[string, domain.EvaluationReport](cfg.MaxItems, nil, cfg.TTL),
	}, nil
}

// GenerateKey creates a cache key for the policy and parameters
func GenerateKey(policy string, params domain.ParameterSet) (string, error) {
	paramBytes, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("failed to encode parameters: %w", err)
	}
	hash := sha256.Sum256(append([]byte(policy+"::"), paramBytes...))
	return hex.EncodeToString(hash[:]), nil
}

// Get returns a cached report if present. The returned report shares its maps with the
// cached entry and must be treated as read-only.
func (c *ReportCache) Get(policy string, params domain.ParameterSet) (*domain.EvaluationReport, bool) {
	if c == nil {
		return nil, false
	}
	key, err := GenerateKey(policy, params)
	if err != nil {
		c.misses.Add(1)
		return nil, false
	}
	report, ok := c.lru.Get(key)
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return &report, true
}

// Set stores a report. Reports are stored by value.
func (c *ReportCache) Set(policy string, params domain.ParameterSet, report *domain.EvaluationReport) {
	if c == nil || report == nil {
		return
	}
	key, err := GenerateKey(policy, params)
	if err != nil {
		return
	}
	c.lru.Add(key, *report)
}

// Stats returns cache statistics
func (c *ReportCache) Stats() CacheStats {
	if c == nil {
		return CacheStats{}
	}
	stats := CacheStats{
		Size:   c.lru.Len(),
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total)
	}
	return stats
}
