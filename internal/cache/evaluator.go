package cache

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/hcc-staging-mcp-server/internal/domain"
)

// Evaluator wraps a domain.Evaluator with a ReportCache.
type Evaluator struct {
	next   domain.Evaluator
	cache  *ReportCache
	logger *logrus.Logger
}

// NewEvaluator decorates next with cache. A nil cache passes every call through.
func NewEvaluator(next domain.Evaluator, cache *ReportCache, logger *logrus.Logger) *Evaluator {
	return &Evaluator{next: next, cache: cache, logger: logger}
}

// Evaluate returns the cached report for params or computes and stores a new one.
func (e *Evaluator) Evaluate(ctx context.Context, params domain.ParameterSet) (*domain.EvaluationReport, error) {
	policy := e.next.Policy().Name
	if report, ok := e.cache.Get(policy, params); ok {
		e.logger.WithField("policy", policy).Debug("Report cache hit")
		return report, nil
	}

	report, err := e.next.Evaluate(ctx, params)
	if err != nil {
		return nil, err
	}
	e.cache.Set(policy, params, report)
	return report, nil
}

// Policy returns the wrapped evaluator's policy
func (e *Evaluator) Policy() domain.FormulaPolicy {
	return e.next.Policy()
}

// Stats returns the underlying cache statistics
func (e *Evaluator) Stats() CacheStats {
	return e.cache.Stats()
}
