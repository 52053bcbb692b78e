package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/hcc-staging-mcp-server/internal/domain"
)

// EvaluatorService runs the complete scoring and staging workflow for one ParameterSet.
// It holds only immutable collaborators and is safe for concurrent use.
type EvaluatorService struct {
	logger     *logrus.Logger
	policy     domain.FormulaPolicy
	validator  domain.InputValidator
	scores     *ScoreCalculator
	staging    *StagingEngine
	transplant *TransplantEligibilityEvaluator
}

// NewEvaluatorService creates a new evaluator bound to a formula policy
func NewEvaluatorService(logger *logrus.Logger, policy domain.FormulaPolicy) (*EvaluatorService, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid formula policy: %w", err)
	}
	return &EvaluatorService{
		logger:     logger,
		policy:     policy,
		validator:  NewParameterValidator(),
		scores:     NewScoreCalculator(policy),
		staging:    NewStagingEngine(),
		transplant: NewTransplantEligibilityEvaluator(),
	}, nil
}

// Policy returns the formula policy the service computes under
func (e *EvaluatorService) Policy() domain.FormulaPolicy {
	return e.policy
}

// Staging exposes the staging engine for rule inspection
func (e *EvaluatorService) Staging() *StagingEngine {
	return e.staging
}

// Criteria returns the transplant criterion names in evaluation order
func (e *EvaluatorService) Criteria() []string {
	return e.transplant.Names()
}

// Validate runs only the input validator
func (e *EvaluatorService) Validate(params domain.ParameterSet) []domain.Issue {
	return e.validator.Validate(params)
}

// Evaluate performs the complete workflow: validation, scores, staging, transplant
// eligibility and aggregation. A blocked report carries only the issue list.
func (e *EvaluatorService) Evaluate(ctx context.Context, params domain.ParameterSet) (*domain.EvaluationReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Step 1: Validate and fail fast on blocking issues
	issues := e.validator.Validate(params)
	if issues == nil {
		issues = []domain.Issue{}
	}
	if HasBlocking(issues) {
		report := &domain.EvaluationReport{
			Policy:  e.policy.Name,
			Blocked: true,
			Issues:  issues,
		}
		e.logger.WithFields(logrus.Fields(report.LogFields())).Warn("Evaluation blocked by input validation")
		return report, nil
	}

	// Step 2: Liver-function and prognostic scores
	childPugh := e.scores.ChildPugh(params)
	cpClass := domain.ChildPughClass(childPugh.Class)
	meld, meldNa := e.scores.MELD(params)

	scores := map[string]domain.ScoreResult{
		domain.SCORE_ALBI:       e.scores.ALBI(params),
		domain.SCORE_CHILD_PUGH: childPugh,
		domain.SCORE_MELD:       meld,
		domain.SCORE_MELD_NA:    meldNa,
		domain.SCORE_OKUDA:      e.scores.Okuda(params),
		domain.SCORE_CLIP:       e.scores.CLIP(params, cpClass),
		domain.SCORE_ART:        e.scores.ART(params, cpClass),
	}

	// Step 3: Staging and transplant eligibility, both fed by the Child-Pugh class
	bclc := e.staging.BCLC(params, cpClass)
	scores[domain.SCORE_BCLC] = bclc
	scores[domain.SCORE_HKLC] = e.staging.HKLC(params, cpClass)
	eligibility := e.transplant.Evaluate(params)

	// Step 4: Attach validator advisories to the result they concern
	for _, issue := range issues {
		if issue.Blocking() || issue.Score == "" {
			continue
		}
		if s, ok := scores[issue.Score]; ok {
			scores[issue.Score] = s.WithNote(fmt.Sprintf("%s: %s", issue.Field, issue.Message))
		}
	}

	report := &domain.EvaluationReport{
		Policy:             e.policy.Name,
		Issues:             issues,
		Scores:             scores,
		Eligibility:        eligibility,
		Recommendation:     bclc.Treatment,
		RecommendationText: bclc.Treatment.Description(),
	}

	e.logger.WithFields(logrus.Fields(report.LogFields())).Info("HCC evaluation completed")
	return report, nil
}
