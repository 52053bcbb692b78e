package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/hcc-staging-mcp-server/internal/cache"
	"github.com/hcc-staging-mcp-server/internal/domain"
	"github.com/hcc-staging-mcp-server/internal/service"
)

// EmptyParams is the argument type of tools that take no input
type EmptyParams struct{}

// ValidateParametersResult defines the result structure for validate_parameters tool
type ValidateParametersResult struct {
	Valid  bool           `json:"valid"`
	Issues []domain.Issue `json:"issues"`
}

// DescribePolicyResult defines the result structure for describe_policy tool
type DescribePolicyResult struct {
	Active    domain.FormulaPolicy   `json:"active"`
	Available []domain.FormulaPolicy `json:"available"`
	Cache     cache.CacheStats       `json:"cache"`
}

// ListStagingRulesResult defines the result structure for list_staging_rules tool
type ListStagingRulesResult struct {
	Tables             []service.RuleTable `json:"tables"`
	TransplantCriteria []string            `json:"transplant_criteria"`
}

// handleEvaluateHCC handles the evaluate_hcc tool invocation
func (s *Server) handleEvaluateHCC(ctx context.Context, req *mcp.CallToolRequest, params domain.ParameterInput) (*mcp.CallToolResult, any, error) {
	requestID := uuid.NewString()
	log := s.logger.WithFields(logrus.Fields{"tool": ToolEvaluateHCC, "request_id": requestID})
	log.Info("Tool invoked")

	if !s.allow() {
		return s.createErrorResult(domain.NewToolError(domain.ErrRateLimit, "Too many tool calls", "", requestID)), nil, nil
	}

	set, err := params.ToParameterSet()
	if err != nil {
		log.WithError(err).Warn("Rejected malformed parameters")
		return s.createErrorResult(domain.NewToolError(domain.ErrInvalidInput, "Invalid parameters", err.Error(), requestID)), nil, nil
	}

	report, err := s.evaluator.Evaluate(ctx, set)
	if err != nil {
		log.WithError(err).Error("Evaluation failed")
		return s.createErrorResult(domain.NewToolError(domain.ErrEvaluation, "Evaluation failed", err.Error(), requestID)), nil, nil
	}

	if report.Blocked {
		log.WithField("issue_count", len(report.Issues)).Warn("Evaluation blocked by input validation")
		return s.createErrorResult(domain.NewToolError(domain.ErrInputBlocked,
			"Input blocked by validation", blockingSummary(report), requestID)), nil, nil
	}

	return s.createJSONResult(report, false), nil, nil
}

// handleValidateParameters handles the validate_parameters tool invocation
func (s *Server) handleValidateParameters(ctx context.Context, req *mcp.CallToolRequest, params domain.ParameterInput) (*mcp.CallToolResult, any, error) {
	requestID := uuid.NewString()
	s.logger.WithFields(logrus.Fields{"tool": ToolValidateParameters, "request_id": requestID}).Info("Tool invoked")

	if !s.allow() {
		return s.createErrorResult(domain.NewToolError(domain.ErrRateLimit, "Too many tool calls", "", requestID)), nil, nil
	}

	var issues []domain.Issue
	set, err := params.ToParameterSet()
	if err != nil {
		issues = decodeIssues(err)
	} else {
		issues = s.engine.Validate(set)
	}
	if issues == nil {
		issues = []domain.Issue{}
	}

	return s.createJSONResult(ValidateParametersResult{
		Valid:  !service.HasBlocking(issues),
		Issues: issues,
	}, false), nil, nil
}

// handleDescribePolicy handles the describe_policy tool invocation
func (s *Server) handleDescribePolicy(ctx context.Context, req *mcp.CallToolRequest, _ EmptyParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", ToolDescribePolicy).Info("Tool invoked")

	return s.createJSONResult(DescribePolicyResult{
		Active:    s.engine.Policy(),
		Available: []domain.FormulaPolicy{domain.DefaultPolicy(), domain.LegacyPolicy()},
		Cache:     s.evaluator.Stats(),
	}, false), nil, nil
}

// handleListStagingRules handles the list_staging_rules tool invocation
func (s *Server) handleListStagingRules(ctx context.Context, req *mcp.CallToolRequest, _ EmptyParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", ToolListStagingRules).Info("Tool invoked")

	return s.createJSONResult(ListStagingRulesResult{
		Tables:             s.engine.Staging().Tables(),
		TransplantCriteria: s.engine.Criteria(),
	}, false), nil, nil
}

func (s *Server) allow() bool {
	return s.limiter == nil || s.limiter.Allow()
}

// blockingSummary lists the blocking issues as "field: message" pairs.
func blockingSummary(report *domain.EvaluationReport) string {
	blocking := report.BlockingIssues()
	parts := make([]string, 0, len(blocking))
	for _, issue := range blocking {
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(parts, "; ")
}

// decodeIssues turns intake decoding failures into blocking issues.
func decodeIssues(err error) []domain.Issue {
	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}

	issues := make([]domain.Issue, 0, len(errs))
	for _, e := range errs {
		issue := domain.Issue{Severity: domain.SEVERITY_BLOCKING, Message: e.Error()}
		var ve *domain.ValidationError
		if errors.As(e, &ve) {
			issue.Field = ve.Field
			issue.Message = ve.Message
		}
		issues = append(issues, issue)
	}
	return issues
}

// createJSONResult renders v as indented JSON text content
func (s *Server) createJSONResult(v any, isError bool) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return s.createErrorResult(domain.NewToolError(domain.ErrInternalServer, "Failed to encode result", err.Error(), ""))
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
		IsError: isError,
	}
}

// createErrorResult creates a standardized error result for tool calls
func (s *Server) createErrorResult(toolErr *domain.ToolError) *mcp.CallToolResult {
	data, err := json.Marshal(toolErr)
	if err != nil {
		data = []byte(fmt.Sprintf("Error: %s", toolErr.Error()))
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
		IsError: true,
	}
}
