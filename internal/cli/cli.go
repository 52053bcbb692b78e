// Package cli implements the hcc-calc command-line front end.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/hcc-staging-mcp-server/internal/domain"
	"github.com/hcc-staging-mcp-server/internal/service"
)

// ErrBlocked is returned when an evaluated or validated input has a blocking issue.
var ErrBlocked = errors.New("input blocked by validation")

// ErrUsage is returned for unknown commands or missing arguments.
var ErrUsage = errors.New("invalid usage")

// CLI provides the command-line interface for evaluations.
type CLI struct {
	out    io.Writer
	logger *logrus.Logger
	policy domain.FormulaPolicy
}

// NewCLI creates a CLI writing results to out.
func NewCLI(out io.Writer, logger *logrus.Logger, policy domain.FormulaPolicy) *CLI {
	return &CLI{out: out, logger: logger, policy: policy}
}

// Run executes the command named by args[0]. Leading "--policy <name>" options override
// the configured formula policy.
func (c *CLI) Run(ctx context.Context, args []string) error {
	for len(args) >= 2 && args[0] == "--policy" {
		policy, err := domain.PolicyByName(args[1])
		if err != nil {
			return err
		}
		c.policy = policy
		args = args[2:]
	}

	if len(args) == 0 {
		return c.showHelp()
	}

	switch args[0] {
	case "evaluate":
		if len(args) < 2 {
			return fmt.Errorf("%w: evaluate requires a parameter file", ErrUsage)
		}
		input, err := LoadInput(args[1])
		if err != nil {
			return err
		}
		return c.evaluate(ctx, input)
	case "validate":
		if len(args) < 2 {
			return fmt.Errorf("%w: validate requires a parameter file", ErrUsage)
		}
		input, err := LoadInput(args[1])
		if err != nil {
			return err
		}
		return c.validate(input)
	case "demo":
		return c.evaluate(ctx, DemoInput())
	case "policy":
		return c.writeJSON(map[string]any{
			"active":    c.policy,
			"available": []domain.FormulaPolicy{domain.DefaultPolicy(), domain.LegacyPolicy()},
		})
	case "rules":
		return c.writeJSON(service.NewStagingEngine().Tables())
	case "help", "--help", "-h":
		return c.showHelp()
	default:
		fmt.Fprintf(c.out, "Unknown command: %s\n\n", args[0])
		_ = c.showHelp()
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
}

// showHelp displays usage information.
func (c *CLI) showHelp() error {
	help := `
HCC Scoring and Staging Calculator

Usage:
  hcc-calc [--policy standard|legacy] <command> [file]

Commands:
  evaluate <file>  Compute all scores, stages and transplant criteria
  validate <file>  Check parameters for plausibility only
  demo             Evaluate the built-in demonstration patient
  policy           Show the active and available formula policies
  rules            Print the BCLC and HKLC staging tables

Parameter files are YAML or JSON. Exit status is 2 when the input is blocked.

Examples:
  hcc-calc evaluate patient.yaml
  hcc-calc --policy legacy demo
`
	_, err := fmt.Fprintln(c.out, help)
	return err
}

func (c *CLI) evaluate(ctx context.Context, input domain.ParameterInput) error {
	runID := uuid.NewString()
	log := c.logger.WithFields(logrus.Fields{"run_id": runID, "policy": c.policy.Name})

	params, err := input.ToParameterSet()
	if err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}

	engine, err := service.NewEvaluatorService(c.logger, c.policy)
	if err != nil {
		return err
	}

	report, err := engine.Evaluate(ctx, params)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}
	log.WithField("blocked", report.Blocked).Debug("Evaluation finished")

	if err := c.writeJSON(report); err != nil {
		return err
	}
	if report.Blocked {
		return ErrBlocked
	}
	return nil
}

func (c *CLI) validate(input domain.ParameterInput) error {
	params, err := input.ToParameterSet()
	if err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}

	issues := service.NewParameterValidator().Validate(params)
	if issues == nil {
		issues = []domain.Issue{}
	}
	blocked := service.HasBlocking(issues)

	if err := c.writeJSON(map[string]any{"valid": !blocked, "issues": issues}); err != nil {
		return err
	}
	if blocked {
		return ErrBlocked
	}
	return nil
}

func (c *CLI) writeJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// LoadInput reads a YAML or JSON parameter file. Unknown keys are rejected.
func LoadInput(path string) (domain.ParameterInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.ParameterInput{}, fmt.Errorf("failed to open parameter file: %w", err)
	}
	defer f.Close()
	return DecodeInput(f)
}

// DecodeInput decodes a single YAML or JSON document.
func DecodeInput(r io.Reader) (domain.ParameterInput, error) {
	var input domain.ParameterInput
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&input); err != nil {
		return domain.ParameterInput{}, fmt.Errorf("failed to decode parameter file: %w", err)
	}
	return input, nil
}

// DemoInput returns the demonstration patient: decompensated cirrhosis with a large
// multinodular tumor and vascular invasion, re-assessed after one TACE session.
func DemoInput() domain.ParameterInput {
	postTACE := 4.2
	return domain.ParameterInput{
		BilirubinMgDl:         3.5,
		AlbuminGDl:            2.9,
		INR:                   2.1,
		CreatinineMgDl:        1.2,
		SodiumMEqL:            130,
		Ascites:               "mild",
		EncephalopathyGrade:   1,
		LargestNoduleCm:       6,
		NoduleCount:           4,
		PerformanceStatus:     "good",
		VascularInvasion:      true,
		PostTACEBilirubinMgDl: &postTACE,
		RadiologicResponse:    "stable",
	}
}
