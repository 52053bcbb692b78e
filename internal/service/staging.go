package service

import (
	"fmt"

	"github.com/hcc-staging-mcp-server/internal/domain"
)

const (
	noteHKLCSimplified = "HKLC is a coarse approximation of the full multi-axis Hong Kong Liver Cancer system"
	noteIndeterminate  = "no staging rule matched this combination of inputs"
)

// StagingInput is everything a staging predicate may look at.
type StagingInput struct {
	Params    domain.ParameterSet
	ChildPugh domain.ChildPughClass
}

// StageRule is one row of a staging table: when Matches holds, the patient is assigned
// Stage and the associated treatment category.
type StageRule struct {
	Stage        string                     `json:"stage"`
	Name         string                     `json:"name"`
	Criteria     string                     `json:"criteria"`
	Treatment    domain.TreatmentCategory   `json:"treatment_category"`
	SurvivalBand string                     `json:"survival_band,omitempty"`
	Matches      func(in StagingInput) bool `json:"-"`
}

// RuleTable is an ordered staging decision list. Rules are evaluated top-down and the
// first match wins, so row order encodes clinical priority.
type RuleTable struct {
	System string      `json:"system"`
	Rules  []StageRule `json:"rules"`
}

// Evaluate returns the first matching rule, or false when none applies.
func (t RuleTable) Evaluate(in StagingInput) (StageRule, bool) {
	for _, rule := range t.Rules {
		if rule.Matches(in) {
			return rule, true
		}
	}
	return StageRule{}, false
}

// Stage evaluates the table and renders the outcome as a ScoreResult. An unmatched input
// yields STAGE_INDETERMINATE rather than a default stage.
func (t RuleTable) Stage(in StagingInput) domain.ScoreResult {
	rule, ok := t.Evaluate(in)
	if !ok {
		r := newResult(t.System, 0, domain.STAGE_INDETERMINATE)
		r.Label = fmt.Sprintf("%s stage indeterminate", t.System)
		r.Treatment = domain.TREATMENT_UNDETERMINED
		return r.WithNote(fmt.Sprintf("%s: %s", t.System, noteIndeterminate))
	}
	r := newResult(t.System, 0, rule.Stage)
	r.Label = fmt.Sprintf("%s stage %s (%s)", t.System, rule.Stage, rule.Name)
	r.Treatment = rule.Treatment
	r.SurvivalBand = rule.SurvivalBand
	return r
}

// BCLCRules is the Barcelona Clinic Liver Cancer decision list.
var BCLCRules = RuleTable{
	System: domain.SCORE_BCLC,
	Rules: []StageRule{
		{
			Stage:        "D",
			Name:         "Terminal",
			Criteria:     "Child-Pugh C or ECOG >= 3",
			Treatment:    domain.TREATMENT_BEST_SUPPORTIVE,
			SurvivalBand: "about 3 months",
			Matches: func(in StagingInput) bool {
				return in.ChildPugh == domain.CHILD_PUGH_C || in.Params.ECOG >= 3
			},
		},
		{
			Stage:        "C",
			Name:         "Advanced",
			Criteria:     "vascular invasion, metastasis or ECOG >= 1",
			Treatment:    domain.TREATMENT_SYSTEMIC,
			SurvivalBand: "more than 2 years",
			Matches: func(in StagingInput) bool {
				return in.Params.VascularInvasion || in.Params.Metastasis || in.Params.ECOG >= 1
			},
		},
		{
			Stage:        "0",
			Name:         "Very early",
			Criteria:     "single nodule <= 2 cm, Child-Pugh A, ECOG 0",
			Treatment:    domain.TREATMENT_CURATIVE,
			SurvivalBand: "more than 5 years",
			Matches: func(in StagingInput) bool {
				p := in.Params
				return p.SingleNodule() && p.LargestNoduleCm <= 2 &&
					in.ChildPugh == domain.CHILD_PUGH_A && p.ECOG == 0
			},
		},
		{
			Stage:        "A",
			Name:         "Early",
			Criteria:     "single nodule <= 5 cm or 2-3 nodules <= 3 cm, ECOG 0",
			Treatment:    domain.TREATMENT_CURATIVE,
			SurvivalBand: "more than 5 years",
			Matches: func(in StagingInput) bool {
				return in.Params.WithinMilan() && in.Params.ECOG == 0
			},
		},
		{
			Stage:        "B",
			Name:         "Intermediate",
			Criteria:     "multinodular beyond early-stage bounds, ECOG 0",
			Treatment:    domain.TREATMENT_LOCOREGIONAL,
			SurvivalBand: "more than 2.5 years",
			Matches: func(in StagingInput) bool {
				return in.Params.ECOG == 0
			},
		},
	},
}

// HKLCRules is a simplified Hong Kong Liver Cancer decision list.
var HKLCRules = RuleTable{
	System: domain.SCORE_HKLC,
	Rules: []StageRule{
		{
			Stage:     "IV",
			Name:      "Metastatic or poor performance",
			Criteria:  "metastasis or ECOG >= 3",
			Treatment: domain.TREATMENT_BEST_SUPPORTIVE,
			Matches: func(in StagingInput) bool {
				return in.Params.Metastasis || in.Params.ECOG >= 3
			},
		},
		{
			Stage:     "III",
			Name:      "Vascular invasion",
			Criteria:  "intrahepatic vascular invasion",
			Treatment: domain.TREATMENT_SYSTEMIC,
			Matches: func(in StagingInput) bool {
				return in.Params.VascularInvasion
			},
		},
		{
			Stage:     "I",
			Name:      "Early",
			Criteria:  "ECOG <= 1, within Milan bounds, Child-Pugh A",
			Treatment: domain.TREATMENT_CURATIVE,
			Matches: func(in StagingInput) bool {
				return in.Params.ECOG <= 1 && in.Params.WithinMilan() && in.ChildPugh == domain.CHILD_PUGH_A
			},
		},
		{
			Stage:     "II",
			Name:      "Intermediate",
			Criteria:  "beyond Milan bounds or Child-Pugh B",
			Treatment: domain.TREATMENT_LOCOREGIONAL,
			Matches: func(in StagingInput) bool {
				return !in.Params.WithinMilan() || in.ChildPugh == domain.CHILD_PUGH_B
			},
		},
		{
			Stage:     "II",
			Name:      "Intermediate (default)",
			Criteria:  "any remaining presentation",
			Treatment: domain.TREATMENT_LOCOREGIONAL,
			Matches: func(StagingInput) bool {
				return true
			},
		},
	},
}

// StagingEngine runs the BCLC and HKLC tables.
type StagingEngine struct {
	bclc RuleTable
	hklc RuleTable
}

// NewStagingEngine creates a staging engine over the standard tables
func NewStagingEngine() *StagingEngine {
	return &StagingEngine{bclc: BCLCRules, hklc: HKLCRules}
}

// BCLC stages the patient with the Barcelona system.
func (s *StagingEngine) BCLC(p domain.ParameterSet, cpClass domain.ChildPughClass) domain.ScoreResult {
	return s.bclc.Stage(StagingInput{Params: p, ChildPugh: cpClass})
}

// HKLC stages the patient with the simplified Hong Kong system.
func (s *StagingEngine) HKLC(p domain.ParameterSet, cpClass domain.ChildPughClass) domain.ScoreResult {
	return s.hklc.Stage(StagingInput{Params: p, ChildPugh: cpClass}).WithNote(noteHKLCSimplified)
}

// Tables returns the staging tables in evaluation order, for inspection by callers.
func (s *StagingEngine) Tables() []RuleTable {
	return []RuleTable{s.bclc, s.hklc}
}
