package service

import (
	"github.com/hcc-staging-mcp-server/internal/domain"
)

const (
	noteNotOncologicallyEligible = "not applicable: vascular invasion or extrahepatic metastasis present"
	noteUCSFSumMissing           = "sum of tumor diameters is required to evaluate UCSF for 2-3 nodules"
	noteUNOSMirrorsMilan         = "standard UNOS/OPTN exception points follow the Milan criteria"
)

// TransplantCriterion is one tumor-burden predicate checked when the patient is
// oncologically eligible.
type TransplantCriterion struct {
	Name     string
	Evaluate func(p domain.ParameterSet) (met bool, notes []string)
}

// TransplantEligibilityEvaluator checks liver-transplant tumor-burden criteria.
type TransplantEligibilityEvaluator struct {
	criteria []TransplantCriterion
}

// NewTransplantEligibilityEvaluator creates an evaluator over Milan, UCSF, Up-to-Seven and UNOS/OPTN
func NewTransplantEligibilityEvaluator() *TransplantEligibilityEvaluator {
	return &TransplantEligibilityEvaluator{
		criteria: []TransplantCriterion{
			{Name: domain.CRITERION_MILAN, Evaluate: milan},
			{Name: domain.CRITERION_UCSF, Evaluate: ucsf},
			{Name: domain.CRITERION_UP_TO_SEVEN, Evaluate: upToSeven},
			{Name: domain.CRITERION_UNOS_OPTN, Evaluate: unosOPTN},
		},
	}
}

// Evaluate returns one EligibilityResult per criterion. When the oncologic-safety
// precondition fails every criterion is reported as not applicable and not met.
func (t *TransplantEligibilityEvaluator) Evaluate(p domain.ParameterSet) map[string]domain.EligibilityResult {
	results := make(map[string]domain.EligibilityResult, len(t.criteria))
	eligible := p.OncologicallyEligible()

	for _, c := range t.criteria {
		if !eligible {
			results[c.Name] = domain.EligibilityResult{
				CriterionName: c.Name,
				Met:           false,
				Applicable:    false,
				AdvisoryNotes: []string{noteNotOncologicallyEligible},
			}
			continue
		}

		met, notes := c.Evaluate(p)
		if notes == nil {
			notes = []string{}
		}
		results[c.Name] = domain.EligibilityResult{
			CriterionName: c.Name,
			Met:           met,
			Applicable:    true,
			AdvisoryNotes: notes,
		}
	}
	return results
}

// Names returns the criterion names in evaluation order.
func (t *TransplantEligibilityEvaluator) Names() []string {
	names := make([]string, len(t.criteria))
	for i, c := range t.criteria {
		names[i] = c.Name
	}
	return names
}

func milan(p domain.ParameterSet) (bool, []string) {
	return p.WithinMilan(), nil
}

func ucsf(p domain.ParameterSet) (bool, []string) {
	if p.SingleNodule() {
		return p.LargestNoduleCm <= 6.5, nil
	}
	if p.NoduleCount < 2 || p.NoduleCount > 3 || p.LargestNoduleCm > 4.5 {
		return false, nil
	}
	if p.SumOfDiametersCm == nil {
		return false, []string{noteUCSFSumMissing}
	}
	return *p.SumOfDiametersCm <= 8, nil
}

func upToSeven(p domain.ParameterSet) (bool, []string) {
	return p.LargestNoduleCm+float64(p.NoduleCount) <= 7, nil
}

func unosOPTN(p domain.ParameterSet) (bool, []string) {
	return p.WithinMilan(), []string{noteUNOSMirrorsMilan}
}
