package service

import (
	"fmt"

	"github.com/hcc-staging-mcp-server/internal/domain"
)

// Physiologic plausibility limits. Values beyond them block evaluation.
const (
	minAlbuminGDl     = 1.5
	maxBilirubinMgDl  = 20.0
	maxCreatinineMgDl = 10.0
	minSodiumMEqL     = 110.0
	maxSodiumMEqL     = 155.0
	maxECOG           = 4
)

// ParameterValidator implements domain.InputValidator.
type ParameterValidator struct{}

// NewParameterValidator creates a new validator
func NewParameterValidator() *ParameterValidator {
	return &ParameterValidator{}
}

// Validate returns every issue found, blocking issues first in field order followed by
// advisories. It never modifies the input.
func (v *ParameterValidator) Validate(p domain.ParameterSet) []domain.Issue {
	var blocking, advisory []domain.Issue

	block := func(field, format string, args ...any) {
		blocking = append(blocking, domain.Issue{
			Severity: domain.SEVERITY_BLOCKING,
			Field:    field,
			Message:  fmt.Sprintf(format, args...),
		})
	}
	advise := func(score, field, format string, args ...any) {
		advisory = append(advisory, domain.Issue{
			Severity: domain.SEVERITY_ADVISORY,
			Field:    field,
			Message:  fmt.Sprintf(format, args...),
			Score:    score,
		})
	}

	// Structural invariants.
	for _, field := range p.NonFiniteOrNegative() {
		block(field, "must be a finite, non-negative number")
	}
	if p.BilirubinMgDl == 0 {
		block("bilirubin_mg_dl", "must be greater than zero")
	}
	if p.INR == 0 {
		block("inr", "must be greater than zero")
	}
	if p.CreatinineMgDl == 0 {
		block("creatinine_mg_dl", "must be greater than zero")
	}
	if p.LargestNoduleCm == 0 {
		block("largest_nodule_cm", "must be greater than zero")
	}
	if !p.Ascites.IsValid() {
		block("ascites", "must be one of absent, mild, severe (got %q)", p.Ascites)
	}
	if !p.Encephalopathy.IsValid() {
		block("encephalopathy_grade", "must be 0, 1 or 2 (got %d)", p.Encephalopathy)
	}
	if !p.RadiologicResponse.IsValid() {
		block("radiologic_response", "must be one of not_applicable, complete_or_partial, stable, progressive (got %q)", p.RadiologicResponse)
	}
	if p.NoduleCount < 1 {
		block("nodule_count", "must be at least 1 (got %d)", p.NoduleCount)
	}
	if p.ECOG < 0 || p.ECOG > maxECOG {
		block("ecog_status", "must be between 0 and %d (got %d)", maxECOG, p.ECOG)
	}
	if p.SumOfDiametersCm != nil && *p.SumOfDiametersCm < p.LargestNoduleCm {
		block("sum_of_diameters_cm", "must not be smaller than the largest nodule (%.1f < %.1f cm)", *p.SumOfDiametersCm, p.LargestNoduleCm)
	}
	if p.PostTACEBilirubinMgDl != nil && *p.PostTACEBilirubinMgDl == 0 {
		block("post_tace_bilirubin_mg_dl", "must be greater than zero when provided")
	}

	// Physiologic plausibility. Albumin also covers the zero case.
	if p.AlbuminGDl < minAlbuminGDl {
		block("albumin_g_dl", "%.2f g/dL is below the plausible minimum of %.1f g/dL", p.AlbuminGDl, minAlbuminGDl)
	}
	if p.BilirubinMgDl > maxBilirubinMgDl {
		block("bilirubin_mg_dl", "%.2f mg/dL exceeds the plausible maximum of %.0f mg/dL", p.BilirubinMgDl, maxBilirubinMgDl)
	}
	if p.CreatinineMgDl > maxCreatinineMgDl {
		block("creatinine_mg_dl", "%.2f mg/dL exceeds the plausible maximum of %.0f mg/dL", p.CreatinineMgDl, maxCreatinineMgDl)
	}
	if p.SodiumMEqL < minSodiumMEqL || p.SodiumMEqL > maxSodiumMEqL {
		block("sodium_meq_l", "%.1f mEq/L is outside the plausible range [%.0f, %.0f] mEq/L", p.SodiumMEqL, minSodiumMEqL, maxSodiumMEqL)
	}

	// Advisories for inputs a formula clamps or cannot use.
	if p.CreatinineMgDl > 0 && p.CreatinineMgDl < 1 {
		advise(domain.SCORE_MELD, "creatinine_mg_dl", "creatinine %.2f mg/dL raised to 1.0 for MELD", p.CreatinineMgDl)
	}
	if p.CreatinineMgDl > 4 && p.CreatinineMgDl <= maxCreatinineMgDl {
		advise(domain.SCORE_MELD, "creatinine_mg_dl", "creatinine %.2f mg/dL capped at 4.0 for MELD", p.CreatinineMgDl)
	}
	if p.BilirubinMgDl > 0 && p.BilirubinMgDl < 1 {
		advise(domain.SCORE_MELD, "bilirubin_mg_dl", "bilirubin %.2f mg/dL raised to 1.0 for MELD", p.BilirubinMgDl)
	}
	if p.INR > 0 && p.INR < 1 {
		advise(domain.SCORE_MELD, "inr", "INR %.2f raised to 1.0 for MELD", p.INR)
	}
	if p.SodiumMEqL >= minSodiumMEqL && p.SodiumMEqL < 125 {
		advise(domain.SCORE_MELD_NA, "sodium_meq_l", "sodium %.1f mEq/L raised to 125 for MELD-Na", p.SodiumMEqL)
	}
	if p.SodiumMEqL > 137 && p.SodiumMEqL <= maxSodiumMEqL {
		advise(domain.SCORE_MELD_NA, "sodium_meq_l", "sodium %.1f mEq/L capped at 137 for MELD-Na", p.SodiumMEqL)
	}
	if p.SumOfDiametersCm == nil && p.NoduleCount >= 2 && p.NoduleCount <= 3 {
		advise("", "sum_of_diameters_cm", "not provided; UCSF cannot be met for multinodular disease")
	}
	if p.PostTACEBilirubinMgDl == nil && p.RadiologicResponse != domain.RESPONSE_NOT_APPLICABLE {
		advise(domain.SCORE_ART, "post_tace_bilirubin_mg_dl", "not provided; ART requires the post-TACE bilirubin")
	}
	if p.PostTACEBilirubinMgDl != nil && p.RadiologicResponse == domain.RESPONSE_NOT_APPLICABLE {
		advise(domain.SCORE_ART, "radiologic_response", "not provided; ART requires the post-TACE radiologic response")
	}

	return append(blocking, advisory...)
}

// HasBlocking reports whether any issue blocks evaluation.
func HasBlocking(issues []domain.Issue) bool {
	for _, issue := range issues {
		if issue.Blocking() {
			return true
		}
	}
	return false
}
