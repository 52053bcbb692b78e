package domain

import (
	"math"
)

// ParameterSet is the validated snapshot of clinical inputs for one evaluation.
// It is passed by value into every component and never modified after construction.
type ParameterSet struct {
	BilirubinMgDl  float64 `json:"bilirubin_mg_dl"`
	AlbuminGDl     float64 `json:"albumin_g_dl"`
	INR            float64 `json:"inr"`
	CreatinineMgDl float64 `json:"creatinine_mg_dl"`
	SodiumMEqL     float64 `json:"sodium_meq_l"`

	Ascites        Ascites             `json:"ascites"`
	Encephalopathy EncephalopathyGrade `json:"encephalopathy_grade"`

	LargestNoduleCm  float64  `json:"largest_nodule_cm"`
	NoduleCount      int      `json:"nodule_count"`
	SumOfDiametersCm *float64 `json:"sum_of_diameters_cm,omitempty"`

	ECOG    int     `json:"ecog_status"`
	AFPNgMl float64 `json:"afp_ng_ml"`

	VascularInvasion bool `json:"vascular_invasion"`
	Metastasis       bool `json:"metastasis"`

	PostTACEBilirubinMgDl *float64           `json:"post_tace_bilirubin_mg_dl,omitempty"`
	RadiologicResponse    RadiologicResponse `json:"radiologic_response"`
}

// SingleNodule reports whether exactly one nodule is recorded.
func (p ParameterSet) SingleNodule() bool {
	return p.NoduleCount == 1
}

// WithinMilan applies the Milan tumor-burden bounds: one nodule up to 5 cm or
// two to three nodules none larger than 3 cm.
func (p ParameterSet) WithinMilan() bool {
	return (p.NoduleCount == 1 && p.LargestNoduleCm <= 5) ||
		(p.NoduleCount >= 2 && p.NoduleCount <= 3 && p.LargestNoduleCm <= 3)
}

// OncologicallyEligible is the transplant safety precondition: no macrovascular
// invasion and no extrahepatic spread.
func (p ParameterSet) OncologicallyEligible() bool {
	return !p.VascularInvasion && !p.Metastasis
}

// numericFields lists the measurements that must be finite and non-negative.
func (p ParameterSet) numericFields() map[string]float64 {
	fields := map[string]float64{
		"bilirubin_mg_dl":   p.BilirubinMgDl,
		"albumin_g_dl":      p.AlbuminGDl,
		"inr":               p.INR,
		"creatinine_mg_dl":  p.CreatinineMgDl,
		"sodium_meq_l":      p.SodiumMEqL,
		"largest_nodule_cm": p.LargestNoduleCm,
		"afp_ng_ml":         p.AFPNgMl,
	}
	if p.SumOfDiametersCm != nil {
		fields["sum_of_diameters_cm"] = *p.SumOfDiametersCm
	}
	if p.PostTACEBilirubinMgDl != nil {
		fields["post_tace_bilirubin_mg_dl"] = *p.PostTACEBilirubinMgDl
	}
	return fields
}

// NonFiniteOrNegative returns the names of numeric fields that are NaN, infinite or negative.
func (p ParameterSet) NonFiniteOrNegative() []string {
	var bad []string
	fields := p.numericFields()
	for _, name := range numericFieldOrder {
		v, ok := fields[name]
		if !ok {
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			bad = append(bad, name)
		}
	}
	return bad
}

var numericFieldOrder = []string{
	"bilirubin_mg_dl",
	"albumin_g_dl",
	"inr",
	"creatinine_mg_dl",
	"sodium_meq_l",
	"largest_nodule_cm",
	"sum_of_diameters_cm",
	"afp_ng_ml",
	"post_tace_bilirubin_mg_dl",
}

// Issue is a single finding of the input validator.
type Issue struct {
	Severity Severity `json:"severity"`
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	// Score names the result an advisory belongs to; empty for report-level issues.
	Score string `json:"score,omitempty"`
}

// Blocking reports whether the issue halts evaluation.
func (i Issue) Blocking() bool {
	return i.Severity == SEVERITY_BLOCKING
}

// ScoreResult is the outcome of one score or staging system.
type ScoreResult struct {
	Name          string            `json:"name"`
	NumericValue  float64           `json:"numeric_value"`
	Class         string            `json:"derived_class_or_stage"`
	Label         string            `json:"label,omitempty"`
	Treatment     TreatmentCategory `json:"treatment_category,omitempty"`
	SurvivalBand  string            `json:"survival_band,omitempty"`
	Components    map[string]int    `json:"components,omitempty"`
	AdvisoryNotes []string          `json:"advisory_notes"`
}

// WithNote returns a copy of the result with the note appended.
func (r ScoreResult) WithNote(note string) ScoreResult {
	notes := make([]string, 0, len(r.AdvisoryNotes)+1)
	notes = append(notes, r.AdvisoryNotes...)
	r.AdvisoryNotes = append(notes, note)
	return r
}

// EligibilityResult is the outcome of one transplant criterion.
type EligibilityResult struct {
	CriterionName string   `json:"criterion_name"`
	Met           bool     `json:"met"`
	Applicable    bool     `json:"applicable"`
	AdvisoryNotes []string `json:"advisory_notes"`
}

// EvaluationReport aggregates everything produced by one evaluation call. When Blocked is
// true only Issues is populated.
type EvaluationReport struct {
	Policy      string                       `json:"policy"`
	Blocked     bool                         `json:"blocked"`
	Issues      []Issue                      `json:"issues"`
	Scores      map[string]ScoreResult       `json:"scores,omitempty"`
	Eligibility map[string]EligibilityResult `json:"eligibility,omitempty"`
	// Recommendation is the treatment category of the BCLC stage.
	Recommendation     TreatmentCategory `json:"recommendation,omitempty"`
	RecommendationText string            `json:"recommendation_text,omitempty"`
}

// Score returns the named score result and whether it was computed.
func (r *EvaluationReport) Score(name string) (ScoreResult, bool) {
	s, ok := r.Scores[name]
	return s, ok
}

// BlockingIssues returns only the blocking issues in report order.
func (r *EvaluationReport) BlockingIssues() []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Blocking() {
			out = append(out, issue)
		}
	}
	return out
}

// LogFields returns structured logging fields describing the outcome. Raw measurements
// are not included.
func (r *EvaluationReport) LogFields() map[string]any {
	fields := map[string]any{
		"policy":      r.Policy,
		"blocked":     r.Blocked,
		"issue_count": len(r.Issues),
	}
	for _, name := range []string{SCORE_CHILD_PUGH, SCORE_BCLC, SCORE_HKLC} {
		if s, ok := r.Scores[name]; ok {
			fields[name] = s.Class
		}
	}
	if r.Recommendation != "" {
		fields["recommendation"] = r.Recommendation.String()
	}
	return fields
}
