package service

import (
	"fmt"
	"math"

	"github.com/hcc-staging-mcp-server/internal/domain"
)

// Advisory notes carried by scores that rely on a documented approximation.
const (
	noteOkudaSizeProxy = "Okuda tumor criterion (>50% of liver volume) is approximated from the largest nodule size"
	noteCLIPMorphology = "CLIP morphology term (extent of liver involvement) is approximated from nodule size and count"
	noteARTAdaptation  = "ART is adapted: the published score uses AST rise and Child-Pugh point increase, not bilirubin rise and baseline class"
	noteARTNotScored   = "ART not scored: requires post-TACE bilirubin and a radiologic response"
	noteALBILegacy     = "ALBI computed with the unscaled legacy formula; grade cut-offs are calibrated for the published formula"
)

// ScoreCalculator computes the liver-function and prognostic scores under one formula policy.
// It holds no mutable state.
type ScoreCalculator struct {
	policy domain.FormulaPolicy
}

// NewScoreCalculator creates a calculator bound to the given policy
func NewScoreCalculator(policy domain.FormulaPolicy) *ScoreCalculator {
	return &ScoreCalculator{policy: policy}
}

// ALBIValue returns the ALBI linear predictor rounded to two decimals.
func ALBIValue(bilirubinMgDl, albuminGDl float64, formula domain.ALBIFormula) float64 {
	bilirubinUmol := bilirubinMgDl * 17.1
	var v float64
	switch formula {
	case domain.ALBI_LEGACY_UNSCALED:
		v = math.Log10(bilirubinUmol) - 0.085*albuminGDl
	default:
		v = 0.66*math.Log10(bilirubinUmol) - 0.085*(albuminGDl*10)
	}
	return round2(v)
}

// ALBIGrade maps an ALBI value onto grades 1 to 3.
func ALBIGrade(albi float64) int {
	switch {
	case albi <= -2.60:
		return 1
	case albi <= -1.39:
		return 2
	default:
		return 3
	}
}

// ALBI scores the albumin-bilirubin grade.
func (c *ScoreCalculator) ALBI(p domain.ParameterSet) domain.ScoreResult {
	v := ALBIValue(p.BilirubinMgDl, p.AlbuminGDl, c.policy.ALBIFormula)
	result := newResult(domain.SCORE_ALBI, v, fmt.Sprintf("Grade %d", ALBIGrade(v)))
	if c.policy.ALBIFormula == domain.ALBI_LEGACY_UNSCALED {
		result = result.WithNote(noteALBILegacy)
	}
	return result
}

func bilirubinPoints(mgDl float64) int {
	switch {
	case mgDl <= 2:
		return 1
	case mgDl <= 3:
		return 2
	default:
		return 3
	}
}

func albuminPoints(gDl float64) int {
	switch {
	case gDl >= 3.5:
		return 1
	case gDl >= 2.8:
		return 2
	default:
		return 3
	}
}

func inrPoints(inr float64) int {
	switch {
	case inr <= 1.7:
		return 1
	case inr <= 2.3:
		return 2
	default:
		return 3
	}
}

func ascitesPoints(a domain.Ascites) int {
	switch a {
	case domain.ASCITES_MILD:
		return 2
	case domain.ASCITES_SEVERE:
		return 3
	default:
		return 1
	}
}

func encephalopathyPoints(g domain.EncephalopathyGrade) int {
	switch g {
	case domain.ENCEPHALOPATHY_MILD:
		return 2
	case domain.ENCEPHALOPATHY_SEVERE:
		return 3
	default:
		return 1
	}
}

// ChildPughScore returns the total (5 to 15) and its per-criterion breakdown.
func ChildPughScore(p domain.ParameterSet) (int, map[string]int) {
	components := map[string]int{
		"bilirubin":      bilirubinPoints(p.BilirubinMgDl),
		"albumin":        albuminPoints(p.AlbuminGDl),
		"inr":            inrPoints(p.INR),
		"ascites":        ascitesPoints(p.Ascites),
		"encephalopathy": encephalopathyPoints(p.Encephalopathy),
	}
	return sumPoints(components), components
}

// ChildPugh scores the Child-Pugh total and class.
func (c *ScoreCalculator) ChildPugh(p domain.ParameterSet) domain.ScoreResult {
	total, components := ChildPughScore(p)
	result := newResult(domain.SCORE_CHILD_PUGH, float64(total), domain.ClassFromScore(total).String())
	result.Components = components
	return result
}

// MELDValue computes the integer MELD score. Creatinine is clamped to [1,4] and
// bilirubin and INR to a floor of 1 before taking logarithms.
func MELDValue(creatinineMgDl, bilirubinMgDl, inr float64, formula domain.MELDFormula) int {
	cr := clamp(creatinineMgDl, 1, 4)
	bili := math.Max(bilirubinMgDl, 1)
	inr = math.Max(inr, 1)

	var v float64
	switch formula {
	case domain.MELD_EXPANDED_CONSTANTS:
		v = 3.78*math.Log(bili) + 11.2*math.Log(inr) + 9.57*math.Log(cr) + 6.43
	default:
		v = 10 * (0.957*math.Log(cr) + 0.378*math.Log(bili) + 1.120*math.Log(inr) + 0.643)
	}
	return int(math.Round(v))
}

// MELDNaValue adjusts a MELD score for serum sodium clamped to [125,137].
func MELDNaValue(meld int, sodiumMEqL float64) int {
	na := clamp(sodiumMEqL, 125, 137)
	m := float64(meld)
	return int(math.Round(m + 1.32*(137-na) - 0.033*m*(137-na)))
}

// meldBand groups MELD values into the conventional mortality strata.
func meldBand(v int) string {
	switch {
	case v < 10:
		return "<10"
	case v < 20:
		return "10-19"
	case v < 30:
		return "20-29"
	case v < 40:
		return "30-39"
	default:
		return ">=40"
	}
}

// MELD scores MELD and MELD-Na together since the latter is derived from the former.
func (c *ScoreCalculator) MELD(p domain.ParameterSet) (domain.ScoreResult, domain.ScoreResult) {
	meld := MELDValue(p.CreatinineMgDl, p.BilirubinMgDl, p.INR, c.policy.MELDFormula)
	meldNa := MELDNaValue(meld, p.SodiumMEqL)
	return newResult(domain.SCORE_MELD, float64(meld), meldBand(meld)),
		newResult(domain.SCORE_MELD_NA, float64(meldNa), meldBand(meldNa))
}

// okudaSizePoint applies the configured tumor-size proxy.
func (c *ScoreCalculator) okudaSizePoint(p domain.ParameterSet) bool {
	if c.policy.OkudaSizeProxy == domain.OKUDA_RAW_OVER_50 {
		return p.LargestNoduleCm > 50
	}
	return p.LargestNoduleCm > 5
}

// Okuda scores the four binary Okuda criteria and maps the total onto stages I-III.
func (c *ScoreCalculator) Okuda(p domain.ParameterSet) domain.ScoreResult {
	components := map[string]int{
		"tumor_size": boolPoint(c.okudaSizePoint(p)),
		"ascites":    boolPoint(p.Ascites.Present()),
		"albumin":    boolPoint(p.AlbuminGDl < 3),
		"bilirubin":  boolPoint(p.BilirubinMgDl > 3),
	}
	total := sumPoints(components)

	stage := "III"
	switch {
	case total <= 1:
		stage = "I"
	case total == 2:
		stage = "II"
	}

	result := newResult(domain.SCORE_OKUDA, float64(total), stage).WithNote(noteOkudaSizeProxy)
	result.Components = components
	return result
}

func clipMorphology(p domain.ParameterSet) int {
	switch {
	case p.SingleNodule() && p.LargestNoduleCm <= 5:
		return 0
	case p.NoduleCount > 1 && p.LargestNoduleCm <= 5:
		return 1
	default:
		return 2
	}
}

// CLIP scores the Cancer of the Liver Italian Program index.
func (c *ScoreCalculator) CLIP(p domain.ParameterSet, cpClass domain.ChildPughClass) domain.ScoreResult {
	components := map[string]int{
		"child_pugh":        boolPoint(cpClass != domain.CHILD_PUGH_A),
		"afp":               boolPoint(p.AFPNgMl > 400),
		"vascular_invasion": boolPoint(p.VascularInvasion),
		"morphology":        clipMorphology(p),
	}
	total := sumPoints(components)

	band := "poor"
	switch {
	case total <= 1:
		band = "good"
	case total <= 3:
		band = "intermediate"
	}

	result := newResult(domain.SCORE_CLIP, float64(total), band).WithNote(noteCLIPMorphology)
	result.Components = components
	return result
}

// ART class labels.
const (
	ART_LOW_RISK       = "low_risk"
	ART_HIGH_RISK      = "high_risk"
	ART_NOT_APPLICABLE = "NOT_APPLICABLE"
)

// ARTValue returns the adapted ART points. The caller must ensure a post-TACE bilirubin
// is available.
func ARTValue(preBilirubin, postBilirubin float64, cpClass domain.ChildPughClass, response domain.RadiologicResponse) float64 {
	var score float64
	if postBilirubin > preBilirubin*1.25 {
		score += 1.5
	}
	if cpClass == domain.CHILD_PUGH_B {
		score++
	}
	if response.Unfavorable() {
		score += 1.5
	}
	return score
}

// ART assesses suitability for repeat TACE.
func (c *ScoreCalculator) ART(p domain.ParameterSet, cpClass domain.ChildPughClass) domain.ScoreResult {
	if p.PostTACEBilirubinMgDl == nil || p.RadiologicResponse == domain.RESPONSE_NOT_APPLICABLE {
		r := newResult(domain.SCORE_ART, 0, ART_NOT_APPLICABLE)
		r.Treatment = domain.TREATMENT_UNDETERMINED
		return r.WithNote(noteARTNotScored).WithNote(noteARTAdaptation)
	}

	v := ARTValue(p.BilirubinMgDl, *p.PostTACEBilirubinMgDl, cpClass, p.RadiologicResponse)
	result := newResult(domain.SCORE_ART, v, ART_LOW_RISK)
	result.Treatment = domain.TREATMENT_LOCOREGIONAL
	if v > 1.5 {
		result.Class = ART_HIGH_RISK
		result.Treatment = domain.TREATMENT_SYSTEMIC
	}
	return result.WithNote(noteARTAdaptation)
}

func newResult(name string, value float64, class string) domain.ScoreResult {
	return domain.ScoreResult{
		Name:          name,
		NumericValue:  value,
		Class:         class,
		AdvisoryNotes: []string{},
	}
}

func boolPoint(b bool) int {
	if b {
		return 1
	}
	return 0
}

func sumPoints(components map[string]int) int {
	total := 0
	for _, v := range components {
		total += v
	}
	return total
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
