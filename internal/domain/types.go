// Package domain contains the core clinical entities used to score liver-function reserve
// and stage hepatocellular carcinoma (HCC).
//
// References: Johnson et al. (2015) ALBI grade, J Clin Oncol 33(6):550-8;
// Reig et al. (2022) BCLC strategy for prognosis prediction and treatment recommendation,
// J Hepatol 76(3):681-93.
package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Ascites represents the clinical ascites grade used by Child-Pugh and Okuda.
type Ascites string

const (
	ASCITES_ABSENT Ascites = "absent"
	ASCITES_MILD   Ascites = "mild"
	ASCITES_SEVERE Ascites = "severe"
)

// EncephalopathyGrade is the hepatic encephalopathy grade (0 none, 1 grade 1-2, 2 grade 3-4).
type EncephalopathyGrade int

const (
	ENCEPHALOPATHY_NONE   EncephalopathyGrade = 0
	ENCEPHALOPATHY_MILD   EncephalopathyGrade = 1
	ENCEPHALOPATHY_SEVERE EncephalopathyGrade = 2
)

// RadiologicResponse is the tumor response observed after TACE.
type RadiologicResponse string

const (
	RESPONSE_NOT_APPLICABLE      RadiologicResponse = "not_applicable"
	RESPONSE_COMPLETE_OR_PARTIAL RadiologicResponse = "complete_or_partial"
	RESPONSE_STABLE              RadiologicResponse = "stable"
	RESPONSE_PROGRESSIVE         RadiologicResponse = "progressive"
)

// PerformanceStatus is the coarse good/poor representation some intake forms use
// instead of the ordinal ECOG scale.
type PerformanceStatus string

const (
	PERFORMANCE_GOOD PerformanceStatus = "good"
	PERFORMANCE_POOR PerformanceStatus = "poor"
)

// ChildPughClass is the A/B/C liver-function class derived from the Child-Pugh total.
type ChildPughClass string

const (
	CHILD_PUGH_A ChildPughClass = "A"
	CHILD_PUGH_B ChildPughClass = "B"
	CHILD_PUGH_C ChildPughClass = "C"
)

// TreatmentCategory is the coarse therapeutic recommendation attached to a stage.
type TreatmentCategory string

const (
	TREATMENT_CURATIVE        TreatmentCategory = "curative"
	TREATMENT_LOCOREGIONAL    TreatmentCategory = "locoregional"
	TREATMENT_SYSTEMIC        TreatmentCategory = "systemic"
	TREATMENT_BEST_SUPPORTIVE TreatmentCategory = "best_supportive_care"
	TREATMENT_UNDETERMINED    TreatmentCategory = "undetermined"
)

// Severity tags a validator issue as blocking or advisory.
type Severity string

const (
	SEVERITY_BLOCKING Severity = "blocking"
	SEVERITY_ADVISORY Severity = "advisory"
)

// STAGE_INDETERMINATE is reported by a staging table when no rule matches.
// It is never coerced into a clinical stage.
const STAGE_INDETERMINATE = "INDETERMINATE"

// Score and criterion names used as report keys.
const (
	SCORE_ALBI       = "ALBI"
	SCORE_CHILD_PUGH = "Child-Pugh"
	SCORE_MELD       = "MELD"
	SCORE_MELD_NA    = "MELD-Na"
	SCORE_BCLC       = "BCLC"
	SCORE_OKUDA      = "Okuda"
	SCORE_CLIP       = "CLIP"
	SCORE_HKLC       = "HKLC"
	SCORE_ART        = "ART"

	CRITERION_MILAN       = "Milan"
	CRITERION_UCSF        = "UCSF"
	CRITERION_UP_TO_SEVEN = "Up-to-Seven"
	CRITERION_UNOS_OPTN   = "UNOS/OPTN"
)

var (
	ErrInvalidEnum   = errors.New("invalid enumerated value")
	ErrUnknownPolicy = errors.New("unknown formula policy value")
)

// IsValid reports whether the ascites grade is one of the closed set.
func (a Ascites) IsValid() bool {
	switch a {
	case ASCITES_ABSENT, ASCITES_MILD, ASCITES_SEVERE:
		return true
	default:
		return false
	}
}

// Present reports whether any ascites is recorded.
func (a Ascites) Present() bool {
	return a == ASCITES_MILD || a == ASCITES_SEVERE
}

func (a Ascites) String() string {
	return string(a)
}

// ParseAscites accepts the canonical names and the original Spanish form labels.
func ParseAscites(s string) (Ascites, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "absent", "none", "ausente":
		return ASCITES_ABSENT, nil
	case "mild", "leve":
		return ASCITES_MILD, nil
	case "severe", "severa":
		return ASCITES_SEVERE, nil
	default:
		return "", fmt.Errorf("%w: ascites %q", ErrInvalidEnum, s)
	}
}

// IsValid reports whether the grade is 0, 1 or 2.
func (g EncephalopathyGrade) IsValid() bool {
	return g >= ENCEPHALOPATHY_NONE && g <= ENCEPHALOPATHY_SEVERE
}

func (g EncephalopathyGrade) String() string {
	return strconv.Itoa(int(g))
}

// IsValid reports whether the response is one of the closed set.
func (r RadiologicResponse) IsValid() bool {
	switch r {
	case RESPONSE_NOT_APPLICABLE, RESPONSE_COMPLETE_OR_PARTIAL, RESPONSE_STABLE, RESPONSE_PROGRESSIVE:
		return true
	default:
		return false
	}
}

// Unfavorable reports whether the response counts against repeat TACE.
func (r RadiologicResponse) Unfavorable() bool {
	return r == RESPONSE_STABLE || r == RESPONSE_PROGRESSIVE
}

func (r RadiologicResponse) String() string {
	return string(r)
}

// ParseRadiologicResponse accepts canonical names and the original Spanish labels.
// An empty string maps to not_applicable.
func ParseRadiologicResponse(s string) (RadiologicResponse, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "not_applicable", "n/a", "na":
		return RESPONSE_NOT_APPLICABLE, nil
	case "complete_or_partial", "complete", "partial", "respuesta":
		return RESPONSE_COMPLETE_OR_PARTIAL, nil
	case "stable", "estable":
		return RESPONSE_STABLE, nil
	case "progressive", "progression", "progresion":
		return RESPONSE_PROGRESSIVE, nil
	default:
		return "", fmt.Errorf("%w: radiologic response %q", ErrInvalidEnum, s)
	}
}

// ParsePerformanceStatus accepts good/poor and the original bueno/malo labels.
func ParsePerformanceStatus(s string) (PerformanceStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "good", "bueno":
		return PERFORMANCE_GOOD, nil
	case "poor", "malo":
		return PERFORMANCE_POOR, nil
	default:
		return "", fmt.Errorf("%w: performance status %q", ErrInvalidEnum, s)
	}
}

// ECOG maps the coarse status onto the ordinal scale: good is ECOG 0 and poor is ECOG 2,
// inside the symptomatic but ambulatory band (ECOG 1-2).
func (p PerformanceStatus) ECOG() int {
	if p == PERFORMANCE_POOR {
		return 2
	}
	return 0
}

// ClassFromScore maps a Child-Pugh total onto its class. The mapping is a step function:
// every total has exactly one class.
func ClassFromScore(score int) ChildPughClass {
	switch {
	case score <= 6:
		return CHILD_PUGH_A
	case score <= 9:
		return CHILD_PUGH_B
	default:
		return CHILD_PUGH_C
	}
}

func (c ChildPughClass) String() string {
	return string(c)
}

func (t TreatmentCategory) String() string {
	return string(t)
}

// Description returns the display wording for the treatment category.
func (t TreatmentCategory) Description() string {
	switch t {
	case TREATMENT_CURATIVE:
		return "Curative options: resection, ablation or transplantation"
	case TREATMENT_LOCOREGIONAL:
		return "Loco-regional therapy: chemoembolization (TACE)"
	case TREATMENT_SYSTEMIC:
		return "Systemic therapy"
	case TREATMENT_BEST_SUPPORTIVE:
		return "Best supportive care"
	default:
		return "No recommendation: stage could not be determined"
	}
}
