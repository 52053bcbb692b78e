package domain

import (
	"fmt"
)

// ALBIFormula names an ALBI formula variant.
type ALBIFormula string

const (
	// ALBI_STANDARD is the published form: bilirubin in µmol/L, albumin in g/L.
	ALBI_STANDARD ALBIFormula = "standard"
	// ALBI_LEGACY_UNSCALED omits the 0.66 coefficient and keeps albumin in g/dL.
	// Its values are not comparable with the published grade cut-offs.
	ALBI_LEGACY_UNSCALED ALBIFormula = "legacy_unscaled"
)

// MELDFormula names a MELD formula variant.
type MELDFormula string

const (
	// MELD_STANDARD is 10 × (0.957 ln Cr + 0.378 ln Bili + 1.120 ln INR + 0.643).
	MELD_STANDARD MELDFormula = "standard"
	// MELD_EXPANDED_CONSTANTS writes the same model with the ×10 folded into each
	// coefficient: 9.57 ln Cr + 3.78 ln Bili + 11.2 ln INR + 6.43.
	MELD_EXPANDED_CONSTANTS MELDFormula = "expanded_constants"
)

// OkudaSizeProxy names how the Okuda "tumor > 50% of liver" criterion is approximated.
type OkudaSizeProxy string

const (
	// OKUDA_CM_OVER_5 scores the point when the largest nodule exceeds 5 cm.
	OKUDA_CM_OVER_5 OkudaSizeProxy = "cm_over_5"
	// OKUDA_RAW_OVER_50 scores the point when the recorded size exceeds 50, as older
	// forms did when size was entered in millimetres.
	OKUDA_RAW_OVER_50 OkudaSizeProxy = "raw_over_50"
)

// FormulaPolicy fixes one variant for every formula that differs between calculator
// revisions. A report always names the policy it was computed under.
type FormulaPolicy struct {
	Name           string         `mapstructure:"name" json:"name"`
	ALBIFormula    ALBIFormula    `mapstructure:"albi_formula" json:"albi_formula"`
	MELDFormula    MELDFormula    `mapstructure:"meld_formula" json:"meld_formula"`
	OkudaSizeProxy OkudaSizeProxy `mapstructure:"okuda_size_proxy" json:"okuda_size_proxy"`
}

// DefaultPolicy returns the published-formula policy.
func DefaultPolicy() FormulaPolicy {
	return FormulaPolicy{
		Name:           "standard",
		ALBIFormula:    ALBI_STANDARD,
		MELDFormula:    MELD_STANDARD,
		OkudaSizeProxy: OKUDA_CM_OVER_5,
	}
}

// LegacyPolicy reproduces the earliest calculator revision.
func LegacyPolicy() FormulaPolicy {
	return FormulaPolicy{
		Name:           "legacy",
		ALBIFormula:    ALBI_LEGACY_UNSCALED,
		MELDFormula:    MELD_EXPANDED_CONSTANTS,
		OkudaSizeProxy: OKUDA_RAW_OVER_50,
	}
}

// Validate rejects unknown variant names.
func (p FormulaPolicy) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: policy name is required", ErrUnknownPolicy)
	}
	switch p.ALBIFormula {
	case ALBI_STANDARD, ALBI_LEGACY_UNSCALED:
	default:
		return fmt.Errorf("%w: albi_formula %q", ErrUnknownPolicy, p.ALBIFormula)
	}
	switch p.MELDFormula {
	case MELD_STANDARD, MELD_EXPANDED_CONSTANTS:
	default:
		return fmt.Errorf("%w: meld_formula %q", ErrUnknownPolicy, p.MELDFormula)
	}
	switch p.OkudaSizeProxy {
	case OKUDA_CM_OVER_5, OKUDA_RAW_OVER_50:
	default:
		return fmt.Errorf("%w: okuda_size_proxy %q", ErrUnknownPolicy, p.OkudaSizeProxy)
	}
	return nil
}

// PolicyByName resolves a built-in policy.
func PolicyByName(name string) (FormulaPolicy, error) {
	switch name {
	case "", "standard":
		return DefaultPolicy(), nil
	case "legacy":
		return LegacyPolicy(), nil
	default:
		return FormulaPolicy{}, fmt.Errorf("%w: policy %q", ErrUnknownPolicy, name)
	}
}
