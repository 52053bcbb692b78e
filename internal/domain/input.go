package domain

import (
	"errors"
	"fmt"
)

// ParameterInput is the loosely typed intake form decoded from tool arguments or files.
// Enumerations arrive as text and ECOG may be given either as an ordinal or as the coarse
// performance status.
type ParameterInput struct {
	BilirubinMgDl  float64 `json:"bilirubin_mg_dl" yaml:"bilirubin_mg_dl"`
	AlbuminGDl     float64 `json:"albumin_g_dl" yaml:"albumin_g_dl"`
	INR            float64 `json:"inr" yaml:"inr"`
	CreatinineMgDl float64 `json:"creatinine_mg_dl" yaml:"creatinine_mg_dl"`
	SodiumMEqL     float64 `json:"sodium_meq_l" yaml:"sodium_meq_l"`

	Ascites             string `json:"ascites" yaml:"ascites"`
	EncephalopathyGrade int    `json:"encephalopathy_grade" yaml:"encephalopathy_grade"`

	LargestNoduleCm  float64  `json:"largest_nodule_cm" yaml:"largest_nodule_cm"`
	NoduleCount      int      `json:"nodule_count" yaml:"nodule_count"`
	SumOfDiametersCm *float64 `json:"sum_of_diameters_cm,omitempty" yaml:"sum_of_diameters_cm,omitempty"`

	ECOGStatus        *int   `json:"ecog_status,omitempty" yaml:"ecog_status,omitempty"`
	PerformanceStatus string `json:"performance_status,omitempty" yaml:"performance_status,omitempty"`

	AFPNgMl float64 `json:"afp_ng_ml" yaml:"afp_ng_ml"`

	VascularInvasion bool `json:"vascular_invasion" yaml:"vascular_invasion"`
	Metastasis       bool `json:"metastasis" yaml:"metastasis"`

	PostTACEBilirubinMgDl *float64 `json:"post_tace_bilirubin_mg_dl,omitempty" yaml:"post_tace_bilirubin_mg_dl,omitempty"`
	RadiologicResponse    string   `json:"radiologic_response,omitempty" yaml:"radiologic_response,omitempty"`
}

// ToParameterSet converts the form into a ParameterSet. Only text that cannot be mapped
// onto a closed enumeration is rejected here; physiologic plausibility is the
// validator's concern.
func (in ParameterInput) ToParameterSet() (ParameterSet, error) {
	var errs []error

	ascites, err := ParseAscites(in.Ascites)
	if err != nil {
		errs = append(errs, NewValidationError("ascites", err.Error(), in.Ascites))
	}

	response, err := ParseRadiologicResponse(in.RadiologicResponse)
	if err != nil {
		errs = append(errs, NewValidationError("radiologic_response", err.Error(), in.RadiologicResponse))
	}

	ecog, err := in.resolveECOG()
	if err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return ParameterSet{}, errors.Join(errs...)
	}

	return ParameterSet{
		BilirubinMgDl:         in.BilirubinMgDl,
		AlbuminGDl:            in.AlbuminGDl,
		INR:                   in.INR,
		CreatinineMgDl:        in.CreatinineMgDl,
		SodiumMEqL:            in.SodiumMEqL,
		Ascites:               ascites,
		Encephalopathy:        EncephalopathyGrade(in.EncephalopathyGrade),
		LargestNoduleCm:       in.LargestNoduleCm,
		NoduleCount:           in.NoduleCount,
		SumOfDiametersCm:      copyFloat(in.SumOfDiametersCm),
		ECOG:                  ecog,
		AFPNgMl:               in.AFPNgMl,
		VascularInvasion:      in.VascularInvasion,
		Metastasis:            in.Metastasis,
		PostTACEBilirubinMgDl: copyFloat(in.PostTACEBilirubinMgDl),
		RadiologicResponse:    response,
	}, nil
}

func (in ParameterInput) resolveECOG() (int, error) {
	if in.ECOGStatus != nil {
		if in.PerformanceStatus != "" {
			ps, err := ParsePerformanceStatus(in.PerformanceStatus)
			if err != nil {
				return 0, NewValidationError("performance_status", err.Error(), in.PerformanceStatus)
			}
			if ps.ECOG() != coarse(*in.ECOGStatus).ECOG() {
				return 0, NewValidationError("performance_status",
					fmt.Sprintf("conflicts with ecog_status %d", *in.ECOGStatus), in.PerformanceStatus)
			}
		}
		return *in.ECOGStatus, nil
	}
	if in.PerformanceStatus == "" {
		return 0, NewValidationError("ecog_status", "ecog_status or performance_status is required", nil)
	}
	ps, err := ParsePerformanceStatus(in.PerformanceStatus)
	if err != nil {
		return 0, NewValidationError("performance_status", err.Error(), in.PerformanceStatus)
	}
	return ps.ECOG(), nil
}

// coarse collapses an ordinal ECOG onto good (0) or poor (>=1).
func coarse(ecog int) PerformanceStatus {
	if ecog == 0 {
		return PERFORMANCE_GOOD
	}
	return PERFORMANCE_POOR
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
