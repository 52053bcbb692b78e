package domain

import (
	"errors"
	"testing"
)

func intPtr(v int) *int { return &v }

func validInput() ParameterInput {
	sum := 4.0
	return ParameterInput{
		BilirubinMgDl:       1.2,
		AlbuminGDl:          3.8,
		INR:                 1.1,
		CreatinineMgDl:      0.9,
		SodiumMEqL:          137,
		Ascites:             "leve",
		EncephalopathyGrade: 1,
		LargestNoduleCm:     2.5,
		NoduleCount:         2,
		SumOfDiametersCm:    &sum,
		ECOGStatus:          intPtr(1),
		RadiologicResponse:  "estable",
	}
}

func TestToParameterSet(t *testing.T) {
	in := validInput()
	p, err := in.ToParameterSet()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if p.Ascites != ASCITES_MILD {
		t.Errorf("Expected mild ascites, got %s", p.Ascites)
	}
	if p.Encephalopathy != ENCEPHALOPATHY_MILD {
		t.Errorf("Expected grade 1, got %d", p.Encephalopathy)
	}
	if p.ECOG != 1 {
		t.Errorf("Expected ECOG 1, got %d", p.ECOG)
	}
	if p.RadiologicResponse != RESPONSE_STABLE {
		t.Errorf("Expected stable response, got %s", p.RadiologicResponse)
	}

	// The set owns its optional values.
	*in.SumOfDiametersCm = 9
	if *p.SumOfDiametersCm != 4 {
		t.Errorf("ParameterSet shares storage with its input")
	}
}

func TestToParameterSet_ECOG(t *testing.T) {
	tests := []struct {
		name    string
		ecog    *int
		ps      string
		want    int
		wantErr bool
	}{
		{name: "ordinal only", ecog: intPtr(3), want: 3},
		{name: "coarse good", ps: "good", want: 0},
		{name: "coarse poor", ps: "poor", want: 2},
		{name: "consistent both", ecog: intPtr(1), ps: "poor", want: 1},
		{name: "conflicting both", ecog: intPtr(0), ps: "poor", wantErr: true},
		{name: "neither", wantErr: true},
		{name: "unknown coarse", ps: "fair", wantErr: true},
		{name: "ordinal with unknown coarse", ecog: intPtr(0), ps: "fair", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			in.ECOGStatus = tt.ecog
			in.PerformanceStatus = tt.ps

			p, err := in.ToParameterSet()
			if tt.wantErr {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("Expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if p.ECOG != tt.want {
				t.Errorf("Expected ECOG %d, got %d", tt.want, p.ECOG)
			}
		})
	}
}

func TestToParameterSet_CollectsAllErrors(t *testing.T) {
	in := validInput()
	in.Ascites = "lots"
	in.RadiologicResponse = "mixed"
	in.ECOGStatus = nil

	_, err := in.ToParameterSet()
	if err == nil {
		t.Fatal("Expected an error")
	}

	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("Expected a joined error, got %T", err)
	}
	if n := len(joined.Unwrap()); n != 3 {
		t.Errorf("Expected 3 errors, got %d: %v", n, err)
	}
}
