package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcc-staging-mcp-server/internal/domain"
)

func TestTransplantEligibility(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		largest float64
		sum     *float64
		want    map[string]bool
	}{
		{
			name: "single 5 cm", count: 1, largest: 5,
			want: map[string]bool{domain.CRITERION_MILAN: true, domain.CRITERION_UCSF: true, domain.CRITERION_UP_TO_SEVEN: true, domain.CRITERION_UNOS_OPTN: true},
		},
		{
			name: "single 6 cm", count: 1, largest: 6,
			want: map[string]bool{domain.CRITERION_MILAN: false, domain.CRITERION_UCSF: true, domain.CRITERION_UP_TO_SEVEN: true, domain.CRITERION_UNOS_OPTN: false},
		},
		{
			name: "single 7 cm", count: 1, largest: 7,
			want: map[string]bool{domain.CRITERION_MILAN: false, domain.CRITERION_UCSF: false, domain.CRITERION_UP_TO_SEVEN: false, domain.CRITERION_UNOS_OPTN: false},
		},
		{
			name: "two nodules of 3 cm", count: 2, largest: 3, sum: floatPtr(5.5),
			want: map[string]bool{domain.CRITERION_MILAN: true, domain.CRITERION_UCSF: true, domain.CRITERION_UP_TO_SEVEN: true, domain.CRITERION_UNOS_OPTN: true},
		},
		{
			name: "three nodules of 4 cm within UCSF sum", count: 3, largest: 4, sum: floatPtr(8),
			want: map[string]bool{domain.CRITERION_MILAN: false, domain.CRITERION_UCSF: true, domain.CRITERION_UP_TO_SEVEN: true, domain.CRITERION_UNOS_OPTN: false},
		},
		{
			name: "three nodules of 4 cm beyond UCSF sum", count: 3, largest: 4, sum: floatPtr(10),
			want: map[string]bool{domain.CRITERION_MILAN: false, domain.CRITERION_UCSF: false, domain.CRITERION_UP_TO_SEVEN: true, domain.CRITERION_UNOS_OPTN: false},
		},
		{
			name: "four small nodules", count: 4, largest: 2, sum: floatPtr(6),
			want: map[string]bool{domain.CRITERION_MILAN: false, domain.CRITERION_UCSF: false, domain.CRITERION_UP_TO_SEVEN: true, domain.CRITERION_UNOS_OPTN: false},
		},
	}

	evaluator := NewTransplantEligibilityEvaluator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := compensatedParams()
			p.NoduleCount, p.LargestNoduleCm, p.SumOfDiametersCm = tt.count, tt.largest, tt.sum

			results := evaluator.Evaluate(p)
			require.Len(t, results, 4)
			for name, want := range tt.want {
				r := results[name]
				assert.Equal(t, name, r.CriterionName)
				assert.True(t, r.Applicable, name)
				assert.Equal(t, want, r.Met, name)
			}
		})
	}
}

func TestTransplantEligibility_UCSFMissingSum(t *testing.T) {
	p := compensatedParams()
	p.NoduleCount, p.LargestNoduleCm = 3, 4

	r := NewTransplantEligibilityEvaluator().Evaluate(p)[domain.CRITERION_UCSF]
	assert.True(t, r.Applicable)
	assert.False(t, r.Met)
	assert.Equal(t, []string{noteUCSFSumMissing}, r.AdvisoryNotes)
}

func TestTransplantEligibility_NotOncologicallyEligible(t *testing.T) {
	for _, mutate := range []func(p *domain.ParameterSet){
		func(p *domain.ParameterSet) { p.VascularInvasion = true },
		func(p *domain.ParameterSet) { p.Metastasis = true },
	} {
		p := compensatedParams()
		mutate(&p)

		for name, r := range NewTransplantEligibilityEvaluator().Evaluate(p) {
			assert.False(t, r.Applicable, name)
			assert.False(t, r.Met, name)
			assert.Equal(t, []string{noteNotOncologicallyEligible}, r.AdvisoryNotes, name)
		}
	}
}

func TestTransplantEligibility_UNOSNote(t *testing.T) {
	r := NewTransplantEligibilityEvaluator().Evaluate(compensatedParams())[domain.CRITERION_UNOS_OPTN]
	assert.Equal(t, []string{noteUNOSMirrorsMilan}, r.AdvisoryNotes)
	assert.Empty(t, NewTransplantEligibilityEvaluator().Evaluate(compensatedParams())[domain.CRITERION_MILAN].AdvisoryNotes)
}

func TestTransplantEligibility_Names(t *testing.T) {
	assert.Equal(t,
		[]string{domain.CRITERION_MILAN, domain.CRITERION_UCSF, domain.CRITERION_UP_TO_SEVEN, domain.CRITERION_UNOS_OPTN},
		NewTransplantEligibilityEvaluator().Names())
}
