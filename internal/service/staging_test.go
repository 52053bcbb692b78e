package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcc-staging-mcp-server/internal/domain"
)

func TestStagingEngine_BCLC(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(p *domain.ParameterSet)
		cpClass       domain.ChildPughClass
		wantStage     string
		wantTreatment domain.TreatmentCategory
	}{
		{
			name:          "very early",
			mutate:        func(p *domain.ParameterSet) {},
			cpClass:       domain.CHILD_PUGH_A,
			wantStage:     "0",
			wantTreatment: domain.TREATMENT_CURATIVE,
		},
		{
			name:          "small nodule with class B is early",
			mutate:        func(p *domain.ParameterSet) {},
			cpClass:       domain.CHILD_PUGH_B,
			wantStage:     "A",
			wantTreatment: domain.TREATMENT_CURATIVE,
		},
		{
			name:          "three small nodules",
			mutate:        func(p *domain.ParameterSet) { p.NoduleCount, p.LargestNoduleCm = 3, 2.8 },
			cpClass:       domain.CHILD_PUGH_A,
			wantStage:     "A",
			wantTreatment: domain.TREATMENT_CURATIVE,
		},
		{
			name:          "multinodular",
			mutate:        func(p *domain.ParameterSet) { p.NoduleCount, p.LargestNoduleCm = 4, 3.5 },
			cpClass:       domain.CHILD_PUGH_A,
			wantStage:     "B",
			wantTreatment: domain.TREATMENT_LOCOREGIONAL,
		},
		{
			name:          "large single nodule",
			mutate:        func(p *domain.ParameterSet) { p.LargestNoduleCm = 7 },
			cpClass:       domain.CHILD_PUGH_A,
			wantStage:     "B",
			wantTreatment: domain.TREATMENT_LOCOREGIONAL,
		},
		{
			name:          "vascular invasion outranks a very early tumor",
			mutate:        func(p *domain.ParameterSet) { p.VascularInvasion = true },
			cpClass:       domain.CHILD_PUGH_A,
			wantStage:     "C",
			wantTreatment: domain.TREATMENT_SYSTEMIC,
		},
		{
			name:          "vascular invasion with large multinodular tumor",
			mutate:        func(p *domain.ParameterSet) { p.VascularInvasion, p.NoduleCount, p.LargestNoduleCm = true, 5, 9 },
			cpClass:       domain.CHILD_PUGH_A,
			wantStage:     "C",
			wantTreatment: domain.TREATMENT_SYSTEMIC,
		},
		{
			name:          "metastasis",
			mutate:        func(p *domain.ParameterSet) { p.Metastasis = true },
			cpClass:       domain.CHILD_PUGH_B,
			wantStage:     "C",
			wantTreatment: domain.TREATMENT_SYSTEMIC,
		},
		{
			name:          "symptomatic performance status",
			mutate:        func(p *domain.ParameterSet) { p.ECOG = 1 },
			cpClass:       domain.CHILD_PUGH_A,
			wantStage:     "C",
			wantTreatment: domain.TREATMENT_SYSTEMIC,
		},
		{
			name:          "class C is terminal",
			mutate:        func(p *domain.ParameterSet) { p.VascularInvasion = true },
			cpClass:       domain.CHILD_PUGH_C,
			wantStage:     "D",
			wantTreatment: domain.TREATMENT_BEST_SUPPORTIVE,
		},
		{
			name:          "bedridden is terminal",
			mutate:        func(p *domain.ParameterSet) { p.ECOG = 3 },
			cpClass:       domain.CHILD_PUGH_A,
			wantStage:     "D",
			wantTreatment: domain.TREATMENT_BEST_SUPPORTIVE,
		},
	}

	engine := NewStagingEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := compensatedParams()
			tt.mutate(&p)

			r := engine.BCLC(p, tt.cpClass)
			assert.Equal(t, domain.SCORE_BCLC, r.Name)
			assert.Equal(t, tt.wantStage, r.Class)
			assert.Equal(t, tt.wantTreatment, r.Treatment)
			assert.Equal(t, 0.0, r.NumericValue)
			assert.NotEmpty(t, r.SurvivalBand)
		})
	}
}

func TestStagingEngine_HKLC(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(p *domain.ParameterSet)
		cpClass   domain.ChildPughClass
		wantStage string
	}{
		{name: "early", mutate: func(p *domain.ParameterSet) {}, cpClass: domain.CHILD_PUGH_A, wantStage: "I"},
		{name: "ECOG 1 within Milan", mutate: func(p *domain.ParameterSet) { p.ECOG = 1 }, cpClass: domain.CHILD_PUGH_A, wantStage: "I"},
		{name: "class B", mutate: func(p *domain.ParameterSet) {}, cpClass: domain.CHILD_PUGH_B, wantStage: "II"},
		{name: "beyond Milan", mutate: func(p *domain.ParameterSet) { p.NoduleCount = 4 }, cpClass: domain.CHILD_PUGH_A, wantStage: "II"},
		{name: "class C within Milan falls through", mutate: func(p *domain.ParameterSet) {}, cpClass: domain.CHILD_PUGH_C, wantStage: "II"},
		{name: "vascular invasion", mutate: func(p *domain.ParameterSet) { p.VascularInvasion = true }, cpClass: domain.CHILD_PUGH_A, wantStage: "III"},
		{name: "metastasis", mutate: func(p *domain.ParameterSet) { p.Metastasis = true }, cpClass: domain.CHILD_PUGH_A, wantStage: "IV"},
		{name: "bedridden", mutate: func(p *domain.ParameterSet) { p.ECOG = 4 }, cpClass: domain.CHILD_PUGH_A, wantStage: "IV"},
	}

	engine := NewStagingEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := compensatedParams()
			tt.mutate(&p)

			r := engine.HKLC(p, tt.cpClass)
			assert.Equal(t, domain.SCORE_HKLC, r.Name)
			assert.Equal(t, tt.wantStage, r.Class)
			assert.Contains(t, r.AdvisoryNotes, noteHKLCSimplified)
		})
	}
}

func TestRuleTable_Indeterminate(t *testing.T) {
	table := RuleTable{
		System: "TEST",
		Rules: []StageRule{
			{Stage: "X", Matches: func(in StagingInput) bool { return in.Params.Metastasis }},
		},
	}

	_, ok := table.Evaluate(StagingInput{Params: compensatedParams(), ChildPugh: domain.CHILD_PUGH_A})
	assert.False(t, ok)

	r := table.Stage(StagingInput{Params: compensatedParams(), ChildPugh: domain.CHILD_PUGH_A})
	assert.Equal(t, domain.STAGE_INDETERMINATE, r.Class)
	assert.Equal(t, domain.TREATMENT_UNDETERMINED, r.Treatment)
	assert.Equal(t, "TEST stage indeterminate", r.Label)
	require.Len(t, r.AdvisoryNotes, 1)
	assert.Contains(t, r.AdvisoryNotes[0], noteIndeterminate)
}

func TestStagingEngine_Labels(t *testing.T) {
	engine := NewStagingEngine()

	p := decompensatedParams()
	assert.Equal(t, "BCLC stage C (Advanced)", engine.BCLC(p, domain.CHILD_PUGH_A).Label)
	assert.Equal(t, "BCLC stage D (Terminal)", engine.BCLC(p, domain.CHILD_PUGH_C).Label)
	assert.Equal(t, "HKLC stage III (Vascular invasion)", engine.HKLC(p, domain.CHILD_PUGH_A).Label)
}

func TestRuleTable_FirstMatchWins(t *testing.T) {
	rule, ok := BCLCRules.Evaluate(StagingInput{Params: decompensatedParams(), ChildPugh: domain.CHILD_PUGH_C})
	require.True(t, ok)
	assert.Equal(t, "D", rule.Stage)

	rule, ok = BCLCRules.Evaluate(StagingInput{Params: decompensatedParams(), ChildPugh: domain.CHILD_PUGH_A})
	require.True(t, ok)
	assert.Equal(t, "C", rule.Stage)
}

func TestStagingEngine_Tables(t *testing.T) {
	tables := NewStagingEngine().Tables()
	require.Len(t, tables, 2)
	assert.Equal(t, domain.SCORE_BCLC, tables[0].System)
	assert.Equal(t, []string{"D", "C", "0", "A", "B"}, stages(tables[0]))
	assert.Equal(t, domain.SCORE_HKLC, tables[1].System)
	assert.Equal(t, []string{"IV", "III", "I", "II", "II"}, stages(tables[1]))
}

func stages(t RuleTable) []string {
	out := make([]string, len(t.Rules))
	for i, r := range t.Rules {
		out[i] = r.Stage
	}
	return out
}
