package substep

import (
	"context"
	"testing"

	"github.com/draftproof/core/internal/modules/detect/stepcache"
	"github.com/draftproof/core/internal/modules/detect/textparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoStageDoc = "Short intro.\n\n" +
	"This body paragraph carries far more words than the introduction does, " +
	"stretching across several clauses so the two sections differ sharply in length."

const structureResponse = `{"risk_score": 20, "risk_level": "low", "issues": [], "recommendations": [],
	"sections": [
		{"role": "introduction", "title": "Intro", "start_paragraph": 0, "end_paragraph": 0},
		{"role": "body", "title": "Body", "start_paragraph": 1, "end_paragraph": 1}
	]}`

func twoStageOrchestrators(t *testing.T, structCaller, mainCaller *fakeCaller, cache stepcache.Store) *Orchestrator {
	t.Helper()

	structure, err := New(StructureDefinition(), structCaller, cache, nil, 0)
	require.NoError(t, err)

	def := Definition{
		Name:              "section-uniformity",
		Title:             "Section uniformity",
		Granularity:       "section",
		AnalysisTemplate:  "Sections: {{section_count}} CV: {{section_length_cv}}\n{{document_text}}",
		ExtraPlaceholders: []string{"section_count", "section_length_cv"},
		TwoStage:          true,
	}
	main, err := New(def, mainCaller, cache, nil, 0)
	require.NoError(t, err)
	main.structure = structure
	return main
}

func TestTwoStageLocalStatisticsWin(t *testing.T) {
	structCaller := &fakeCaller{responses: []string{structureResponse}}
	// The model insists the sections are uniform; local arithmetic
	// disagrees.
	mainCaller := &fakeCaller{responses: []string{
		`{"risk_score": 70, "risk_level": "high", "issues": [], "recommendations": [],
			"sections": [{"role": "invented", "title": "Bogus", "start_paragraph": 0, "end_paragraph": 9}]}`,
	}}

	o := twoStageOrchestrators(t, structCaller, mainCaller, nil)
	result, err := o.Analyze(context.Background(), Request{Document: twoStageDoc})
	require.NoError(t, err)

	// Wildly different section lengths: high CV, human-like, low risk.
	assert.Equal(t, "low", result.RiskLevel)
	assert.Equal(t, 0, result.RiskScore)

	sections, ok := result.Extra["sections"].([]textparse.Section)
	require.True(t, ok, "model-proposed sections are replaced by recounted ones")
	require.Len(t, sections, 2)
	assert.Equal(t, "introduction", sections[0].Role)
	assert.Greater(t, sections[1].WordCount, sections[0].WordCount)

	cv, ok := result.Extra["section_length_cv"].(float64)
	require.True(t, ok)
	assert.Greater(t, cv, 0.40)
}

func TestTwoStagePromptCarriesLocalNumbers(t *testing.T) {
	structCaller := &fakeCaller{responses: []string{structureResponse}}
	mainCaller := &fakeCaller{responses: []string{`{"risk_score": 10, "issues": [], "recommendations": []}`}}

	o := twoStageOrchestrators(t, structCaller, mainCaller, nil)
	_, err := o.Analyze(context.Background(), Request{Document: twoStageDoc})
	require.NoError(t, err)

	prompt := mainCaller.lastPrompt()
	assert.Contains(t, prompt, "Sections: 2")
	assert.NotContains(t, prompt, "{{")
}

func TestTwoStageStructureCachedAcrossSubsteps(t *testing.T) {
	cache := stepcache.NewMemoryStore()
	structCaller := &fakeCaller{responses: []string{structureResponse}}
	mainCaller := &fakeCaller{responses: []string{`{"risk_score": 10, "issues": [], "recommendations": []}`}}

	o := twoStageOrchestrators(t, structCaller, mainCaller, cache)
	req := Request{Document: twoStageDoc, SessionID: "sess-2", UseCache: true}

	_, err := o.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, structCaller.callCount())
	assert.Equal(t, 1, mainCaller.callCount())

	// Second run: both stages served from cache, stage-2 arithmetic
	// still recomputed fresh.
	result, err := o.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, structCaller.callCount())
	assert.Equal(t, 1, mainCaller.callCount())
	assert.Contains(t, result.Extra, "section_length_cv")
	assert.Contains(t, result.Extra, "sections")
}

func TestTwoStageSingleSectionNeverOverrides(t *testing.T) {
	structCaller := &fakeCaller{responses: []string{
		`{"risk_score": 20, "risk_level": "low", "issues": [], "recommendations": [],
			"sections": [{"role": "body", "title": "All", "start_paragraph": 0, "end_paragraph": 1}]}`,
	}}
	mainCaller := &fakeCaller{responses: []string{`{"risk_score": 70, "risk_level": "high", "issues": [], "recommendations": []}`}}

	o := twoStageOrchestrators(t, structCaller, mainCaller, nil)
	result, err := o.Analyze(context.Background(), Request{Document: twoStageDoc})
	require.NoError(t, err)

	// One section has no meaningful uniformity; the model's judgment
	// stands.
	assert.Equal(t, "high", result.RiskLevel)
	assert.Equal(t, 70, result.RiskScore)
}

func TestBoundariesFromResult(t *testing.T) {
	r := &AnalysisResult{Extra: map[string]interface{}{
		"sections": []interface{}{
			map[string]interface{}{"role": "intro", "title": "A", "start_paragraph": float64(0), "end_paragraph": float64(2)},
			"not an object",
		},
	}}
	bounds := boundariesFromResult(r)
	require.Len(t, bounds, 1)
	assert.Equal(t, "intro", bounds[0].Role)
	assert.Equal(t, 2, bounds[0].EndParagraph)

	assert.Nil(t, boundariesFromResult(&AnalysisResult{}))
}
