package substep

import (
	"context"

	"github.com/draftproof/core/internal/modules/detect/score"
	"github.com/draftproof/core/internal/modules/detect/textparse"
	"go.uber.org/zap"
)

// StructureStepName is the fixed cache key for the shared stage-1
// judgment, so every section-level substep reuses one model call per
// session.
const StructureStepName = "section-structure"

// Section-length uniformity thresholds: machine drafts tend to produce
// near-equal section sizes, human drafts vary.
const (
	sectionCVThresholdAI    = 0.15
	sectionCVThresholdHuman = 0.40
)

// analyzeTwoStage runs the shared structure judgment (stage 1,
// cacheable) and recomputes section statistics from the raw text
// (stage 2) on every call. Where the model and local arithmetic
// disagree, the local numbers win.
func (o *Orchestrator) analyzeTwoStage(ctx context.Context, req Request) (*AnalysisResult, error) {
	structResult, err := o.structure.Analyze(ctx, Request{
		Document:  req.Document,
		SessionID: req.SessionID,
		UseCache:  req.UseCache,
	})
	if err != nil {
		return nil, err
	}

	bounds := boundariesFromResult(structResult)
	sections := textparse.ComputeSectionStatistics(req.Document, bounds)

	lengths := make([]float64, 0, len(sections))
	for _, s := range sections {
		lengths = append(lengths, float64(s.WordCount))
	}
	cv := textparse.CoefficientOfVariation(lengths)

	if req.Extras == nil {
		req.Extras = make(map[string]interface{})
	}
	req.Extras["section_count"] = len(sections)
	req.Extras["section_length_cv"] = cv

	result, err := o.analyzeCore(ctx, req)
	if err != nil {
		return nil, err
	}

	if result.Extra == nil {
		result.Extra = make(map[string]interface{})
	}
	// Local counts replace whatever sections the substep's own model
	// call proposed.
	result.Extra["sections"] = sections
	result.Extra["section_length_cv"] = cv

	dim := score.Score("section_length_cv", cv,
		sectionCVThresholdAI, sectionCVThresholdHuman, 1.0, 100, false)
	result.Extra["ground_truth_dimension"] = &dim

	local := clampInt(int(dim.Contribution), 0, 100)
	localLevel := levelString(score.LevelFor(local))
	if len(sections) > 1 && localLevel != result.RiskLevel {
		o.logger.Debug("section uniformity overrides model risk",
			zap.String("step", o.def.Name),
			zap.Float64("cv", cv),
			zap.String("model_level", result.RiskLevel),
			zap.String("local_level", localLevel),
		)
		result.RiskLevel = localLevel
		result.RiskScore = local
	}

	return result, nil
}

// boundariesFromResult extracts the model-proposed section boundaries
// from the stage-1 extension fields, tolerating the usual sloppiness.
func boundariesFromResult(r *AnalysisResult) []textparse.Boundary {
	raw, ok := r.Extra["sections"].([]interface{})
	if !ok {
		return nil
	}

	bounds := make([]textparse.Boundary, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		bounds = append(bounds, textparse.Boundary{
			Role:           asString(m["role"]),
			Title:          asString(m["title"]),
			StartParagraph: asInt(m["start_paragraph"], 0),
			EndParagraph:   asInt(m["end_paragraph"], -1),
		})
	}
	return bounds
}
