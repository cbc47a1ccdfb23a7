package substep

import (
	"github.com/draftproof/core/internal/modules/detect/score"
	"github.com/draftproof/core/internal/modules/detect/textparse"
)

// Sentence-length CV and type-token ratio thresholds, tuned against
// the section thresholds in twostage.go.
const (
	sentenceCVThresholdAI    = 0.30
	sentenceCVThresholdHuman = 0.55
	ttrThresholdAI           = 0.35
	ttrThresholdHuman        = 0.55
)

// StructureDefinition is the shared stage-1 substep: it only proposes
// section boundaries and roles, cached once per session under a fixed
// step name.
func StructureDefinition() Definition {
	return Definition{
		Name:             StructureStepName,
		Title:            "Section structure",
		TitleZH:          "章节结构",
		Granularity:      "section",
		AnalysisTemplate: sectionStructureAnalysisPrompt,
	}
}

// Definitions returns every user-facing substep in cascade order.
func Definitions() []Definition {
	return []Definition{
		{
			Name:             "document-overview",
			Title:            "Document overview",
			TitleZH:          "全文概览",
			Granularity:      "document",
			AnalysisTemplate: documentOverviewAnalysisPrompt,
			RewriteTemplate:  documentOverviewRewritePrompt,
		},
		{
			Name:             "section-uniformity",
			Title:            "Section uniformity",
			TitleZH:          "章节均匀度",
			Granularity:      "section",
			AnalysisTemplate: sectionUniformityAnalysisPrompt,
			RewriteTemplate:  passageRewritePrompt,
			ExtraPlaceholders: []string{
				"section_count", "section_length_cv",
			},
			TwoStage: true,
		},
		{
			Name:             "paragraph-rhythm",
			Title:            "Paragraph rhythm",
			TitleZH:          "段落节奏",
			Granularity:      "paragraph",
			AnalysisTemplate: paragraphRhythmAnalysisPrompt,
			RewriteTemplate:  passageRewritePrompt,
			ExtraPlaceholders: []string{
				"section_count", "section_length_cv",
			},
			TwoStage: true,
		},
		{
			Name:             "sentence-variety",
			Title:            "Sentence variety",
			TitleZH:          "句式多样性",
			Granularity:      "sentence",
			AnalysisTemplate: sentenceVarietyAnalysisPrompt,
			RewriteTemplate:  passageRewritePrompt,
			ExtraPlaceholders: []string{
				"sentence_length_cv",
			},
			LocalStats: func(doc string) map[string]interface{} {
				return map[string]interface{}{
					"sentence_length_cv": textparse.SentenceLengthCV(doc),
				}
			},
			GroundTruth: func(doc string, extras map[string]interface{}) *score.Dimension {
				dim := score.Score("sentence_length_cv", textparse.SentenceLengthCV(doc),
					sentenceCVThresholdAI, sentenceCVThresholdHuman, 1.0, 100, false)
				dim.Name = "Sentence length variation"
				dim.NameZH = "句长变化"
				return &dim
			},
		},
		{
			Name:             "lexical-diversity",
			Title:            "Lexical diversity",
			TitleZH:          "词汇多样性",
			Granularity:      "lexical",
			AnalysisTemplate: lexicalDiversityAnalysisPrompt,
			RewriteTemplate:  passageRewritePrompt,
			ExtraPlaceholders: []string{
				"type_token_ratio",
			},
			LocalStats: func(doc string) map[string]interface{} {
				return map[string]interface{}{
					"type_token_ratio": textparse.TypeTokenRatio(doc),
				}
			},
			GroundTruth: func(doc string, extras map[string]interface{}) *score.Dimension {
				dim := score.Score("type_token_ratio", textparse.TypeTokenRatio(doc),
					ttrThresholdAI, ttrThresholdHuman, 1.0, 100, false)
				dim.Name = "Type-token ratio"
				dim.NameZH = "词型-词符比"
				return &dim
			},
		},
	}
}
