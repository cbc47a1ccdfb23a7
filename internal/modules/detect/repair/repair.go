// Package repair turns raw, frequently malformed model output into a
// decoded JSON object. Parse never fails: when every extraction and
// repair attempt is exhausted it returns a canned degraded record that
// downstream code can treat like any other analysis result.
package repair

import (
	"encoding/json"
	"regexp"
	"strings"
)

const (
	// IssueParseError marks a record synthesized after a candidate was
	// found but could not be decoded even after repairs.
	IssueParseError = "parse_error"
	// IssueExtractionError marks a record synthesized when the response
	// contained no JSON object candidate at all.
	IssueExtractionError = "json_extraction_error"

	fallbackRiskScore = 50
	fallbackRiskLevel = "medium"
)

var (
	// Greedy body match so nested braces inside the fenced block are
	// captured up to the closing fence.
	fencedBlockRe = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(\\{.*\\})\\s*```")

	trailingCommaRe   = regexp.MustCompile(`,(\s*[}\]])`)
	adjacentObjectsRe = regexp.MustCompile(`\}(\s*)\{`)
	adjacentArraysRe  = regexp.MustCompile(`\](\s*)\[`)
	adjacentStringsRe = regexp.MustCompile(`"(\s*\n\s*)"`)
)

// Parse decodes raw model text into a JSON object, applying the repair
// pipeline on failure. The returned map is never nil.
func Parse(raw string) map[string]interface{} {
	candidate, found := extractCandidate(raw)
	if !found {
		return Fallback(IssueExtractionError)
	}

	if m, err := decodeObject(candidate); err == nil {
		return m
	}

	repaired := applyRepairs(candidate)
	if m, err := decodeObject(repaired); err == nil {
		return m
	}

	// Truncated or runaway output: balance the repaired text and retry.
	if m, err := decodeObject(completeObject(repaired)); err == nil {
		return m
	}

	return Fallback(IssueParseError)
}

// LooksStructured reports whether raw text appears to be a JSON
// payload rather than plain prose.
func LooksStructured(raw string) bool {
	t := strings.TrimSpace(raw)
	return strings.HasPrefix(t, "{") || fencedBlockRe.MatchString(raw)
}

// extractCandidate prefers the body of a fenced code block, then falls
// back to scanning for a top-level balanced-brace object.
func extractCandidate(raw string) (string, bool) {
	if m := fencedBlockRe.FindStringSubmatch(raw); m != nil {
		return m[1], true
	}
	return scanObject(raw)
}

// applyRepairs runs the fixed sequence of textual repairs. Each one
// targets an empirically common model failure mode; none attempts
// general-purpose recovery.
func applyRepairs(candidate string) string {
	s := trailingCommaRe.ReplaceAllString(candidate, "$1")
	s = adjacentObjectsRe.ReplaceAllString(s, "},$1{")
	s = adjacentArraysRe.ReplaceAllString(s, "],$1[")
	s = adjacentStringsRe.ReplaceAllString(s, `",$1"`)
	s = escapeStringNewlines(s)
	s = normalizeBareLiterals(s)
	return s
}

func decodeObject(candidate string) (map[string]interface{}, error) {
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(candidate), &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]interface{}{}
	}
	return m, nil
}

// Fallback builds the degraded record returned when parsing is
// impossible. Callers distinguish degraded results by the synthetic
// issue type.
func Fallback(issueType string) map[string]interface{} {
	description := "The model response could not be decoded as structured data."
	descriptionZH := "模型响应无法解析为结构化数据。"
	if issueType == IssueExtractionError {
		description = "The model response contained no structured data."
		descriptionZH = "模型响应中未找到结构化数据。"
	}

	return map[string]interface{}{
		"risk_score": float64(fallbackRiskScore),
		"risk_level": fallbackRiskLevel,
		"issues": []interface{}{
			map[string]interface{}{
				"type":           issueType,
				"severity":       "medium",
				"description":    description,
				"description_zh": descriptionZH,
				"positions":      []interface{}{},
				"suggestions":    []interface{}{"Run the analysis again."},
				"suggestions_zh": []interface{}{"请重新运行分析。"},
			},
		},
		"recommendations":    []interface{}{"The analysis response was malformed; retry the step."},
		"recommendations_zh": []interface{}{"分析响应格式异常，请重试该步骤。"},
	}
}
