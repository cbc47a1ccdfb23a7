package substep

import (
	"strings"

	"github.com/draftproof/core/internal/modules/detect/score"
)

// resultFromMap coerces a repaired JSON object into the typed result
// envelope. Model output is duck-typed and sloppy; every field is
// normalized here so nothing downstream needs runtime type probing.
func resultFromMap(m map[string]interface{}) *AnalysisResult {
	r := &AnalysisResult{
		Issues:          []Issue{},
		Recommendations: []string{},
	}

	r.RiskScore = clampInt(asInt(m["risk_score"], 50), 0, 100)
	r.RiskLevel = normalizeLevel(asString(m["risk_level"]), r.RiskScore)
	r.Issues = issuesFromValue(m["issues"])
	r.Recommendations = stringsFromValue(m["recommendations"])
	r.RecommendationsZH = stringsFromValue(m["recommendations_zh"])

	extra := make(map[string]interface{})
	for k, v := range m {
		switch k {
		case "risk_score", "risk_level", "issues", "recommendations", "recommendations_zh":
		default:
			extra[k] = v
		}
	}
	if len(extra) > 0 {
		r.Extra = extra
	}
	return r
}

func issuesFromValue(v interface{}) []Issue {
	list, ok := v.([]interface{})
	if !ok {
		return []Issue{}
	}

	issues := make([]Issue, 0, len(list))
	for _, item := range list {
		switch it := item.(type) {
		case map[string]interface{}:
			issues = append(issues, Issue{
				Type:          defaultString(asString(it["type"]), "generic"),
				Description:   asString(it["description"]),
				DescriptionZH: asString(it["description_zh"]),
				Severity:      normalizeSeverity(asString(it["severity"])),
				Positions:     stringsFromValue(it["positions"]),
				Suggestions:   stringsFromValue(it["suggestions"]),
				SuggestionsZH: stringsFromValue(it["suggestions_zh"]),
			})
		case string:
			issues = append(issues, Issue{
				Type:        "generic",
				Description: it,
				Severity:    "medium",
			})
		}
	}
	return issues
}

func stringsFromValue(v interface{}) []string {
	list, ok := v.([]interface{})
	if !ok {
		if s, ok := v.(string); ok && s != "" {
			return []string{s}
		}
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func normalizeSeverity(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return "high"
	case "low":
		return "low"
	default:
		return "medium"
	}
}

// normalizeLevel validates the model-reported level, deriving one from
// the score when the model's answer is unusable. The result enum is
// low/medium/high; the scorer's "safe" bucket maps to low.
func normalizeLevel(s string, riskScore int) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "medium", "high":
		return strings.ToLower(strings.TrimSpace(s))
	}
	return levelString(score.LevelFor(riskScore))
}

func levelString(l score.Level) string {
	if l == score.LevelSafe {
		return "low"
	}
	return string(l)
}

func asInt(v interface{}, fallback int) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	case string:
		trimmed := strings.TrimSpace(n)
		total := 0
		for _, r := range trimmed {
			if r < '0' || r > '9' {
				return fallback
			}
			total = total*10 + int(r-'0')
		}
		if trimmed == "" {
			return fallback
		}
		return total
	default:
		return fallback
	}
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func defaultString(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
