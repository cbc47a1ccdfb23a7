package substep

import "encoding/json"

// Request is one analyze call. Extras carry caller-supplied named
// values (usually pre-computed statistics) that templates may
// reference.
type Request struct {
	Document    string                 `json:"document"`
	Format      string                 `json:"format,omitempty"` // "markdown" | "" (plain)
	LockedTerms []string               `json:"locked_terms,omitempty"`
	SessionID   string                 `json:"session_id,omitempty"`
	UseCache    bool                   `json:"use_cache,omitempty"`
	Extras      map[string]interface{} `json:"extras,omitempty"`
}

// RewriteRequest is one rewrite call over previously detected issues.
type RewriteRequest struct {
	Document    string   `json:"document"`
	Format      string   `json:"format,omitempty"`
	LockedTerms []string `json:"locked_terms,omitempty"`
	Issues      []Issue  `json:"issues"`
	UserNotes   string   `json:"user_notes,omitempty"`
}

// Issue is one detected writing-pattern problem. Immutable once built.
type Issue struct {
	Type          string   `json:"type"`
	Description   string   `json:"description"`
	DescriptionZH string   `json:"description_zh,omitempty"`
	Severity      string   `json:"severity"`
	Positions     []string `json:"positions,omitempty"`
	Suggestions   []string `json:"suggestions,omitempty"`
	SuggestionsZH []string `json:"suggestions_zh,omitempty"`
}

// AnalysisResult is the uniform envelope every substep returns. Extra
// holds step-specific extension fields (e.g. detected sections) and is
// flattened into the JSON object on marshal.
type AnalysisResult struct {
	RiskScore         int      `json:"risk_score"`
	RiskLevel         string   `json:"risk_level"`
	Issues            []Issue  `json:"issues"`
	Recommendations   []string `json:"recommendations"`
	RecommendationsZH []string `json:"recommendations_zh,omitempty"`

	Extra map[string]interface{} `json:"-"`
}

var analysisResultKnownKeys = []string{
	"risk_score", "risk_level", "issues", "recommendations", "recommendations_zh",
}

func (r AnalysisResult) MarshalJSON() ([]byte, error) {
	type alias AnalysisResult
	base, err := json.Marshal(alias(r))
	if err != nil {
		return nil, err
	}
	if len(r.Extra) == 0 {
		return base, nil
	}

	var m map[string]interface{}
	if err := json.Unmarshal(base, &m); err != nil {
		return nil, err
	}
	for k, v := range r.Extra {
		if _, taken := m[k]; !taken {
			m[k] = v
		}
	}
	return json.Marshal(m)
}

func (r *AnalysisResult) UnmarshalJSON(data []byte) error {
	type alias AnalysisResult
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	for _, k := range analysisResultKnownKeys {
		delete(m, k)
	}
	if len(m) > 0 {
		a.Extra = m
	}

	*r = AnalysisResult(a)
	return nil
}

// RewriteResult reports the outcome of a rewrite call.
type RewriteResult struct {
	ModifiedText         string   `json:"modified_text"`
	ChangeSummary        string   `json:"change_summary"`
	ChangeSummaryZH      string   `json:"change_summary_zh,omitempty"`
	ChangesCount         int      `json:"changes_count"`
	IssueTypesAddressed  []string `json:"issue_types_addressed"`
	LockedTermsPreserved bool     `json:"locked_terms_preserved"`
	MissingTerms         []string `json:"missing_terms,omitempty"`
}

// StepInfo describes a registered substep for the listing endpoint.
type StepInfo struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	TitleZH     string `json:"title_zh,omitempty"`
	Granularity string `json:"granularity"`
	TwoStage    bool   `json:"two_stage"`
}
