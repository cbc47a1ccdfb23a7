// Package substep runs one analysis/rewrite unit of the detection
// cascade. Every concrete substep is a Definition value: immutable
// configuration (two prompt templates, token limits, statistics hooks)
// fed to the same generic orchestrator.
package substep

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/draftproof/core/internal/modules/detect/guard"
	"github.com/draftproof/core/internal/modules/detect/provider"
	"github.com/draftproof/core/internal/modules/detect/repair"
	"github.com/draftproof/core/internal/modules/detect/score"
	"github.com/draftproof/core/internal/modules/detect/stepcache"
	"go.uber.org/zap"
)

const (
	defaultMaxDocumentChars  = 10000
	defaultAnalysisMaxTokens = 4096
	defaultRewriteMaxTokens  = 8192
	defaultAnalysisTemp      = 0.2
	defaultRewriteTemp       = 0.7
)

// Definition is the full configuration of one concrete substep.
type Definition struct {
	Name        string
	Title       string
	TitleZH     string
	Granularity string // document | section | paragraph | sentence | lexical

	AnalysisTemplate string
	RewriteTemplate  string

	AnalysisMaxTokens   int
	RewriteMaxTokens    int
	AnalysisTemperature float64
	RewriteTemperature  float64

	// ExtraPlaceholders declares step-specific template names beyond
	// the core vocabulary. A *_count extra implicitly allows its
	// *_count_minus_one companion.
	ExtraPlaceholders []string

	// LocalStats computes always-fresh statistics injected as extras.
	LocalStats func(doc string) map[string]interface{}

	// GroundTruth returns the locally measured dimension whose derived
	// risk level overrides the model's answer when they disagree.
	GroundTruth func(doc string, extras map[string]interface{}) *score.Dimension

	// TwoStage substeps reuse the shared section-structure judgment
	// (stage 1, cached) and merge fresh local section statistics
	// (stage 2) into every result.
	TwoStage bool
}

// Orchestrator executes one substep definition.
type Orchestrator struct {
	def       Definition
	caller    provider.Caller
	cache     stepcache.Store
	logger    *zap.Logger
	structure *Orchestrator // set for two-stage substeps
	maxChars  int
}

// New validates the definition and builds its orchestrator. Template
// errors are configuration errors and fail here, not at request time.
func New(def Definition, caller provider.Caller, cache stepcache.Store, logger *zap.Logger, maxDocChars int) (*Orchestrator, error) {
	if strings.TrimSpace(def.Name) == "" {
		return nil, fmt.Errorf("substep definition has no name")
	}
	if err := validateTemplate(def.AnalysisTemplate, def.ExtraPlaceholders); err != nil {
		return nil, fmt.Errorf("substep %s analysis template: %w", def.Name, err)
	}
	if def.RewriteTemplate != "" {
		if err := validateTemplate(def.RewriteTemplate, def.ExtraPlaceholders); err != nil {
			return nil, fmt.Errorf("substep %s rewrite template: %w", def.Name, err)
		}
	}

	if def.AnalysisMaxTokens <= 0 {
		def.AnalysisMaxTokens = defaultAnalysisMaxTokens
	}
	if def.RewriteMaxTokens <= 0 {
		def.RewriteMaxTokens = defaultRewriteMaxTokens
	}
	if def.AnalysisTemperature <= 0 {
		def.AnalysisTemperature = defaultAnalysisTemp
	}
	if def.RewriteTemperature <= 0 {
		def.RewriteTemperature = defaultRewriteTemp
	}
	if maxDocChars <= 0 {
		maxDocChars = defaultMaxDocumentChars
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Orchestrator{
		def:      def,
		caller:   caller,
		cache:    cache,
		logger:   logger,
		maxChars: maxDocChars,
	}, nil
}

// Definition returns the substep's immutable configuration.
func (o *Orchestrator) Definition() Definition { return o.def }

// Analyze runs the substep's analysis. Transport failures propagate to
// the caller; malformed model output never does, because the repair parser
// always yields a usable (possibly degraded) record.
func (o *Orchestrator) Analyze(ctx context.Context, req Request) (*AnalysisResult, error) {
	if o.def.TwoStage && o.structure != nil {
		return o.analyzeTwoStage(ctx, req)
	}

	result, err := o.analyzeCore(ctx, req)
	if err != nil {
		return nil, err
	}
	o.applyGroundTruth(req.Document, req.Extras, result)
	return result, nil
}

// analyzeCore is the cache-wrapped single model round trip.
func (o *Orchestrator) analyzeCore(ctx context.Context, req Request) (*AnalysisResult, error) {
	if cached := o.loadCached(ctx, req); cached != nil {
		return cached, nil
	}

	extras := o.collectExtras(req)
	prompt := o.renderAnalysisPrompt(req, extras)

	raw, err := o.caller.Call(ctx, prompt, o.def.AnalysisMaxTokens, o.def.AnalysisTemperature)
	if err != nil {
		return nil, err
	}

	result := resultFromMap(repair.Parse(raw))
	o.storeCached(ctx, req, result)
	return result, nil
}

func (o *Orchestrator) collectExtras(req Request) map[string]interface{} {
	extras := make(map[string]interface{})
	if o.def.LocalStats != nil {
		for k, v := range o.def.LocalStats(req.Document) {
			extras[k] = v
		}
	}
	for k, v := range req.Extras {
		extras[k] = v
	}
	// Boundary-validation prompts need the fencepost companion of any
	// count the caller supplied.
	for k, v := range extras {
		if strings.HasSuffix(k, "_count") {
			if n := asInt(v, -1); n >= 0 {
				extras[k+"_minus_one"] = n - 1
			}
		}
	}
	return extras
}

func (o *Orchestrator) renderAnalysisPrompt(req Request, extras map[string]interface{}) string {
	values := map[string]string{
		"document_text": truncateDocument(req.Document, o.maxChars),
		"locked_terms":  formatLockedTerms(req.LockedTerms),
	}
	for k, v := range extras {
		values[k] = formatExtra(v)
	}
	return renderTemplate(o.def.AnalysisTemplate, values)
}

func (o *Orchestrator) loadCached(ctx context.Context, req Request) *AnalysisResult {
	if !req.UseCache || req.SessionID == "" || o.cache == nil {
		return nil
	}

	rec, err := o.cache.Load(ctx, req.SessionID, o.def.Name)
	if err != nil {
		o.logger.Warn("cache load failed",
			zap.String("step", o.def.Name),
			zap.Error(err),
		)
		return nil
	}
	if rec == nil || rec.Status != stepcache.StatusCompleted {
		return nil
	}

	var result AnalysisResult
	if err := json.Unmarshal(rec.Result, &result); err != nil {
		o.logger.Warn("cache record undecodable, recomputing",
			zap.String("step", o.def.Name),
			zap.Error(err),
		)
		return nil
	}
	return &result
}

// storeCached persists the result best-effort; a failed save degrades
// to "no cache" and never fails the call.
func (o *Orchestrator) storeCached(ctx context.Context, req Request, result *AnalysisResult) {
	if !req.UseCache || req.SessionID == "" || o.cache == nil {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	rec := &stepcache.Record{
		SessionID: req.SessionID,
		StepName:  o.def.Name,
		Result:    data,
		Status:    stepcache.StatusCompleted,
	}
	if err := o.cache.Save(ctx, rec); err != nil {
		o.logger.Warn("cache save failed",
			zap.String("step", o.def.Name),
			zap.Error(err),
		)
	}
}

// applyGroundTruth lets a locally measured statistic win over the
// model's risk judgment. Arithmetic over the source text is ground
// truth; the model's number is only a best guess.
func (o *Orchestrator) applyGroundTruth(doc string, extras map[string]interface{}, result *AnalysisResult) {
	if o.def.GroundTruth == nil {
		return
	}
	dim := o.def.GroundTruth(doc, extras)
	if dim == nil {
		return
	}

	if result.Extra == nil {
		result.Extra = make(map[string]interface{})
	}
	result.Extra["ground_truth_dimension"] = dim

	local := clampInt(int(dim.Contribution), 0, 100)
	localLevel := levelString(score.LevelFor(local))
	if localLevel != result.RiskLevel {
		o.logger.Debug("local statistic overrides model risk",
			zap.String("step", o.def.Name),
			zap.String("dimension", dim.ID),
			zap.String("model_level", result.RiskLevel),
			zap.String("local_level", localLevel),
		)
		result.RiskLevel = localLevel
		result.RiskScore = local
	}
}

// Rewrite runs the substep's rewrite and verifies protected terms. The
// guard outcome is recorded, never enforced; accepting a rewrite that
// lost a term is the caller's policy decision.
func (o *Orchestrator) Rewrite(ctx context.Context, req RewriteRequest) (*RewriteResult, error) {
	if o.def.RewriteTemplate == "" {
		return nil, fmt.Errorf("substep %s does not support rewriting", o.def.Name)
	}

	userNotes := strings.TrimSpace(req.UserNotes)
	if userNotes == "" {
		userNotes = "(no additional guidance)"
	}
	values := map[string]string{
		"document_text":   truncateDocument(req.Document, o.maxChars),
		"locked_terms":    formatLockedTerms(req.LockedTerms),
		"selected_issues": formatIssueList(req.Issues),
		"user_notes":      userNotes,
	}
	prompt := renderTemplate(o.def.RewriteTemplate, values)

	raw, err := o.caller.Call(ctx, prompt, o.def.RewriteMaxTokens, o.def.RewriteTemperature)
	if err != nil {
		return nil, err
	}

	parsed := repair.Parse(raw)
	result := &RewriteResult{
		ChangeSummary:   asString(parsed["change_summary"]),
		ChangeSummaryZH: asString(parsed["change_summary_zh"]),
	}

	result.ModifiedText = strings.TrimSpace(asString(parsed["modified_text"]))
	if result.ModifiedText == "" {
		if !repair.LooksStructured(raw) {
			// The model ignored the output format but still did the
			// task; the whole response is the rewrite.
			result.ModifiedText = strings.TrimSpace(raw)
		} else {
			result.ModifiedText = req.Document
			result.ChangeSummary = "No changes applied: the model returned an unusable response."
			result.ChangeSummaryZH = "未应用任何修改：模型返回的内容无法使用。"
		}
	}
	if result.ChangeSummary == "" {
		result.ChangeSummary = fmt.Sprintf("Rewrote the text addressing %d issue(s).", len(req.Issues))
	}
	if result.ChangeSummaryZH == "" {
		result.ChangeSummaryZH = fmt.Sprintf("已针对 %d 个问题改写文本。", len(req.Issues))
	}

	result.ChangesCount = asInt(parsed["changes_count"], len(req.Issues))
	result.IssueTypesAddressed = stringsFromValue(parsed["issue_types_addressed"])
	if len(result.IssueTypesAddressed) == 0 {
		result.IssueTypesAddressed = uniqueIssueTypes(req.Issues)
	}

	preserved, missing := guard.Check(req.Document, result.ModifiedText, req.LockedTerms)
	result.LockedTermsPreserved = preserved
	result.MissingTerms = missing
	if !preserved {
		o.logger.Warn("locked terms lost in rewrite",
			zap.String("step", o.def.Name),
			zap.Strings("missing", missing),
		)
	}

	return result, nil
}

func uniqueIssueTypes(issues []Issue) []string {
	seen := make(map[string]struct{}, len(issues))
	out := make([]string, 0, len(issues))
	for _, issue := range issues {
		if _, ok := seen[issue.Type]; ok {
			continue
		}
		seen[issue.Type] = struct{}{}
		out = append(out, issue.Type)
	}
	return out
}
