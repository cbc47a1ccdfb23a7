package substep

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/draftproof/core/internal/models"
	"github.com/draftproof/core/internal/modules/detect/provider"
	"github.com/draftproof/core/internal/modules/detect/stepcache"
	"github.com/draftproof/core/internal/modules/detect/textparse"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service owns the substep registry and wires every orchestrator to
// the shared gateway, cache and report store.
type Service struct {
	steps  map[string]*Orchestrator
	order  []string
	db     *gorm.DB
	logger *zap.Logger
}

// NewService builds the registry. Definition errors (bad templates)
// surface here, at startup.
func NewService(caller provider.Caller, cache stepcache.Store, db *gorm.DB, logger *zap.Logger, maxDocChars int) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	structure, err := New(StructureDefinition(), caller, cache, logger, maxDocChars)
	if err != nil {
		return nil, err
	}

	s := &Service{
		steps:  map[string]*Orchestrator{StructureStepName: structure},
		order:  []string{StructureStepName},
		db:     db,
		logger: logger,
	}

	for _, def := range Definitions() {
		orch, err := New(def, caller, cache, logger, maxDocChars)
		if err != nil {
			return nil, err
		}
		if def.TwoStage {
			orch.structure = structure
		}
		s.steps[def.Name] = orch
		s.order = append(s.order, def.Name)
	}
	return s, nil
}

// Steps lists registered substeps in cascade order.
func (s *Service) Steps() []StepInfo {
	out := make([]StepInfo, 0, len(s.order))
	for _, name := range s.order {
		def := s.steps[name].Definition()
		out = append(out, StepInfo{
			Name:        def.Name,
			Title:       def.Title,
			TitleZH:     def.TitleZH,
			Granularity: def.Granularity,
			TwoStage:    def.TwoStage,
		})
	}
	return out
}

// Analyze dispatches to the named substep. Markdown sources are
// flattened to plain prose before any statistics or prompting.
func (s *Service) Analyze(ctx context.Context, stepName string, req Request) (*AnalysisResult, error) {
	orch, ok := s.steps[stepName]
	if !ok {
		return nil, fmt.Errorf("unknown substep: %s", stepName)
	}

	req.Document = s.ingest(req.Document, req.Format)
	result, err := orch.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}

	s.persistReport(stepName, req, result)
	return result, nil
}

// Rewrite dispatches to the named substep.
func (s *Service) Rewrite(ctx context.Context, stepName string, req RewriteRequest) (*RewriteResult, error) {
	orch, ok := s.steps[stepName]
	if !ok {
		return nil, fmt.Errorf("unknown substep: %s", stepName)
	}

	req.Document = s.ingest(req.Document, req.Format)
	return orch.Rewrite(ctx, req)
}

func (s *Service) ingest(document, format string) string {
	if strings.EqualFold(strings.TrimSpace(format), "markdown") {
		return textparse.FlattenMarkdown(document)
	}
	return document
}

// persistReport records the analysis for session history, best effort.
func (s *Service) persistReport(stepName string, req Request, result *AnalysisResult) {
	if s.db == nil || strings.TrimSpace(req.SessionID) == "" {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	report := models.AnalysisReportModel{
		SessionID:   req.SessionID,
		StepName:    stepName,
		RiskScore:   result.RiskScore,
		RiskLevel:   result.RiskLevel,
		LockedTerms: models.StringArray(req.LockedTerms),
		Result:      string(data),
	}
	if err := s.db.Create(&report).Error; err != nil {
		s.logger.Warn("report persist failed",
			zap.String("step", stepName),
			zap.String("session", req.SessionID),
			zap.Error(err),
		)
	}
}
