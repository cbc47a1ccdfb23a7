package models

// AnalysisReportModel persists one completed substep analysis so that
// past sessions can be listed and re-opened from the dashboard.
type AnalysisReportModel struct {
	Base
	SessionID   string      `json:"session_id"   gorm:"index;not null"`
	StepName    string      `json:"step_name"    gorm:"index;not null"`
	RiskScore   int         `json:"risk_score"`
	RiskLevel   string      `json:"risk_level"`
	LockedTerms StringArray `json:"locked_terms" gorm:"type:json"`
	Result      string      `json:"result"       gorm:"type:longtext;not null"`
}

func (AnalysisReportModel) TableName() string { return "analysis_reports" }
