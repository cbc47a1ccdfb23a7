// Package report exposes the persisted analysis history.
package report

import (
	"errors"

	"github.com/draftproof/core/internal/models"
	"github.com/draftproof/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	db          *gorm.DB
	returnLimit int
}

func NewHandler(db *gorm.DB, returnLimit int) *Handler {
	if returnLimit <= 0 {
		returnLimit = 50
	}
	return &Handler{db: db, returnLimit: returnLimit}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/detect/reports", authMW)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.DELETE("/:id", h.delete)
}

// GET /detect/reports?session_id=...&step=...
func (h *Handler) list(c *gin.Context) {
	q := h.db.Model(&models.AnalysisReportModel{}).Order("created_at DESC").Limit(h.returnLimit)
	if session := c.Query("session_id"); session != "" {
		q = q.Where("session_id = ?", session)
	}
	if step := c.Query("step"); step != "" {
		q = q.Where("step_name = ?", step)
	}

	var reports []models.AnalysisReportModel
	if err := q.Find(&reports).Error; err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, reports)
}

// GET /detect/reports/:id
func (h *Handler) get(c *gin.Context) {
	var report models.AnalysisReportModel
	if err := h.db.First(&report, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, report)
}

// DELETE /detect/reports/:id
func (h *Handler) delete(c *gin.Context) {
	if err := h.db.Delete(&models.AnalysisReportModel{}, "id = ?", c.Param("id")).Error; err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
