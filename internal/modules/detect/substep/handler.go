package substep

import (
	"errors"
	"strings"

	"github.com/draftproof/core/internal/modules/detect/provider"
	"github.com/draftproof/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc     *Service
	gateway *provider.Gateway
}

func NewHandler(svc *Service, gateway *provider.Gateway) *Handler {
	return &Handler{svc: svc, gateway: gateway}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/detect")

	g.GET("/steps", h.listSteps)
	g.POST("/:step/analyze", h.analyze)
	g.POST("/:step/rewrite", h.rewrite)

	g.POST("/providers/test", authMW, h.testProvider)
}

// GET /detect/steps
func (h *Handler) listSteps(c *gin.Context) {
	response.OK(c, h.svc.Steps())
}

// POST /detect/:step/analyze
func (h *Handler) analyze(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Document) == "" {
		response.BadRequest(c, "document is required")
		return
	}

	result, err := h.svc.Analyze(c.Request.Context(), c.Param("step"), req)
	if err != nil {
		h.writeCallError(c, err)
		return
	}
	response.OK(c, result)
}

// POST /detect/:step/rewrite
func (h *Handler) rewrite(c *gin.Context) {
	var req RewriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Document) == "" {
		response.BadRequest(c, "document is required")
		return
	}

	result, err := h.svc.Rewrite(c.Request.Context(), c.Param("step"), req)
	if err != nil {
		h.writeCallError(c, err)
		return
	}
	response.OK(c, result)
}

// POST /detect/providers/test sends one tiny round trip through the chain.
func (h *Handler) testProvider(c *gin.Context) {
	if h.gateway == nil || !h.gateway.Configured() {
		response.InternalError(c, provider.ErrNoProviderConfigured)
		return
	}

	text, err := h.gateway.Call(c.Request.Context(), `Reply with the single word "ok".`, 16, 0)
	if err != nil {
		response.BadGateway(c, err)
		return
	}
	response.OK(c, gin.H{"ok": 1, "reply": strings.TrimSpace(text)})
}

// writeCallError maps the error taxonomy onto HTTP statuses: unknown
// step and missing configuration are the caller's problem, an
// exhausted provider chain is an upstream failure.
func (h *Handler) writeCallError(c *gin.Context, err error) {
	var chainErr *provider.ChainError
	switch {
	case errors.Is(err, provider.ErrNoProviderConfigured):
		response.InternalError(c, err)
	case errors.As(err, &chainErr):
		response.BadGateway(c, err)
	case strings.HasPrefix(err.Error(), "unknown substep"):
		response.NotFoundMsg(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
