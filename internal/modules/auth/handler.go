// Package auth implements the single-admin login flow.
package auth

import (
	"time"

	"github.com/draftproof/core/internal/pkg/jwt"
	"github.com/draftproof/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 7 * 24 * time.Hour

type Handler struct {
	passwordHash []byte
	logger       *zap.Logger
}

// NewHandler accepts either a precomputed bcrypt hash or a plaintext
// password which is hashed once at startup. An empty hash disables login.
func NewHandler(passwordHash, plainPassword string, logger *zap.Logger) *Handler {
	h := &Handler{logger: logger}
	switch {
	case passwordHash != "":
		h.passwordHash = []byte(passwordHash)
	case plainPassword != "":
		hashed, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.DefaultCost)
		if err != nil {
			logger.Error("failed to hash admin password", zap.Error(err))
			break
		}
		h.passwordHash = hashed
	}
	return h
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.login)
}

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "password is required")
		return
	}

	if len(h.passwordHash) == 0 {
		response.Unauthorized(c)
		return
	}
	if err := bcrypt.CompareHashAndPassword(h.passwordHash, []byte(req.Password)); err != nil {
		h.logger.Warn("failed admin login attempt", zap.String("ip", c.ClientIP()))
		response.Unauthorized(c)
		return
	}

	token, err := jwt.Sign("admin", tokenTTL)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{
		"token":      token,
		"expires_in": int64(tokenTTL.Seconds()),
	})
}
