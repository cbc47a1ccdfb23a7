package middleware

import (
	"errors"
	"strings"

	"github.com/draftproof/core/internal/pkg/jwt"
	"github.com/draftproof/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

const (
	// ContextKeySubject carries the authenticated subject name.
	ContextKeySubject = "auth_subject"
)

// Auth returns a middleware that enforces JWT authentication.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := validateToken(extractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		c.Set(ContextKeySubject, claims.Subject)
		c.Next()
	}
}

// IsAuthenticated reports whether the current request carries a valid token.
func IsAuthenticated(c *gin.Context) bool {
	_, ok := c.Get(ContextKeySubject)
	if ok {
		return true
	}
	_, err := validateToken(extractToken(c))
	return err == nil
}

func validateToken(rawToken string) (*jwt.Claims, error) {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return nil, errors.New("token is required")
	}
	return jwt.Parse(token)
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		if strings.HasPrefix(header, "Bearer ") {
			return strings.TrimPrefix(header, "Bearer ")
		}
		return header
	}
	return c.Query("token")
}
