package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/draftproof/core/internal/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/private", Auth(), func(c *gin.Context) {
		subject := c.GetString(ContextKeySubject)
		c.JSON(http.StatusOK, gin.H{"subject": subject})
	})
	return r
}

func TestAuthAcceptsBearerToken(t *testing.T) {
	token, err := jwt.Sign("admin", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	protectedRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"subject":"admin"`)
}

func TestAuthAcceptsQueryToken(t *testing.T) {
	token, err := jwt.Sign("admin", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/private?token="+token, nil)
	w := httptest.NewRecorder()
	protectedRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRejectsMissingOrBadToken(t *testing.T) {
	for _, header := range []string{"", "Bearer bogus", "garbage"} {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		protectedRouter().ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	token, err := jwt.Sign("admin", -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	protectedRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
