package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func loginRouter(t *testing.T, passwordHash, plainPassword string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	api := r.Group("/api/v2")
	NewHandler(passwordHash, plainPassword, zap.NewNop()).RegisterRoutes(api)
	return r
}

func postLogin(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v2/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginWithPlainPassword(t *testing.T) {
	r := loginRouter(t, "", "hunter2")

	w := postLogin(r, `{"password": "hunter2"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"token"`)
	assert.Contains(t, w.Body.String(), `"expires_in"`)
}

func TestLoginWithPrecomputedHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	r := loginRouter(t, string(hash), "")

	w := postLogin(r, `{"password": "s3cret"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = postLogin(r, `{"password": "wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginUnconfigured(t *testing.T) {
	r := loginRouter(t, "", "")

	w := postLogin(r, `{"password": "anything"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginValidation(t *testing.T) {
	r := loginRouter(t, "", "hunter2")

	w := postLogin(r, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postLogin(r, `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
