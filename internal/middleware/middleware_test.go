package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"rideshare-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(discardLogger()))

	api := r.Group("/api", JWTAuth(secret))
	api.GET("/me", RequireUser(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint(ContextUserID)})
	})
	api.POST("/system", RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	r := newRouter()

	userToken, err := utils.GenerateJWT(secret, 7)
	require.NoError(t, err)
	foreign, err := utils.GenerateJWT("another", 7)
	require.NoError(t, err)

	w := do(r, http.MethodGet, "/api/me", userToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/me", foreign).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Token "+userToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleGuards(t *testing.T) {
	r := newRouter()

	userToken, err := utils.GenerateJWT(secret, 7)
	require.NoError(t, err)
	adminToken, err := utils.GenerateAdminJWT(secret)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodPost, "/api/system", userToken).Code)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "/api/system", adminToken).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/api/me", adminToken).Code)
}

func TestRequestIDPassthrough(t *testing.T) {
	r := newRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
