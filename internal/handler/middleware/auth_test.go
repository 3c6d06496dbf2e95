//go:build unit

package middleware_test

import (
	"net/http"
	"testing"

	"cinebook/internal/handler/middleware"
	"cinebook/internal/pkg/config"
	"cinebook/internal/pkg/jwt"
	"cinebook/internal/usecase"
	"cinebook/tests/common/authtest"
	"cinebook/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newAuthRouter(t *testing.T, cfg config.JWTConfig) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := jwt.NewService(cfg.Secret, 0)
	auth := middleware.NewAuthMiddleware(usecase.NewTokenValidator(svc))

	r := gin.New()
	r.GET("/me", auth.RequireAuth(), func(c *gin.Context) {
		id, ok := middleware.GetUserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": id.String(), "role": middleware.GetUserRole(c)})
	})
	r.GET("/admin", auth.RequireAuth(), auth.RequireRole(usecase.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"admin": middleware.IsAdmin(c)})
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	cfg := config.JWTConfig{Secret: "test-secret", Duration: "1h"}
	router := newAuthRouter(t, cfg)
	tokens := authtest.NewJWTHelper(cfg)
	userID := uuid.New()

	t.Run("valid bearer token", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/me", nil, tokens.GenerateToken(t, userID))

		var body map[string]string
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
		assert.Equal(t, userID.String(), body["user_id"])
		assert.Equal(t, "customer", body["role"])
	})

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/me", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Access token required")
	})

	t.Run("non-bearer scheme", func(t *testing.T) {
		rec := httptest.PerformRequestWithHeaders(t, router, http.MethodGet, "/me", nil, "",
			map[string]string{"Authorization": "Basic dXNlcjpwYXNz"})
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Access token required")
	})

	t.Run("expired token", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/me", nil, tokens.CreateExpiredToken(t, userID))
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Invalid or expired token")
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := authtest.NewJWTHelper(config.JWTConfig{Secret: "other", Duration: "1h"})
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/me", nil, other.GenerateToken(t, userID))
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Invalid or expired token")
	})
}

func TestRequireRole(t *testing.T) {
	cfg := config.JWTConfig{Secret: "test-secret", Duration: "1h"}
	router := newAuthRouter(t, cfg)
	tokens := authtest.NewJWTHelper(cfg)

	t.Run("admin passes", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/admin", nil,
			tokens.GenerateTokenWithRole(t, uuid.New(), usecase.RoleAdmin))

		var body map[string]bool
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
		assert.True(t, body["admin"])
	})

	t.Run("customer is forbidden", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/admin", nil, tokens.GenerateToken(t, uuid.New()))
		httptest.AssertErrorResponse(t, rec, http.StatusForbidden, "Insufficient permissions")
	})

	t.Run("authentication still comes first", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/admin", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Access token required")
	})
}
