//go:build unit

package middleware_test

import (
	"net/http"
	stdhttptest "net/http/httptest"
	"testing"
	"time"

	"cinebook/internal/handler/middleware"
	"cinebook/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(middleware.NewCORSMiddleware(config.CORSConfig{
		AllowOrigins:  []string{"http://localhost:5173"},
		AllowMethods:  []string{"GET", "POST", "PUT"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        time.Hour,
	}))
	r.POST("/api/bookings", func(c *gin.Context) {
		c.Header("Location", "/api/bookings/1")
		c.Status(http.StatusCreated)
	})

	t.Run("preflight allows the idempotency key", func(t *testing.T) {
		req := stdhttptest.NewRequest(http.MethodOptions, "/api/bookings", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Idempotency-Key, Authorization")
		rec := stdhttptest.NewRecorder()

		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		allowed := rec.Header().Get("Access-Control-Allow-Headers")
		assert.Contains(t, allowed, "Idempotency-Key")
		assert.Contains(t, allowed, "Authorization")
	})

	t.Run("location is exposed", func(t *testing.T) {
		req := stdhttptest.NewRequest(http.MethodPost, "/api/bookings", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		rec := stdhttptest.NewRecorder()

		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		exposed := rec.Header().Get("Access-Control-Expose-Headers")
		assert.Contains(t, exposed, "Location")
		assert.Contains(t, exposed, "Content-Length")
	})

	t.Run("unknown origin is rejected", func(t *testing.T) {
		req := stdhttptest.NewRequest(http.MethodPost, "/api/bookings", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := stdhttptest.NewRecorder()

		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
