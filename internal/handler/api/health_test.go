//go:build unit

package api_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"cinebook/internal/handler/api"
	"cinebook/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	up := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name       string
		checks     map[string]api.Pinger
		wantStatus int
		wantBody   map[string]any
	}{
		{
			name:       "all reachable",
			checks:     map[string]api.Pinger{"postgres": up, "redis": up},
			wantStatus: http.StatusOK,
			wantBody:   map[string]any{"status": "ok", "checks": map[string]any{"postgres": "ok", "redis": "ok"}},
		},
		{
			name:       "redis down",
			checks:     map[string]api.Pinger{"postgres": up, "redis": down},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   map[string]any{"status": "degraded", "checks": map[string]any{"postgres": "ok", "redis": "connection refused"}},
		},
		{
			name:       "no checks",
			checks:     map[string]api.Pinger{},
			wantStatus: http.StatusOK,
			wantBody:   map[string]any{"status": "ok", "checks": map[string]any{}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", api.NewHealthHandler(tt.checks).Check)

			rec := httptest.PerformRequest(t, r, http.MethodGet, "/health", nil, "")
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]any
			assert.NoError(t, httptest.DecodeResponseBody(t, rec.Body, &body))
			assert.Equal(t, tt.wantBody, body)
		})
	}
}
