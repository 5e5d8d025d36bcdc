package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestHealthHandler(t *testing.T) {
	ok := PingFunc(func(ctx context.Context) error { return nil })
	down := PingFunc(func(ctx context.Context) error { return errors.New("dial tcp: refused") })

	tests := []struct {
		name       string
		checks     map[string]Pinger
		wantStatus int
		wantState  string
	}{
		{"all up", map[string]Pinger{"postgres": ok, "redis": ok}, http.StatusOK, "ok"},
		{"redis down", map[string]Pinger{"postgres": ok, "redis": down}, http.StatusServiceUnavailable, "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			Routes{Health: NewHealthHandler(tt.checks)}.registerHealth(r)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := parseJSONResponse(t, w)
			assert.Equal(t, tt.wantState, resp["status"])
			assert.NotContains(t, w.Body.String(), "refused")
		})
	}
}
