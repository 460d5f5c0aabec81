package utils

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestHealthMonitor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	redisUp := true
	m := NewHealthMonitor(map[string]Pinger{
		"mongo": func(context.Context) error { return nil },
		"redis": func(context.Context) error {
			if redisUp {
				return nil
			}
			return errors.New("connection refused")
		},
	})
	r := gin.New()
	r.GET("/health", m.Handler())

	status := m.Check(context.Background())
	assert.Equal(t, "ok", status.Status)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	redisUp = false
	status = m.Check(context.Background())
	assert.Equal(t, "degraded", status.Status)
	assert.False(t, status.Services["redis"])
	assert.True(t, status.Services["mongo"])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
