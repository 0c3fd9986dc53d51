package core

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/anoixa/media-studio/config"
	"github.com/anoixa/media-studio/internal/app"
)

// TestHealthCheck 未初始化的容器应返回 503
func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	container := app.NewContainer(config.Get())
	router := gin.New()
	router.GET("/health", healthHandler(container))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "not initialized")
	assert.Contains(t, w.Body.String(), "uptime")
}
