package logging_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/timetable/engine/internal/config"
	"github.com/timetable/engine/internal/logging"
)

func TestNewBuildsADevelopmentLoggerByDefault(t *testing.T) {
	cfg := &config.Config{Env: config.EnvDevelopment, Log: config.LogConfig{Level: "info", Format: "console"}}
	logger, err := logging.New(cfg)
	require.NoError(t, err)
	require.NotNil(t, logger)
}

func TestNewFallsBackToInfoOnAnUnparsableLevel(t *testing.T) {
	cfg := &config.Config{Env: config.EnvDevelopment, Log: config.LogConfig{Level: "not-a-level", Format: "json"}}
	logger, err := logging.New(cfg)
	require.NoError(t, err)
	require.NotNil(t, logger)
}

func TestGinMiddlewareLogsMethodPathAndStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	r := gin.New()
	r.Use(logging.GinMiddleware(logger))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "http_request", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/health", fields["path"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
}
