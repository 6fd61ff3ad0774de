package logging

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/config"
)

func TestNew_Level(t *testing.T) {
	logger, err := New(config.LogConfig{Level: " WARN "})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	logger, err = New(config.LogConfig{Development: true})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "verbose"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid log level "verbose"`)
}

func TestGinMiddleware_LevelByStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)

	r := gin.New()
	r.Use(GinMiddleware(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("disk full"))
		c.Status(http.StatusInternalServerError)
	})

	cases := []struct {
		path  string
		level zapcore.Level
	}{
		{"/ok?view=grid", zapcore.DebugLevel},
		{"/missing", zapcore.WarnLevel},
		{"/boom", zapcore.ErrorLevel},
	}
	for _, tc := range cases {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tc.path, nil))
	}

	entries := logs.AllUntimed()
	require.Len(t, entries, len(cases))
	for i, tc := range cases {
		assert.Equal(t, tc.level, entries[i].Level, tc.path)
		assert.Equal(t, "request", entries[i].Message)
	}

	first := entries[0].ContextMap()
	assert.Equal(t, "/ok", first["path"])
	assert.Equal(t, "view=grid", first["query"])
	assert.Equal(t, int64(http.StatusOK), first["status"])
	assert.NotContains(t, first, "errors")

	assert.Contains(t, entries[2].ContextMap()["errors"], "disk full")
}
