package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	v1 "github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/api/v1"
	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/compat"
	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/config"
	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestServer(t *testing.T, mutate func(*config.AppConfig)) *Server {
	t.Helper()
	st, err := store.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	cfg := config.DefaultConfig()
	cfg.Server.Port = 0
	if mutate != nil {
		mutate(cfg)
	}
	logger := zaptest.NewLogger(t)
	api := v1.NewHandler(st, compat.NewResolver(st), v1.Options{Logger: logger})
	return NewServer(cfg, api, logger)
}

func serve(s *Server, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestServer_Routes(t *testing.T) {
	s := newTestServer(t, nil)

	w := serve(s, http.MethodGet, "/api/status")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(s, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(s, http.MethodOptions, "/api/assets")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(s, http.MethodGet, "/library")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"not found"`)
}

func TestServer_DevModeRedirect(t *testing.T) {
	s := newTestServer(t, func(cfg *config.AppConfig) {
		cfg.Server.DevMode = true
		cfg.Server.FrontendURL = "http://localhost:5173/"
	})

	w := serve(s, http.MethodGet, "/collections?view=grid")
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "http://localhost:5173/collections?view=grid", w.Header().Get("Location"))

	// 未知的 API 路径不跳转
	w = serve(s, http.MethodGet, "/api/unknown")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	s := newTestServer(t, nil)
	s.http.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
