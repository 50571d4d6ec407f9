package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"valeai/config"
	"valeai/controllers"
	dbpkg "valeai/db"
	"valeai/metrics"
	"valeai/tools"
)

func TestInitialize(t *testing.T) {
	gin.SetMode(gin.TestMode)
	database, err := dbpkg.OpenMemory()
	require.NoError(t, err)
	defer database.Close()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	m.ChatResolvedInc("offline")

	r := gin.New()
	svc := &controllers.Services{DB: database, Prober: tools.StaticProber(true), Logger: zap.NewNop()}
	Initialize(r, config.Configuration{}, svc, registry, zap.NewNop())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/connectivity", nil))
	assert.JSONEq(t, `{"online": true}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `valeai_chat_resolved_total{mode="offline"} 1`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
