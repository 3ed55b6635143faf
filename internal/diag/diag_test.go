package diag

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/clinicdesk/pkg/config"
	"github.com/clinicdesk/clinicdesk/pkg/logger"
	"github.com/clinicdesk/clinicdesk/pkg/metrics"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(ctx context.Context) error { return f.err }

func newTestRouter(t *testing.T, pinger *fakePinger) http.Handler {
	t.Helper()
	registry := prometheus.NewRegistry()
	metrics.NewStoreMetrics(registry)
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	logg := logger.New(logger.Options{ServiceName: "test"})
	return NewRouter(cfg, logg, pinger, registry)
}

func TestHealthzReportsOK(t *testing.T) {
	router := newTestRouter(t, &fakePinger{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "ok", envelope.Data["status"])
	assert.Equal(t, "dev", envelope.Data["env"])
}

func TestReadyzFollowsBridgePing(t *testing.T) {
	pinger := &fakePinger{}
	router := newTestRouter(t, pinger)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	pinger.err = errors.New("connection refused")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "dependency_failure", envelope.Error.Code)
}

func TestMetricsEndpointServesRegistry(t *testing.T) {
	router := newTestRouter(t, &fakePinger{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}
