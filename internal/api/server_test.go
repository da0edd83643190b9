package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/doctoc/internal/metrics"
)

func serve(t *testing.T, srv *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestServerCreation(t *testing.T) {
	srv := NewServer(":9090", prom.NewRegistry(), nil)
	require.NotNil(t, srv)
	assert.Equal(t, ":9090", srv.Addr)
	require.NotNil(t, srv.server)
}

func TestHealthEndpoint(t *testing.T) {
	srv := NewServer(":9090", prom.NewRegistry(), nil)
	w := serve(t, srv, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestStatusEndpoint(t *testing.T) {
	srv := NewServer(":9090", prom.NewRegistry(), nil)

	w := serve(t, srv, http.MethodGet, "/status")
	require.Equal(t, http.StatusOK, w.Code)
	var resp Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Success)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Nil(t, data["last_run"])

	srv.RecordRun(RunStatus{RunID: "r1", Reason: "change", FinishedAt: time.Now(), Documents: 3, Updated: 1})

	w = serve(t, srv, http.MethodGet, "/status")
	resp = Response{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	data, ok = resp.Data.(map[string]any)
	require.True(t, ok)
	last, ok := data["last_run"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "r1", last["run_id"])
	assert.InDelta(t, 3, last["documents"], 0)
}

func TestTriggerRunEndpoint(t *testing.T) {
	var got []string
	srv := NewServer(":9090", prom.NewRegistry(), func(reason string) { got = append(got, reason) })

	w := serve(t, srv, http.MethodPost, "/runs")
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, []string{"api"}, got)

	noTrigger := NewServer(":9090", prom.NewRegistry(), nil)
	w = serve(t, noTrigger, http.MethodPost, "/runs")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prom.NewRegistry()
	metrics.NewPrometheusRecorder(reg).IncDocumentOutcome(metrics.OutcomeUpdated)
	srv := NewServer(":9090", reg, nil)

	w := serve(t, srv, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "doctoc_documents_total")
}

func TestRequestLogger_IncludesRequestID(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	srv := NewServer(":9090", prom.NewRegistry(), nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, buf.String(), "request_id=abc-123")
	assert.Contains(t, buf.String(), "status=200")
}
