package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveDocumentDuration(time.Millisecond)
	r.IncDocumentOutcome(OutcomeUpdated)
	r.ObserveRunDuration(time.Second)
	r.IncRunOutcome("success")
	r.SetLastRunDocuments(3)
}

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveDocumentDuration(15 * time.Millisecond)
	pr.IncDocumentOutcome(OutcomeUpdated)
	pr.IncDocumentOutcome(OutcomeUpdated)
	pr.IncDocumentOutcome(OutcomeUnchanged)
	pr.ObserveRunDuration(200 * time.Millisecond)
	pr.IncRunOutcome("success")
	pr.SetLastRunDocuments(3)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			key := mf.GetName() + labelSuffix(m)
			switch {
			case m.GetCounter() != nil:
				values[key] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[key] = m.GetGauge().GetValue()
			}
		}
	}

	assert.InDelta(t, 2, values["doctoc_documents_total{updated}"], 0)
	assert.InDelta(t, 1, values["doctoc_documents_total{unchanged}"], 0)
	assert.InDelta(t, 1, values["doctoc_runs_total{success}"], 0)
	assert.InDelta(t, 3, values["doctoc_last_run_documents"], 0)
}

func labelSuffix(m *dto.Metric) string {
	if len(m.GetLabel()) == 0 {
		return ""
	}
	return "{" + m.GetLabel()[0].GetValue() + "}"
}

func TestPrometheusRecorder_NilReceiver(t *testing.T) {
	var pr *PrometheusRecorder
	pr.IncDocumentOutcome(OutcomeFailed)
	pr.SetLastRunDocuments(1)
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncRunOutcome("success")

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "doctoc_runs_total"))
}
