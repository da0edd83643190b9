package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "doctoc"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	documentDuration prom.Histogram
	documentOutcomes *prom.CounterVec
	runDuration      prom.Histogram
	runOutcomes      *prom.CounterVec
	lastRunDocuments prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}

	pr := &PrometheusRecorder{
		documentDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "document_duration_seconds",
			Help:      "Time spent processing a single document",
			Buckets:   prom.DefBuckets,
		}),
		documentOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Processed documents by outcome",
		}, []string{"outcome"}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a full run over the document tree",
			Buckets:   prom.DefBuckets,
		}),
		runOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Runs by final status",
		}, []string{"outcome"}),
		lastRunDocuments: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_documents",
			Help:      "Documents selected by the most recent run",
		}),
	}

	reg.MustRegister(pr.documentDuration, pr.documentOutcomes, pr.runDuration, pr.runOutcomes, pr.lastRunDocuments)
	return pr
}

// ObserveDocumentDuration records the time spent on one document.
func (p *PrometheusRecorder) ObserveDocumentDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.documentDuration.Observe(d.Seconds())
}

// IncDocumentOutcome counts one document outcome.
func (p *PrometheusRecorder) IncDocumentOutcome(outcome OutcomeLabel) {
	if p == nil {
		return
	}
	p.documentOutcomes.WithLabelValues(string(outcome)).Inc()
}

// ObserveRunDuration records the duration of a full run.
func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

// IncRunOutcome counts one finished run.
func (p *PrometheusRecorder) IncRunOutcome(outcome string) {
	if p == nil {
		return
	}
	p.runOutcomes.WithLabelValues(outcome).Inc()
}

// SetLastRunDocuments sets the number of documents seen by the latest run.
func (p *PrometheusRecorder) SetLastRunDocuments(n int) {
	if p == nil {
		return
	}
	p.lastRunDocuments.Set(float64(n))
}
