package metrics

import "time"

// OutcomeLabel enumerates per-document results for counters.
type OutcomeLabel string

const (
	OutcomeUpdated   OutcomeLabel = "updated"
	OutcomeUnchanged OutcomeLabel = "unchanged"
	OutcomeStale     OutcomeLabel = "stale"
	OutcomeSkipped   OutcomeLabel = "skipped"
	OutcomeDisabled  OutcomeLabel = "disabled"
	OutcomeNoMarkers OutcomeLabel = "no_markers"
	OutcomeFailed    OutcomeLabel = "failed"
)

// Recorder defines observability hooks for runs and documents.
type Recorder interface {
	ObserveDocumentDuration(d time.Duration)
	IncDocumentOutcome(outcome OutcomeLabel)
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(outcome string) // outcome: success|failed
	SetLastRunDocuments(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveDocumentDuration(time.Duration) {}
func (NoopRecorder) IncDocumentOutcome(OutcomeLabel)       {}
func (NoopRecorder) ObserveRunDuration(time.Duration)      {}
func (NoopRecorder) IncRunOutcome(string)                  {}
func (NoopRecorder) SetLastRunDocuments(int)               {}
