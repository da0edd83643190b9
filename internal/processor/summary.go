package processor

import (
	"time"

	"git.home.luguber.info/inful/doctoc/internal/discovery"
	"git.home.luguber.info/inful/doctoc/internal/foundation/errors"
	"git.home.luguber.info/inful/doctoc/internal/metrics"
)

// DocumentResult is the outcome for one document.
type DocumentResult struct {
	File     discovery.File
	Outcome  metrics.OutcomeLabel
	Regions  int
	Headings int
	Figures  int
	// Lines holds the new content for updated documents.
	Lines    []string
	Err      error
	Duration time.Duration
}

func (r DocumentResult) fail(err error) DocumentResult {
	r.Outcome = metrics.OutcomeFailed
	r.Err = err
	return r
}

// Summary aggregates a run.
type Summary struct {
	RunID     string
	Mode      Mode
	Documents []DocumentResult
	Updated   int
	Unchanged int
	Stale     int
	Skipped   int
	Disabled  int
	NoMarkers int
	Failed    int
	Cancelled bool
	Duration  time.Duration
}

func (s *Summary) add(r DocumentResult) {
	s.Documents = append(s.Documents, r)
	switch r.Outcome {
	case metrics.OutcomeUpdated:
		s.Updated++
	case metrics.OutcomeUnchanged:
		s.Unchanged++
	case metrics.OutcomeStale:
		s.Stale++
	case metrics.OutcomeSkipped:
		s.Skipped++
	case metrics.OutcomeDisabled:
		s.Disabled++
	case metrics.OutcomeNoMarkers:
		s.NoMarkers++
	case metrics.OutcomeFailed:
		s.Failed++
	}
}

// Err returns a filesystem-category error naming the first failure when any
// document failed.
func (s *Summary) Err() error {
	if s.Failed == 0 {
		return nil
	}
	for _, d := range s.Documents {
		if d.Err == nil {
			continue
		}
		if ce, ok := errors.AsClassified(d.Err); ok {
			return errors.WrapError(d.Err, ce.Category(), "documents failed").
				WithContext("failed", s.Failed).
				WithContext("path", d.File.Path).
				Build()
		}
		return errors.WrapError(d.Err, errors.CategoryFileSystem, "documents failed").
			WithContext("failed", s.Failed).
			WithContext("path", d.File.Path).
			Build()
	}
	return nil
}

// StalePaths lists documents a check run found out of date.
func (s *Summary) StalePaths() []string {
	var out []string
	for _, d := range s.Documents {
		if d.Outcome == metrics.OutcomeStale {
			out = append(out, d.File.Rel)
		}
	}
	return out
}
