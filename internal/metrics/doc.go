// Package metrics provides observability hooks for doctoc runs.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection needs no nil checks:
//
//	p := processor.New(engine, processor.WithRecorder(metrics.NoopRecorder{}))
//
// The watch command swaps in a PrometheusRecorder and serves its registry
// through the status server in internal/api.
package metrics
