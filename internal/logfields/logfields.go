package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyCommand    = "command"
	KeyPath       = "path"
	KeyRoot       = "root"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyRegions    = "regions"
	KeyHeadings   = "headings"
	KeyFigures    = "figures"
	KeyChanged    = "changed"
	KeyOutcome    = "outcome"
	KeyFiles      = "files"
	KeyJobID      = "job_id"
	KeyJobName    = "job_name"
	KeySubject    = "subject"
	KeyAddr       = "addr"
	KeyRequestID  = "request_id"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Command(c string) slog.Attr      { return slog.String(KeyCommand, c) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Root(p string) slog.Attr         { return slog.String(KeyRoot, p) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Regions(n int) slog.Attr         { return slog.Int(KeyRegions, n) }
func Headings(n int) slog.Attr        { return slog.Int(KeyHeadings, n) }
func Figures(n int) slog.Attr         { return slog.Int(KeyFigures, n) }
func Changed(c bool) slog.Attr        { return slog.Bool(KeyChanged, c) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func Files(n int) slog.Attr           { return slog.Int(KeyFiles, n) }
func JobID(id string) slog.Attr       { return slog.String(KeyJobID, id) }
func JobName(n string) slog.Attr      { return slog.String(KeyJobName, n) }
func Subject(s string) slog.Attr      { return slog.String(KeySubject, s) }
func Addr(a string) slog.Attr         { return slog.String(KeyAddr, a) }
func RequestID(id string) slog.Attr   { return slog.String(KeyRequestID, id) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
