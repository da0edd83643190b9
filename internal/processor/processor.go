// Package processor runs the TOC engine over discovered documents and
// writes the results back.
package processor

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/doctoc/internal/discovery"
	"git.home.luguber.info/inful/doctoc/internal/docmodel"
	"git.home.luguber.info/inful/doctoc/internal/events"
	"git.home.luguber.info/inful/doctoc/internal/logfields"
	"git.home.luguber.info/inful/doctoc/internal/metrics"
	"git.home.luguber.info/inful/doctoc/internal/state"
	"git.home.luguber.info/inful/doctoc/internal/toc"
)

// Mode selects what happens to a document whose generated content differs.
type Mode int

const (
	// ModeWrite rewrites the file.
	ModeWrite Mode = iota
	// ModeDryRun reports what would change without writing.
	ModeDryRun
	// ModeCheck reports stale documents without writing.
	ModeCheck
)

// String returns the mode name used in logs.
func (m Mode) String() string {
	switch m {
	case ModeDryRun:
		return "dry-run"
	case ModeCheck:
		return "check"
	default:
		return "write"
	}
}

// Options configures a Processor.
type Options struct {
	TOC         toc.Options
	Document    docmodel.Options
	Mode        Mode
	Incremental bool
	RunID       string
}

// Processor drives one run. It is safe to reuse across runs but not for
// concurrent runs.
type Processor struct {
	engine    *toc.Engine
	opts      Options
	signature string

	store     state.Store
	recorder  metrics.Recorder
	publisher events.Publisher
	logger    *slog.Logger
}

// Option customises a Processor.
type Option func(*Processor)

// WithStore enables fingerprint bookkeeping for incremental runs.
func WithStore(s state.Store) Option {
	return func(p *Processor) { p.store = s }
}

// WithRecorder reports per-document and per-run metrics to r.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Processor) { p.recorder = r }
}

// WithPublisher announces every rewritten document through pub.
func WithPublisher(pub events.Publisher) Option {
	return func(p *Processor) { p.publisher = pub }
}

// WithLogger replaces the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) { p.logger = l }
}

// New validates opts and builds the engine.
func New(opts Options, options ...Option) (*Processor, error) {
	engine, err := toc.NewEngine(opts.TOC)
	if err != nil {
		return nil, err
	}

	p := &Processor{
		engine:    engine,
		opts:      opts,
		signature: state.Signature(opts.TOC, opts.Document),
		recorder:  metrics.NoopRecorder{},
		publisher: events.NoopPublisher{},
		logger:    slog.Default(),
	}
	for _, o := range options {
		o(p)
	}
	if opts.RunID != "" {
		p.logger = p.logger.With(logfields.RunID(opts.RunID))
	}
	return p, nil
}

// Run processes files in order. Failures are recorded per document and do
// not stop the run; a cancelled context does.
func (p *Processor) Run(ctx context.Context, files []discovery.File) *Summary {
	start := time.Now()
	summary := &Summary{RunID: p.opts.RunID, Mode: p.opts.Mode}

	for _, f := range files {
		if ctx.Err() != nil {
			summary.Cancelled = true
			break
		}
		summary.add(p.ProcessFile(ctx, f))
	}

	summary.Duration = time.Since(start)
	p.recorder.ObserveRunDuration(summary.Duration)
	p.recorder.SetLastRunDocuments(len(summary.Documents))
	outcome := "success"
	if summary.Failed > 0 || summary.Cancelled {
		outcome = "failed"
	}
	p.recorder.IncRunOutcome(outcome)

	p.logger.Info("Run finished",
		slog.String("mode", p.opts.Mode.String()),
		logfields.Files(len(summary.Documents)),
		slog.Int("updated", summary.Updated),
		slog.Int("stale", summary.Stale),
		slog.Int("failed", summary.Failed),
		logfields.DurationMS(float64(summary.Duration.Microseconds())/1000))

	return summary
}

// ProcessFile handles a single document.
func (p *Processor) ProcessFile(ctx context.Context, f discovery.File) DocumentResult {
	start := time.Now()
	res := p.process(ctx, f)
	res.Duration = time.Since(start)

	p.recorder.ObserveDocumentDuration(res.Duration)
	p.recorder.IncDocumentOutcome(res.Outcome)

	attrs := []any{
		logfields.Path(f.Rel),
		logfields.Outcome(string(res.Outcome)),
		logfields.Regions(res.Regions),
		logfields.Headings(res.Headings),
		logfields.Figures(res.Figures),
		logfields.Changed(res.Outcome == metrics.OutcomeUpdated || res.Outcome == metrics.OutcomeStale),
	}
	switch res.Outcome {
	case metrics.OutcomeFailed:
		p.logger.Error("Document failed", append(attrs, logfields.Error(res.Err))...)
	case metrics.OutcomeUpdated:
		if p.opts.Mode == ModeDryRun {
			p.logger.Info("Document would be updated", attrs...)
		} else {
			p.logger.Info("Document updated", attrs...)
		}
	case metrics.OutcomeStale:
		p.logger.Warn("Document is stale", attrs...)
	default:
		p.logger.Debug("Document processed", attrs...)
	}
	return res
}

func (p *Processor) process(ctx context.Context, f discovery.File) DocumentResult {
	res := DocumentResult{File: f}

	doc, err := docmodel.ReadFile(f.Path, p.opts.Document)
	if err != nil {
		return res.fail(err)
	}

	key := stateKey(f.Path)

	if !doc.Enabled() {
		res.Outcome = metrics.OutcomeDisabled
		if p.store != nil && p.opts.Mode == ModeWrite {
			if err := p.store.Delete(ctx, key); err != nil {
				p.logger.Warn("State cleanup failed", logfields.Path(f.Rel), logfields.Error(err))
			}
		}
		return res
	}
	fingerprint := fingerprintOf(doc.Lines, doc.Frontmatter.End, string(doc.Frontmatter.Raw))

	if p.opts.Incremental && p.store != nil {
		entry, err := p.store.Get(ctx, key)
		if err != nil {
			p.logger.Warn("State lookup failed", logfields.Path(f.Rel), logfields.Error(err))
		} else if entry.Fresh(fingerprint, p.signature) {
			res.Outcome = metrics.OutcomeSkipped
			return res
		}
	}

	out, err := p.engine.Transform(toc.Input{
		Lines:   doc.Lines,
		Newline: doc.Newline(),
		Skip:    doc.Skip,
	})
	if err != nil {
		return res.fail(err)
	}

	res.Regions = len(out.Regions)
	res.Headings = len(out.Headings)
	res.Figures = len(out.Figures)

	switch {
	case !out.Found:
		res.Outcome = metrics.OutcomeNoMarkers
	case !out.Changed:
		res.Outcome = metrics.OutcomeUnchanged
	case p.opts.Mode == ModeCheck:
		res.Outcome = metrics.OutcomeStale
		return res
	case p.opts.Mode == ModeDryRun:
		res.Outcome = metrics.OutcomeUpdated
		res.Lines = out.Lines
		return res
	default:
		if err := docmodel.WriteFile(f.Path, out.Lines); err != nil {
			return res.fail(err)
		}
		res.Outcome = metrics.OutcomeUpdated
		res.Lines = out.Lines
		fingerprint = fingerprintOf(out.Lines, doc.Frontmatter.End, string(doc.Frontmatter.Raw))
		p.publish(ctx, f, res, fingerprint)
	}

	if p.store != nil && p.opts.Mode == ModeWrite {
		if err := p.store.Put(ctx, state.Entry{Path: key, Fingerprint: fingerprint, Signature: p.signature}); err != nil {
			p.logger.Warn("State update failed", logfields.Path(f.Rel), logfields.Error(err))
		}
	}
	return res
}

func (p *Processor) publish(ctx context.Context, f discovery.File, res DocumentResult, fingerprint string) {
	err := p.publisher.Publish(ctx, &events.RewriteEvent{
		RunID:        p.opts.RunID,
		Path:         f.Path,
		RelativePath: f.Rel,
		Regions:      res.Regions,
		Headings:     res.Headings,
		Figures:      res.Figures,
		Fingerprint:  fingerprint,
	})
	if err != nil {
		p.logger.Warn("Failed to publish rewrite event", logfields.Path(f.Rel), logfields.Error(err))
	}
}

// fingerprintOf hashes a document split at the frontmatter boundary.
func fingerprintOf(lines []string, fmEnd int, fmRaw string) string {
	return state.Fingerprint(fmRaw, strings.Join(lines[fmEnd:], ""))
}

func stateKey(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(abs)
}
