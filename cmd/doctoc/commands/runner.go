package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/doctoc/internal/config"
	"git.home.luguber.info/inful/doctoc/internal/discovery"
	"git.home.luguber.info/inful/doctoc/internal/docmodel"
	"git.home.luguber.info/inful/doctoc/internal/events"
	"git.home.luguber.info/inful/doctoc/internal/logfields"
	"git.home.luguber.info/inful/doctoc/internal/processor"
	"git.home.luguber.info/inful/doctoc/internal/state"
)

// runRequest describes one pass over a path.
type runRequest struct {
	Path        string
	Mode        processor.Mode
	Incremental bool
	TrackedOnly bool
	RunID       string
	Options     []processor.Option
}

func processorOptions(cfg *config.Config, req runRequest) processor.Options {
	return processor.Options{
		TOC:         cfg.TOCOptions(),
		Document:    docmodel.Options{SkipCodeBlocks: cfg.SkipCodeBlocks},
		Mode:        req.Mode,
		Incremental: req.Incremental,
		RunID:       req.RunID,
	}
}

// runOnce discovers documents under req.Path and processes them.
func runOnce(ctx context.Context, g *Global, cfg *config.Config, req runRequest) (*processor.Summary, error) {
	files, err := discovery.Discover(req.Path, discovery.Options{
		Extensions:  cfg.Extensions,
		TrackedOnly: req.TrackedOnly,
	})
	if err != nil {
		return nil, err
	}
	g.Logger.Debug("Discovered documents", logfields.Root(req.Path), logfields.Files(len(files)))

	p, err := processor.New(processorOptions(cfg, req), append([]processor.Option{processor.WithLogger(g.Logger)}, req.Options...)...)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx, files), nil
}

// openStore opens the fingerprint database configured for incremental runs.
func openStore(cfg *config.Config) (state.Store, error) {
	return state.NewSQLiteStore(cfg.State.Path)
}

// openPublisher connects to NATS when an URL is configured. Connection
// failures are logged and events are dropped so documents still get written.
func openPublisher(ctx context.Context, g *Global, cfg *config.Config) events.Publisher {
	if cfg.Events.NATSURL == "" {
		return events.NoopPublisher{}
	}
	pub, err := events.NewNATSPublisher(ctx, cfg.Events.NATSURL, cfg.Events.Subject)
	if err != nil {
		g.Logger.Warn("Event publishing disabled", logfields.Error(err))
		return events.NoopPublisher{}
	}
	return pub
}

func printSummary(g *Global, s *processor.Summary) {
	_, _ = fmt.Fprintf(g.Stdout, "%d documents: %d updated, %d unchanged, %d skipped, %d failed\n",
		len(s.Documents), s.Updated, s.Unchanged+s.NoMarkers+s.Disabled, s.Skipped, s.Failed)
}
