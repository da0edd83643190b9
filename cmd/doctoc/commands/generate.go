package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/doctoc/internal/metrics"
	"git.home.luguber.info/inful/doctoc/internal/processor"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Path        string `arg:"" optional:"" default:"." help:"File or directory to process"`
	DryRun      bool   `help:"Show which documents would change without writing them"`
	Incremental bool   `short:"i" help:"Skip documents unchanged since the last run"`
	TrackedOnly bool   `help:"Only process files tracked by git"`
}

// Run executes the command.
func (c *GenerateCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := root.LoadedConfig()
	if err != nil {
		return err
	}

	mode := processor.ModeWrite
	if c.DryRun {
		mode = processor.ModeDryRun
	}

	req := runRequest{
		Path:        c.Path,
		Mode:        mode,
		Incremental: c.Incremental,
		TrackedOnly: c.TrackedOnly,
		RunID:       g.RunID,
	}

	if c.Incremental {
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		req.Options = append(req.Options, processor.WithStore(store))
	}

	if mode == processor.ModeWrite {
		pub := openPublisher(ctx, g, cfg)
		defer func() { _ = pub.Close() }()
		req.Options = append(req.Options, processor.WithPublisher(pub))
	}

	summary, err := runOnce(ctx, g, cfg, req)
	if err != nil {
		return err
	}

	if c.DryRun {
		for _, d := range summary.Documents {
			if d.Outcome == metrics.OutcomeUpdated {
				_, _ = fmt.Fprintf(g.Stdout, "would update %s\n", d.File.Rel)
			}
		}
	}
	printSummary(g, summary)

	if summary.Cancelled {
		return ctx.Err()
	}
	return summary.Err()
}
