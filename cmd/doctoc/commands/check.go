package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/doctoc/internal/foundation/errors"
	"git.home.luguber.info/inful/doctoc/internal/processor"
)

// CheckCmd implements the 'check' command. It exits 1 when any document
// would be rewritten.
type CheckCmd struct {
	Path        string `arg:"" optional:"" default:"." help:"File or directory to check"`
	TrackedOnly bool   `help:"Only check files tracked by git"`
}

// Run executes the command.
func (c *CheckCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := root.LoadedConfig()
	if err != nil {
		return err
	}

	summary, err := runOnce(ctx, g, cfg, runRequest{
		Path:        c.Path,
		Mode:        processor.ModeCheck,
		TrackedOnly: c.TrackedOnly,
		RunID:       g.RunID,
	})
	if err != nil {
		return err
	}

	if err := summary.Err(); err != nil {
		return err
	}

	stale := summary.StalePaths()
	for _, p := range stale {
		_, _ = fmt.Fprintf(g.Stdout, "stale: %s\n", p)
	}
	if len(stale) > 0 {
		return errors.NewError(errors.CategoryStale, "documents are out of date; run doctoc generate").
			WithContext("count", len(stale)).
			Warning().
			Build()
	}

	_, _ = fmt.Fprintf(g.Stdout, "%d documents up to date\n", len(summary.Documents))
	return nil
}
