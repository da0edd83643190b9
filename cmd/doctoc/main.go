package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/doctoc/cmd/doctoc/commands"
	"git.home.luguber.info/inful/doctoc/internal/foundation/errors"
	"git.home.luguber.info/inful/doctoc/internal/logfields"
	"git.home.luguber.info/inful/doctoc/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli := &commands.CLI{}
	g := &commands.Global{Stdout: os.Stdout}

	parser := kong.Must(cli,
		kong.Name("doctoc"),
		kong.Description("Generate tables of contents, lists of figures and figure captions for markdown documents"),
		kong.UsageOnError(),
		commands.Vars(version.String()),
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.Bind(g),
	)

	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	slog.Debug("Running command", logfields.Command(kctx.Command()))

	if err := kctx.Run(g, cli); err != nil {
		stop()
		os.Exit(errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).Report(err))
	}
}
