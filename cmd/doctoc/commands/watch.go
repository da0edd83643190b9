package commands

import (
	"context"
	stdErrors "errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/doctoc/internal/api"
	"git.home.luguber.info/inful/doctoc/internal/logfields"
	"git.home.luguber.info/inful/doctoc/internal/metrics"
	"git.home.luguber.info/inful/doctoc/internal/processor"
	"git.home.luguber.info/inful/doctoc/internal/state"
	"git.home.luguber.info/inful/doctoc/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Path           string        `arg:"" optional:"" default:"." help:"Directory to watch"`
	MetricsAddr    string        `help:"Serve /health, /status and /metrics on this address (e.g. :9090)"`
	ResyncInterval time.Duration `help:"Run a full pass at this interval in addition to file events (0 disables)" default:"0s"`
	Debounce       time.Duration `help:"Quiet period before a change triggers a run" default:"300ms"`
}

// Run executes the command.
func (w *WatchCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := root.LoadedConfig()
	if err != nil {
		return err
	}

	reg := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(reg)
	store := state.NewMemoryStore()
	defer func() { _ = store.Close() }()

	pub := openPublisher(ctx, g, cfg)
	defer func() { _ = pub.Close() }()

	var server *api.Server

	run := func(ctx context.Context, reason string) {
		runID := uuid.NewString()
		logger := g.Logger.With(logfields.RunID(runID))
		logger.Info("Starting run", logfields.Stage(reason))

		summary, err := runOnce(ctx, &Global{Logger: g.Logger, RunID: runID, Stdout: g.Stdout}, cfg, runRequest{
			Path:        w.Path,
			Mode:        processor.ModeWrite,
			Incremental: true,
			RunID:       runID,
			Options: []processor.Option{
				processor.WithStore(store),
				processor.WithRecorder(recorder),
				processor.WithPublisher(pub),
			},
		})

		status := api.RunStatus{RunID: runID, Reason: reason, FinishedAt: time.Now()}
		if err != nil {
			logger.Error("Run failed", logfields.Error(err))
			status.Error = err.Error()
		} else {
			status.DurationMS = summary.Duration.Milliseconds()
			status.Documents = len(summary.Documents)
			status.Updated = summary.Updated
			status.Failed = summary.Failed
			if serr := summary.Err(); serr != nil {
				status.Error = serr.Error()
			}
		}
		if server != nil {
			server.RecordRun(status)
		}
	}

	watcher := watch.New(watch.Options{
		Root:           w.Path,
		Extensions:     cfg.Extensions,
		Debounce:       w.Debounce,
		ResyncInterval: w.ResyncInterval,
	}, run)

	if w.MetricsAddr != "" {
		server = api.NewServer(w.MetricsAddr, reg, watcher.Trigger)
		go func() {
			g.Logger.Info("Status server listening", logfields.Addr(w.MetricsAddr))
			if err := server.Start(); err != nil && !stdErrors.Is(err, http.ErrServerClosed) {
				g.Logger.Error("Status server stopped", logfields.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				g.Logger.Warn("Status server shutdown error", logfields.Error(err))
			}
		}()
	}

	return watcher.Run(ctx)
}
