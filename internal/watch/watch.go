// Package watch regenerates documents when files under a root change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/doctoc/internal/discovery"
	"git.home.luguber.info/inful/doctoc/internal/foundation/errors"
	"git.home.luguber.info/inful/doctoc/internal/logfields"
)

// DefaultDebounce collapses bursts of events (editor saves, our own writes)
// into one run.
const DefaultDebounce = 300 * time.Millisecond

// RunFunc performs one run. reason is "initial", "change" or "resync".
type RunFunc func(ctx context.Context, reason string)

// Options configures a Watcher.
type Options struct {
	Root       string
	Extensions []string
	Debounce   time.Duration
	// ResyncInterval schedules full runs independent of events. Zero
	// disables them.
	ResyncInterval time.Duration
}

// Watcher serialises runs triggered by filesystem events and a resync timer.
type Watcher struct {
	opts Options
	run  RunFunc

	requests chan string
}

// New returns a Watcher that calls run for every queued request.
func New(opts Options, run RunFunc) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	return &Watcher{
		opts:     opts,
		run:      run,
		requests: make(chan string, 1),
	}
}

// Run performs an initial run and then blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	root, err := filepath.Abs(w.opts.Root)
	if err != nil {
		return errors.WrapError(err, errors.CategoryWatch, "failed to resolve watch root").
			WithContext("path", w.opts.Root).
			Build()
	}

	watcher, err := setupFileWatcher(root)
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.worker(ctx)
	}()
	defer wg.Wait()
	defer cancel()

	if w.opts.ResyncInterval > 0 {
		sched, err := NewScheduler()
		if err != nil {
			return errors.WrapError(err, errors.CategoryWatch, "failed to start scheduler").Build()
		}
		if _, err := sched.ScheduleEvery("resync", w.opts.ResyncInterval, func() { w.request("resync") }); err != nil {
			return errors.WrapError(err, errors.CategoryWatch, "failed to schedule resync").Build()
		}
		sched.Start()
		defer func() {
			if err := sched.Stop(); err != nil {
				slog.Warn("Scheduler shutdown error", logfields.Error(err))
			}
		}()
	}

	trigger, stop := w.debouncer()
	defer stop()

	w.request("initial")
	slog.Info("Watching for changes", logfields.Root(root))

	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping watcher")
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleFileEvent(watcher, ev, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", logfields.Error(err))
		}
	}
}

// Trigger queues a run from outside the watcher, e.g. an HTTP request. It
// never blocks.
func (w *Watcher) Trigger(reason string) {
	w.request(reason)
}

// request queues a run. A request made while one is already queued is
// merged into it.
func (w *Watcher) request(reason string) {
	select {
	case w.requests <- reason:
	default:
	}
}

// worker executes queued runs one at a time.
func (w *Watcher) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case reason := <-w.requests:
			w.run(ctx, reason)
		}
	}
}

// debouncer returns a trigger that requests a run once events stop arriving
// for the debounce window, and a stop func that cancels a pending timer.
func (w *Watcher) debouncer() (func(), func()) {
	var mu sync.Mutex
	var timer *time.Timer

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(w.opts.Debounce, func() { w.request("change") })
	}
	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return trigger, stop
}

// handleFileEvent starts watching new directories and triggers a run for
// relevant document changes.
func (w *Watcher) handleFileEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(watcher, ev.Name)
			trigger()
			return
		}
	}
	if !discovery.MatchesExtension(ev.Name, extensionsOrDefault(w.opts.Extensions)) {
		return
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

// setupFileWatcher creates and configures the filesystem watcher.
func setupFileWatcher(root string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryWatch, "fsnotify").Build()
	}
	if err := addDirsRecursive(watcher, root); err != nil {
		_ = watcher.Close()
		return nil, errors.WrapError(err, errors.CategoryWatch, "failed to watch directory").
			WithContext("path", root).
			Build()
	}
	return watcher, nil
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", root)
	}
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			slog.Warn("watch add failed", slog.String("dir", path), logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for filesystem events that should not trigger runs.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	// Hidden files include our own temp files from atomic writes.
	if strings.HasPrefix(base, ".") {
		return true
	}

	// Ignore editor temp/swap files
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}

	return base == "Thumbs.db"
}

func extensionsOrDefault(exts []string) []string {
	if len(exts) == 0 {
		return []string{".md"}
	}
	return exts
}
