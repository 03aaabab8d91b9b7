// Package watch regenerates documentation when FITS files change on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/fitsdoc/internal/discovery"
	"git.home.luguber.info/inful/fitsdoc/internal/logfields"
)

// DefaultDelay is the quiet period after the last event before the handler runs.
const DefaultDelay = 300 * time.Millisecond

// Handler receives the FITS files changed during one quiet period, sorted.
type Handler func(ctx context.Context, paths []string)

// Watcher observes a directory tree and batches FITS file changes.
type Watcher struct {
	root          string
	extensions    []string
	includeHidden bool
	delay         time.Duration
	handler       Handler
	logger        *slog.Logger

	ready chan struct{}

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDiscovery applies the extension and hidden-file rules used by discovery.
func WithDiscovery(opts discovery.Options) Option {
	return func(w *Watcher) {
		w.extensions = opts.Extensions
		w.includeHidden = opts.IncludeHidden
	}
}

// WithDelay sets the debounce delay.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a watcher for root that calls handler with changed files.
func New(root string, handler Handler, opts ...Option) *Watcher {
	w := &Watcher{
		root:    root,
		delay:   DefaultDelay,
		handler: handler,
		logger:  slog.Default(),
		ready:   make(chan struct{}),
		pending: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Ready is closed once every directory below root is being watched.
func (w *Watcher) Ready() <-chan struct{} { return w.ready }

// Run watches until ctx is done. Handler calls never overlap; changes seen
// while the handler runs are delivered in the next batch.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fw.Close() }()

	if _, err := w.addDirsRecursive(fw, w.root); err != nil {
		return err
	}
	close(w.ready)
	w.logger.Info("Watching for FITS file changes", logfields.Path(w.root))

	flush := make(chan struct{}, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.worker(ctx, flush)
	}()
	defer wg.Wait()
	defer w.stopTimer()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopping watcher", logfields.Path(w.root))
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fw, ev, flush)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) worker(ctx context.Context, flush <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-flush:
			paths := w.drain()
			if len(paths) == 0 {
				continue
			}
			w.logger.Info("Change detected; regenerating", logfields.Count(len(paths)))
			w.handler(ctx, paths)
		}
	}
}

func (w *Watcher) handleEvent(fw *fsnotify.Watcher, ev fsnotify.Event, flush chan<- struct{}) {
	if w.ignored(ev.Name) {
		return
	}
	if ev.Op.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			// a directory moved or copied in may already hold FITS files
			existing, err := w.addDirsRecursive(fw, ev.Name)
			if err != nil {
				w.logger.Warn("Failed to watch new directory", logfields.Path(ev.Name), logfields.Error(err))
			}
			w.queue(existing, flush)
			return
		}
	}
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) {
		w.logger.Debug("Ignoring file event", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
		return
	}
	if !discovery.Matches(ev.Name, w.extensions) {
		return
	}

	w.logger.Debug("FITS file changed", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	w.queue([]string{ev.Name}, flush)
}

// queue adds paths to the pending batch and restarts the debounce timer.
func (w *Watcher) queue(paths []string, flush chan<- struct{}) {
	if len(paths) == 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range paths {
		w.pending[p] = struct{}{}
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, func() {
		select {
		case flush <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]struct{})
	sort.Strings(paths)
	return paths
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

// addDirsRecursive watches root and every directory below it and returns the
// FITS files it passed on the way.
func (w *Watcher) addDirsRecursive(fw *fsnotify.Watcher, root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			if !w.ignored(path) && discovery.Matches(path, w.extensions) {
				files = append(files, path)
			}
			return nil
		}
		if path != root && w.ignored(path) {
			return filepath.SkipDir
		}
		if _, err := os.Stat(filepath.Join(path, discovery.IgnoreFile)); err == nil {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			w.logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
	return files, err
}

// ignored filters hidden entries and editor scratch files.
func (w *Watcher) ignored(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") && !w.includeHidden {
		return true
	}
	return strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasPrefix(base, ".#") ||
		(strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"))
}
