package commands

import (
	"context"
	stderrors "errors"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"git.home.luguber.info/inful/fitsdoc/internal/api"
	"git.home.luguber.info/inful/fitsdoc/internal/discovery"
	"git.home.luguber.info/inful/fitsdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/fitsdoc/internal/logfields"
	"git.home.luguber.info/inful/fitsdoc/internal/metrics"
	"git.home.luguber.info/inful/fitsdoc/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	GenerateFlags `embed:""`

	MetricsAddr string `name:"metrics-addr" help:"Serve /metrics, /health and catalog views on this address, e.g. :9108"`
	Rescan      string `help:"Also regenerate everything at this interval, e.g. 1h"`
	Dir         string `arg:"" name:"dir" help:"Directory to watch" type:"existingdir"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if err := w.apply(cfg); err != nil {
		return err
	}
	if w.MetricsAddr != "" {
		cfg.Metrics.Listen = w.MetricsAddr
	}
	if w.Rescan != "" {
		cfg.Watch.Rescan = w.Rescan
	}
	delay, err := cfg.WatchDebounce()
	if err != nil {
		return errors.ConfigError("invalid watch.debounce").WithCause(err).Build()
	}
	rescan, err := cfg.WatchRescan()
	if err != nil {
		return errors.ConfigError("invalid watch.rescan").WithCause(err).Build()
	}

	gen, err := w.newGenerator(g, cfg)
	if err != nil {
		return err
	}
	defer gen.Close()

	ctx, cancel := signalContext()
	defer cancel()

	if cfg.Metrics.Listen != "" {
		stop, err := serveHTTP(cfg.Metrics.Listen, gen)
		if err != nil {
			return err
		}
		defer stop()
	}

	// runs from the watcher and the rescanner never overlap
	var mu sync.Mutex
	fullRun := func() error {
		mu.Lock()
		defer mu.Unlock()
		_, err := gen.Run(ctx, []string{w.Dir})
		gen.exportMetrics()
		if err != nil && !stderrors.Is(err, discovery.ErrNoFilesFound) {
			return err
		}
		return nil
	}
	if err := fullRun(); err != nil {
		return err
	}

	if rescan > 0 {
		r, err := watch.NewRescanner(rescan, func() {
			if err := fullRun(); err != nil {
				slog.Error("Rescan failed", logfields.Error(err))
			}
		})
		if err != nil {
			return errors.WrapError(err, errors.CategoryRuntime, "failed to schedule rescans").Build()
		}
		r.Start()
		defer func() {
			if err := r.Stop(); err != nil {
				slog.Warn("Failed to stop rescanner", logfields.Error(err))
			}
		}()
	}

	watcher := watch.New(w.Dir, func(ctx context.Context, paths []string) {
		mu.Lock()
		defer mu.Unlock()
		files := make([]discovery.FITSFile, 0, len(paths))
		for _, p := range paths {
			rel, err := filepath.Rel(w.Dir, p)
			if err != nil {
				rel = filepath.Base(p)
			}
			files = append(files, discovery.FITSFile{
				Path:         p,
				RelativePath: rel,
				Compressed:   strings.EqualFold(filepath.Ext(p), ".gz"),
			})
		}
		if _, err := gen.Files(ctx, files); err != nil && !stderrors.Is(err, context.Canceled) {
			slog.Error("Regeneration failed", logfields.Error(err))
		}
		gen.exportMetrics()
	}, watch.WithDiscovery(cfg.DiscoveryOptions()), watch.WithDelay(delay))

	if err := watcher.Run(ctx); err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "file watcher failed").
			WithContext("dir", w.Dir).
			Build()
	}
	return nil
}

// serveHTTP starts the health, metrics and catalog endpoints and returns
// their shutdown func.
func serveHTTP(addr string, gen *generator) (func(), error) {
	opts := []api.Option{api.WithMetrics(metrics.HTTPHandler(gen.registry))}
	if gen.catalog != nil {
		opts = append(opts, api.WithCatalog(gen.catalog))
	}
	srv := api.NewServer(addr, opts...)
	bound, err := srv.Start()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "failed to listen for HTTP").
			WithContext("addr", addr).
			Build()
	}
	slog.Info("Serving metrics and catalog", slog.String("addr", bound))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Warn("HTTP server shutdown error", logfields.Error(err))
		}
	}, nil
}
