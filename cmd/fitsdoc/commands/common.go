// Package commands implements the fitsdoc subcommands.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/fitsdoc/internal/catalog"
	"git.home.luguber.info/inful/fitsdoc/internal/config"
	"git.home.luguber.info/inful/fitsdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/fitsdoc/internal/logfields"
)

// Global carries state shared by every subcommand.
type Global struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewGlobal returns a Global bound to the process streams.
func NewGlobal() *Global {
	return &Global{Stdout: os.Stdout, Stderr: os.Stderr}
}

// CLI is the root command.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: fitsdoc.yaml when present)" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Stub   StubCmd   `cmd:"" help:"Write documentation stubs for FITS files"`
	Watch  WatchCmd  `cmd:"" help:"Regenerate stubs whenever FITS files change"`
	Report ReportCmd `cmd:"" help:"List files whose documentation needs manual attention"`
	Tform  TformCmd  `cmd:"" help:"Translate binary table TFORM codes"`
	Init   InitCmd   `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing and installs a default logger. Commands
// that load the configuration replace it with the configured handler.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	slog.SetDefault(newLogger(os.Stderr, config.Default().Logging, c.Verbose))
	return nil
}

// loadConfig reads the configuration and switches logging to its settings.
func (c *CLI) loadConfig(g *Global) (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(newLogger(g.Stderr, cfg.Logging, c.Verbose))
	return cfg, nil
}

func newLogger(w io.Writer, lc config.LoggingConfig, verbose bool) *slog.Logger {
	level := lc.Level.Slog()
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if lc.Format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func openCatalog(path string) (*catalog.Store, error) {
	store, err := catalog.Open(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryCatalog, "failed to open catalog").
			WithContext("path", path).
			Build()
	}
	return store, nil
}

func closeCatalog(store *catalog.Store) {
	if err := store.Close(); err != nil {
		slog.Warn("Failed to close catalog", logfields.Error(err))
	}
}
