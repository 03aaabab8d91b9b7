package commands

import (
	"fmt"

	"git.home.luguber.info/inful/fitsdoc/internal/foundation/errors"
)

// StubCmd implements the 'stub' command.
type StubCmd struct {
	GenerateFlags `embed:""`

	Paths []string `arg:"" name:"path" help:"FITS files or directories to document" type:"path"`
}

func (s *StubCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if err := s.apply(cfg); err != nil {
		return err
	}

	gen, err := s.newGenerator(g, cfg)
	if err != nil {
		return err
	}
	defer gen.Close()

	ctx, cancel := signalContext()
	defer cancel()

	summary, err := gen.Run(ctx, s.Paths)
	gen.exportMetrics()
	if err != nil {
		return err
	}

	if summary.HasFailures() {
		b := errors.FITSError(fmt.Sprintf("%d of %d files could not be documented", summary.Failed, len(summary.Results))).
			WithContext("run_id", summary.RunID)
		for i, f := range summary.Failures() {
			b = b.WithContext(fmt.Sprintf("file_%d", i+1), f.Path)
		}
		return b.Build()
	}
	return nil
}
