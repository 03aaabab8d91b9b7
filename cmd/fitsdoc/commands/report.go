package commands

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"git.home.luguber.info/inful/fitsdoc/internal/catalog"
	"git.home.luguber.info/inful/fitsdoc/internal/foundation/errors"
)

// ReportCmd implements the 'report' command.
type ReportCmd struct {
	Catalog string `help:"SQLite catalog path" type:"path"`
	JSON    bool   `name:"json" help:"Print the report as JSON"`
}

type report struct {
	LatestRun *catalog.Run         `json:"latest_run,omitempty"`
	Files     []catalog.FileRecord `json:"files"`
}

func (r *ReportCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	path := cfg.Catalog.Path
	if r.Catalog != "" {
		path = r.Catalog
	}

	store, err := openCatalog(path)
	if err != nil {
		return err
	}
	defer closeCatalog(store)

	ctx, cancel := signalContext()
	defer cancel()

	var rep report
	run, err := store.LatestRun(ctx)
	switch {
	case err == nil:
		rep.LatestRun = &run
	case !stderrors.Is(err, catalog.ErrNoRuns):
		return errors.WrapError(err, errors.CategoryCatalog, "failed to read catalog").Build()
	}

	rep.Files, err = store.NeedsAttention(ctx)
	if err != nil {
		return errors.WrapError(err, errors.CategoryCatalog, "failed to read catalog").Build()
	}
	if rep.Files == nil {
		rep.Files = []catalog.FileRecord{}
	}

	if r.JSON {
		enc := json.NewEncoder(g.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	return writeTextReport(g.Stdout, rep)
}

func writeTextReport(out io.Writer, rep report) error {
	if rep.LatestRun == nil {
		_, err := fmt.Fprintln(out, "No runs recorded.")
		return err
	}
	run := rep.LatestRun
	fmt.Fprintf(out, "Latest run %s: %d files, %d failed, %d warnings\n", run.ID, run.Files, run.Failed, run.Warnings)
	if len(rep.Files) == 0 {
		_, err := fmt.Fprintln(out, "Nothing needs attention.")
		return err
	}

	fmt.Fprintln(out)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tSTATUS\tDETAIL")
	for _, f := range rep.Files {
		if f.Status == catalog.StatusFailed {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Path, f.Status, f.Error)
			continue
		}
		details := make([]string, 0, len(f.Warnings))
		for _, w := range f.Warnings {
			details = append(details, w.String())
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Path, f.Status, strings.Join(details, "; "))
	}
	return tw.Flush()
}
