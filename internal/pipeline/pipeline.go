// Package pipeline runs documentation generation over a set of input paths:
// discover, open, analyze, render, write and record.
//
// Files are processed one after another. A file that cannot be documented
// is logged, counted and recorded; the run carries on with the next file.
package pipeline

import (
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/fitsdoc/internal/catalog"
	"git.home.luguber.info/inful/fitsdoc/internal/discovery"
	"git.home.luguber.info/inful/fitsdoc/internal/fitsfile"
	"git.home.luguber.info/inful/fitsdoc/internal/fitsmeta"
	"git.home.luguber.info/inful/fitsdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/fitsdoc/internal/logfields"
	"git.home.luguber.info/inful/fitsdoc/internal/metrics"
	"git.home.luguber.info/inful/fitsdoc/internal/notify"
	"git.home.luguber.info/inful/fitsdoc/internal/output"
	"git.home.luguber.info/inful/fitsdoc/internal/retry"
	"git.home.luguber.info/inful/fitsdoc/internal/stub"
)

// Catalog receives run and file records.
type Catalog interface {
	BeginRun(ctx context.Context, runID string, started time.Time) error
	RecordFile(ctx context.Context, rec catalog.FileRecord) error
	FinishRun(ctx context.Context, run catalog.Run) error
}

// Generator turns FITS files into documentation pages.
type Generator struct {
	writer    *output.Writer
	renderer  stub.Renderer
	discovery discovery.Options
	catalog   Catalog
	recorder  metrics.Recorder
	publisher notify.Publisher
	retry     retry.Policy
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithRenderer selects the page format.
func WithRenderer(r stub.Renderer) Option {
	return func(g *Generator) {
		if r != nil {
			g.renderer = r
		}
	}
}

// WithDiscovery sets the options used to expand directory inputs.
func WithDiscovery(opts discovery.Options) Option {
	return func(g *Generator) { g.discovery = opts }
}

// WithCatalog records every run in c.
func WithCatalog(c Catalog) Option {
	return func(g *Generator) { g.catalog = c }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(g *Generator) {
		if r != nil {
			g.recorder = r
		}
	}
}

// WithPublisher announces every changed or failed file through p.
func WithPublisher(p notify.Publisher) Option {
	return func(g *Generator) {
		if p != nil {
			g.publisher = p
		}
	}
}

// WithWriteRetry sets how often a failed page write is retried.
func WithWriteRetry(p retry.Policy) Option {
	return func(g *Generator) { g.retry = p }
}

// WithLogger sets the logger; slog.Default() otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates a generator that writes pages through w.
func New(w *output.Writer, opts ...Option) *Generator {
	g := &Generator{
		writer:    w,
		renderer:  stub.RSTRenderer{},
		recorder:  metrics.NoopRecorder{},
		publisher: notify.NoopPublisher{},
		retry:     retry.DefaultPolicy(),
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run discovers FITS files below roots and documents each of them.
// The returned error covers the run as a whole; per-file failures are
// reported in the summary.
func (g *Generator) Run(ctx context.Context, roots []string) (*Summary, error) {
	files, err := discovery.Discover(roots, g.discovery)
	if err != nil {
		return nil, classifyDiscovery(err)
	}
	return g.Files(ctx, files)
}

// Files documents an explicit list of discovered files as one run.
func (g *Generator) Files(ctx context.Context, files []discovery.FITSFile) (*Summary, error) {
	runID := uuid.New().String()
	started := g.now()
	logger := g.logger.With(logfields.RunID(runID))

	if g.catalog != nil {
		if err := g.catalog.BeginRun(ctx, runID, started); err != nil {
			return nil, errors.WrapError(err, errors.CategoryCatalog, "failed to start catalog run").
				Retryable().
				WithContext("run_id", runID).
				Build()
		}
	}

	logger.Info("Starting documentation run",
		logfields.Count(len(files)),
		logfields.Format(g.renderer.Name()))

	summary := &Summary{RunID: runID, Started: started}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			summary.Duration = g.now().Sub(started)
			g.finishRun(ctx, logger, summary)
			logger.Warn("Documentation run cancelled",
				logfields.Count(len(summary.Results)),
				slog.Int("remaining", len(files)-len(summary.Results)))
			return summary, err
		}
		res := g.document(ctx, logger, runID, f)
		summary.add(res)
	}
	summary.Duration = g.now().Sub(started)
	g.recorder.ObserveRunDuration(summary.Duration)

	g.finishRun(ctx, logger, summary)

	logger.Info("Documentation run complete",
		logfields.Count(len(summary.Results)),
		slog.Int("documented", summary.Documented),
		slog.Int("unchanged", summary.Unchanged),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed),
		logfields.Warnings(summary.Warnings),
		logfields.DurationMS(float64(summary.Duration.Milliseconds())))
	return summary, nil
}

// finishRun stores the counts of summary, partial ones for a cancelled run.
func (g *Generator) finishRun(ctx context.Context, logger *slog.Logger, summary *Summary) {
	if g.catalog == nil {
		return
	}
	run := catalog.Run{
		ID:       summary.RunID,
		Finished: g.now(),
		Files:    len(summary.Results),
		Failed:   summary.Failed,
		Warnings: summary.Warnings,
	}
	if err := g.catalog.FinishRun(context.WithoutCancel(ctx), run); err != nil {
		logger.Warn("Failed to finish catalog run", logfields.Error(err))
	}
}

func (g *Generator) document(ctx context.Context, logger *slog.Logger, runID string, f discovery.FITSFile) FileResult {
	start := g.now()
	res := FileResult{Path: f.Path, Size: -1}
	logger = logger.With(logfields.File(f.Path))

	res.Status, res.Err = g.generate(ctx, logger, f, &res)
	res.Duration = g.now().Sub(start)

	g.recorder.ObserveFileDuration(res.Duration)
	g.recorder.IncFileResult(resultLabel(res.Status))
	for _, w := range res.Warnings {
		g.recorder.IncWarning(string(w.Code))
	}

	switch res.Status {
	case catalog.StatusFailed:
		logger.Error("Failed to document file", logfields.Error(res.Err))
	case catalog.StatusSkipped:
		logger.Warn("Output exists with different content; use --overwrite to replace it",
			logfields.Path(res.Output))
	default:
		logger.Debug("Documented file",
			logfields.Path(res.Output),
			slog.String("status", string(res.Status)),
			logfields.Warnings(len(res.Warnings)),
			logfields.DurationMS(float64(res.Duration.Milliseconds())))
	}

	if g.catalog != nil {
		rec := catalog.FileRecord{
			RunID:    runID,
			Path:     res.Path,
			Output:   res.Output,
			Status:   res.Status,
			HDUs:     res.HDUs,
			Size:     res.Size,
			Warnings: res.Warnings,
			Recorded: g.now(),
		}
		if res.Err != nil {
			rec.Error = res.Err.Error()
		}
		if err := g.catalog.RecordFile(ctx, rec); err != nil {
			logger.Warn("Failed to record file in catalog", logfields.Error(err))
		}
	}

	if res.Status != catalog.StatusUnchanged {
		if err := g.publisher.Publish(ctx, event(runID, res, g.now())); err != nil {
			logger.Warn("Failed to publish documentation event", logfields.Error(err))
		}
	}
	return res
}

func event(runID string, res FileResult, at time.Time) notify.Event {
	ev := notify.Event{
		RunID:     runID,
		Path:      res.Path,
		Output:    res.Output,
		Status:    string(res.Status),
		HDUs:      res.HDUs,
		Warnings:  len(res.Warnings),
		Timestamp: at,
	}
	if res.Err != nil {
		ev.Error = res.Err.Error()
	}
	return ev
}

// generate fills res and returns the final status and, for failures, a
// classified error.
func (g *Generator) generate(ctx context.Context, logger *slog.Logger, f discovery.FITSFile, res *FileResult) (catalog.Status, error) {
	s, err := stub.Open(f.Path, stub.WithRenderer(g.renderer))
	if err != nil {
		return catalog.StatusFailed, classifyOpen(err, f.Path)
	}
	res.HDUs = s.HDUCount()
	if size, ok := s.FileSize(); ok {
		res.Size = size
	}

	records, err := s.Records()
	if err != nil {
		return catalog.StatusFailed, errors.WrapError(err, errors.CategoryFITS, "failed to analyze headers").
			UserAction().
			WithContext("file", f.Path).
			Build()
	}
	for _, rec := range records {
		g.recorder.IncHDU(rec.Kind.String())
	}
	res.Warnings = s.Warnings()
	for _, w := range res.Warnings {
		logger.Warn("HDU needs manual documentation",
			logfields.HDU(w.HDU),
			slog.String("name", w.Name),
			slog.String("code", string(w.Code)))
	}

	page, err := s.Render()
	if err != nil {
		return catalog.StatusFailed, errors.WrapError(err, errors.CategoryRender, "failed to render page").
			WithContext("file", f.Path).
			WithContext("format", g.renderer.Name()).
			Build()
	}

	res.Output = g.writer.Target(f.Dir(), s.ModelName(), g.renderer.Extension())
	var outcome output.Outcome
	err = retry.Do(ctx, g.retry, retryableWrite, func() error {
		var werr error
		outcome, werr = g.writer.Write(res.Output, page)
		if werr != nil && retryableWrite(werr) {
			logger.Debug("Page write failed", logfields.Path(res.Output), logfields.Error(werr))
		}
		return werr
	})
	switch {
	case stderrors.Is(err, output.ErrExists):
		return catalog.StatusSkipped, nil
	case err != nil:
		return catalog.StatusFailed, errors.WrapError(err, errors.CategoryFileSystem, "failed to write page").
			Retryable().
			WithContext("file", f.Path).
			WithContext("output", res.Output).
			Build()
	}

	if len(res.Warnings) > 0 {
		return catalog.StatusWarning, nil
	}
	if outcome == output.Unchanged {
		return catalog.StatusUnchanged, nil
	}
	return catalog.StatusDocumented, nil
}

func retryableWrite(err error) bool {
	return !stderrors.Is(err, output.ErrExists)
}

func classifyOpen(err error, path string) error {
	switch {
	case stderrors.Is(err, os.ErrNotExist):
		return errors.WrapError(err, errors.CategoryNotFound, "FITS file not found").
			UserAction().
			WithContext("file", path).
			Build()
	case stderrors.Is(err, fitsfile.ErrNotFITS),
		stderrors.Is(err, fitsfile.ErrDecode),
		stderrors.Is(err, fitsfile.ErrNoHDUs),
		stderrors.Is(err, fitsmeta.ErrMalformedHeader):
		return errors.WrapError(err, errors.CategoryFITS, "failed to read FITS file").
			UserAction().
			WithContext("file", path).
			Build()
	default:
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to open FITS file").
			WithContext("file", path).
			Build()
	}
}

func classifyDiscovery(err error) error {
	switch {
	case stderrors.Is(err, discovery.ErrPathNotFound), stderrors.Is(err, discovery.ErrNoFilesFound):
		return errors.WrapError(err, errors.CategoryNotFound, "no FITS files to document").
			UserAction().
			Build()
	default:
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to discover FITS files").
			Build()
	}
}

func resultLabel(s catalog.Status) metrics.ResultLabel {
	switch s {
	case catalog.StatusFailed:
		return metrics.ResultFailed
	case catalog.StatusWarning:
		return metrics.ResultWarning
	case catalog.StatusUnchanged:
		return metrics.ResultUnchanged
	case catalog.StatusSkipped:
		return metrics.ResultSkipped
	default:
		return metrics.ResultSuccess
	}
}
