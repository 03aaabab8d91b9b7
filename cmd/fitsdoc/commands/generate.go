package commands

import (
	"log/slog"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/fitsdoc/internal/catalog"
	"git.home.luguber.info/inful/fitsdoc/internal/config"
	"git.home.luguber.info/inful/fitsdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/fitsdoc/internal/logfields"
	"git.home.luguber.info/inful/fitsdoc/internal/metrics"
	"git.home.luguber.info/inful/fitsdoc/internal/notify"
	"git.home.luguber.info/inful/fitsdoc/internal/output"
	"git.home.luguber.info/inful/fitsdoc/internal/pipeline"
	"git.home.luguber.info/inful/fitsdoc/internal/stub"
)

// GenerateFlags override the output and catalog sections of the configuration.
type GenerateFlags struct {
	Output      string `short:"o" help:"Output directory (\"-\" for stdout)"`
	Format      string `short:"f" help:"Page format: rst, md or html"`
	Overwrite   bool   `help:"Replace existing pages whose content differs"`
	Catalog     string `help:"SQLite catalog path" type:"path"`
	NoCatalog   bool   `name:"no-catalog" help:"Do not record the run in the catalog"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics to this textfile after each run" type:"path"`
	NATSURL     string `name:"nats-url" help:"Publish an event per documented file to this NATS server"`
}

// apply merges the flags into cfg.
func (f *GenerateFlags) apply(cfg *config.Config) error {
	if f.Output != "" {
		cfg.Output.Directory = f.Output
	}
	if f.Format != "" {
		format, err := config.NormalizeOutputFormat(f.Format)
		if err != nil {
			return errors.ValidationError("invalid --format").WithCause(err).Build()
		}
		cfg.Output.Format = format
	}
	if f.Overwrite {
		cfg.Output.Overwrite = true
	}
	if f.Catalog != "" {
		cfg.Catalog.Path = f.Catalog
	}
	if f.MetricsFile != "" {
		cfg.Metrics.Textfile = f.MetricsFile
	}
	if f.NATSURL != "" {
		cfg.Notify.NATSURL = f.NATSURL
	}
	return nil
}

// generator bundles a pipeline with the resources it holds.
type generator struct {
	*pipeline.Generator
	catalog   *catalog.Store
	publisher notify.Publisher
	registry  *prom.Registry
	textfile  string
}

func (f *GenerateFlags) newGenerator(g *Global, cfg *config.Config) (*generator, error) {
	renderer, err := stub.RendererFor(string(cfg.Output.Format))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "unsupported output format").Build()
	}

	writer := output.NewWriter(cfg.Output.Directory, cfg.Output.Overwrite).WithStdout(g.Stdout)

	gen := &generator{registry: prom.NewRegistry(), textfile: cfg.Metrics.Textfile}
	opts := []pipeline.Option{
		pipeline.WithRenderer(renderer),
		pipeline.WithDiscovery(cfg.DiscoveryOptions()),
		pipeline.WithRecorder(metrics.NewPrometheusRecorder(gen.registry)),
		pipeline.WithLogger(slog.Default()),
	}
	if !f.NoCatalog {
		store, err := openCatalog(cfg.Catalog.Path)
		if err != nil {
			return nil, err
		}
		gen.catalog = store
		opts = append(opts, pipeline.WithCatalog(store))
	}
	if cfg.Notify.NATSURL != "" {
		pub, err := notify.NewNATSPublisher(cfg.Notify.NATSURL, cfg.Notify.Subject)
		if err != nil {
			gen.Close()
			return nil, errors.WrapError(err, errors.CategoryRuntime, "failed to set up notifications").
				WithContext("url", cfg.Notify.NATSURL).
				Build()
		}
		gen.publisher = pub
		opts = append(opts, pipeline.WithPublisher(pub))
	}
	gen.Generator = pipeline.New(writer, opts...)
	return gen, nil
}

// exportMetrics writes the textfile when one is configured.
func (gen *generator) exportMetrics() {
	if gen.textfile == "" {
		return
	}
	if err := metrics.WriteTextfile(gen.textfile, gen.registry); err != nil {
		slog.Warn("Failed to write metrics textfile", logfields.Path(gen.textfile), logfields.Error(err))
	}
}

func (gen *generator) Close() {
	if gen.publisher != nil {
		if err := gen.publisher.Close(); err != nil {
			slog.Warn("Failed to close notification publisher", logfields.Error(err))
		}
	}
	if gen.catalog != nil {
		closeCatalog(gen.catalog)
	}
}
