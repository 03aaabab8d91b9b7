package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "fitsdoc"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	fileDuration prom.Histogram
	fileResults  *prom.CounterVec
	hdus         *prom.CounterVec
	warnings     *prom.CounterVec
	runDuration  prom.Histogram
	lastRun      prom.Gauge
}

// NewPrometheusRecorder constructs the collectors and registers them on reg
// (a fresh registry when nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		fileDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "file_duration_seconds",
			Help:      "Time to read, analyze and render one FITS file",
			Buckets:   prom.ExponentialBuckets(0.001, 4, 8),
		}),
		fileResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "files_total",
			Help:      "Files processed by outcome",
		}, []string{"result"}),
		hdus: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "hdus_total",
			Help:      "HDUs documented by kind",
		}, []string{"kind"}),
		warnings: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "warnings_total",
			Help:      "Non-fatal findings that need manual attention",
		}, []string{"code"}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete documentation run",
			Buckets:   prom.DefBuckets,
		}),
		lastRun: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time at which the last run finished",
		}),
	}
	reg.MustRegister(pr.fileDuration, pr.fileResults, pr.hdus, pr.warnings, pr.runDuration, pr.lastRun)
	return pr
}

func (p *PrometheusRecorder) ObserveFileDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.fileDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncFileResult(result ResultLabel) {
	if p == nil {
		return
	}
	p.fileResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncHDU(kind string) {
	if p == nil {
		return
	}
	p.hdus.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) IncWarning(code string) {
	if p == nil {
		return
	}
	p.warnings.WithLabelValues(code).Inc()
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
	p.lastRun.SetToCurrentTime()
}
