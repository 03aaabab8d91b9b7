// Package metrics records what a documentation run did.
//
// Components receive a Recorder. NoopRecorder is the default and does
// nothing; PrometheusRecorder registers fitsdoc_* collectors on a registry
// that can be written to a node_exporter textfile after a batch run or served
// over HTTP while watching a directory.
//
//	reg := prom.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	gen := pipeline.New(cfg, pipeline.WithRecorder(rec))
//	...
//	err := metrics.WriteTextfile(path, reg)
package metrics
