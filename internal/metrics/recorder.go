package metrics

import "time"

// ResultLabel enumerates per-file outcomes for counters.
type ResultLabel string

const (
	ResultSuccess   ResultLabel = "success"
	ResultWarning   ResultLabel = "warning"
	ResultFailed    ResultLabel = "failed"
	ResultUnchanged ResultLabel = "unchanged"
	ResultSkipped   ResultLabel = "skipped"
)

// Recorder defines observability hooks for documentation runs.
type Recorder interface {
	ObserveFileDuration(d time.Duration)
	IncFileResult(result ResultLabel)
	IncHDU(kind string)
	IncWarning(code string)
	ObserveRunDuration(d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveFileDuration(time.Duration) {}
func (NoopRecorder) IncFileResult(ResultLabel)         {}
func (NoopRecorder) IncHDU(string)                     {}
func (NoopRecorder) IncWarning(string)                 {}
func (NoopRecorder) ObserveRunDuration(time.Duration)  {}
