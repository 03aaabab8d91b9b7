package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	assert.NotPanics(t, func() {
		r.ObserveFileDuration(time.Millisecond)
		r.IncFileResult(ResultUnchanged)
		r.IncHDU("PRIMARY")
		r.IncWarning("unrecognized_extension_type")
		r.ObserveRunDuration(time.Second)
	})
}
