package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveFileDuration(15 * time.Millisecond)
	pr.IncFileResult(ResultSuccess)
	pr.IncFileResult(ResultWarning)
	pr.IncFileResult(ResultWarning)
	pr.IncHDU("PRIMARY")
	pr.IncHDU("IMAGE")
	pr.IncHDU("IMAGE")
	pr.IncWarning("unrecognized_extension_type")
	pr.ObserveRunDuration(time.Second)

	assert.InDelta(t, 1, testutil.ToFloat64(pr.fileResults.WithLabelValues("success")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(pr.fileResults.WithLabelValues("warning")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(pr.hdus.WithLabelValues("IMAGE")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.warnings.WithLabelValues("unrecognized_extension_type")), 0)
	assert.Positive(t, testutil.ToFloat64(pr.lastRun))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, mfs, 6)
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.IncFileResult(ResultFailed)
		pr.ObserveRunDuration(time.Second)
	})
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncFileResult(ResultFailed)

	path := filepath.Join(t.TempDir(), "collector", "fitsdoc.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `fitsdoc_files_total{result="failed"} 1`)
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncHDU("TABLE")

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `fitsdoc_hdus_total{kind="TABLE"} 1`))
}
