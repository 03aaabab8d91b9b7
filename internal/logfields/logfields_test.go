package logfields

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Key drift would break log queries, so every helper is pinned to its key.
func TestHelperKeys(t *testing.T) {
	cases := []struct {
		attr slog.Attr
		key  string
		want any
	}{
		{File("a.fits"), KeyFile, "a.fits"},
		{Path("/data/a.fits"), KeyPath, "/data/a.fits"},
		{HDU(2), KeyHDU, int64(2)},
		{Kind("IMAGE"), KeyKind, "IMAGE"},
		{RunID("r1"), KeyRunID, "r1"},
		{Format("rst"), KeyFormat, "rst"},
		{Warnings(1), KeyWarnings, int64(1)},
		{Count(3), KeyCount, int64(3)},
		{DurationMS(1.5), KeyDurationMS, 1.5},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			assert.Equal(t, tc.key, tc.attr.Key)
			assert.Equal(t, tc.want, tc.attr.Value.Any())
		})
	}
}

func TestError(t *testing.T) {
	assert.Equal(t, "boom", Error(errors.New("boom")).Value.String())
	assert.Empty(t, Error(nil).Value.String())
}

func TestSince(t *testing.T) {
	a := Since(time.Now().Add(-10 * time.Millisecond))
	assert.Equal(t, KeyDurationMS, a.Key)
	assert.GreaterOrEqual(t, a.Value.Float64(), 10.0)
}
