package notify

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	ev := Event{
		RunID:     "run-1",
		Path:      "raw/frame.fits",
		Output:    "docs/frame.rst",
		Status:    "warning",
		HDUs:      3,
		Warnings:  1,
		Timestamp: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	data, err := Encode(ev)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "raw/frame.fits", got["path"])
	assert.Equal(t, "warning", got["status"])
	assert.InDelta(t, 3, got["hdus"], 0)
	assert.Equal(t, "2024-03-01T12:00:00Z", got["timestamp"])
	assert.NotContains(t, got, "error")
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	require.NoError(t, p.Publish(t.Context(), Event{Path: "a.fits"}))
	require.NoError(t, p.Close())
}

func TestNewNATSPublisher_Unreachable(t *testing.T) {
	_, err := NewNATSPublisher("nats://127.0.0.1:1", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to NATS")
}

var _ Publisher = (*NATSPublisher)(nil)
