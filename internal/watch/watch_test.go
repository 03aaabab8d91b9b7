package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, root string) <-chan []string {
	t.Helper()
	batches := make(chan []string, 8)
	w := New(root, func(_ context.Context, paths []string) {
		batches <- paths
	}, WithDelay(50*time.Millisecond), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	})

	select {
	case <-w.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("watcher not ready")
	}
	return batches
}

func nextBatch(t *testing.T, batches <-chan []string) []string {
	t.Helper()
	select {
	case b := <-batches:
		return b
	case <-time.After(5 * time.Second):
		t.Fatal("no batch delivered")
		return nil
	}
}

func TestWatcher_BatchesFITSChanges(t *testing.T) {
	root := t.TempDir()
	batches := startWatcher(t, root)

	a := filepath.Join(root, "a.fits")
	b := filepath.Join(root, "b.fits.gz")
	require.NoError(t, os.WriteFile(a, []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(b, []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".hidden.fits"), []byte("x"), 0o600))

	assert.Equal(t, []string{a, b}, nextBatch(t, batches))
}

func TestWatcher_NewSubdirectory(t *testing.T) {
	root := t.TempDir()
	batches := startWatcher(t, root)

	sub := filepath.Join(root, "night1")
	require.NoError(t, os.Mkdir(sub, 0o750))
	// give the watcher time to register the new directory
	time.Sleep(200 * time.Millisecond)

	frame := filepath.Join(sub, "frame.fits")
	require.NoError(t, os.WriteFile(frame, []byte("x"), 0o600))

	assert.Equal(t, []string{frame}, nextBatch(t, batches))
}

func TestWatcher_PopulatedDirectoryMovedIn(t *testing.T) {
	root := t.TempDir()
	staging := t.TempDir()
	batches := startWatcher(t, root)

	night := filepath.Join(staging, "night2")
	require.NoError(t, os.MkdirAll(filepath.Join(night, "raw"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(night, "frame.fits"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(night, "raw", "bias.fit"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(night, "log.txt"), []byte("x"), 0o600))

	moved := filepath.Join(root, "night2")
	require.NoError(t, os.Rename(night, moved))

	assert.Equal(t, []string{
		filepath.Join(moved, "frame.fits"),
		filepath.Join(moved, "raw", "bias.fit"),
	}, nextBatch(t, batches))
}

func TestWatcher_Ignored(t *testing.T) {
	w := New(t.TempDir(), nil)
	tests := []struct {
		path string
		want bool
	}{
		{"data/frame.fits", false},
		{"data/.frame.fits", true},
		{"data/frame.fits~", true},
		{"data/.#frame.fits", true},
		{"data/#frame.fits#", true},
		{"data/frame.swp", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, w.ignored(tt.path), tt.path)
	}
}
