// Package output places rendered documentation pages on disk.
package output

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Stdout is the directory value that sends pages to the writer's stdout.
const Stdout = "-"

const (
	dirPermissions  = 0o750
	filePermissions = 0o644
)

// ErrExists indicates the target exists with different content and
// overwriting is disabled.
var ErrExists = errors.New("output file exists")

// Outcome describes what Write did.
type Outcome string

const (
	Written   Outcome = "written"
	Unchanged Outcome = "unchanged"
	Skipped   Outcome = "skipped"
	Streamed  Outcome = "stdout"
)

// Writer writes pages below Dir.
type Writer struct {
	Dir       string
	Overwrite bool

	mu     sync.Mutex
	stdout io.Writer
}

// NewWriter creates a writer for dir ("-" for standard output).
func NewWriter(dir string, overwrite bool) *Writer {
	return &Writer{Dir: dir, Overwrite: overwrite, stdout: os.Stdout}
}

// WithStdout replaces the stream used when Dir is "-".
func (w *Writer) WithStdout(out io.Writer) *Writer {
	w.stdout = out
	return w
}

// Target returns the path of the page for a source in relDir named model.
func (w *Writer) Target(relDir, model, ext string) string {
	if w.Dir == Stdout {
		return Stdout
	}
	return filepath.Join(w.Dir, relDir, model+ext)
}

// Write stores content at path. Identical existing content is left alone;
// different existing content is replaced only when Overwrite is set, otherwise
// the page is skipped and ErrExists returned.
func (w *Writer) Write(path, content string) (Outcome, error) {
	if path == Stdout {
		w.mu.Lock()
		defer w.mu.Unlock()
		if _, err := io.WriteString(w.stdout, content); err != nil {
			return "", fmt.Errorf("write stdout: %w", err)
		}
		return Streamed, nil
	}

	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		if bytes.Equal(existing, []byte(content)) {
			return Unchanged, nil
		}
		if !w.Overwrite {
			return Skipped, fmt.Errorf("%w: %s", ErrExists, path)
		}
	case !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	if err := writeAtomic(path, []byte(content)); err != nil {
		return "", err
	}
	return Written, nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temporary file: %w", err)
	}
	if err := tmp.Chmod(filePermissions); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temporary file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
