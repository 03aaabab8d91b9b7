package fitstest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// FileAssertions checks the files below an output directory.
type FileAssertions struct {
	t       *testing.T
	baseDir string
}

// NewFileAssertions creates a file assertions helper rooted at baseDir.
func NewFileAssertions(t *testing.T, baseDir string) *FileAssertions {
	return &FileAssertions{t: t, baseDir: baseDir}
}

// AssertFileExists validates that a file exists
func (fa *FileAssertions) AssertFileExists(relativePath string) *FileAssertions {
	fa.t.Helper()
	if _, err := os.Stat(filepath.Join(fa.baseDir, relativePath)); err != nil {
		fa.t.Errorf("Expected file to exist: %s", relativePath)
	}
	return fa
}

// AssertFileNotExists validates that a file does not exist
func (fa *FileAssertions) AssertFileNotExists(relativePath string) *FileAssertions {
	fa.t.Helper()
	if _, err := os.Stat(filepath.Join(fa.baseDir, relativePath)); err == nil {
		fa.t.Errorf("Expected file to not exist: %s", relativePath)
	}
	return fa
}

// AssertFileContains validates that a file contains expected content
func (fa *FileAssertions) AssertFileContains(relativePath, expected string) *FileAssertions {
	fa.t.Helper()
	data, err := os.ReadFile(filepath.Join(fa.baseDir, relativePath))
	if err != nil {
		fa.t.Errorf("Failed to read %s: %v", relativePath, err)
		return fa
	}
	if !strings.Contains(string(data), expected) {
		fa.t.Errorf("Expected %s to contain %q", relativePath, expected)
	}
	return fa
}

// AssertFileCount validates the number of regular files below the base directory.
func (fa *FileAssertions) AssertFileCount(want int) *FileAssertions {
	fa.t.Helper()
	count := 0
	err := filepath.WalkDir(fa.baseDir, func(_ string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			count++
		}
		return nil
	})
	if err != nil {
		fa.t.Errorf("Failed to walk %s: %v", fa.baseDir, err)
		return fa
	}
	if count != want {
		fa.t.Errorf("Expected %d files in %s, found %d", want, fa.baseDir, count)
	}
	return fa
}
