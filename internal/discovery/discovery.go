// Package discovery finds FITS files below input paths.
package discovery

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/fitsdoc/internal/logfields"
)

// IgnoreFile marks a directory (and everything below it) as excluded.
const IgnoreFile = ".fitsdocignore"

// DefaultExtensions are the FITS file extensions matched when none are configured.
// Each also matches with a trailing ".gz".
var DefaultExtensions = []string{".fits", ".fit", ".fts"}

// Options tune discovery.
type Options struct {
	Extensions    []string
	IncludeHidden bool
}

// FITSFile is a discovered input file.
type FITSFile struct {
	Path         string // path as found, rooted at the input path
	RelativePath string // path relative to the input directory ("" root for file inputs)
	Compressed   bool
}

// Dir returns the directory of the file relative to its input root.
func (f FITSFile) Dir() string {
	dir := filepath.Dir(f.RelativePath)
	if dir == "." {
		return ""
	}
	return dir
}

// Discover returns the FITS files below roots, sorted by path and without
// duplicates. A root naming a file is always included; directories are walked
// recursively and filtered by extension.
func Discover(roots []string, opts Options) ([]FITSFile, error) {
	exts := normalizeExtensions(opts.Extensions)
	seen := make(map[string]struct{})
	var files []FITSFile

	add := func(f FITSFile) {
		key := filepath.Clean(f.Path)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		files = append(files, f)
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrPathNotFound, root)
			}
			return nil, err
		}
		if !info.IsDir() {
			add(FITSFile{Path: root, RelativePath: filepath.Base(root), Compressed: isCompressed(root)})
			continue
		}

		found, err := walk(root, exts, opts.IncludeHidden)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrWalkFailed, root, err)
		}
		slog.Debug("Discovered FITS files", logfields.Path(root), logfields.Count(len(found)))
		for _, f := range found {
			add(f)
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	if len(files) == 0 {
		return nil, ErrNoFilesFound
	}
	return files, nil
}

func walk(root string, exts []string, includeHidden bool) ([]FITSFile, error) {
	var files []FITSFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		hidden := path != root && strings.HasPrefix(d.Name(), ".")
		if d.IsDir() {
			if hidden && !includeHidden {
				return filepath.SkipDir
			}
			if _, err := os.Stat(filepath.Join(path, IgnoreFile)); err == nil {
				slog.Info("Skipping directory with ignore marker", logfields.Path(path))
				return filepath.SkipDir
			}
			return nil
		}
		if (hidden && !includeHidden) || !d.Type().IsRegular() || !Matches(path, exts) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, FITSFile{Path: path, RelativePath: rel, Compressed: isCompressed(path)})
		return nil
	})
	return files, err
}

// Matches reports whether path has one of exts, optionally followed by ".gz".
// Comparison ignores case.
func Matches(path string, exts []string) bool {
	name := strings.ToLower(filepath.Base(path))
	name = strings.TrimSuffix(name, ".gz")
	for _, ext := range normalizeExtensions(exts) {
		if strings.HasSuffix(name, ext) && len(name) > len(ext) {
			return true
		}
	}
	return false
}

func normalizeExtensions(exts []string) []string {
	if len(exts) == 0 {
		return DefaultExtensions
	}
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

func isCompressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".gz")
}
