// Package stub assembles per-HDU metadata into a documentation page for one
// FITS file.
//
// A Stub is built either from headers already in memory (New) or from a path
// (Open). Analysis is deferred until the first call that needs records and
// runs exactly once; the resulting records and warnings are reused by every
// later call, including rendering.
package stub

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"git.home.luguber.info/inful/fitsdoc/internal/fitsfile"
	"git.home.luguber.info/inful/fitsdoc/internal/fitsmeta"
)

// UnknownSource names stubs built from headers without a source option.
const UnknownSource = "Unknown"

var (
	// ErrNoSuchHDU indicates a section index outside the HDU sequence.
	ErrNoSuchHDU = errors.New("no such HDU")

	// ErrUnknownRenderer indicates an output format without a renderer.
	ErrUnknownRenderer = errors.New("unknown output format")
)

// Stub is the documentation aggregate of one FITS file.
type Stub struct {
	headers  []fitsmeta.Header
	source   string
	size     int64
	width    int
	renderer Renderer

	once    sync.Once
	records []fitsmeta.HDURecord
	err     error
	diag    fitsmeta.Diagnostics
}

// Option configures a Stub.
type Option func(*Stub)

// WithSource sets the file name or identifier the headers came from.
func WithSource(source string) Option {
	return func(s *Stub) { s.source = source }
}

// WithFileSize records the size of the source file in bytes.
func WithFileSize(n int64) Option {
	return func(s *Stub) { s.size = n }
}

// WithRenderer selects the output format (reStructuredText by default).
func WithRenderer(r Renderer) Option {
	return func(s *Stub) {
		if r != nil {
			s.renderer = r
		}
	}
}

// New creates a stub over an ordered sequence of HDU headers.
func New(headers []fitsmeta.Header, opts ...Option) *Stub {
	s := &Stub{
		headers:  headers,
		source:   UnknownSource,
		size:     -1,
		width:    fitsmeta.NumberWidth(len(headers)),
		renderer: RSTRenderer{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open reads the headers of the FITS file at path and creates a stub for it.
// The file is closed before Open returns.
func Open(path string, opts ...Option) (*Stub, error) {
	f, err := fitsfile.Open(path)
	if err != nil {
		return nil, err
	}
	base := []Option{WithSource(f.Path), WithFileSize(f.Size)}
	return New(f.Headers, append(base, opts...)...), nil
}

// Source returns the path or identifier of the documented file.
func (s *Stub) Source() string { return s.source }

// HDUCount returns the number of HDUs.
func (s *Stub) HDUCount() int { return len(s.headers) }

// NumberWidth returns the digit width of synthesized HDU numbers.
func (s *Stub) NumberWidth() int { return s.width }

// FileSize returns the source size in bytes and whether it is known.
func (s *Stub) FileSize() (int64, bool) { return s.size, s.size >= 0 }

// ModelName is the base name of the source up to its first dot, e.g.
// "fits_file" for "data/fits_file.fits.gz".
func (s *Stub) ModelName() string {
	base := filepath.Base(s.source)
	if i := strings.Index(base, "."); i > 0 {
		base = base[:i]
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return UnknownSource
	}
	return base
}

// Records analyzes every HDU on first use and returns the memoized result.
// A malformed header aborts analysis; the error is returned on every call.
func (s *Stub) Records() ([]fitsmeta.HDURecord, error) {
	s.once.Do(s.analyze)
	return s.records, s.err
}

// Warnings returns the non-fatal findings of the analysis, running it if needed.
func (s *Stub) Warnings() []fitsmeta.Warning {
	s.once.Do(s.analyze)
	return s.diag.Warnings()
}

func (s *Stub) analyze() {
	records := make([]fitsmeta.HDURecord, 0, len(s.headers))
	for i, h := range s.headers {
		rec, err := fitsmeta.Analyze(i, h, s.width, &s.diag)
		if err != nil {
			s.err = err
			return
		}
		records = append(records, rec)
	}
	s.records = records
}

// Document returns the render input for this stub.
func (s *Stub) Document() (Document, error) {
	records, err := s.Records()
	if err != nil {
		return Document{}, err
	}
	return Document{
		Model:   s.ModelName(),
		Source:  filepath.Base(s.source),
		Size:    s.size,
		Width:   s.width,
		Records: records,
	}, nil
}

// Render produces the documentation page with the configured renderer.
func (s *Stub) Render() (string, error) {
	doc, err := s.Document()
	if err != nil {
		return "", err
	}
	return s.renderer.Render(doc)
}

// Renderer returns the configured renderer.
func (s *Stub) Renderer() Renderer { return s.renderer }

// String renders the page, or returns an empty string when analysis failed.
func (s *Stub) String() string {
	out, err := s.Render()
	if err != nil {
		return ""
	}
	return out
}

// Section returns the reStructuredText lines documenting HDU i.
func (s *Stub) Section(i int) ([]string, error) {
	records, err := s.Records()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(records) {
		return nil, fmt.Errorf("%w: %d of %d", ErrNoSuchHDU, i, len(records))
	}
	return rstSection(records[i]), nil
}
