// Package fitsfile reads the headers of FITS files from disk.
//
// Decoding is delegated to github.com/astrogo/fitsio. Every HDU header is
// copied into a fitsmeta.MapHeader so callers never hold fitsio values or
// open file handles. Gzip-compressed files are detected by their magic bytes.
package fitsfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/astrogo/fitsio"
	"github.com/klauspost/compress/gzip"

	"git.home.luguber.info/inful/fitsdoc/internal/fitsmeta"
)

var (
	// ErrNotFITS indicates the input does not start with a FITS primary header.
	ErrNotFITS = errors.New("not a FITS file")

	// ErrDecode indicates fitsio failed to decode the HDU sequence.
	ErrDecode = errors.New("FITS decode failed")

	// ErrNoHDUs indicates a file that decoded to an empty HDU sequence.
	ErrNoHDUs = errors.New("FITS file has no HDUs")
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	fitsMagic = []byte("SIMPLE  =")
)

// File holds the headers of one FITS file.
type File struct {
	Path       string
	Size       int64 // bytes on disk
	Compressed bool
	Headers    []fitsmeta.Header
}

// Open reads every HDU header of the file at path. The file is closed before
// Open returns, also when decoding fails partway through.
func Open(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()

	info, err := fh.Stat()
	if err != nil {
		return nil, err
	}

	r, compressed, err := decompress(bufio.NewReader(fh))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if c, ok := r.(io.Closer); ok {
		defer func() { _ = c.Close() }()
	}

	headers, err := ReadHeaders(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &File{
		Path:       path,
		Size:       info.Size(),
		Compressed: compressed,
		Headers:    headers,
	}, nil
}

// decompress wraps br in a gzip reader when the stream is gzip compressed.
func decompress(br *bufio.Reader) (io.Reader, bool, error) {
	magic, err := br.Peek(len(gzipMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, false, err
	}
	if !bytes.Equal(magic, gzipMagic) {
		return br, false, nil
	}
	zr, err := gzip.NewReader(br)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %w", ErrNotFITS, err)
	}
	return zr, true, nil
}

// ReadHeaders decodes the HDU sequence of an uncompressed FITS stream.
func ReadHeaders(r io.Reader) ([]fitsmeta.Header, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(len(fitsMagic))
	if err != nil || !bytes.Equal(magic, fitsMagic) {
		return nil, ErrNotFITS
	}

	f, err := fitsio.Open(br)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer func() { _ = f.Close() }()

	hdus := f.HDUs()
	if len(hdus) == 0 {
		return nil, ErrNoHDUs
	}

	headers := make([]fitsmeta.Header, 0, len(hdus))
	for i, hdu := range hdus {
		headers = append(headers, convert(i, hdu))
	}
	return headers, nil
}

// convert copies a fitsio header. fitsio keeps the structural keywords in
// typed fields, so they are written first in FITS order and the remaining
// cards are overlaid afterwards.
func convert(index int, hdu fitsio.HDU) fitsmeta.Header {
	hdr := hdu.Header()
	h := fitsmeta.NewMapHeader()

	if index == 0 {
		h.Set("SIMPLE", true)
	} else {
		h.Set("XTENSION", extensionName(hdr.Type()))
	}
	h.Set("BITPIX", hdr.Bitpix())
	axes := hdr.Axes()
	h.Set("NAXIS", len(axes))
	for i, n := range axes {
		h.Set(fmt.Sprintf("NAXIS%d", i+1), n)
	}

	for _, key := range hdr.Keys() {
		card := hdr.Get(key)
		if card == nil || key == "END" {
			continue
		}
		h.SetWithComment(key, cardValue(card.Value), cardComment(card))
	}

	if index > 0 && !fitsmeta.Has(h, "EXTNAME") {
		if name := strings.TrimSpace(hdu.Name()); name != "" {
			h.Set("EXTNAME", name)
		}
	}
	return h
}

func extensionName(t fitsio.HDUType) string {
	switch t {
	case fitsio.IMAGE_HDU:
		return "IMAGE"
	case fitsio.ASCII_TBL:
		return "TABLE"
	case fitsio.BINARY_TBL:
		return "BINTABLE"
	default:
		return fmt.Sprintf("%v", t)
	}
}

func cardValue(v any) any {
	if s, ok := v.(string); ok {
		return strings.TrimRight(s, " ")
	}
	return v
}

// cardComment returns the card comment; a leading "[unit]" is part of it.
func cardComment(c *fitsio.Card) string {
	return strings.TrimSpace(c.Comment)
}
