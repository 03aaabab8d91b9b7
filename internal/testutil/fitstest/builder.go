// Package fitstest assembles small FITS files for tests.
//
// Cards are written in the fixed format: keyword in columns 1-8, "= " in
// columns 9-10 and numeric values right aligned to column 30.
package fitstest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
)

// BlockSize is the FITS logical record length.
const BlockSize = 2880

const testFilePermissions = 0o600

// Card is one keyword record.
type Card struct {
	Key     string
	Value   any // bool, int, float64 or string
	Comment string
}

func (c Card) String() string {
	var v string
	switch x := c.Value.(type) {
	case bool:
		v = fmt.Sprintf("%20s", map[bool]string{true: "T", false: "F"}[x])
	case int:
		v = fmt.Sprintf("%20d", x)
	case float64:
		v = fmt.Sprintf("%20G", x)
	case string:
		v = fmt.Sprintf("'%-8s'", x)
	default:
		panic(fmt.Sprintf("fitstest: unsupported value %T", c.Value))
	}
	card := fmt.Sprintf("%-8s= %s", c.Key, v)
	if c.Comment != "" {
		card = fmt.Sprintf("%-30s / %s", card, c.Comment)
	}
	return fmt.Sprintf("%-80.80s", card)
}

// Builder appends HDUs to an in-memory FITS file.
type Builder struct {
	buf bytes.Buffer
}

// New starts an empty file. The first HDU added must be Primary.
func New() *Builder { return &Builder{} }

// Primary adds an empty primary HDU followed by extra cards.
func (b *Builder) Primary(extra ...Card) *Builder {
	cards := []Card{
		{Key: "SIMPLE", Value: true},
		{Key: "BITPIX", Value: 8},
		{Key: "NAXIS", Value: 0},
		{Key: "EXTEND", Value: true},
	}
	b.header(append(cards, extra...))
	return b
}

// Image adds an IMAGE extension with zeroed data.
func (b *Builder) Image(bitpix int, axes []int, extra ...Card) *Builder {
	cards := []Card{
		{Key: "XTENSION", Value: "IMAGE", Comment: "image extension"},
		{Key: "BITPIX", Value: bitpix},
		{Key: "NAXIS", Value: len(axes)},
	}
	n := 1
	for i, a := range axes {
		cards = append(cards, Card{Key: fmt.Sprintf("NAXIS%d", i+1), Value: a})
		n *= a
	}
	if len(axes) == 0 {
		n = 0
	}
	cards = append(cards, Card{Key: "PCOUNT", Value: 0}, Card{Key: "GCOUNT", Value: 1})
	b.header(append(cards, extra...))

	bytesPerPixel := bitpix / 8
	if bytesPerPixel < 0 {
		bytesPerPixel = -bytesPerPixel
	}
	b.data(n * bytesPerPixel)
	return b
}

func (b *Builder) header(cards []Card) {
	for _, c := range cards {
		b.buf.WriteString(c.String())
	}
	b.buf.WriteString(fmt.Sprintf("%-80s", "END"))
	for b.buf.Len()%BlockSize != 0 {
		b.buf.WriteByte(' ')
	}
}

func (b *Builder) data(n int) {
	size := (n + BlockSize - 1) / BlockSize * BlockSize
	b.buf.Write(make([]byte, size))
}

// Bytes returns the assembled file.
func (b *Builder) Bytes() []byte {
	return bytes.Clone(b.buf.Bytes())
}

// Gzip returns the assembled file gzip compressed.
func (b *Builder) Gzip() ([]byte, error) {
	var out bytes.Buffer
	zw := gzip.NewWriter(&out)
	if _, err := zw.Write(b.buf.Bytes()); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// WriteFile writes data to dir/name, creating dir when needed, and returns the path.
func WriteFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, testFilePermissions); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// Sample is an empty primary HDU with a TELESCOP keyword followed by a 3x2
// int16 image named FLUX.
func Sample() *Builder {
	return New().
		Primary(Card{Key: "TELESCOP", Value: "Mayall", Comment: "telescope name"}).
		Image(16, []int{3, 2},
			Card{Key: "EXTNAME", Value: "FLUX"},
			Card{Key: "BUNIT", Value: "adu", Comment: "pixel units"},
		)
}
