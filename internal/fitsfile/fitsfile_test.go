package fitsfile

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/astrogo/fitsio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/fitsdoc/internal/fitsmeta"
	"git.home.luguber.info/inful/fitsdoc/internal/testutil/fitstest"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	return fitstest.WriteFile(t, t.TempDir(), name, data)
}

func TestOpen(t *testing.T) {
	data := fitstest.Sample().Bytes()
	require.Len(t, data, 3*fitstest.BlockSize)
	path := writeFile(t, "sample.fits", data)

	f, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, path, f.Path)
	assert.Equal(t, int64(3*fitstest.BlockSize), f.Size)
	assert.False(t, f.Compressed)
	require.Len(t, f.Headers, 2)

	primary := f.Headers[0]
	assert.Equal(t, fitsmeta.KindPrimary, fitsmeta.Classify(primary))
	telescop, ok := fitsmeta.GetString(primary, "TELESCOP")
	require.True(t, ok)
	assert.Equal(t, "Mayall", telescop)
	assert.Equal(t, "telescope name", primary.Comment("TELESCOP"))
	format, err := fitsmeta.ImageFormat(primary)
	require.NoError(t, err)
	assert.Equal(t, fitsmeta.EmptyHDU, format)

	image := f.Headers[1]
	assert.Equal(t, fitsmeta.KindImage, fitsmeta.Classify(image))
	format, err = fitsmeta.ImageFormat(image)
	require.NoError(t, err)
	assert.Equal(t, "Data: FITS image [int16, 3x2]", format)
	name, _ := fitsmeta.GetString(image, "EXTNAME")
	assert.Equal(t, "FLUX", name)
}

func TestOpen_Gzip(t *testing.T) {
	zipped, err := fitstest.Sample().Gzip()
	require.NoError(t, err)

	path := writeFile(t, "sample.fits.gz", zipped)
	f, err := Open(path)
	require.NoError(t, err)
	assert.True(t, f.Compressed)
	assert.Equal(t, int64(len(zipped)), f.Size)
	require.Len(t, f.Headers, 2)
	assert.Equal(t, fitsmeta.KindImage, fitsmeta.Classify(f.Headers[1]))
}

func TestOpen_NotFITS(t *testing.T) {
	tests := map[string][]byte{
		"text":  []byte(strings.Repeat("not a fits file\n", 10)),
		"empty": {},
		"short": []byte("SIM"),
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Open(writeFile(t, "bad.fits", data))
			require.ErrorIs(t, err, ErrNotFITS)
		})
	}
}

func TestOpen_CorruptGzip(t *testing.T) {
	_, err := Open(writeFile(t, "bad.fits.gz", []byte{0x1f, 0x8b, 0x00}))
	require.Error(t, err)
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.fits"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadHeaders(t *testing.T) {
	headers, err := ReadHeaders(bytes.NewReader(fitstest.Sample().Bytes()))
	require.NoError(t, err)
	require.Len(t, headers, 2)

	keys := headers[1].Keys()
	require.NotEmpty(t, keys)
	assert.Equal(t, "XTENSION", keys[0])
	assert.Equal(t, "BITPIX", keys[1])
}

func TestCardComment(t *testing.T) {
	tests := []struct {
		comment string
		want    string
	}{
		{"plain", "plain"},
		{"[s] exposure time", "[s] exposure time"},
		{"  padded  ", "padded"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cardComment(&fitsio.Card{Name: "EXPTIME", Comment: tt.comment}))
	}
}
