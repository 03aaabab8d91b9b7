package stub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/fitsdoc/internal/fitsfile"
	"git.home.luguber.info/inful/fitsdoc/internal/testutil/fitstest"
)

func TestOpen_FromFile(t *testing.T) {
	path := fitstest.WriteFile(t, t.TempDir(), "desi_frame.fits", fitstest.Sample().Bytes())

	s, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Source())
	assert.Equal(t, "desi_frame", s.ModelName())
	assert.Equal(t, 2, s.HDUCount())

	size, known := s.FileSize()
	require.True(t, known)
	assert.Equal(t, int64(3*fitstest.BlockSize), size)

	records, err := s.Records()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "HDU1", records[0].Name)
	assert.Equal(t, "FLUX", records[1].Name)
	assert.Equal(t, "Data: FITS image [int16, 3x2]", records[1].Format)
	assert.Empty(t, s.Warnings())

	out, err := s.Render()
	require.NoError(t, err)
	assert.Contains(t, out, ":File Type: FITS, 8.4 KB\n")
	assert.Contains(t, out, "``desi_frame.fits``")
}

func TestOpen_NotFITS(t *testing.T) {
	path := fitstest.WriteFile(t, t.TempDir(), "notes.fits", []byte("hello"))
	_, err := Open(path)
	require.ErrorIs(t, err, fitsfile.ErrNotFITS)
}
