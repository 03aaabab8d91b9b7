package fitsmeta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func imageExtension() *MapHeader {
	return simHeader().
		Set("XTENSION", "IMAGE   ").
		Set("BITPIX", -32).
		Set("NAXIS", 2).
		Set("NAXIS1", 10).
		Set("NAXIS2", 10)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		hdr  *MapHeader
		want Kind
	}{
		{"primary", emptyPrimary(), KindPrimary},
		{"image", imageExtension(), KindImage},
		{"lowercase image", simHeader().Set("XTENSION", " image "), KindImage},
		{"ascii table", simHeader().Set("XTENSION", "TABLE   "), KindTable},
		{"binary table", simHeader().Set("XTENSION", "BINTABLE"), KindTable},
		{"foreign extension", simHeader().Set("XTENSION", "IUEIMAGE"), KindUnknown},
		{"no marker", simHeader().Set("BITPIX", 8), KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.hdr))
		})
	}
}

func TestNumberWidth(t *testing.T) {
	assert.Equal(t, 1, NumberWidth(0))
	assert.Equal(t, 1, NumberWidth(9))
	assert.Equal(t, 2, NumberWidth(11))
	assert.Equal(t, 3, NumberWidth(101))
	assert.Equal(t, "HDU01", HDUNumber(0, 2))
	assert.Equal(t, "HDU101", HDUNumber(100, 3))
	assert.Equal(t, "HDU1", HDUNumber(0, 1))
}

func TestAnalyze(t *testing.T) {
	t.Run("image extension with synthesized name", func(t *testing.T) {
		var sink Diagnostics
		rec, err := Analyze(1, imageExtension(), 2, &sink)
		require.NoError(t, err)
		assert.Equal(t, 1, rec.Index)
		assert.Equal(t, "HDU02", rec.Name)
		assert.Equal(t, KindImage, rec.Kind)
		assert.Equal(t, "Data: FITS image [float32, 10x10]", rec.Format)
		assert.Empty(t, rec.Keywords)
		assert.Zero(t, sink.Len())
	})

	t.Run("EXTNAME wins over the synthesized name", func(t *testing.T) {
		rec, err := Analyze(3, imageExtension().Set("EXTNAME", "FLUX    "), 1, nil)
		require.NoError(t, err)
		assert.Equal(t, "FLUX", rec.Name)
	})

	t.Run("table falls back and warns", func(t *testing.T) {
		var sink Diagnostics
		hdr := simHeader().Set("XTENSION", "TABLE   ").Set("BITPIX", 8).Set("NAXIS", 2).
			Set("NAXIS1", 10).Set("NAXIS2", 10).Set("EXTNAME", "HDU2").Set("ORIGIN", "test")
		rec, err := Analyze(2, hdr, 1, &sink)
		require.NoError(t, err)
		assert.Equal(t, KindTable, rec.Kind)
		assert.Equal(t, "Unknown extension type: TABLE.", rec.Format)
		require.Len(t, rec.Keywords, 1)
		assert.Equal(t, "ORIGIN", rec.Keywords[0].Keyword)

		warnings := sink.Warnings()
		require.Len(t, warnings, 1)
		assert.Equal(t, Warning{
			Code:    WarnUnrecognizedExtension,
			HDU:     2,
			Name:    "HDU2",
			Message: "Unknown extension type: TABLE.",
		}, warnings[0])
	})

	t.Run("malformed image is a hard failure", func(t *testing.T) {
		var sink Diagnostics
		_, err := Analyze(0, simHeader().Set("SIMPLE", true).Set("BITPIX", 8), 1, &sink)
		assert.ErrorIs(t, err, ErrMalformedHeader)
		assert.Contains(t, err.Error(), "HDU 0 (HDU1)")
		assert.Zero(t, sink.Len())
	})
}

func TestDiagnosticsNilSink(t *testing.T) {
	var sink *Diagnostics
	sink.Warn(Warning{Message: "dropped"})
	assert.Nil(t, sink.Warnings())
	assert.Zero(t, sink.Len())
}
