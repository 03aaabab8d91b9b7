package fitsmeta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageFormat(t *testing.T) {
	tests := []struct {
		name string
		hdr  *MapHeader
		want string
	}{
		{
			name: "empty",
			hdr:  emptyPrimary(),
			want: "Empty HDU.",
		},
		{
			name: "one axis",
			hdr:  simHeader().Set("SIMPLE", true).Set("BITPIX", 8).Set("NAXIS", 1).Set("NAXIS1", 1000),
			want: "Data: FITS image [char, 1000]",
		},
		{
			name: "two axes",
			hdr: simHeader().Set("SIMPLE", true).Set("BITPIX", 16).Set("NAXIS", 2).
				Set("NAXIS1", 1000).Set("NAXIS2", 1000),
			want: "Data: FITS image [int16, 1000x1000]",
		},
		{
			name: "unknown bitpix",
			hdr: simHeader().Set("SIMPLE", true).Set("BITPIX", 128).Set("NAXIS", 2).
				Set("NAXIS1", 1000).Set("NAXIS2", 1000),
			want: "Data: FITS image [BITPIX=128, 1000x1000]",
		},
		{
			name: "three float axes",
			hdr: simHeader().Set("XTENSION", "IMAGE").Set("BITPIX", -64).Set("NAXIS", 3).
				Set("NAXIS1", 4).Set("NAXIS2", 5).Set("NAXIS3", 6),
			want: "Data: FITS image [float64, 4x5x6]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ImageFormat(tt.hdr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestImageFormatMalformed(t *testing.T) {
	tests := []struct {
		name string
		hdr  *MapHeader
	}{
		{"missing NAXIS", simHeader().Set("SIMPLE", true).Set("BITPIX", 8)},
		{"missing BITPIX", simHeader().Set("SIMPLE", true).Set("NAXIS", 1).Set("NAXIS1", 3)},
		{"missing axis length", simHeader().Set("SIMPLE", true).Set("BITPIX", 8).Set("NAXIS", 2).Set("NAXIS1", 3)},
		{"negative NAXIS", simHeader().Set("SIMPLE", true).Set("BITPIX", 8).Set("NAXIS", -1)},
		{"NAXIS above 999", simHeader().Set("SIMPLE", true).Set("BITPIX", 8).Set("NAXIS", 1000)},
		{"huge NAXIS", simHeader().Set("SIMPLE", true).Set("BITPIX", 8).Set("NAXIS", int64(1)<<50)},
		{"string NAXIS", simHeader().Set("SIMPLE", true).Set("BITPIX", 8).Set("NAXIS", "2")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImageFormat(tt.hdr)
			assert.ErrorIs(t, err, ErrMalformedHeader)
		})
	}
}

func TestColumnFormat(t *testing.T) {
	formats := map[string]string{
		"1PB":      "8-bit stream",
		"1PI":      "16-bit stream",
		"1PJ":      "32-bit stream",
		"A":        "char[1]",
		"B":        "binary",
		"L":        "logical",
		"E":        "float32",
		"D":        "float64",
		"I":        "int16",
		"J":        "int32",
		"K":        "int64",
		"10D":      "float64[10]",
		"20J":      "int32[20]",
		"1J":       "int32",
		"16A":      "char[16]",
		"1PE(100)": "32-bit stream",
		"1QD":      "64-bit stream",
		"M":        "complex128",
	}
	for code, want := range formats {
		t.Run(code, func(t *testing.T) {
			got, err := ColumnFormat(code)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestColumnFormatUnknown(t *testing.T) {
	for _, code := range []string{"Z", "10Z", "1PZ", "", "P", "D5", "1E(3)"} {
		t.Run(code, func(t *testing.T) {
			_, err := ColumnFormat(code)
			assert.ErrorIs(t, err, ErrUnknownFormatCode)
		})
	}
}
