package fitsmeta

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// EmptyHDU is the format line of an HDU without data.
const EmptyHDU = "Empty HDU."

// maxAxes is the largest NAXIS the FITS standard allows.
const maxAxes = 999

var bitpixTypes = map[int64]string{
	8:   "char",
	16:  "int16",
	32:  "int32",
	64:  "int64",
	-32: "float32",
	-64: "float64",
}

// ImageFormat describes the data of a primary or image HDU, for example
// "Data: FITS image [int16, 1000x1000]". An unknown BITPIX is shown as
// "BITPIX=<value>" rather than rejected.
func ImageFormat(h Header) (string, error) {
	naxis, err := GetInt(h, "NAXIS")
	if err != nil {
		return "", err
	}
	if naxis == 0 {
		return EmptyHDU, nil
	}
	if naxis < 0 || naxis > maxAxes {
		return "", fmt.Errorf("%w: NAXIS = %d", ErrMalformedHeader, naxis)
	}

	bitpix, err := GetInt(h, "BITPIX")
	if err != nil {
		return "", err
	}
	label, ok := bitpixTypes[bitpix]
	if !ok {
		label = "BITPIX=" + strconv.FormatInt(bitpix, 10)
	}

	dims := make([]string, 0, naxis)
	for i := int64(1); i <= naxis; i++ {
		n, err := GetInt(h, "NAXIS"+strconv.FormatInt(i, 10))
		if err != nil {
			return "", err
		}
		dims = append(dims, strconv.FormatInt(n, 10))
	}
	return fmt.Sprintf("Data: FITS image [%s, %s]", label, strings.Join(dims, "x")), nil
}

type columnType struct {
	label string
	bytes int
}

var columnTypes = map[byte]columnType{
	'L': {"logical", 1},
	'B': {"binary", 1},
	'A': {"char", 1},
	'I': {"int16", 2},
	'J': {"int32", 4},
	'K': {"int64", 8},
	'E': {"float32", 4},
	'D': {"float64", 8},
	'C': {"complex64", 8},
	'M': {"complex128", 16},
}

// repeat count, optional array descriptor, type letter, optional max length
var tformPattern = regexp.MustCompile(`^([0-9]*)([PQ]?)([A-Z])(\([0-9]+\))?$`)

// ColumnFormat translates a binary table TFORM code into a readable label.
//
//	"I"   -> "int16"
//	"A"   -> "char[1]"
//	"10D" -> "float64[10]"
//	"1PJ" -> "32-bit stream"
//
// Codes with an unknown type letter fail with ErrUnknownFormatCode.
func ColumnFormat(code string) (string, error) {
	m := tformPattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(code)))
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormatCode, code)
	}
	count, descriptor, letter, maxLen := m[1], m[2], m[3][0], m[4]

	ct, ok := columnTypes[letter]
	if !ok {
		return "", fmt.Errorf("%w: type %q in %q", ErrUnknownFormatCode, string(letter), code)
	}
	if descriptor != "" {
		return fmt.Sprintf("%d-bit stream", ct.bytes*8), nil
	}
	if maxLen != "" {
		return "", fmt.Errorf("%w: %q has a length bound without an array descriptor", ErrUnknownFormatCode, code)
	}

	repeat := 1
	if count != "" {
		n, err := strconv.Atoi(count)
		if err != nil {
			return "", fmt.Errorf("%w: repeat count in %q: %w", ErrUnknownFormatCode, code, err)
		}
		repeat = n
	}
	if letter == 'A' || repeat != 1 {
		return fmt.Sprintf("%s[%d]", ct.label, repeat), nil
	}
	return ct.label, nil
}
