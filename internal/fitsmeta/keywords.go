package fitsmeta

import (
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

// boringKeywords are structural keywords every FITS reader already knows about.
var boringKeywords = map[string]struct{}{
	"":         {},
	"SIMPLE":   {},
	"BITPIX":   {},
	"NAXIS":    {},
	"EXTEND":   {},
	"XTENSION": {},
	"EXTNAME":  {},
	"PCOUNT":   {},
	"GCOUNT":   {},
	"TFIELDS":  {},
	"CHECKSUM": {},
	"DATASUM":  {},
	"COMMENT":  {},
	"HISTORY":  {},
}

var (
	axisKeyword   = regexp.MustCompile(`^NAXIS[0-9]+$`)
	columnKeyword = regexp.MustCompile(`^T(TYPE|FORM|UNIT|COMM|DIM)[0-9]{1,2}$`)
)

// IsExtraKeyword reports whether a keyword is worth documenting, i.e. it is
// neither a standard structural keyword nor a table column descriptor.
func IsExtraKeyword(name string) bool {
	key := normalizeKey(name)
	if _, ok := boringKeywords[key]; ok {
		return false
	}
	return !axisKeyword.MatchString(key) && !columnKeyword.MatchString(key)
}

// KeywordRow documents one extra keyword. Keyword and Value are escaped for
// markup where underscore is special.
type KeywordRow struct {
	Keyword string `json:"keyword"`
	Value   string `json:"value"`
	Type    string `json:"type"`
	Comment string `json:"comment"`
}

// ExtractKeywords returns a row for every extra keyword of h, in header order.
func ExtractKeywords(h Header) []KeywordRow {
	rows := make([]KeywordRow, 0)
	for _, key := range h.Keys() {
		if !IsExtraKeyword(key) {
			continue
		}
		value, _ := h.Get(key)
		rows = append(rows, KeywordRow{
			Keyword: EscapeUnderscores(key),
			Value:   EscapeUnderscores(FormatValue(value)),
			Type:    TypeName(value),
			Comment: h.Comment(key),
		})
	}
	return rows
}

// EscapeUnderscores prefixes every underscore with a backslash.
func EscapeUnderscores(s string) string {
	return strings.ReplaceAll(s, "_", `\_`)
}

// TypeName labels a header value by its runtime type: bool, int, float or str.
func TypeName(v any) string {
	switch v.(type) {
	case bool:
		return "bool"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, *big.Int:
		return "int"
	case float32, float64:
		return "float"
	default:
		return "str"
	}
}

// FormatValue renders a header value the way it reads in a FITS card:
// booleans as T/F, numbers in their shortest form, strings verbatim.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case bool:
		if x {
			return "T"
		}
		return "F"
	case string:
		return x
	case float32:
		return formatFloat(float64(x), 32)
	case float64:
		return formatFloat(x, 64)
	case *big.Int:
		return x.String()
	}
	if n, ok := toInt64(v); ok {
		return strconv.FormatInt(n, 10)
	}
	return fmt.Sprint(v)
}

// formatFloat always keeps a decimal point or an exponent so a float is never
// mistaken for an integer: 3.0 renders "3.0", 1e20 renders "1e+20".
func formatFloat(f float64, bits int) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, bits)
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, bits)
	}
	s := strconv.FormatFloat(f, 'f', -1, bits)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
