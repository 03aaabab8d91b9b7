package fitsmeta

import "strings"

// Kind classifies an HDU by the keywords that open its header.
type Kind int

const (
	KindUnknown Kind = iota
	KindPrimary
	KindImage
	KindTable
)

// String returns the label used in documentation tables.
func (k Kind) String() string {
	switch k {
	case KindPrimary:
		return "PRIMARY"
	case KindImage:
		return "IMAGE"
	case KindTable:
		return "TABLE"
	default:
		return "UNKNOWN"
	}
}

// MarshalText encodes the kind by its label.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Describable reports whether the kind gets an automatic format line.
// Tables are recognized but not yet described.
func (k Kind) Describable() bool {
	return k == KindPrimary || k == KindImage
}

// Classify determines the kind of an HDU from its header.
func Classify(h Header) Kind {
	if Has(h, "SIMPLE") {
		return KindPrimary
	}
	xt, ok := GetString(h, "XTENSION")
	if !ok {
		return KindUnknown
	}
	switch strings.ToUpper(strings.TrimSpace(xt)) {
	case "IMAGE":
		return KindImage
	case "TABLE", "BINTABLE":
		return KindTable
	default:
		return KindUnknown
	}
}
