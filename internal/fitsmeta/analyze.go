package fitsmeta

import (
	"fmt"
	"strconv"
	"strings"
)

// HDURecord is the documentation-ready description of one HDU.
type HDURecord struct {
	Index    int          `json:"index"`
	Name     string       `json:"name"`
	Kind     Kind         `json:"kind"`
	Format   string       `json:"format"`
	Keywords []KeywordRow `json:"keywords"`
}

// NumberWidth is the number of decimal digits needed to print count (at least 1).
func NumberWidth(count int) int {
	if count < 0 {
		count = -count
	}
	return len(strconv.Itoa(count))
}

// HDUNumber returns the synthesized 1-based name of the HDU at index,
// zero padded to width: HDUNumber(0, 2) == "HDU01".
func HDUNumber(index, width int) string {
	return fmt.Sprintf("HDU%0*d", width, index+1)
}

// HDUName prefers EXTNAME and falls back to HDUNumber.
func HDUName(h Header, index, width int) string {
	if name, ok := GetString(h, "EXTNAME"); ok && strings.TrimSpace(name) != "" {
		return name
	}
	return HDUNumber(index, width)
}

// UnknownExtensionFormat is the format line for HDUs that cannot be described.
func UnknownExtensionFormat(xtension string) string {
	return fmt.Sprintf("Unknown extension type: %s.", strings.TrimRight(xtension, " "))
}

// Analyze builds the record of the HDU at index. width is the digit width used
// for synthesized names. Extension types without an automatic description get
// the unknown-extension format line and a warning on sink; a header missing
// the keywords its kind requires returns ErrMalformedHeader.
func Analyze(index int, h Header, width int, sink *Diagnostics) (HDURecord, error) {
	rec := HDURecord{
		Index: index,
		Name:  HDUName(h, index, width),
		Kind:  Classify(h),
	}

	if rec.Kind.Describable() {
		format, err := ImageFormat(h)
		if err != nil {
			return HDURecord{}, fmt.Errorf("HDU %d (%s): %w", index, rec.Name, err)
		}
		rec.Format = format
	} else {
		xt, _ := GetString(h, "XTENSION")
		rec.Format = UnknownExtensionFormat(xt)
		sink.Warn(Warning{
			Code:    WarnUnrecognizedExtension,
			HDU:     index,
			Name:    rec.Name,
			Message: rec.Format,
		})
	}

	rec.Keywords = ExtractKeywords(h)
	return rec, nil
}
