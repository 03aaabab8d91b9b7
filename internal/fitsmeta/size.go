package fitsmeta

import (
	"math"
	"strconv"
)

var sizeUnits = []string{"bytes", "KB", "MB", "GB", "TB", "PB", "EB"}

// FormatSize returns a human-scaled size using powers of 1024, picking the
// largest unit whose scaled value is at least 1. Byte counts have no decimals;
// larger units are rounded to one decimal and printed without trailing zeros
// ("2 KB", "1.5 KB").
// n must not be negative.
func FormatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return strconv.FormatInt(n, 10) + " " + sizeUnits[0]
	}
	div, exp := int64(unit), 1
	for n/div >= unit && exp < len(sizeUnits)-1 {
		div *= unit
		exp++
	}
	scaled := math.Round(float64(n)/float64(div)*10) / 10
	if scaled >= unit && exp < len(sizeUnits)-1 {
		scaled = math.Round(scaled/unit*10) / 10
		exp++
	}
	return strconv.FormatFloat(scaled, 'f', -1, 64) + " " + sizeUnits[exp]
}
