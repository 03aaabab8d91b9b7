package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyFile       = "file"
	KeyPath       = "path"
	KeyHDU        = "hdu"
	KeyKind       = "kind"
	KeyRunID      = "run_id"
	KeyFormat     = "format"
	KeyWarnings   = "warnings"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func HDU(index int) slog.Attr         { return slog.Int(KeyHDU, index) }
func Kind(k string) slog.Attr         { return slog.String(KeyKind, k) }
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Format(f string) slog.Attr       { return slog.String(KeyFormat, f) }
func Warnings(n int) slog.Attr        { return slog.Int(KeyWarnings, n) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

// Since is DurationMS for the time elapsed since start.
func Since(start time.Time) slog.Attr {
	return DurationMS(float64(time.Since(start).Microseconds()) / 1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
