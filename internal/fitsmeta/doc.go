// Package fitsmeta turns FITS header metadata into documentation records.
//
// The package never reads FITS files itself. Callers supply headers through
// the [Header] capability interface (ordered keys, case-insensitive lookup and
// a per-keyword comment), which keeps the logic testable with [MapHeader].
//
// Key pieces:
//   - [IsExtraKeyword]: separates standard structural keywords from ones worth documenting
//   - [ImageFormat] and [ColumnFormat]: translate BITPIX/NAXIS and TFORM codes into labels
//   - [ExtractKeywords]: one [KeywordRow] per extra keyword, markup-escaped
//   - [Classify] and [Analyze]: per-HDU kind, format line and display name
//   - [FormatSize]: human-scaled byte counts
//
// Non-fatal findings (an extension type that cannot be described
// automatically) are reported through a [Diagnostics] sink rather than as
// errors, so a batch run can finish a file and still flag HDUs that need
// manual attention.
package fitsmeta
