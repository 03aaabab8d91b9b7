// Package errors classifies the failures fitsdoc reports to its users.
//
// A ClassifiedError carries a category (what failed), a severity (how bad it
// is), a retry strategy and free-form context. Commands return classified
// errors and main hands them to CLIErrorAdapter, which picks the exit code
// and the message printed to stderr.
//
//	err := errors.WrapError(cause, errors.CategoryFITS, "cannot read FITS headers").
//		WithContext("file", path).
//		Build()
package errors
