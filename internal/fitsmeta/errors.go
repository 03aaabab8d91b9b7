package fitsmeta

import "errors"

var (
	// ErrUnknownFormatCode indicates a TFORM code whose type letter (or shape) is not understood.
	ErrUnknownFormatCode = errors.New("unknown column format code")

	// ErrMalformedHeader indicates a header missing keywords required to describe its data.
	ErrMalformedHeader = errors.New("malformed header")
)
