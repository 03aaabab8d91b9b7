package discovery

import "errors"

var (
	// ErrPathNotFound indicates an input path does not exist.
	ErrPathNotFound = errors.New("input path not found")

	// ErrWalkFailed indicates filesystem traversal of an input directory failed.
	ErrWalkFailed = errors.New("directory walk failed")

	// ErrNoFilesFound indicates no FITS files were found under any input path.
	ErrNoFilesFound = errors.New("no FITS files found")
)
