// Package errs defines the error values returned by libpsf.
//
// Errors fall into three categories that callers usually handle differently:
//
//   - File errors: the path could not be opened or closed, or the file is not a
//     PSF file. Retrying with a different path may help.
//   - Data errors: the file is a PSF file but its content does not match the
//     schema it declares (unexpected chunk tags, unknown type ids, truncated
//     records). Retrying the same file will fail again.
//   - Usage errors: the caller asked for something that does not exist or
//     queried a dataset that is not open.
//
// Use errors.Is with the sentinels below, or the IsFileError, IsDataError and
// IsUsageError predicates to classify an error.
package errs

import (
	"errors"
	"fmt"
)

// File errors.
var (
	ErrFileOpen               = errors.New("psf: cannot open file")
	ErrFileClose              = errors.New("psf: cannot close file")
	ErrInvalidFile            = errors.New("psf: invalid file")
	ErrUnsupportedCompression = errors.New("psf: unsupported compression")
	ErrImageTooLarge          = errors.New("psf: decompressed image too large")
)

// Data errors.
var (
	ErrIncorrectChunk  = errors.New("psf: incorrect chunk")
	ErrUnknownType     = errors.New("psf: unknown type")
	ErrTruncated       = errors.New("psf: truncated data")
	ErrMalformedRecord = errors.New("psf: malformed sweep record")
)

// Usage errors.
var (
	ErrDataSetNotOpen   = errors.New("psf: dataset not open")
	ErrNotFound         = errors.New("psf: not found")
	ErrPropertyNotFound = errors.New("psf: property not found")
	ErrNotSwept         = errors.New("psf: dataset is not swept")
	ErrSwept            = errors.New("psf: dataset is swept")
	ErrNotStruct        = errors.New("psf: value is not a struct")
	ErrConversion       = errors.New("psf: unsupported value conversion")
)

// IncorrectChunkError reports a chunk tag that is not valid at its decode site.
type IncorrectChunkError struct {
	// Tag is the tag found in the stream.
	Tag int32
	// Expected is the tag the decode site required, or -1 when any of a set of
	// tags would have been accepted.
	Expected int32
	// Offset is the absolute byte offset of the tag.
	Offset int
}

func (e *IncorrectChunkError) Error() string {
	if e.Expected < 0 {
		return fmt.Sprintf("psf: incorrect chunk: unexpected tag %d at offset %d", e.Tag, e.Offset)
	}

	return fmt.Sprintf("psf: incorrect chunk: tag %d at offset %d, expected %d", e.Tag, e.Offset, e.Expected)
}

func (e *IncorrectChunkError) Unwrap() error {
	return ErrIncorrectChunk
}

// IncorrectChunk returns an *IncorrectChunkError for an unexpected tag.
func IncorrectChunk(tag, expected int32, offset int) error {
	return &IncorrectChunkError{Tag: tag, Expected: expected, Offset: offset}
}

// UnknownTypeError reports a type id that the type catalog cannot resolve, or
// a primitive kind without a fixed on-disk size where one is required.
type UnknownTypeError struct {
	ID int32
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("psf: unknown type %d", e.ID)
}

func (e *UnknownTypeError) Unwrap() error {
	return ErrUnknownType
}

// UnknownType returns an *UnknownTypeError for the given id.
func UnknownType(id int32) error {
	return &UnknownTypeError{ID: id}
}

// IsFileError reports whether err is a file-level error.
func IsFileError(err error) bool {
	return errors.Is(err, ErrFileOpen) ||
		errors.Is(err, ErrFileClose) ||
		errors.Is(err, ErrInvalidFile) ||
		errors.Is(err, ErrUnsupportedCompression) ||
		errors.Is(err, ErrImageTooLarge)
}

// IsDataError reports whether err is caused by file content that does not
// match its declared schema.
func IsDataError(err error) bool {
	return errors.Is(err, ErrIncorrectChunk) ||
		errors.Is(err, ErrUnknownType) ||
		errors.Is(err, ErrTruncated) ||
		errors.Is(err, ErrMalformedRecord)
}

// IsUsageError reports whether err is caused by the caller.
func IsUsageError(err error) bool {
	return errors.Is(err, ErrDataSetNotOpen) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrPropertyNotFound) ||
		errors.Is(err, ErrNotSwept) ||
		errors.Is(err, ErrSwept) ||
		errors.Is(err, ErrNotStruct) ||
		errors.Is(err, ErrConversion)
}
