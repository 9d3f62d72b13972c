package extract

import "errors"

// Common extraction errors.
var (
	// ErrDecoding is returned when text bytes are not valid UTF-8.
	ErrDecoding = errors.New("invalid text encoding")

	// ErrExtraction is returned when a structured document is unreadable.
	ErrExtraction = errors.New("document extraction failed")

	// ErrUnsupportedType is returned for file types with no extractor.
	ErrUnsupportedType = errors.New("unsupported file type")
)
