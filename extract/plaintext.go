package extract

import (
	"fmt"
	"unicode/utf8"
)

// PlainTextExtractor decodes uploads as UTF-8 text.
type PlainTextExtractor struct{}

// NewPlainTextExtractor creates a new plain-text extractor.
func NewPlainTextExtractor() *PlainTextExtractor {
	return &PlainTextExtractor{}
}

// Extract decodes the bytes as UTF-8. Invalid byte sequences fail with
// ErrDecoding rather than being silently replaced.
func (e *PlainTextExtractor) Extract(content []byte) (string, error) {
	if !utf8.Valid(content) {
		return "", fmt.Errorf("%w: content is not valid UTF-8", ErrDecoding)
	}
	return string(content), nil
}

// CanExtract returns true if this extractor can handle the given MIME type.
func (e *PlainTextExtractor) CanExtract(mimeType string) bool {
	return mimeType == "text/plain"
}

// MimeType returns the primary MIME type for this extractor.
func (e *PlainTextExtractor) MimeType() string {
	return "text/plain"
}
