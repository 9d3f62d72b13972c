// Package extract converts uploaded document bytes into normalized text.
// Extractors are registered by MIME type; the registry resolves an uploaded
// filename to the right extractor by extension and rejects anything it does
// not recognize before extraction is attempted.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// Extractor defines the interface for per-format text extractors.
type Extractor interface {
	// Extract converts raw document bytes into a single text string.
	Extract(content []byte) (string, error)

	// CanExtract returns true if this extractor handles the given MIME type.
	CanExtract(mimeType string) bool

	// MimeType returns the primary MIME type for this extractor.
	MimeType() string
}

// Registry manages text extractors.
type Registry struct {
	mu         sync.RWMutex
	extractors map[string]Extractor // keyed by primary MIME type
}

// NewRegistry creates a registry with the default extractors registered.
func NewRegistry() *Registry {
	r := &Registry{
		extractors: make(map[string]Extractor),
	}

	r.Register(NewPlainTextExtractor())
	r.Register(NewPDFExtractor())

	return r
}

// Register adds an extractor to the registry.
func (r *Registry) Register(e Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors[e.MimeType()] = e
}

// GetByMimeType returns an extractor for the given MIME type, or nil.
func (r *Registry) GetByMimeType(mimeType string) Extractor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.extractors[mimeType]; ok {
		return e
	}
	for _, e := range r.extractors {
		if e.CanExtract(mimeType) {
			return e
		}
	}
	return nil
}

// Extract resolves an extractor from the filename extension and runs it.
// Unsupported extensions fail with ErrUnsupportedType before any bytes are
// inspected.
func (r *Registry) Extract(filename string, content []byte) (string, error) {
	mimeType := MimeTypeFromExtension(filepath.Ext(filename))
	e := r.GetByMimeType(mimeType)
	if e == nil {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, filepath.Ext(filename))
	}
	return e.Extract(content)
}

// ListMimeTypes returns all registered MIME types.
func (r *Registry) ListMimeTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.extractors))
	for t := range r.extractors {
		types = append(types, t)
	}
	return types
}

// MimeTypeFromExtension returns the MIME type for a file extension.
func MimeTypeFromExtension(ext string) string {
	switch strings.ToLower(ext) {
	case ".txt":
		return "text/plain"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
