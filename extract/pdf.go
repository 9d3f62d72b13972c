package extract

import (
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor extracts text from PDF documents page by page.
type PDFExtractor struct{}

// NewPDFExtractor creates a new PDF extractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Extract parses a PDF and concatenates per-page text in page order, joining
// pages with a newline. A page that yields no text contributes an empty
// string; image-only documents therefore extract to empty text rather than
// an error. An unreadable container fails with ErrExtraction.
func (e *PDFExtractor) Extract(content []byte) (string, error) {
	reader, err := pdf.NewReader(newBytesReaderAt(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	var textBuilder strings.Builder

	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		if i > 1 {
			textBuilder.WriteByte('\n')
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Some pages fail to parse; they contribute nothing.
			continue
		}
		textBuilder.WriteString(text)
	}

	return textBuilder.String(), nil
}

// CanExtract returns true if this extractor can handle the given MIME type.
func (e *PDFExtractor) CanExtract(mimeType string) bool {
	return mimeType == "application/pdf"
}

// MimeType returns the primary MIME type for this extractor.
func (e *PDFExtractor) MimeType() string {
	return "application/pdf"
}

// bytesReaderAt implements io.ReaderAt for a byte slice.
// The pdf library wants a ReaderAt rather than raw bytes.
type bytesReaderAt struct {
	data []byte
}

func newBytesReaderAt(data []byte) *bytesReaderAt {
	return &bytesReaderAt{data: data}
}

func (r *bytesReaderAt) ReadAt(p []byte, off int64) (n int, err error) {
	if off < 0 {
		return 0, fmt.Errorf("negative offset")
	}
	if off >= int64(len(r.data)) {
		return 0, io.EOF
	}
	n = copy(p, r.data[off:])
	if n < len(p) {
		err = io.EOF
	}
	return n, err
}
