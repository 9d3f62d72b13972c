package extract_test

import (
	"testing"

	"github.com/c360studio/docsense/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPlainText(t *testing.T) {
	r := extract.NewRegistry()

	text, err := r.Extract("notes.txt", []byte("hello world\nsecond line"))
	require.NoError(t, err)
	assert.Equal(t, "hello world\nsecond line", text)
}

func TestExtractRejectsInvalidUTF8(t *testing.T) {
	r := extract.NewRegistry()

	_, err := r.Extract("notes.txt", []byte{0xff, 0xfe, 0xfd})
	assert.ErrorIs(t, err, extract.ErrDecoding)
}

func TestExtractRejectsUnsupportedExtension(t *testing.T) {
	r := extract.NewRegistry()

	_, err := r.Extract("image.png", []byte("not inspected"))
	require.ErrorIs(t, err, extract.ErrUnsupportedType)
	assert.Contains(t, err.Error(), ".png")
}

func TestExtractCorruptPDF(t *testing.T) {
	r := extract.NewRegistry()

	_, err := r.Extract("broken.pdf", []byte("this is not a pdf"))
	assert.ErrorIs(t, err, extract.ErrExtraction)
}

func TestMimeTypeFromExtension(t *testing.T) {
	assert.Equal(t, "text/plain", extract.MimeTypeFromExtension(".txt"))
	assert.Equal(t, "text/plain", extract.MimeTypeFromExtension(".TXT"))
	assert.Equal(t, "application/pdf", extract.MimeTypeFromExtension(".pdf"))
	assert.Equal(t, "application/octet-stream", extract.MimeTypeFromExtension(".docx"))
}

func TestRegistryLookup(t *testing.T) {
	r := extract.NewRegistry()

	assert.NotNil(t, r.GetByMimeType("text/plain"))
	assert.NotNil(t, r.GetByMimeType("application/pdf"))
	assert.Nil(t, r.GetByMimeType("image/png"))
	assert.Len(t, r.ListMimeTypes(), 2)
}
