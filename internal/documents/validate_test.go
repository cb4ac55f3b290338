package documents

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func TestDetectMediaType_PDFMagicBytes(t *testing.T) {
	path := writeTemp(t, "doc.pdf", []byte("%PDF-1.7\n1 0 obj\n"))

	mediaType, err := DetectMediaType(path)
	require.NoError(t, err)
	assert.Equal(t, MediaTypePDF, mediaType)
}

func TestDetectMediaType_PlainText(t *testing.T) {
	path := writeTemp(t, "notes.txt", []byte("just some notes"))

	mediaType, err := DetectMediaType(path)
	require.NoError(t, err)
	assert.NotEqual(t, MediaTypePDF, mediaType)
}

func TestDetectMediaType_ExtensionFallback(t *testing.T) {
	// Leading null bytes defeat the sniffer, so the extension decides.
	path := writeTemp(t, "archive.pdf", append(make([]byte, 16), []byte("payload")...))

	mediaType, err := DetectMediaType(path)
	require.NoError(t, err)
	assert.Equal(t, MediaTypePDF, mediaType)
}

func TestDetectMediaType_MissingFile(t *testing.T) {
	_, err := DetectMediaType(filepath.Join(t.TempDir(), "absent.pdf"))
	require.Error(t, err)
}
