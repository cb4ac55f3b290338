package documents

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
)

// MediaTypePDF is the only media type accepted for upload
const MediaTypePDF = "application/pdf"

// Info describes an inspected document
type Info struct {
	Name  string
	Size  int64
	Pages int
}

// DetectMediaType returns the declared media type of the file at path,
// sniffing the leading bytes first and falling back to the file extension
// for formats the sniffer reports as plain octet streams.
func DetectMediaType(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && n == 0 {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	detected := http.DetectContentType(buf[:n])
	mediaType, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return "", fmt.Errorf("failed to parse media type: %w", err)
	}

	if mediaType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(filepath.Ext(path)); byExt != "" {
			if parsed, _, err := mime.ParseMediaType(byExt); err == nil {
				mediaType = parsed
			}
		}
	}

	return mediaType, nil
}

// Checker inspects PDF files before upload
type Checker struct{}

// NewChecker creates a new document checker
func NewChecker() *Checker {
	return &Checker{}
}

// Inspect opens the document with MuPDF and returns its name, size, and
// page count. Failing to open counts as a rejection upstream.
func (c *Checker) Inspect(path string) (*Info, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	return &Info{
		Name:  filepath.Base(path),
		Size:  fi.Size(),
		Pages: doc.NumPage(),
	}, nil
}
