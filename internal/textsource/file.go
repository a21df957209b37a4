// ABOUTME: Plain-file and PDF text acquisition
// ABOUTME: PDF byte extraction stays behind an interface for external engines
package textsource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FromFile reads a plain-text file into a Document. The file name, without
// extension, becomes the title.
func FromFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	base := filepath.Base(path)
	title := strings.TrimSuffix(base, filepath.Ext(base))
	return &Document{
		Title: title,
		Text:  strings.TrimSpace(string(data)),
	}, nil
}

// PDFExtractor turns raw PDF bytes into plain text. Extraction engines are
// external collaborators; the pipeline only consumes the extracted text.
type PDFExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}
