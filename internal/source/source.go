// Package source turns raw document bytes into an Outline, choosing the
// right path per format. PDF carries only positioned text and goes through
// the statistical classification engine; markdown, HTML and DOCX declare
// their heading structure explicitly and map to the outline directly.
package source

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/outliner/internal/classify"
	"github.com/dgallion1/outliner/internal/outline"
)

// Result is the outcome of extracting one document.
type Result struct {
	Outline outline.Outline

	// Script names the detected writing system ("latin" for formats that
	// skip detection).
	Script string

	Pages       int
	Fragments   int
	FailedPages int
}

// Extractor produces an outline from one document's bytes.
type Extractor interface {
	Extract(r io.Reader, filename string) (Result, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".pdf":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".docx":     true,
}

// ForFile returns the extractor for a filename. The engine is only used by
// formats that need statistical classification.
func ForFile(filename string, engine *classify.Engine) (Extractor, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return &PDFExtractor{Engine: engine}, nil
	case ".md", ".markdown":
		return &MarkdownExtractor{}, nil
	case ".html", ".htm":
		return &HTMLExtractor{}, nil
	case ".docx":
		return &DOCXExtractor{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", filepath.Ext(filename))
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}
