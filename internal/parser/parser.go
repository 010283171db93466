package parser

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ErrNoText signals that a file was parsed successfully but yielded no
// extractable text (scanned/image-only PDF, empty file). Callers switch to
// the vision path or report a user-actionable error.
var ErrNoText = errors.New("no extractable text")

// Document is the text pulled out of an uploaded syllabus file, split into
// source pages where the format has them.
type Document struct {
	Title string
	Pages []Page
}

// Page is one page's worth of extracted text, 1-indexed.
type Page struct {
	Number int
	Text   string
}

// Text joins all page text into one blob, pages separated by blank lines.
func (d *Document) Text() string {
	parts := make([]string, 0, len(d.Pages))
	for _, p := range d.Pages {
		if t := strings.TrimSpace(p.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Empty reports whether no page carries any text.
func (d *Document) Empty() bool {
	return strings.TrimSpace(d.Text()) == ""
}

// Parser converts raw document bytes into a Document.
type Parser interface {
	Parse(r io.Reader, filename string) (*Document, error)
}

// SupportedExtensions lists the text formats this service parses directly.
// Image formats are handled by the vision path, not a Parser.
var SupportedExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".html": true,
	".htm":  true,
	".pdf":  true,
	".docx": true,
}

// imageMediaTypes maps accepted image upload extensions to media types.
var imageMediaTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: true}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// ImageMediaType reports whether a filename is an accepted image upload and
// returns its media type.
func ImageMediaType(filename string) (string, bool) {
	mt, ok := imageMediaTypes[strings.ToLower(filepath.Ext(filename))]
	return mt, ok
}

// IsSupportedUpload checks whether the service accepts a filename at all,
// as a parseable document or as an image.
func IsSupportedUpload(filename string) bool {
	if SupportedExtensions[strings.ToLower(filepath.Ext(filename))] {
		return true
	}
	_, ok := ImageMediaType(filename)
	return ok
}

func titleFromFilename(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
