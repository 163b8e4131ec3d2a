package parser

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/dgallion1/legalchunk/internal/doctree"
)

// ErrUnsupported is returned for files no parser handles.
var ErrUnsupported = errors.New("unsupported file extension")

// ErrInvalidUTF8 is returned when a source is not valid UTF-8 text.
var ErrInvalidUTF8 = errors.New("document is not valid UTF-8")

// Parser converts raw document bytes into a Document.
type Parser interface {
	Parse(r io.Reader, filename string) (*doctree.Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// newDocument canonicalizes extracted text and derives the title. Line
// endings become LF, a leading BOM is dropped and Vietnamese diacritics are
// composed (NFC) so the structural grammar sees one spelling of each marker.
func newDocument(filename, text string) (*doctree.Document, error) {
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("%s: %w", filename, ErrInvalidUTF8)
	}
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = norm.NFC.String(text)
	return &doctree.Document{
		Filename: filepath.Base(filename),
		Title:    doctree.DeriveTitle(filename, text),
		Text:     text,
	}, nil
}
