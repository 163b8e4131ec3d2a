package doctree

import (
	"path/filepath"
	"strings"
)

// Document is a single legal text as handed over by a source.
type Document struct {
	Filename string // Source file name, used for the title fallback and output naming
	Title    string // First non-blank line, or the normalized filename stem
	Text     string // Full UTF-8 text, LF line endings
}

// Kind identifies the structural marker that opens a chunk.
type Kind int

const (
	KindNone Kind = iota // Preamble before the first boundary
	KindChapter
	KindSection
	KindArticle
	KindAppendix
	KindForm
)

func (k Kind) String() string {
	switch k {
	case KindChapter:
		return "chapter"
	case KindSection:
		return "section"
	case KindArticle:
		return "article"
	case KindAppendix:
		return "appendix"
	case KindForm:
		return "form"
	}
	return "none"
}

// Terminal reports whether the kind carries normative content on its own.
// Chapters and sections only group terminal elements.
func (k Kind) Terminal() bool {
	return k == KindArticle || k == KindAppendix || k == KindForm
}

// Boundary is the start of a structural unit in the document text.
// Offset is a byte offset into the footnote-resolved text.
type Boundary struct {
	Kind   Kind
	Offset int
}

// Chunk is a span of the document between two boundaries.
type Chunk struct {
	Kind   Kind   // Kind of the opening boundary, KindNone for the preamble
	Offset int    // Byte offset of the span start
	Text   string // Span text
}

// SubChunk is a token-budgeted fragment of a chunk.
type SubChunk struct {
	Text       string
	OverBudget bool // Single line that alone exceeds the budget
}

// Unit is the atomic output record: the document title plus one fragment.
type Unit struct {
	Title      string
	Text       string
	OverBudget bool
}

// DeriveTitle returns the first non-blank line of text. When text has no
// content it falls back to the filename stem with underscores turned into
// spaces and whitespace collapsed.
func DeriveTitle(filename, text string) string {
	for _, line := range strings.Split(text, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			return t
		}
	}
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return strings.Join(strings.Fields(strings.ReplaceAll(stem, "_", " ")), " ")
}
