package chunker

import (
	"strings"

	"github.com/dgallion1/legalchunk/internal/doctree"
)

// Partition cuts text at the given boundaries. The spans cover text exactly
// and in order: a preamble before the first boundary (KindNone), then one
// chunk per boundary running to the next one. Without boundaries the whole
// text is a single chunk.
func Partition(text string, boundaries []doctree.Boundary) []doctree.Chunk {
	if text == "" {
		return nil
	}
	var chunks []doctree.Chunk
	start, kind := 0, doctree.KindNone
	for _, b := range boundaries {
		if b.Offset <= start {
			kind = b.Kind
			continue
		}
		chunks = append(chunks, doctree.Chunk{Kind: kind, Offset: start, Text: text[start:b.Offset]})
		start, kind = b.Offset, b.Kind
	}
	chunks = append(chunks, doctree.Chunk{Kind: kind, Offset: start, Text: text[start:]})
	return chunks
}

// trimChunks trims surrounding whitespace and drops chunks left empty.
func trimChunks(chunks []doctree.Chunk) []doctree.Chunk {
	out := make([]doctree.Chunk, 0, len(chunks))
	for _, c := range chunks {
		t := strings.TrimSpace(c.Text)
		if t == "" {
			continue
		}
		out = append(out, doctree.Chunk{Kind: c.Kind, Offset: c.Offset, Text: t})
	}
	return out
}
