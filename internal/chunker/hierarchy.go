package chunker

import (
	"slices"

	"github.com/dgallion1/legalchunk/internal/doctree"
)

// orphanWindow is how far into a chunk, in runes, a chapter or section
// header may sit and still count as opening it.
const orphanWindow = 200

// IsOrphan reports whether text opens with a chapter or section header but
// holds no article, appendix or form. Such a chunk only makes sense together
// with the chunk that follows it.
func IsOrphan(text string) bool {
	head := text
	if r := []rune(text); len(r) > orphanWindow {
		head = string(r[:orphanWindow])
	}
	if !hasMarker(head, doctree.KindChapter, doctree.KindSection) {
		return false
	}
	return !hasMarker(text, doctree.KindArticle, doctree.KindAppendix, doctree.KindForm)
}

// MergeOrphans folds orphan chunks forward into their successor. The fold
// runs from the last chunk to the first so a chain of headers collapses in
// one pass. A trailing orphan has no successor and is returned as is.
func MergeOrphans(chunks []doctree.Chunk) []doctree.Chunk {
	if len(chunks) == 0 {
		return nil
	}
	acc := chunks[len(chunks)-1]
	out := make([]doctree.Chunk, 0, len(chunks))
	for i := len(chunks) - 2; i >= 0; i-- {
		c := chunks[i]
		if IsOrphan(c.Text) {
			acc = doctree.Chunk{
				Kind:   c.Kind,
				Offset: c.Offset,
				Text:   NormalizeNewlines(c.Text + "\n" + acc.Text),
			}
			continue
		}
		out = append(out, acc)
		acc = c
	}
	out = append(out, acc)
	slices.Reverse(out)
	return out
}
