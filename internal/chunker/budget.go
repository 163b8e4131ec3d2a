package chunker

import (
	"regexp"
	"strings"

	"github.com/dgallion1/legalchunk/internal/doctree"
)

// DefaultMaxTokens is the per-unit token budget when none is configured.
const DefaultMaxTokens = 15000

var paragraphBreakRe = regexp.MustCompile(`\n\s*\n`)

// Split is the outcome of budgeting one chunk.
type Split struct {
	Parts      []doctree.SubChunk
	OverBudget bool // The chunk did not fit and was cut into several parts
}

// SplitByBudget cuts text into parts of at most maxTokens tokens. A chunk
// that fits is returned whole. Otherwise paragraphs are packed greedily; a
// paragraph that is too large on its own is packed line by line, and a line
// that is still too large is emitted alone and flagged. A part exactly at
// the limit is accepted.
func SplitByBudget(text string, counter Counter, maxTokens int) Split {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if counter.CountTokens(text) <= maxTokens {
		return Split{Parts: []doctree.SubChunk{{Text: text}}}
	}

	p := packer{counter: counter, max: maxTokens, sep: "\n\n"}
	for _, para := range paragraphBreakRe.Split(text, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if counter.CountTokens(para) > maxTokens {
			p.flush()
			p.parts = append(p.parts, splitLines(para, counter, maxTokens)...)
			continue
		}
		p.add(para)
	}
	p.flush()
	return Split{Parts: p.parts, OverBudget: len(p.parts) > 1}
}

// splitLines packs the lines of one oversized paragraph.
func splitLines(para string, counter Counter, maxTokens int) []doctree.SubChunk {
	p := packer{counter: counter, max: maxTokens, sep: "\n"}
	for _, line := range strings.Split(para, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if counter.CountTokens(line) > maxTokens {
			p.flush()
			p.parts = append(p.parts, doctree.SubChunk{Text: line, OverBudget: true})
			continue
		}
		p.add(line)
	}
	p.flush()
	return p.parts
}

// packer is a greedy left-to-right bin packer. It measures the joined
// candidate rather than summing pieces so the budget holds for subword
// encoders too.
type packer struct {
	counter Counter
	max     int
	sep     string
	buf     string
	parts   []doctree.SubChunk
}

func (p *packer) add(piece string) {
	if p.buf == "" {
		p.buf = piece
		return
	}
	candidate := p.buf + p.sep + piece
	if p.counter.CountTokens(candidate) <= p.max {
		p.buf = candidate
		return
	}
	p.flush()
	p.buf = piece
}

func (p *packer) flush() {
	if p.buf == "" {
		return
	}
	p.parts = append(p.parts, doctree.SubChunk{Text: p.buf})
	p.buf = ""
}
