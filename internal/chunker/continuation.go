package chunker

import (
	"regexp"
	"strings"

	"github.com/dgallion1/legalchunk/internal/doctree"
)

var articleLeadRe = regexp.MustCompile(`^(?i:Điều)[ \t]+\d+`)

// MergeContinuations glues a part back onto its predecessor when it starts
// with a table row or an article header, which means the budget cut fell in
// the middle of a table or an article. The budget is not re-checked; the
// merged part is flagged if either half was.
func MergeContinuations(parts []doctree.SubChunk) []doctree.SubChunk {
	out := make([]doctree.SubChunk, 0, len(parts))
	for _, p := range parts {
		if len(out) > 0 && isContinuation(p.Text) {
			prev := out[len(out)-1]
			out[len(out)-1] = doctree.SubChunk{
				Text:       strings.TrimRight(prev.Text, " \t\r\n") + "\n" + p.Text,
				OverBudget: prev.OverBudget || p.OverBudget,
			}
			continue
		}
		out = append(out, p)
	}
	return out
}

func isContinuation(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		return strings.HasPrefix(line, "|") || articleLeadRe.MatchString(line)
	}
	return false
}
