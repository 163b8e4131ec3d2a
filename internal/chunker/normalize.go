package chunker

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/legalchunk/internal/doctree"
)

var (
	blankRunRe   = regexp.MustCompile(`\n(?:[ \t]*\n){2,}`)
	bareHeaderRe = regexp.MustCompile(`^[ \t]*(?:(?i:Chương|Mục)[ \t]+(?:[IVXLCDM]+|\d+)|(?i:Phụ[ \t]+lục)[ \t]+[IVXLCDM]+|(?i:Điều)[ \t]+\d+\pL?|(?i:Biểu[ \t]+số)[ \t]+\d+)[ \t]*[.:]?[ \t]*$`)
	tableGapRe   = regexp.MustCompile(`\n\s*\n\s*\|`)
	expiredRe    = regexp.MustCompile(`\(VB hết hiệu lực:\s*\d{1,2}/\d{1,2}/\d{4}\)\.*`)
)

// StripTitleLines drops every line that repeats the document title, ignoring
// case, surrounding blanks and one trailing period.
func StripTitleLines(text, title string) string {
	want := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(title), "."))
	if want == "" {
		return text
	}
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		got := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), "."))
		if strings.EqualFold(got, want) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// NormalizeNewlines tidies blank lines around structural headers:
//   - runs of three or more newlines become exactly two
//   - a bare header ("Mục 1.", "Chương II") separated by blank lines from a
//     capitalised line is joined to it with one space
//   - blank lines between a chapter and the section or article under it, and
//     between a section and its first article, are removed
//
// The result is trimmed. Applying it twice changes nothing.
func NormalizeNewlines(text string) string {
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		cur := lines[i]
		next := nextNonBlank(lines, i+1)

		if next > i+1 && next < len(lines) && bareHeaderRe.MatchString(cur) && joinable(lines[next]) {
			cur = strings.TrimRight(cur, " \t") + " " + strings.TrimLeft(lines[next], " \t")
			i = next
			next = nextNonBlank(lines, i+1)
		}

		out = append(out, cur)
		if next > i+1 && next < len(lines) && tightensTo(cur, lines[next]) {
			i = next - 1
		}
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func nextNonBlank(lines []string, from int) int {
	for from < len(lines) && strings.TrimSpace(lines[from]) == "" {
		from++
	}
	return from
}

// joinable reports whether line may be glued to a bare header above it: it
// must start with an uppercase letter and not be a header itself.
func joinable(line string) bool {
	if _, ok := lineKind(line); ok {
		return false
	}
	r, _ := utf8.DecodeRuneInString(strings.TrimLeft(line, " \t"))
	return unicode.IsUpper(r)
}

// tightensTo reports whether the blank lines between a header line and the
// next header should go.
func tightensTo(line, next string) bool {
	k, ok := lineKind(line)
	if !ok {
		return false
	}
	nk, ok := lineKind(next)
	if !ok {
		return false
	}
	switch k {
	case doctree.KindChapter:
		return nk == doctree.KindSection || nk == doctree.KindArticle
	case doctree.KindSection:
		return nk == doctree.KindArticle
	}
	return false
}

// Polish applies the last cosmetic fixes to an output unit: table rows hug
// the paragraph before them, an expiry note "(VB hết hiệu lực: dd/mm/yyyy)"
// ends with exactly one period, and newlines are normalized again.
func Polish(text string) string {
	text = tableGapRe.ReplaceAllString(text, "\n|")
	text = expiredRe.ReplaceAllStringFunc(text, func(m string) string {
		return strings.TrimRight(m, ".") + "."
	})
	return NormalizeNewlines(text)
}
