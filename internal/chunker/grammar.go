package chunker

import (
	"regexp"
	"sort"

	"github.com/dgallion1/legalchunk/internal/doctree"
)

// A marker is structural when it opens a line. Leading blanks, opening
// quotes or brackets (amending laws quote the article they replace) and a
// document-type title such as "Luật Đất đai 2024. " may precede it. The
// title must end in a year or a document number.
const (
	lineStart   = `^[ \t“‘"'(\[]*`
	titlePrefix = `(?:(?i:Bộ luật|Luật|Nghị định|Thông tư|Quyết định|Nghị quyết|Pháp lệnh|Văn bản hợp nhất)(?:[ \t][^\n.]{0,160})?[ \t](?:\d{4}|\d+/[\pL\pN/-]+)\.[ \t]+)?`
	notWordTail = `(?:[^\pL\pN\n]|$)`
	notWordHead = `[^\pL\pN\n]`
)

// rule is one row of the structural grammar. Keywords are case-insensitive,
// numerals are not, so "Mục lục" never reads as a section. A rule with an
// inline form also matches mid-line after a non-word character.
type rule struct {
	kind   doctree.Kind
	marker string
	inline string
}

var grammar = []rule{
	{kind: doctree.KindArticle, marker: `(?i:Điều)[ \t]+\d+\pL?[ \t]*[.:]`},
	{kind: doctree.KindChapter, marker: `(?i:Chương)[ \t]+(?:[IVXLCDM]+|\d+)` + notWordTail},
	{kind: doctree.KindSection, marker: `(?i:Mục)[ \t]+(?:\d+|[IVXLCDM]+)` + notWordTail},
	{
		kind:   doctree.KindAppendix,
		marker: `(?i:Phụ[ \t]+lục)[ \t]+[IVXLCDM]+` + notWordTail,
		inline: `PHỤ[ \t]+LỤC[ \t]+[IVXLCDM]+` + notWordTail,
	},
	{kind: doctree.KindForm, marker: `(?i:Biểu[ \t]+số)[ \t]+\d+[ \t]*:`},
}

// compiledRule holds the rule as one expression. Group 1 is the line-start
// form; group 2, when the rule has one, is the inline marker.
type compiledRule struct {
	kind doctree.Kind
	re   *regexp.Regexp
}

var compiled = compileGrammar(grammar)

func compileGrammar(rules []rule) []compiledRule {
	out := make([]compiledRule, len(rules))
	for i, r := range rules {
		expr := `(?m)(` + lineStart + titlePrefix + r.marker + `)`
		if r.inline != "" {
			expr = `(?m)(?:(` + lineStart + titlePrefix + r.marker + `)|` + notWordHead + `(` + r.inline + `))`
		}
		out[i] = compiledRule{kind: r.kind, re: regexp.MustCompile(expr)}
	}
	return out
}

// offsets returns where each match of r starts: the line start for the
// line-start form, the keyword for an inline marker.
func (r compiledRule) offsets(text string) []int {
	var out []int
	for _, m := range r.re.FindAllStringSubmatchIndex(text, -1) {
		if m[2] >= 0 {
			out = append(out, m[2])
		} else {
			out = append(out, m[4])
		}
	}
	return out
}

// Scan returns the structural boundaries of text in ascending offset order.
// Each family is matched over the whole text independently; boundaries that
// land on the same offset collapse to the first family in grammar order.
// A text without markers yields no boundaries.
func Scan(text string) []doctree.Boundary {
	seen := make(map[int]bool)
	var out []doctree.Boundary
	for _, r := range compiled {
		for _, off := range r.offsets(text) {
			if seen[off] {
				continue
			}
			seen[off] = true
			out = append(out, doctree.Boundary{Kind: r.kind, Offset: off})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Offset < out[j].Offset })
	return out
}

// hasMarker reports whether text contains a marker of any of the given
// kinds.
func hasMarker(text string, kinds ...doctree.Kind) bool {
	for _, r := range compiled {
		for _, k := range kinds {
			if r.kind == k && r.re.MatchString(text) {
				return true
			}
		}
	}
	return false
}

// lineKind returns the kind of marker that opens line, if any.
func lineKind(line string) (doctree.Kind, bool) {
	for _, r := range compiled {
		if m := r.re.FindStringSubmatchIndex(line); m != nil && m[2] == 0 {
			return r.kind, true
		}
	}
	return doctree.KindNone, false
}
