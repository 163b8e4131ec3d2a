// Package footnote inlines footnote definitions into the text that
// references them. A footnote is written as "[n]" at the reference site and
// as a line starting with "[n]" where it is defined.
package footnote

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Policy decides which occurrence of a footnote number is its definition.
type Policy int

const (
	// SecondOccurrence takes the first "[n]" as the reference and the second
	// as the definition, provided that second one opens its line.
	SecondOccurrence Policy = iota
	// FirstLineMarker takes the first line opening with "[n]" as the
	// definition, wherever it is, and the first "[n]" outside any definition
	// as the reference.
	FirstLineMarker
)

func (p Policy) String() string {
	switch p {
	case SecondOccurrence:
		return "second-occurrence"
	case FirstLineMarker:
		return "first-line-marker"
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// ParsePolicy maps a configuration value to a Policy. The empty string
// selects SecondOccurrence.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "second-occurrence", "second":
		return SecondOccurrence, nil
	case "first-line-marker", "first-line":
		return FirstLineMarker, nil
	}
	return 0, fmt.Errorf("unknown footnote policy %q", s)
}

// Table maps a footnote number to its inlined body.
type Table map[string]string

// Resolution is the result of resolving one document.
type Resolution struct {
	Text       string
	Table      Table
	Unresolved []string // Numbers left in place, in order of first appearance
}

var (
	markerRe  = regexp.MustCompile(`\[(\d+)\]`)
	defLineRe = regexp.MustCompile(`^\s*\[(\d+)\]\s*(.*)$`)
)

type occurrence struct {
	line  int
	start int // byte offset within the line
	end   int
}

type definition struct {
	first, last int // line span of the definition block
	body        string
}

type replacement struct {
	start, end int
	text       string
}

// Resolve inlines every footnote it can pair up under policy. Numbers that
// occur once, or whose definition does not parse, are left untouched and
// reported as unresolved.
func Resolve(text string, policy Policy) Resolution {
	lines := strings.Split(text, "\n")

	occs := make(map[string][]occurrence)
	var order []string
	for i, line := range lines {
		for _, m := range markerRe.FindAllStringSubmatchIndex(line, -1) {
			n := line[m[2]:m[3]]
			if _, ok := occs[n]; !ok {
				order = append(order, n)
			}
			occs[n] = append(occs[n], occurrence{line: i, start: m[0], end: m[1]})
		}
	}

	var pairs map[string]pair
	switch policy {
	case FirstLineMarker:
		pairs = pairFirstLine(lines, occs)
	default:
		pairs = pairSecond(lines, occs)
	}
	pairs = dropShadowed(pairs)
	deleted := definitionLines(pairs)

	res := Resolution{Table: make(Table)}
	edits := make(map[int][]replacement)
	for _, n := range order {
		p, ok := pairs[n]
		if !ok {
			res.Unresolved = append(res.Unresolved, n)
			continue
		}
		res.Table[n] = p.def.body
		edits[p.ref.line] = append(edits[p.ref.line], replacement{
			start: p.ref.start,
			end:   p.ref.end,
			text:  "[" + p.def.body + "]",
		})
	}

	out := make([]string, 0, len(lines))
	for i, line := range lines {
		if deleted[i] {
			continue
		}
		out = append(out, applyEdits(line, edits[i]))
	}
	res.Text = strings.Join(out, "\n")
	return res
}

type pair struct {
	ref occurrence
	def definition
}

func pairSecond(lines []string, occs map[string][]occurrence) map[string]pair {
	pairs := make(map[string]pair)
	for n, list := range occs {
		if len(list) < 2 {
			continue
		}
		ref, site := list[0], list[1]
		if site.line == ref.line {
			continue
		}
		def, ok := parseDefinition(lines, site.line, n)
		if !ok || leadingMarkerEnd(lines[site.line]) != site.end {
			continue
		}
		pairs[n] = pair{ref: ref, def: def}
	}
	return pairs
}

func pairFirstLine(lines []string, occs map[string][]occurrence) map[string]pair {
	defs := make(map[string]definition)
	inDef := make(map[int]bool)
	for i, line := range lines {
		m := defLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if _, ok := defs[m[1]]; ok {
			continue
		}
		def, ok := parseDefinition(lines, i, m[1])
		if !ok {
			continue
		}
		defs[m[1]] = def
		for l := def.first; l <= def.last; l++ {
			inDef[l] = true
		}
	}

	pairs := make(map[string]pair)
	for n, def := range defs {
		for _, o := range occs[n] {
			if inDef[o.line] {
				continue
			}
			pairs[n] = pair{ref: o, def: def}
			break
		}
	}
	return pairs
}

// dropShadowed removes pairs whose reference sits inside another pair's
// definition block, since that block is about to be deleted.
func dropShadowed(pairs map[string]pair) map[string]pair {
	for {
		deleted := definitionLines(pairs)
		changed := false
		for n, p := range pairs {
			if deleted[p.ref.line] {
				delete(pairs, n)
				changed = true
			}
		}
		if !changed {
			return pairs
		}
	}
}

func definitionLines(pairs map[string]pair) map[int]bool {
	lines := make(map[int]bool)
	for _, p := range pairs {
		for l := p.def.first; l <= p.def.last; l++ {
			lines[l] = true
		}
	}
	return lines
}

// parseDefinition reads the definition block of footnote n that starts on
// line i. The block runs until a blank line or the next "[m]" line; its
// lines are joined with single spaces and one trailing period is dropped.
func parseDefinition(lines []string, i int, n string) (definition, bool) {
	m := defLineRe.FindStringSubmatch(lines[i])
	if m == nil || m[1] != n {
		return definition{}, false
	}
	parts := []string{strings.TrimSpace(m[2])}
	last := i
	for j := i + 1; j < len(lines); j++ {
		l := strings.TrimSpace(lines[j])
		if l == "" || defLineRe.MatchString(l) {
			break
		}
		parts = append(parts, l)
		last = j
	}
	body := strings.TrimSpace(strings.Join(parts, " "))
	body = strings.TrimSuffix(body, ".")
	if body == "" {
		return definition{}, false
	}
	return definition{first: i, last: last, body: body}, true
}

// leadingMarkerEnd returns the end offset of the "[n]" that opens line.
func leadingMarkerEnd(line string) int {
	loc := markerRe.FindStringIndex(line)
	if loc == nil || strings.TrimSpace(line[:loc[0]]) != "" {
		return -1
	}
	return loc[1]
}

func applyEdits(line string, edits []replacement) string {
	if len(edits) == 0 {
		return line
	}
	sort.Slice(edits, func(i, j int) bool { return edits[i].start > edits[j].start })
	for _, e := range edits {
		line = line[:e.start] + e.text + line[e.end:]
	}
	return line
}
