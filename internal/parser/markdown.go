package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/legalchunk/internal/doctree"
)

// MarkdownParser handles Markdown files using goldmark. Markup is dropped
// but each source line of a block is kept as is, so pipe tables (parsed as
// plain paragraphs without the table extension) survive verbatim. List
// markers are restored because clause numbering is part of the legal text.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var blocks []string
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Type() != ast.TypeBlock || n.Lines().Len() == 0 {
			return ast.WalkContinue, nil
		}
		lines := make([]string, 0, n.Lines().Len())
		for i := 0; i < n.Lines().Len(); i++ {
			seg := n.Lines().At(i)
			lines = append(lines, strings.TrimRight(string(seg.Value(src)), " \t\r\n"))
		}
		lines[0] = listMarker(n) + lines[0]
		blocks = append(blocks, strings.Join(lines, "\n"))
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", filename, err)
	}

	return newDocument(filename, strings.Join(blocks, "\n\n"))
}

// listMarker rebuilds the bullet or number of the list item that n opens.
func listMarker(n ast.Node) string {
	item, ok := n.Parent().(*ast.ListItem)
	if !ok || item.FirstChild() != n {
		return ""
	}
	list, ok := item.Parent().(*ast.List)
	if !ok {
		return ""
	}
	if !list.IsOrdered() {
		return "- "
	}
	idx := 0
	for c := list.FirstChild(); c != nil && c != ast.Node(item); c = c.NextSibling() {
		idx++
	}
	return fmt.Sprintf("%d%c ", list.Start+idx, list.Marker)
}
