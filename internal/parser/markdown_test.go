package parser

import (
	"fmt"
	"strings"
	"testing"
)

func TestMarkdownParser_KeepsLegalStructure(t *testing.T) {
	input := `# LUẬT MẪU

## Chương I

**Điều 1.** Phạm vi điều chỉnh

1. Khoản một.
2. Khoản hai.

| STT | Tên |
| --- | --- |
| 1 | A |
`
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "luat.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "LUẬT MẪU" {
		t.Errorf("expected heading as title, got %q", doc.Title)
	}
	for _, want := range []string{
		"\n\nChương I\n\n",
		"**Điều 1.** Phạm vi điều chỉnh",
		"1. Khoản một.\n\n2. Khoản hai.",
		"| STT | Tên |\n| --- | --- |\n| 1 | A |",
	} {
		if !strings.Contains(doc.Text, want) {
			t.Errorf("expected text to contain %q, got %q", want, doc.Text)
		}
	}
	if strings.Contains(doc.Text, "#") {
		t.Errorf("heading markers should be dropped, got %q", doc.Text)
	}
}

func TestMarkdownParser_UnorderedList(t *testing.T) {
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader("- một\n- hai\n"), "list.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Text != "- một\n\n- hai" {
		t.Errorf("got %q", doc.Text)
	}
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
