package parser

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fumiama/go-docx"
)

func TestDOCXParser_ParagraphsAndTables(t *testing.T) {
	w := docx.New().WithDefaultTheme()
	w.AddParagraph().AddText("NGHỊ ĐỊNH MẪU")
	w.AddParagraph().AddText("Điều 1. Phạm vi")
	tbl := w.AddTable(2, 2, 0, nil)
	tbl.TableRows[0].TableCells[0].AddParagraph().AddText("STT")
	tbl.TableRows[0].TableCells[1].AddParagraph().AddText("Tên")
	tbl.TableRows[1].TableCells[0].AddParagraph().AddText("1")
	tbl.TableRows[1].TableCells[1].AddParagraph().AddText("A|B")
	w.AddParagraph().AddText("Điều 2. Hiệu lực")

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		t.Fatalf("write docx: %v", err)
	}

	p := &DOCXParser{}
	doc, err := p.Parse(&buf, "nghi_dinh.docx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "NGHỊ ĐỊNH MẪU" {
		t.Errorf("expected title, got %q", doc.Title)
	}
	want := "Điều 1. Phạm vi\n\n| STT | Tên |\n| --- | --- |\n| 1 | A\\|B |\n\nĐiều 2. Hiệu lực"
	if !strings.Contains(doc.Text, want) {
		t.Errorf("expected %q in %q", want, doc.Text)
	}
}

func TestDOCXParser_Garbage(t *testing.T) {
	p := &DOCXParser{}
	if _, err := p.Parse(strings.NewReader("not a zip"), "bad.docx"); err == nil {
		t.Fatal("expected error for invalid docx")
	}
}
