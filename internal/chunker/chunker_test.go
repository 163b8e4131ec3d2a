package chunker

import (
	"strings"
	"testing"

	"github.com/dgallion1/legalchunk/internal/doctree"
)

func TestProcess_MergesChapterIntoFirstArticle(t *testing.T) {
	text := "Chương I\nQuy định chung\nĐiều 1. Phạm vi điều chỉnh\nNội dung 1.\nĐiều 2. Giải thích từ ngữ\nNội dung 2."

	bounds := Scan(text)
	if len(bounds) != 3 {
		t.Fatalf("expected 3 boundaries, got %d: %+v", len(bounds), bounds)
	}
	if bounds[0].Kind != doctree.KindChapter || bounds[1].Kind != doctree.KindArticle {
		t.Errorf("unexpected kinds: %+v", bounds)
	}

	chunks := MergeOrphans(trimChunks(Partition(text, bounds)))
	want := []string{
		"Chương I\nQuy định chung\nĐiều 1. Phạm vi điều chỉnh\nNội dung 1.",
		"Điều 2. Giải thích từ ngữ\nNội dung 2.",
	}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d", len(want), len(chunks))
	}
	for i, c := range chunks {
		if c.Text != want[i] {
			t.Errorf("chunk %d: got %q, want %q", i, c.Text, want[i])
		}
	}
}

func TestProcess_FullDocument(t *testing.T) {
	doc := &doctree.Document{
		Filename: "luat_mau.txt",
		Text:     "LUẬT MẪU\nChương I\nQUY ĐỊNH CHUNG\nĐiều 1. Phạm vi[1]\nNội dung.\n\n[1] Sửa đổi năm 2020.\n",
	}

	res := New(DefaultConfig(), WordCounter{}).Process(doc)

	if res.Title != "LUẬT MẪU" {
		t.Errorf("expected derived title, got %q", res.Title)
	}
	if res.Footnotes != 1 || len(res.Unresolved) != 0 {
		t.Errorf("expected one resolved footnote, got %d (unresolved %v)", res.Footnotes, res.Unresolved)
	}
	if len(res.Units) != 1 {
		t.Fatalf("expected 1 unit, got %d: %+v", len(res.Units), res.Units)
	}
	want := "Chương I\nQUY ĐỊNH CHUNG\nĐiều 1. Phạm vi[Sửa đổi năm 2020]\nNội dung."
	if res.Units[0].Text != want {
		t.Errorf("got %q, want %q", res.Units[0].Text, want)
	}
	if res.OverBudget() {
		t.Error("small document should not be over budget")
	}
}

func TestProcess_SplitsLongArticle(t *testing.T) {
	para := strings.TrimSpace(strings.Repeat("từ ", 40))
	doc := &doctree.Document{
		Title: "Nghị định thử",
		Text:  "Điều 1. Dài\n" + para + "\n\n" + para + "\n\n" + para,
	}

	res := New(Config{MaxTokens: 90}, WordCounter{}).Process(doc)

	if !res.OverBudget() {
		t.Fatal("expected the article to be split")
	}
	if len(res.Units) != 2 {
		t.Fatalf("expected 2 units, got %d", len(res.Units))
	}
	for i, u := range res.Units {
		if u.Title != "Nghị định thử" {
			t.Errorf("unit %d: title %q", i, u.Title)
		}
	}
}

func TestProcess_EmptyDocument(t *testing.T) {
	res := New(DefaultConfig(), nil).Process(&doctree.Document{Filename: "trong_rong.txt", Text: " \n\n "})
	if len(res.Units) != 0 {
		t.Errorf("expected no units, got %d", len(res.Units))
	}
	if res.Title != "trong rong" {
		t.Errorf("expected filename title, got %q", res.Title)
	}
}

func TestNew_Defaults(t *testing.T) {
	c := New(Config{}, nil)
	if c.Config().MaxTokens != DefaultMaxTokens {
		t.Errorf("expected default budget, got %d", c.Config().MaxTokens)
	}
}
