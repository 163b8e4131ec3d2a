package chunker

import (
	"strings"

	"github.com/dgallion1/legalchunk/internal/doctree"
	"github.com/dgallion1/legalchunk/internal/footnote"
)

// Config controls chunking behavior.
type Config struct {
	MaxTokens int             // Token budget per output unit.
	Footnotes footnote.Policy // Which footnote occurrence is the definition.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens: DefaultMaxTokens,
		Footnotes: footnote.SecondOccurrence,
	}
}

// Result is the chunked form of one document.
type Result struct {
	Title      string
	Units      []doctree.Unit
	Chunks     int      // Structural chunks after orphan merging
	Split      int      // Chunks that had to be cut to fit the budget
	Oversized  int      // Units holding a single line over budget
	Footnotes  int      // Footnotes inlined
	Unresolved []string // Footnote numbers left in place
}

// OverBudget reports whether any chunk of the document needed splitting.
func (r Result) OverBudget() bool { return r.Split > 0 }

// Chunker turns documents into titled, budgeted units. It holds no mutable
// state and may be shared across goroutines as long as its Counter can.
type Chunker struct {
	cfg     Config
	counter Counter
}

// New creates a Chunker. A nil counter falls back to WordCounter.
func New(cfg Config, counter Counter) *Chunker {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if counter == nil {
		counter = WordCounter{}
	}
	return &Chunker{cfg: cfg, counter: counter}
}

// Config returns the effective configuration.
func (c *Chunker) Config() Config { return c.cfg }

// Process runs the whole chain for one document: footnotes are inlined,
// the text is cut at structural boundaries, orphan headers are merged
// forward, and each chunk is cleaned, budgeted and polished into units.
func (c *Chunker) Process(doc *doctree.Document) Result {
	title := doc.Title
	if title == "" {
		title = doctree.DeriveTitle(doc.Filename, doc.Text)
	}

	fn := footnote.Resolve(doc.Text, c.cfg.Footnotes)
	res := Result{
		Title:      title,
		Footnotes:  len(fn.Table),
		Unresolved: fn.Unresolved,
	}

	chunks := MergeOrphans(trimChunks(Partition(fn.Text, Scan(fn.Text))))
	res.Chunks = len(chunks)

	for _, ch := range chunks {
		body := NormalizeNewlines(StripTitleLines(ch.Text, title))
		if body == "" {
			continue
		}
		split := SplitByBudget(body, c.counter, c.cfg.MaxTokens)
		if split.OverBudget {
			res.Split++
		}
		for _, part := range MergeContinuations(split.Parts) {
			text := Polish(part.Text)
			if strings.TrimSpace(text) == "" {
				continue
			}
			if part.OverBudget {
				res.Oversized++
			}
			res.Units = append(res.Units, doctree.Unit{
				Title:      title,
				Text:       text,
				OverBudget: part.OverBudget,
			})
		}
	}
	return res
}
