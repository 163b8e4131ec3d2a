// Package tokenizer provides the token counter used for budgeting. It loads
// a tiktoken BPE encoding from the embedded offline tables and falls back to
// counting words when no encoding can be loaded.
package tokenizer

import (
	"log/slog"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"

	"github.com/dgallion1/legalchunk/internal/chunker"
)

// DefaultEncoding is tried first when no encoding is configured.
const DefaultEncoding = "cl100k_base"

// fallbackEncoding is the GPT-2 vocabulary, tried before giving up on BPE.
const fallbackEncoding = "r50k_base"

var loaderOnce sync.Once

// Counter counts tokens with a BPE encoding.
type Counter struct {
	enc  *tiktoken.Tiktoken
	name string
	log  *slog.Logger
}

// New returns the best available counter. The choice is made once and holds
// for the life of the process. When neither the requested encoding nor the
// GPT-2 one loads, a word counter is returned and a warning is logged.
func New(encoding string, log *slog.Logger) chunker.Counter {
	if log == nil {
		log = slog.Default()
	}
	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})
	if encoding == "" {
		encoding = DefaultEncoding
	}

	for _, name := range []string{encoding, fallbackEncoding} {
		enc, err := tiktoken.GetEncoding(name)
		if err != nil {
			log.Warn("tokenizer encoding unavailable", "encoding", name, "error", err)
			continue
		}
		log.Info("tokenizer ready", "encoding", name)
		return &Counter{enc: enc, name: name, log: log}
	}

	log.Warn("tokenizer unavailable, counting words instead")
	return chunker.WordCounter{}
}

// Encoding returns the name of the loaded encoding.
func (c *Counter) Encoding() string { return c.name }

// CountTokens returns the number of BPE tokens in text. Special-token
// markers are encoded as plain text. If the encoder panics on some input
// the words are counted instead.
func (c *Counter) CountTokens(text string) (n int) {
	if text == "" {
		return 0
	}
	defer func() {
		if r := recover(); r != nil {
			c.log.Warn("tokenizer failed, counting words", "panic", r)
			n = chunker.WordCounter{}.CountTokens(text)
		}
	}()
	return len(c.enc.Encode(text, nil, nil))
}

// Name describes a counter for logs and stats.
func Name(c chunker.Counter) string {
	if bc, ok := c.(*Counter); ok {
		return bc.Encoding()
	}
	return "words"
}
