package tokenizer

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/legalchunk/internal/chunker"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_DefaultEncoding(t *testing.T) {
	c := New("", quietLogger())
	require.IsType(t, &Counter{}, c)
	assert.Equal(t, DefaultEncoding, Name(c))

	n := c.CountTokens("Điều 1. Phạm vi điều chỉnh")
	assert.Greater(t, n, 0)
	assert.Equal(t, 0, c.CountTokens(""))
}

func TestNew_UnknownEncodingFallsBackToGPT2(t *testing.T) {
	c := New("no_such_encoding", quietLogger())
	assert.Equal(t, fallbackEncoding, Name(c))
}

func TestCountTokens_SpecialTokensAsText(t *testing.T) {
	c := New(DefaultEncoding, quietLogger())
	assert.Greater(t, c.CountTokens("văn bản <|endoftext|> tiếp"), 3)
}

func TestName_WordCounter(t *testing.T) {
	assert.Equal(t, "words", Name(chunker.WordCounter{}))
}
