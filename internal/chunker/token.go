package chunker

import "strings"

// Counter counts tokens in a piece of text. Implementations are shared by
// every worker and must be safe for concurrent use.
type Counter interface {
	CountTokens(text string) int
}

// CounterFunc adapts an ordinary function to the Counter interface.
type CounterFunc func(text string) int

func (f CounterFunc) CountTokens(text string) int { return f(text) }

// WordCounter approximates tokens by whitespace-separated words. It is the
// degraded fallback when no exact encoder can be loaded.
type WordCounter struct{}

func (WordCounter) CountTokens(text string) int {
	return len(strings.Fields(text))
}
