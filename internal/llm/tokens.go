package llm

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// cl100k loads the cl100k_base encoding once. Loading can fail when the
// encoding data cannot be fetched, in which case counting degrades to a
// heuristic.
var cl100k = sync.OnceValue(func() *tiktoken.Tiktoken {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil
	}
	return enc
})

// promptTokens sums the token footprint of a request's messages. Only used
// for debug logging and budget sanity checks, so the heuristic fallback is
// acceptable.
func promptTokens(messages []Message) int {
	enc := cl100k()
	total := 0
	for _, msg := range messages {
		if enc != nil {
			total += len(enc.Encode(msg.Content, nil, nil))
		} else {
			total += estimateTokens(msg.Content)
		}
	}
	return total
}

// estimateTokens approximates a token count as one token per four characters
// of non-whitespace text, never less than one token per word.
func estimateTokens(text string) int {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}
	runes := 0
	for _, word := range words {
		runes += len([]rune(word))
	}
	if est := runes / 4; est > len(words) {
		return est
	}
	return len(words)
}
