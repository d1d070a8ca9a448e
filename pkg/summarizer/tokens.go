package summarizer

import (
	"github.com/tiktoken-go/tokenizer"
)

// TokenCounter provides token counting for prompt budget enforcement.
// All supported providers are approximated with the GPT-4 encoding.
type TokenCounter struct {
	codec tokenizer.Codec
}

// NewTokenCounter creates a token counter. The codec is nil on failure and the
// counter falls back to character-based estimation.
func NewTokenCounter() *TokenCounter {
	codec, err := tokenizer.ForModel(tokenizer.GPT4)
	if err != nil {
		return &TokenCounter{}
	}
	return &TokenCounter{codec: codec}
}

// Count returns the number of tokens in the given text.
func (tc *TokenCounter) Count(text string) int {
	if tc.codec == nil {
		// Fallback to character-based estimation (4 chars ≈ 1 token)
		return len(text) / 4
	}
	count, err := tc.codec.Count(text)
	if err != nil {
		return len(text) / 4
	}
	return count
}

// Truncate trims text to at most budget tokens, cutting from the end.
func (tc *TokenCounter) Truncate(text string, budget int) string {
	if budget <= 0 || tc.Count(text) <= budget {
		return text
	}
	if tc.codec == nil {
		limit := budget * 4
		if limit < len(text) {
			return text[:limit]
		}
		return text
	}
	ids, _, err := tc.codec.Encode(text)
	if err != nil || len(ids) <= budget {
		return text
	}
	truncated, err := tc.codec.Decode(ids[:budget])
	if err != nil {
		return text
	}
	return truncated
}
