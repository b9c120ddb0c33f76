// Package tokenizer estimates prompt sizes in model tokens.
package tokenizer

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure Counter implements the interface.
var _ driven.TokenCounter = (*Counter)(nil)

// DefaultEncoding is the BPE used for estimates.
const DefaultEncoding = "cl100k_base"

// Counter counts tokens with a tiktoken encoding. The encoding is loaded on
// first use; when it cannot be loaded, counts fall back to len(text)/4.
type Counter struct {
	encoding string

	once sync.Once
	enc  *tiktoken.Tiktoken
	load func(string) (*tiktoken.Tiktoken, error)
}

// New creates a counter for the given encoding, or DefaultEncoding if empty.
func New(encoding string) *Counter {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	return &Counter{
		encoding: encoding,
		load:     tiktoken.GetEncoding,
	}
}

// Count returns the number of tokens in text.
func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}

	c.once.Do(func() {
		enc, err := c.load(c.encoding)
		if err != nil {
			logger.Warn("Token encoding %s unavailable, estimating: %v", c.encoding, err)
			return
		}
		c.enc = enc
	})

	if c.enc == nil {
		return Estimate(text)
	}
	return len(c.enc.Encode(text, nil, nil))
}

// Estimate approximates a token count as one token per four bytes.
func Estimate(text string) int {
	if text == "" {
		return 0
	}
	return max(len(text)/4, 1)
}
