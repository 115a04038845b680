package preprocess

import (
	"sort"

	"CoreTaxSentiment/internal/ports"
)

// StemCache stems each distinct token once and serves repeats from memory.
type StemCache struct {
	stemmer ports.Stemmer
	terms   map[string]string
	calls   int
}

// NewStemCache wraps a stemmer.
func NewStemCache(s ports.Stemmer) *StemCache {
	return &StemCache{stemmer: s, terms: map[string]string{}}
}

// Stem returns the cached root of token, asking the stemmer on first sight.
func (c *StemCache) Stem(token string) string {
	if root, ok := c.terms[token]; ok {
		return root
	}
	c.calls++
	root := c.stemmer.Stem(token)
	c.terms[token] = root
	return root
}

// Warm stems the distinct tokens of every row up front.
func (c *StemCache) Warm(rows [][]string) int {
	vocab := map[string]struct{}{}
	for _, row := range rows {
		for _, t := range row {
			vocab[t] = struct{}{}
		}
	}

	terms := make([]string, 0, len(vocab))
	for t := range vocab {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	for _, t := range terms {
		c.Stem(t)
	}
	return len(terms)
}

// StemTokens maps a row of tokens through the cache.
func (c *StemCache) StemTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if root := c.Stem(t); root != "" {
			out = append(out, root)
		}
	}
	return out
}

// Calls reports how many times the underlying stemmer was invoked.
func (c *StemCache) Calls() int {
	return c.calls
}

// Len reports the number of cached terms.
func (c *StemCache) Len() int {
	return len(c.terms)
}
