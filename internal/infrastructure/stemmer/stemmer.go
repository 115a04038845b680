// Package stemmer adapts the Sastrawi Indonesian stemmer to ports.Stemmer.
package stemmer

import (
	"strings"

	sastrawi "github.com/RadhiFadlillah/go-sastrawi"

	"CoreTaxSentiment/internal/ports"
)

// Stemmer reduces Indonesian words to their root with the Sastrawi
// algorithm over its default root dictionary.
type Stemmer struct {
	dict  sastrawi.Dictionary
	inner sastrawi.Stemmer
}

var _ ports.Stemmer = (*Stemmer)(nil)

// New builds a stemmer over the default dictionary plus extra roots.
func New(extra ...string) *Stemmer {
	dict := sastrawi.DefaultDictionary()
	s := &Stemmer{dict: dict}
	s.AddRoots(extra...)
	return s
}

// AddRoots registers domain words such as product names as roots so that
// their affixed forms reduce to them.
func (s *Stemmer) AddRoots(roots ...string) {
	for _, r := range roots {
		if r = strings.ToLower(strings.TrimSpace(r)); r != "" {
			s.dict.Add(r)
		}
	}
	s.inner = sastrawi.NewStemmer(s.dict)
}

// Stem returns the root of word, or word itself when none is found.
func (s *Stemmer) Stem(word string) string {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return ""
	}
	return s.inner.Stem(word)
}
