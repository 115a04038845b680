package preprocess

import (
	_ "embed"
	"strings"

	"github.com/bbalet/stopwords"
)

//go:embed stopwords_id.txt
var indonesianStopwords string

// Stopwords is the union of the built-in Indonesian list, domain additions
// and the bbalet/stopwords lists for the configured languages.
type Stopwords struct {
	set       map[string]struct{}
	languages []string
	memo      map[string]bool
}

// NewStopwords builds the stopword set. extra and special are appended to
// the Indonesian list; languages are ISO 639-1 codes known to bbalet/stopwords.
func NewStopwords(extra, special, languages []string) *Stopwords {
	s := &Stopwords{
		set:       map[string]struct{}{},
		languages: languages,
		memo:      map[string]bool{},
	}
	for _, w := range strings.Fields(indonesianStopwords) {
		s.set[w] = struct{}{}
	}
	for _, list := range [][]string{extra, special} {
		for _, w := range list {
			if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
				s.set[w] = struct{}{}
			}
		}
	}
	return s
}

// Contains reports whether token is a stopword.
func (s *Stopwords) Contains(token string) bool {
	if _, ok := s.set[token]; ok {
		return true
	}
	if len(s.languages) == 0 {
		return false
	}
	if v, ok := s.memo[token]; ok {
		return v
	}

	drop := false
	for _, lang := range s.languages {
		if strings.TrimSpace(stopwords.CleanString(token, lang, false)) == "" {
			drop = true
			break
		}
	}
	s.memo[token] = drop
	return drop
}

// Filter returns tokens that are not stopwords, preserving order.
func (s *Stopwords) Filter(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !s.Contains(t) {
			out = append(out, t)
		}
	}
	return out
}
