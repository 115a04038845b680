// Package keywords ranks terms per sentiment class by summed TF-IDF weight.
package keywords

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"CoreTaxSentiment/internal/domain"
)

const (
	DefaultTopK        = 15
	DefaultMaxFeatures = 100
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Extractor computes scikit-learn style TF-IDF: smooth idf, raw term
// counts, l2-normalized rows, vocabulary capped to the most frequent terms.
type Extractor struct {
	topK        int
	maxFeatures int
	stopwords   map[string]struct{}
}

// NewExtractor builds an Extractor. maxFeatures <= 0 keeps the whole vocabulary.
func NewExtractor(topK, maxFeatures int, stopwords []string) *Extractor {
	stop := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stop[strings.ToLower(w)] = struct{}{}
	}
	return &Extractor{topK: topK, maxFeatures: maxFeatures, stopwords: stop}
}

// Keywords returns the topK terms of docs. Blank docs are ignored; an empty
// or degenerate corpus yields an empty list.
func (e *Extractor) Keywords(docs []string) []string {
	ranked := e.TopTerms(docs)
	if e.topK > 0 && len(ranked) > e.topK {
		ranked = ranked[:e.topK]
	}
	out := make([]string, len(ranked))
	for i, tw := range ranked {
		out[i] = tw.Term
	}
	return out
}

// TopTerms returns every vocabulary term with its summed TF-IDF weight,
// heaviest first; equal weights keep alphabetical order.
func (e *Extractor) TopTerms(docs []string) []domain.TermWeight {
	var tokenized [][]string
	for _, d := range docs {
		if strings.TrimSpace(d) == "" {
			continue
		}
		tokenized = append(tokenized, e.analyze(d))
	}
	if len(tokenized) == 0 {
		return []domain.TermWeight{}
	}

	vocab := e.vocabulary(tokenized)
	if len(vocab) == 0 {
		return []domain.TermWeight{}
	}
	index := make(map[string]int, len(vocab))
	for i, term := range vocab {
		index[term] = i
	}

	n := len(tokenized)
	x := mat.NewDense(n, len(vocab), nil)
	df := make([]float64, len(vocab))
	for r, tokens := range tokenized {
		for _, tok := range tokens {
			if c, ok := index[tok]; ok {
				if x.At(r, c) == 0 {
					df[c]++
				}
				x.Set(r, c, x.At(r, c)+1)
			}
		}
	}

	idf := make([]float64, len(vocab))
	for c := range idf {
		idf[c] = math.Log(float64(1+n)/(1+df[c])) + 1
	}

	for r := 0; r < n; r++ {
		row := x.RawRowView(r)
		floats.Mul(row, idf)
		if norm := floats.Norm(row, 2); norm > 0 {
			floats.Scale(1/norm, row)
		}
	}

	ones := make([]float64, n)
	for i := range ones {
		ones[i] = 1
	}
	var sums mat.VecDense
	sums.MulVec(x.T(), mat.NewVecDense(n, ones))

	ranked := make([]domain.TermWeight, len(vocab))
	for c, term := range vocab {
		ranked[c] = domain.TermWeight{Term: term, Weight: sums.AtVec(c)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Weight > ranked[j].Weight
	})
	return ranked
}

// ByLabel extracts keywords for every label present in records, using the
// text selected by field.
func (e *Extractor) ByLabel(records []domain.Record, field func(domain.Record) string) domain.KeywordSet {
	set := domain.KeywordSet{}
	for _, label := range domain.Labels(records) {
		var docs []string
		for _, rec := range records {
			if rec.HasLabel(label) {
				docs = append(docs, field(rec))
			}
		}
		set[label] = e.Keywords(docs)
	}
	return set
}

// Tokenize lowercases doc and splits it into word tokens of two or more characters.
func Tokenize(doc string) []string {
	return tokenPattern.FindAllString(strings.ToLower(doc), -1)
}

func (e *Extractor) analyze(doc string) []string {
	tokens := Tokenize(doc)
	out := tokens[:0]
	for _, t := range tokens {
		if _, stop := e.stopwords[t]; !stop {
			out = append(out, t)
		}
	}
	return out
}

// vocabulary returns the sorted feature names, keeping only the
// maxFeatures most frequent terms when a cap is set.
func (e *Extractor) vocabulary(docs [][]string) []string {
	freq := map[string]int{}
	for _, tokens := range docs {
		for _, t := range tokens {
			freq[t]++
		}
	}

	terms := make([]string, 0, len(freq))
	for t := range freq {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	if e.maxFeatures > 0 && len(terms) > e.maxFeatures {
		sort.SliceStable(terms, func(i, j int) bool {
			return freq[terms[i]] > freq[terms[j]]
		})
		terms = terms[:e.maxFeatures]
		sort.Strings(terms)
	}
	return terms
}
