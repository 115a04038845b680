package topics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"CoreTaxSentiment/internal/domain"
	"CoreTaxSentiment/internal/keywords"
)

// classTFIDF treats every topic as one document and weights n-grams with
// class-based TF-IDF: l1-normalized class term frequency times
// log(1 + average class length / term frequency across classes).
// It returns up to topN terms per class, heaviest first.
func classTFIDF(docs []string, labels []int, ngramMax, topN int, stopwords map[string]struct{}) map[int][]domain.TermWeight {
	if ngramMax < 1 {
		ngramMax = 1
	}

	var classes []int
	classIndex := map[int]int{}
	counts := []map[string]float64{}
	vocabSet := map[string]struct{}{}

	for i, doc := range docs {
		label := labels[i]
		row, ok := classIndex[label]
		if !ok {
			row = len(classes)
			classIndex[label] = row
			classes = append(classes, label)
			counts = append(counts, map[string]float64{})
		}

		var tokens []string
		for _, t := range keywords.Tokenize(doc) {
			if _, stop := stopwords[t]; !stop {
				tokens = append(tokens, t)
			}
		}
		for _, g := range keywords.NGrams(tokens, 1, ngramMax) {
			counts[row][g]++
			vocabSet[g] = struct{}{}
		}
	}

	out := make(map[int][]domain.TermWeight, len(classes))
	if len(vocabSet) == 0 {
		for _, c := range classes {
			out[c] = []domain.TermWeight{}
		}
		return out
	}

	vocab := make([]string, 0, len(vocabSet))
	for t := range vocabSet {
		vocab = append(vocab, t)
	}
	sort.Strings(vocab)

	x := mat.NewDense(len(classes), len(vocab), nil)
	for r, row := range counts {
		for c, term := range vocab {
			x.Set(r, c, row[term])
		}
	}

	var avg float64
	for r := range classes {
		avg += floats.Sum(x.RawRowView(r))
	}
	avg /= float64(len(classes))

	idf := make([]float64, len(vocab))
	for c := range vocab {
		df := floats.Sum(mat.Col(nil, c, x))
		idf[c] = math.Log(avg/df + 1)
	}

	for r, label := range classes {
		row := x.RawRowView(r)
		if sum := floats.Sum(row); sum > 0 {
			floats.Scale(1/sum, row)
		}
		floats.Mul(row, idf)

		ranked := make([]domain.TermWeight, 0, len(vocab))
		for c, term := range vocab {
			if row[c] > 0 {
				ranked = append(ranked, domain.TermWeight{Term: term, Weight: row[c]})
			}
		}
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Weight > ranked[j].Weight
		})
		if topN > 0 && len(ranked) > topN {
			ranked = ranked[:topN]
		}
		out[label] = ranked
	}
	return out
}
