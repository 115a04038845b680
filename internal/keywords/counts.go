package keywords

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// WordCount is a term with its raw frequency.
type WordCount struct {
	Word  string
	Count int
}

// TopWords counts whitespace-separated words longer than minLen characters
// across texts and returns the n most common. Ties keep first-seen order.
func TopWords(texts []string, n, minLen int) []WordCount {
	counts := map[string]int{}
	var order []string
	for _, t := range texts {
		for _, w := range strings.Fields(t) {
			if utf8.RuneCountInString(w) <= minLen {
				continue
			}
			if _, ok := counts[w]; !ok {
				order = append(order, w)
			}
			counts[w]++
		}
	}
	return mostCommon(counts, order, n)
}

// TopNGrams counts word n-grams of size size over lowercased texts and
// returns the limit most frequent.
func TopNGrams(texts []string, size, limit int) []WordCount {
	if size <= 0 {
		return nil
	}
	counts := map[string]int{}
	var order []string
	for _, t := range texts {
		tokens := Tokenize(t)
		for _, g := range NGrams(tokens, size, size) {
			if _, ok := counts[g]; !ok {
				order = append(order, g)
			}
			counts[g]++
		}
	}
	return mostCommon(counts, order, limit)
}

func mostCommon(counts map[string]int, order []string, n int) []WordCount {
	out := make([]WordCount, len(order))
	for i, w := range order {
		out[i] = WordCount{Word: w, Count: counts[w]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// NGrams returns all n-grams of tokens with lo <= n <= hi, shortest first.
func NGrams(tokens []string, lo, hi int) []string {
	var out []string
	for n := lo; n <= hi; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}
