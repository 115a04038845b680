// Package lexicon provides an offline sentiment classifier driven by a small
// Indonesian polarity word list.
package lexicon

import (
	"context"
	"strings"
	"unicode"

	"CoreTaxSentiment/internal/domain"
	"CoreTaxSentiment/internal/ports"
)

var defaultPositive = []string{
	"bagus", "baik", "mantap", "mantab", "keren", "lancar", "mudah", "cepat", "puas",
	"membantu", "terbantu", "berhasil", "sukses", "suka", "senang", "hebat", "oke",
	"nyaman", "praktis", "jelas", "rapi", "stabil", "top", "makasih", "terimakasih",
	"good", "nice", "great", "easy", "mantul", "josss", "recommended",
}

var defaultNegative = []string{
	"jelek", "buruk", "error", "eror", "gagal", "lambat", "lemot", "susah", "sulit",
	"ribet", "rusak", "kecewa", "bingung", "lelet", "down", "gangguan", "masalah",
	"parah", "payah", "bug", "crash", "hang", "macet", "mahal", "ruwet", "repot",
	"kesal", "kesel", "menyebalkan", "ngelag", "lag", "tidakbisa", "gabisa", "bad",
}

var negators = map[string]struct{}{
	"tidak": {}, "tdk": {}, "bukan": {}, "gak": {}, "ga": {}, "nggak": {}, "ngga": {},
	"enggak": {}, "gk": {}, "tak": {}, "belum": {}, "blm": {}, "kurang": {}, "jangan": {},
}

// Classifier scores text by counting polarity words. A negator directly
// before a polarity word flips it.
type Classifier struct {
	positive map[string]struct{}
	negative map[string]struct{}
}

var _ ports.Classifier = (*Classifier)(nil)

// New builds a Classifier on the built-in lists plus any extra words.
func New(extraPositive, extraNegative []string) *Classifier {
	c := &Classifier{
		positive: make(map[string]struct{}),
		negative: make(map[string]struct{}),
	}
	for _, w := range append(append([]string(nil), defaultPositive...), extraPositive...) {
		c.positive[strings.ToLower(w)] = struct{}{}
	}
	for _, w := range append(append([]string(nil), defaultNegative...), extraNegative...) {
		c.negative[strings.ToLower(w)] = struct{}{}
	}
	return c
}

// Classify returns one prediction per text. Context cancellation is the only error.
func (c *Classifier) Classify(ctx context.Context, texts []string) ([]domain.Prediction, error) {
	out := make([]domain.Prediction, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = c.score(text)
	}
	return out, nil
}

func (c *Classifier) score(text string) domain.Prediction {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var pos, neg int
	for i, tok := range tokens {
		polarity := 0
		if _, ok := c.positive[tok]; ok {
			polarity = 1
		} else if _, ok := c.negative[tok]; ok {
			polarity = -1
		}
		if polarity == 0 {
			continue
		}
		if i > 0 {
			if _, ok := negators[tokens[i-1]]; ok {
				polarity = -polarity
			}
		}
		if polarity > 0 {
			pos++
		} else {
			neg++
		}
	}

	total := pos + neg
	switch {
	case pos > neg:
		return domain.Prediction{Label: domain.LabelPositive, Score: float64(pos) / float64(total)}
	case neg > pos:
		return domain.Prediction{Label: domain.LabelNegative, Score: float64(neg) / float64(total)}
	case total == 0:
		return domain.Prediction{Label: domain.LabelNeutral, Score: 1}
	default:
		return domain.Prediction{Label: domain.LabelNeutral, Score: 0.5}
	}
}
