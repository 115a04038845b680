package keywords

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CoreTaxSentiment/internal/domain"
)

func TestTopTermsMatchesReferenceWeights(t *testing.T) {
	t.Parallel()

	e := NewExtractor(DefaultTopK, 0, []string{"coretax"})
	got := e.TopTerms([]string{"Coretax error login", "error lagi error", "login lancar", "  "})

	require.Len(t, got, 4)
	want := []domain.TermWeight{
		{Term: "error", Weight: 1.5426983231314653},
		{Term: "login", Weight: 1.3124552892928392},
		{Term: "lancar", Weight: 0.7959605415681652},
		{Term: "lagi", Weight: 0.5493512310263033},
	}
	for i := range want {
		assert.Equal(t, want[i].Term, got[i].Term)
		assert.InDelta(t, want[i].Weight, got[i].Weight, 1e-9)
	}
}

func TestMaxFeaturesKeepsMostFrequent(t *testing.T) {
	t.Parallel()

	e := NewExtractor(10, 2, nil)
	got := e.TopTerms([]string{"aa bb cc", "aa bb", "aa dd"})
	require.Len(t, got, 2)
	assert.Equal(t, "aa", got[0].Term)
	assert.InDelta(t, 2.2267110740499434, got[0].Weight, 1e-9)
	assert.Equal(t, "bb", got[1].Term)
}

func TestKeywordsEmptyInput(t *testing.T) {
	t.Parallel()

	e := NewExtractor(DefaultTopK, DefaultMaxFeatures, []string{"dan"})
	assert.Empty(t, e.Keywords(nil))
	assert.NotNil(t, e.Keywords(nil))
	assert.Empty(t, e.Keywords([]string{"", "   "}))
	assert.Empty(t, e.Keywords([]string{"dan", "a b c"}))
}

func TestKeywordsCapsAtTopK(t *testing.T) {
	t.Parallel()

	var words []string
	for c := 'a'; c <= 'z'; c++ {
		words = append(words, strings.Repeat(string(c), 3))
	}
	e := NewExtractor(DefaultTopK, DefaultMaxFeatures, nil)
	got := e.Keywords([]string{strings.Join(words, " ")})
	assert.Len(t, got, DefaultTopK)
	assert.Equal(t, "aaa", got[0])
}

func TestByLabel(t *testing.T) {
	t.Parallel()

	pos := &domain.Prediction{Label: domain.LabelPositive, Score: 0.9}
	neg := &domain.Prediction{Label: domain.LabelNegative, Score: 0.8}
	records := []domain.Record{
		{Normalized: "aplikasi bagus mantap", Sentiment: pos},
		{Normalized: "server error lambat", Sentiment: neg},
		{Normalized: "", Sentiment: nil},
		{Normalized: "error lagi", Sentiment: neg},
	}

	set := NewExtractor(DefaultTopK, DefaultMaxFeatures, nil).ByLabel(records, func(r domain.Record) string { return r.Normalized })
	require.Len(t, set, 2)
	assert.ElementsMatch(t, []string{"aplikasi", "bagus", "mantap"}, set[domain.LabelPositive])
	assert.Equal(t, "error", set[domain.LabelNegative][0])
	assert.LessOrEqual(t, len(set[domain.LabelNegative]), DefaultTopK)
}

func TestTopWords(t *testing.T) {
	t.Parallel()

	got := TopWords([]string{"bayar pajak gagal", "gagal login gagal", "pajak ok"}, 2, 3)
	assert.Equal(t, []WordCount{{Word: "gagal", Count: 3}, {Word: "pajak", Count: 2}}, got)
	assert.Empty(t, TopWords(nil, 15, 3))
}

func TestTopNGrams(t *testing.T) {
	t.Parallel()

	got := TopNGrams([]string{"Tidak bisa login", "tidak bisa bayar", "bisa login"}, 2, 10)
	require.NotEmpty(t, got)
	assert.Equal(t, WordCount{Word: "tidak bisa", Count: 2}, got[0])
	assert.Equal(t, WordCount{Word: "bisa login", Count: 2}, got[1])
	assert.Len(t, got, 3)
}

func TestNGrams(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b", "c", "a b", "b c"}, NGrams([]string{"a", "b", "c"}, 1, 2))
	assert.Empty(t, NGrams([]string{"a"}, 2, 2))
}
