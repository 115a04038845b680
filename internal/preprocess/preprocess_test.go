package preprocess

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CoreTaxSentiment/internal/config"
	"CoreTaxSentiment/internal/domain"
)

func TestCleaningFunctionsOnEmptyInput(t *testing.T) {
	t.Parallel()

	funcs := map[string]func(string) string{
		"RemovePunctuation":  RemovePunctuation,
		"RemoveNumbers":      RemoveNumbers,
		"RemoveSingleChars":  RemoveSingleChars,
		"CollapseWhitespace": CollapseWhitespace,
		"CaseFold":           CaseFold,
		"Clean":              Clean,
		"CleanSocial":        CleanSocial,
	}
	for name, fn := range funcs {
		assert.Equal(t, "", fn(""), name)
	}
	assert.Equal(t, "", NewDictionary(nil).Normalize(""))
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, NewStopwords(nil, nil, nil).Filter(nil))
}

func TestClean(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Coretax ERROR terus!!! 😡 2025":    "Coretax ERROR terus",
		"Login gagal, a b c lagi...":        "Login gagal lagi",
		"kenapa ’ sih (pajak)":              "kenapa sih pajak",
		"harga 100rb tetap mahal":           "harga 100rb tetap mahal",
		"email@contoh.com #coretax":         "email contohcom coretax",
		"  spasi   banyak\n\tdi  sini  ":    "spasi banyak di sini",
		"Aplikasinya bagus sekali, mantap!": "Aplikasinya bagus sekali mantap",
		"naïve café":                        "nave caf",
		"<br>tag &amp; entity":              "br tag amp entity",
	}
	for in, want := range cases {
		assert.Equal(t, want, Clean(in), in)
	}
}

func TestNormalizationIsIdempotent(t *testing.T) {
	t.Parallel()

	stop := NewStopwords([]string{"gak"}, []string{"apk"}, nil)
	samples := []string{
		"Aplikasinya bagus sekali, mantap!",
		"Coretax jelek, error terus gak bisa login",
		"   ",
		"apk pajak 2025 error",
	}
	for _, s := range samples {
		collapsed := CollapseWhitespace(s)
		assert.Equal(t, collapsed, CollapseWhitespace(collapsed))

		folded := CaseFold(s)
		assert.Equal(t, folded, CaseFold(folded))

		filtered := stop.Filter(Tokenize(CaseFold(Clean(s))))
		assert.Equal(t, filtered, stop.Filter(filtered))
	}
}

func TestDictionaryNormalize(t *testing.T) {
	t.Parallel()

	dict := NewDictionary(map[string]string{
		"gk":     "tidak",
		"bgt":    "banget",
		"ngga":   "tidak 2",
		"udh":    "",
		"mantul": "mantap betul",
	})

	assert.Equal(t, "tidak bisa banget", dict.Normalize("gk bisa bgt"))
	assert.Equal(t, "ngga udh", dict.Normalize("ngga  udh"))
	assert.Equal(t, "mantap betul", dict.Normalize("mantul"))
	assert.Equal(t, "gkx", dict.Normalize("gkx"))
	assert.Equal(t, 5, dict.Len())
}

func TestStopwords(t *testing.T) {
	t.Parallel()

	stop := NewStopwords([]string{"Gak"}, []string{"terimakasih"}, nil)
	got := stop.Filter([]string{"yang", "aplikasi", "gak", "terimakasih", "error", "dan"})
	assert.Equal(t, []string{"aplikasi", "error"}, got)
	assert.True(t, stop.Contains("sekali"))
	assert.False(t, stop.Contains("jelek"))
}

func TestDefaultStopwordsKeepEnglishTokens(t *testing.T) {
	t.Parallel()

	cfg := config.Default().Stopwords
	stop := NewStopwords(cfg.Extra, cfg.Special, cfg.Languages)
	tokens := Tokenize("aplikasi not working server down again before deadline very bad")
	assert.Equal(t, tokens, stop.Filter(tokens))

	english := NewStopwords(cfg.Extra, cfg.Special, []string{"en"})
	assert.True(t, english.Contains("again"))
	assert.False(t, english.Contains("aplikasi"))
}

type countingStemmer struct {
	calls int
}

func (c *countingStemmer) Stem(word string) string {
	c.calls++
	return strings.TrimSuffix(strings.TrimPrefix(word, "di"), "nya")
}

func TestStemCacheConsistency(t *testing.T) {
	t.Parallel()

	direct := &countingStemmer{}
	cached := NewStemCache(&countingStemmer{})

	vocab := []string{"dibayar", "aplikasinya", "error", "dibayar", "login", "aplikasinya"}
	for _, w := range vocab {
		assert.Equal(t, direct.Stem(w), cached.Stem(w), w)
	}
	assert.Equal(t, 4, cached.Calls())
	assert.Equal(t, 4, cached.Len())
}

func TestStemCacheWarmStemsDistinctTokensOnce(t *testing.T) {
	t.Parallel()

	stemmer := &countingStemmer{}
	cache := NewStemCache(stemmer)
	n := cache.Warm([][]string{{"dibayar", "error"}, {"error", "dibayar"}, {}, {"loginnya"}})

	assert.Equal(t, 3, n)
	assert.Equal(t, 3, stemmer.calls)
	assert.Equal(t, []string{"bayar", "error", "login"}, cache.StemTokens([]string{"dibayar", "error", "loginnya"}))
	assert.Equal(t, 3, stemmer.calls)
}

func TestPreprocessorProcess(t *testing.T) {
	t.Parallel()

	stemmer := &countingStemmer{}
	p := New(Options{
		Dictionary: NewDictionary(map[string]string{"gk": "tidak"}),
		Stopwords:  NewStopwords([]string{"gak"}, nil, nil),
		Stemmer:    stemmer,
	}, nil)

	records := []domain.Record{
		{Text: "Aplikasinya GK bisa dibayar 2025!!"},
		{Text: ""},
		{Text: "aplikasinya error, dibayar"},
	}
	out, err := p.Process(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, "Aplikasinya GK bisa dibayar", out[0].Cleaned)
	assert.Equal(t, "aplikasinya gk bisa dibayar", out[0].CaseFolded)
	assert.Equal(t, "aplikasinya tidak bisa dibayar", out[0].Normalized)
	assert.Equal(t, []string{"aplikasinya", "tidak", "bisa", "dibayar"}, out[0].Tokens)
	assert.Equal(t, []string{"aplikasinya", "dibayar"}, out[0].Filtered)
	assert.Equal(t, "aplikasi bayar", out[0].Stemmed)

	assert.Empty(t, out[1].Normalized)
	assert.Empty(t, out[1].Stemmed)

	assert.Equal(t, "aplikasi error bayar", out[2].Stemmed)
	assert.Equal(t, 3, p.StemCalls())
}

func TestPreprocessorMinLength(t *testing.T) {
	t.Parallel()

	p := New(Options{MinLength: 3}, nil)
	out, err := p.Process(context.Background(), []domain.Record{{Text: "ok"}, {Text: "lambat sekali"}})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "lambat sekali", out[0].Normalized)
}

func TestCleanSocial(t *testing.T) {
	t.Parallel()

	in := "@djp_ri Coretax #error lagi 😡 cek https://t.co/abc ya!!"
	assert.Equal(t, "Coretax error lagi cek ya", CleanSocial(in))
	assert.Equal(t, "Ngurus SPT 2025", CleanSocial("Ngurus SPT 2025 🙏"))
}
