package preprocess

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"CoreTaxSentiment/internal/domain"
	"CoreTaxSentiment/internal/ports"
)

// Options configures a Preprocessor.
type Options struct {
	Dictionary *Dictionary
	Stopwords  *Stopwords
	Stemmer    ports.Stemmer
	// MinLength drops rows whose normalized text is shorter; 0 keeps every row.
	MinLength int
}

// Preprocessor runs the normalization chain stage by stage over a table.
type Preprocessor struct {
	dict      *Dictionary
	stop      *Stopwords
	cache     *StemCache
	minLength int
	logger    *slog.Logger
}

// New assembles a Preprocessor. A nil Stopwords means no stopword removal;
// a nil Stemmer leaves tokens unchanged.
func New(opts Options, log *slog.Logger) *Preprocessor {
	stemmer := opts.Stemmer
	if stemmer == nil {
		stemmer = identityStemmer{}
	}
	return &Preprocessor{
		dict:      opts.Dictionary,
		stop:      opts.Stopwords,
		cache:     NewStemCache(stemmer),
		minLength: opts.MinLength,
		logger:    log,
	}
}

// Process fills the derived text columns of every record. Rows keep their
// order; rows are only dropped when MinLength is set.
func (p *Preprocessor) Process(ctx context.Context, records []domain.Record) ([]domain.Record, error) {
	p.debug("cleaning text", "rows", len(records))
	for i := range records {
		records[i].Cleaned = Clean(records[i].Text)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.debug("case folding")
	for i := range records {
		records[i].CaseFolded = CaseFold(records[i].Cleaned)
	}

	p.debug("normalizing words", "dictionary_entries", p.dict.Len())
	for i := range records {
		records[i].Normalized = p.dict.Normalize(records[i].CaseFolded)
	}

	p.debug("tokenizing")
	for i := range records {
		records[i].Tokens = Tokenize(records[i].Normalized)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.debug("removing stopwords")
	for i := range records {
		if p.stop == nil {
			records[i].Filtered = append([]string(nil), records[i].Tokens...)
			continue
		}
		records[i].Filtered = p.stop.Filter(records[i].Tokens)
	}

	rows := make([][]string, len(records))
	for i := range records {
		rows[i] = records[i].Filtered
	}
	distinct := p.cache.Warm(rows)
	p.debug("stemming", "distinct_terms", distinct, "stemmer_calls", p.cache.Calls())
	for i := range records {
		records[i].Stemmed = strings.Join(p.cache.StemTokens(records[i].Filtered), " ")
	}

	if p.minLength > 0 {
		before := len(records)
		records = dropShort(records, p.minLength)
		p.debug("short rows dropped", "dropped", before-len(records))
	}

	return records, ctx.Err()
}

// StemCalls reports stemmer invocations made so far.
func (p *Preprocessor) StemCalls() int {
	return p.cache.Calls()
}

func dropShort(records []domain.Record, minLength int) []domain.Record {
	out := records[:0]
	for _, rec := range records {
		if utf8.RuneCountInString(rec.Normalized) < minLength {
			continue
		}
		out = append(out, rec)
	}
	return out
}

type identityStemmer struct{}

func (identityStemmer) Stem(word string) string { return word }

func (p *Preprocessor) debug(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
