package report

import (
	"log/slog"
	"path/filepath"

	"CoreTaxSentiment/internal/domain"
	"CoreTaxSentiment/internal/keywords"
	"CoreTaxSentiment/internal/logging"
	"CoreTaxSentiment/internal/topics"
)

const (
	topWordsPerClass = 15
	topWordsMinLen   = 3
	topTermsOverall  = 20
	topicBarsShown   = 8
)

// Reporter writes every chart of a run into one directory. A chart that
// fails is logged and skipped.
type Reporter struct {
	dir    string
	logger *slog.Logger
}

// NewReporter creates a Reporter writing into dir.
func NewReporter(dir string, logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Reporter{dir: dir, logger: logger.With("component", "report")}
}

// SentimentCharts renders the distribution, per-source, per-class word and
// TF-IDF charts plus one word cloud per class. terms is the overall TF-IDF
// ranking. It returns the files written.
func (r *Reporter) SentimentCharts(records []domain.Record, terms []domain.TermWeight) []string {
	var written []string
	emit := func(name string, err error) {
		if err != nil {
			r.logger.Warn("chart skipped", "file", name, "error", err)
			return
		}
		written = append(written, r.path(name))
	}

	emit("sentiment_distribution.png", SentimentDistributionPNG(r.path("sentiment_distribution.png"), LabelCounts(records)))
	emit("sentiment_by_source.png", SentimentBySourcePNG(r.path("sentiment_by_source.png"), SentimentBySource(records)))

	for _, label := range chartLabels(records) {
		name := "top_words_" + string(label) + ".png"
		emit(name, WordCountsPNG(r.path(name), "Kata Teratas: "+string(label), ClassTopWords(records, label)))

		stemmed := TextsByLabel(records, label, stemmedText)
		name = "wordcloud_" + string(label) + ".html"
		emit(name, WordCloudHTML(r.path(name), "Word Cloud: "+string(label), stemmed))
	}

	if len(terms) > topTermsOverall {
		terms = terms[:topTermsOverall]
	}
	emit("tfidf_top_terms.png", TermWeightsPNG(r.path("tfidf_top_terms.png"), "Kata TF-IDF Teratas", terms))

	return written
}

// TopicCharts renders the topic map, term bars and hierarchy.
func (r *Reporter) TopicCharts(ts []domain.Topic) []string {
	var written []string
	emit := func(name string, err error) {
		if err != nil {
			r.logger.Warn("chart skipped", "file", name, "error", err)
			return
		}
		written = append(written, r.path(name))
	}

	emit("topic_map.html", TopicMapHTML(r.path("topic_map.html"), ts))
	emit("topic_barchart.html", TopicBarsHTML(r.path("topic_barchart.html"), ts, topicBarsShown))
	emit("topic_hierarchy.html", TopicHierarchyHTML(r.path("topic_hierarchy.html"), topics.Hierarchy(ts), ts))

	return written
}

// ClassTopWords counts the stemmed words of one class.
func ClassTopWords(records []domain.Record, label domain.Label) []keywords.WordCount {
	return keywords.TopWords(TextsByLabel(records, label, stemmedText), topWordsPerClass, topWordsMinLen)
}

func stemmedText(rec domain.Record) string { return rec.Stemmed }

func (r *Reporter) path(name string) string {
	return filepath.Join(r.dir, name)
}

// chartLabels is the three default classes followed by any other label found.
func chartLabels(records []domain.Record) []domain.Label {
	labels := []domain.Label{domain.LabelPositive, domain.LabelNegative, domain.LabelNeutral}
	seen := map[domain.Label]struct{}{}
	for _, l := range labels {
		seen[l] = struct{}{}
	}
	for _, l := range domain.Labels(records) {
		if _, ok := seen[l]; !ok {
			labels = append(labels, l)
			seen[l] = struct{}{}
		}
	}
	return labels
}
