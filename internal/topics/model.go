// Package topics clusters sentence embeddings of one sentiment class into
// topics and describes each topic with class-based TF-IDF terms.
package topics

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"

	"CoreTaxSentiment/internal/domain"
	"CoreTaxSentiment/internal/logging"
	"CoreTaxSentiment/internal/ports"
)

// Options tunes clustering and topic representation.
type Options struct {
	MinTopicSize int      `json:"minTopicSize"`
	MinSamples   int      `json:"minSamples"`
	Epsilon      float64  `json:"epsilon"`
	TopWords     int      `json:"topWords"`
	NgramMax     int      `json:"ngramMax"`
	BatchSize    int      `json:"batchSize"`
	Stopwords    []string `json:"-"`
}

func (o Options) withDefaults() Options {
	if o.MinTopicSize <= 0 {
		o.MinTopicSize = 20
	}
	if o.MinSamples <= 0 {
		o.MinSamples = 10
	}
	if o.Epsilon <= 0 {
		o.Epsilon = 0.3
	}
	if o.TopWords <= 0 {
		o.TopWords = 10
	}
	if o.NgramMax <= 0 {
		o.NgramMax = 2
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 32
	}
	return o
}

// Result holds the topics found and one assignment per input document.
type Result struct {
	Topics      []domain.Topic
	Assignments []domain.TopicAssignment
}

// Modeler fits topics over documents using an embedding service.
type Modeler struct {
	embedder ports.Embedder
	labeler  ports.TopicLabeler
	opts     Options
	logger   *slog.Logger
}

// NewModeler builds a Modeler. labeler may be nil.
func NewModeler(embedder ports.Embedder, labeler ports.TopicLabeler, opts Options, logger *slog.Logger) *Modeler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Modeler{
		embedder: embedder,
		labeler:  labeler,
		opts:     opts.withDefaults(),
		logger:   logger.With("component", "topics"),
	}
}

// Options returns the effective options after defaults.
func (m *Modeler) Options() Options {
	return m.opts
}

// Fit embeds docs, clusters them and builds the topic table. Topics are
// numbered by size, largest first; the outlier topic (-1) is listed last
// when present.
func (m *Modeler) Fit(ctx context.Context, docs []string) (*Result, error) {
	if len(docs) == 0 {
		return &Result{Topics: []domain.Topic{}, Assignments: []domain.TopicAssignment{}}, nil
	}

	vectors, err := m.embed(ctx, docs)
	if err != nil {
		return nil, err
	}
	x, err := unitRows(vectors)
	if err != nil {
		return nil, err
	}

	labels := renumber(dbscan(x, m.opts.Epsilon, m.opts.MinSamples), m.opts.MinTopicSize)

	members := map[int][]int{}
	for i, l := range labels {
		members[l] = append(members[l], i)
	}

	stop := make(map[string]struct{}, len(m.opts.Stopwords))
	for _, w := range m.opts.Stopwords {
		stop[strings.ToLower(w)] = struct{}{}
	}
	terms := classTFIDF(docs, labels, m.opts.NgramMax, m.opts.TopWords, stop)

	ids := make([]int, 0, len(members))
	for id := 0; id < len(members); id++ {
		if _, ok := members[id]; ok {
			ids = append(ids, id)
		}
	}
	if _, ok := members[domain.OutlierTopic]; ok {
		ids = append(ids, domain.OutlierTopic)
	}

	topics := make([]domain.Topic, 0, len(ids))
	byID := make(map[int]domain.Topic, len(ids))
	for _, id := range ids {
		t := domain.Topic{
			ID:    id,
			Size:  len(members[id]),
			Terms: terms[id],
		}
		t.Name = topicName(id, t.Words())
		if id != domain.OutlierTopic {
			t.Centroid = centroid(x, members[id])
			t.Label = m.label(ctx, t)
		}
		topics = append(topics, t)
		byID[id] = t
	}

	assignments := make([]domain.TopicAssignment, len(docs))
	for i, l := range labels {
		t := byID[l]
		a := domain.TopicAssignment{ID: l, Name: t.Name, Words: t.Words()}
		if l != domain.OutlierTopic {
			a.Probability = clamp01(floats.Dot(x.RawRowView(i), t.Centroid))
		}
		assignments[i] = a
	}

	outliers := len(members[domain.OutlierTopic])
	found := len(ids)
	if outliers > 0 {
		found--
	}
	m.logger.Info("topics fitted", "documents", len(docs), "topics", found, "outliers", outliers)

	return &Result{Topics: topics, Assignments: assignments}, nil
}

// Annotate fits topics over the normalized text of records labeled label and
// attaches the assignment to each of them.
func (m *Modeler) Annotate(ctx context.Context, records []domain.Record, label domain.Label) (*Result, error) {
	var (
		idx  []int
		docs []string
	)
	for i, rec := range records {
		if rec.HasLabel(label) {
			idx = append(idx, i)
			docs = append(docs, rec.Normalized)
		}
	}

	res, err := m.Fit(ctx, docs)
	if err != nil {
		return nil, err
	}
	for j, i := range idx {
		a := res.Assignments[j]
		records[i].Topic = &a
	}
	return res, nil
}

func (m *Modeler) embed(ctx context.Context, docs []string) ([][]float64, error) {
	vectors := make([][]float64, 0, len(docs))
	for start := 0; start < len(docs); start += m.opts.BatchSize {
		end := min(start+m.opts.BatchSize, len(docs))
		batch, err := m.embedder.Embed(ctx, docs[start:end])
		if err != nil {
			return nil, fmt.Errorf("embed documents %d-%d: %w", start, end-1, err)
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("embed documents %d-%d: got %d vectors", start, end-1, len(batch))
		}
		vectors = append(vectors, batch...)
		m.logger.Debug("embedded batch", "from", start, "to", end)
	}
	return vectors, nil
}

func (m *Modeler) label(ctx context.Context, t domain.Topic) string {
	if m.labeler == nil || len(t.Terms) == 0 {
		return ""
	}
	label, err := m.labeler.LabelTopic(ctx, t.Words())
	if err != nil {
		m.logger.Warn("topic label failed", "topic", t.ID, "error", err)
		return ""
	}
	return label
}

// topicName joins the id with the first four terms, e.g. "0_login_gagal_otp_email".
func topicName(id int, words []string) string {
	parts := []string{strconv.Itoa(id)}
	for i, w := range words {
		if i == 4 {
			break
		}
		parts = append(parts, w)
	}
	return strings.Join(parts, "_")
}
