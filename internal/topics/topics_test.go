package topics

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CoreTaxSentiment/internal/domain"
)

// keywordEmbedder maps each text to a fixed axis based on the first keyword it contains.
type keywordEmbedder struct {
	calls int
	err   error
}

func (e *keywordEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float64, len(texts))
	for i, t := range texts {
		switch {
		case strings.Contains(t, "login"):
			out[i] = []float64{1, 0, 0}
		case strings.Contains(t, "server"):
			out[i] = []float64{0, 2, 0}
		default:
			out[i] = []float64{0, 0, 1}
		}
	}
	return out, nil
}

type stubLabeler struct{}

func (stubLabeler) LabelTopic(_ context.Context, words []string) (string, error) {
	if words[0] == "gagal" {
		return "Gagal login", nil
	}
	return "", errors.New("rate limited")
}

func corpus() []string {
	var docs []string
	for i := 0; i < 22; i++ {
		docs = append(docs, "server down lambat")
	}
	for i := 0; i < 25; i++ {
		docs = append(docs, "gagal login")
	}
	docs = append(docs, "bayar pajak", "bayar pajak", "bayar pajak")
	return docs
}

func TestFit(t *testing.T) {
	t.Parallel()

	emb := &keywordEmbedder{}
	m := NewModeler(emb, stubLabeler{}, Options{MinTopicSize: 20, MinSamples: 5, BatchSize: 16}, nil)

	res, err := m.Fit(context.Background(), corpus())
	require.NoError(t, err)
	assert.Equal(t, 4, emb.calls)

	require.Len(t, res.Topics, 3)
	login, server, outliers := res.Topics[0], res.Topics[1], res.Topics[2]

	assert.Equal(t, 0, login.ID)
	assert.Equal(t, 25, login.Size)
	assert.Equal(t, "0_gagal_gagal login_login", login.Name)
	assert.Equal(t, "Gagal login", login.Label)

	assert.Equal(t, 1, server.ID)
	assert.Equal(t, 22, server.Size)
	assert.Equal(t, "1_down_down lambat_lambat_server", server.Name)
	assert.Empty(t, server.Label)

	assert.Equal(t, domain.OutlierTopic, outliers.ID)
	assert.Equal(t, 3, outliers.Size)
	assert.Nil(t, outliers.Centroid)

	require.Len(t, res.Assignments, 50)
	assert.Equal(t, 1, res.Assignments[0].ID)
	assert.InDelta(t, 1.0, res.Assignments[0].Probability, 1e-9)
	assert.Equal(t, 0, res.Assignments[30].ID)
	assert.Equal(t, []string{"gagal", "gagal login", "login"}, res.Assignments[30].Words)
	assert.Equal(t, domain.OutlierTopic, res.Assignments[49].ID)
	assert.Zero(t, res.Assignments[49].Probability)
}

func TestFitSmallClustersBecomeOutliers(t *testing.T) {
	t.Parallel()

	m := NewModeler(&keywordEmbedder{}, nil, Options{MinTopicSize: 30, MinSamples: 5}, nil)
	res, err := m.Fit(context.Background(), corpus())
	require.NoError(t, err)
	require.Len(t, res.Topics, 1)
	assert.Equal(t, domain.OutlierTopic, res.Topics[0].ID)
	assert.Equal(t, 50, res.Topics[0].Size)
}

func TestFitEmptyAndFailure(t *testing.T) {
	t.Parallel()

	m := NewModeler(&keywordEmbedder{}, nil, Options{}, nil)
	res, err := m.Fit(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, res.Topics)

	m = NewModeler(&keywordEmbedder{err: errors.New("boom")}, nil, Options{}, nil)
	_, err = m.Fit(context.Background(), []string{"a"})
	assert.ErrorContains(t, err, "boom")
}

func TestAnnotateOnlyTouchesLabel(t *testing.T) {
	t.Parallel()

	neg := &domain.Prediction{Label: domain.LabelNegative, Score: 0.9}
	pos := &domain.Prediction{Label: domain.LabelPositive, Score: 0.9}

	var records []domain.Record
	for _, doc := range corpus() {
		records = append(records, domain.Record{Normalized: doc, Sentiment: neg})
	}
	records = append(records, domain.Record{Normalized: "bagus", Sentiment: pos}, domain.Record{})

	m := NewModeler(&keywordEmbedder{}, nil, Options{MinTopicSize: 20, MinSamples: 5}, nil)
	_, err := m.Annotate(context.Background(), records, domain.LabelNegative)
	require.NoError(t, err)

	assert.NotNil(t, records[0].Topic)
	assert.Equal(t, 1, records[0].Topic.ID)
	assert.Nil(t, records[50].Topic)
	assert.Nil(t, records[51].Topic)
}

func TestClassTFIDFEmptyVocabulary(t *testing.T) {
	t.Parallel()

	got := classTFIDF([]string{"a", "b"}, []int{0, 0}, 2, 10, nil)
	assert.Equal(t, map[int][]domain.TermWeight{0: {}}, got)
}

func TestHierarchy(t *testing.T) {
	t.Parallel()

	root := Hierarchy([]domain.Topic{
		{ID: 0, Centroid: []float64{1, 0}},
		{ID: 1, Centroid: []float64{0, 1}},
		{ID: 2, Centroid: []float64{0.9938837346736189, 0.11043152607484655}},
		{ID: domain.OutlierTopic},
	})
	require.NotNil(t, root)
	assert.ElementsMatch(t, []int{0, 1, 2}, root.Topics)
	require.Len(t, root.Children, 2)

	first := root.Children[0]
	assert.Equal(t, []int{0, 2}, first.Topics)
	assert.Less(t, first.Distance, root.Distance)
	assert.True(t, root.Children[1].Leaf())

	assert.Nil(t, Hierarchy(nil))
}

func TestArtifactRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "models", "topics.json")
	a := Artifact{
		CreatedAt:      time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		EmbeddingModel: "sentence-transformers/m",
		Label:          "negative",
		Documents:      2,
		Params:         Options{MinTopicSize: 20},
		Topics:         []domain.Topic{{ID: 0, Name: "0_login", Size: 2, Terms: []domain.TermWeight{{Term: "login", Weight: 1}}}},
	}
	require.NoError(t, SaveArtifact(path, a))

	got, err := LoadArtifact(path)
	require.NoError(t, err)
	assert.Equal(t, a, got)

	_, err = LoadArtifact(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
