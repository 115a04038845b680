package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CoreTaxSentiment/internal/config"
	"CoreTaxSentiment/internal/domain"
	"CoreTaxSentiment/internal/infrastructure/ingest"
	"CoreTaxSentiment/internal/infrastructure/lexicon"
	"CoreTaxSentiment/internal/infrastructure/stemmer"
	"CoreTaxSentiment/internal/infrastructure/storage"
	"CoreTaxSentiment/internal/keywords"
	"CoreTaxSentiment/internal/preprocess"
	"CoreTaxSentiment/internal/report"
	"CoreTaxSentiment/internal/sentiment"
	"CoreTaxSentiment/internal/topics"
)

type constEmbedder struct {
	err   error
	calls int
}

func (e *constEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = []float64{1, 0}
	}
	return out, nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

type fixture struct {
	dir    string
	output config.OutputConfig
	repo   *storage.SQLiteRepository
	stdout *bytes.Buffer
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	repo, err := storage.OpenSQLite(filepath.Join(dir, "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return fixture{
		dir: dir,
		output: config.OutputConfig{
			Dir:             filepath.Join(dir, "outputs"),
			PreprocessedCSV: filepath.Join(dir, "processed", "preprocessed.csv"),
			QuickCSV:        filepath.Join(dir, "sentiment_results.csv"),
			TopicsCSV:       filepath.Join(dir, "processed", "topics.csv"),
			TopicModel:      filepath.Join(dir, "models", "topics.json"),
		},
		repo:   repo,
		stdout: &bytes.Buffer{},
	}
}

func (f fixture) pipeline(t *testing.T, sources []config.SourceConfig, embedder *constEmbedder) *Pipeline {
	t.Helper()
	return NewPipeline(PipelineDeps{
		Source: ingest.NewLoader(ingest.DefaultRegistry(), sources, false, nil),
		Preprocessor: preprocess.New(preprocess.Options{
			Stopwords: preprocess.NewStopwords(nil, nil, nil),
			Stemmer:   stemmer.New(),
		}, nil),
		Sentiment:      sentiment.New(lexicon.New(nil, nil), sentiment.DefaultBatchSize, nil, nil),
		Keywords:       keywords.NewExtractor(15, 100, nil),
		Topics:         topics.NewModeler(embedder, nil, topics.Options{}, nil),
		EmbeddingModel: "const",
		Reporter:       report.NewReporter(f.output.Dir, nil),
		Repository:     f.repo,
		Output:         f.output,
		Stdout:         f.stdout,
	})
}

func TestPipelineEndToEnd(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	path := writeFile(t, f.dir, "playstore.csv",
		"content,at\n"+
			"\"Aplikasi sangat bagus dan membantu!\",2025-01-01\n"+
			"\"Coretax error terus, kecewa\",2025-01-02\n"+
			"\"\",2025-01-03\n")

	embedder := &constEmbedder{}
	p := f.pipeline(t, []config.SourceConfig{{Name: "playstore", Schema: "playstore", Path: path}}, embedder)

	run, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, run.Records, 3)

	rows := readCSV(t, f.output.PreprocessedCSV)
	require.Len(t, rows, 4)
	labeled, empty := 0, 0
	for _, row := range rows[1:] {
		if row[9] == "" {
			empty++
			assert.Empty(t, row[10])
			continue
		}
		labeled++
	}
	assert.Equal(t, 2, labeled)
	assert.Equal(t, 1, empty)
	assert.Equal(t, "positive", rows[1][9])
	assert.Equal(t, "negative", rows[2][9])

	require.Contains(t, run.Keywords, domain.LabelPositive)
	require.Contains(t, run.Keywords, domain.LabelNegative)
	for label, words := range run.Keywords {
		assert.LessOrEqual(t, len(words), 15, label)
	}

	require.NotNil(t, run.Records[1].Topic)
	assert.Equal(t, domain.OutlierTopic, run.Records[1].Topic.ID)
	assert.Nil(t, run.Records[0].Topic)
	assert.Equal(t, 1, embedder.calls)

	artifact, err := topics.LoadArtifact(f.output.TopicModel)
	require.NoError(t, err)
	assert.Equal(t, 1, artifact.Documents)
	assert.Equal(t, "negative", artifact.Label)

	for _, name := range []string{"sentiment_distribution.png", "topic_map.html"} {
		_, err := os.Stat(filepath.Join(f.output.Dir, name))
		assert.NoError(t, err, name)
	}

	runs, err := f.repo.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, 3, runs[0].TotalRecords)
	assert.Equal(t, 2, runs[0].LabeledRecords)

	assert.Contains(t, f.stdout.String(), "CoreTax Sentiment: full")
}

func TestOverallTermsKeepWholeVocabulary(t *testing.T) {
	t.Parallel()

	records := make([]domain.Record, 0, 121)
	for i := 0; i < 120; i++ {
		records = append(records, domain.Record{Stemmed: fmt.Sprintf("kata%03d dan", i)})
	}
	records = append(records, domain.Record{})

	terms := overallTerms(records)
	require.Len(t, terms, 121)
	seen := map[string]bool{}
	for _, tw := range terms {
		seen[tw.Term] = true
	}
	assert.True(t, seen["dan"])
	assert.True(t, seen["kata119"])
}

func TestPipelineContinuesWhenTopicsFail(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	path := writeFile(t, f.dir, "tweets.csv", "full_text,created_at\n\"server down lagi\",2025-01-01\n")
	p := f.pipeline(t, []config.SourceConfig{{Name: "twitter", Schema: "twitter", Path: path}},
		&constEmbedder{err: errors.New("inference unavailable")})

	run, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, run.Topics)
	assert.Nil(t, run.Records[0].Topic)

	_, err = os.Stat(f.output.TopicModel)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestPipelineFailsWithoutData(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	p := f.pipeline(t, []config.SourceConfig{
		{Name: "missing", Schema: "twitter", Path: filepath.Join(f.dir, "nope.csv")},
	}, &constEmbedder{})

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ingest.ErrNoData)

	runs, err := f.repo.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestPipelineRequiresStages(t *testing.T) {
	t.Parallel()

	_, err := NewPipeline(PipelineDeps{}).Run(context.Background())
	assert.Error(t, err)
}

func TestQuickRun(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	path := writeFile(t, f.dir, "tweets.csv",
		"full_text,created_at\n"+
			"\"Mantap @DitjenPajak https://t.co/x bagus\",2025-01-01\n"+
			"\"ok\",2025-01-02\n"+
			"\"Error lagi #coretax\",2025-01-03\n")

	q := NewQuick(QuickDeps{
		Source:     ingest.NewLoader(ingest.DefaultRegistry(), []config.SourceConfig{{Name: "twitter", Schema: "twitter", Path: path}}, false, nil),
		Sentiment:  sentiment.New(lexicon.New(nil, nil), sentiment.DefaultBatchSize, nil, nil),
		Keywords:   keywords.NewExtractor(15, 100, config.Default().Keywords.Stopwords),
		Repository: f.repo,
		OutputCSV:  f.output.QuickCSV,
		Stdout:     f.stdout,
	})

	run, err := q.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, run.Records, 2)
	assert.Equal(t, "Mantap bagus", run.Records[0].Cleaned)
	assert.Equal(t, "Error lagi coretax", run.Records[1].Cleaned)
	assert.True(t, run.Records[0].HasLabel(domain.LabelPositive))
	assert.True(t, run.Records[1].HasLabel(domain.LabelNegative))
	assert.Contains(t, run.Keywords[domain.LabelNegative], "error")

	rows := readCSV(t, f.output.QuickCSV)
	require.Len(t, rows, 3)
	assert.Equal(t, "Mantap bagus", rows[1][3])

	runs, err := f.repo.ListRuns(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, VariantQuick, runs[0].Variant)
	assert.Contains(t, f.stdout.String(), "CoreTax Sentiment: quick")
}

func TestInspect(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	youtube := writeFile(t, dir, "youtube.csv",
		"text,date,source\n\"server down lagi\",2025-01-01,\n\"server down terus\",2025-01-02,\n")
	playstore := writeFile(t, dir, "playstore.csv",
		"content,at\n\"server down lagi\",2025-01-01\n\"login gagal\",2025-01-03\n")
	model := filepath.Join(dir, "models", "topics.json")
	require.NoError(t, topics.SaveArtifact(model, topics.Artifact{
		Topics: []domain.Topic{{ID: 0, Name: "0_server_down", Size: 2}},
	}))

	loader := ingest.NewLoader(ingest.DefaultRegistry(), []config.SourceConfig{
		{Name: "youtube", Schema: "youtube", Path: youtube},
		{Name: "playstore", Schema: "playstore", Path: playstore},
	}, true, nil)

	var out bytes.Buffer
	in, err := NewInspect(loader, model, &out, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, in.Total)
	assert.Equal(t, []report.SourceCount{
		{Source: domain.SourceYouTube, Count: 2},
		{Source: domain.SourcePlayStore, Count: 1},
	}, in.Sources)
	require.NotEmpty(t, in.Bigrams)
	assert.Equal(t, keywords.WordCount{Word: "server down", Count: 2}, in.Bigrams[0])
	require.Len(t, in.Topics, 1)
	assert.Contains(t, out.String(), "server down")
}

func TestInspectWithoutSavedModel(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "tweets.csv", "full_text\nhalo\n")
	loader := ingest.NewLoader(ingest.DefaultRegistry(), []config.SourceConfig{{Name: "t", Schema: "twitter", Path: path}}, true, nil)

	in, err := NewInspect(loader, filepath.Join(dir, "missing.json"), nil, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, in.Total)
	assert.Empty(t, in.Topics)
	assert.Empty(t, in.Bigrams)
}

func TestHistory(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	first := domain.Run{ID: "a", Variant: VariantFull, StartedAt: time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC),
		Keywords: domain.KeywordSet{domain.LabelNegative: {"lama"}}}
	second := domain.Run{ID: "b", Variant: VariantQuick, StartedAt: first.StartedAt.AddDate(0, 0, 1),
		Keywords: domain.KeywordSet{domain.LabelNegative: {"error", "login"}}}
	require.NoError(t, f.repo.SaveRun(ctx, first))
	require.NoError(t, f.repo.SaveRun(ctx, second))

	var out bytes.Buffer
	h, err := NewHistory(f.repo, &out).Run(ctx, 10)
	require.NoError(t, err)
	require.Len(t, h.Runs, 2)
	assert.Equal(t, "b", h.Runs[0].ID)
	assert.Equal(t, domain.KeywordSet{domain.LabelNegative: {"error", "login"}}, h.Latest)
	assert.Contains(t, out.String(), "error, login")

	_, err = NewHistory(nil, nil).Run(ctx, 10)
	assert.Error(t, err)
}
