package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"CoreTaxSentiment/internal/config"
	"CoreTaxSentiment/internal/domain"
	"CoreTaxSentiment/internal/infrastructure/ingest"
	"CoreTaxSentiment/internal/infrastructure/lexicon"
	"CoreTaxSentiment/internal/infrastructure/llm"
	"CoreTaxSentiment/internal/infrastructure/ml"
	"CoreTaxSentiment/internal/infrastructure/stemmer"
	"CoreTaxSentiment/internal/infrastructure/storage"
	"CoreTaxSentiment/internal/keywords"
	"CoreTaxSentiment/internal/logging"
	"CoreTaxSentiment/internal/ports"
	"CoreTaxSentiment/internal/preprocess"
	"CoreTaxSentiment/internal/report"
	"CoreTaxSentiment/internal/sentiment"
	"CoreTaxSentiment/internal/topics"
	"CoreTaxSentiment/internal/usecase"
)

const backendLexicon = "lexicon"

// Application wires configs to use cases.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	stdout   io.Writer
	store    *storage.SQLiteRepository
	pipeline *usecase.Pipeline
	quick    *usecase.Quick
	inspect  *usecase.Inspect
	history  *usecase.History
}

// New builds every use case from cfg. Optional parts that cannot be set up
// (dictionary, run store, topic labeler) are logged and left out.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	return NewWithOutput(cfg, baseLogger, os.Stdout)
}

// NewWithOutput is New with the terminal summaries written to stdout.
func NewWithOutput(cfg config.Config, baseLogger *slog.Logger, stdout io.Writer) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	a := &Application{cfg: cfg, logger: baseLogger, stdout: stdout}

	var repository ports.RunRepository
	if cfg.Store.Path != "" {
		store, err := storage.OpenSQLite(cfg.Store.Path)
		if err != nil {
			baseLogger.Warn("run store disabled", "path", cfg.Store.Path, "error", err)
		} else {
			a.store = store
			repository = store
		}
	}

	classifier, quickClassifier, embedder := a.models()
	extractor := keywords.NewExtractor(cfg.Keywords.TopK, cfg.Keywords.MaxFeatures, cfg.Keywords.Stopwords)

	var modeler *topics.Modeler
	if embedder != nil {
		var labeler ports.TopicLabeler
		if chat := llm.NewChatGPTClient(cfg.ChatGPT); chat.Configured() {
			labeler = chat
		}
		modeler = topics.NewModeler(embedder, labeler, topics.Options{
			MinTopicSize: cfg.Topics.MinTopicSize,
			MinSamples:   cfg.Topics.MinSamples,
			Epsilon:      cfg.Topics.Epsilon,
			TopWords:     cfg.Topics.TopWords,
			NgramMax:     cfg.Topics.NgramMax,
			BatchSize:    cfg.ML.BatchSize,
			Stopwords:    cfg.Keywords.Stopwords,
		}, baseLogger.With("component", "topics"))
	} else {
		baseLogger.Info("topic modeling disabled, no embedding backend", "backend", cfg.ML.Backend)
	}

	registry := ingest.DefaultRegistry()

	a.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Source:         ingest.NewLoader(registry, cfg.Sources, cfg.Preprocess.Dedupe, baseLogger.With("component", "loader")),
		Preprocessor:   a.preprocessor(),
		Sentiment:      sentiment.New(classifier, cfg.ML.BatchSize, cfg.ML.Labels, baseLogger.With("component", "sentiment")),
		Keywords:       extractor,
		Topics:         modeler,
		TopicLabel:     domain.Label(cfg.Topics.Label),
		EmbeddingModel: cfg.ML.EmbeddingModel,
		Reporter:       report.NewReporter(cfg.Output.Dir, baseLogger),
		Repository:     repository,
		Output:         cfg.Output,
		Stdout:         stdout,
		Logger:         baseLogger.With("component", "pipeline"),
	})

	a.quick = usecase.NewQuick(usecase.QuickDeps{
		Source:     ingest.NewLoader(registry, cfg.QuickSources, false, baseLogger.With("component", "loader.quick")),
		Sentiment:  sentiment.New(quickClassifier, sentiment.DefaultBatchSize, cfg.ML.Labels, baseLogger.With("component", "sentiment.quick")),
		Keywords:   extractor,
		Repository: repository,
		OutputCSV:  cfg.Output.QuickCSV,
		Stdout:     stdout,
		Logger:     baseLogger.With("component", "quick"),
	})

	a.inspect = usecase.NewInspect(
		ingest.NewLoader(registry, cfg.Sources, true, baseLogger.With("component", "loader.inspect")),
		cfg.Output.TopicModel,
		stdout,
		baseLogger.With("component", "inspect"),
	)

	a.history = usecase.NewHistory(repository, stdout)

	return a
}

// models picks the classifier for each variant and the embedder. The
// lexicon backend works offline and has no embedder.
func (a *Application) models() (ports.Classifier, ports.Classifier, ports.Embedder) {
	if strings.EqualFold(a.cfg.ML.Backend, backendLexicon) {
		c := lexicon.New(nil, nil)
		return c, c, nil
	}
	client := ml.NewClient(a.cfg.ML)
	return client.Classifier(a.cfg.ML.ClassifierModel),
		client.Classifier(a.cfg.ML.QuickClassifierModel),
		client.Embedder(a.cfg.ML.EmbeddingModel)
}

func (a *Application) preprocessor() *preprocess.Preprocessor {
	logger := a.logger.With("component", "preprocess")

	var dict *preprocess.Dictionary
	if path := a.cfg.Dictionary.Path; path != "" {
		entries, err := ingest.LoadDictionary(path, logger)
		if err != nil {
			logger.Warn("slang dictionary unavailable, words pass through", "path", path, "error", err)
		}
		dict = preprocess.NewDictionary(entries)
	}

	return preprocess.New(preprocess.Options{
		Dictionary: dict,
		Stopwords:  preprocess.NewStopwords(a.cfg.Stopwords.Extra, a.cfg.Stopwords.Special, a.cfg.Stopwords.Languages),
		Stemmer:    stemmer.New(),
		MinLength:  a.cfg.Preprocess.MinLength,
	}, logger)
}

// Run performs the full pipeline once.
func (a *Application) Run(ctx context.Context) error {
	_, err := a.pipeline.Run(ctx)
	return err
}

// Quick performs the standalone sentiment run.
func (a *Application) Quick(ctx context.Context) error {
	_, err := a.quick.Run(ctx)
	return err
}

// Inspect prints the merged input overview.
func (a *Application) Inspect(ctx context.Context) error {
	_, err := a.inspect.Run(ctx)
	return err
}

// History prints up to limit stored runs.
func (a *Application) History(ctx context.Context, limit int) error {
	_, err := a.history.Run(ctx, limit)
	return err
}

// Close releases the run store.
func (a *Application) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}
