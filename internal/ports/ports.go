package ports

import (
	"context"

	"CoreTaxSentiment/internal/domain"
)

// RecordSource loads the raw records from the configured exports.
type RecordSource interface {
	Load(ctx context.Context) ([]domain.Record, error)
}

// Classifier runs texts through a pretrained sentiment model.
// Implementations return exactly one prediction per input, in input order.
type Classifier interface {
	Classify(ctx context.Context, texts []string) ([]domain.Prediction, error)
}

// Embedder turns texts into sentence embeddings, one vector per input.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Stemmer reduces a single token to its root form.
type Stemmer interface {
	Stem(word string) string
}

// TopicLabeler asks an LLM for a short human label for a topic.
type TopicLabeler interface {
	LabelTopic(ctx context.Context, words []string) (string, error)
}

// RunRepository keeps the history of pipeline runs.
type RunRepository interface {
	SaveRun(ctx context.Context, run domain.Run) error
	ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error)
	RunKeywords(ctx context.Context, runID string) (domain.KeywordSet, error)
}
