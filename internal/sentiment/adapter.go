// Package sentiment maps texts to model predictions in batches, keeping an
// explicit per-row link between the table and the batch results.
package sentiment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"CoreTaxSentiment/internal/domain"
	"CoreTaxSentiment/internal/ports"
)

// DefaultBatchSize matches the batch size the models were tuned with.
const DefaultBatchSize = 32

// Placeholder is substituted for every row of a batch the model failed on.
var Placeholder = domain.Prediction{Label: domain.LabelNeutral, Score: 0}

// Adapter batches non-empty texts through a Classifier.
type Adapter struct {
	classifier ports.Classifier
	batchSize  int
	labels     map[string]string
	logger     *slog.Logger
}

// New builds an Adapter. labels maps raw model labels to pipeline labels;
// unmapped labels are lowercased.
func New(c ports.Classifier, batchSize int, labels map[string]string, log *slog.Logger) *Adapter {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Adapter{
		classifier: c,
		batchSize:  batchSize,
		labels:     labels,
		logger:     log,
	}
}

// Predict returns one entry per input text, nil where the text is blank.
// A failing batch degrades to Placeholder; only cancellation aborts.
func (a *Adapter) Predict(ctx context.Context, texts []string) ([]*domain.Prediction, error) {
	if a.classifier == nil {
		return nil, fmt.Errorf("classifier is not configured")
	}

	// slots[i] is the position of texts[i] in the batch input, -1 when skipped.
	slots := make([]int, len(texts))
	var inputs []string
	for i, t := range texts {
		if strings.TrimSpace(t) == "" {
			slots[i] = -1
			continue
		}
		slots[i] = len(inputs)
		inputs = append(inputs, t)
	}

	results := make([]domain.Prediction, 0, len(inputs))
	for start := 0; start < len(inputs); start += a.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := start + a.batchSize
		if end > len(inputs) {
			end = len(inputs)
		}
		batch := inputs[start:end]

		preds, err := a.classifier.Classify(ctx, batch)
		if err != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err == nil && len(preds) != len(batch) {
			err = fmt.Errorf("classifier returned %d results for %d texts", len(preds), len(batch))
		}
		if err != nil {
			a.warn("batch classification failed, using placeholder", "batch_start", start, "batch_size", len(batch), "error", err)
			for range batch {
				results = append(results, Placeholder)
			}
			continue
		}

		for _, p := range preds {
			results = append(results, a.normalize(p))
		}
		a.debug("batch classified", "batch_start", start, "batch_size", len(batch))
	}

	out := make([]*domain.Prediction, len(texts))
	for i, slot := range slots {
		if slot < 0 {
			continue
		}
		p := results[slot]
		out[i] = &p
	}
	return out, nil
}

// Annotate sets Sentiment on every record using the text selected by field.
func (a *Adapter) Annotate(ctx context.Context, records []domain.Record, field func(domain.Record) string) error {
	texts := make([]string, len(records))
	for i, rec := range records {
		texts[i] = field(rec)
	}

	preds, err := a.Predict(ctx, texts)
	if err != nil {
		return err
	}
	for i := range records {
		records[i].Sentiment = preds[i]
	}
	return nil
}

func (a *Adapter) normalize(p domain.Prediction) domain.Prediction {
	raw := string(p.Label)
	label := domain.Label(strings.ToLower(strings.TrimSpace(raw)))
	if mapped, ok := a.labels[raw]; ok {
		label = domain.Label(mapped)
	}

	score := p.Score
	switch {
	case score < 0:
		score = 0
	case score > 1:
		score = 1
	}
	return domain.Prediction{Label: label, Score: score}
}

func (a *Adapter) debug(msg string, args ...interface{}) {
	if a.logger != nil {
		a.logger.Debug(msg, args...)
	}
}

func (a *Adapter) warn(msg string, args ...interface{}) {
	if a.logger != nil {
		a.logger.Warn(msg, args...)
	}
}
