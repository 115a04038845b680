package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"CoreTaxSentiment/internal/domain"
	"CoreTaxSentiment/internal/keywords"
	"CoreTaxSentiment/internal/logging"
	"CoreTaxSentiment/internal/ports"
	"CoreTaxSentiment/internal/preprocess"
	"CoreTaxSentiment/internal/report"
	"CoreTaxSentiment/internal/topics"
)

const inspectBigrams = 10

// Inspect checks the merged input: source distribution, frequent bigrams and
// the topics of the last saved model.
type Inspect struct {
	source     ports.RecordSource
	topicModel string
	stdout     io.Writer
	logger     *slog.Logger
}

// NewInspect builds the inspect use case. source should deduplicate by text.
func NewInspect(source ports.RecordSource, topicModel string, stdout io.Writer, logger *slog.Logger) *Inspect {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Inspect{source: source, topicModel: topicModel, stdout: stdout, logger: logger}
}

// Run loads the records and renders the inspection.
func (i *Inspect) Run(ctx context.Context) (report.Inspection, error) {
	if i.source == nil {
		return report.Inspection{}, fmt.Errorf("inspect source is not configured")
	}

	var records []domain.Record
	err := stage(ctx, "load", func(ctx context.Context) error {
		var err error
		records, err = i.source.Load(ctx)
		if err != nil {
			return fmt.Errorf("load records: %w", err)
		}
		setRows(ctx, len(records))
		return nil
	})
	if err != nil {
		return report.Inspection{}, err
	}

	texts := make([]string, len(records))
	for j, rec := range records {
		texts[j] = preprocess.CleanSocial(rec.Text)
	}

	in := report.Inspection{
		Total:   len(records),
		Sources: report.SourceCounts(records),
		Bigrams: keywords.TopNGrams(texts, 2, inspectBigrams),
	}

	if i.topicModel != "" {
		artifact, err := topics.LoadArtifact(i.topicModel)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			i.logger.Debug("no saved topic model", "path", i.topicModel)
		case err != nil:
			i.logger.Warn("cannot read topic model", "path", i.topicModel, "error", err)
		default:
			in.Topics = artifact.Topics
		}
	}

	if i.stdout != nil {
		if err := in.Render(i.stdout); err != nil {
			return in, fmt.Errorf("render inspection: %w", err)
		}
	}
	return in, nil
}
