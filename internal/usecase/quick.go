package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"CoreTaxSentiment/internal/domain"
	"CoreTaxSentiment/internal/infrastructure/export"
	"CoreTaxSentiment/internal/keywords"
	"CoreTaxSentiment/internal/logging"
	"CoreTaxSentiment/internal/ports"
	"CoreTaxSentiment/internal/preprocess"
	"CoreTaxSentiment/internal/report"
	"CoreTaxSentiment/internal/sentiment"
)

// quickMinLength is the shortest cleaned text the quick run keeps.
const quickMinLength = 3

// QuickDeps wires the standalone sentiment run.
type QuickDeps struct {
	Source     ports.RecordSource
	Sentiment  *sentiment.Adapter
	Keywords   *keywords.Extractor
	Repository ports.RunRepository
	OutputCSV  string
	Stdout     io.Writer
	Logger     *slog.Logger
}

// Quick is the light variant: social cleaning, one classifier pass and
// per-class keywords, without stemming or topics.
type Quick struct {
	deps QuickDeps
	now  func() time.Time
}

// NewQuick constructs the quick run.
func NewQuick(deps QuickDeps) *Quick {
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	return &Quick{deps: deps, now: time.Now}
}

// Run loads the quick sources, cleans and classifies them, then writes the
// result table and prints the summary.
func (q *Quick) Run(ctx context.Context) (domain.Run, error) {
	run := domain.Run{ID: uuid.NewString(), Variant: VariantQuick, StartedAt: q.now()}
	if q.deps.Source == nil || q.deps.Sentiment == nil || q.deps.Keywords == nil {
		return run, fmt.Errorf("quick run is not fully configured")
	}
	logger := q.deps.Logger.With("run", run.ID)

	var records []domain.Record
	err := stage(ctx, "load", func(ctx context.Context) error {
		var err error
		records, err = q.deps.Source.Load(ctx)
		if err != nil {
			return fmt.Errorf("load records: %w", err)
		}
		setRows(ctx, len(records))
		return nil
	})
	if err != nil {
		return run, err
	}
	logger.Info("records loaded", "total", len(records))

	_ = stage(ctx, "clean", func(ctx context.Context) error {
		records = cleanSocial(records)
		setRows(ctx, len(records))
		return nil
	})
	logger.Info("records after cleaning", "total", len(records))

	err = stage(ctx, "sentiment", func(ctx context.Context) error {
		if err := q.deps.Sentiment.Annotate(ctx, records, cleanedText); err != nil {
			return fmt.Errorf("classify sentiment: %w", err)
		}
		return nil
	})
	if err != nil {
		return run, err
	}
	run.Records = records
	run.Keywords = q.deps.Keywords.ByLabel(records, cleanedText)

	var outputs []string
	if path := q.deps.OutputCSV; path != "" {
		if err := export.WriteFile(path, export.Quick, records); err != nil {
			logger.Warn("cannot write results", "path", path, "error", err)
		} else {
			logger.Info("results saved", "path", path)
			outputs = append(outputs, path)
		}
	}

	run.FinishedAt = q.now()
	if q.deps.Repository != nil {
		if err := q.deps.Repository.SaveRun(ctx, run); err != nil {
			logger.Warn("cannot store run", "error", err)
		}
	}

	if q.deps.Stdout != nil {
		summary := report.NewSummary(run.Variant, records, run.Keywords, nil, outputs)
		if err := summary.Render(q.deps.Stdout); err != nil {
			return run, fmt.Errorf("render summary: %w", err)
		}
	}
	return run, nil
}

// cleanSocial fills Cleaned and drops rows whose cleaned text is too short.
func cleanSocial(records []domain.Record) []domain.Record {
	kept := records[:0]
	for _, rec := range records {
		rec.Cleaned = preprocess.CleanSocial(rec.Text)
		if utf8.RuneCountInString(rec.Cleaned) < quickMinLength {
			continue
		}
		kept = append(kept, rec)
	}
	return kept
}

func cleanedText(rec domain.Record) string { return rec.Cleaned }
