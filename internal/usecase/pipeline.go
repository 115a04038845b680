package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"CoreTaxSentiment/internal/config"
	"CoreTaxSentiment/internal/domain"
	"CoreTaxSentiment/internal/infrastructure/export"
	"CoreTaxSentiment/internal/keywords"
	"CoreTaxSentiment/internal/logging"
	"CoreTaxSentiment/internal/ports"
	"CoreTaxSentiment/internal/preprocess"
	"CoreTaxSentiment/internal/report"
	"CoreTaxSentiment/internal/sentiment"
	"CoreTaxSentiment/internal/topics"
)

// Run variants as stored in the history.
const (
	VariantFull  = "full"
	VariantQuick = "quick"
)

// PipelineDeps wires all stages of the full run. Reporter, Topics, Repository
// and Stdout are optional.
type PipelineDeps struct {
	Source         ports.RecordSource
	Preprocessor   *preprocess.Preprocessor
	Sentiment      *sentiment.Adapter
	Keywords       *keywords.Extractor
	Topics         *topics.Modeler
	TopicLabel     domain.Label
	EmbeddingModel string
	Reporter       *report.Reporter
	Repository     ports.RunRepository
	Output         config.OutputConfig
	Stdout         io.Writer
	Logger         *slog.Logger
}

// Pipeline implements the full sentiment and topic workflow.
type Pipeline struct {
	source         ports.RecordSource
	preprocessor   *preprocess.Preprocessor
	sentiment      *sentiment.Adapter
	keywords       *keywords.Extractor
	topics         *topics.Modeler
	topicLabel     domain.Label
	embeddingModel string
	reporter       *report.Reporter
	repository     ports.RunRepository
	output         config.OutputConfig
	stdout         io.Writer
	logger         *slog.Logger
	now            func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	label := deps.TopicLabel
	if label == "" {
		label = domain.LabelNegative
	}
	return &Pipeline{
		source:         deps.Source,
		preprocessor:   deps.Preprocessor,
		sentiment:      deps.Sentiment,
		keywords:       deps.Keywords,
		topics:         deps.Topics,
		topicLabel:     label,
		embeddingModel: deps.EmbeddingModel,
		reporter:       deps.Reporter,
		repository:     deps.Repository,
		output:         deps.Output,
		stdout:         deps.Stdout,
		logger:         logger,
		now:            time.Now,
	}
}

// Run executes load, preprocessing, sentiment, export, charts, keywords,
// topics and persistence in that order. Only a failed load, preprocessing or
// cancellation aborts the run; the other stages log and continue.
func (p *Pipeline) Run(ctx context.Context) (domain.Run, error) {
	run := domain.Run{ID: uuid.NewString(), Variant: VariantFull, StartedAt: p.now()}
	if p.source == nil || p.preprocessor == nil || p.sentiment == nil || p.keywords == nil {
		return run, fmt.Errorf("pipeline is not fully configured")
	}
	logger := p.logger.With("run", run.ID)
	logger.Info("pipeline started")

	var records []domain.Record
	err := stage(ctx, "load", func(ctx context.Context) error {
		var err error
		records, err = p.source.Load(ctx)
		if err != nil {
			return fmt.Errorf("load records: %w", err)
		}
		setRows(ctx, len(records))
		return nil
	})
	if err != nil {
		return run, err
	}

	err = stage(ctx, "preprocess", func(ctx context.Context) error {
		var err error
		records, err = p.preprocessor.Process(ctx, records)
		if err != nil {
			return fmt.Errorf("preprocess: %w", err)
		}
		setRows(ctx, len(records))
		return nil
	})
	if err != nil {
		return run, err
	}

	err = stage(ctx, "sentiment", func(ctx context.Context) error {
		if err := p.sentiment.Annotate(ctx, records, normalizedText); err != nil {
			return fmt.Errorf("classify sentiment: %w", err)
		}
		return nil
	})
	if err != nil {
		return run, err
	}
	run.Records = records

	var outputs []string
	if path := p.output.PreprocessedCSV; path != "" {
		if err := export.WriteFile(path, export.Full, records); err != nil {
			logger.Warn("cannot write preprocessed table", "path", path, "error", err)
		} else {
			outputs = append(outputs, path)
		}
	}

	if p.reporter != nil {
		_ = stage(ctx, "charts", func(ctx context.Context) error {
			outputs = append(outputs, p.reporter.SentimentCharts(records, overallTerms(records))...)
			return nil
		})
	}

	_ = stage(ctx, "keywords", func(ctx context.Context) error {
		run.Keywords = p.keywords.ByLabel(records, normalizedText)
		return nil
	})

	if p.topics != nil {
		err := stage(ctx, "topics", func(ctx context.Context) error {
			ts, files, err := p.fitTopics(ctx, records, logger)
			if err != nil {
				return err
			}
			run.Topics = ts
			outputs = append(outputs, files...)
			return nil
		})
		if ctx.Err() != nil {
			return run, ctx.Err()
		}
		if err != nil {
			logger.Warn("topic modeling skipped", "error", err)
		}
	}

	run.FinishedAt = p.now()
	if p.repository != nil {
		if err := p.repository.SaveRun(ctx, run); err != nil {
			logger.Warn("cannot store run", "error", err)
		}
	}

	logger.Info("pipeline finished",
		"records", len(records),
		"topics", len(run.Topics),
		"elapsed", run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))

	if p.stdout != nil {
		summary := report.NewSummary(run.Variant, records, run.Keywords, run.Topics, outputs)
		if err := summary.Render(p.stdout); err != nil {
			return run, fmt.Errorf("render summary: %w", err)
		}
	}
	return run, nil
}

// fitTopics models the topic subset and writes its table, artifact and charts.
// Output failures are logged; only a failed fit is returned.
func (p *Pipeline) fitTopics(ctx context.Context, records []domain.Record, logger *slog.Logger) ([]domain.Topic, []string, error) {
	res, err := p.topics.Annotate(ctx, records, p.topicLabel)
	if err != nil {
		return nil, nil, fmt.Errorf("fit topics: %w", err)
	}
	setRows(ctx, len(res.Assignments))
	if len(res.Assignments) == 0 {
		logger.Info("no documents for topic modeling", "label", p.topicLabel)
		return res.Topics, nil, nil
	}

	var files []string
	if path := p.output.TopicsCSV; path != "" {
		if err := export.WriteFile(path, export.Topics, records); err != nil {
			logger.Warn("cannot write topic table", "path", path, "error", err)
		} else {
			files = append(files, path)
		}
	}

	if path := p.output.TopicModel; path != "" {
		artifact := topics.Artifact{
			CreatedAt:      p.now(),
			EmbeddingModel: p.embeddingModel,
			Label:          string(p.topicLabel),
			Documents:      len(res.Assignments),
			Params:         p.topics.Options(),
			Topics:         res.Topics,
			Hierarchy:      topics.Hierarchy(res.Topics),
		}
		if err := topics.SaveArtifact(path, artifact); err != nil {
			logger.Warn("cannot save topic model", "path", path, "error", err)
		} else {
			files = append(files, path)
		}
	}

	if p.reporter != nil {
		files = append(files, p.reporter.TopicCharts(res.Topics)...)
	}
	return res.Topics, files, nil
}

// overallTerms ranks the stemmed corpus over its whole vocabulary with no
// stopword list.
func overallTerms(records []domain.Record) []domain.TermWeight {
	return keywords.NewExtractor(0, 0, nil).TopTerms(nonEmpty(records, stemmedText))
}

func normalizedText(rec domain.Record) string { return rec.Normalized }

func stemmedText(rec domain.Record) string { return rec.Stemmed }

func nonEmpty(records []domain.Record, field func(domain.Record) string) []string {
	var out []string
	for _, rec := range records {
		if s := field(rec); s != "" {
			out = append(out, s)
		}
	}
	return out
}
