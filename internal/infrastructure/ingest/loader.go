package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"CoreTaxSentiment/internal/config"
	"CoreTaxSentiment/internal/domain"
	"CoreTaxSentiment/internal/ports"
)

// ErrNoData is returned when not a single row could be loaded from any source.
var ErrNoData = errors.New("no input data could be loaded")

// Loader implements RecordSource over the configured CSV exports.
type Loader struct {
	registry *Registry
	sources  []config.SourceConfig
	dedupe   bool
	logger   *slog.Logger
}

var _ ports.RecordSource = (*Loader)(nil)

// NewLoader wires the schema registry with config-defined sources.
func NewLoader(reg *Registry, sources []config.SourceConfig, dedupe bool, log *slog.Logger) *Loader {
	return &Loader{
		registry: reg,
		sources:  sources,
		dedupe:   dedupe,
		logger:   log,
	}
}

// Load reads every source in order and concatenates them into one table.
// Missing or unreadable files are skipped with a warning.
func (l *Loader) Load(ctx context.Context) ([]domain.Record, error) {
	if l.registry == nil {
		return nil, fmt.Errorf("schema registry is not configured")
	}

	var aggregated []domain.Record
	for _, src := range l.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		schema, err := l.registry.Resolve(src.Schema)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", src.Name, err)
		}

		records, err := ReadFile(src.Path, schema)
		if errors.Is(err, fs.ErrNotExist) {
			l.warn("source file not found, using empty table", "source", src.Name, "path", src.Path)
			continue
		}
		if err != nil {
			l.warn("cannot load source, skipping", "source", src.Name, "path", src.Path, "error", err)
			continue
		}

		if n := countSource(records, domain.SourceUnknown); n > 0 {
			l.warn("rows without source column value", "source", src.Name, "rows", n, "labeled_as", domain.SourceUnknown)
		}
		l.debug("source loaded", "source", src.Name, "rows", len(records))
		aggregated = append(aggregated, records...)
	}

	if l.dedupe {
		before := len(aggregated)
		aggregated = dedupeByText(aggregated)
		l.debug("duplicates dropped", "dropped", before-len(aggregated))
	}

	if len(aggregated) == 0 {
		return nil, ErrNoData
	}

	l.debug("loader done", "total_records", len(aggregated))
	return aggregated, nil
}

// ReadFile parses one CSV export with the given schema.
func ReadFile(path string, schema Schema) ([]domain.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f, schema)
}

// Read parses CSV content with the given schema. Short rows yield empty fields.
func Read(r io.Reader, schema Schema) ([]domain.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	b, err := schema.bind(header)
	if err != nil {
		return nil, err
	}

	var records []domain.Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		text := cell(row, b.text)
		if schema.HTML {
			text = StripHTML(text)
		}

		source := schema.Source
		if v := cell(row, b.source); v != "" {
			source = domain.Source(v)
		}

		records = append(records, domain.Record{
			Text:   text,
			Source: source,
			Date:   cell(row, b.date),
		})
	}

	return records, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func countSource(records []domain.Record, source domain.Source) int {
	n := 0
	for _, rec := range records {
		if rec.Source == source {
			n++
		}
	}
	return n
}

func dedupeByText(records []domain.Record) []domain.Record {
	seen := make(map[string]struct{}, len(records))
	out := records[:0]
	for _, rec := range records {
		if _, ok := seen[rec.Text]; ok {
			continue
		}
		seen[rec.Text] = struct{}{}
		out = append(out, rec)
	}
	return out
}

func (l *Loader) debug(msg string, args ...interface{}) {
	if l.logger != nil {
		l.logger.Debug(msg, args...)
	}
}

func (l *Loader) warn(msg string, args ...interface{}) {
	if l.logger != nil {
		l.logger.Warn(msg, args...)
	}
}
