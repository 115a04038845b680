// Package export writes enriched record tables as CSV files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"CoreTaxSentiment/internal/domain"
)

// Layout selects the columns of an exported table.
type Layout int

const (
	// Full is the preprocessing table with every intermediate stage.
	Full Layout = iota
	// Quick is the compact table of the standalone variant.
	Quick
	// Topics is the negative subset with topic assignments.
	Topics
)

var headers = map[Layout][]string{
	Full: {
		"source", "date", "content", "cleaning", "casefolding", "normalized",
		"tokens", "stopword_removal", "stemming", "sentiment", "score",
	},
	Quick:  {"text", "date", "source", "cleaned_text", "sentiment", "score"},
	Topics: {"text", "sentiment", "topic", "probability", "topic_name", "topic_words", "source"},
}

// Header returns the column names of layout.
func Header(layout Layout) []string {
	return append([]string(nil), headers[layout]...)
}

// WriteFile writes records to path in layout, creating parent directories.
// The Topics layout only includes records that carry a topic.
func WriteFile(path string, layout Layout, records []domain.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, layout, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write encodes records to w in layout.
func Write(w io.Writer, layout Layout, records []domain.Record) error {
	header, ok := headers[layout]
	if !ok {
		return fmt.Errorf("unknown layout %d", layout)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, rec := range records {
		var row []string
		switch layout {
		case Full:
			row = fullRow(rec)
		case Quick:
			row = quickRow(rec)
		case Topics:
			if rec.Topic == nil {
				continue
			}
			row = topicRow(rec)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func fullRow(rec domain.Record) []string {
	label, score := sentimentCells(rec)
	return []string{
		string(rec.Source),
		rec.Date,
		rec.Text,
		rec.Cleaned,
		rec.CaseFolded,
		rec.Normalized,
		jsonList(rec.Tokens),
		jsonList(rec.Filtered),
		rec.Stemmed,
		label,
		score,
	}
}

func quickRow(rec domain.Record) []string {
	label, score := sentimentCells(rec)
	return []string{rec.Text, rec.Date, string(rec.Source), rec.Cleaned, label, score}
}

func topicRow(rec domain.Record) []string {
	label, _ := sentimentCells(rec)
	return []string{
		rec.Normalized,
		label,
		strconv.Itoa(rec.Topic.ID),
		formatFloat(rec.Topic.Probability),
		rec.Topic.Name,
		strings.Join(rec.Topic.Words, ", "),
		string(rec.Source),
	}
}

// sentimentCells leaves both cells empty for unlabeled records.
func sentimentCells(rec domain.Record) (string, string) {
	if rec.Sentiment == nil {
		return "", ""
	}
	return string(rec.Sentiment.Label), formatFloat(rec.Sentiment.Score)
}

func jsonList(items []string) string {
	if items == nil {
		items = []string{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
