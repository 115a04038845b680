// Package report renders charts and terminal summaries for a pipeline run.
package report

import (
	"sort"

	"CoreTaxSentiment/internal/domain"
)

// NoData is the caption drawn on charts whose class has nothing to show.
const NoData = "Tidak ada data"

// LabelCount is a sentiment class with its row count and share of all rows.
type LabelCount struct {
	Label   domain.Label
	Count   int
	Percent float64
}

// LabelCounts counts labeled records per class, most frequent first. Ties
// keep first-seen order. Percentages are taken over every record, so rows
// without a label leave the shares summing below 100.
func LabelCounts(records []domain.Record) []LabelCount {
	counts := map[domain.Label]int{}
	for _, rec := range records {
		if rec.Sentiment != nil {
			counts[rec.Sentiment.Label]++
		}
	}
	total := len(records)

	out := make([]LabelCount, 0, len(counts))
	for _, label := range domain.Labels(records) {
		out = append(out, LabelCount{
			Label:   label,
			Count:   counts[label],
			Percent: 100 * float64(counts[label]) / float64(total),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// SourceCount is the number of records per source.
type SourceCount struct {
	Source domain.Source
	Count  int
}

// SourceCounts counts all records per source, most frequent first.
func SourceCounts(records []domain.Record) []SourceCount {
	counts := map[domain.Source]int{}
	var order []domain.Source
	for _, rec := range records {
		if _, ok := counts[rec.Source]; !ok {
			order = append(order, rec.Source)
		}
		counts[rec.Source]++
	}

	out := make([]SourceCount, len(order))
	for i, s := range order {
		out[i] = SourceCount{Source: s, Count: counts[s]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// Crosstab holds labeled record counts per source and class.
type Crosstab struct {
	Sources []domain.Source
	Labels  []domain.Label
	Counts  map[domain.Source]map[domain.Label]int
}

// SourceTotal is the number of labeled records from source s.
func (c Crosstab) SourceTotal(s domain.Source) int {
	total := 0
	for _, n := range c.Counts[s] {
		total += n
	}
	return total
}

// Percent is the share of label within source s, 0 when s has no rows.
func (c Crosstab) Percent(s domain.Source, label domain.Label) float64 {
	total := c.SourceTotal(s)
	if total == 0 {
		return 0
	}
	return 100 * float64(c.Counts[s][label]) / float64(total)
}

// SentimentBySource builds the source × label crosstab of labeled records.
func SentimentBySource(records []domain.Record) Crosstab {
	ct := Crosstab{Counts: map[domain.Source]map[domain.Label]int{}}
	for _, lc := range LabelCounts(records) {
		ct.Labels = append(ct.Labels, lc.Label)
	}
	for _, rec := range records {
		if rec.Sentiment == nil {
			continue
		}
		row, ok := ct.Counts[rec.Source]
		if !ok {
			row = map[domain.Label]int{}
			ct.Counts[rec.Source] = row
			ct.Sources = append(ct.Sources, rec.Source)
		}
		row[rec.Sentiment.Label]++
	}
	return ct
}

// TextsByLabel selects field of every record classified as label.
func TextsByLabel(records []domain.Record, label domain.Label, field func(domain.Record) string) []string {
	var out []string
	for _, rec := range records {
		if rec.HasLabel(label) {
			out = append(out, field(rec))
		}
	}
	return out
}
