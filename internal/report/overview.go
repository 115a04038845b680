package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"CoreTaxSentiment/internal/domain"
	"CoreTaxSentiment/internal/keywords"
)

// Inspection is the data check printed by the inspect command.
type Inspection struct {
	Total   int
	Sources []SourceCount
	Bigrams []keywords.WordCount
	// Topics come from a previously saved topic model, if any.
	Topics []domain.Topic
}

// Render writes the styled inspection to w.
func (in Inspection) Render(w io.Writer) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render("CoreTax Sentiment: inspect"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Total data unik: %d\n", in.Total))

	b.WriteString(sectionStyle.Render("Distribusi Sumber"))
	b.WriteString("\n")
	for _, src := range in.Sources {
		b.WriteString(fmt.Sprintf("  %-16s %6d\n", src.Source, src.Count))
	}

	b.WriteString(sectionStyle.Render("10 Bigram Teratas"))
	b.WriteString("\n")
	if len(in.Bigrams) == 0 {
		b.WriteString(mutedStyle.Render("  " + NoData))
		b.WriteString("\n")
	}
	for _, g := range in.Bigrams {
		b.WriteString(fmt.Sprintf("  %-28s %6d\n", g.Word, g.Count))
	}

	if len(in.Topics) > 0 {
		b.WriteString(sectionStyle.Render("Model Topik Tersimpan"))
		b.WriteString("\n")
		for _, t := range in.Topics {
			b.WriteString(fmt.Sprintf("  %3d %5d  %s\n", t.ID, t.Size, t.Name))
		}
	}

	_, err := fmt.Fprintln(w, boxStyle.Render(strings.TrimRight(b.String(), "\n")))
	return err
}

// History lists stored runs, newest first, with the keywords of the latest.
type History struct {
	Runs   []domain.RunSummary
	Latest domain.KeywordSet
}

// Render writes the styled run history to w.
func (h History) Render(w io.Writer) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render("CoreTax Sentiment: riwayat"))
	b.WriteString("\n")
	if len(h.Runs) == 0 {
		b.WriteString(mutedStyle.Render(NoData))
		b.WriteString("\n")
	}
	for _, r := range h.Runs {
		b.WriteString(fmt.Sprintf("  %s  %-5s  %s  %6d/%-6d %s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.Variant,
			r.ID,
			r.LabeledRecords,
			r.TotalRecords,
			mutedStyle.Render(r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String()),
		))
	}

	if len(h.Latest) > 0 {
		b.WriteString(sectionStyle.Render("Kata Kunci Terakhir"))
		b.WriteString("\n")
		labels := make([]string, 0, len(h.Latest))
		for l := range h.Latest {
			labels = append(labels, string(l))
		}
		sort.Strings(labels)
		for _, l := range labels {
			label := domain.Label(l)
			b.WriteString(fmt.Sprintf("  %s %s\n", labelStyle(label).Render(l+":"), strings.Join(h.Latest[label], ", ")))
		}
	}

	_, err := fmt.Fprintln(w, boxStyle.Render(strings.TrimRight(b.String(), "\n")))
	return err
}
