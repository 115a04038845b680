package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"CoreTaxSentiment/internal/domain"
)

// Summary is the end-of-run overview printed to the terminal.
type Summary struct {
	Variant  string
	Total    int
	Labeled  int
	Counts   []LabelCount
	Sources  []SourceCount
	Keywords domain.KeywordSet
	Topics   []domain.Topic
	Outputs  []string
}

// NewSummary gathers the counts of records into a Summary.
func NewSummary(variant string, records []domain.Record, kw domain.KeywordSet, ts []domain.Topic, outputs []string) Summary {
	labeled := 0
	for _, r := range records {
		if r.Labeled() {
			labeled++
		}
	}
	return Summary{
		Variant:  variant,
		Total:    len(records),
		Labeled:  labeled,
		Counts:   LabelCounts(records),
		Sources:  SourceCounts(records),
		Keywords: kw,
		Topics:   ts,
		Outputs:  outputs,
	}
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#06B6D4")).
			MarginTop(1)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086"))

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#45475A")).
			Padding(0, 1)

	labelColors = map[domain.Label]lipgloss.Color{
		domain.LabelPositive: lipgloss.Color("#A6E3A1"),
		domain.LabelNegative: lipgloss.Color("#F38BA8"),
		domain.LabelNeutral:  lipgloss.Color("#F9E2AF"),
	}
)

func labelStyle(l domain.Label) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	if c, ok := labelColors[l]; ok {
		s = s.Foreground(c)
	}
	return s
}

// Render writes the styled summary to w.
func (s Summary) Render(w io.Writer) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render("CoreTax Sentiment: " + s.Variant))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Total data: %d, berlabel: %d\n", s.Total, s.Labeled))

	if len(s.Sources) > 0 {
		b.WriteString(sectionStyle.Render("Sumber"))
		b.WriteString("\n")
		for _, src := range s.Sources {
			b.WriteString(fmt.Sprintf("  %-16s %6d\n", src.Source, src.Count))
		}
	}

	b.WriteString(sectionStyle.Render("Distribusi Sentimen"))
	b.WriteString("\n")
	if len(s.Counts) == 0 {
		b.WriteString(mutedStyle.Render("  " + NoData))
		b.WriteString("\n")
	}
	for _, c := range s.Counts {
		b.WriteString(fmt.Sprintf("  %s %6d  %5.1f%%\n", labelStyle(c.Label).Width(10).Render(string(c.Label)), c.Count, c.Percent))
	}

	if len(s.Keywords) > 0 {
		b.WriteString(sectionStyle.Render("Kata Kunci"))
		b.WriteString("\n")
		for _, c := range s.Counts {
			words := s.Keywords[c.Label]
			line := NoData
			if len(words) > 0 {
				line = strings.Join(words, ", ")
			}
			b.WriteString(fmt.Sprintf("  %s %s\n", labelStyle(c.Label).Render(string(c.Label)+":"), line))
		}
	}

	if len(s.Topics) > 0 {
		b.WriteString(sectionStyle.Render("Topik"))
		b.WriteString("\n")
		for _, t := range s.Topics {
			line := fmt.Sprintf("  %3d %5d  %s", t.ID, t.Size, t.Name)
			if t.Label != "" {
				line += mutedStyle.Render("  (" + t.Label + ")")
			}
			b.WriteString(line + "\n")
		}
	}

	if len(s.Outputs) > 0 {
		b.WriteString(sectionStyle.Render("Keluaran"))
		b.WriteString("\n")
		for _, o := range s.Outputs {
			b.WriteString(mutedStyle.Render("  " + o))
			b.WriteString("\n")
		}
	}

	_, err := fmt.Fprintln(w, boxStyle.Render(strings.TrimRight(b.String(), "\n")))
	return err
}
