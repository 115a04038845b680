package report

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"CoreTaxSentiment/internal/domain"
	"CoreTaxSentiment/internal/keywords"
)

var (
	chartWidth  = 10 * vg.Inch
	chartHeight = 6 * vg.Inch
)

// SentimentDistributionPNG draws one bar per class annotated with
// "count (percent%)".
func SentimentDistributionPNG(path string, counts []LabelCount) error {
	if len(counts) == 0 {
		return placeholderPNG(path, "Distribusi Sentimen")
	}

	p := plot.New()
	p.Title.Text = "Distribusi Sentimen"
	p.Y.Label.Text = "Jumlah"

	values := make(plotter.Values, len(counts))
	names := make([]string, len(counts))
	captions := make([]string, len(counts))
	for i, c := range counts {
		values[i] = float64(c.Count)
		names[i] = string(c.Label)
		captions[i] = fmt.Sprintf("%d (%.1f%%)", c.Count, c.Percent)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return fmt.Errorf("sentiment bars: %w", err)
	}
	bars.Color = plotutil.Color(0)
	p.Add(bars)

	labels, err := barLabels(values, captions)
	if err != nil {
		return err
	}
	p.Add(labels)
	p.NominalX(names...)

	return save(p, path)
}

// SentimentBySourcePNG draws grouped bars, one group per source and one bar
// per class, each annotated with its share within the source.
func SentimentBySourcePNG(path string, ct Crosstab) error {
	if len(ct.Sources) == 0 {
		return placeholderPNG(path, "Sentimen per Sumber")
	}

	p := plot.New()
	p.Title.Text = "Sentimen per Sumber"
	p.Y.Label.Text = "Jumlah"
	p.Legend.Top = true

	width := vg.Points(18)
	n := len(ct.Labels)
	for li, label := range ct.Labels {
		values := make(plotter.Values, len(ct.Sources))
		captions := make([]string, len(ct.Sources))
		for si, s := range ct.Sources {
			values[si] = float64(ct.Counts[s][label])
			captions[si] = fmt.Sprintf("%.1f%%", ct.Percent(s, label))
		}

		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return fmt.Errorf("source bars: %w", err)
		}
		bars.Color = plotutil.Color(li)
		bars.Offset = vg.Length(float64(li)-float64(n-1)/2) * width
		p.Add(bars)
		p.Legend.Add(string(label), bars)

		labels, err := barLabels(values, captions)
		if err != nil {
			return err
		}
		labels.Offset.X = bars.Offset
		p.Add(labels)
	}

	names := make([]string, len(ct.Sources))
	for i, s := range ct.Sources {
		names[i] = string(s)
	}
	p.NominalX(names...)

	return save(p, path)
}

// WordCountsPNG draws a horizontal bar chart of word frequencies.
func WordCountsPNG(path, title string, words []keywords.WordCount) error {
	if len(words) == 0 {
		return placeholderPNG(path, title)
	}
	values := make(plotter.Values, len(words))
	names := make([]string, len(words))
	for i, w := range words {
		// Reverse so the most frequent word ends up on top.
		j := len(words) - 1 - i
		values[j] = float64(w.Count)
		names[j] = w.Word
	}
	return horizontalPNG(path, title, "Frekuensi", values, names)
}

// TermWeightsPNG draws a horizontal bar chart of TF-IDF scores.
func TermWeightsPNG(path, title string, terms []domain.TermWeight) error {
	if len(terms) == 0 {
		return placeholderPNG(path, title)
	}
	values := make(plotter.Values, len(terms))
	names := make([]string, len(terms))
	for i, t := range terms {
		j := len(terms) - 1 - i
		values[j] = t.Weight
		names[j] = t.Term
	}
	return horizontalPNG(path, title, "Skor TF-IDF", values, names)
}

func horizontalPNG(path, title, axis string, values plotter.Values, names []string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = axis

	bars, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return fmt.Errorf("%s: %w", title, err)
	}
	bars.Horizontal = true
	bars.Color = plotutil.Color(2)
	p.Add(bars)
	p.NominalY(names...)

	return save(p, path)
}

// placeholderPNG writes an empty chart carrying the NoData caption.
func placeholderPNG(path, title string) error {
	p := plot.New()
	p.Title.Text = title
	p.HideAxes()
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1

	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: 0.5, Y: 0.5}},
		Labels: []string{NoData},
	})
	if err != nil {
		return fmt.Errorf("placeholder label: %w", err)
	}
	labels.TextStyle[0].XAlign = text.XCenter
	p.Add(labels)

	return save(p, path)
}

func barLabels(values plotter.Values, captions []string) (*plotter.Labels, error) {
	xys := make(plotter.XYs, len(values))
	for i, v := range values {
		xys[i] = plotter.XY{X: float64(i), Y: v}
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: captions})
	if err != nil {
		return nil, fmt.Errorf("bar labels: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = text.XCenter
	}
	labels.Offset.Y = vg.Points(4)
	return labels, nil
}

func save(p *plot.Plot, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}
	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return fmt.Errorf("save %s: %w", filepath.Base(path), err)
	}
	return nil
}
