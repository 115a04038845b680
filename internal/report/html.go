package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"CoreTaxSentiment/internal/domain"
	"CoreTaxSentiment/internal/keywords"
	"CoreTaxSentiment/internal/topics"
)

// MaxCloudWords caps the number of words drawn in a word cloud.
const MaxCloudWords = 100

// WordCloudHTML renders a word cloud of the most frequent words in texts.
func WordCloudHTML(path, title string, texts []string) error {
	counts := keywords.TopWords(texts, MaxCloudWords, 0)

	wc := charts.NewWordCloud()
	wc.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitleFor(len(counts))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	data := make([]opts.WordCloudData, len(counts))
	for i, c := range counts {
		data[i] = opts.WordCloudData{Name: c.Word, Value: c.Count}
	}
	wc.AddSeries("kata", data, charts.WithWorldCloudChartOpts(opts.WordCloudChart{
		Shape:     "circle",
		SizeRange: []float32{12, 64},
	}))

	return writeHTML(path, wc.Render)
}

// TopicMapHTML plots topic centroids projected on their first two principal
// components; point size follows topic size.
func TopicMapHTML(path string, ts []domain.Topic) error {
	var (
		kept      []domain.Topic
		centroids [][]float64
	)
	for _, t := range ts {
		if t.ID != domain.OutlierTopic && len(t.Centroid) > 0 {
			kept = append(kept, t)
			centroids = append(centroids, t.Centroid)
		}
	}

	coords := project2D(centroids)
	data := make([]opts.ScatterData, len(kept))
	maxSize := 1
	for _, t := range kept {
		maxSize = max(maxSize, t.Size)
	}
	for i, t := range kept {
		data[i] = opts.ScatterData{
			Name:       t.Name,
			Value:      []float64{coords[i][0], coords[i][1]},
			SymbolSize: 10 + 40*t.Size/maxSize,
		}
	}

	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Peta Topik", Width: "900px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Peta Topik", Subtitle: subtitleFor(len(kept))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Formatter: "{b}"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "PC1", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "PC2", Type: "value"}),
	)
	sc.AddSeries("topik", data)

	return writeHTML(path, sc.Render)
}

// TopicBarsHTML renders one horizontal term bar chart per topic for the
// first limit topics.
func TopicBarsHTML(path string, ts []domain.Topic, limit int) error {
	page := components.NewPage()
	page.SetPageTitle("Kata Kunci Topik")

	shown := 0
	for _, t := range ts {
		if t.ID == domain.OutlierTopic {
			continue
		}
		if limit > 0 && shown == limit {
			break
		}
		shown++

		names := make([]string, len(t.Terms))
		data := make([]opts.BarData, len(t.Terms))
		for i, tw := range t.Terms {
			j := len(t.Terms) - 1 - i
			names[j] = tw.Term
			data[j] = opts.BarData{Value: tw.Weight}
		}

		bar := charts.NewBar()
		title := "Topik " + strconv.Itoa(t.ID)
		if t.Label != "" {
			title += ": " + t.Label
		}
		bar.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{Width: "450px", Height: "350px"}),
			charts.WithTitleOpts(opts.Title{Title: title}),
		)
		bar.SetXAxis(names).AddSeries("c-TF-IDF", data)
		bar.XYReversal()
		page.AddCharts(bar)
	}

	if shown == 0 {
		empty := charts.NewBar()
		empty.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Kata Kunci Topik", Subtitle: NoData}))
		page.AddCharts(empty)
	}

	return writeHTML(path, page.Render)
}

// TopicHierarchyHTML renders the merge tree of topics.
func TopicHierarchyHTML(path string, root *topics.Node, ts []domain.Topic) error {
	names := map[int]string{}
	for _, t := range ts {
		names[t.ID] = t.Name
	}

	tree := charts.NewTree()
	tree.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Hierarki Topik", Width: "1000px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: "Hierarki Topik"}),
	)

	var data []opts.TreeData
	if root == nil {
		data = []opts.TreeData{{Name: NoData}}
	} else {
		data = []opts.TreeData{*treeData(root, names)}
	}
	tree.AddSeries("hierarki", data, charts.WithTreeOpts(opts.TreeChart{
		Layout:           "orthogonal",
		Orient:           "LR",
		InitialTreeDepth: -1,
	}))

	return writeHTML(path, tree.Render)
}

func treeData(n *topics.Node, names map[int]string) *opts.TreeData {
	if n.Leaf() {
		return &opts.TreeData{Name: names[n.Topics[0]]}
	}
	node := &opts.TreeData{Name: fmt.Sprintf("%.3f", n.Distance)}
	for _, c := range n.Children {
		node.Children = append(node.Children, treeData(c, names))
	}
	return node
}

// project2D returns the first two principal component scores of rows.
// Fewer than two rows, or one dimension, fall back to a line along x.
func project2D(rows [][]float64) [][2]float64 {
	out := make([][2]float64, len(rows))
	if len(rows) < 2 || len(rows[0]) < 2 {
		for i := range out {
			out[i][0] = float64(i)
		}
		return out
	}

	n, d := len(rows), len(rows[0])
	x := mat.NewDense(n, d, nil)
	for i, r := range rows {
		x.SetRow(i, r)
	}

	var pc stat.PC
	if !pc.PrincipalComponents(x, nil) {
		for i := range out {
			out[i][0] = float64(i)
		}
		return out
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)

	means := make([]float64, d)
	for j := 0; j < d; j++ {
		means[j] = stat.Mean(mat.Col(nil, j, x), nil)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			x.Set(i, j, x.At(i, j)-means[j])
		}
	}

	var scores mat.Dense
	scores.Mul(x, vecs.Slice(0, d, 0, 2))
	for i := range out {
		out[i] = [2]float64{scores.At(i, 0), scores.At(i, 1)}
	}
	return out
}

func subtitleFor(n int) string {
	if n == 0 {
		return NoData
	}
	return ""
}

func writeHTML(path string, render func(w io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := render(f); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
