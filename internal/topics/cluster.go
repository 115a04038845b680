package topics

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"CoreTaxSentiment/internal/domain"
)

const unvisited = -2

// unitRows copies vectors into a matrix with l2-normalized rows so that
// X·Xᵀ holds pairwise cosine similarities.
func unitRows(vectors [][]float64) (*mat.Dense, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no vectors")
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("empty embedding vector")
	}

	x := mat.NewDense(len(vectors), dim, nil)
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("embedding %d has dimension %d, want %d", i, len(v), dim)
		}
		row := x.RawRowView(i)
		copy(row, v)
		if norm := floats.Norm(row, 2); norm > 0 {
			floats.Scale(1/norm, row)
		}
	}
	return x, nil
}

// dbscan labels each row of x with a cluster index or domain.OutlierTopic.
// Points are visited in row order, so the result is deterministic.
func dbscan(x *mat.Dense, eps float64, minSamples int) []int {
	if minSamples < 1 {
		minSamples = 1
	}
	n, _ := x.Dims()

	var sim mat.Dense
	sim.Mul(x, x.T())

	neighbors := make([][]int, n)
	for i := 0; i < n; i++ {
		row := sim.RawRowView(i)
		for j, s := range row {
			if 1-s <= eps+1e-12 {
				neighbors[i] = append(neighbors[i], j)
			}
		}
	}

	labels := make([]int, n)
	for i := range labels {
		labels[i] = unvisited
	}

	cluster := 0
	for i := 0; i < n; i++ {
		if labels[i] != unvisited {
			continue
		}
		if len(neighbors[i]) < minSamples {
			labels[i] = domain.OutlierTopic
			continue
		}

		labels[i] = cluster
		queue := append([]int(nil), neighbors[i]...)
		for len(queue) > 0 {
			j := queue[0]
			queue = queue[1:]
			if labels[j] == domain.OutlierTopic {
				labels[j] = cluster
			}
			if labels[j] != unvisited {
				continue
			}
			labels[j] = cluster
			if len(neighbors[j]) >= minSamples {
				queue = append(queue, neighbors[j]...)
			}
		}
		cluster++
	}
	return labels
}

// renumber drops clusters smaller than minSize into the outlier topic and
// renumbers the rest 0..k-1 by size, largest first.
func renumber(labels []int, minSize int) []int {
	sizes := map[int]int{}
	for _, l := range labels {
		if l != domain.OutlierTopic {
			sizes[l]++
		}
	}

	var kept []int
	for id, size := range sizes {
		if size >= minSize {
			kept = append(kept, id)
		}
	}
	sort.Slice(kept, func(i, j int) bool {
		if sizes[kept[i]] != sizes[kept[j]] {
			return sizes[kept[i]] > sizes[kept[j]]
		}
		return kept[i] < kept[j]
	})

	mapping := make(map[int]int, len(kept))
	for newID, old := range kept {
		mapping[old] = newID
	}

	out := make([]int, len(labels))
	for i, l := range labels {
		if id, ok := mapping[l]; ok {
			out[i] = id
		} else {
			out[i] = domain.OutlierTopic
		}
	}
	return out
}

// centroid averages the unit rows of members and normalizes the result.
func centroid(x *mat.Dense, members []int) []float64 {
	_, dim := x.Dims()
	c := make([]float64, dim)
	for _, m := range members {
		floats.Add(c, x.RawRowView(m))
	}
	if norm := floats.Norm(c, 2); norm > 0 {
		floats.Scale(1/norm, c)
	}
	return c
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
