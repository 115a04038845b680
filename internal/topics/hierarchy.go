package topics

import (
	"gonum.org/v1/gonum/floats"

	"CoreTaxSentiment/internal/domain"
)

// Node is one merge in the topic hierarchy. Leaves carry a single topic id.
type Node struct {
	Topics   []int   `json:"topics"`
	Distance float64 `json:"distance"`
	Children []*Node `json:"children,omitempty"`
}

// Leaf reports whether n is a single topic.
func (n *Node) Leaf() bool {
	return len(n.Children) == 0
}

// Hierarchy merges topic centroids bottom-up with average-linkage cosine
// distance. Outliers and topics without a centroid are ignored; nil is
// returned when nothing is left.
func Hierarchy(topics []domain.Topic) *Node {
	var (
		nodes     []*Node
		centroids [][]float64
	)
	for _, t := range topics {
		if t.ID == domain.OutlierTopic || len(t.Centroid) == 0 {
			continue
		}
		nodes = append(nodes, &Node{Topics: []int{t.ID}})
		centroids = append(centroids, t.Centroid)
	}
	if len(nodes) == 0 {
		return nil
	}

	index := map[int]int{}
	for i, n := range nodes {
		index[n.Topics[0]] = i
	}
	dist := func(a, b *Node) float64 {
		var sum float64
		for _, x := range a.Topics {
			for _, y := range b.Topics {
				sum += 1 - floats.Dot(centroids[index[x]], centroids[index[y]])
			}
		}
		return sum / float64(len(a.Topics)*len(b.Topics))
	}

	for len(nodes) > 1 {
		bi, bj, best := 0, 1, dist(nodes[0], nodes[1])
		for i := 0; i < len(nodes); i++ {
			for j := i + 1; j < len(nodes); j++ {
				if d := dist(nodes[i], nodes[j]); d < best {
					bi, bj, best = i, j, d
				}
			}
		}

		merged := &Node{
			Topics:   append(append([]int(nil), nodes[bi].Topics...), nodes[bj].Topics...),
			Distance: best,
			Children: []*Node{nodes[bi], nodes[bj]},
		}
		nodes = append(nodes[:bj], nodes[bj+1:]...)
		nodes[bi] = merged
	}
	return nodes[0]
}
