package domain

import "time"

// OutlierTopic marks documents that did not fall into any topic.
const OutlierTopic = -1

// TermWeight is a topic term with its class-based TF-IDF weight.
type TermWeight struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

// Topic describes one latent topic found among the negative texts.
type Topic struct {
	ID       int          `json:"id"`
	Name     string       `json:"name"`
	Label    string       `json:"label,omitempty"`
	Size     int          `json:"size"`
	Terms    []TermWeight `json:"terms"`
	Centroid []float64    `json:"centroid,omitempty"`
}

// Words returns the topic terms without weights.
func (t Topic) Words() []string {
	words := make([]string, len(t.Terms))
	for i, tw := range t.Terms {
		words[i] = tw.Term
	}
	return words
}

// TopicAssignment links a record to its topic.
type TopicAssignment struct {
	ID          int
	Name        string
	Words       []string
	Probability float64
}

// Run is a snapshot of one pipeline execution kept in the run history.
type Run struct {
	ID         string
	Variant    string
	StartedAt  time.Time
	FinishedAt time.Time
	Records    []Record
	Keywords   KeywordSet
	Topics     []Topic
}

// RunSummary is the persisted headline of a run.
type RunSummary struct {
	ID             string
	Variant        string
	StartedAt      time.Time
	FinishedAt     time.Time
	TotalRecords   int
	LabeledRecords int
}
