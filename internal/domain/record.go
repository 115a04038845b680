package domain

// Source names the platform a record was scraped from.
type Source string

const (
	SourceTwitter       Source = "Twitter"
	SourceTikTokComment Source = "TikTok Comment"
	SourceTikTokVideo   Source = "TikTok Video"
	SourcePlayStore     Source = "PlayStore"
	SourceYouTube       Source = "YouTube"
	// SourceUnknown marks rows of a mixed export whose source cell is blank.
	SourceUnknown       Source = "Unknown"
)

// Label is a sentiment class as reported by the classifier model.
// The set of labels belongs to the model, the constants below are only the common ones.
type Label string

const (
	LabelPositive Label = "positive"
	LabelNegative Label = "negative"
	LabelNeutral  Label = "neutral"
)

// Prediction is a single classifier output.
type Prediction struct {
	Label Label
	Score float64
}

// Record is one scraped post, comment or review flowing through the pipeline.
type Record struct {
	Text   string
	Source Source
	Date   string

	Cleaned    string
	CaseFolded string
	Normalized string
	Tokens     []string
	Filtered   []string
	Stemmed    string

	// Sentiment stays nil for rows whose normalized text is blank.
	Sentiment *Prediction
	// Topic is only assigned for the negative subset.
	Topic *TopicAssignment
}

// Labeled reports whether the record carries a sentiment prediction.
func (r Record) Labeled() bool {
	return r.Sentiment != nil
}

// HasLabel reports whether the record was classified as label.
func (r Record) HasLabel(label Label) bool {
	return r.Sentiment != nil && r.Sentiment.Label == label
}

// Labels returns the distinct labels present in records, in first-seen order.
func Labels(records []Record) []Label {
	seen := map[Label]struct{}{}
	var out []Label
	for _, rec := range records {
		if rec.Sentiment == nil {
			continue
		}
		if _, ok := seen[rec.Sentiment.Label]; ok {
			continue
		}
		seen[rec.Sentiment.Label] = struct{}{}
		out = append(out, rec.Sentiment.Label)
	}
	return out
}

// KeywordSet maps each sentiment class to its ranked keywords.
type KeywordSet map[Label][]string
