package ingest

import (
	"fmt"
	"sort"
	"strings"

	"CoreTaxSentiment/internal/domain"
)

// Schema describes the columns of one export format.
// Candidate columns are tried in order; the first present one wins.
type Schema struct {
	Name         string
	Source       domain.Source
	TextColumns  []string
	DateColumns  []string
	SourceColumn string
	HTML         bool
}

// binding holds resolved column positions, -1 when the column is absent.
type binding struct {
	text   int
	date   int
	source int
}

// bind checks a header once and resolves the column positions.
func (s Schema) bind(header []string) (binding, error) {
	pos := make(map[string]int, len(header))
	for i, col := range header {
		col = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		if _, ok := pos[col]; !ok {
			pos[col] = i
		}
	}

	b := binding{
		text:   firstPresent(pos, s.TextColumns),
		date:   firstPresent(pos, s.DateColumns),
		source: -1,
	}
	if s.SourceColumn != "" {
		if i, ok := pos[s.SourceColumn]; ok {
			b.source = i
		}
	}

	if b.text < 0 {
		return binding{}, fmt.Errorf("schema %s: none of the text columns %v present", s.Name, s.TextColumns)
	}
	return b, nil
}

func firstPresent(pos map[string]int, candidates []string) int {
	for _, c := range candidates {
		if i, ok := pos[c]; ok {
			return i
		}
	}
	return -1
}

// Registry keeps a mapping from schema names to their descriptors.
type Registry struct {
	schemas map[string]Schema
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemas: map[string]Schema{}}
}

// DefaultRegistry knows every export format CoreTax data was scraped into.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Schema{
		Name:        "twitter",
		Source:      domain.SourceTwitter,
		TextColumns: []string{"full_text", "text"},
		DateColumns: []string{"created_at"},
	})
	r.Register(Schema{
		Name:        "tiktok-comment",
		Source:      domain.SourceTikTokComment,
		TextColumns: []string{"text"},
		DateColumns: []string{"createTimeISO"},
	})
	r.Register(Schema{
		Name:        "tiktok-video",
		Source:      domain.SourceTikTokVideo,
		TextColumns: []string{"text"},
		DateColumns: []string{"createTimeISO"},
	})
	r.Register(Schema{
		Name:         "playstore",
		Source:       domain.SourcePlayStore,
		TextColumns:  []string{"content", "text"},
		DateColumns:  []string{"at", "date"},
		SourceColumn: "source",
	})
	r.Register(Schema{
		Name:         "youtube",
		Source:       domain.SourceYouTube,
		TextColumns:  []string{"text", "content"},
		DateColumns:  []string{"date", "publishedAt"},
		SourceColumn: "source",
		HTML:         true,
	})
	r.Register(Schema{
		Name:         "combined",
		Source:       domain.SourceUnknown,
		TextColumns:  []string{"cleaned_text", "text", "content"},
		DateColumns:  []string{"date", "created_at", "createTimeISO"},
		SourceColumn: "source",
	})
	return r
}

// Register adds or replaces a schema.
func (r *Registry) Register(s Schema) {
	if r.schemas == nil {
		r.schemas = map[string]Schema{}
	}
	r.schemas[s.Name] = s
}

// Resolve returns a schema by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Schema, error) {
	if s, ok := r.schemas[name]; ok {
		return s, nil
	}
	return Schema{}, fmt.Errorf("schema %s is not registered", name)
}

// Names lists registered schema names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
