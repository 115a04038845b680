package preprocess

import (
	"strings"
	"unicode"
)

// Dictionary maps non-standard (tidak baku) words to their standard form.
type Dictionary struct {
	entries map[string]string
}

// NewDictionary wraps a tidak_baku -> kata_baku mapping.
func NewDictionary(entries map[string]string) *Dictionary {
	if entries == nil {
		entries = map[string]string{}
	}
	return &Dictionary{entries: entries}
}

// Len reports the number of entries.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Normalize substitutes whole tokens found in the dictionary. A replacement
// that is empty or contains anything besides letters and spaces is ignored.
func (d *Dictionary) Normalize(text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	if d.Len() == 0 {
		return strings.Join(words, " ")
	}

	for i, w := range words {
		if baku, ok := d.entries[w]; ok && validReplacement(baku) {
			words[i] = baku
		}
	}
	return strings.Join(words, " ")
}

func validReplacement(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
