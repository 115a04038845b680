package ingest

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var lineBreakTag = regexp.MustCompile(`(?i)<br\s*/?>`)

// StripHTML drops markup and decodes entities from scraped comment bodies
// (the YouTube API returns textDisplay with <br> and &quot;).
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}

	s = lineBreakTag.ReplaceAllString(s, " ")
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}
