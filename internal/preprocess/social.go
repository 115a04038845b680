package preprocess

import (
	"regexp"
	"strings"

	"github.com/forPelevin/gomoji"
)

var (
	urlPattern     = regexp.MustCompile(`(?m)http\S+|www\S+|https\S+`)
	mentionPattern = regexp.MustCompile(`@\w+`)
	nonWord        = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
)

// CleanSocial is the lighter cleaner used by the quick run: it removes URLs,
// mentions, hash signs, symbols and emoji, keeping case and numbers.
func CleanSocial(text string) string {
	if text == "" {
		return ""
	}
	text = urlPattern.ReplaceAllString(text, "")
	text = mentionPattern.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "#", "")
	text = nonWord.ReplaceAllString(text, "")
	text = gomoji.RemoveEmojis(text)
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}
