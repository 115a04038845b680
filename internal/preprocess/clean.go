// Package preprocess turns raw scraped text into the normalized, tokenized
// and stemmed columns consumed by sentiment and keyword stages.
package preprocess

import (
	"regexp"
	"strings"
)

var (
	nonASCII        = regexp.MustCompile(`[^\x00-\x7f]`)
	escapedUnicode  = regexp.MustCompile(`(\\u[0-9A-Fa-f]+)`)
	outsideAllowed  = regexp.MustCompile(`[^A-Za-z0-9^,!./'+-=]`)
	standaloneDigit = regexp.MustCompile(`\b\d+\b`)
	singleLetter    = regexp.MustCompile(`\b[a-zA-Z]\b`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
)

const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// RemovePunctuation drops non-ASCII characters, literal \uXXXX escapes and
// every symbol outside the allow-list, then deletes ASCII punctuation.
func RemovePunctuation(text string) string {
	if text == "" {
		return ""
	}
	text = nonASCII.ReplaceAllString(text, "")
	text = escapedUnicode.ReplaceAllString(text, "")
	text = outsideAllowed.ReplaceAllString(text, " ")
	return stripPunctuation(text)
}

// RemoveNumbers replaces standalone digit runs with a space.
func RemoveNumbers(text string) string {
	if text == "" {
		return ""
	}
	return stripPunctuation(standaloneDigit.ReplaceAllString(text, " "))
}

// RemoveSingleChars deletes one-letter words.
func RemoveSingleChars(text string) string {
	if text == "" {
		return ""
	}
	return stripPunctuation(singleLetter.ReplaceAllString(text, ""))
}

// CollapseWhitespace squeezes whitespace runs into one space and trims the ends.
func CollapseWhitespace(text string) string {
	if text == "" {
		return ""
	}
	return strings.TrimSpace(stripPunctuation(whitespaceRun.ReplaceAllString(text, " ")))
}

// CaseFold lowercases text.
func CaseFold(text string) string {
	return strings.ToLower(text)
}

// Tokenize splits on whitespace.
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// Clean runs the cleaning stages in order.
func Clean(text string) string {
	text = RemovePunctuation(text)
	text = RemoveNumbers(text)
	text = RemoveSingleChars(text)
	return CollapseWhitespace(text)
}

func stripPunctuation(text string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(asciiPunctuation, r) {
			return -1
		}
		return r
	}, text)
}
