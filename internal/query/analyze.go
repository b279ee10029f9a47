package query

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Analyze splits text into lowercase letter/digit runs, mirroring the
// tokenization applied when articles are indexed.
func Analyze(text string) []string {
	// cases.Caser is stateful; one per call keeps Analyze safe for concurrent use.
	lower := cases.Lower(language.Und)

	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		tokens = append(tokens, lower.String(w))
	}
	return tokens
}

// Fold lowercases s with Unicode rules for table lookups.
func Fold(s string) string {
	return cases.Lower(language.Und).String(s)
}

// reserved lists the characters with syntactic meaning in free-text queries.
const reserved = `+-&|!(){}[]^"~*?:\/`

// Escape backslash-escapes every reserved character so that the text parses
// as plain terms.
func Escape(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if strings.ContainsRune(reserved, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
