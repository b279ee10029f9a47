// Package kwic extracts keyword-in-context snippets from article text.
//
// The anchor is the first whitespace-delimited token of the query; multi-word
// queries are highlighted by their first term only. Occurrences are taken in
// document order and a snippet's right context is never searched again, so in
// "quick x quick" only the first "quick" is a match when both fit one window.
package kwic

import (
	"iter"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Extraction defaults and limits.
const (
	DefaultWindowChars = 80
	DefaultMaxSnippets = 3
	MaxWindowChars     = 1000
)

// Snippet is one occurrence of the anchor with its surrounding text.
type Snippet struct {
	Left  string
	Match string
	Right string
}

// Options control snippet size and count. Zero values select the defaults.
// WindowWords > 0 switches from a character window to a word window.
type Options struct {
	WindowChars int
	WindowWords int
	MaxSnippets int
}

func (o Options) withDefaults() Options {
	if o.WindowChars <= 0 {
		o.WindowChars = DefaultWindowChars
	}
	o.WindowChars = min(o.WindowChars, MaxWindowChars)
	if o.MaxSnippets <= 0 {
		o.MaxSnippets = DefaultMaxSnippets
	}
	return o
}

// Anchor returns the highlight term for query: its first token with field
// prefixes, quotes, grouping and wildcard characters removed.
func Anchor(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}
	tok := fields[0]
	if i := strings.LastIndexAny(tok, ":="); i >= 0 {
		tok = tok[i+1:]
	}
	return strings.TrimFunc(tok, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// Extractor finds snippets for one query. Build it once per request and reuse
// it across documents; it is safe for concurrent use.
type Extractor struct {
	rx   *regexp.Regexp // nil when the query has no anchor
	opts Options
}

// New compiles the anchor of query. The anchor matches case-insensitively
// together with any trailing letters, digits or underscores.
func New(query string, opts Options) *Extractor {
	e := &Extractor{opts: opts.withDefaults()}
	if anchor := Anchor(query); anchor != "" {
		e.rx = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(anchor) + `[\p{L}\p{N}_]*`)
	}
	return e
}

// Snippets returns a lazy sequence of up to MaxSnippets non-overlapping
// occurrences in text. The sequence may be ranged over any number of times.
func (e *Extractor) Snippets(text string) iter.Seq[Snippet] {
	return func(yield func(Snippet) bool) {
		if text == "" || e.rx == nil {
			return
		}
		pos := 0
		for n := 0; n < e.opts.MaxSnippets; {
			loc := e.rx.FindStringIndex(text[pos:])
			if loc == nil {
				return
			}
			ms, me := pos+loc[0], pos+loc[1]

			var s Snippet
			if e.opts.WindowWords > 0 {
				if !atWordStart(text, ms) {
					pos = me
					continue
				}
				left := wordsBefore(text[pos:ms], e.opts.WindowWords)
				right := wordsAfter(text[me:], e.opts.WindowWords)
				s = Snippet{Left: strings.TrimSpace(left), Match: text[ms:me], Right: strings.TrimSpace(right)}
				pos = me + len(right)
			} else {
				left := lastRunes(text[pos:ms], e.opts.WindowChars)
				right := firstRunes(text[me:], e.opts.WindowChars)
				s = Snippet{Left: left, Match: text[ms:me], Right: right}
				pos = me + len(right)
			}

			if !yield(s) {
				return
			}
			n++
		}
	}
}

// Extract materializes Snippets.
func (e *Extractor) Extract(text string) []Snippet {
	var out []Snippet
	for s := range e.Snippets(text) {
		out = append(out, s)
	}
	return out
}

// Snippets is New(query, opts).Snippets(text).
func Snippets(text, query string, opts Options) iter.Seq[Snippet] {
	return New(query, opts).Snippets(text)
}

// Extract is New(query, opts).Extract(text).
func Extract(text, query string, opts Options) []Snippet {
	return New(query, opts).Extract(text)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_'
}

func atWordStart(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

// lastRunes returns at most n runes from the end of s, stopping at a newline.
func lastRunes(s string, n int) string {
	if j := strings.LastIndexByte(s, '\n'); j >= 0 {
		s = s[j+1:]
	}
	i := len(s)
	for ; n > 0 && i > 0; n-- {
		_, size := utf8.DecodeLastRuneInString(s[:i])
		i -= size
	}
	return s[i:]
}

// firstRunes returns at most n runes from the start of s, stopping at a newline.
func firstRunes(s string, n int) string {
	if j := strings.IndexByte(s, '\n'); j >= 0 {
		s = s[:j]
	}
	i := 0
	for ; n > 0 && i < len(s); n-- {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return s[:i]
}

// wordsBefore returns the tail of s holding n whitespace-delimited words plus
// any non-space text glued to the match.
func wordsBefore(s string, n int) string {
	i := len(s)
	skip := func(space bool) {
		for i > 0 {
			r, size := utf8.DecodeLastRuneInString(s[:i])
			if unicode.IsSpace(r) != space {
				return
			}
			i -= size
		}
	}
	skip(false)
	for ; n > 0; n-- {
		skip(true)
		skip(false)
	}
	return s[i:]
}

// wordsAfter returns the head of s holding any non-space text glued to the
// match plus n whitespace-delimited words.
func wordsAfter(s string, n int) string {
	i := 0
	skip := func(space bool) {
		for i < len(s) {
			r, size := utf8.DecodeRuneInString(s[i:])
			if unicode.IsSpace(r) != space {
				return
			}
			i += size
		}
	}
	skip(false)
	for ; n > 0; n-- {
		skip(true)
		skip(false)
	}
	return s[:i]
}
