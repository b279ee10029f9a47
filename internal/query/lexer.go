package query

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// errSyntax marks text the parser cannot accept as written.
var errSyntax = errors.New("query syntax error")

type tokenKind int

const (
	tokTerm tokenKind = iota
	tokPhrase
	tokAnd
	tokOr
	tokNot
	tokRequired
	tokLParen
	tokRParen
)

type token struct {
	kind   tokenKind
	text   string
	prefix bool // term ended with an unescaped '*'
}

// lex splits raw query text into tokens. Unsupported syntax (ranges,
// boosts, fuzzy and field qualifiers, inner wildcards) is rejected.
func lex(input string) ([]token, error) {
	var toks []token
	rs := []rune(input)

	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(':
			toks = append(toks, token{kind: tokLParen})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokRParen})
			i++
		case r == '"':
			text, next, err := lexPhrase(rs, i+1)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{kind: tokPhrase, text: text})
			i = next
		case r == '&' || r == '|':
			if i+1 >= len(rs) || rs[i+1] != r {
				return nil, fmt.Errorf("%w: lone %q at %d", errSyntax, r, i)
			}
			kind := tokAnd
			if r == '|' {
				kind = tokOr
			}
			toks = append(toks, token{kind: kind})
			i += 2
		case r == '!' || r == '-':
			toks = append(toks, token{kind: tokNot})
			i++
		case r == '+':
			toks = append(toks, token{kind: tokRequired})
			i++
		case strings.ContainsRune(`{}[]^~:/*?`, r):
			return nil, fmt.Errorf("%w: unsupported %q at %d", errSyntax, r, i)
		default:
			tok, next, err := lexTerm(rs, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
			i = next
		}
	}
	return toks, nil
}

func lexPhrase(rs []rune, i int) (string, int, error) {
	var b strings.Builder
	for ; i < len(rs); i++ {
		switch rs[i] {
		case '\\':
			if i+1 >= len(rs) {
				return "", 0, fmt.Errorf("%w: dangling escape", errSyntax)
			}
			i++
			b.WriteRune(rs[i])
		case '"':
			return b.String(), i + 1, nil
		default:
			b.WriteRune(rs[i])
		}
	}
	return "", 0, fmt.Errorf("%w: unterminated phrase", errSyntax)
}

// lexTerm reads a bare word. '-' and '+' are term characters after the first
// rune; a trailing '*' marks a prefix term.
func lexTerm(rs []rune, i int) (token, int, error) {
	var b strings.Builder
	for i < len(rs) {
		r := rs[i]
		if unicode.IsSpace(r) || strings.ContainsRune(`()"!&|`, r) {
			break
		}
		switch {
		case r == '\\':
			if i+1 >= len(rs) {
				return token{}, 0, fmt.Errorf("%w: dangling escape", errSyntax)
			}
			b.WriteRune(rs[i+1])
			i += 2
			continue
		case r == '*':
			if i+1 < len(rs) && !unicode.IsSpace(rs[i+1]) && !strings.ContainsRune(`()`, rs[i+1]) {
				return token{}, 0, fmt.Errorf("%w: inner wildcard at %d", errSyntax, i)
			}
			return wordToken(b.String(), true), i + 1, nil
		case strings.ContainsRune(`{}[]^~:/?`, r):
			return token{}, 0, fmt.Errorf("%w: unsupported %q at %d", errSyntax, r, i)
		}
		b.WriteRune(r)
		i++
	}
	return wordToken(b.String(), false), i, nil
}

func wordToken(word string, prefix bool) token {
	if !prefix {
		switch word {
		case "AND":
			return token{kind: tokAnd}
		case "OR":
			return token{kind: tokOr}
		case "NOT":
			return token{kind: tokNot}
		}
	}
	return token{kind: tokTerm, text: word, prefix: prefix}
}
