package query

import (
	"strings"
)

// minPrefixLen is the shortest stem the engine expands as a prefix.
const minPrefixLen = 2

// Node is a parsed query expression rendered in engine syntax.
type Node interface {
	Render() string
}

// Term matches one analyzed token in any of the text fields.
type Term struct {
	Fields []string
	Token  string
	Prefix bool
}

// Render implements Node.
func (t Term) Render() string {
	s := fieldScope(t.Fields) + t.Token
	if t.Prefix {
		s += "*"
	}
	return s
}

// Phrase matches adjacent tokens in any of the text fields.
type Phrase struct {
	Fields []string
	Tokens []string
}

// Render implements Node.
func (p Phrase) Render() string {
	return fieldScope(p.Fields) + `"` + strings.Join(p.Tokens, " ") + `"`
}

// And requires every child.
type And struct{ Children []Node }

// Render implements Node.
func (a And) Render() string { return "(" + renderAll(a.Children, " ") + ")" }

// Or requires at least one child.
type Or struct{ Children []Node }

// Render implements Node.
func (o Or) Render() string { return "(" + renderAll(o.Children, " | ") + ")" }

// Not excludes its child.
type Not struct{ Child Node }

// Render implements Node.
func (n Not) Render() string { return "-" + n.Child.Render() }

func renderAll(nodes []Node, sep string) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.Render()
	}
	return strings.Join(parts, sep)
}

func fieldScope(fields []string) string {
	return "@" + strings.Join(fields, "|") + ":"
}

// newTerm builds a node for one lexed word. A word the analyzer splits into
// several tokens becomes a phrase; a word with no tokens yields nil.
func newTerm(tokens []string, prefix bool, fields []string) Node {
	switch len(tokens) {
	case 0:
		return nil
	case 1:
		return Term{Fields: fields, Token: tokens[0], Prefix: prefix && len([]rune(tokens[0])) >= minPrefixLen}
	default:
		return Phrase{Fields: fields, Tokens: tokens}
	}
}

func newPhrase(tokens []string, fields []string) Node {
	switch len(tokens) {
	case 0:
		return nil
	case 1:
		return Term{Fields: fields, Token: tokens[0]}
	default:
		return Phrase{Fields: fields, Tokens: tokens}
	}
}

// newAnd drops empty children and collapses single-child groups.
func newAnd(children []Node) Node {
	kept := compact(children)
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	default:
		return And{Children: kept}
	}
}

func newOr(children []Node) Node {
	kept := compact(children)
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	default:
		return Or{Children: kept}
	}
}

func compact(nodes []Node) []Node {
	kept := nodes[:0:0]
	for _, n := range nodes {
		if n != nil {
			kept = append(kept, n)
		}
	}
	return kept
}
