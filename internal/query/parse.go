package query

import (
	"fmt"
)

// OutcomeKind classifies a parse attempt.
type OutcomeKind int

const (
	// Parsed means the text produced a usable expression.
	Parsed OutcomeKind = iota
	// NeedsEscapeRetry means the text is not valid syntax as written.
	NeedsEscapeRetry
	// MatchAll means the text parsed but contains nothing searchable.
	MatchAll
)

func (k OutcomeKind) String() string {
	switch k {
	case Parsed:
		return "parsed"
	case NeedsEscapeRetry:
		return "needs_escape_retry"
	case MatchAll:
		return "match_all"
	default:
		return "unknown"
	}
}

// Outcome is the result of one parse attempt.
type Outcome struct {
	Kind OutcomeKind
	Node Node
	Err  error
}

// Parse parses free text into an expression tree over the given fields.
func Parse(text string, fields []string) Outcome {
	toks, err := lex(text)
	if err != nil {
		return Outcome{Kind: NeedsEscapeRetry, Err: err}
	}
	if len(toks) == 0 {
		return Outcome{Kind: MatchAll}
	}

	p := &parser{toks: toks, fields: fields}
	node, err := p.parseOr()
	if err != nil {
		return Outcome{Kind: NeedsEscapeRetry, Err: err}
	}
	if !p.done() {
		return Outcome{Kind: NeedsEscapeRetry, Err: fmt.Errorf("%w: unexpected token at %d", errSyntax, p.pos)}
	}
	if node == nil {
		return Outcome{Kind: MatchAll}
	}
	return Outcome{Kind: Parsed, Node: node}
}

type parser struct {
	toks   []token
	pos    int
	fields []string
}

func (p *parser) done() bool { return p.pos >= len(p.toks) }

func (p *parser) peek() (token, bool) {
	if p.done() {
		return token{}, false
	}
	return p.toks[p.pos], true
}

// parseOr: and (OR and)*
func (p *parser) parseOr() (Node, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	children := []Node{first}
	for {
		t, ok := p.peek()
		if !ok || t.kind != tokOr {
			break
		}
		p.pos++
		next, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}
	return newOr(children), nil
}

// parseAnd: unary ((AND)? unary)*
func (p *parser) parseAnd() (Node, error) {
	first, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	children := []Node{first}
	for {
		t, ok := p.peek()
		if !ok || t.kind == tokOr || t.kind == tokRParen {
			break
		}
		if t.kind == tokAnd {
			p.pos++
		}
		next, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}
	return newAnd(children), nil
}

// parseUnary: (NOT | +) unary | primary
func (p *parser) parseUnary() (Node, error) {
	t, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("%w: unexpected end of query", errSyntax)
	}
	switch t.kind {
	case tokNot:
		p.pos++
		child, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if child == nil {
			return nil, nil
		}
		return Not{Child: child}, nil
	case tokRequired:
		p.pos++
		return p.parseUnary()
	default:
		return p.parsePrimary()
	}
}

// parsePrimary: '(' or ')' | phrase | term
func (p *parser) parsePrimary() (Node, error) {
	t, _ := p.peek()
	switch t.kind {
	case tokLParen:
		p.pos++
		if next, ok := p.peek(); ok && next.kind == tokRParen {
			return nil, fmt.Errorf("%w: empty group", errSyntax)
		}
		node, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing, ok := p.peek(); !ok || closing.kind != tokRParen {
			return nil, fmt.Errorf("%w: unbalanced parenthesis", errSyntax)
		}
		p.pos++
		return node, nil
	case tokPhrase:
		p.pos++
		return newPhrase(Analyze(t.text), p.fields), nil
	case tokTerm:
		p.pos++
		return newTerm(Analyze(t.text), t.prefix, p.fields), nil
	default:
		return nil, fmt.Errorf("%w: unexpected operator at %d", errSyntax, p.pos)
	}
}
