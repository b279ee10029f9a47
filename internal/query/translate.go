// Package query translates SRU free text and structured filters into
// RediSearch query expressions.
package query

import (
	"fmt"
	"maps"
	"math"
	"strings"
	"time"

	"github.com/zxpress/fcsgate/internal/domain"
	"github.com/zxpress/fcsgate/internal/domain/article"
	"github.com/zxpress/fcsgate/internal/domain/search/filter"
	"github.com/zxpress/fcsgate/internal/domain/search/request"
)

// MatchAllExpr is the engine expression matching every document.
const MatchAllExpr = "*"

// Strategy records which step of the parse chain produced the expression.
type Strategy string

// Parse chain steps.
const (
	StrategyEmpty    Strategy = "empty"
	StrategyParsed   Strategy = "parsed"
	StrategyEscaped  Strategy = "escaped"
	StrategyFallback Strategy = "fallback"
	StrategyMatchAll Strategy = "match_all"
)

// Translated is an engine-native query owned by one request.
type Translated struct {
	// Text is the scored full-text expression ("*" for match-all).
	Text string
	// Filters are unscored mandatory clauses.
	Filters filter.Expression
	// Echo is the client's free text, unmodified.
	Echo     string
	Strategy Strategy
}

// Config holds the filter canonicalization tables.
type Config struct {
	// Forms maps lowercased form spellings to the indexed token.
	Forms map[string]string
	// Languages maps a language code to every stored spelling of it.
	Languages map[string][]string
}

// DefaultConfig returns the canonicalization tables used by the corpus.
func DefaultConfig() Config {
	return Config{
		Forms: map[string]string{
			"журнал": "Журнал",
			"газета": "Газета",
		},
		Languages: map[string][]string{
			"ru": {"ru", "ru-ru", "russian", "русский"},
			"en": {"en", "en-us", "english"},
			"de": {"de", "de-de", "german", "deutsch"},
		},
	}
}

// Translator turns requests into engine expressions. It is immutable after
// construction and safe for concurrent use.
type Translator struct {
	fields    []string
	forms     map[string]string
	languages map[string][]string
}

// New creates a Translator. Empty tables in cfg fall back to DefaultConfig.
func New(cfg Config) *Translator {
	def := DefaultConfig()
	if len(cfg.Forms) == 0 {
		cfg.Forms = def.Forms
	}
	if len(cfg.Languages) == 0 {
		cfg.Languages = def.Languages
	}

	forms := make(map[string]string, len(cfg.Forms))
	for k, v := range cfg.Forms {
		forms[Fold(k)] = v
	}
	return &Translator{
		fields:    article.TextFields,
		forms:     forms,
		languages: maps.Clone(cfg.Languages),
	}
}

// Translate builds the engine query for free text plus filters.
func (t *Translator) Translate(freeText string, f request.Filters) (Translated, error) {
	expr, err := t.filters(f)
	if err != nil {
		return Translated{}, err
	}
	text, strategy := t.text(freeText)
	return Translated{Text: text, Filters: expr, Echo: freeText, Strategy: strategy}, nil
}

// text runs the parse chain: parse, one escaped retry, then token fallback.
func (t *Translator) text(freeText string) (string, Strategy) {
	if strings.TrimSpace(freeText) == "" {
		return MatchAllExpr, StrategyEmpty
	}

	out := Parse(freeText, t.fields)
	strategy := StrategyParsed
	if out.Kind == NeedsEscapeRetry {
		out = Parse(Escape(freeText), t.fields)
		strategy = StrategyEscaped
	}
	if out.Kind == Parsed {
		return out.Node.Render(), strategy
	}

	// The text was non-empty; never let it widen to the whole corpus unless
	// nothing in it is searchable at all.
	if node := t.fallback(freeText); node != nil {
		return node.Render(), StrategyFallback
	}
	return MatchAllExpr, StrategyMatchAll
}

// fallback ANDs every analyzed token, each matched across the text fields.
func (t *Translator) fallback(freeText string) Node {
	tokens := Analyze(freeText)
	children := make([]Node, 0, len(tokens))
	for _, tok := range tokens {
		children = append(children, Term{Fields: t.fields, Token: tok})
	}
	return newAnd(children)
}

func (t *Translator) filters(f request.Filters) (filter.Expression, error) {
	var must, should []filter.Condition

	if v := strings.TrimSpace(f.Publication); v != "" {
		c, err := filter.NewMatch(article.FieldMagazine, v)
		if err != nil {
			return filter.Expression{}, fmt.Errorf("publication filter: %w", err)
		}
		must = append(must, c)
	}

	if v := t.canonicalForm(f.Form); v != "" {
		c, err := filter.NewMatch(article.FieldForm, v)
		if err != nil {
			return filter.Expression{}, fmt.Errorf("form filter: %w", err)
		}
		must = append(must, c)
	}

	if aliases := t.languageAliases(f.Language); len(aliases) > 0 {
		for _, field := range []string{article.FieldLanguage, article.FieldLang} {
			c, err := filter.NewMatchAny(field, aliases...)
			if err != nil {
				return filter.Expression{}, fmt.Errorf("language filter: %w", err)
			}
			should = append(should, c)
		}
	}

	if f.YearFrom != nil || f.YearTo != nil {
		c, err := yearRange(f.YearFrom, f.YearTo)
		if err != nil {
			return filter.Expression{}, fmt.Errorf("year filter: %w: %w", domain.ErrInvalidParameter, err)
		}
		must = append(must, c)
	}

	return filter.NewExpression(must, should, nil)
}

func (t *Translator) canonicalForm(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return ""
	}
	if canon, ok := t.forms[Fold(v)]; ok {
		return canon
	}
	return v
}

func (t *Translator) languageAliases(raw string) []string {
	code := Fold(strings.TrimSpace(raw))
	if code == "" {
		return nil
	}
	if aliases, ok := t.languages[code]; ok {
		return aliases
	}
	return []string{code}
}

// yearRange maps calendar years to an inclusive epoch-millisecond range from
// January 1 of yearFrom to December 31 of yearTo (UTC).
func yearRange(from, to *int) (filter.Condition, error) {
	lo, hi := int64(math.MinInt64), int64(math.MaxInt64)
	if from != nil {
		lo = time.Date(*from, time.January, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	}
	if to != nil {
		hi = time.Date(*to, time.December, 31, 0, 0, 0, 0, time.UTC).UnixMilli()
	}
	r, err := filter.NewRangeFilter(&lo, &hi)
	if err != nil {
		return filter.Condition{}, err
	}
	return filter.NewRange(article.FieldIssueDateMS, r)
}
