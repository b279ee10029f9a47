package query

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/zxpress/fcsgate/internal/domain"
	"github.com/zxpress/fcsgate/internal/domain/article"
	"github.com/zxpress/fcsgate/internal/domain/search/request"
)

func intPtr(v int) *int { return &v }

func TestTranslate_Text(t *testing.T) {
	tr := New(Config{})

	tests := []struct {
		name         string
		text         string
		want         string
		wantStrategy Strategy
	}{
		{"empty", "", "*", StrategyEmpty},
		{"whitespace", "  \t ", "*", StrategyEmpty},
		{"single term", "Весна", "@content|title:весна", StrategyParsed},
		{"implicit and", "весна лето", "(@content|title:весна @content|title:лето)", StrategyParsed},
		{"or", "весна OR лето", "(@content|title:весна | @content|title:лето)", StrategyParsed},
		{"and not", "весна AND NOT лето", "(@content|title:весна -@content|title:лето)", StrategyParsed},
		{"symbolic operators", "весна && !лето", "(@content|title:весна -@content|title:лето)", StrategyParsed},
		{"symbolic or", "весна || лето", "(@content|title:весна | @content|title:лето)", StrategyParsed},
		{"required", "+весна", "@content|title:весна", StrategyParsed},
		{"phrase", `"Красная армия"`, `@content|title:"красная армия"`, StrategyParsed},
		{"prefix", "комп*", "@content|title:комп*", StrategyParsed},
		{"short prefix dropped", "к*", "@content|title:к", StrategyParsed},
		{"hyphenated word", "ru-ru", `@content|title:"ru ru"`, StrategyParsed},
		{
			"grouping", "(a OR b) c",
			"((@content|title:a | @content|title:b) @content|title:c)", StrategyParsed,
		},
		{"field qualifier escaped", "title:весна", `@content|title:"title весна"`, StrategyEscaped},
		{"dangling operator falls back", "весна AND", "(@content|title:весна @content|title:and)", StrategyFallback},
		{"only parens", "((", "*", StrategyMatchAll},
		{"only wildcards", "***", "*", StrategyMatchAll},
		{"only bangs", "!!!", "*", StrategyMatchAll},
		{"unterminated phrase", `"весна`, "@content|title:весна", StrategyEscaped},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tr.Translate(tt.text, request.Filters{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Text != tt.want {
				t.Errorf("Text = %q, want %q", got.Text, tt.want)
			}
			if got.Strategy != tt.wantStrategy {
				t.Errorf("Strategy = %q, want %q", got.Strategy, tt.wantStrategy)
			}
			if got.Echo != tt.text {
				t.Errorf("Echo = %q, want unmodified %q", got.Echo, tt.text)
			}
			if !got.Filters.IsEmpty() {
				t.Errorf("Filters should be empty, got %+v", got.Filters)
			}
		})
	}
}

func TestTranslate_Publication(t *testing.T) {
	got, err := New(Config{}).Translate("", request.Filters{Publication: " Огонёк "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	must := got.Filters.Must()
	if len(must) != 1 || must[0].Key() != article.FieldMagazine || must[0].Match() != "Огонёк" {
		t.Errorf("Must() = %+v", must)
	}
}

func TestTranslate_Form(t *testing.T) {
	tests := []struct {
		raw, want string
	}{
		{"журнал", "Журнал"},
		{"ЖУРНАЛ", "Журнал"},
		{"Газета", "Газета"},
		{"альманах", "альманах"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := New(Config{}).Translate("", request.Filters{Form: tt.raw})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			must := got.Filters.Must()
			if len(must) != 1 || must[0].Key() != article.FieldForm || must[0].Match() != tt.want {
				t.Errorf("Must() = %+v, want form=%q", must, tt.want)
			}
		})
	}
}

func TestTranslate_Language(t *testing.T) {
	got, err := New(Config{}).Translate("", request.Filters{Language: "DE"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	should := got.Filters.Should()
	if len(should) != 2 {
		t.Fatalf("Should() len = %d, want 2", len(should))
	}
	if should[0].Key() != article.FieldLanguage || should[1].Key() != article.FieldLang {
		t.Errorf("keys = %q, %q", should[0].Key(), should[1].Key())
	}
	want := []string{"de", "de-de", "german", "deutsch"}
	if !slices.Equal(should[0].Values(), want) {
		t.Errorf("Values() = %v, want %v", should[0].Values(), want)
	}
}

func TestTranslate_UnknownLanguageMatchesItself(t *testing.T) {
	got, err := New(Config{}).Translate("", request.Filters{Language: "fr"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v := got.Filters.Should()[0].Values(); !slices.Equal(v, []string{"fr"}) {
		t.Errorf("Values() = %v", v)
	}
}

func TestTranslate_Years(t *testing.T) {
	tests := []struct {
		name             string
		from, to         *int
		wantMin, wantMax int64
	}{
		{"closed", intPtr(1920), intPtr(1925), -1577923200000, -1388620800000},
		{"open upper", intPtr(1920), nil, -1577923200000, math.MaxInt64},
		{"open lower", nil, intPtr(1925), math.MinInt64, -1388620800000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(Config{}).Translate("", request.Filters{YearFrom: tt.from, YearTo: tt.to})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			must := got.Filters.Must()
			if len(must) != 1 || !must[0].IsRange() {
				t.Fatalf("Must() = %+v", must)
			}
			if must[0].Key() != article.FieldIssueDateMS {
				t.Errorf("Key() = %q", must[0].Key())
			}
			r := must[0].Range()
			if r.Min() != tt.wantMin || r.Max() != tt.wantMax {
				t.Errorf("range = [%d, %d], want [%d, %d]", r.Min(), r.Max(), tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestTranslate_InvertedYears(t *testing.T) {
	_, err := New(Config{}).Translate("", request.Filters{YearFrom: intPtr(1930), YearTo: intPtr(1920)})
	if !errors.Is(err, domain.ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter for inverted year range, got %v", err)
	}
}

func TestTranslate_CustomTables(t *testing.T) {
	tr := New(Config{
		Forms:     map[string]string{"Almanach": "Альманах"},
		Languages: map[string][]string{"uk": {"uk", "ukrainian"}},
	})
	got, err := tr.Translate("", request.Filters{Form: "almanach", Language: "uk"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Filters.Must()[0].Match() != "Альманах" {
		t.Errorf("form = %q", got.Filters.Must()[0].Match())
	}
	if v := got.Filters.Should()[0].Values(); !slices.Equal(v, []string{"uk", "ukrainian"}) {
		t.Errorf("language = %v", v)
	}
}
