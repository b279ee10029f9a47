package corpus

import (
	"fmt"

	"github.com/zxpress/fcsgate/internal/db"
	"github.com/zxpress/fcsgate/internal/domain/article"
	"github.com/zxpress/fcsgate/internal/domain/sru"
)

// magazineTagSeparator keeps commas inside publication names intact.
const magazineTagSeparator = "|"

// Schema builds the FT index definition the corpus is served from.
func Schema(name, prefix string) (*db.IndexDefinition, error) {
	def, err := db.NewIndex(name).
		Prefix(prefix).
		Language("russian").
		NoStopwords().
		WeightedText(article.FieldContent, article.ContentWeight).
		WeightedText(article.FieldTitle, article.TitleWeight).
		TagWithOpts(article.FieldMagazine, magazineTagSeparator, true).
		Tag(article.FieldMagazineID).
		TagWithOpts(article.FieldForm, magazineTagSeparator, true).
		Tag(article.FieldLanguage).
		Tag(article.FieldLang).
		Tag(article.FieldCity).
		Tag(article.FieldCountry).
		SortableNumeric(article.FieldIssueDateMS).
		Numeric(article.FieldOrder).
		Build()
	if err != nil {
		return nil, fmt.Errorf("corpus schema: %w", err)
	}
	return def, nil
}

// storedOnly are hash fields returned with records but not indexed.
var storedOnly = []string{
	article.FieldFilename,
	article.FieldIssueLabel,
	article.FieldIssueDateISO,
	article.FieldArticleID,
	article.FieldArticleURL,
	article.FieldPrintURL,
}

// Fields lists the corpus fields for the endpoint description: every indexed
// field with its FT type, followed by the stored-only ones.
func Fields() []sru.Field {
	def, err := Schema("fields", "fields:")
	if err != nil {
		return nil
	}

	fields := make([]sru.Field, 0, len(def.Fields)+len(storedOnly))
	for _, f := range def.Fields {
		fields = append(fields, sru.Field{Name: f.Name, Type: fieldType(f.Type), Stored: true, Indexed: true})
	}
	for _, name := range storedOnly {
		fields = append(fields, sru.Field{Name: name, Type: "string", Stored: true})
	}
	return fields
}

func fieldType(t db.IndexFieldType) string {
	switch t {
	case db.IndexFieldText:
		return "text"
	case db.IndexFieldTag:
		return "tag"
	case db.IndexFieldNumeric:
		return "numeric"
	default:
		return "string"
	}
}
