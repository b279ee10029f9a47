// Package article describes the stored-field schema of indexed magazine
// articles and maps stored hashes to result records.
package article

import (
	"github.com/zxpress/fcsgate/internal/domain/kwic"
	"github.com/zxpress/fcsgate/internal/domain/search/result"
)

// Stored field names written by the ingestion pipeline.
const (
	FieldContent      = "content"
	FieldTitle        = "title"
	FieldFilename     = "filename"
	FieldMagazine     = "magazine"
	FieldMagazineID   = "magazine_id"
	FieldForm         = "form"
	FieldLanguage     = "language"
	FieldLang         = "lang"
	FieldCity         = "city"
	FieldCountry      = "country"
	FieldIssueLabel   = "issue_label"
	FieldIssueDateISO = "issue_date_iso"
	FieldIssueDateMS  = "issue_date_epoch_ms"
	FieldArticleID    = "article_id"
	FieldOrder        = "order"
	FieldArticleURL   = "article_url"
	FieldPrintURL     = "print_url"
)

// Relevance weights of the searchable text fields.
const (
	ContentWeight = 1.0
	TitleWeight   = 2.0
)

// TextFields are the fields free-text queries run against.
var TextFields = []string{FieldContent, FieldTitle}

// Article is a hydrated stored-field hash.
type Article struct {
	Key    string
	Fields map[string]string
}

// Identifier returns the stable identifier: article_id, then article_url,
// then the storage key.
func (a Article) Identifier() string {
	for _, f := range []string{FieldArticleID, FieldArticleURL} {
		if v := a.Fields[f]; v != "" {
			return v
		}
	}
	return a.Key
}

// Title returns the stored title, falling back to the file name.
func (a Article) Title() string {
	if v := a.Fields[FieldTitle]; v != "" {
		return v
	}
	return a.Fields[FieldFilename]
}

// Content returns the article body text.
func (a Article) Content() string { return a.Fields[FieldContent] }

// Extents returns magazine, issue and date facets in that order.
func (a Article) Extents() []result.Extent {
	return []result.Extent{
		{Type: result.ExtentMagazine, Value: a.Fields[FieldMagazine]},
		{Type: result.ExtentIssue, Value: a.Fields[FieldIssueLabel]},
		{Type: result.ExtentDate, Value: a.Fields[FieldIssueDateISO]},
	}
}

// Record maps the article to a result record at position, with snippets
// taken from its content.
func (a Article) Record(position int, snippets *kwic.Extractor) result.Record {
	return result.New(
		a.Identifier(), a.Title(), a.Fields[FieldArticleURL], position,
		snippets.Extract(a.Content()), a.Extents(),
	)
}
