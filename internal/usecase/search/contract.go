package search

import (
	"context"

	"github.com/zxpress/fcsgate/internal/domain/article"
	"github.com/zxpress/fcsgate/internal/domain/search/filter"
	"github.com/zxpress/fcsgate/internal/domain/search/request"
	"github.com/zxpress/fcsgate/internal/query"
)

// Repository defines the corpus read contract for search operations.
type Repository interface {
	// WithIndexAccess runs fn while holding index access.
	WithIndexAccess(ctx context.Context, fn func(ctx context.Context) error) error
	Count(ctx context.Context, query string, filters filter.Expression) (int, error)
	Search(ctx context.Context, query string, filters filter.Expression, limit int) ([]string, error)
	StoredFields(ctx context.Context, keys []string) ([]article.Article, error)
}

// Translator turns free text and filters into an engine query.
type Translator interface {
	Translate(freeText string, f request.Filters) (query.Translated, error)
}
