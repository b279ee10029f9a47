package health

import (
	"context"

	"github.com/zxpress/fcsgate/internal/domain/search/filter"
)

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// IndexCounter runs a trivial count against the corpus index.
type IndexCounter interface {
	Count(ctx context.Context, query string, filters filter.Expression) (int, error)
}
