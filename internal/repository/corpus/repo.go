// Package corpus is the read path over the indexed magazine corpus.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zxpress/fcsgate/internal/db"
	"github.com/zxpress/fcsgate/internal/domain"
	"github.com/zxpress/fcsgate/internal/domain/article"
	"github.com/zxpress/fcsgate/internal/domain/search/filter"
	"github.com/zxpress/fcsgate/internal/metrics"
)

// store is the consumer interface for corpus reads (ISP).
type store interface {
	SearchCount(ctx context.Context, q *db.TextQuery) (int, error)
	SearchKeys(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Repo implements usecase/search.Repository over an FT index.
type Repo struct {
	store     store
	indexName string
	keyPrefix string
}

// New creates a corpus repository over the given index and key prefix.
func New(s store, indexName, keyPrefix string) *Repo {
	return &Repo{store: s, indexName: indexName, keyPrefix: keyPrefix}
}

// IndexName returns the FT index the repository reads.
func (r *Repo) IndexName() string { return r.indexName }

// WithIndexAccess runs fn while holding index access. Access is released
// on every exit path, panics included.
func (r *Repo) WithIndexAccess(ctx context.Context, fn func(ctx context.Context) error) error {
	metrics.EngineInFlight.Inc()
	defer metrics.EngineInFlight.Dec()
	return fn(ctx)
}

// Count returns the number of articles matching query and filters.
func (r *Repo) Count(ctx context.Context, query string, filters filter.Expression) (int, error) {
	start := time.Now()
	n, err := r.store.SearchCount(ctx, r.textQuery(query, filters, 0))
	metrics.ObserveEngineCall("count", start, err)
	if err != nil {
		return 0, r.wrap("count", err)
	}
	return n, nil
}

// Search returns up to limit article keys in relevance order.
func (r *Repo) Search(ctx context.Context, query string, filters filter.Expression, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}
	start := time.Now()
	sr, err := r.store.SearchKeys(ctx, r.textQuery(query, filters, limit))
	metrics.ObserveEngineCall("search", start, err)
	if err != nil {
		return nil, r.wrap("search", err)
	}
	if sr == nil {
		return nil, nil
	}
	return sr.Keys(), nil
}

// StoredFields hydrates articles for keys, preserving order. Keys whose
// hash vanished since the search come back with empty fields.
func (r *Repo) StoredFields(ctx context.Context, keys []string) ([]article.Article, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	start := time.Now()
	hashes, err := r.store.HGetAllMulti(ctx, keys)
	metrics.ObserveEngineCall("stored_fields", start, err)
	if err != nil {
		return nil, fmt.Errorf("stored fields: %w", err)
	}
	if len(hashes) != len(keys) {
		return nil, fmt.Errorf("stored fields: got %d hashes for %d keys", len(hashes), len(keys))
	}

	out := make([]article.Article, len(keys))
	for i, key := range keys {
		fields := hashes[i]
		if fields == nil {
			fields = map[string]string{}
		}
		out[i] = article.Article{Key: key, Fields: fields}
	}
	return out, nil
}

// Article loads the stored fields of a single article. id may be the bare
// article id or the full hash key.
func (r *Repo) Article(ctx context.Context, id string) (article.Article, error) {
	key := id
	if !strings.HasPrefix(key, r.keyPrefix) {
		key = r.keyPrefix + id
	}
	start := time.Now()
	fields, err := r.store.HGetAll(ctx, key)
	metrics.ObserveEngineCall("stored_fields", start, err)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return article.Article{}, fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
		}
		return article.Article{}, fmt.Errorf("article %s: %w", id, err)
	}
	return article.Article{Key: key, Fields: fields}, nil
}

// RecreateIndex drops the corpus index if present and creates it from the
// current schema. Hashes under the key prefix are kept and re-indexed.
func (r *Repo) RecreateIndex(ctx context.Context) error {
	if err := r.store.DropIndex(ctx, r.indexName); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("drop index %s: %w", r.indexName, err)
	}
	def, err := Schema(r.indexName, r.keyPrefix)
	if err != nil {
		return err
	}
	if err := r.store.CreateIndex(ctx, def); err != nil {
		return fmt.Errorf("create index %s: %w", r.indexName, err)
	}
	return nil
}

// EnsureIndex creates the corpus index when it is missing.
// It reports whether an index was created.
func (r *Repo) EnsureIndex(ctx context.Context) (bool, error) {
	exists, err := r.store.IndexExists(ctx, r.indexName)
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", r.indexName, err)
	}
	if exists {
		return false, nil
	}

	def, err := Schema(r.indexName, r.keyPrefix)
	if err != nil {
		return false, err
	}
	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return false, nil
		}
		return false, fmt.Errorf("create index %s: %w", r.indexName, err)
	}
	return true, nil
}

func (r *Repo) textQuery(query string, filters filter.Expression, limit int) *db.TextQuery {
	return &db.TextQuery{
		IndexName: r.indexName,
		Query:     query,
		Filters:   filters,
		TopK:      limit,
	}
}

func (r *Repo) wrap(op string, err error) error {
	if errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("%s %s: %w", op, r.indexName, domain.ErrIndexUnavailable)
	}
	return fmt.Errorf("%s %s: %w", op, r.indexName, err)
}
