package search

import (
	"context"
	"fmt"
	"testing"

	"github.com/zxpress/fcsgate/internal/domain/article"
	"github.com/zxpress/fcsgate/internal/domain/search/filter"
	"github.com/zxpress/fcsgate/internal/query"
)

// fakeRepo serves a fixed, relevance-ordered corpus and counts calls.
type fakeRepo struct {
	keys   []string
	fields map[string]map[string]string

	countErr  error
	searchErr error

	accessCalls int
	countCalls  int
	searchCalls int
	fetchCalls  int

	lastQuery string
	lastLimit int
}

func (f *fakeRepo) WithIndexAccess(ctx context.Context, fn func(ctx context.Context) error) error {
	f.accessCalls++
	return fn(ctx)
}

func (f *fakeRepo) Count(_ context.Context, q string, _ filter.Expression) (int, error) {
	f.countCalls++
	f.lastQuery = q
	if f.countErr != nil {
		return 0, f.countErr
	}
	return len(f.keys), nil
}

func (f *fakeRepo) Search(_ context.Context, q string, _ filter.Expression, limit int) ([]string, error) {
	f.searchCalls++
	f.lastQuery = q
	f.lastLimit = limit
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.keys[:min(limit, len(f.keys))], nil
}

func (f *fakeRepo) StoredFields(_ context.Context, keys []string) ([]article.Article, error) {
	f.fetchCalls++
	out := make([]article.Article, len(keys))
	for i, k := range keys {
		out[i] = article.Article{Key: k, Fields: f.fields[k]}
	}
	return out, nil
}

// newCorpus builds a fake corpus of n articles whose content mentions "весна".
func newCorpus(t *testing.T, n int) *fakeRepo {
	t.Helper()
	repo := &fakeRepo{fields: make(map[string]map[string]string, n)}
	for i := 1; i <= n; i++ {
		key := fmt.Sprintf("zx:article:%d", i)
		repo.keys = append(repo.keys, key)
		repo.fields[key] = map[string]string{
			article.FieldArticleID: fmt.Sprintf("a-%d", i),
			article.FieldTitle:     fmt.Sprintf("Статья %d", i),
			article.FieldContent:   "Пришла весна, и город ожил.",
			article.FieldMagazine:  "Огонёк",
		}
	}
	return repo
}

func newTestService(t *testing.T, repo *fakeRepo) *Service {
	t.Helper()
	return New(repo, query.New(query.DefaultConfig()), Config{})
}
