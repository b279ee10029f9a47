package search

import (
	"context"
	"fmt"

	"github.com/zxpress/fcsgate/internal/domain/kwic"
	"github.com/zxpress/fcsgate/internal/domain/search/page"
	"github.com/zxpress/fcsgate/internal/domain/search/request"
	"github.com/zxpress/fcsgate/internal/domain/search/result"
	"github.com/zxpress/fcsgate/internal/domain/sru"
)

// Config tunes result retrieval.
type Config struct {
	// FetchCap bounds the top-K fetched per request. Zero selects page.DefaultFetchCap.
	FetchCap int
	KWIC     kwic.Options
}

// Service executes searchRetrieve requests against the corpus.
type Service struct {
	repo       Repository
	translator Translator
	cfg        Config
}

// New creates a search service.
func New(repo Repository, translator Translator, cfg Config) *Service {
	return &Service{repo: repo, translator: translator, cfg: cfg}
}

// Retrieve counts the matches of the request and, unless only the count was
// asked for, returns the requested window of records. The raw query is echoed
// back; a cql.serverChoice wrapper is removed before translation.
func (s *Service) Retrieve(ctx context.Context, req *request.Request) (result.Page, error) {
	text := sru.UnwrapServerChoice(req.Query())
	tq, err := s.translator.Translate(text, req.Filters())
	if err != nil {
		return result.Page{}, fmt.Errorf("translate query: %w", err)
	}

	plan := page.Plan(req.StartRecord(), req.MaximumRecords(), s.cfg.FetchCap)
	out := result.Page{
		StartRecord:    plan.StartRecord,
		MaximumRecords: plan.MaximumRecords,
		Query:          req.Query(),
		Version:        req.Version(),
	}

	err = s.repo.WithIndexAccess(ctx, func(ctx context.Context) error {
		total, err := s.repo.Count(ctx, tq.Text, tq.Filters)
		if err != nil {
			return err
		}
		out.Total = total

		if plan.CountOnly() || total == 0 {
			return nil
		}

		keys, err := s.repo.Search(ctx, tq.Text, tq.Filters, plan.FetchCount)
		if err != nil {
			return err
		}
		w := plan.Window(len(keys), total)
		if w.Len() == 0 {
			return nil
		}

		arts, err := s.repo.StoredFields(ctx, keys[w.Start:w.End])
		if err != nil {
			return err
		}
		snippets := kwic.New(tq.Echo, s.cfg.KWIC)
		out.Records = make([]result.Record, len(arts))
		for i, a := range arts {
			out.Records[i] = a.Record(plan.Position(i), snippets)
		}
		return nil
	})
	if err != nil {
		return result.Page{}, fmt.Errorf("retrieve: %w", err)
	}

	return out, nil
}
