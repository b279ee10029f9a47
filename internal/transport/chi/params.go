package chi

import (
	"net/url"
	"strings"

	"github.com/oapi-codegen/runtime"

	"github.com/zxpress/fcsgate/internal/domain"
	"github.com/zxpress/fcsgate/internal/domain/search/operation"
	"github.com/zxpress/fcsgate/internal/domain/search/request"
	"github.com/zxpress/fcsgate/internal/domain/sru"
)

// Filter parameter names.
const (
	paramMagazine = "x-magazine"
	paramForm     = "x-form"
	paramLanguage = "x-language"
	paramYearFrom = "x-year-from"
	paramYearTo   = "x-year-to"
)

// searchParams holds the bound searchRetrieve parameters. Absent or
// malformed paging values stay nil.
type searchParams struct {
	StartRecord    *int
	MaximumRecords *int
	YearFrom       *int
	YearTo         *int
}

// parseSearchParams builds a validated request. Malformed paging values fall
// back to their defaults; a malformed year is a parameter error.
func parseSearchParams(q url.Values, v sru.Version, defaultPageSize, maxPageSize int) (request.Request, error) {
	var p searchParams

	if err := bindInt(q, "startRecord", &p.StartRecord); err != nil {
		p.StartRecord = nil
	}
	if err := bindInt(q, "maximumRecords", &p.MaximumRecords); err != nil {
		p.MaximumRecords = nil
	}
	if err := bindInt(q, paramYearFrom, &p.YearFrom); err != nil {
		return request.Request{}, domain.NewParameterError(paramYearFrom, q.Get(paramYearFrom))
	}
	if err := bindInt(q, paramYearTo, &p.YearTo); err != nil {
		return request.Request{}, domain.NewParameterError(paramYearTo, q.Get(paramYearTo))
	}

	start := request.DefaultStartRecord
	if p.StartRecord != nil {
		start = *p.StartRecord
	}
	maxRecords := defaultPageSize
	if p.MaximumRecords != nil {
		maxRecords = *p.MaximumRecords
	}

	filters := request.Filters{
		Publication: strings.TrimSpace(q.Get(paramMagazine)),
		Form:        strings.TrimSpace(q.Get(paramForm)),
		Language:    strings.TrimSpace(q.Get(paramLanguage)),
		YearFrom:    p.YearFrom,
		YearTo:      p.YearTo,
	}

	return request.New(
		operation.SearchRetrieve,
		v.String(),
		q.Get("query"),
		start, maxRecords, maxPageSize,
		filters,
	)
}

// bindInt binds an optional integer query parameter. Blank values count as
// absent.
func bindInt(q url.Values, name string, dest **int) error {
	if strings.TrimSpace(q.Get(name)) == "" {
		return nil
	}
	one := url.Values{name: {strings.TrimSpace(q.Get(name))}}
	return runtime.BindQueryParameter("form", true, false, name, one, dest)
}
