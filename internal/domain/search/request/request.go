package request

import (
	"fmt"
	"strconv"

	"github.com/zxpress/fcsgate/internal/domain"
	"github.com/zxpress/fcsgate/internal/domain/search/operation"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength     = 4096
	DefaultStartRecord = 1
	DefaultMaxRecords  = 10
)

// Filters are the structured constraints accepted next to the free text.
// Empty strings and nil years mean "not constrained".
type Filters struct {
	Publication string
	Form        string
	Language    string
	YearFrom    *int
	YearTo      *int
}

// IsEmpty reports whether no filter is set.
func (f Filters) IsEmpty() bool {
	return f.Publication == "" && f.Form == "" && f.Language == "" && f.YearFrom == nil && f.YearTo == nil
}

// Request is a validated SRU search request (immutable value object).
type Request struct {
	op             operation.Operation
	version        string
	query          string
	startRecord    int
	maximumRecords int
	filters        Filters
}

// New validates and normalizes request parameters.
// startRecord < 1 becomes 1, maximumRecords < 0 becomes 0, and a positive
// maxPageSize caps maximumRecords.
func New(
	op operation.Operation,
	version, query string,
	startRecord, maximumRecords, maxPageSize int,
	filters Filters,
) (Request, error) {
	if op == "" {
		op = operation.Default
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars): %w", MaxQueryLength, domain.ErrInvalidParameter)
	}
	if filters.YearFrom != nil && filters.YearTo != nil && *filters.YearFrom > *filters.YearTo {
		return Request{}, domain.NewParameterError("x-year-from", strconv.Itoa(*filters.YearFrom)+">"+strconv.Itoa(*filters.YearTo))
	}
	if startRecord < 1 {
		startRecord = 1
	}
	if maximumRecords < 0 {
		maximumRecords = 0
	}
	if maxPageSize > 0 && maximumRecords > maxPageSize {
		maximumRecords = maxPageSize
	}

	return Request{
		op:             op,
		version:        version,
		query:          query,
		startRecord:    startRecord,
		maximumRecords: maximumRecords,
		filters:        filters,
	}, nil
}

// Operation returns the requested SRU operation.
func (r *Request) Operation() operation.Operation { return r.op }

// Version returns the protocol version the request was negotiated to.
func (r *Request) Version() string { return r.version }

// Query returns the raw query parameter. A cql.serverChoice wrapper is still
// present; callers unwrap it before translation.
func (r *Request) Query() string { return r.query }

// StartRecord returns the 1-based position of the first requested record.
func (r *Request) StartRecord() int { return r.startRecord }

// MaximumRecords returns the page size; 0 means count only.
func (r *Request) MaximumRecords() int { return r.maximumRecords }

// Filters returns the structured filters.
func (r *Request) Filters() Filters { return r.filters }
