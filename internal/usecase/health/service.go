package health

import (
	"context"
	"fmt"

	"github.com/zxpress/fcsgate/internal/domain/search/filter"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Unhealthy indicates at least one failing component.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
	// Detail describes the first failure.
	Detail string
}

// Service coordinates health checks.
type Service struct {
	db    DBPinger
	index IndexCounter
}

// New creates a Service. index can be nil.
func New(db DBPinger, index IndexCounter) *Service {
	return &Service{db: db, index: index}
}

// Check pings the database and, when it answers, counts the whole index.
func (s *Service) Check(ctx context.Context) Report {
	r := Report{Status: Healthy, Checks: make(map[string]CheckResult)}

	if err := s.db.Ping(ctx); err != nil {
		r.fail("database", fmt.Errorf("ping: %w", err))
		return r
	}
	r.Checks["database"] = CheckOK

	if s.index != nil {
		if _, err := s.index.Count(ctx, "*", filter.Expression{}); err != nil {
			r.fail("index", fmt.Errorf("count: %w", err))
		} else {
			r.Checks["index"] = CheckOK
		}
	}

	return r
}

func (r *Report) fail(check string, err error) {
	r.Checks[check] = CheckError
	r.Status = Unhealthy
	if r.Detail == "" {
		r.Detail = err.Error()
	}
}
