package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/zxpress/fcsgate/internal/domain"
	"github.com/zxpress/fcsgate/internal/domain/search/operation"
	"github.com/zxpress/fcsgate/internal/domain/search/request"
	"github.com/zxpress/fcsgate/internal/domain/search/result"
	"github.com/zxpress/fcsgate/internal/domain/sru"
	logpkg "github.com/zxpress/fcsgate/internal/logger"
	"github.com/zxpress/fcsgate/internal/metrics"
	"github.com/zxpress/fcsgate/internal/transport/sruxml"
	healthuc "github.com/zxpress/fcsgate/internal/usecase/health"
)

// Retriever executes searchRetrieve requests.
type Retriever interface {
	Retrieve(ctx context.Context, req *request.Request) (result.Page, error)
}

// HealthChecker reports service health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server serves the SRU/FCS endpoint plus health and metrics routes.
// All fields are read-only after construction.
type Server struct {
	search  Retriever
	health  HealthChecker
	caps    sru.Capabilities
	logger  *zap.Logger
	metrics http.Handler
}

// NewServer creates an HTTP server. Page-size limits are taken from caps.
func NewServer(search Retriever, health HealthChecker, caps sru.Capabilities, logger *zap.Logger) *Server {
	if caps.DefaultPageSize <= 0 {
		caps.DefaultPageSize = request.DefaultMaxRecords
	}
	return &Server{
		search:  search,
		health:  health,
		caps:    caps,
		logger:  logger,
		metrics: promhttp.Handler(),
	}
}

// SRU handles GET and HEAD on the SRU path.
func (s *Server) SRU(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	v := sru.Negotiate(firstNonEmpty(q.Get("version"), q.Get("sruVersion")))

	ev := eventFrom(r.Context())
	ev.Version = v.String()
	r = r.WithContext(logpkg.With(r.Context(), zap.String("sru_version", ev.Version)))

	if r.Method == http.MethodHead {
		sruxml.SetHeaders(w.Header(), v)
		w.WriteHeader(http.StatusOK)
		return
	}

	// Endpoint-description requests answer in whatever version the client asked for.
	if isEndpointDescription(q) {
		ev.Operation = "endpointDescription"
		s.writeCapabilities(w, r, v, ev.Operation)
		return
	}

	rawOp := q.Get("operation")
	op, known := operation.Parse(rawOp)
	ev.Operation = string(op)

	if d := sru.EnforceLatest(v); d != nil {
		s.writeDiagnostic(w, r, *d, v, ev.Operation)
		return
	}

	if !known || !op.IsServed() {
		d := sru.NewDiagnostic(sru.CodeUnsupportedOperation, "operation="+rawOp)
		s.writeDiagnostic(w, r, d, v, ev.Operation)
		return
	}

	if op == operation.Explain {
		s.writeCapabilities(w, r, v, ev.Operation)
		return
	}
	s.searchRetrieve(w, r, v)
}

func (s *Server) searchRetrieve(w http.ResponseWriter, r *http.Request, v sru.Version) {
	const op = string(operation.SearchRetrieve)

	req, err := parseSearchParams(r.URL.Query(), v, s.caps.DefaultPageSize, s.caps.MaxPageSize)
	if err != nil {
		s.fail(w, r, err, v, op)
		return
	}

	page, err := s.search.Retrieve(r.Context(), &req)
	if err != nil {
		s.fail(w, r, err, v, op)
		return
	}

	body, err := sruxml.RenderResults(page, v)
	if err != nil {
		s.fail(w, r, err, v, op)
		return
	}

	metrics.SRURecordsReturned.Observe(float64(len(page.Records)))
	metrics.SRURequestsTotal.WithLabelValues(op, metrics.OutcomeOK).Inc()
	writeSRU(w, v, body)
}

func (s *Server) writeCapabilities(w http.ResponseWriter, r *http.Request, v sru.Version, op string) {
	body, err := sruxml.RenderCapabilities(s.caps, v)
	if err != nil {
		s.fail(w, r, err, v, op)
		return
	}
	metrics.SRURequestsTotal.WithLabelValues(op, metrics.OutcomeOK).Inc()
	writeSRU(w, v, body)
}

// fail maps err to a diagnostic. Client errors keep their code; anything else
// becomes a general system error carrying an incident id and the error chain.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, v sru.Version, op string) {
	d, client := diagnosticFor(err)
	if !client {
		incident := uuid.NewString()
		logpkg.FromContext(r.Context()).Error("sru request failed",
			zap.String("incident_id", incident),
			zap.String("operation", op),
			zap.Error(err),
		)
		d = sru.NewDiagnostic(sru.CodeGeneralSystemError, fmt.Sprintf("incident %s: %v", incident, err))
		metrics.SRURequestsTotal.WithLabelValues(op, metrics.OutcomeError).Inc()
		s.renderDiagnostic(w, r, d, v)
		return
	}
	s.writeDiagnostic(w, r, d, v, op)
}

func (s *Server) writeDiagnostic(w http.ResponseWriter, r *http.Request, d sru.Diagnostic, v sru.Version, op string) {
	metrics.SRURequestsTotal.WithLabelValues(op, metrics.OutcomeDiagnostic).Inc()
	s.renderDiagnostic(w, r, d, v)
}

func (s *Server) renderDiagnostic(w http.ResponseWriter, r *http.Request, d sru.Diagnostic, v sru.Version) {
	eventFrom(r.Context()).Diagnostic = d.Code
	metrics.SRUDiagnosticsTotal.WithLabelValues(d.Code).Inc()

	body, err := sruxml.RenderDiagnostic(d, v)
	if err != nil {
		s.logger.Error("render diagnostic", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeSRU(w, v, body)
}

// diagnosticFor reports the client diagnostic for err, or false when err is
// a system failure.
func diagnosticFor(err error) (sru.Diagnostic, bool) {
	var d sru.Diagnostic
	if errors.As(err, &d) {
		return d, true
	}

	var pe *domain.ParameterError
	switch {
	case errors.As(err, &pe):
		return sru.NewDiagnostic(sru.CodeUnsupportedParameter, pe.Name+"="+pe.Value), true
	case errors.Is(err, domain.ErrInvalidParameter):
		return sru.NewDiagnostic(sru.CodeUnsupportedParameter, err.Error()), true
	case errors.Is(err, domain.ErrInvalidQuery):
		return sru.NewDiagnostic(sru.CodeQuerySyntaxError, err.Error()), true
	default:
		return sru.Diagnostic{}, false
	}
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	resp := healthResponse{Status: string(report.Status), Detail: report.Detail}
	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
		logpkg.FromContext(r.Context()).Warn("health check failed",
			zap.Any("checks", report.Checks),
			zap.String("detail", report.Detail),
		)
	}

	writeJSON(w, httpStatus, resp)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	s.metrics.ServeHTTP(w, r)
}

type healthResponse struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeSRU(w http.ResponseWriter, v sru.Version, body []byte) {
	sruxml.SetHeaders(w.Header(), v)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// isEndpointDescription reports an FCS endpoint-description request.
func isEndpointDescription(q map[string][]string) bool {
	vals, ok := q["x-fcs-endpoint-description"]
	if !ok {
		return false
	}
	val := ""
	if len(vals) > 0 {
		val = vals[0]
	}
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "", "true", "1", "yes":
		return true
	default:
		return false
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
