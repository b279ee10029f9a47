package chi

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zxpress/fcsgate/internal/domain/sru"
	logpkg "github.com/zxpress/fcsgate/internal/logger"
	"github.com/zxpress/fcsgate/internal/metrics"
	"github.com/zxpress/fcsgate/internal/transport/sruxml"
)

// requestEvent collects SRU attributes for the canonical request log line.
type requestEvent struct {
	Operation  string
	Version    string
	Diagnostic string
}

type eventKey struct{}

// eventFrom returns the request event, or a throwaway one outside WideEvent.
func eventFrom(ctx context.Context) *requestEvent {
	if ev, ok := ctx.Value(eventKey{}).(*requestEvent); ok {
		return ev
	}
	return &requestEvent{}
}

// WideEvent emits a canonical log line per request and propagates X-Request-ID.
func WideEvent(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ev := &requestEvent{}
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)
			ctx = context.WithValue(ctx, eventKey{}, ev)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			}
			if ev.Operation != "" {
				fields = append(fields, zap.String("sru_operation", ev.Operation))
			}
			if ev.Version != "" {
				fields = append(fields, zap.String("sru_version", ev.Version))
			}
			if ev.Diagnostic != "" {
				fields = append(fields, zap.String("sru_diagnostic", ev.Diagnostic))
			}

			// Canonical log line: one line per request
			reqLogger.Info("http_request", fields...)
		})
	}
}

// JSONRecoverer returns JSON instead of a plain text stacktrace on panic.
func JSONRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SRURecoverer turns a panic on the SRU path into a general system error
// diagnostic carrying the panic value and stack.
func SRURecoverer() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				incident := uuid.NewString()
				stack := string(debug.Stack())
				logpkg.FromContext(r.Context()).Error("sru handler panic",
					zap.String("incident_id", incident),
					zap.Any("panic", rvr),
					zap.String("stacktrace", stack),
				)

				q := r.URL.Query()
				v := sru.Negotiate(firstNonEmpty(q.Get("version"), q.Get("sruVersion")))
				d := sru.NewDiagnostic(sru.CodeGeneralSystemError,
					fmt.Sprintf("incident %s: panic: %v\n%s", incident, rvr, stack))

				ev := eventFrom(r.Context())
				ev.Diagnostic = d.Code
				metrics.SRURequestsTotal.WithLabelValues(ev.Operation, metrics.OutcomeError).Inc()
				metrics.SRUDiagnosticsTotal.WithLabelValues(d.Code).Inc()

				body, err := sruxml.RenderDiagnostic(d, v)
				if err != nil {
					http.Error(w, "internal error", http.StatusInternalServerError)
					return
				}
				writeSRU(w, v, body)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
