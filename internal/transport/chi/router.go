package chi

import (
	"net/http"

	chirouter "github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/zxpress/fcsgate/internal/metrics"
)

// RouterConfig configures NewRouter.
type RouterConfig struct {
	SRUPath        string
	APIKeys        []string
	AllowedOrigins []string // empty disables CORS
	CORSMaxAge     int
}

// NewRouter mounts the SRU endpoint, /health and /metrics with the shared
// middleware stack.
func NewRouter(s *Server, cfg RouterConfig, logger *zap.Logger) http.Handler {
	r := chirouter.NewRouter()
	r.Use(JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEvent(logger))
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodHead, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Accept"},
			ExposedHeaders:   []string{"X-SRU-Version", "X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           cfg.CORSMaxAge,
		}))
	}
	r.Use(BearerAuthMiddleware(cfg.APIKeys, cfg.SRUPath))
	r.Use(metrics.Middleware())

	r.With(SRURecoverer()).Get(cfg.SRUPath, s.SRU)
	r.With(SRURecoverer()).Head(cfg.SRUPath, s.SRU)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	return r
}
